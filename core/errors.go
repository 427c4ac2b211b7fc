package core

import (
	"errors"
	"strings"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrUnknownWallet       = errors.New("unknown wallet type")
	ErrConfiguration       = errors.New("configuration error")
	ErrWalletNotInstalled  = errors.New("wallet app is not installed")
	ErrUserRejected        = errors.New("request rejected by user")
	ErrNoAccount           = errors.New("no account returned from wallet")
	ErrNoProvider          = errors.New("no wallet provider available for signing")
	ErrNotConnected        = errors.New("no wallet connected")
	ErrAlreadyConnected    = errors.New("wallet already connected")
	ErrOperationInProgress = errors.New("wallet operation already in progress")
	ErrOperationTimeout    = errors.New("wallet operation timed out")
	ErrInvalidSignature    = errors.New("invalid signature")
	ErrInvalidAddress      = errors.New("invalid address")
	ErrBiometricDenied     = errors.New("biometric authentication failed")
	ErrNotAuthenticated    = errors.New("wallet not authenticated")
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token has expired")
)

// IsRejection reports whether err means the user cancelled or rejected a wallet prompt.
// Wallet SDKs rarely expose typed errors, so the message is checked as well.
func IsRejection(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrUserRejected) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "cancelled") || strings.Contains(msg, "rejected")
}
