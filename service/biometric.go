package service

import (
	"context"
	"fmt"

	"github.com/layer-3/signa/core"
	"github.com/layer-3/signa/ports"
)

const signReason = "Confirm your identity to sign in with your wallet"

// MessageSigner is the part of the wallet service the guard wraps
type MessageSigner interface {
	SignMessage(ctx context.Context, message string) (*core.SignedChallenge, error)
}

// GuardedSigner asks for biometric confirmation before forwarding a signing request
type GuardedSigner struct {
	signer     MessageSigner
	biometrics ports.Biometrics
}

// NewGuardedSigner wraps signer with a biometric check. A nil biometrics disables the check.
func NewGuardedSigner(signer MessageSigner, biometrics ports.Biometrics) *GuardedSigner {
	return &GuardedSigner{
		signer:     signer,
		biometrics: biometrics,
	}
}

// SignMessage signs message once the device owner is confirmed
func (g *GuardedSigner) SignMessage(ctx context.Context, message string) (*core.SignedChallenge, error) {
	if g.biometrics != nil && g.biometrics.ShouldRequireBiometrics() {
		ok, err := g.biometrics.Authenticate(ctx, signReason)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", core.ErrBiometricDenied, err)
		}
		if !ok {
			return nil, core.ErrBiometricDenied
		}
	}
	return g.signer.SignMessage(ctx, message)
}
