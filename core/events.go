package core

import "time"

// WalletEventType names a wallet lifecycle transition
type WalletEventType string

const (
	EventConnected    WalletEventType = "connected"
	EventSigned       WalletEventType = "signed"
	EventDisconnected WalletEventType = "disconnected"
	EventRestored     WalletEventType = "restored"
)

// WalletEvent is published whenever the wallet identity or its signed challenge changes
type WalletEvent struct {
	Type       WalletEventType `json:"type"`
	Address    string          `json:"address,omitempty"`
	ChainType  ChainType       `json:"chain_type,omitempty"`
	WalletType WalletType      `json:"wallet_type,omitempty"`
	At         time.Time       `json:"at"`
}
