package ports

import (
	"context"
	"encoding/json"
)

// RelayRequest is an EIP-1193 style JSON-RPC request sent through the relay session
type RelayRequest struct {
	Method string `json:"method"`
	Params []any  `json:"params,omitempty"`
}

// RelayProvider is the relay pairing SDK used to reach external EVM wallets
type RelayProvider interface {
	// RequestPairing opens the pairing modal and returns once it is closed
	RequestPairing(ctx context.Context) error

	// IsPaired reports whether a wallet session is established
	IsPaired() bool

	// Request sends a JSON-RPC request to the paired wallet
	Request(ctx context.Context, req RelayRequest) (json.RawMessage, error)

	// Disconnect ends the relay session
	Disconnect(ctx context.Context) error
}
