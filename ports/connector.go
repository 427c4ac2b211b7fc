package ports

import (
	"context"

	"github.com/layer-3/signa/core"
)

// SignResult carries a signature and, for wallets with rotating authorization, the new auth token.
// AuthToken may be set even when signing failed after re-authorization succeeded.
type SignResult struct {
	Signature string
	AuthToken string
}

// Connector is the common contract of the EVM and Solana connectors
type Connector interface {
	// Connect performs the wallet handshake and returns the connected account
	Connect(ctx context.Context, walletType core.WalletType) (core.Account, error)

	// SignMessage asks the wallet to sign message with the account's key
	SignMessage(ctx context.Context, account core.Account, message string) (SignResult, error)

	// Disconnect tears down the transport session. It is best effort.
	Disconnect(ctx context.Context, account core.Account) error
}

// SignatureVerifier checks that a signature over message was produced by address
type SignatureVerifier interface {
	Verify(chain core.ChainType, address, message, signature string) error
}
