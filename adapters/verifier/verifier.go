package verifier

import (
	"crypto/ed25519"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gagliardetto/solana-go"
	"github.com/layer-3/signa/core"
	"github.com/layer-3/signa/ports"
	"github.com/mr-tron/base58"
)

// Verifier checks wallet signatures over challenge messages for both supported chains
type Verifier struct{}

// New creates a new verifier
func New() *Verifier {
	return &Verifier{}
}

var _ ports.SignatureVerifier = (*Verifier)(nil)

// Verify checks that signature over message was produced by address
func (v *Verifier) Verify(chain core.ChainType, address, message, signature string) error {
	switch chain {
	case core.ChainEVM:
		return VerifyPersonalSign(address, message, signature)
	case core.ChainSolana:
		return VerifyEd25519(address, message, signature)
	default:
		return fmt.Errorf("unsupported chain %q", chain)
	}
}

// VerifyPersonalSign verifies a hex encoded personal_sign signature
func VerifyPersonalSign(address, message, signature string) error {
	if !common.IsHexAddress(address) {
		return core.ErrInvalidAddress
	}

	sig, err := hexutil.Decode(signature)
	if err != nil {
		return fmt.Errorf("failed to decode signature: %w", core.ErrInvalidSignature)
	}
	if len(sig) != crypto.SignatureLength {
		return fmt.Errorf("signature must be %d bytes: %w", crypto.SignatureLength, core.ErrInvalidSignature)
	}

	// Wallets return V as 27/28; recovery expects 0/1
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}

	pub, err := crypto.SigToPub(accounts.TextHash([]byte(message)), sig)
	if err != nil {
		return fmt.Errorf("failed to recover signer: %w", core.ErrInvalidSignature)
	}

	if crypto.PubkeyToAddress(*pub) != common.HexToAddress(address) {
		return fmt.Errorf("recovered address does not match: %w", core.ErrInvalidSignature)
	}
	return nil
}

// VerifyEd25519 verifies a base58 encoded ed25519 signature against a base58 public key
func VerifyEd25519(address, message, signature string) error {
	pub, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return fmt.Errorf("%w: %w", core.ErrInvalidAddress, err)
	}

	sig, err := base58.Decode(signature)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return fmt.Errorf("malformed signature: %w", core.ErrInvalidSignature)
	}

	if !ed25519.Verify(ed25519.PublicKey(pub[:]), []byte(message), sig) {
		return core.ErrInvalidSignature
	}
	return nil
}
