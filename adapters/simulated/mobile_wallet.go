package simulated

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"github.com/layer-3/signa/core"
	"github.com/layer-3/signa/ports"
)

var errInvalidAuthToken = errors.New("authorization token is not valid")

// MobileWallet is an in-process Solana wallet app reachable through Transact.
// Every authorize and reauthorize hands out a fresh auth token and invalidates the previous one.
type MobileWallet struct {
	key solana.PrivateKey

	mu              sync.Mutex
	tokens          map[string]bool
	delay           time.Duration
	rejectAuthorize bool
	rejectSigning   bool
	failDeauthorize bool
	sessions        int
}

// NewMobileWallet creates a wallet holding key. A zero key is replaced by a random one.
func NewMobileWallet(key solana.PrivateKey) (*MobileWallet, error) {
	if len(key) == 0 {
		var err error
		key, err = solana.NewRandomPrivateKey()
		if err != nil {
			return nil, fmt.Errorf("failed to generate key: %w", err)
		}
	}
	return &MobileWallet{
		key:    key,
		tokens: make(map[string]bool),
	}, nil
}

var (
	_ ports.Transactor   = (*MobileWallet)(nil)
	_ ports.MobileWallet = (*MobileWallet)(nil)
)

// PublicKey returns the wallet's account
func (w *MobileWallet) PublicKey() solana.PublicKey {
	return w.key.PublicKey()
}

// SetDelay makes every session wait d before running
func (w *MobileWallet) SetDelay(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.delay = d
}

// SetRejectAuthorize makes the user decline authorization
func (w *MobileWallet) SetRejectAuthorize(reject bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.rejectAuthorize = reject
}

// SetRejectSigning makes the user decline signing requests
func (w *MobileWallet) SetRejectSigning(reject bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.rejectSigning = reject
}

// SetFailDeauthorize makes deauthorize fail
func (w *MobileWallet) SetFailDeauthorize(fail bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.failDeauthorize = fail
}

// Sessions returns how many transact sessions were opened
func (w *MobileWallet) Sessions() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sessions
}

// TokenValid reports whether token is currently accepted by the wallet
func (w *MobileWallet) TokenValid(token string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tokens[token]
}

// Transact opens a wallet session and runs fn inside it
func (w *MobileWallet) Transact(ctx context.Context, fn func(ctx context.Context, wallet ports.MobileWallet) error) error {
	w.mu.Lock()
	w.sessions++
	d := w.delay
	w.mu.Unlock()

	if d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx, w)
}

// Authorize grants the app access to the wallet account
func (w *MobileWallet) Authorize(ctx context.Context, cluster string, identity ports.AppIdentity) (ports.Authorization, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.rejectAuthorize {
		return ports.Authorization{}, fmt.Errorf("authorization request declined: %w", core.ErrUserRejected)
	}
	return w.issueLocked(), nil
}

// Reauthorize exchanges a valid token for a new one
func (w *MobileWallet) Reauthorize(ctx context.Context, authToken string, identity ports.AppIdentity) (ports.Authorization, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.tokens[authToken] {
		return ports.Authorization{}, errInvalidAuthToken
	}
	delete(w.tokens, authToken)
	return w.issueLocked(), nil
}

// Deauthorize revokes a token
func (w *MobileWallet) Deauthorize(ctx context.Context, authToken string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.failDeauthorize {
		return errors.New("wallet unreachable")
	}
	delete(w.tokens, authToken)
	return nil
}

// SignMessages signs each payload with the wallet key
func (w *MobileWallet) SignMessages(ctx context.Context, addresses []string, payloads [][]byte) ([][]byte, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.rejectSigning {
		return nil, fmt.Errorf("sign request declined: %w", core.ErrUserRejected)
	}
	for _, addr := range addresses {
		if addr != w.key.PublicKey().String() {
			return nil, fmt.Errorf("account %s is not authorized", addr)
		}
	}

	out := make([][]byte, 0, len(payloads))
	for _, p := range payloads {
		sig, err := w.key.Sign(p)
		if err != nil {
			return nil, err
		}
		out = append(out, sig[:])
	}
	return out, nil
}

// SignTransactions fills in the wallet's signature slot of each serialized transaction
func (w *MobileWallet) SignTransactions(ctx context.Context, payloads [][]byte) ([][]byte, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.rejectSigning {
		return nil, fmt.Errorf("sign request declined: %w", core.ErrUserRejected)
	}

	out := make([][]byte, 0, len(payloads))
	for _, p := range payloads {
		signed, err := w.signTransaction(p)
		if err != nil {
			return nil, err
		}
		out = append(out, signed)
	}
	return out, nil
}

func (w *MobileWallet) signTransaction(payload []byte) ([]byte, error) {
	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(payload))
	if err != nil {
		return nil, fmt.Errorf("invalid transaction: %w", err)
	}

	content, err := tx.Message.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("invalid message: %w", err)
	}

	required := int(tx.Message.Header.NumRequiredSignatures)
	if len(tx.Signatures) < required {
		sigs := make([]solana.Signature, required)
		copy(sigs, tx.Signatures)
		tx.Signatures = sigs
	}

	pub := w.key.PublicKey()
	found := false
	for i := 0; i < required && i < len(tx.Message.AccountKeys); i++ {
		if !tx.Message.AccountKeys[i].Equals(pub) {
			continue
		}
		sig, err := w.key.Sign(content)
		if err != nil {
			return nil, err
		}
		tx.Signatures[i] = sig
		found = true
	}
	if !found {
		return nil, fmt.Errorf("account %s is not a signer", pub)
	}

	return tx.MarshalBinary()
}

func (w *MobileWallet) issueLocked() ports.Authorization {
	token := uuid.NewString()
	w.tokens[token] = true

	pub := w.key.PublicKey()
	return ports.Authorization{
		AuthToken: token,
		Accounts: []ports.AuthorizedAccount{
			{Address: pub.Bytes(), Label: "Simulated"},
		},
	}
}
