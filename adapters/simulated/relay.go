package simulated

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/layer-3/signa/adapters/evm"
	"github.com/layer-3/signa/ports"
)

// Relay is an in-process relay provider backed by local secp256k1 keys.
// Signatures are real personal_sign signatures, so they pass verification.
type Relay struct {
	keys  []*ecdsa.PrivateKey
	delay time.Duration

	mu            sync.Mutex
	paired        bool
	rejectPairing bool
	rejectSigning bool
	requests      []ports.RelayRequest
}

// NewRelay creates a relay holding the given keys. With no keys a fresh one is generated.
func NewRelay(keys ...*ecdsa.PrivateKey) (*Relay, error) {
	if len(keys) == 0 {
		key, err := crypto.GenerateKey()
		if err != nil {
			return nil, fmt.Errorf("failed to generate key: %w", err)
		}
		keys = []*ecdsa.PrivateKey{key}
	}
	return &Relay{keys: keys}, nil
}

var _ ports.RelayProvider = (*Relay)(nil)

// SetDelay makes every wallet interaction wait d before answering
func (r *Relay) SetDelay(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delay = d
}

// SetRejectPairing makes the pairing modal close without a session
func (r *Relay) SetRejectPairing(reject bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejectPairing = reject
}

// SetRejectSigning makes personal_sign fail with a user rejection
func (r *Relay) SetRejectSigning(reject bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejectSigning = reject
}

// Address returns the address of the first key
func (r *Relay) Address() common.Address {
	return crypto.PubkeyToAddress(r.keys[0].PublicKey)
}

// Requests returns the JSON-RPC requests seen so far
func (r *Relay) Requests() []ports.RelayRequest {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]ports.RelayRequest, len(r.requests))
	copy(out, r.requests)
	return out
}

// RequestPairing simulates the pairing modal
func (r *Relay) RequestPairing(ctx context.Context) error {
	if err := r.wait(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.paired = !r.rejectPairing
	return nil
}

// IsPaired reports whether a session is established
func (r *Relay) IsPaired() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.paired
}

// Request answers eth_accounts and personal_sign
func (r *Relay) Request(ctx context.Context, req ports.RelayRequest) (json.RawMessage, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.requests = append(r.requests, req)
	if !r.paired {
		return nil, errors.New("relay session not established")
	}

	switch req.Method {
	case "eth_accounts":
		addrs := make([]string, 0, len(r.keys))
		for _, key := range r.keys {
			addrs = append(addrs, crypto.PubkeyToAddress(key.PublicKey).Hex())
		}
		return json.Marshal(addrs)

	case "personal_sign":
		if r.rejectSigning {
			return nil, &evm.RPCError{Code: evm.CodeUserRejected, Message: "User rejected the request."}
		}
		return r.personalSign(req.Params)

	default:
		return nil, &evm.RPCError{Code: -32601, Message: "method not found: " + req.Method}
	}
}

// Disconnect ends the session
func (r *Relay) Disconnect(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paired = false
	return nil
}

func (r *Relay) personalSign(params []any) (json.RawMessage, error) {
	if len(params) != 2 {
		return nil, &evm.RPCError{Code: -32602, Message: "personal_sign expects [message, address]"}
	}
	message, ok1 := params[0].(string)
	address, ok2 := params[1].(string)
	if !ok1 || !ok2 {
		return nil, &evm.RPCError{Code: -32602, Message: "invalid params"}
	}

	key := r.keyFor(address)
	if key == nil {
		return nil, &evm.RPCError{Code: 4100, Message: "unauthorized account"}
	}

	sig, err := crypto.Sign(accounts.TextHash([]byte(message)), key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign: %w", err)
	}
	sig[crypto.RecoveryIDOffset] += 27

	return json.Marshal(hexutil.Encode(sig))
}

func (r *Relay) keyFor(address string) *ecdsa.PrivateKey {
	for _, key := range r.keys {
		if strings.EqualFold(crypto.PubkeyToAddress(key.PublicKey).Hex(), address) {
			return key
		}
	}
	return nil
}

func (r *Relay) wait(ctx context.Context) error {
	r.mu.Lock()
	d := r.delay
	r.mu.Unlock()

	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
