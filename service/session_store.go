package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/layer-3/signa/core"
	"github.com/layer-3/signa/ports"
)

const (
	// WalletRecordKey holds the last connected wallet identity
	WalletRecordKey = "@signa_wallet"

	// ChallengeRecordKey holds the last signed challenge
	ChallengeRecordKey = "@signa_auth"
)

// walletRecord is the persisted wallet identity
type walletRecord struct {
	Address    string          `json:"address"`
	ChainType  core.ChainType  `json:"chainType"`
	WalletType core.WalletType `json:"walletType"`
	AuthToken  string          `json:"authToken,omitempty"`
}

// SessionStore is the single reader and writer of persisted wallet state
type SessionStore struct {
	kv ports.KeyValue
}

// NewSessionStore creates a session store on top of a key-value backend
func NewSessionStore(kv ports.KeyValue) *SessionStore {
	return &SessionStore{kv: kv}
}

// SaveAccount persists the wallet identity
func (s *SessionStore) SaveAccount(ctx context.Context, account core.Account) error {
	record := walletRecord{
		Address:    account.Address,
		ChainType:  account.ChainType,
		WalletType: account.WalletType,
	}
	if account.ChainType == core.ChainSolana {
		record.AuthToken = account.AuthToken
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal wallet record: %w", err)
	}

	if err := s.kv.Set(ctx, WalletRecordKey, string(payload)); err != nil {
		return fmt.Errorf("failed to save wallet record: %w", err)
	}
	return nil
}

// LoadAccount reads the persisted wallet identity. It returns core.ErrNotFound when none is stored.
// An unreadable record is purged together with the challenge it backed.
func (s *SessionStore) LoadAccount(ctx context.Context) (core.Account, error) {
	raw, err := s.kv.Get(ctx, WalletRecordKey)
	if err != nil {
		return core.Account{}, err
	}

	var record walletRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return core.Account{}, errors.Join(
			fmt.Errorf("failed to decode wallet record: %w", err),
			s.Clear(ctx),
		)
	}

	return core.Account{
		Address:    record.Address,
		ChainType:  record.ChainType,
		WalletType: record.WalletType,
		AuthToken:  record.AuthToken,
	}, nil
}

// SaveChallenge persists a signed challenge
func (s *SessionStore) SaveChallenge(ctx context.Context, challenge core.SignedChallenge) error {
	payload, err := json.Marshal(challenge)
	if err != nil {
		return fmt.Errorf("failed to marshal challenge record: %w", err)
	}

	if err := s.kv.Set(ctx, ChallengeRecordKey, string(payload)); err != nil {
		return fmt.Errorf("failed to save challenge record: %w", err)
	}
	return nil
}

// LoadChallenge reads the persisted challenge. An expired or unreadable challenge is purged
// and reported as core.ErrNotFound.
func (s *SessionStore) LoadChallenge(ctx context.Context, now time.Time) (*core.SignedChallenge, error) {
	raw, err := s.kv.Get(ctx, ChallengeRecordKey)
	if err != nil {
		return nil, err
	}

	var challenge core.SignedChallenge
	if err := json.Unmarshal([]byte(raw), &challenge); err != nil {
		return nil, errors.Join(
			fmt.Errorf("failed to decode challenge record: %w", err),
			s.RemoveChallenge(ctx),
		)
	}

	if challenge.Expired(now) {
		if err := s.RemoveChallenge(ctx); err != nil {
			return nil, err
		}
		return nil, core.ErrNotFound
	}

	return &challenge, nil
}

// RemoveChallenge deletes the persisted challenge
func (s *SessionStore) RemoveChallenge(ctx context.Context) error {
	if err := s.kv.Remove(ctx, ChallengeRecordKey); err != nil {
		return fmt.Errorf("failed to remove challenge record: %w", err)
	}
	return nil
}

// Clear deletes both records
func (s *SessionStore) Clear(ctx context.Context) error {
	if err := s.kv.RemoveMany(ctx, []string{WalletRecordKey, ChallengeRecordKey}); err != nil {
		return fmt.Errorf("failed to clear session records: %w", err)
	}
	return nil
}
