package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/99designs/keyring"
	"github.com/layer-3/signa/core"
	"github.com/layer-3/signa/ports"
)

// KeyringStore keeps session records in the operating system keyring.
// The wallet record carries the Solana auth token, so this is the preferred backend on desktops.
type KeyringStore struct {
	ring keyring.Keyring
}

// OpenKeyring opens the system keyring for the given service name
func OpenKeyring(serviceName, fileDir string) (*KeyringStore, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  fileDir,
		FilePasswordFunc:         keyring.FixedStringPrompt(serviceName + "-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return NewKeyringStore(ring), nil
}

// NewKeyringStore wraps an already opened keyring
func NewKeyringStore(ring keyring.Keyring) *KeyringStore {
	return &KeyringStore{ring: ring}
}

var _ ports.KeyValue = (*KeyringStore)(nil)

// Get retrieves a value by key
func (s *KeyringStore) Get(ctx context.Context, key string) (string, error) {
	item, err := s.ring.Get(key)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", core.ErrNotFound
		}
		return "", fmt.Errorf("getting credential %q: %w", key, err)
	}
	return string(item.Data), nil
}

// Set stores a value under key
func (s *KeyringStore) Set(ctx context.Context, key, value string) error {
	err := s.ring.Set(keyring.Item{
		Key:  key,
		Data: []byte(value),
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}
	return nil
}

// Remove deletes a key. Removing a missing key is not an error.
func (s *KeyringStore) Remove(ctx context.Context, key string) error {
	err := s.ring.Remove(key)
	// the file backend reports a missing item as a filesystem error
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}
	return nil
}

// RemoveMany deletes several keys, continuing past failures
func (s *KeyringStore) RemoveMany(ctx context.Context, keys []string) error {
	var errs []error
	for _, key := range keys {
		if err := s.Remove(ctx, key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
