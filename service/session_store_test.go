package service

import (
	"context"
	"testing"
	"time"

	"github.com/layer-3/signa/adapters/store"
	"github.com/layer-3/signa/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore_Account(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	sessions := NewSessionStore(kv)

	_, err := sessions.LoadAccount(ctx)
	assert.ErrorIs(t, err, core.ErrNotFound)

	t.Run("evm drops auth token", func(t *testing.T) {
		require.NoError(t, sessions.SaveAccount(ctx, core.Account{
			Address:    "0xAbC",
			ChainType:  core.ChainEVM,
			WalletType: core.WalletMetaMask,
			AuthToken:  "should-not-persist",
		}))

		raw, err := kv.Get(ctx, WalletRecordKey)
		require.NoError(t, err)
		assert.JSONEq(t, `{"address":"0xAbC","chainType":"evm","walletType":"metamask"}`, raw)
	})

	t.Run("solana keeps auth token", func(t *testing.T) {
		account := core.Account{
			Address:    "9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM",
			ChainType:  core.ChainSolana,
			WalletType: core.WalletPhantom,
			AuthToken:  "token-1",
		}
		require.NoError(t, sessions.SaveAccount(ctx, account))

		loaded, err := sessions.LoadAccount(ctx)
		require.NoError(t, err)
		assert.Equal(t, account, loaded)
	})

	t.Run("corrupt record is purged", func(t *testing.T) {
		require.NoError(t, kv.Set(ctx, WalletRecordKey, "{not json"))
		require.NoError(t, sessions.SaveChallenge(ctx, core.SignedChallenge{Signature: "s", Message: "m", SignedAt: 1}))

		_, err := sessions.LoadAccount(ctx)
		require.Error(t, err)
		assert.NotErrorIs(t, err, core.ErrNotFound)
		assert.Zero(t, kv.Len())

		_, err = sessions.LoadAccount(ctx)
		assert.ErrorIs(t, err, core.ErrNotFound)
	})
}

func TestSessionStore_Challenge(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("persisted shape", func(t *testing.T) {
		kv := store.NewMemoryStore()
		sessions := NewSessionStore(kv)
		require.NoError(t, sessions.SaveChallenge(ctx, core.SignedChallenge{Signature: "0xsig", Message: "m", SignedAt: 1700000000000}))

		raw, err := kv.Get(ctx, ChallengeRecordKey)
		require.NoError(t, err)
		assert.JSONEq(t, `{"signature":"0xsig","message":"m","timestamp":1700000000000}`, raw)
	})

	t.Run("fresh challenge is returned", func(t *testing.T) {
		sessions := NewSessionStore(store.NewMemoryStore())
		saved := core.SignedChallenge{Signature: "0xsig", Message: "m", SignedAt: now.Add(-time.Hour).UnixMilli()}
		require.NoError(t, sessions.SaveChallenge(ctx, saved))

		loaded, err := sessions.LoadChallenge(ctx, now)
		require.NoError(t, err)
		assert.Equal(t, saved, *loaded)
	})

	t.Run("expired challenge is purged", func(t *testing.T) {
		kv := store.NewMemoryStore()
		sessions := NewSessionStore(kv)
		require.NoError(t, sessions.SaveChallenge(ctx, core.SignedChallenge{Signature: "0xsig", SignedAt: now.Add(-25 * time.Hour).UnixMilli()}))

		_, err := sessions.LoadChallenge(ctx, now)
		assert.ErrorIs(t, err, core.ErrNotFound)
		assert.Zero(t, kv.Len())
	})

	t.Run("corrupt challenge is purged", func(t *testing.T) {
		kv := store.NewMemoryStore()
		require.NoError(t, kv.Set(ctx, ChallengeRecordKey, "[]"))

		_, err := NewSessionStore(kv).LoadChallenge(ctx, now)
		require.Error(t, err)
		assert.Zero(t, kv.Len())
	})
}

func TestSessionStore_Clear(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	sessions := NewSessionStore(kv)

	require.NoError(t, sessions.SaveAccount(ctx, core.Account{Address: "0x1", ChainType: core.ChainEVM, WalletType: core.WalletCoinbase}))
	require.NoError(t, sessions.SaveChallenge(ctx, core.SignedChallenge{Signature: "s"}))
	require.NoError(t, kv.Set(ctx, "unrelated", "kept"))

	require.NoError(t, sessions.Clear(ctx))
	assert.Equal(t, 1, kv.Len())
}
