package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/layer-3/signa/adapters/simulated"
	"github.com/layer-3/signa/adapters/store"
	"github.com/layer-3/signa/core"
	"github.com/layer-3/signa/ports"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var testNow = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func newTestService(t *testing.T, kv ports.KeyValue, connectors map[core.ChainType]ports.Connector, opts ...Option) *WalletService {
	t.Helper()
	opts = append([]Option{WithLogger(zaptest.NewLogger(t)), WithClock(fixedClock)}, opts...)
	return OpenWalletService(context.Background(), NewSessionStore(kv), connectors, opts...)
}

func requireDisconnected(t *testing.T, svc *WalletService, kv *store.MemoryStore) {
	t.Helper()
	snap := svc.Snapshot()
	require.Equal(t, core.StatusDisconnected, snap.Session.ConnectionStatus)
	require.Equal(t, core.SigningIdle, snap.Session.SigningStatus)
	require.Empty(t, snap.Session.Address)
	require.Nil(t, snap.Challenge)
	if kv != nil {
		require.Zero(t, kv.Len())
	}
}

// blockingConnector parks Connect and SignMessage until released or cancelled
type blockingConnector struct {
	account   core.Account
	ignoreCtx bool
	entered   chan struct{}
	release   chan struct{}

	mu          sync.Mutex
	disconnects []core.Account
}

func newBlockingConnector(account core.Account) *blockingConnector {
	return &blockingConnector{
		account: account,
		entered: make(chan struct{}, 8),
		release: make(chan struct{}),
	}
}

func (c *blockingConnector) wait(ctx context.Context) error {
	c.entered <- struct{}{}
	if c.ignoreCtx {
		<-c.release
		return nil
	}
	select {
	case <-c.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *blockingConnector) Connect(ctx context.Context, walletType core.WalletType) (core.Account, error) {
	if err := c.wait(ctx); err != nil {
		return core.Account{}, err
	}
	return c.account, nil
}

func (c *blockingConnector) SignMessage(ctx context.Context, account core.Account, message string) (ports.SignResult, error) {
	if err := c.wait(ctx); err != nil {
		return ports.SignResult{}, err
	}
	return ports.SignResult{Signature: "0xsig"}, nil
}

func (c *blockingConnector) Disconnect(ctx context.Context, account core.Account) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disconnects = append(c.disconnects, account)
	return nil
}

func (c *blockingConnector) Disconnects() []core.Account {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]core.Account(nil), c.disconnects...)
}

// stallingWallet rotates the auth token like a real wallet, then parks in SignMessages and
// SignTransactions until the session context ends
type stallingWallet struct {
	*simulated.MobileWallet
	entered chan struct{}

	mu      sync.Mutex
	rotated []string
}

func newStallingWallet(t *testing.T) *stallingWallet {
	t.Helper()
	wallet, err := simulated.NewMobileWallet(nil)
	require.NoError(t, err)
	return &stallingWallet{MobileWallet: wallet, entered: make(chan struct{}, 1)}
}

func (w *stallingWallet) Transact(ctx context.Context, fn func(ctx context.Context, wallet ports.MobileWallet) error) error {
	return w.MobileWallet.Transact(ctx, func(ctx context.Context, _ ports.MobileWallet) error {
		return fn(ctx, w)
	})
}

func (w *stallingWallet) Reauthorize(ctx context.Context, authToken string, identity ports.AppIdentity) (ports.Authorization, error) {
	auth, err := w.MobileWallet.Reauthorize(ctx, authToken, identity)
	if err == nil {
		w.mu.Lock()
		w.rotated = append(w.rotated, auth.AuthToken)
		w.mu.Unlock()
	}
	return auth, err
}

func (w *stallingWallet) SignMessages(ctx context.Context, addresses []string, payloads [][]byte) ([][]byte, error) {
	w.entered <- struct{}{}
	<-ctx.Done()
	return nil, ctx.Err()
}

func (w *stallingWallet) SignTransactions(ctx context.Context, payloads [][]byte) ([][]byte, error) {
	w.entered <- struct{}{}
	<-ctx.Done()
	return nil, ctx.Err()
}

func (w *stallingWallet) Rotated() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.rotated...)
}

func newTransferTransaction(t *testing.T, payer solana.PublicKey) *solana.Transaction {
	t.Helper()
	tx, err := solana.NewTransaction(
		[]solana.Instruction{
			system.NewTransferInstruction(1000, payer, solana.NewWallet().PublicKey()).Build(),
		},
		solana.Hash{},
		solana.TransactionPayer(payer),
	)
	require.NoError(t, err)
	return tx
}
