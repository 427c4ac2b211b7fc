package evm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/layer-3/signa/core"
	"github.com/layer-3/signa/mocks"
	"github.com/layer-3/signa/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fixture struct {
	relay    *mocks.RelayProvider
	linker   *mocks.Linker
	prompter *mocks.Prompter
	conn     *Connector
}

func newFixture(t *testing.T, projectID string) *fixture {
	f := &fixture{
		relay:    new(mocks.RelayProvider),
		linker:   new(mocks.Linker),
		prompter: new(mocks.Prompter),
	}
	f.conn = NewConnector(f.relay, f.linker, f.prompter, projectID, zaptest.NewLogger(t))
	return f
}

func TestConnector_Connect(t *testing.T) {
	ctx := context.Background()

	t.Run("first account is used", func(t *testing.T) {
		f := newFixture(t, "pid")
		f.relay.On("RequestPairing", mock.Anything).Return(nil).Once()
		f.relay.On("IsPaired").Return(true).Once()
		f.relay.On("Request", mock.Anything, ports.RelayRequest{Method: "eth_accounts"}).
			Return(json.RawMessage(`["0x1111","0x2222"]`), nil).Once()

		account, err := f.conn.Connect(ctx, core.WalletCoinbase)
		require.NoError(t, err)
		assert.Equal(t, core.Account{Address: "0x1111", ChainType: core.ChainEVM, WalletType: core.WalletCoinbase}, account)
		f.relay.AssertExpectations(t)
	})

	t.Run("missing project id", func(t *testing.T) {
		f := newFixture(t, "")
		f.prompter.On("Alert", mock.Anything, "Configuration Error", mock.Anything).Once()

		_, err := f.conn.Connect(ctx, core.WalletWalletConnect)
		assert.ErrorIs(t, err, core.ErrConfiguration)
		f.prompter.AssertExpectations(t)
		f.relay.AssertNotCalled(t, "RequestPairing", mock.Anything)
	})

	t.Run("metamask not installed", func(t *testing.T) {
		f := newFixture(t, "pid")
		f.linker.On("CanOpen", mock.Anything, "metamask://").Return(false, nil).Once()
		f.prompter.On("PromptInstall", mock.Anything, mock.MatchedBy(func(w core.WalletInfo) bool {
			return w.Type == core.WalletMetaMask && w.PlayStore != ""
		})).Once()

		_, err := f.conn.Connect(ctx, core.WalletMetaMask)
		assert.ErrorIs(t, err, core.ErrWalletNotInstalled)
		f.prompter.AssertExpectations(t)
		f.relay.AssertNotCalled(t, "RequestPairing", mock.Anything)
	})

	t.Run("capability check error counts as not installed", func(t *testing.T) {
		f := newFixture(t, "pid")
		f.linker.On("CanOpen", mock.Anything, "metamask://").Return(false, errors.New("no activity")).Once()
		f.prompter.On("PromptInstall", mock.Anything, mock.Anything).Once()

		_, err := f.conn.Connect(ctx, core.WalletMetaMask)
		assert.ErrorIs(t, err, core.ErrWalletNotInstalled)
	})

	t.Run("modal dismissed", func(t *testing.T) {
		f := newFixture(t, "pid")
		f.relay.On("RequestPairing", mock.Anything).Return(nil).Once()
		f.relay.On("IsPaired").Return(false).Once()

		_, err := f.conn.Connect(ctx, core.WalletWalletConnect)
		assert.ErrorIs(t, err, core.ErrUserRejected)
		assert.True(t, core.IsRejection(err))
	})

	t.Run("no accounts", func(t *testing.T) {
		f := newFixture(t, "pid")
		f.relay.On("RequestPairing", mock.Anything).Return(nil).Once()
		f.relay.On("IsPaired").Return(true).Once()
		f.relay.On("Request", mock.Anything, mock.Anything).Return(json.RawMessage(`[]`), nil).Once()

		_, err := f.conn.Connect(ctx, core.WalletWalletConnect)
		assert.ErrorIs(t, err, core.ErrNoAccount)
	})

	t.Run("solana wallet rejected", func(t *testing.T) {
		f := newFixture(t, "pid")
		_, err := f.conn.Connect(ctx, core.WalletPhantom)
		assert.ErrorIs(t, err, core.ErrUnknownWallet)
	})
}

func TestConnector_SignMessage(t *testing.T) {
	ctx := context.Background()
	account := core.Account{Address: "0x1111", ChainType: core.ChainEVM, WalletType: core.WalletWalletConnect}

	t.Run("personal_sign", func(t *testing.T) {
		f := newFixture(t, "pid")
		f.relay.On("IsPaired").Return(true).Once()
		f.relay.On("Request", mock.Anything, ports.RelayRequest{
			Method: "personal_sign",
			Params: []any{"hello", "0x1111"},
		}).Return(json.RawMessage(`"0xsig"`), nil).Once()

		res, err := f.conn.SignMessage(ctx, account, "hello")
		require.NoError(t, err)
		assert.Equal(t, "0xsig", res.Signature)
		assert.Empty(t, res.AuthToken)
	})

	t.Run("not paired", func(t *testing.T) {
		f := newFixture(t, "pid")
		f.relay.On("IsPaired").Return(false).Once()

		_, err := f.conn.SignMessage(ctx, account, "hello")
		assert.ErrorIs(t, err, core.ErrNoProvider)
	})

	t.Run("user rejected", func(t *testing.T) {
		f := newFixture(t, "pid")
		f.relay.On("IsPaired").Return(true).Once()
		f.relay.On("Request", mock.Anything, mock.Anything).
			Return(nil, &RPCError{Code: CodeUserRejected, Message: "User denied message signature."}).Once()

		_, err := f.conn.SignMessage(ctx, account, "hello")
		assert.ErrorIs(t, err, core.ErrUserRejected)

		var rpcErr *RPCError
		require.ErrorAs(t, err, &rpcErr)
		assert.Equal(t, CodeUserRejected, rpcErr.Code)
	})
}

func TestConnector_Disconnect(t *testing.T) {
	ctx := context.Background()

	t.Run("paired", func(t *testing.T) {
		f := newFixture(t, "pid")
		f.relay.On("IsPaired").Return(true).Once()
		f.relay.On("Disconnect", mock.Anything).Return(errors.New("socket closed")).Once()

		assert.Error(t, f.conn.Disconnect(ctx, core.Account{}))
	})

	t.Run("not paired", func(t *testing.T) {
		f := newFixture(t, "pid")
		f.relay.On("IsPaired").Return(false).Once()

		assert.NoError(t, f.conn.Disconnect(ctx, core.Account{}))
		f.relay.AssertNotCalled(t, "Disconnect", mock.Anything)
	})
}

func TestRPCError_Is(t *testing.T) {
	assert.ErrorIs(t, &RPCError{Code: CodeUserRejected}, core.ErrUserRejected)
	assert.NotErrorIs(t, &RPCError{Code: -32603}, core.ErrUserRejected)
}
