package device

import (
	"context"
	"testing"

	"github.com/layer-3/signa/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestStaticLinker_CanOpen(t *testing.T) {
	linker := NewStaticLinker([]string{"phantom", "MetaMask://", " cbwallet: "}, zaptest.NewLogger(t))
	ctx := context.Background()

	for _, scheme := range []string{"phantom://", "metamask://", "cbwallet://", "phantom"} {
		ok, err := linker.CanOpen(ctx, scheme)
		require.NoError(t, err)
		assert.True(t, ok, scheme)
	}

	ok, err := linker.CanOpen(ctx, "solflare://")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLogPrompter_PromptInstall(t *testing.T) {
	ctx := context.Background()
	phantom, ok := core.LookupWallet(core.WalletPhantom)
	require.True(t, ok)

	t.Run("opens the store page for the platform", func(t *testing.T) {
		linker := NewStaticLinker(nil, zaptest.NewLogger(t))
		NewLogPrompter(linker, zaptest.NewLogger(t), "android", true).PromptInstall(ctx, phantom)
		assert.Equal(t, []string{phantom.PlayStore}, linker.Opened())
	})

	t.Run("log only", func(t *testing.T) {
		linker := NewStaticLinker(nil, zaptest.NewLogger(t))
		prompter := NewLogPrompter(linker, zaptest.NewLogger(t), "ios", false)
		prompter.PromptInstall(ctx, phantom)
		prompter.Alert(ctx, "Configuration Error", "missing project id")
		assert.Empty(t, linker.Opened())
	})

	t.Run("wallet without store links", func(t *testing.T) {
		solflare, _ := core.LookupWallet(core.WalletSolflare)
		linker := NewStaticLinker(nil, zaptest.NewLogger(t))
		NewLogPrompter(linker, zaptest.NewLogger(t), "ios", true).PromptInstall(ctx, solflare)
		assert.Empty(t, linker.Opened())
	})
}

func TestStoreURL(t *testing.T) {
	metamask, _ := core.LookupWallet(core.WalletMetaMask)
	assert.Equal(t, metamask.AppStore, StoreURL(metamask, "ios"))
	assert.Equal(t, metamask.PlayStore, StoreURL(metamask, "android"))
	assert.Equal(t, metamask.AppStore, StoreURL(metamask, "linux"))
	assert.Equal(t, "https://play", StoreURL(core.WalletInfo{PlayStore: "https://play"}, "ios"))
}

func TestStaticBiometrics(t *testing.T) {
	bio := StaticBiometrics{Required: true, Allow: false}
	assert.True(t, bio.ShouldRequireBiometrics())

	ok, err := bio.Authenticate(context.Background(), "sign")
	require.NoError(t, err)
	assert.False(t, ok)
}
