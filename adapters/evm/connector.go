package evm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/layer-3/signa/core"
	"github.com/layer-3/signa/ports"
	"go.uber.org/zap"
)

// Connector connects EVM wallets through the relay pairing modal
type Connector struct {
	provider  ports.RelayProvider
	linker    ports.Linker
	prompter  ports.Prompter
	projectID string
	logger    *zap.Logger
}

// NewConnector creates an EVM connector. projectID is the relay project identifier;
// connecting without one fails with core.ErrConfiguration.
func NewConnector(provider ports.RelayProvider, linker ports.Linker, prompter ports.Prompter, projectID string, logger *zap.Logger) *Connector {
	return &Connector{
		provider:  provider,
		linker:    linker,
		prompter:  prompter,
		projectID: projectID,
		logger:    logger,
	}
}

var _ ports.Connector = (*Connector)(nil)

// Connect pairs with an external wallet and returns its first account
func (c *Connector) Connect(ctx context.Context, walletType core.WalletType) (core.Account, error) {
	if c.projectID == "" {
		c.prompter.Alert(ctx, "Configuration Error",
			"WalletConnect Project ID is not configured. Please add it to your .env file.")
		return core.Account{}, fmt.Errorf("%w: relay project id is not set", core.ErrConfiguration)
	}

	info, ok := core.LookupWallet(walletType)
	if !ok || info.ChainType != core.ChainEVM {
		return core.Account{}, fmt.Errorf("%w: %s", core.ErrUnknownWallet, walletType)
	}

	// MetaMask is reached through its own app, so it must be installed first
	if walletType == core.WalletMetaMask {
		installed, err := c.linker.CanOpen(ctx, info.Scheme)
		if err != nil {
			c.logger.Warn("metamask capability check failed", zap.Error(err))
		}
		if err != nil || !installed {
			c.prompter.PromptInstall(ctx, info)
			return core.Account{}, fmt.Errorf("%w: %s", core.ErrWalletNotInstalled, info.Name)
		}
	}

	if err := c.provider.RequestPairing(ctx); err != nil {
		return core.Account{}, fmt.Errorf("relay pairing failed: %w", err)
	}
	if !c.provider.IsPaired() {
		return core.Account{}, fmt.Errorf("%w: pairing modal dismissed", core.ErrUserRejected)
	}

	raw, err := c.provider.Request(ctx, ports.RelayRequest{Method: "eth_accounts"})
	if err != nil {
		return core.Account{}, fmt.Errorf("failed to read accounts: %w", err)
	}

	var accounts []string
	if err := json.Unmarshal(raw, &accounts); err != nil {
		return core.Account{}, fmt.Errorf("failed to decode accounts: %w", err)
	}
	if len(accounts) == 0 || accounts[0] == "" {
		return core.Account{}, core.ErrNoAccount
	}

	return core.Account{
		Address:    accounts[0],
		ChainType:  core.ChainEVM,
		WalletType: walletType,
	}, nil
}

// SignMessage requests a personal_sign signature from the paired wallet
func (c *Connector) SignMessage(ctx context.Context, account core.Account, message string) (ports.SignResult, error) {
	if !c.provider.IsPaired() {
		return ports.SignResult{}, core.ErrNoProvider
	}

	raw, err := c.provider.Request(ctx, ports.RelayRequest{
		Method: "personal_sign",
		Params: []any{message, account.Address},
	})
	if err != nil {
		return ports.SignResult{}, fmt.Errorf("personal_sign failed: %w", err)
	}

	var signature string
	if err := json.Unmarshal(raw, &signature); err != nil {
		return ports.SignResult{}, fmt.Errorf("failed to decode signature: %w", err)
	}
	if signature == "" {
		return ports.SignResult{}, fmt.Errorf("%w: empty signature", core.ErrInvalidSignature)
	}

	return ports.SignResult{Signature: signature}, nil
}

// Disconnect ends the relay session if one is paired
func (c *Connector) Disconnect(ctx context.Context, account core.Account) error {
	if !c.provider.IsPaired() {
		return nil
	}
	if err := c.provider.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect relay session: %w", err)
	}
	return nil
}
