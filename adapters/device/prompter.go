package device

import (
	"context"
	"runtime"

	"github.com/layer-3/signa/core"
	"github.com/layer-3/signa/ports"
	"go.uber.org/zap"
)

// LogPrompter renders user prompts as log entries. When autoOpen is set it follows
// install prompts by opening the store page for the current platform.
type LogPrompter struct {
	linker   ports.Linker
	logger   *zap.Logger
	platform string
	autoOpen bool
}

// NewLogPrompter creates a prompter. platform is "ios" or "android"; any other value
// falls back to the App Store link.
func NewLogPrompter(linker ports.Linker, logger *zap.Logger, platform string, autoOpen bool) *LogPrompter {
	if platform == "" {
		platform = runtime.GOOS
	}
	return &LogPrompter{
		linker:   linker,
		logger:   logger,
		platform: platform,
		autoOpen: autoOpen,
	}
}

var _ ports.Prompter = (*LogPrompter)(nil)

// Alert logs a user-facing alert
func (p *LogPrompter) Alert(ctx context.Context, title, message string) {
	p.logger.Warn("alert", zap.String("title", title), zap.String("message", message))
}

// PromptInstall offers to install wallet
func (p *LogPrompter) PromptInstall(ctx context.Context, wallet core.WalletInfo) {
	url := StoreURL(wallet, p.platform)
	p.logger.Info("wallet not installed",
		zap.String("wallet", wallet.Name),
		zap.String("store_url", url),
	)

	if !p.autoOpen || url == "" {
		return
	}
	if err := p.linker.Open(ctx, url); err != nil {
		p.logger.Warn("failed to open store page", zap.String("url", url), zap.Error(err))
	}
}

// StoreURL picks the install link for platform
func StoreURL(wallet core.WalletInfo, platform string) string {
	if platform == "android" && wallet.PlayStore != "" {
		return wallet.PlayStore
	}
	if wallet.AppStore != "" {
		return wallet.AppStore
	}
	return wallet.PlayStore
}
