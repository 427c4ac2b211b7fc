package ports

import (
	"context"

	"github.com/layer-3/signa/core"
)

// Linker checks and opens deep links on the device
type Linker interface {
	CanOpen(ctx context.Context, scheme string) (bool, error)
	Open(ctx context.Context, uri string) error
}

// Prompter shows user-facing alerts owned by the UI layer
type Prompter interface {
	Alert(ctx context.Context, title, message string)
	PromptInstall(ctx context.Context, wallet core.WalletInfo)
}

// Biometrics gates sensitive operations behind device authentication
type Biometrics interface {
	ShouldRequireBiometrics() bool
	Authenticate(ctx context.Context, reason string) (bool, error)
}
