package device

import (
	"context"

	"github.com/layer-3/signa/ports"
)

// StaticBiometrics answers biometric prompts with a fixed outcome
type StaticBiometrics struct {
	Required bool
	Allow    bool
}

var _ ports.Biometrics = StaticBiometrics{}

// ShouldRequireBiometrics reports whether signing must be gated
func (b StaticBiometrics) ShouldRequireBiometrics() bool {
	return b.Required
}

// Authenticate returns the configured outcome
func (b StaticBiometrics) Authenticate(ctx context.Context, reason string) (bool, error) {
	return b.Allow, nil
}
