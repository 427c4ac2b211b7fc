package mocks

import (
	"context"
	"encoding/json"

	"github.com/layer-3/signa/core"
	"github.com/layer-3/signa/ports"
	"github.com/stretchr/testify/mock"
)

// Linker mocks ports.Linker
type Linker struct {
	mock.Mock
}

var _ ports.Linker = (*Linker)(nil)

func (m *Linker) CanOpen(ctx context.Context, scheme string) (bool, error) {
	args := m.Called(ctx, scheme)
	return args.Bool(0), args.Error(1)
}

func (m *Linker) Open(ctx context.Context, uri string) error {
	args := m.Called(ctx, uri)
	return args.Error(0)
}

// Prompter mocks ports.Prompter
type Prompter struct {
	mock.Mock
}

var _ ports.Prompter = (*Prompter)(nil)

func (m *Prompter) Alert(ctx context.Context, title, message string) {
	m.Called(ctx, title, message)
}

func (m *Prompter) PromptInstall(ctx context.Context, wallet core.WalletInfo) {
	m.Called(ctx, wallet)
}

// Biometrics mocks ports.Biometrics
type Biometrics struct {
	mock.Mock
}

var _ ports.Biometrics = (*Biometrics)(nil)

func (m *Biometrics) ShouldRequireBiometrics() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *Biometrics) Authenticate(ctx context.Context, reason string) (bool, error) {
	args := m.Called(ctx, reason)
	return args.Bool(0), args.Error(1)
}

// RelayProvider mocks ports.RelayProvider
type RelayProvider struct {
	mock.Mock
}

var _ ports.RelayProvider = (*RelayProvider)(nil)

func (m *RelayProvider) RequestPairing(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *RelayProvider) IsPaired() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *RelayProvider) Request(ctx context.Context, req ports.RelayRequest) (json.RawMessage, error) {
	args := m.Called(ctx, req)
	var raw json.RawMessage
	if v := args.Get(0); v != nil {
		raw = v.(json.RawMessage)
	}
	return raw, args.Error(1)
}

func (m *RelayProvider) Disconnect(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
