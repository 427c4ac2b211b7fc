package mocks

import (
	"context"

	"github.com/layer-3/signa/core"
	"github.com/layer-3/signa/ports"
	"github.com/stretchr/testify/mock"
)

// Connector mocks ports.Connector
type Connector struct {
	mock.Mock
}

var _ ports.Connector = (*Connector)(nil)

func (m *Connector) Connect(ctx context.Context, walletType core.WalletType) (core.Account, error) {
	args := m.Called(ctx, walletType)
	return args.Get(0).(core.Account), args.Error(1)
}

func (m *Connector) SignMessage(ctx context.Context, account core.Account, message string) (ports.SignResult, error) {
	args := m.Called(ctx, account, message)
	return args.Get(0).(ports.SignResult), args.Error(1)
}

func (m *Connector) Disconnect(ctx context.Context, account core.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// SignatureVerifier mocks ports.SignatureVerifier
type SignatureVerifier struct {
	mock.Mock
}

var _ ports.SignatureVerifier = (*SignatureVerifier)(nil)

func (m *SignatureVerifier) Verify(chain core.ChainType, address, message, signature string) error {
	args := m.Called(chain, address, message, signature)
	return args.Error(0)
}
