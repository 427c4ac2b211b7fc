package mocks

import (
	"context"

	"github.com/layer-3/signa/core"
	"github.com/layer-3/signa/ports"
	"github.com/stretchr/testify/mock"
)

// KeyValue mocks ports.KeyValue
type KeyValue struct {
	mock.Mock
}

var _ ports.KeyValue = (*KeyValue)(nil)

func (m *KeyValue) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *KeyValue) Set(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *KeyValue) Remove(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *KeyValue) RemoveMany(ctx context.Context, keys []string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

// EventPublisher mocks ports.EventPublisher
type EventPublisher struct {
	mock.Mock
}

var _ ports.EventPublisher = (*EventPublisher)(nil)

func (m *EventPublisher) PublishWalletEvent(ctx context.Context, event core.WalletEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
