package ports

import (
	"context"

	"github.com/layer-3/signa/core"
)

// EventPublisher publishes wallet lifecycle events to interested collaborators
type EventPublisher interface {
	PublishWalletEvent(ctx context.Context, event core.WalletEvent) error
}
