package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/layer-3/signa/core"
	"github.com/layer-3/signa/ports"
)

// WalletTopic is the topic wallet lifecycle events are published to
const WalletTopic = "signa.wallet"

// WatermillPublisher implements the EventPublisher interface using Watermill
type WatermillPublisher struct {
	publisher message.Publisher
	topic     string
}

// NewWatermillPublisher creates a new Watermill publisher
func NewWatermillPublisher(publisher message.Publisher) *WatermillPublisher {
	return &WatermillPublisher{
		publisher: publisher,
		topic:     WalletTopic,
	}
}

var _ ports.EventPublisher = (*WatermillPublisher)(nil)

// PublishWalletEvent publishes a wallet lifecycle event
func (p *WatermillPublisher) PublishWalletEvent(ctx context.Context, event core.WalletEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("event_type", string(event.Type))
	msg.SetContext(ctx)

	if err := p.publisher.Publish(p.topic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// DecodeWalletEvent decodes the payload of a message published by WatermillPublisher
func DecodeWalletEvent(msg *message.Message) (core.WalletEvent, error) {
	var event core.WalletEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		return core.WalletEvent{}, fmt.Errorf("failed to decode event: %w", err)
	}
	return event, nil
}
