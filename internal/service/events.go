package service

import (
	"context"

	"course-qa-be/pkg/events"
)

// EventPublisher is the outbound domain event bus (NATS JetStream in
// production). A nil publisher disables events.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}
