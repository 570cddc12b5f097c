package messaging

import (
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// metadataPublishedAt is stamped on every outgoing message.
const metadataPublishedAt = "published_at"

// Publish is a function that publishes a typed event.
type Publish[T any] func(event *T) error

// NewPublishFunc creates a typed publish function bound to one topic.
func NewPublishFunc[T any](publisher message.Publisher, topic string) Publish[T] {
	return func(event *T) error {
		payload, err := json.Marshal(event)
		if err != nil {
			return err
		}

		msg := message.NewMessage(watermill.NewUUID(), payload)
		msg.Metadata.Set(metadataPublishedAt, time.Now().UTC().Format(time.RFC3339Nano))

		return publisher.Publish(topic, msg)
	}
}

// PublisherGroup owns the underlying publisher lifecycle so typed publish
// functions can be handed out without each carrying shutdown duties.
type PublisherGroup struct {
	publisher message.Publisher
}

// NewPublisherGroup wraps a publisher.
func NewPublisherGroup(publisher message.Publisher) *PublisherGroup {
	return &PublisherGroup{publisher: publisher}
}

// Publisher returns the underlying message publisher.
func (g *PublisherGroup) Publisher() message.Publisher {
	return g.publisher
}

// Shutdown closes the underlying publisher.
func (g *PublisherGroup) Shutdown() error {
	return g.publisher.Close()
}
