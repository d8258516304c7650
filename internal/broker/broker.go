package broker

import "context"

// MessageQueue carries uplink payloads from the shore gateway to the ingest
// workers. Consume blocks until ctx is cancelled, invoking handler once per
// message.
type MessageQueue interface {
	Publish(ctx context.Context, data []byte) error
	Consume(ctx context.Context, handler func([]byte) error) error
	Close() error
}
