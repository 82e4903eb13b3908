package queue

import "context"

// Job processes one type of queued message.
type Job interface {
	// Type returns the message type the job handles.
	Type() string
	// Process handles a single message payload.
	Process(ctx context.Context, payload []byte) error
}
