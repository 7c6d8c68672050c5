package swapz

import "context"

// Watcher observes a source for changes and emits raw bytes on a channel.
type Watcher interface {
	// Watch begins observing the source and returns a channel that emits
	// raw bytes when changes occur. The channel is closed when the context
	// is canceled or an unrecoverable error occurs.
	//
	// Implementations should emit the current value immediately so the
	// first reload happens at startup.
	Watch(ctx context.Context) (<-chan []byte, error)
}
