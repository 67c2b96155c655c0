package driven

import "context"

// Notifier delivers a human-readable run summary to an external channel.
// It is invoked by the trigger surfaces, never by the core engine, and its
// failure never affects a run's outcome.
type Notifier interface {
	// Notify sends one message. Implementations should apply their own
	// timeout; errors are logged by the caller and dropped.
	Notify(ctx context.Context, message string) error
}
