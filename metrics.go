package swapz

import "time"

// MetricsProvider allows integration with metrics systems like Prometheus, StatsD, etc.
// Implement this interface to receive callbacks on swap and reload events.
type MetricsProvider interface {
	// OnSwap is called after a successful swap, including the post-swap
	// hooks. Duration covers publish, invalidation, and mirroring.
	OnSwap(duration time.Duration)

	// OnSwapRejected is called when a Modify function fails and the cell
	// is left unchanged.
	OnSwapRejected(duration time.Duration)

	// OnInvalidate is called after registered invalidators ran, once per
	// successful swap. Not called when no invalidators are registered.
	OnInvalidate()

	// OnStateChange is called when a reloader transitions between states.
	OnStateChange(from, to State)

	// OnProcessSuccess is called when a watched change is applied.
	// Duration is the time taken to decode, validate, and swap.
	OnProcessSuccess(duration time.Duration)

	// OnProcessFailure is called when processing a watched change fails.
	// Stage indicates where: "decode", "validate", or "apply".
	OnProcessFailure(stage string, duration time.Duration)

	// OnChangeReceived is called when raw data is received from the watcher.
	OnChangeReceived()
}

// NoOpMetricsProvider is a no-op implementation of MetricsProvider.
// Use this as an embedded type to implement only the methods you need.
type NoOpMetricsProvider struct{}

func (NoOpMetricsProvider) OnSwap(_ time.Duration)                     {}
func (NoOpMetricsProvider) OnSwapRejected(_ time.Duration)             {}
func (NoOpMetricsProvider) OnInvalidate()                              {}
func (NoOpMetricsProvider) OnStateChange(_, _ State)                   {}
func (NoOpMetricsProvider) OnProcessSuccess(_ time.Duration)           {}
func (NoOpMetricsProvider) OnProcessFailure(_ string, _ time.Duration) {}
func (NoOpMetricsProvider) OnChangeReceived()                          {}
