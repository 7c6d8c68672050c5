package swapz

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// DefaultDebounce is the default debounce duration for change processing.
const DefaultDebounce = 100 * time.Millisecond

// validate checks struct tags on decoded values.
var validate = validator.New()

// Validator is implemented by snapshot types that carry their own
// validation logic beyond struct tags.
type Validator interface {
	Validate() error
}

// Reloader drives a Handle from a watched source: raw bytes are decoded,
// validated, and swapped into the cell. A change that fails any step is
// rejected and the previously published snapshot keeps serving readers.
//
// The Reloader is the operator-side glue; the dispatch path only ever sees
// the cell.
type Reloader[T any] struct {
	watcher        Watcher
	handle         Handle[T]
	debounce       time.Duration
	startupTimeout time.Duration
	syncMode       bool
	clock          clockz.Clock
	codec          Codec
	metrics        MetricsProvider
	onStop         func(State)

	state        atomic.Int32
	applied      atomic.Bool
	lastError    atomic.Pointer[error]
	errorHistory *errorRing

	mu      sync.Mutex
	started bool

	// For sync mode: channel to receive changes
	changes <-chan []byte
}

// NewReloader creates a Reloader that feeds watched changes into handle.
//
// The watcher emits raw bytes when the source changes. Bytes are decoded
// to type T using the configured codec, checked against `validate` struct
// tags, and — when T implements Validator — validated by T itself. On
// success the value is swapped into the cell through the handle, which
// fires invalidation and mirroring as usual.
//
// Example:
//
//	cell, handle := swapz.New(swapz.LevelFilter{Min: swapz.LevelWarn, Sink: sink})
//	reloader := swapz.NewReloader(
//	    swapz.NewFileWatcher("filter.json"),
//	    handle,
//	).Debounce(200 * time.Millisecond)
//
//	if err := reloader.Start(ctx); err != nil {
//	    log.Printf("initial reload failed: %v", err)
//	}
func NewReloader[T any](watcher Watcher, handle Handle[T]) *Reloader[T] {
	r := &Reloader[T]{
		watcher:  watcher,
		handle:   handle,
		debounce: DefaultDebounce,
		clock:    clockz.RealClock,
		codec:    JSONCodec{},
	}
	r.state.Store(int32(StateLoading))

	return r
}

// -----------------------------------------------------------------------------
// Chainable Instance Configuration
// -----------------------------------------------------------------------------

// Debounce sets the debounce duration for change processing.
// Changes arriving within this duration are coalesced into a single swap.
// Default: 100ms. Must be called before Start().
func (r *Reloader[T]) Debounce(d time.Duration) *Reloader[T] {
	r.debounce = d
	return r
}

// SyncMode enables synchronous processing for testing.
// In sync mode, changes are processed immediately without debouncing
// or async goroutines, making tests deterministic. Must be called before Start().
func (r *Reloader[T]) SyncMode() *Reloader[T] {
	r.syncMode = true
	return r
}

// Clock sets a custom clock for time operations.
// Use this with clockz.FakeClock for deterministic debounce testing.
// Must be called before Start().
func (r *Reloader[T]) Clock(clock clockz.Clock) *Reloader[T] {
	r.clock = clock
	return r
}

// Codec sets the codec for deserializing change data.
// Default: JSONCodec. Must be called before Start().
func (r *Reloader[T]) Codec(codec Codec) *Reloader[T] {
	r.codec = codec
	return r
}

// StartupTimeout sets the maximum duration to wait for the initial value
// from the watcher. If the watcher fails to emit within this duration,
// Start() returns an error.
// Default: no timeout (wait indefinitely). Must be called before Start().
func (r *Reloader[T]) StartupTimeout(d time.Duration) *Reloader[T] {
	r.startupTimeout = d
	return r
}

// Metrics sets a metrics provider for observability integration.
// Must be called before Start().
func (r *Reloader[T]) Metrics(provider MetricsProvider) *Reloader[T] {
	r.metrics = provider
	return r
}

// OnStop sets a callback invoked when the reloader stops watching, with
// the final state. Must be called before Start().
func (r *Reloader[T]) OnStop(fn func(State)) *Reloader[T] {
	r.onStop = fn
	return r
}

// ErrorHistorySize sets the number of recent errors to retain.
// Use 0 (default) to only retain the most recent error via LastError().
// Must be called before Start().
func (r *Reloader[T]) ErrorHistorySize(n int) *Reloader[T] {
	r.errorHistory = newErrorRing(n)
	return r
}

// State returns the current state of the Reloader.
func (r *Reloader[T]) State() State {
	return State(r.state.Load())
}

// Current returns the snapshot currently published by the cell. Note that
// before the first successful reload this is the value the cell was
// constructed with, not a watched one.
func (r *Reloader[T]) Current() (T, bool) {
	v, err := r.handle.Current()
	if err != nil {
		var zero T
		return zero, false
	}
	return v, true
}

// LastError returns the last error encountered, or nil if no error occurred.
func (r *Reloader[T]) LastError() error {
	ptr := r.lastError.Load()
	if ptr == nil {
		return nil
	}
	return *ptr
}

// ErrorHistory returns the recent error history, oldest first.
// Returns nil if error history is not enabled (see ErrorHistorySize).
func (r *Reloader[T]) ErrorHistory() []error {
	return r.errorHistory.all()
}

// Start begins watching for changes. It blocks until the first change is
// processed (success or failure), then continues watching asynchronously.
//
// If the initial change fails, Start returns the error but continues
// watching in the background for valid updates.
//
// In sync mode, Start only processes the initial value. Use Process() to
// manually trigger processing of subsequent values.
//
// Start can only be called once. Subsequent calls return an error.
func (r *Reloader[T]) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return fmt.Errorf("reloader already started")
	}
	r.started = true
	r.mu.Unlock()

	capitan.Emit(ctx, ReloaderStarted,
		KeyDebounce.Field(r.debounce),
	)

	changes, err := r.watcher.Watch(ctx)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	// Wait for first value and process synchronously
	var initialErr error

	// Wrap context with startup timeout if configured
	startupCtx := ctx
	if r.startupTimeout > 0 {
		var cancel context.CancelFunc
		startupCtx, cancel = r.clock.WithTimeout(ctx, r.startupTimeout)
		defer cancel()
	}

	select {
	case <-startupCtx.Done():
		if r.startupTimeout > 0 && startupCtx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("startup timeout: watcher did not emit initial value within %v", r.startupTimeout)
		}
		return startupCtx.Err()
	case raw, ok := <-changes:
		if !ok {
			return fmt.Errorf("watcher closed before emitting initial value")
		}
		capitan.Emit(ctx, ReloaderChangeReceived)
		if r.metrics != nil {
			r.metrics.OnChangeReceived()
		}
		initialErr = r.process(ctx, raw)
	}

	if r.syncMode {
		// In sync mode, store channel for manual processing
		r.changes = changes
		return initialErr
	}

	// Continue watching asynchronously
	go r.watch(ctx, changes)

	return initialErr
}

// Process reads and processes the next value from the watcher.
// This is only available in sync mode and is used for deterministic testing.
// Returns false if no value is available or the channel is closed.
func (r *Reloader[T]) Process(ctx context.Context) bool {
	if !r.syncMode {
		return false
	}

	select {
	case raw, ok := <-r.changes:
		if !ok {
			return false
		}
		capitan.Emit(ctx, ReloaderChangeReceived)
		if r.metrics != nil {
			r.metrics.OnChangeReceived()
		}
		_ = r.process(ctx, raw) //nolint:errcheck // Errors stored via setError
		return true
	default:
		return false
	}
}

// process decodes, validates, and swaps in a single change.
func (r *Reloader[T]) process(ctx context.Context, raw []byte) error {
	start := r.clock.Now()
	oldState := r.State()

	var next T
	if err := r.codec.Unmarshal(raw, &next); err != nil {
		r.setError(err)
		r.transitionState(ctx, oldState, r.failureState())
		capitan.Emit(ctx, ReloaderDecodeFailed,
			KeyError.Field(err.Error()),
		)
		if r.metrics != nil {
			r.metrics.OnProcessFailure("decode", r.clock.Since(start))
		}
		return fmt.Errorf("decode failed: %w", err)
	}

	if err := r.check(next); err != nil {
		r.setError(err)
		r.transitionState(ctx, oldState, r.failureState())
		capitan.Emit(ctx, ReloaderValidationFailed,
			KeyError.Field(err.Error()),
		)
		if r.metrics != nil {
			r.metrics.OnProcessFailure("validate", r.clock.Since(start))
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	if err := r.handle.Reload(ctx, next); err != nil {
		var mirrorErr *MirrorError
		if errors.As(err, &mirrorErr) {
			// The swap is committed; only the secondary facade is stale.
			r.setError(err)
			r.applied.Store(true)
			r.transitionState(ctx, oldState, StateHealthy)
			capitan.Emit(ctx, ReloaderApplySucceeded)
			if r.metrics != nil {
				r.metrics.OnProcessSuccess(r.clock.Since(start))
			}
			return fmt.Errorf("mirror sync failed: %w", err)
		}
		r.setError(err)
		r.transitionState(ctx, oldState, r.failureState())
		capitan.Emit(ctx, ReloaderApplyFailed,
			KeyError.Field(err.Error()),
		)
		if r.metrics != nil {
			r.metrics.OnProcessFailure("apply", r.clock.Since(start))
		}
		return fmt.Errorf("apply failed: %w", err)
	}

	// Success - clear errors and settle into healthy
	r.applied.Store(true)
	r.lastError.Store(nil)
	r.errorHistory.clear()
	r.transitionState(ctx, oldState, StateHealthy)
	capitan.Emit(ctx, ReloaderApplySucceeded)
	if r.metrics != nil {
		r.metrics.OnProcessSuccess(r.clock.Since(start))
	}

	return nil
}

// check runs struct-tag validation and, when T implements Validator, the
// type's own validation.
func (r *Reloader[T]) check(next T) error {
	if err := validate.Struct(next); err != nil {
		var invalid *validator.InvalidValidationError
		if !errors.As(err, &invalid) {
			return err
		}
		// Non-struct T carries no tags to validate.
	}
	if v, ok := any(next).(Validator); ok {
		return v.Validate()
	}
	return nil
}

// failureState returns the appropriate failure state based on whether a
// watched change has ever been applied.
func (r *Reloader[T]) failureState() State {
	if !r.applied.Load() {
		return StateEmpty
	}
	return StateDegraded
}

// transitionState updates the state and emits a state change event if changed.
func (r *Reloader[T]) transitionState(ctx context.Context, oldState, newState State) {
	if oldState == newState {
		return
	}
	r.state.Store(int32(newState))
	capitan.Emit(ctx, ReloaderStateChanged,
		KeyOldState.Field(oldState.String()),
		KeyNewState.Field(newState.String()),
	)
	if r.metrics != nil {
		r.metrics.OnStateChange(oldState, newState)
	}
}

// setError stores an error atomically and adds it to the error history.
func (r *Reloader[T]) setError(err error) {
	e := err
	r.lastError.Store(&e)
	r.errorHistory.push(err)
}

// watch processes changes from the watcher channel with debouncing.
func (r *Reloader[T]) watch(ctx context.Context, changes <-chan []byte) {
	defer func() {
		finalState := r.State()
		capitan.Emit(ctx, ReloaderStopped,
			KeyState.Field(finalState.String()),
		)
		if r.onStop != nil {
			r.onStop(finalState)
		}
	}()

	var (
		timer      clockz.Timer
		pending    []byte
		hasPending bool
	)

	for {
		// Get timer channel or nil if no timer
		var timerC <-chan time.Time
		if timer != nil {
			timerC = timer.C()
		}

		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case raw, ok := <-changes:
			if !ok {
				// Channel closed, process any pending change
				if hasPending {
					_ = r.process(ctx, pending) //nolint:errcheck // Errors stored via setError
				}
				return
			}

			capitan.Emit(ctx, ReloaderChangeReceived)
			if r.metrics != nil {
				r.metrics.OnChangeReceived()
			}
			pending = raw
			hasPending = true

			// Reset or start debounce timer
			if timer == nil {
				timer = r.clock.NewTimer(r.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C():
					default:
					}
				}
				timer.Reset(r.debounce)
			}

		case <-timerC:
			if hasPending {
				_ = r.process(ctx, pending) //nolint:errcheck // Errors stored via setError
				hasPending = false
			}
		}
	}
}
