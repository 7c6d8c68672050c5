package swapz

import (
	"sync"
	"sync/atomic"

	"github.com/zoobzio/clockz"
)

// Cell holds the current snapshot of a hot-swappable pipeline stage.
//
// Readers call Read on every event with no locking; the snapshot slot is a
// single atomic pointer, so read cost is independent of write frequency and
// of the number of concurrent readers. Writers (Replace and Modify) are
// serialized against each other by an internal mutex that the read path
// never touches.
//
// Published snapshots are immutable by contract: once a value has been
// stored in the cell it must not be mutated, because any number of readers
// may still hold it. T decides the sharing granularity — a pointer-typed T
// shares one snapshot across all readers, a value-typed T hands each reader
// its own copy.
type Cell[T any] struct {
	current atomic.Pointer[T]

	// writeMu serializes the construct-then-publish step of Replace and
	// Modify. Read never acquires it.
	writeMu sync.Mutex

	clone        func(T) T
	invalidators []Invalidator
	mirror       LevelFacade
	metrics      MetricsProvider
	clock        clockz.Clock
}

// New creates a Cell published with initial and a Handle for triggering
// swaps. A cell never exists without a value.
//
// The cell is typically embedded in the dispatch path while the handle is
// held by configuration or management code. Additional handles come from
// Handle(), or from copying an existing one.
func New[T any](initial T) (*Cell[T], Handle[T]) {
	c := &Cell[T]{clock: clockz.RealClock}
	c.current.Store(&initial)
	return c, Handle[T]{cell: c}
}

// -----------------------------------------------------------------------------
// Chainable Configuration
// -----------------------------------------------------------------------------
// Configure the cell before handing out handles or wiring it into a
// dispatch path; these methods are not synchronized with writes.

// Cloner sets the duplication function used by Modify.
//
// Modify never mutates the published snapshot in place: it works on a
// duplicate and publishes the result. For value-typed T without interior
// pointers the implicit copy is already a duplicate and no cloner is
// needed. T carrying maps, slices, or pointers needs a cloner that produces
// an independent copy.
func (c *Cell[T]) Cloner(fn func(T) T) *Cell[T] {
	c.clone = fn
	return c
}

// Invalidator registers a callback notified after every successful swap,
// once the new snapshot is already visible to readers. Use this to flush
// caches of per-call-site decisions derived from the previous snapshot.
//
// May be called multiple times; invalidators run in registration order.
func (c *Cell[T]) Invalidator(inv Invalidator) *Cell[T] {
	c.invalidators = append(c.invalidators, inv)
	return c
}

// Mirror sets a secondary level facade that receives the snapshot's derived
// maximum level after each successful swap. The facade is only consulted
// when T implements Leveled. Mirroring is best-effort: a facade error is
// reported to the writer but the swap stays committed.
func (c *Cell[T]) Mirror(facade LevelFacade) *Cell[T] {
	c.mirror = facade
	return c
}

// Metrics sets a metrics provider for observability integration.
func (c *Cell[T]) Metrics(provider MetricsProvider) *Cell[T] {
	c.metrics = provider
	return c
}

// Clock sets a custom clock for swap timing measurements.
// Use this with clockz.FakeClock for deterministic tests.
func (c *Cell[T]) Clock(clock clockz.Clock) *Cell[T] {
	c.clock = clock
	return c
}

// Handle returns a new capability for triggering swaps on this cell.
// Handles are cheap values; copying one is equivalent to calling Handle().
func (c *Cell[T]) Handle() Handle[T] {
	return Handle[T]{cell: c}
}

// Read returns the currently published snapshot. It is lock-free, never
// blocks on a concurrent write, and does not allocate.
//
// A Read that begins after a swap's publish step completes observes that
// swap or a later one, never an earlier one. A Read concurrent with an
// in-progress swap observes either the old or the new snapshot, never a
// mixture.
func (c *Cell[T]) Read() T {
	return *c.current.Load()
}

// Replace publishes next as the current snapshot and returns the snapshot
// it superseded. Concurrent Replace and Modify calls are serialized;
// completed swaps are totally ordered.
func (c *Cell[T]) Replace(next T) T {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	prev := c.current.Swap(&next)
	return *prev
}

// Modify duplicates the current snapshot, applies fn to the duplicate, and
// publishes the result. On error the cell is left unchanged and the zero
// value is returned alongside the error.
//
// The duplicate-then-mutate step runs under the write lock, off the read
// path. A Modify that starts while another write holds the lock observes
// that write's result once it acquires the lock; there is no optimistic
// retry loop. Swaps are rare enough that last-writer-wins is the intended
// contention behavior.
func (c *Cell[T]) Modify(fn func(T) (T, error)) (T, error) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	work := *c.current.Load()
	if c.clone != nil {
		work = c.clone(work)
	}

	next, err := fn(work)
	if err != nil {
		var zero T
		return zero, err
	}

	c.current.Store(&next)
	return next, nil
}
