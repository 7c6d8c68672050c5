package swapz

import (
	"context"
	"time"
)

// Event is the unit of work dispatched through a stage.
type Event struct {
	// Source identifies the emitting call site or component.
	Source string

	// Level is the event severity.
	Level Level

	// Message is the event payload.
	Message string

	// Timestamp is when the event was produced.
	Timestamp time.Time
}

// Stage is the pluggable processing component a Cell wraps: it decides
// which events are of interest and acts on the ones that are. How a stage
// filters or formats is its own contract; the cell only publishes and
// swaps it.
type Stage interface {
	// Enabled reports whether events like e are worth processing. The
	// dispatch path may cache this decision per call site until the next
	// swap, so it must depend only on the stage's own configuration.
	Enabled(e Event) bool

	// Process acts on a single event.
	Process(ctx context.Context, e Event) error
}

// site is the call-site identity interest decisions are cached under.
type site struct {
	source string
	level  Level
}

// Dispatcher routes events through the current snapshot of a cell,
// short-circuiting sources the stage has declared uninteresting. Its
// interest cache is registered with the cell, so enablement decisions are
// recomputed after every swap.
type Dispatcher[T Stage] struct {
	cell  *Cell[T]
	cache *InterestCache
}

// NewDispatcher wires a Dispatcher to cell. It registers the dispatcher's
// interest cache as a cell invalidator, so construct the dispatcher before
// handing the cell's handle to operators.
func NewDispatcher[T Stage](cell *Cell[T]) *Dispatcher[T] {
	d := &Dispatcher[T]{
		cell:  cell,
		cache: NewInterestCache(),
	}
	cell.Invalidator(d.cache)
	return d
}

// Dispatch routes one event through the current stage snapshot. Events the
// stage is not interested in return nil without being processed.
//
// The snapshot is read once per call; a swap completing mid-dispatch
// affects the next event, not this one.
func (d *Dispatcher[T]) Dispatch(ctx context.Context, e Event) error {
	// Epoch before snapshot: a swap landing between the two loads leaves
	// the stored decision stamped stale rather than current.
	epoch := d.cache.Epoch()
	stage := d.cell.Read()

	enabled := d.cache.EnabledAt(epoch, site{source: e.Source, level: e.Level}, func() bool {
		return stage.Enabled(e)
	})
	if !enabled {
		return nil
	}

	return stage.Process(ctx, e)
}

// Cache exposes the dispatcher's interest cache, mainly so additional
// cells feeding the same dispatch path can register it as an invalidator.
func (d *Dispatcher[T]) Cache() *InterestCache {
	return d.cache
}
