package swapz

import (
	"context"
	"errors"

	"github.com/zoobzio/capitan"
)

// ErrDetached is returned by a Handle that is not bound to a cell,
// such as the zero value.
var ErrDetached = errors.New("handle is not attached to a cell")

// Handle is the capability through which operators swap the snapshot held
// by a Cell. It is decoupled from the cell so the cell can sit inside the
// dispatch path while the handle lives with configuration code.
//
// Handles are plain values: copying one yields another capability over the
// same cell. Any goroutine may call Reload or Modify concurrently with any
// other goroutine's reads or writes.
type Handle[T any] struct {
	cell *Cell[T]
}

// Reload publishes next as the cell's current snapshot, then invalidates
// registered interest caches and synchronizes the secondary level facade,
// in that order. The whole publish-then-hooks sequence holds the write
// lock, so concurrent reloads run their hooks in publish order and the
// facade always ends up matching the last published snapshot.
//
// The swap itself cannot fail; a non-nil error means the facade rejected
// the derived level (*MirrorError) after the swap was already committed,
// or the handle is detached.
func (h Handle[T]) Reload(ctx context.Context, next T) error {
	if h.cell == nil {
		return ErrDetached
	}

	start := h.cell.clock.Now()
	err := h.cell.swap(ctx, next)
	if h.cell.metrics != nil {
		h.cell.metrics.OnSwap(h.cell.clock.Since(start))
	}
	return err
}

// Modify applies fn to a duplicate of the current snapshot and publishes
// the result. If fn fails the cell is unchanged, no invalidation or
// mirroring occurs, and the error is returned. On success the post-swap
// hooks run exactly as for Reload.
func (h Handle[T]) Modify(ctx context.Context, fn func(T) (T, error)) error {
	if h.cell == nil {
		return ErrDetached
	}

	start := h.cell.clock.Now()
	swapped, err := h.cell.modifySwap(ctx, fn)
	if !swapped {
		capitan.Emit(ctx, SwapRejected,
			KeyError.Field(err.Error()),
		)
		if h.cell.metrics != nil {
			h.cell.metrics.OnSwapRejected(h.cell.clock.Since(start))
		}
		return err
	}
	if h.cell.metrics != nil {
		h.cell.metrics.OnSwap(h.cell.clock.Since(start))
	}
	return err
}

// Current returns the cell's current snapshot.
func (h Handle[T]) Current() (T, error) {
	if h.cell == nil {
		var zero T
		return zero, ErrDetached
	}
	return h.cell.Read(), nil
}

// Inspect runs fn against the current snapshot without publishing
// anything. Useful for querying state when T is expensive to copy around.
func (h Handle[T]) Inspect(fn func(T)) error {
	if h.cell == nil {
		return ErrDetached
	}
	fn(h.cell.Read())
	return nil
}

// swap publishes next and runs the post-swap hooks while still holding the
// write lock.
func (c *Cell[T]) swap(ctx context.Context, next T) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.current.Store(&next)
	capitan.Emit(ctx, SwapApplied)
	return c.afterSwap(ctx, next)
}

// modifySwap is Modify plus the post-swap hooks, all under the write lock.
// swapped reports whether a snapshot was published; when false the error
// came from fn and the cell is unchanged.
func (c *Cell[T]) modifySwap(ctx context.Context, fn func(T) (T, error)) (swapped bool, err error) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	work := *c.current.Load()
	if c.clone != nil {
		work = c.clone(work)
	}

	next, err := fn(work)
	if err != nil {
		return false, err
	}

	c.current.Store(&next)
	capitan.Emit(ctx, SwapApplied)
	return true, c.afterSwap(ctx, next)
}

// afterSwap runs the post-publish protocol: interest invalidation first,
// then the secondary level mirror. The new snapshot is already visible to
// readers before either hook fires. The caller holds writeMu, so hooks for
// consecutive swaps run in publish order.
func (c *Cell[T]) afterSwap(ctx context.Context, next T) error {
	for _, inv := range c.invalidators {
		inv.Invalidate()
	}
	if len(c.invalidators) > 0 {
		capitan.Emit(ctx, InterestInvalidated,
			KeyInvalidators.Field(len(c.invalidators)),
		)
		if c.metrics != nil {
			c.metrics.OnInvalidate()
		}
	}

	if c.mirror == nil {
		return nil
	}
	leveled, ok := any(next).(Leveled)
	if !ok {
		return nil
	}

	level := leveled.MaxLevel()
	if err := c.mirror.SetMaxLevel(level); err != nil {
		capitan.Emit(ctx, MirrorFailed,
			KeyLevel.Field(level.String()),
			KeyError.Field(err.Error()),
		)
		return &MirrorError{Level: level, Err: err}
	}
	capitan.Emit(ctx, MirrorSynced,
		KeyLevel.Field(level.String()),
	)
	return nil
}
