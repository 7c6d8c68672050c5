// Package swapz provides hot-swappable holders for pluggable pipeline
// stages, with a lock-free read path and serialized writes.
//
// The core type is Cell, a single atomic slot holding the current snapshot
// of a processing stage. Readers consult the snapshot once per event with
// no locking; operators swap in a new snapshot at runtime through a
// Handle, and every completed swap triggers interest-cache invalidation so
// cached dispatch decisions are recomputed against the new configuration.
//
// # Cell and Handle
//
// A cell is created with its initial value and a handle for swapping:
//
//	cell, handle := swapz.New(swapz.LevelFilter{Min: swapz.LevelWarn, Sink: sink})
//
//	cell.Read()                                  // hot path, lock-free
//	handle.Reload(ctx, swapz.LevelFilter{...})   // replace wholesale
//	handle.Modify(ctx, func(f swapz.LevelFilter) (swapz.LevelFilter, error) {
//	    f.Min = swapz.LevelDebug                 // mutate a duplicate
//	    return f, nil
//	})
//
// Reads never block on writes; Replace and Modify serialize against each
// other under a write lock the read path does not touch. Modify works on a
// duplicate of the current snapshot (see Cell.Cloner) and never mutates a
// published value in place.
//
// # Interest caching
//
// Dispatcher routes events through a cell and memoizes per-call-site
// "worth processing?" decisions in an InterestCache. The cache registers
// itself as a cell invalidator, so a swap makes the very next dispatch
// recompute against the new stage:
//
//	dispatcher := swapz.NewDispatcher(cell)
//	dispatcher.Dispatch(ctx, swapz.Event{Source: "ingest", Level: swapz.LevelInfo})
//
// # Secondary level mirroring
//
// When the wrapped stage implements Leveled, a cell configured with a
// LevelFacade republishes the stage's threshold to that facade after every
// swap. Mirroring is best-effort: a facade failure is reported to the
// writer but never rolls back the committed swap.
//
// # Watched reloading
//
// Reloader connects a Watcher source (file via fsnotify, channel, or a
// custom implementation) to a handle: changes are decoded by a Codec,
// validated via struct tags and the optional Validator interface, then
// swapped in. Invalid changes are rejected and the previous snapshot keeps
// serving; the Reloader tracks Healthy/Degraded/Empty states and emits
// capitan signals throughout.
package swapz
