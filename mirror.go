package swapz

import (
	"fmt"
	"sync/atomic"
)

// LevelFacade is an independent severity gate that cannot participate in
// the per-call-site interest mechanism — typically the global threshold of
// a second logging facade. After each successful swap of a Leveled stage,
// the cell republishes the derived threshold here.
type LevelFacade interface {
	// SetMaxLevel publishes the most verbose level still of interest.
	SetMaxLevel(level Level) error
}

// MirrorError reports that the secondary facade rejected the derived level.
// The swap that triggered mirroring is already committed; the primary
// dispatch path is authoritative and the facade stays stale until the next
// successful swap.
type MirrorError struct {
	Level Level
	Err   error
}

// Error implements the error interface.
func (e *MirrorError) Error() string {
	return fmt.Sprintf("mirror level %s: %s", e.Level, e.Err)
}

// Unwrap returns the facade's error.
func (e *MirrorError) Unwrap() error {
	return e.Err
}

// AtomicLevel is a LevelFacade backed by a single atomic word. Reads and
// writes never block, so it is safe to consult on a hot logging path.
type AtomicLevel struct {
	level atomic.Int32
}

// NewAtomicLevel creates an AtomicLevel with the given initial threshold.
func NewAtomicLevel(initial Level) *AtomicLevel {
	a := &AtomicLevel{}
	a.level.Store(int32(initial))
	return a
}

// SetMaxLevel stores the threshold. Implements LevelFacade; never fails.
func (a *AtomicLevel) SetMaxLevel(level Level) error {
	a.level.Store(int32(level))
	return nil
}

// Level returns the current threshold.
func (a *AtomicLevel) Level() Level {
	return Level(a.level.Load())
}

// Enabled reports whether an event at the given level passes the threshold.
func (a *AtomicLevel) Enabled(level Level) bool {
	threshold := a.Level()
	return threshold != LevelOff && level >= threshold
}
