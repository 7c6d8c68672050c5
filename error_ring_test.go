package swapz

import (
	"errors"
	"testing"
)

func TestErrorRing_DropsOldestAtCapacity(t *testing.T) {
	ring := newErrorRing(2)

	first := errors.New("first")
	second := errors.New("second")
	third := errors.New("third")

	ring.push(first)
	ring.push(second)
	ring.push(third)

	got := ring.all()
	if len(got) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(got))
	}
	if !errors.Is(got[0], second) || !errors.Is(got[1], third) {
		t.Errorf("expected [second third] oldest first, got %v", got)
	}
}

func TestErrorRing_Clear(t *testing.T) {
	ring := newErrorRing(4)
	ring.push(errors.New("boom"))
	ring.clear()

	if got := ring.all(); got != nil {
		t.Errorf("expected nil after clear, got %v", got)
	}
}

func TestErrorRing_ZeroCapacityIsNil(t *testing.T) {
	ring := newErrorRing(0)
	if ring != nil {
		t.Fatal("expected nil ring for zero capacity")
	}

	// The nil ring is a no-op.
	ring.push(errors.New("dropped"))
	ring.clear()
	if got := ring.all(); got != nil {
		t.Errorf("expected nil history, got %v", got)
	}
}

func TestErrorRing_AllReturnsCopy(t *testing.T) {
	ring := newErrorRing(2)
	ring.push(errors.New("kept"))

	got := ring.all()
	got[0] = errors.New("mutated")

	if ring.all()[0].Error() != "kept" {
		t.Error("expected internal state unaffected by caller mutation")
	}
}
