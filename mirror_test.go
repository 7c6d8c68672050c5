package swapz

import (
	"errors"
	"testing"
)

func TestAtomicLevel_SetAndGet(t *testing.T) {
	facade := NewAtomicLevel(LevelWarn)

	if facade.Level() != LevelWarn {
		t.Errorf("expected warn, got %s", facade.Level())
	}

	if err := facade.SetMaxLevel(LevelDebug); err != nil {
		t.Fatalf("SetMaxLevel failed: %v", err)
	}
	if facade.Level() != LevelDebug {
		t.Errorf("expected debug, got %s", facade.Level())
	}
}

func TestAtomicLevel_Enabled(t *testing.T) {
	facade := NewAtomicLevel(LevelWarn)

	if facade.Enabled(LevelInfo) {
		t.Error("expected info disabled at warn threshold")
	}
	if !facade.Enabled(LevelWarn) {
		t.Error("expected warn enabled at warn threshold")
	}
	if !facade.Enabled(LevelError) {
		t.Error("expected error enabled at warn threshold")
	}

	facade.SetMaxLevel(LevelOff)
	if facade.Enabled(LevelError) {
		t.Error("expected everything disabled at off")
	}
}

func TestMirrorError_Unwrap(t *testing.T) {
	cause := errors.New("facade unavailable")
	err := &MirrorError{Level: LevelInfo, Err: cause}

	if !errors.Is(err, cause) {
		t.Error("expected MirrorError to wrap its cause")
	}
	if err.Error() == "" {
		t.Error("expected non-empty error message")
	}
}
