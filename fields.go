package swapz

import "github.com/zoobzio/capitan"

// Field keys for swap and reloader events.
var (
	// KeyState is the current state of a Reloader.
	KeyState = capitan.NewStringKey("state")

	// KeyOldState is the previous state before a transition.
	KeyOldState = capitan.NewStringKey("old_state")

	// KeyNewState is the new state after a transition.
	KeyNewState = capitan.NewStringKey("new_state")

	// KeyError is the error message when an operation fails.
	KeyError = capitan.NewStringKey("error")

	// KeyDebounce is the configured debounce duration.
	KeyDebounce = capitan.NewDurationKey("debounce")

	// KeyLevel is the derived level published to the secondary facade.
	KeyLevel = capitan.NewStringKey("level")

	// KeyInvalidators is the number of invalidators notified after a swap.
	KeyInvalidators = capitan.NewIntKey("invalidators")
)
