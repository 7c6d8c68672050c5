package swapz

// State represents the current state of a Reloader.
type State int32

const (
	// StateLoading indicates the Reloader is initializing and has not yet
	// processed any change.
	StateLoading State = iota

	// StateHealthy indicates the last watched change was swapped in.
	StateHealthy

	// StateDegraded indicates the last change failed validation or
	// application. The previously swapped-in snapshot remains active.
	StateDegraded

	// StateEmpty indicates no watched change has ever been applied. The
	// cell still serves the snapshot it was constructed with, and the
	// Reloader continues watching for valid updates.
	StateEmpty
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateHealthy:
		return "healthy"
	case StateDegraded:
		return "degraded"
	case StateEmpty:
		return "empty"
	default:
		return "unknown"
	}
}
