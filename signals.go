package swapz

import "github.com/zoobzio/capitan"

// Swap path signals.
var (
	// SwapApplied is emitted when a new snapshot has been published.
	SwapApplied = capitan.NewSignal(
		"swapz.cell.swap.applied",
		"Snapshot swap published",
	)

	// SwapRejected is emitted when a Modify function fails and the cell
	// is left unchanged.
	SwapRejected = capitan.NewSignal(
		"swapz.cell.swap.rejected",
		"Modify function rejected the swap",
	)

	// InterestInvalidated is emitted after registered invalidators ran.
	InterestInvalidated = capitan.NewSignal(
		"swapz.interest.invalidated",
		"Interest caches invalidated after swap",
	)

	// MirrorSynced is emitted when the secondary level facade accepted
	// the derived level.
	MirrorSynced = capitan.NewSignal(
		"swapz.mirror.synced",
		"Secondary level facade synchronized",
	)

	// MirrorFailed is emitted when the secondary level facade rejected
	// the derived level. The swap stays committed.
	MirrorFailed = capitan.NewSignal(
		"swapz.mirror.failed",
		"Secondary level facade rejected the derived level",
	)
)

// Reloader lifecycle signals.
var (
	// ReloaderStarted is emitted when a Reloader begins watching.
	ReloaderStarted = capitan.NewSignal(
		"swapz.reloader.started",
		"Reloader watching started",
	)

	// ReloaderStopped is emitted when a Reloader stops watching.
	ReloaderStopped = capitan.NewSignal(
		"swapz.reloader.stopped",
		"Reloader watching stopped",
	)

	// ReloaderStateChanged is emitted when a Reloader transitions between states.
	ReloaderStateChanged = capitan.NewSignal(
		"swapz.reloader.state.changed",
		"Reloader state transition",
	)
)

// Change processing signals.
var (
	// ReloaderChangeReceived is emitted when raw data is received from the watcher.
	ReloaderChangeReceived = capitan.NewSignal(
		"swapz.reloader.change.received",
		"Raw change received from watcher",
	)

	// ReloaderDecodeFailed is emitted when decoding raw data fails.
	ReloaderDecodeFailed = capitan.NewSignal(
		"swapz.reloader.decode.failed",
		"Decoding change data failed",
	)

	// ReloaderValidationFailed is emitted when validation fails.
	ReloaderValidationFailed = capitan.NewSignal(
		"swapz.reloader.validation.failed",
		"Validation failed",
	)

	// ReloaderApplyFailed is emitted when the reload could not be applied.
	ReloaderApplyFailed = capitan.NewSignal(
		"swapz.reloader.apply.failed",
		"Reload could not be applied",
	)

	// ReloaderApplySucceeded is emitted when a change is swapped in successfully.
	ReloaderApplySucceeded = capitan.NewSignal(
		"swapz.reloader.apply.succeeded",
		"Change swapped in successfully",
	)
)
