package swapz

import "context"

// LevelFilter is a threshold Stage: it processes events at or above Min
// and hands them to Sink. It is a value type, so Modify duplicates it
// implicitly and no Cloner is needed.
//
// LevelFilter implements Leveled, making it eligible for secondary level
// mirroring.
type LevelFilter struct {
	// Min is the most verbose level still processed. LevelOff suppresses
	// everything.
	Min Level

	// Sink receives enabled events. A nil sink drops them.
	Sink func(e Event)
}

// Enabled reports whether e clears the threshold.
func (f LevelFilter) Enabled(e Event) bool {
	return f.Min != LevelOff && e.Level >= f.Min
}

// Process delivers e to the sink.
func (f LevelFilter) Process(_ context.Context, e Event) error {
	if f.Sink != nil {
		f.Sink(e)
	}
	return nil
}

// MaxLevel returns the threshold. Implements Leveled.
func (f LevelFilter) MaxLevel() Level {
	return f.Min
}

// Ensure LevelFilter satisfies the stage contracts.
var (
	_ Stage   = LevelFilter{}
	_ Leveled = LevelFilter{}
)
