package swapz

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Level is an event severity. Higher values are more severe.
type Level int32

const (
	// LevelTrace is the most verbose severity.
	LevelTrace Level = iota

	// LevelDebug is diagnostic detail.
	LevelDebug

	// LevelInfo is routine operational events.
	LevelInfo

	// LevelWarn is conditions worth attention.
	LevelWarn

	// LevelError is failures.
	LevelError

	// LevelOff disables all events.
	LevelOff
)

// String returns the string representation of the level.
func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "trace"
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelOff:
		return "off"
	default:
		return "unknown"
	}
}

// ParseLevel converts a level name to a Level.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "off":
		return LevelOff, nil
	default:
		return LevelOff, fmt.Errorf("unknown level %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler so levels round-trip
// through JSON configuration.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler; yaml.v3 does not consult
// encoding.TextMarshaler on its own.
func (l Level) MarshalYAML() (any, error) {
	return l.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler; yaml.v3 does not consult
// encoding.TextUnmarshaler on its own.
func (l *Level) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	return l.UnmarshalText([]byte(s))
}

// Leveled is implemented by stages that expose a threshold: the most
// verbose level they still act on. Cells mirror this value to a secondary
// facade after each swap when one is configured.
type Leveled interface {
	MaxLevel() Level
}
