// Package classify assigns data-sensitivity levels to merge plans. A
// document's level is driven by its most sensitive detected entity.
package classify

import (
	"fmt"
	"strings"
)

// Level is an ordered data-sensitivity classification.
type Level int

const (
	C1 Level = iota + 1 // public data
	C2                  // internal operations
	C3                  // customer data
	C4                  // sensitive data
)

func (l Level) String() string {
	switch l {
	case C1:
		return "C1"
	case C2:
		return "C2"
	case C3:
		return "C3"
	case C4:
		return "C4"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// ParseLevel converts "C1".."C4" (any case) to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "C1":
		return C1, nil
	case "C2":
		return C2, nil
	case "C3":
		return C3, nil
	case "C4":
		return C4, nil
	default:
		return 0, fmt.Errorf("unknown security level %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler so levels render as "C3"
// in JSON and YAML.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(b []byte) error {
	parsed, err := ParseLevel(string(b))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
