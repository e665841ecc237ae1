package classify

import (
	"strings"

	"github.com/albertopd/secureprompt/internal/detect"
)

// DefaultLevel is assigned to entity types missing from the table.
// C2 rather than C1: an unknown detection must not silently classify a
// document as public.
const DefaultLevel = C2

// Default sensitivity per entity type. Overridable through configuration.
var defaultTable = map[string]Level{
	// C4 — sensitive data
	"CREDIT_CARD":          C4,
	"IBAN_CODE":            C4,
	"NATIONAL_REG":         C4,
	"PIN_MASKED":           C4,
	"CVV":                  C4,
	"ETHNIC_ORIGIN":        C4,
	"POLITICAL_OPINION":    C4,
	"HEALTH":               C4,
	"RELIGIOUS_BELIEF":     C4,
	"PHILOSOPHICAL_BELIEF": C4,
	"SEXUAL_ORIENTATION":   C4,

	// C3 — customer data
	"PERSON":        C3,
	"EMAIL_ADDRESS": C3,
	"PHONE_NUMBER":  C3,
	"CUSTOMER_ID":   C3,
	"ADDRESS":       C3,
	"BIRTH_DATE":    C3,

	// C2 — internal operations
	"EMPLOYEE_ID": C2,
	"VAT_NUMBER":  C2,
	"POSTAL_CODE": C2,
}

// Table maps entity types to sensitivity levels. Immutable after
// construction; safe for concurrent use.
type Table struct {
	levels map[string]Level
}

// NewTable returns the built-in sensitivity table with the given overrides
// applied on top. Entity type keys are case-insensitive.
func NewTable(overrides map[string]Level) *Table {
	levels := make(map[string]Level, len(defaultTable)+len(overrides))
	for k, v := range defaultTable {
		levels[k] = v
	}
	for k, v := range overrides {
		levels[strings.ToUpper(k)] = v
	}
	return &Table{levels: levels}
}

// LevelFor returns the sensitivity level of a single entity type.
// Unknown types get DefaultLevel.
func (t *Table) LevelFor(entityType string) Level {
	if l, ok := t.levels[strings.ToUpper(entityType)]; ok {
		return l
	}
	return DefaultLevel
}

// Classify returns the document level for a merge plan: the maximum level
// over its entity types. An empty plan is public.
func (t *Table) Classify(spans []detect.Span) Level {
	level := C1
	for _, s := range spans {
		if l := t.LevelFor(s.Type); l > level {
			level = l
		}
	}
	return level
}
