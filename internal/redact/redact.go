// Package redact applies a merge plan to text, producing scrubbed output
// plus the mapping needed to reverse it, and implements the authorized
// inverse. Both directions are pure functions; persistence and access
// control belong to the caller.
package redact

import (
	"strconv"
	"strings"

	"github.com/albertopd/secureprompt/internal/merge"
)

// Entry records one placeholder substitution. Pos is the placeholder's byte
// offset in the scrubbed text.
type Entry struct {
	Placeholder string `json:"placeholder"`
	Original    string `json:"original"`
	Type        string `json:"type"`
	Pos         int    `json:"pos"`
}

// Mapping is the full record of the substitutions made for one text.
// Count is fixed at redaction time, so a mapping that lost entries is
// distinguishable from one that never had them. Immutable once produced;
// safe for concurrent reads.
type Mapping struct {
	Count   int     `json:"count"`
	Entries []Entry `json:"entries,omitempty"`
}

// Redact replaces each span of the plan with a placeholder token and returns
// the scrubbed text alongside the mapping that reverses it. The output is
// built in a single left-to-right pass with an offset cursor, so earlier
// replacements never invalidate later span offsets.
func Redact(text string, plan merge.Plan) (string, Mapping) {
	if len(plan) == 0 {
		return text, Mapping{}
	}

	var out strings.Builder
	out.Grow(len(text))
	entries := make([]Entry, 0, len(plan))
	counters := make(map[string]int, len(plan))
	cursor := 0
	for _, s := range plan {
		typ := strings.ToUpper(s.Type)
		counters[typ]++
		placeholder := "[" + typ + "_" + strconv.Itoa(counters[typ]) + "]"

		out.WriteString(text[cursor:s.Start])
		entries = append(entries, Entry{
			Placeholder: placeholder,
			Original:    text[s.Start:s.End],
			Type:        s.Type,
			Pos:         out.Len(),
		})
		out.WriteString(placeholder)
		cursor = s.End
	}
	out.WriteString(text[cursor:])
	return out.String(), Mapping{Count: len(entries), Entries: entries}
}
