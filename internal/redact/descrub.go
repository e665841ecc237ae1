package redact

import (
	"errors"
	"fmt"
	"sort"
)

// ErrMappingMismatch is returned when a mapping does not line up with the
// scrubbed text it is applied to. De-scrubbing fails closed: partially
// reversed text is never returned.
var ErrMappingMismatch = errors.New("mapping mismatch")

// Descrub reverses Redact: for the mapping produced by Redact(text, plan) it
// returns text exactly. Every entry is verified against the scrubbed text at
// its recorded position, and the entry list is checked against the count
// fixed at redaction time, so a truncated or tampered mapping yields
// ErrMappingMismatch. Text that merely looks like a placeholder but has no
// entry passes through untouched; it was literal in the original too.
func Descrub(scrubbed string, mapping Mapping) (string, error) {
	if len(mapping.Entries) != mapping.Count {
		return "", fmt.Errorf("%w: %d entries, %d recorded at redaction", ErrMappingMismatch, len(mapping.Entries), mapping.Count)
	}
	known := make(map[string]struct{}, len(mapping.Entries))
	for _, e := range mapping.Entries {
		if _, dup := known[e.Placeholder]; dup {
			return "", fmt.Errorf("%w: duplicate placeholder %s", ErrMappingMismatch, e.Placeholder)
		}
		known[e.Placeholder] = struct{}{}
	}

	entries := make([]Entry, len(mapping.Entries))
	copy(entries, mapping.Entries)
	sort.Slice(entries, func(i, j int) bool { return entries[i].Pos < entries[j].Pos })

	var out []byte
	cursor := 0
	for _, e := range entries {
		end := e.Pos + len(e.Placeholder)
		if e.Pos < cursor || end > len(scrubbed) || scrubbed[e.Pos:end] != e.Placeholder {
			return "", fmt.Errorf("%w: %s not found at offset %d", ErrMappingMismatch, e.Placeholder, e.Pos)
		}
		out = append(out, scrubbed[cursor:e.Pos]...)
		out = append(out, e.Original...)
		cursor = end
	}
	out = append(out, scrubbed[cursor:]...)
	return string(out), nil
}
