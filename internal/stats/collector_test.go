package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/albertopd/secureprompt/internal/audit"
)

func TestCollectFromEntries(t *testing.T) {
	entries := []audit.Entry{
		{Timestamp: "2026-08-20T10:00:00Z", Operation: audit.OpScrub, MappingID: "a", Level: "C4",
			EntityCount: map[string]int{"IBAN_CODE": 2, "person": 1}, Outcome: "ok"},
		{Timestamp: "2026-08-20T10:01:00Z", Operation: audit.OpScrub, MappingID: "b", Level: "C2",
			EntityCount: map[string]int{"EMPLOYEE_ID": 1}, Outcome: "ok"},
		{Timestamp: "2026-08-20T10:02:00Z", Operation: audit.OpDescrub, MappingID: "a", Outcome: "ok"},
		{Timestamp: "2026-08-20T10:03:00Z", Operation: audit.OpScrub, Outcome: "error", Error: "merge: invalid span"},
	}

	st := CollectFromEntries(entries, Options{})

	assert.Equal(t, 4, st.Operations.Total)
	assert.Equal(t, 3, st.Operations.Scrubs)
	assert.Equal(t, 1, st.Operations.Descrubs)
	assert.Equal(t, 1, st.Operations.Errors)

	assert.Equal(t, 4, st.RedactedItems.Total)
	assert.Equal(t, 2, st.RedactedItems.ByType["IBAN_CODE"])
	assert.Equal(t, 1, st.RedactedItems.ByType["PERSON"], "types are normalized to upper case")

	assert.Equal(t, map[string]int{"C4": 1, "C2": 1}, st.ByLevel)

	// Recent events come newest first.
	if assert.Len(t, st.Recent, 4) {
		assert.Equal(t, "error", st.Recent[0].Outcome)
		assert.Equal(t, audit.OpDescrub, st.Recent[1].Operation)
	}
}

func TestCollectTopTypesLimit(t *testing.T) {
	entries := []audit.Entry{{
		Operation: audit.OpScrub,
		Level:     "C3",
		Outcome:   "ok",
		EntityCount: map[string]int{
			"A": 9, "B": 8, "C": 7, "D": 6, "E": 5, "F": 4, "G": 3,
		},
	}}
	st := CollectFromEntries(entries, Options{TopN: 3})
	if assert.Len(t, st.TopTypes, 3) {
		assert.Equal(t, TypeStats{Type: "A", Count: 9}, st.TopTypes[0])
	}
}

func TestCollectEmpty(t *testing.T) {
	st := CollectFromEntries(nil, Options{})
	assert.Equal(t, 0, st.Operations.Total)
	assert.Empty(t, st.Recent)
}
