// Package stats aggregates audit-log entries for the stats command.
package stats

import (
	"sort"
	"strings"

	"github.com/albertopd/secureprompt/internal/audit"
)

type Stats struct {
	Operations    OperationStats `json:"operations"`
	RedactedItems RedactedStats  `json:"redacted_items"`
	ByLevel       map[string]int `json:"by_level"`
	TopTypes      []TypeStats    `json:"top_types"`
	Recent        []RecentEvent  `json:"recent,omitempty"`
}

type OperationStats struct {
	Total    int `json:"total"`
	Scrubs   int `json:"scrubs"`
	Descrubs int `json:"descrubs"`
	Errors   int `json:"errors"`
}

type RedactedStats struct {
	Total  int            `json:"total"`
	ByType map[string]int `json:"by_type"`
}

type TypeStats struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

type RecentEvent struct {
	Timestamp string `json:"timestamp"`
	Operation string `json:"operation"`
	MappingID string `json:"mapping_id"`
	Level     string `json:"level"`
	Redacted  int    `json:"redacted_count"`
	Outcome   string `json:"outcome"`
}

type Options struct {
	TopN    int
	RecentN int
}

// CollectFromEntries reduces parsed audit entries into display aggregates.
func CollectFromEntries(entries []audit.Entry, opts Options) Stats {
	topN := opts.TopN
	if topN <= 0 {
		topN = 5
	}
	recentN := opts.RecentN
	if recentN <= 0 {
		recentN = 20
	}

	out := Stats{
		RedactedItems: RedactedStats{ByType: map[string]int{}},
		ByLevel:       map[string]int{},
	}

	recent := make([]RecentEvent, 0, len(entries))
	for _, e := range entries {
		out.Operations.Total++
		switch e.Operation {
		case audit.OpScrub:
			out.Operations.Scrubs++
		case audit.OpDescrub:
			out.Operations.Descrubs++
		}
		if e.Outcome != "ok" {
			out.Operations.Errors++
		}

		if e.Level != "" {
			out.ByLevel[e.Level]++
		}

		redacted := 0
		for typ, n := range e.EntityCount {
			t := strings.ToUpper(strings.TrimSpace(typ))
			if t == "" || n <= 0 {
				continue
			}
			out.RedactedItems.ByType[t] += n
			out.RedactedItems.Total += n
			redacted += n
		}

		recent = append(recent, RecentEvent{
			Timestamp: e.Timestamp,
			Operation: e.Operation,
			MappingID: e.MappingID,
			Level:     e.Level,
			Redacted:  redacted,
			Outcome:   e.Outcome,
		})
	}

	for t, c := range out.RedactedItems.ByType {
		out.TopTypes = append(out.TopTypes, TypeStats{Type: t, Count: c})
	}
	sort.Slice(out.TopTypes, func(i, j int) bool {
		if out.TopTypes[i].Count == out.TopTypes[j].Count {
			return out.TopTypes[i].Type < out.TopTypes[j].Type
		}
		return out.TopTypes[i].Count > out.TopTypes[j].Count
	})
	if len(out.TopTypes) > topN {
		out.TopTypes = out.TopTypes[:topN]
	}

	for i := len(recent) - 1; i >= 0 && len(out.Recent) < recentN; i-- {
		out.Recent = append(out.Recent, recent[i])
	}
	return out
}
