package merge

import "strings"

// Rule excludes candidate spans from redaction. A rule matches when every
// non-empty field matches the candidate: exact covered text, covered-text
// substring, or entity type. Matching is case-insensitive.
//
// Blacklist rules are strictly subtractive. They can stop a span from being
// redacted; they never add one.
type Rule struct {
	Text         string `yaml:"text" json:"text"`
	TextContains string `yaml:"text_contains" json:"text_contains"`
	EntityType   string `yaml:"entity_type" json:"entity_type"`
}

func (r Rule) matches(covered, entityType string) bool {
	if r.Text == "" && r.TextContains == "" && r.EntityType == "" {
		return false
	}
	if r.Text != "" && !strings.EqualFold(r.Text, covered) {
		return false
	}
	if r.TextContains != "" && !strings.Contains(strings.ToLower(covered), strings.ToLower(r.TextContains)) {
		return false
	}
	if r.EntityType != "" && !strings.EqualFold(r.EntityType, entityType) {
		return false
	}
	return true
}

func matchesAny(rules []Rule, covered, entityType string) bool {
	for _, r := range rules {
		if r.matches(covered, entityType) {
			return true
		}
	}
	return false
}
