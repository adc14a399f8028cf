package model

import (
	"fmt"
	"time"
)

// MatchType is the string-comparison strategy a pattern uses against a
// transaction description.
type MatchType string

// Match type constants.
const (
	MatchExact      MatchType = "exact"
	MatchContains   MatchType = "contains"
	MatchStartsWith MatchType = "starts_with"
	MatchEndsWith   MatchType = "ends_with"
	MatchRegex      MatchType = "regex"
)

// Pattern is one classification rule. Category patterns and merchant
// patterns are structurally identical; Target holds a category name for
// the former and a normalized merchant name for the latter.
type Pattern struct {
	CreatedAt  time.Time
	Text       string
	Target     string
	MatchType  MatchType
	ID         int64
	Confidence float64
	IsActive   bool
}

// Validate ensures the pattern can be evaluated.
func (p *Pattern) Validate() error {
	if p.Text == "" {
		return fmt.Errorf("pattern text is required")
	}
	if p.Target == "" {
		return fmt.Errorf("pattern target is required")
	}
	switch p.MatchType {
	case MatchExact, MatchContains, MatchStartsWith, MatchEndsWith, MatchRegex:
	default:
		return fmt.Errorf("invalid match type %q", p.MatchType)
	}
	if p.Confidence < 0 || p.Confidence > 1 {
		return fmt.Errorf("confidence must be between 0 and 1")
	}
	return nil
}
