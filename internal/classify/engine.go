// Package classify matches transaction descriptions against stored
// patterns, highest confidence first.
package classify

import (
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/castmind/quetzal/internal/model"
)

// Match is the winning pattern target for one description.
type Match struct {
	Target     string
	Confidence float64
}

// Engine evaluates one pattern set. Build one engine per table (category
// patterns or merchant patterns); the matching rules are identical, only
// the targets differ. An engine is immutable after construction and safe
// for concurrent use.
type Engine struct {
	rules []model.Pattern
	// compiled is keyed by rule index rather than pattern ID, so rules
	// that were never persisted (ID zero) still get distinct slots.
	compiled map[int]*regexp.Regexp
}

// NewEngine builds an engine over the active patterns. Rules are ordered
// by confidence descending, then ID ascending, so evaluation order and
// tie-breaking are deterministic. Regex patterns that fail to compile are
// logged and never match.
func NewEngine(patterns []model.Pattern) *Engine {
	rules := make([]model.Pattern, 0, len(patterns))
	for _, p := range patterns {
		if p.IsActive {
			rules = append(rules, p)
		}
	}
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].Confidence != rules[j].Confidence {
			return rules[i].Confidence > rules[j].Confidence
		}
		return rules[i].ID < rules[j].ID
	})

	compiled := map[int]*regexp.Regexp{}
	for i, rule := range rules {
		if rule.MatchType != model.MatchRegex {
			continue
		}
		re, err := regexp.Compile("(?i)" + rule.Text)
		if err != nil {
			slog.Warn("skipping malformed regex pattern",
				"pattern_id", rule.ID,
				"text", rule.Text,
				"error", err,
			)
			continue
		}
		compiled[i] = re
	}

	return &Engine{rules: rules, compiled: compiled}
}

// Classify returns the highest-confidence match for a description, or
// false when no pattern matches.
func (e *Engine) Classify(description string) (Match, bool) {
	lower := strings.ToLower(description)
	for i, rule := range e.rules {
		if e.matches(i, rule, description, lower) {
			return Match{Target: rule.Target, Confidence: rule.Confidence}, true
		}
	}
	return Match{}, false
}

func (e *Engine) matches(idx int, rule model.Pattern, description, lower string) bool {
	text := strings.ToLower(rule.Text)
	switch rule.MatchType {
	case model.MatchExact:
		return lower == text
	case model.MatchContains:
		return strings.Contains(lower, text)
	case model.MatchStartsWith:
		return strings.HasPrefix(lower, text)
	case model.MatchEndsWith:
		return strings.HasSuffix(lower, text)
	case model.MatchRegex:
		re, ok := e.compiled[idx]
		return ok && re.MatchString(description)
	default:
		return false
	}
}

// Categorize assigns categories to every transaction without a manual
// category, in place, and reports how many changed. Manually categorized
// transactions are never touched.
func (e *Engine) Categorize(txns []model.Transaction) int {
	updated := 0
	for i := range txns {
		if txns[i].ManuallyCategorized {
			continue
		}
		m, ok := e.Classify(txns[i].Description)
		if !ok {
			continue
		}
		if txns[i].Category != m.Target || txns[i].CategoryConfidence != m.Confidence {
			txns[i].Category = m.Target
			txns[i].CategoryConfidence = m.Confidence
			updated++
		}
	}
	return updated
}

// Normalize assigns merchant names in place and reports how many changed.
// Merchant normalization has no manual latch; a better pattern always wins.
func (e *Engine) Normalize(txns []model.Transaction) int {
	updated := 0
	for i := range txns {
		m, ok := e.Classify(txns[i].Description)
		if !ok {
			continue
		}
		if txns[i].MerchantName != m.Target {
			txns[i].MerchantName = m.Target
			updated++
		}
	}
	return updated
}
