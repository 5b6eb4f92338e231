package rules

import (
	"log/slog"
	"math"
)

// DefaultCoverageRatio is the fraction of a rule set's fields that must match
// before the set is accepted. Half is a curator heuristic, not an invariant;
// it is kept configurable on the Matcher.
const DefaultCoverageRatio = 0.5

// Matcher applies a kind's rule sets, in catalog order, against raw OCR text
// and accepts the first set whose field coverage reaches the threshold.
// First plausible match wins: determinism over precision, so curators order
// sets from most-specific to most-general.
type Matcher struct {
	CoverageRatio float64
	Logger        *slog.Logger
}

func NewMatcher(coverageRatio float64, logger *slog.Logger) *Matcher {
	if coverageRatio <= 0 || coverageRatio > 1 {
		coverageRatio = DefaultCoverageRatio
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{CoverageRatio: coverageRatio, Logger: logger}
}

// Match returns the first accepted rule set's extraction, or nil when no set
// reaches the coverage threshold. Later sets are never tried once one is
// accepted. A field whose pattern misses (or whose capture group is empty)
// takes its default value: present in the result, counted as unmatched.
func (m *Matcher) Match(rawText string, sets []RuleSet) *Extraction {
	for _, set := range sets {
		ex := applyRuleSet(rawText, set)
		if accepted(ex.Matched, len(set.Fields), m.CoverageRatio) {
			m.Logger.Debug("rules.match.accepted",
				"rule_set", set.Name,
				"matched", ex.Matched,
				"fields", len(set.Fields),
			)
			return ex
		}
	}
	return nil
}

func applyRuleSet(rawText string, set RuleSet) *Extraction {
	ex := &Extraction{
		RuleSet: set.Name,
		Fields:  make(map[string]string, len(set.Fields)),
	}
	for i := range set.Fields {
		f := &set.Fields[i]
		value, ok := extractField(rawText, f)
		if ok {
			ex.Matched++
		}
		ex.Fields[f.Field] = value
	}
	return ex
}

func extractField(rawText string, f *RuleField) (string, bool) {
	re := f.compiledPattern()
	if re == nil {
		return f.DefaultValue, false
	}
	groups := re.FindStringSubmatch(rawText)
	if groups == nil || f.Group >= len(groups) || groups[f.Group] == "" {
		return f.DefaultValue, false
	}
	return groups[f.Group], true
}

func accepted(matched, total int, ratio float64) bool {
	if total == 0 {
		return false
	}
	return matched >= int(math.Ceil(ratio*float64(total)))
}
