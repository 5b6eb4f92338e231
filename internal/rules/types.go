// Package rules holds the data-driven extraction rule catalog and matcher.
// Rule sets are external data (regex + capture group + default), fetched at
// runtime, so new trade-dialog layouts ship without a redeploy.
package rules

import "regexp"

// RuleField is one named regular-expression extraction within a rule set.
type RuleField struct {
	Field        string `json:"field"`
	Pattern      string `json:"regex"`
	Group        int    `json:"group"`
	DefaultValue string `json:"default_value"`

	re       *regexp.Regexp
	compiled bool
}

// compiledPattern lazily compiles the field's pattern. A pattern that fails
// to compile leaves the field permanently unmatched, so its default still
// applies.
func (f *RuleField) compiledPattern() *regexp.Regexp {
	if !f.compiled {
		f.compiled = true
		if re, err := regexp.Compile(f.Pattern); err == nil {
			f.re = re
		}
	}
	return f.re
}

// RuleSet is one recognizable text layout for a record kind, e.g. the booth
// listing format vs. the consignment format. Immutable once loaded; owned by
// the Catalog. Curators order sets from most-specific to most-general.
type RuleSet struct {
	Name   string      `json:"name"`
	Fields []RuleField `json:"patterns"`
}

// Extraction is the transient output of a successful match: every field of
// the accepted rule set, matched or defaulted, keyed by field name.
type Extraction struct {
	RuleSet string
	Matched int
	Fields  map[string]string
}
