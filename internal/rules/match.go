package rules

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/budgetcsv-dev/budgetcsv/internal/model"
)

// Match is the outcome of running a payee through a rule list.
type Match struct {
	Payee    string
	Category string
	Memo     string
	Matched  bool
}

// Matcher runs an ordered rule list against payee text. Regex patterns are
// compiled once at construction; a pattern that fails to compile is logged
// and never matches, it does not abort the batch.
type Matcher struct {
	entries    []matchEntry
	categories map[string]string // category id -> display name
	log        zerolog.Logger
}

type matchEntry struct {
	rule model.PayeeRule
	re   *regexp.Regexp // nil for literal rules and invalid patterns
}

// NewMatcher prepares a matcher over rules, resolving category references
// through the id->name map.
func NewMatcher(ruleList []model.PayeeRule, categories map[string]string, log zerolog.Logger) *Matcher {
	m := &Matcher{
		entries:    make([]matchEntry, 0, len(ruleList)),
		categories: categories,
		log:        log,
	}
	for _, r := range ruleList {
		e := matchEntry{rule: r}
		if r.IsRegex {
			re, err := regexp.Compile("(?i)" + r.Pattern)
			if err != nil {
				log.Warn().Int64("rule", r.ID).Str("pattern", r.Pattern).Err(err).
					Msg("invalid regex pattern, rule will never match")
			} else {
				e.re = re
			}
		}
		m.entries = append(m.entries, e)
	}
	return m
}

// Match scans the rules in stored order and applies the first enabled match.
// Given the same payee and the same rule list the result is always
// identical.
func (m *Matcher) Match(payee string) Match {
	for _, e := range m.entries {
		r := e.rule
		if !r.Enabled {
			continue
		}

		var groups []string
		matched := false

		if r.IsRegex {
			if e.re != nil {
				groups = e.re.FindStringSubmatch(payee)
				matched = groups != nil
			}
		} else {
			matched = strings.Contains(strings.ToLower(payee), strings.ToLower(r.Pattern))
		}

		if !matched {
			continue
		}

		out := Match{Payee: payee, Matched: true}
		if r.Replacement != "" {
			out.Payee = r.Replacement
		}
		if r.IsRegex && r.MemoTemplate != "" && groups != nil {
			out.Memo = substituteCaptures(r.MemoTemplate, groups)
		}
		out.Category = m.resolveCategory(r)
		return out
	}

	return Match{Payee: payee}
}

// resolveCategory prefers the id-based reference; the legacy bare name on
// the rule is fallback-only, so a renamed category wins over a stale name.
func (m *Matcher) resolveCategory(r model.PayeeRule) string {
	if r.CategoryID != "" {
		if name, ok := m.categories[r.CategoryID]; ok && name != "" {
			return name
		}
	}
	return r.Category
}

// substituteCaptures fills \1, \2, ... tokens with capture group text.
// groups[0] is the full match; a group that did not participate substitutes
// as the empty string, while tokens beyond the pattern's group count are
// left as-is.
func substituteCaptures(template string, groups []string) string {
	memo := template
	for i := 1; i < len(groups); i++ {
		memo = strings.ReplaceAll(memo, `\`+strconv.Itoa(i), groups[i])
	}
	return memo
}
