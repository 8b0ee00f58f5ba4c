package rules

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/budgetcsv-dev/budgetcsv/internal/model"
)

func TestMatch_LiteralCaseInsensitive(t *testing.T) {
	m := NewMatcher([]model.PayeeRule{
		{ID: 1, Pattern: "tim hortons", Replacement: "Tim Hortons", Enabled: true},
	}, nil, zerolog.Nop())

	got := m.Match("TIM HORTONS #1234 MONTREAL")
	assert.True(t, got.Matched)
	assert.Equal(t, "Tim Hortons", got.Payee)
}

func TestMatch_FirstMatchWins(t *testing.T) {
	m := NewMatcher([]model.PayeeRule{
		{ID: 1, Pattern: "metro", Replacement: "Metro", Enabled: true},
		{ID: 2, Pattern: "metro plus", Replacement: "Metro Plus", Enabled: true},
	}, nil, zerolog.Nop())

	got := m.Match("METRO PLUS ST-DENIS")
	assert.Equal(t, "Metro", got.Payee)
}

func TestMatch_EmptyReplacementKeepsPayee(t *testing.T) {
	m := NewMatcher([]model.PayeeRule{
		{ID: 1, Pattern: "saq", CategoryID: "c1", Enabled: true},
	}, map[string]string{"c1": "Leisure"}, zerolog.Nop())

	got := m.Match("SAQ MONTREAL")
	assert.True(t, got.Matched)
	assert.Equal(t, "SAQ MONTREAL", got.Payee)
	assert.Equal(t, "Leisure", got.Category)
}

func TestMatch_RegexCaseInsensitive(t *testing.T) {
	m := NewMatcher([]model.PayeeRule{
		{ID: 1, Pattern: `^uber\s+(eats|trip)`, IsRegex: true, Replacement: "Uber", Enabled: true},
	}, nil, zerolog.Nop())

	assert.True(t, m.Match("UBER EATS TORONTO").Matched)
	assert.True(t, m.Match("Uber Trip").Matched)
	assert.False(t, m.Match("LYFT TRIP").Matched)
}

func TestMatch_MemoTemplateSubstitution(t *testing.T) {
	m := NewMatcher([]model.PayeeRule{
		{ID: 1, Pattern: `PAYMENT (\w+) REF (\d+)`, IsRegex: true, MemoTemplate: `ref \2 via \1`, Enabled: true},
	}, nil, zerolog.Nop())

	got := m.Match("PAYMENT INTERAC REF 991")
	assert.Equal(t, `ref 991 via INTERAC`, got.Memo)
}

func TestMatch_MemoTemplateLiteralRuleIgnored(t *testing.T) {
	// memo templates only apply to regex rules
	m := NewMatcher([]model.PayeeRule{
		{ID: 1, Pattern: "saq", MemoTemplate: `\1`, Enabled: true},
	}, nil, zerolog.Nop())

	got := m.Match("SAQ MONTREAL")
	assert.True(t, got.Matched)
	assert.Empty(t, got.Memo)
}

func TestMatch_MemoTokenBeyondGroupCount(t *testing.T) {
	m := NewMatcher([]model.PayeeRule{
		{ID: 1, Pattern: `FEE (\w+)`, IsRegex: true, MemoTemplate: `\1 \2`, Enabled: true},
	}, nil, zerolog.Nop())

	got := m.Match("FEE MONTHLY")
	assert.Equal(t, `MONTHLY \2`, got.Memo)
}

func TestMatch_DisabledRuleSkipped(t *testing.T) {
	m := NewMatcher([]model.PayeeRule{
		{ID: 1, Pattern: "saq", Replacement: "Nope", Enabled: false},
	}, nil, zerolog.Nop())

	got := m.Match("SAQ MONTREAL")
	assert.False(t, got.Matched)
	assert.Equal(t, "SAQ MONTREAL", got.Payee)
}

func TestMatch_InvalidRegexNeverMatches(t *testing.T) {
	m := NewMatcher([]model.PayeeRule{
		{ID: 1, Pattern: `([unclosed`, IsRegex: true, Enabled: true},
		{ID: 2, Pattern: "saq", Replacement: "SAQ", Enabled: true},
	}, nil, zerolog.Nop())

	got := m.Match("SAQ MONTREAL")
	assert.Equal(t, "SAQ", got.Payee)
}

func TestResolveCategory_IDWinsOverLegacyName(t *testing.T) {
	m := NewMatcher([]model.PayeeRule{
		{ID: 1, Pattern: "saq", CategoryID: "c1", Category: "Stale Name", Enabled: true},
	}, map[string]string{"c1": "Leisure"}, zerolog.Nop())

	assert.Equal(t, "Leisure", m.Match("SAQ").Category)
}

func TestResolveCategory_LegacyNameFallback(t *testing.T) {
	m := NewMatcher([]model.PayeeRule{
		{ID: 1, Pattern: "saq", CategoryID: "missing", Category: "Old School", Enabled: true},
	}, map[string]string{}, zerolog.Nop())

	assert.Equal(t, "Old School", m.Match("SAQ").Category)
}
