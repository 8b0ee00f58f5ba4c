package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/budgetcsv-dev/budgetcsv/internal/model"
)

func TestParseAccountRef(t *testing.T) {
	id, err := parseAccountRef("")
	require.NoError(t, err)
	assert.Equal(t, model.WildcardAccountID, id)

	id, err = parseAccountRef("all")
	require.NoError(t, err)
	assert.Equal(t, model.WildcardAccountID, id)

	id, err = parseAccountRef("koho-bankaccount")
	require.NoError(t, err)
	assert.Equal(t, 3, id)

	id, err = parseAccountRef("7")
	require.NoError(t, err)
	assert.Equal(t, 7, id)

	_, err = parseAccountRef("not-an-account")
	assert.Error(t, err)
}

func TestParseRuleID(t *testing.T) {
	id, err := parseRuleID("1736899200000")
	require.NoError(t, err)
	assert.Equal(t, int64(1736899200000), id)

	_, err = parseRuleID("abc")
	assert.Error(t, err)
}

func TestRankRules(t *testing.T) {
	ruleList := []model.PayeeRule{
		{ID: 1, Pattern: "tim hortons", Replacement: "Tim Hortons"},
		{ID: 2, Pattern: "saq", Replacement: "SAQ"},
		{ID: 3, Pattern: "metro plus", Replacement: "Metro"},
	}

	got := rankRules(ruleList, "saq")
	require.NotEmpty(t, got)
	assert.Equal(t, int64(2), got[0].ID)

	// substring hit ranks first even when the query is shorter than the pattern
	got = rankRules(ruleList, "hortons")
	require.NotEmpty(t, got)
	assert.Equal(t, int64(1), got[0].ID)
}

func TestRankRules_NoMatch(t *testing.T) {
	ruleList := []model.PayeeRule{
		{ID: 1, Pattern: "tim hortons"},
	}
	assert.Empty(t, rankRules(ruleList, "zzzzzzzzzz"))
}

func TestRankRules_FuzzyTypo(t *testing.T) {
	ruleList := []model.PayeeRule{
		{ID: 1, Pattern: "saq", Replacement: "SAQ"},
		{ID: 2, Pattern: "completely different"},
	}
	got := rankRules(ruleList, "sqa")
	require.NotEmpty(t, got)
	assert.Equal(t, int64(1), got[0].ID)
}
