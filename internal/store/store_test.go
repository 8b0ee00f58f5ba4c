package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/budgetcsv-dev/budgetcsv/internal/model"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestOpen_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "test.db")
	st, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, st.Close())
}

func TestGetSet_RoundTrip(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	_, err := st.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, st.Set(ctx, "k", `{"a":1}`))
	got, err := st.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, got)

	require.NoError(t, st.Set(ctx, "k", `{"a":2}`))
	got, err = st.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `{"a":2}`, got)
}

func TestRules_RoundTrip(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	rules := []model.PayeeRule{
		{ID: 1, Pattern: "saq", Replacement: "SAQ", Enabled: true},
		{ID: 2, AccountID: 1, Pattern: `uber (\w+)`, IsRegex: true, MemoTemplate: `\1`, Enabled: false},
	}
	require.NoError(t, st.SetRules(ctx, rules))

	got, err := st.Rules(ctx)
	require.NoError(t, err)
	assert.Equal(t, rules, got)
}

func TestRules_LegacyNullAccountID(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	raw := `[{"id":5,"accountId":null,"pattern":"saq","isRegex":false,"replacement":"","categoryId":"","memoTemplate":"","enabled":true}]`
	require.NoError(t, st.Set(ctx, KeyPayeeRules, raw))

	got, err := st.Rules(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, model.WildcardAccountID, got[0].AccountID)
}

func TestCategories_LegacyStringForm(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	require.NoError(t, st.Set(ctx, KeyCategories, `["Groceries",{"id":"abc","name":"Transport"},""]`))

	got, err := st.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Groceries", got[0].Name)
	assert.NotEmpty(t, got[0].ID, "legacy string entries gain a derived id")
	assert.Equal(t, "abc", got[1].ID)
}

func TestReplaceAll(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	require.NoError(t, st.Init(ctx))
	require.NoError(t, st.ReplaceAll(ctx,
		[]model.PayeeRule{{ID: 1, Pattern: "x", Enabled: true}},
		[]model.Category{{Name: "Only One"}},
		[]model.Account{{ID: 1, Name: "Checkings"}},
	))

	rules, err := st.Rules(ctx)
	require.NoError(t, err)
	assert.Len(t, rules, 1)

	cats, err := st.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.NotEmpty(t, cats[0].ID)

	accounts, err := st.Accounts(ctx)
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
}

func TestInit_SeedsDefaults(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	require.NoError(t, st.Init(ctx))

	cats, err := st.Categories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, len(defaultCategories))
	for _, c := range cats {
		assert.NotEmpty(t, c.ID)
	}

	accounts, err := st.Accounts(ctx)
	require.NoError(t, err)
	assert.Len(t, accounts, len(model.SeedAccounts))

	rules, err := st.Rules(ctx)
	require.NoError(t, err)
	assert.Empty(t, rules)
}

func TestInit_Idempotent(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	require.NoError(t, st.Init(ctx))
	require.NoError(t, st.SetRules(ctx, []model.PayeeRule{{ID: 1, Pattern: "keep", Enabled: true}}))
	require.NoError(t, st.Init(ctx))

	rules, err := st.Rules(ctx)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "keep", rules[0].Pattern)
}

func TestInit_MigratesLegacyRuleCategory(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	raw := `[{"id":1,"pattern":"saq","category":"Vices","enabled":true}]`
	require.NoError(t, st.Set(ctx, KeyPayeeRules, raw))
	require.NoError(t, st.Init(ctx))

	rules, err := st.Rules(ctx)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.NotEmpty(t, rules[0].CategoryID)

	cats, err := st.Categories(ctx)
	require.NoError(t, err)
	var found bool
	for _, c := range cats {
		if c.Name == "Vices" && c.ID == rules[0].CategoryID {
			found = true
		}
	}
	assert.True(t, found, "unknown legacy category gets created")
}

func TestDedupeCategories(t *testing.T) {
	cats := DedupeCategories([]model.Category{
		{Name: "Groceries"},
		{Name: "groceries"}, // same derived id
		{ID: "x", Name: "Other"},
		{ID: "x", Name: "Other Again"},
		{Name: "  "},
	})
	require.Len(t, cats, 2)
	assert.Equal(t, "Groceries", cats[0].Name)
	assert.Equal(t, "Other", cats[1].Name)
}
