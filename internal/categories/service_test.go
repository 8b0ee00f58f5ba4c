package categories

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/budgetcsv-dev/budgetcsv/internal/id"
	"github.com/budgetcsv-dev/budgetcsv/internal/store"
)

func testService(t *testing.T) *Service {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.Init(context.Background()))
	return NewService(st)
}

func TestAdd_DerivesStableID(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	cat, err := svc.Add(ctx, "Subscriptions")
	require.NoError(t, err)
	assert.Equal(t, id.CategoryID("Subscriptions"), cat.ID)
}

func TestAdd_DuplicateIsNoOp(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	first, err := svc.Add(ctx, "Subscriptions")
	require.NoError(t, err)
	again, err := svc.Add(ctx, "subscriptions")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, "Subscriptions", again.Name, "first spelling is kept")

	cats, err := svc.List(ctx)
	require.NoError(t, err)
	count := 0
	for _, c := range cats {
		if c.ID == first.ID {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestAdd_EmptyNameRejected(t *testing.T) {
	svc := testService(t)
	_, err := svc.Add(context.Background(), "   ")
	assert.Error(t, err)
}

func TestRemove_CaseInsensitive(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	require.NoError(t, svc.Remove(ctx, "groceries"))
	_, err := svc.FindByName(ctx, "Groceries")
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestRemove_Unknown(t *testing.T) {
	svc := testService(t)
	assert.ErrorIs(t, svc.Remove(context.Background(), "No Such"), ErrCategoryNotFound)
}

func TestNamesByID(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	byID, err := svc.NamesByID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Groceries", byID[id.CategoryID("Groceries")])
	assert.Empty(t, byID["missing"])
}

func TestFindByName(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	cat, err := svc.FindByName(ctx, "TRANSPORT")
	require.NoError(t, err)
	assert.Equal(t, "Transport", cat.Name)
}
