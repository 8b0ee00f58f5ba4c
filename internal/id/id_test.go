package id

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryID_KnownDigest(t *testing.T) {
	// persisted ids depend on this exact digest
	assert.Equal(t, "70dae963ec72af0a35efe7233bed1a5a", CategoryID("Groceries"))
}

func TestCategoryID_CaseInsensitive(t *testing.T) {
	assert.Equal(t, CategoryID("groceries"), CategoryID("GROCERIES"))
	assert.Equal(t, CategoryID("Groceries"), CategoryID("groceries"))
}

func TestCategoryID_DistinctNames(t *testing.T) {
	assert.NotEqual(t, CategoryID("Groceries"), CategoryID("Transport"))
}

func TestNewRuleID_Monotonic(t *testing.T) {
	a := NewRuleID()
	b := NewRuleID()
	c := NewRuleID()
	assert.Less(t, a, b)
	assert.Less(t, b, c)
}

func TestNewRuleID_UniqueUnderConcurrency(t *testing.T) {
	const n = 100
	ids := make(chan int64, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- NewRuleID()
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool, n)
	for id := range ids {
		assert.False(t, seen[id])
		seen[id] = true
	}
}
