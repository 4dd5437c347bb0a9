package quote

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseIDPassesThroughUnsuffixedIDs(t *testing.T) {
	for _, id := range []string{"Q-12345678", "Q", "ORD-77", ""} {
		assert.Equal(t, id, BaseID(id), "id %q", id)
	}
}

func TestBaseIDStripsSuffix(t *testing.T) {
	assert.Equal(t, "Q-12345678", BaseID("Q-12345678-A"))
	assert.Equal(t, "Q-12345678-A", BaseID("Q-12345678-A-B"))
}

func TestSuffixAndIsSuffixed(t *testing.T) {
	assert.Equal(t, "A", Suffix("Q-12345678-A"))
	assert.Equal(t, "", Suffix("Q-12345678"))
	assert.True(t, IsSuffixed("Q-12345678-A"))
	assert.False(t, IsSuffixed("Q-12345678"))
}

func TestAllocatorIssuesSequentialSuffixes(t *testing.T) {
	alloc := NewAllocator()

	assert.Equal(t, "A", alloc.Next("Q-1"))
	assert.Equal(t, "B", alloc.Next("Q-1"))
	assert.Equal(t, "C", alloc.Next("Q-1"))

	// Independent sequence per base id.
	assert.Equal(t, "A", alloc.Next("Q-2"))
}

func TestAllocatorIsSafeUnderConcurrentUse(t *testing.T) {
	alloc := NewAllocator()

	const n = 26
	var wg sync.WaitGroup
	results := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- alloc.Next("Q-race")
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[string]bool)
	for s := range results {
		require.False(t, seen[s], "suffix %q issued twice", s)
		seen[s] = true
	}
	require.Len(t, seen, n)
}

func TestNewIDShape(t *testing.T) {
	id := NewID()
	require.Len(t, id, 10)
	assert.Equal(t, "Q-", id[:2])
	assert.Equal(t, id, BaseID(id))
}
