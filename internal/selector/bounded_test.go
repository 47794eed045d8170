package selector

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slices"
)

func intLess(a, b int) bool { return a < b }

// drain pops every element, returning them in ascending order
func drain(b *Bounded[int]) []int {
	var out []int
	for {
		v, ok := b.PopMin()
		if !ok {
			return out
		}
		out = append(out, v)
	}
}

// TestNew tests selector construction
func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		expected int
	}{
		{name: "positive capacity", capacity: 5, expected: 5},
		{name: "zero capacity", capacity: 0, expected: 0},
		{name: "negative capacity clamps to zero", capacity: -3, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(tt.capacity, intLess)
			require.NotNil(t, b)
			assert.Equal(t, tt.expected, b.Cap())
			assert.True(t, b.IsEmpty())
			assert.Equal(t, 0, b.Len())
		})
	}
}

// TestInsertKeepsLargest verifies the selector retains the N greatest values
func TestInsertKeepsLargest(t *testing.T) {
	b := New(3, intLess)
	for _, v := range []int{5, 1, 9, 3, 7, 2, 8} {
		b.Insert(v)
	}

	assert.Equal(t, 3, b.Len())
	assert.Equal(t, []int{7, 8, 9}, drain(b))
	assert.True(t, b.IsEmpty())
}

// TestZeroCapacity verifies a zero-capacity selector never retains anything
func TestZeroCapacity(t *testing.T) {
	b := New(0, intLess)
	for i := 0; i < 100; i++ {
		b.Insert(i)
		assert.True(t, b.IsEmpty())
	}

	_, ok := b.PopMin()
	assert.False(t, ok)
}

// TestSizeBound checks size never exceeds capacity for random streams
func TestSizeBound(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for _, capacity := range []int{0, 1, 2, 10, 64} {
		b := New(capacity, intLess)
		var all []int
		for i := 0; i < 500; i++ {
			v := rng.Intn(1000)
			all = append(all, v)
			b.Insert(v)
			require.LessOrEqual(t, b.Len(), capacity)
		}

		sort.Sort(sort.Reverse(sort.IntSlice(all)))
		want := all[:capacity]
		got := drain(b)
		slices.Reverse(got)
		assert.Equal(t, want, got, "capacity %d", capacity)
	}
}

// TestEvictionIdempotence verifies inserting below the minimum of a full
// selector leaves the contents unchanged
func TestEvictionIdempotence(t *testing.T) {
	b := New(3, intLess)
	for _, v := range []int{10, 20, 30} {
		b.Insert(v)
	}

	before := b.Items()
	sort.Ints(before)

	b.Insert(5)
	b.Insert(9)

	after := b.Items()
	sort.Ints(after)
	assert.Equal(t, before, after)

	minV, ok := b.Min()
	require.True(t, ok)
	assert.Equal(t, 10, minV)
}

// TestPopMinOrder verifies elements come out in ascending order
func TestPopMinOrder(t *testing.T) {
	b := New(10, intLess)
	for _, v := range []int{4, 2, 8, 6, 0} {
		b.Insert(v)
	}
	assert.Equal(t, []int{0, 2, 4, 6, 8}, drain(b))

	_, ok := b.PopMin()
	assert.False(t, ok, "PopMin on empty selector should report false")
}

// TestClear verifies Clear empties the selector and keeps it usable
func TestClear(t *testing.T) {
	b := New(2, intLess)
	b.Insert(1)
	b.Insert(2)
	b.Clear()

	assert.True(t, b.IsEmpty())
	assert.Equal(t, 2, b.Cap())

	b.Insert(3)
	assert.Equal(t, 1, b.Len())
}

// TestAll verifies iteration covers every retained element and stops early
func TestAll(t *testing.T) {
	b := New(4, intLess)
	for _, v := range []int{3, 1, 4, 1, 5} {
		b.Insert(v)
	}

	var seen []int
	for v := range b.All() {
		seen = append(seen, v)
	}
	sort.Ints(seen)
	assert.Equal(t, []int{1, 3, 4, 5}, seen)

	count := 0
	for range b.All() {
		count++
		break
	}
	assert.Equal(t, 1, count)
	assert.Equal(t, 4, b.Len(), "iteration must not consume elements")
}

// TestComparator verifies the ordering is taken from the supplied function
func TestComparator(t *testing.T) {
	// reversed ordering keeps the smallest values instead
	b := New(2, func(a, c int) bool { return a > c })
	for _, v := range []int{5, 1, 9, 3} {
		b.Insert(v)
	}

	got := b.Items()
	sort.Ints(got)
	assert.Equal(t, []int{1, 3}, got)
}
