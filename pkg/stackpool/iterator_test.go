package stackpool_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssamanthaaa/advanced-programming-2021/pkg/stackpool"
)

func TestIterator_RoundTrip(t *testing.T) {
	t.Parallel()

	pool := stackpool.New[int]()
	head := pool.NewStack()

	var err error
	for _, v := range []int{1, 2, 3, 4, 5} {
		head, err = pool.Push(v, head)
		require.NoError(t, err)
	}

	it, err := pool.Begin(head)
	require.NoError(t, err)

	var got []int
	for !it.Equal(pool.Limit()) {
		got = append(got, *it.Value())
		it = it.Next()
	}

	// Each push placed its value at the head, so iteration is reversed.
	assert.Equal(t, []int{5, 4, 3, 2, 1}, got)
}

func TestIterator_EmptyStackIsAtLimit(t *testing.T) {
	t.Parallel()

	pool := stackpool.New[int]()

	it, err := pool.Begin(pool.NewStack())
	require.NoError(t, err)
	assert.True(t, it.Limit())
	assert.True(t, it.Equal(pool.Limit()))
}

func TestIterator_BeginOutOfRange(t *testing.T) {
	t.Parallel()

	pool := stackpool.New[int]()

	_, err := pool.Begin(stackpool.Index(3))
	require.ErrorIs(t, err, stackpool.ErrInvalidInput)
}

func TestIterator_Equality(t *testing.T) {
	t.Parallel()

	pool := stackpool.New[int]()

	head, err := pool.Push(1, pool.NewStack())
	require.NoError(t, err)
	head, err = pool.Push(2, head)
	require.NoError(t, err)

	first, err := pool.Begin(head)
	require.NoError(t, err)

	second, err := pool.Begin(head)
	require.NoError(t, err)

	assert.True(t, first.Equal(second))

	second = second.Next()
	assert.False(t, first.Equal(second))

	second = second.Next()
	assert.True(t, second.Limit())
	assert.True(t, second.Equal(pool.Limit()))
}

// TestIterator_StaleObservesRecycledSlot pins down the documented sharp
// edge: an iterator created before a pop keeps reading its slot, which a
// later push may have reassigned to an unrelated stack.
func TestIterator_StaleObservesRecycledSlot(t *testing.T) {
	t.Parallel()

	pool := stackpool.New[int]()

	head, err := pool.Push(7, pool.NewStack())
	require.NoError(t, err)

	stale, err := pool.Begin(head)
	require.NoError(t, err)
	require.Equal(t, 7, *stale.Value())

	_, err = pool.Pop(head)
	require.NoError(t, err)

	reused, err := pool.Push(99, pool.NewStack())
	require.NoError(t, err)
	require.Equal(t, head, reused, "the freed slot should be recycled")

	assert.Equal(t, 99, *stale.Value())
}

func TestIterator_ValueAtLimitPanics(t *testing.T) {
	t.Parallel()

	pool := stackpool.New[int]()

	assert.Panics(t, func() {
		pool.Limit().Value()
	})
	assert.Panics(t, func() {
		pool.Limit().Next()
	})
}
