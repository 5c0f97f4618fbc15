package stackpool_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssamanthaaa/advanced-programming-2021/pkg/stackpool"
)

func TestShardedPool_StableRouting(t *testing.T) {
	t.Parallel()

	sharded := stackpool.NewShardedPool[int](4, 0)
	require.Len(t, sharded.Shards(), 4)

	for _, key := range []string{"alpha", "beta", "gamma"} {
		first := sharded.Shard(key)
		second := sharded.Shard(key)
		assert.Same(t, first, second, "key %q must route to one shard", key)
	}
}

func TestShardedPool_ClampsShardCount(t *testing.T) {
	t.Parallel()

	sharded := stackpool.NewShardedPool[int](0, 0)
	assert.Len(t, sharded.Shards(), 1)
}

func TestShardedPool_ThresholdDivision(t *testing.T) {
	t.Parallel()

	t.Run("even_split", func(t *testing.T) {
		t.Parallel()

		sharded := stackpool.NewShardedPool[int](4, 100)
		for _, shard := range sharded.Shards() {
			assert.Equal(t, 25, shard.HibernationThreshold)
		}
	})

	t.Run("zero_quotient_floors", func(t *testing.T) {
		t.Parallel()

		sharded := stackpool.NewShardedPool[int](4, 2)
		for _, shard := range sharded.Shards() {
			assert.Equal(t, 1000, shard.HibernationThreshold)
		}
	})
}

func TestShardedPool_HibernateBoot(t *testing.T) {
	t.Parallel()

	const keyCount = 16

	sharded := stackpool.NewShardedPool[uint32](3, 0)
	heads := map[string]stackpool.Index{}

	for i := range keyCount {
		key := "stack-" + strconv.Itoa(i)
		shard := sharded.Shard(key)

		head, err := shard.Push(uint32(i), shard.NewStack())
		require.NoError(t, err)

		heads[key] = head
	}

	require.NoError(t, sharded.Hibernate())

	// Every shard is parked, populated or not.
	for _, shard := range sharded.Shards() {
		assert.Panics(t, func() {
			_, _ = shard.Push(0, stackpool.End)
		})
	}

	require.NoError(t, sharded.Boot())

	for i := range keyCount {
		key := "stack-" + strconv.Itoa(i)
		shard := sharded.Shard(key)

		val, err := shard.Value(heads[key])
		require.NoError(t, err)
		assert.Equal(t, uint32(i), *val)
	}
}
