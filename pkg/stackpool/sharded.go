package stackpool

import (
	"errors"
	"hash/fnv"
	"sync"
)

// minHibernationThreshold is the minimal reasonable per-shard default if
// division results in 0.
const minHibernationThreshold = 1000

// ShardedPool spreads stacks over multiple independent pools so that
// callers partitioning work by key can mutate shards in parallel, under a
// per-shard single-writer discipline. Handles are only meaningful within
// the shard that issued them.
type ShardedPool[T any] struct {
	shards []*Pool[T]
}

// NewShardedPool creates a ShardedPool with shardCount shards, dividing
// hibernationThreshold across them.
func NewShardedPool[T any](shardCount, hibernationThreshold int) *ShardedPool[T] {
	if shardCount <= 0 {
		shardCount = 1
	}

	shards := make([]*Pool[T], shardCount)

	for idx := range shardCount {
		shards[idx] = New[T]()

		if hibernationThreshold > 0 {
			shards[idx].HibernationThreshold = hibernationThreshold / shardCount
			if shards[idx].HibernationThreshold == 0 {
				shards[idx].HibernationThreshold = minHibernationThreshold
			}
		}
	}

	return &ShardedPool[T]{shards: shards}
}

// Shard returns the pool that owns the given key.
func (sp *ShardedPool[T]) Shard(key string) *Pool[T] {
	hasher := fnv.New32a()
	hasher.Write([]byte(key))

	idx := int(hasher.Sum32()) % len(sp.shards)
	if idx < 0 {
		idx = -idx
	}

	return sp.shards[idx]
}

// Shards returns all underlying pools.
func (sp *ShardedPool[T]) Shards() []*Pool[T] {
	return sp.shards
}

// Hibernate hibernates all shards in parallel, regardless of their
// thresholds.
func (sp *ShardedPool[T]) Hibernate() error {
	errs := make([]error, len(sp.shards))

	wg := sync.WaitGroup{}
	wg.Add(len(sp.shards))

	for idx, shard := range sp.shards {
		go func(slot int, pool *Pool[T]) {
			defer wg.Done()

			// Force hibernation even if below threshold by temporarily setting the threshold to 0.
			originalThreshold := pool.HibernationThreshold
			pool.HibernationThreshold = 0
			errs[slot] = pool.Hibernate()
			pool.HibernationThreshold = originalThreshold
		}(idx, shard)
	}

	wg.Wait()

	return errors.Join(errs...)
}

// Boot boots all shards in parallel.
func (sp *ShardedPool[T]) Boot() error {
	errs := make([]error, len(sp.shards))

	wg := sync.WaitGroup{}
	wg.Add(len(sp.shards))

	for idx, shard := range sp.shards {
		go func(slot int, pool *Pool[T]) {
			defer wg.Done()

			errs[slot] = pool.Boot()
		}(idx, shard)
	}

	wg.Wait()

	return errors.Join(errs...)
}
