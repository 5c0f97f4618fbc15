package stackpool

// Iterator walks one stack chain forward, from a head index to End. It
// reads through the pool and carries no invalidation tracking: if the pool
// recycles the node an iterator sits on, the iterator observes the slot's
// new, unrelated value. Iterators are restartable by reconstructing from a
// saved head index.
type Iterator[T any] struct {
	pool *Pool[T]
	node Index
}

// Begin returns an iterator positioned at the head of the chain rooted at
// x. The empty stack yields an iterator already at the limit.
func (p *Pool[T]) Begin(x Index) (Iterator[T], error) {
	p.ensureBooted()

	if err := p.checkStack(x); err != nil {
		return Iterator[T]{}, err
	}

	return Iterator[T]{pool: p, node: x}, nil
}

// Limit returns the past-the-end iterator. End is global to the pool, so
// one limit iterator terminates every stack in it.
func (p *Pool[T]) Limit() Iterator[T] {
	return Iterator[T]{pool: p, node: End}
}

// Value returns a pointer to the current node's value.
//
// REQUIRES: !it.Limit().
func (it Iterator[T]) Value() *T {
	doAssert(!it.Limit())

	return &it.pool.node(it.node).value
}

// Next creates a new iterator advanced to the successor of the current
// node.
//
// REQUIRES: !it.Limit().
func (it Iterator[T]) Next() Iterator[T] {
	doAssert(!it.Limit())

	return Iterator[T]{pool: it.pool, node: it.pool.node(it.node).next}
}

// Limit reports whether the iterator is past the last element of its
// chain.
func (it Iterator[T]) Limit() bool {
	return it.node == End
}

// Equal reports whether two iterators over the same pool sit on the same
// node.
func (it Iterator[T]) Equal(other Iterator[T]) bool {
	return it.node == other.node
}
