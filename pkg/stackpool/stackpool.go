// Package stackpool provides a pool-allocated multi-stack container: a
// single contiguous arena holds the nodes of many independent singly-linked
// stacks, each identified only by the index of its head node. Freed slots
// are recycled through a free list, so long-lived pools do not grow without
// bound and do not allocate per push.
package stackpool

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput is returned when an operation receives an index or
// capacity argument outside its contract. A rejected operation leaves the
// pool and every handle unchanged.
var ErrInvalidInput = errors.New("stackpool: invalid input")

// Index is a 1-based handle into the pool's arena. The reserved value End
// doubles as the empty stack and the end of iteration; index i (i >= 1)
// refers to the node stored at arena position i-1.
type Index uint32

// End is the sentinel index meaning "no node". It is the canonical empty
// stack and the terminator of every chain.
const End Index = 0

// maxNodes caps the arena at the last representable uint32 index.
const maxNodes = math.MaxUint32

// node is a value plus the index of its successor. Nodes exist only inside
// a pool's arena.
type node[T any] struct {
	value T
	next  Index
}

// Pool is a growable arena of nodes shared by any number of stacks, plus
// the head of the free list threading recycled slots. A stack is not an
// object: it is an Index the caller stores and passes back in. Push and
// Pop return the new head; the argument handle is stale afterwards and
// must not be reused as the head of the same logical stack.
//
// A Pool must be created with New or NewWithCapacity. It is not safe for
// concurrent use: callers that need concurrency must supply external
// mutual exclusion around the whole pool.
type Pool[T any] struct {
	nodes    []node[T]
	freeHead Index
	freeLen  int

	// HibernationThreshold is the minimum number of allocated slots for
	// Hibernate to act; below it, Hibernate is a no-op.
	HibernationThreshold int

	hibernated *hibernatedPool
}

// New creates an empty pool.
func New[T any]() *Pool[T] {
	return &Pool[T]{nodes: []node[T]{}, freeHead: End}
}

// NewWithCapacity creates an empty pool with room for n nodes. n must be
// strictly positive.
func NewWithCapacity[T any](n int) (*Pool[T], error) {
	pool := New[T]()

	if err := pool.Reserve(n); err != nil {
		return nil, err
	}

	return pool, nil
}

// node returns the arena slot addressed by x. Callers validate x first.
func (p *Pool[T]) node(x Index) *node[T] {
	return &p.nodes[x-1]
}

// ensureBooted panics when the pool is hibernated.
func (p *Pool[T]) ensureBooted() {
	if p.nodes == nil {
		panic("stackpool: hibernated pools cannot be used")
	}
}

// checkStack validates a handle that may denote the empty stack.
func (p *Pool[T]) checkStack(x Index) error {
	if uint64(x) > uint64(len(p.nodes)) {
		return fmt.Errorf("%w: stack %d is outside [%d, %d]", ErrInvalidInput, x, End, len(p.nodes))
	}

	return nil
}

// checkNode validates a handle that must denote an allocated node.
func (p *Pool[T]) checkNode(x Index) error {
	if x == End || uint64(x) > uint64(len(p.nodes)) {
		return fmt.Errorf("%w: node %d is outside [%d, %d]", ErrInvalidInput, x, End+1, len(p.nodes))
	}

	return nil
}

// Reserve grows the arena capacity to at least n. The new capacity must be
// strictly greater than the current one; Reserve never shrinks and does
// not alter the free list or any existing node.
func (p *Pool[T]) Reserve(n int) error {
	p.ensureBooted()

	if n <= cap(p.nodes) {
		return fmt.Errorf("%w: capacity %d does not grow the current capacity %d", ErrInvalidInput, n, cap(p.nodes))
	}

	grown := make([]node[T], len(p.nodes), n)
	copy(grown, p.nodes)
	p.nodes = grown

	return nil
}

// Capacity returns the arena capacity in slots (not the allocated count).
func (p *Pool[T]) Capacity() int {
	return cap(p.nodes)
}

// Len returns the number of slots ever allocated in the arena, live or
// free.
func (p *Pool[T]) Len() int {
	return len(p.nodes)
}

// FreeLen returns the number of slots currently on the free list.
func (p *Pool[T]) FreeLen() int {
	return p.freeLen
}

// NewStack returns the canonical empty stack. No storage is consumed until
// the first push.
func (p *Pool[T]) NewStack() Index {
	return End
}

// IsEmptyStack reports whether x denotes the empty stack.
func (p *Pool[T]) IsEmptyStack(x Index) (bool, error) {
	if err := p.checkStack(x); err != nil {
		return false, err
	}

	return x == End, nil
}

// Value returns a pointer to the value of node x. The pointer is
// invalidated by arena growth; the index is not.
func (p *Pool[T]) Value(x Index) (*T, error) {
	p.ensureBooted()

	if err := p.checkNode(x); err != nil {
		return nil, err
	}

	return &p.node(x).value, nil
}

// Next returns the index of the successor of node x, End at the bottom of
// a chain.
func (p *Pool[T]) Next(x Index) (Index, error) {
	p.ensureBooted()

	if err := p.checkNode(x); err != nil {
		return End, err
	}

	return p.node(x).next, nil
}

// Push places val at the head of the chain rooted at head and returns the
// index of the new head. The old head is not invalidated: it becomes the
// new node's successor and still denotes the shorter chain it always did.
// A recycled free-list slot is reused when available, otherwise the arena
// grows by one node.
func (p *Pool[T]) Push(val T, head Index) (Index, error) {
	p.ensureBooted()

	if err := p.checkStack(head); err != nil {
		return End, err
	}

	if p.freeHead == End {
		if uint64(len(p.nodes)) >= maxNodes {
			panic("stackpool: node count reached the uint32 limit")
		}

		p.nodes = append(p.nodes, node[T]{value: val, next: head})

		return Index(len(p.nodes)), nil
	}

	newHead := p.freeHead
	p.freeHead = p.node(newHead).next
	p.freeLen--
	*p.node(newHead) = node[T]{value: val, next: head}

	return newHead, nil
}

// Pop removes the head node of the chain rooted at x, relinks it onto the
// free list, and returns the new head. The popped slot's value is stale
// until a future push reassigns it. Popping a node that currently heads
// the free list is rejected.
func (p *Pool[T]) Pop(x Index) (Index, error) {
	p.ensureBooted()

	if err := p.checkNode(x); err != nil {
		return End, err
	}

	if x == p.freeHead {
		return End, fmt.Errorf("%w: node %d heads the free list", ErrInvalidInput, x)
	}

	nd := p.node(x)
	newHead := nd.next
	nd.next = p.freeHead
	p.freeHead = x
	p.freeLen++

	return newHead, nil
}

// FreeStack releases every node of the chain rooted at x back to the free
// list by repeated Pop and returns End. Freeing the empty stack is a
// no-op.
func (p *Pool[T]) FreeStack(x Index) (Index, error) {
	p.ensureBooted()

	if err := p.checkStack(x); err != nil {
		return End, err
	}

	if x != End && x == p.freeHead {
		return End, fmt.Errorf("%w: node %d heads the free list", ErrInvalidInput, x)
	}

	for x != End {
		next, err := p.Pop(x)
		if err != nil {
			return End, err
		}

		x = next
	}

	return End, nil
}

func doAssert(condition bool) {
	if !condition {
		panic("stackpool internal assertion failed")
	}
}
