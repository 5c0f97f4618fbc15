package stackpool

// Stats is a point-in-time snapshot of a pool's occupancy.
type Stats struct {
	Allocated int // Slots ever created in the arena.
	Free      int // Slots currently on the free list.
	Live      int // Slots owned by live stacks.
	Capacity  int // Arena capacity in slots.
}

// Stats returns current pool statistics.
func (p *Pool[T]) Stats() Stats {
	p.ensureBooted()

	return Stats{
		Allocated: len(p.nodes),
		Free:      p.freeLen,
		Live:      len(p.nodes) - p.freeLen,
		Capacity:  cap(p.nodes),
	}
}
