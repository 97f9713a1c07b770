package store

// allocator implements a fixed-capacity pool of cache entries. Released
// entries are recycled before the pool grows.
type allocator struct {
	length int
	pool   []entry
	free   []*entry
}

func newAllocator(capacity int) allocator {
	return allocator{length: 0, pool: make([]entry, capacity)}
}

func (a *allocator) alloc() *entry {
	if n := len(a.free); n > 0 {
		ret := a.free[n-1]
		a.free = a.free[:n-1]
		return ret
	}
	if a.length >= len(a.pool) {
		return nil
	}
	ret := &a.pool[a.length]
	a.length++
	return ret
}

func (a *allocator) release(e *entry) {
	*e = entry{}
	a.free = append(a.free, e)
}

func (a *allocator) reset() {
	for i := range a.pool[:a.length] {
		a.pool[i] = entry{}
	}
	a.length = 0
	a.free = a.free[:0]
}
