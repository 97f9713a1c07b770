package store

import (
	. "github.com/weberc2/myfs/pkg/types"
)

// Cache is a fixed-capacity LRU of inodes keyed by index. The head is the
// most recently used entry.
type Cache struct {
	head      *entry
	tail      *entry
	lookup    map[InodeIndex]*entry
	allocator allocator
}

func NewCache(capacity int) *Cache {
	return &Cache{
		lookup:    make(map[InodeIndex]*entry),
		allocator: newAllocator(capacity),
	}
}

func (c *Cache) Len() int { return len(c.lookup) }

func (c *Cache) Get(index InodeIndex, out *Inode) bool {
	e, exists := c.lookup[index]
	if !exists {
		return false
	}

	c.moveFront(e)
	*out = e.value
	return true
}

func (c *Cache) Remove(index InodeIndex, removed *Inode) bool {
	e := c.lookup[index]
	if e == nil {
		return false
	}

	c.unlink(e)
	delete(c.lookup, index)
	*removed = e.value
	c.allocator.release(e)
	return true
}

// Purge drops every entry.
func (c *Cache) Purge() {
	c.head = nil
	c.tail = nil
	c.lookup = make(map[InodeIndex]*entry)
	c.allocator.reset()
}

// Push inserts or refreshes `inode`. When the cache is full the least
// recently used entry is evicted into `evicted`. A zero-capacity cache
// stores nothing.
func (c *Cache) Push(inode *Inode, evicted *Inode) (evict bool) {
	if e, exists := c.lookup[inode.Index]; exists {
		e.value = *inode
		c.moveFront(e)
		return false
	}

	e := c.allocator.alloc()
	if e == nil {
		if c.tail == nil {
			return false
		}
		e = c.tail
		c.unlink(e)
		*evicted = e.value
		delete(c.lookup, evicted.Index)
		evict = true
	}

	e.value = *inode
	c.lookup[inode.Index] = e
	c.pushFront(e)
	return
}

func (c *Cache) unlink(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}

	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}

	e.prev = nil
	e.next = nil
}

func (c *Cache) pushFront(e *entry) {
	e.prev = nil
	e.next = c.head
	if c.head != nil {
		c.head.prev = e
	} else {
		c.tail = e
	}
	c.head = e
}

func (c *Cache) moveFront(e *entry) {
	if c.head == e {
		return
	}
	c.unlink(e)
	c.pushFront(e)
}

type entry struct {
	prev  *entry
	next  *entry
	value Inode
}
