package store

import (
	"fmt"

	. "github.com/weberc2/myfs/pkg/types"
)

// CachingInodeStore is a write-through cache in front of an inode table.
// Every Put reaches the backend before the cache is updated, so evictions
// never need flushing.
type CachingInodeStore struct {
	backend InodeTable
	cache   Cache
}

func NewCachingInodeStore(
	backend InodeTable,
	cacheCapacity int,
) *CachingInodeStore {
	return &CachingInodeStore{
		backend: backend,
		cache:   *NewCache(cacheCapacity),
	}
}

func (store *CachingInodeStore) Len() int { return store.backend.Len() }

func (store *CachingInodeStore) Put(inode *Inode) error {
	if err := store.backend.Put(inode); err != nil {
		// the backend may be partially written; don't trust the cached copy
		var removed Inode
		store.cache.Remove(inode.Index, &removed)
		return fmt.Errorf("storing inode `%d`: %w", inode.Index, err)
	}

	var evicted Inode
	store.cache.Push(inode, &evicted)
	return nil
}

func (store *CachingInodeStore) Get(index InodeIndex, output *Inode) error {
	if store.cache.Get(index, output) {
		return nil
	}

	if err := store.backend.Get(index, output); err != nil {
		return fmt.Errorf(
			"fetching inode `%d`: cache miss; checking backend store: %w",
			index,
			err,
		)
	}

	var evicted Inode
	store.cache.Push(output, &evicted)
	return nil
}

// Purge discards every cached inode. Call it whenever the backing table is
// rewritten behind the store's back.
func (store *CachingInodeStore) Purge() { store.cache.Purge() }

var _ InodeTable = &CachingInodeStore{}
