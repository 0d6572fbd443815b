package app

import "sync"

// collectionLocks hands out one mutex per collection id so a read-modify-write
// on one collection cannot interleave with another write to it. Entries are
// reference counted and dropped once no caller holds or waits on them.
type collectionLocks struct {
	mu    sync.Mutex
	locks map[string]*collectionLock
}

type collectionLock struct {
	mu   sync.Mutex
	refs int
}

func newCollectionLocks() *collectionLocks {
	return &collectionLocks{
		locks: make(map[string]*collectionLock),
	}
}

func (c *collectionLocks) acquire(collectionID string) *collectionLock {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.locks[collectionID]
	if !ok {
		entry = &collectionLock{}
		c.locks[collectionID] = entry
	}
	entry.refs++
	return entry
}

func (c *collectionLocks) release(collectionID string, entry *collectionLock) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry.refs--
	if entry.refs == 0 {
		delete(c.locks, collectionID)
	}
}

func (c *collectionLocks) lock(collectionID string) func() {
	entry := c.acquire(collectionID)
	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		c.release(collectionID, entry)
	}
}
