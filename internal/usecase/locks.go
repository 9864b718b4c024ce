package usecase

import "sync"

// keyedMutex serializes operations that share a key. Entries are never
// evicted; the key space (games, rooms, users of one process) stays small
// enough that this is not a concern.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{
		locks: make(map[string]*sync.Mutex),
	}
}

// Lock acquires the mutex for key and returns its unlock func.
func (that *keyedMutex) Lock(key string) func() {
	that.mu.Lock()
	lock, ok := that.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		that.locks[key] = lock
	}
	that.mu.Unlock()

	lock.Lock()

	return lock.Unlock
}
