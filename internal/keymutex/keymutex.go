// Package keymutex serializes operations per uuid key.
package keymutex

import (
	"sync"

	"github.com/google/uuid"
)

// KeyedMutex hands out one mutex per key. Entries are never evicted: the map
// grows with the number of distinct keys locked over the process lifetime.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func New() *KeyedMutex {
	return &KeyedMutex{locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (k *KeyedMutex) Lock(id uuid.UUID) {
	k.mu.Lock()
	lock, ok := k.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		k.locks[id] = lock
	}
	k.mu.Unlock()
	lock.Lock()
}

func (k *KeyedMutex) Unlock(id uuid.UUID) {
	k.mu.Lock()
	lock := k.locks[id]
	k.mu.Unlock()
	lock.Unlock()
}

// Len reports the number of distinct keys seen.
func (k *KeyedMutex) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
