package filestore

import (
	"context"
	"sync"
)

// MemoryStore keeps objects in process memory. Used by tests and local
// development without an object store.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte

	// FailPuts makes every Put return an infrastructure error. Tests use it
	// to exercise the storage-unavailable path.
	FailPuts bool

	// FailGets makes the next n Get calls return an infrastructure error.
	// Tests use it to exercise the read retry.
	FailGets int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

func (s *MemoryStore) Put(ctx context.Context, key string, data []byte) (string, error) {
	if s.FailPuts {
		return "", Error.New("put refused")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	s.objects[key] = buf
	return key, nil
}

func (s *MemoryStore) Get(ctx context.Context, path string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailGets > 0 {
		s.FailGets--
		return nil, Error.New("get refused")
	}
	data, ok := s.objects[path]
	if !ok {
		return nil, ErrNotFound
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	return buf, nil
}

func (s *MemoryStore) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, path)
	return nil
}

// Len reports the number of stored objects.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
