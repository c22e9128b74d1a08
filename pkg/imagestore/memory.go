package imagestore

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore is an in-memory Store used in tests and when no object storage
// is configured. URLs use a fake host; the bytes live in a map.
type MemoryStore struct {
	baseURL string
	objects map[string][]byte
	mu      sync.RWMutex
}

// NewMemoryStore creates an empty in-memory image store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		baseURL: "https://images.invalid",
		objects: make(map[string][]byte),
	}
}

// Upload stores the bytes under a fresh key and returns a fake public URL.
func (s *MemoryStore) Upload(_ context.Context, filename string, data []byte, _ string) (string, error) {
	key := objectKey(filename)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return s.baseURL + "/" + key, nil
}

// Delete removes the object behind the URL.
func (s *MemoryStore) Delete(_ context.Context, imageURL string) error {
	key, err := keyFromURL(s.baseURL, imageURL)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; !ok {
		return fmt.Errorf("image %s not found", key)
	}
	delete(s.objects, key)
	return nil
}

// Len reports how many objects the store currently holds.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

// Has reports whether the object behind the URL is stored.
func (s *MemoryStore) Has(imageURL string) bool {
	key, err := keyFromURL(s.baseURL, imageURL)
	if err != nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[key]
	return ok
}
