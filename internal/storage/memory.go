// internal/storage/memory.go
package storage

import (
	"sync"

	"github.com/sidd707/transvolt-webapp/internal/data"
)

const maxBufferSize = 100 // keep the last 100 alert events

// MemoryStore holds recent alert events so newly connected dashboard
// clients can be brought up to date. Fixed capacity, oldest dropped first.
type MemoryStore struct {
	mu       sync.RWMutex
	buffer   []data.Event
	capacity int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		buffer:   make([]data.Event, 0, maxBufferSize),
		capacity: maxBufferSize,
	}
}

func (s *MemoryStore) Add(ev data.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.buffer) >= s.capacity {
		s.buffer = s.buffer[1:]
	}
	s.buffer = append(s.buffer, ev)
}

func (s *MemoryStore) GetRecent(count int) []data.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if count <= 0 || count > len(s.buffer) {
		count = len(s.buffer)
	}
	result := make([]data.Event, count)
	copy(result, s.buffer[len(s.buffer)-count:])
	return result
}

func (s *MemoryStore) GetAll() []data.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]data.Event, len(s.buffer))
	copy(result, s.buffer)
	return result
}
