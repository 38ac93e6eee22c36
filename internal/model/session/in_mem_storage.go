package session

import (
	"context"
	"sync"
)

// InMemStorage keeps session state in process memory. This is the default
// backend; state lives as long as the process.
type InMemStorage struct {
	mu       sync.RWMutex
	sessions map[string]State
}

func NewInMemStorage() *InMemStorage {
	return &InMemStorage{sessions: make(map[string]State)}
}

func (s *InMemStorage) GetByID(_ context.Context, id string) (State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.sessions[id]
	if !ok {
		return NewState(), nil
	}
	return st.clone(), nil
}

func (s *InMemStorage) SaveByID(_ context.Context, id string, st State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[id] = st.clone()
	return nil
}
