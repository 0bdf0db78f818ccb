package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/minsky/pkg/domain"
)

// Store implements ports.ProgramStore in memory.
// Safe for concurrent use. Programs are immutable, so they are shared rather than copied.
type Store struct {
	data map[string]*domain.Program
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Program),
	}
}

// NewStoreFrom creates a store preloaded with the given programs.
func NewStoreFrom(programs map[string]*domain.Program) (*Store, error) {
	s := NewStore()
	for name, p := range programs {
		if err := s.Save(context.Background(), name, p); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Save persists the program in memory.
func (s *Store) Save(ctx context.Context, name string, program *domain.Program) error {
	if err := domain.ValidateProgramName(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[name] = program
	return nil
}

// Load retrieves the program from memory.
func (s *Store) Load(ctx context.Context, name string) (*domain.Program, error) {
	if err := domain.ValidateProgramName(name); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	program, ok := s.data[name]
	if !ok {
		return nil, domain.ErrProgramNotFound
	}
	return program, nil
}

// Delete removes the program.
func (s *Store) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, name)
	return nil
}

// List returns the stored program names.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
