package persona

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
)

// Store exposes persona retrieval to the orchestrator and HTTP handlers.
type Store interface {
	List() []Persona
	FindByID(id string) (Persona, bool)
	Resolve(id string) (Persona, bool)
	DefaultID() string
}

// MemoryStore is an immutable in-memory registry populated once at startup.
// It needs no locking because nothing writes to it after construction.
type MemoryStore struct {
	items     map[string]Persona
	defaultID string
}

// NewMemoryStore builds a registry from items. Every persona must validate, ids must be
// unique and defaultID must name one of them.
func NewMemoryStore(items []Persona, defaultID string) (*MemoryStore, error) {
	byID := make(map[string]Persona, len(items))
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, err
		}
		if _, dup := byID[item.ID]; dup {
			return nil, fmt.Errorf("duplicate persona id %q", item.ID)
		}
		byID[item.ID] = item.Clone()
	}

	if _, ok := byID[defaultID]; !ok {
		return nil, fmt.Errorf("default persona %q is not registered", defaultID)
	}

	return &MemoryStore{items: byID, defaultID: defaultID}, nil
}

// MustSeedStore returns the built-in registry and panics if the seed is inconsistent.
func MustSeedStore() *MemoryStore {
	store, err := NewMemoryStore(Seed(), DefaultID)
	if err != nil {
		panic(err)
	}
	return store
}

// List returns all personas ordered by id.
func (s *MemoryStore) List() []Persona {
	ids := lo.Keys(s.items)
	sort.Strings(ids)
	return lo.Map(ids, func(id string, _ int) Persona {
		return s.items[id].Clone()
	})
}

// FindByID looks up a persona by identifier.
func (s *MemoryStore) FindByID(id string) (Persona, bool) {
	item, ok := s.items[id]
	if !ok {
		return Persona{}, false
	}
	return item.Clone(), true
}

// Resolve never fails: unknown ids map to the default persona and fallback is true.
func (s *MemoryStore) Resolve(id string) (p Persona, fallback bool) {
	if item, ok := s.FindByID(id); ok {
		return item, false
	}
	return s.items[s.defaultID].Clone(), true
}

// DefaultID returns the id of the fallback persona.
func (s *MemoryStore) DefaultID() string {
	return s.defaultID
}
