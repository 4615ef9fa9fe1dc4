package providers

import (
	"fmt"
	"sync"

	"github.com/diogo/chatty/internal/models"
)

// Selector holds the two providers and which one receives the next query.
// The selection is not persisted.
type Selector struct {
	mu        sync.RWMutex
	providers [2]Provider
	active    int
}

// NewSelector creates a selector with primary active
func NewSelector(primary, secondary Provider) *Selector {
	return &Selector{providers: [2]Provider{primary, secondary}}
}

// Active returns the provider that receives the next query
func (s *Selector) Active() Provider {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.providers[s.active]
}

// Toggle flips the selection and returns the newly active provider
func (s *Selector) Toggle() Provider {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = 1 - s.active
	return s.providers[s.active]
}

// Label is the text shown on the provider toggle
func (s *Selector) Label() string {
	return s.Active().Name()
}

// Select activates the provider with the given id
func (s *Selector) Select(id models.ProviderID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.providers {
		if p.ID() == id {
			s.active = i
			return nil
		}
	}
	return fmt.Errorf("unknown provider %q", id)
}

// Lookup returns the provider with the given id
func (s *Selector) Lookup(id models.ProviderID) (Provider, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.providers {
		if p.ID() == id {
			return p, true
		}
	}
	return nil, false
}

// All returns both providers in toggle order
func (s *Selector) All() []Provider {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return []Provider{s.providers[0], s.providers[1]}
}
