// Package transcript holds the ordered query/response pairs shown on screen.
package transcript

import (
	"sync"
	"time"

	"github.com/diogo/chatty/internal/models"
)

// Store is the message store. Entries are addressed by id, never by
// position, so a late resolution cannot land on the wrong row.
type Store struct {
	mu         sync.RWMutex
	messages   []models.Message
	nextID     models.MessageID
	generation uint64
	now        func() time.Time
}

// NewStore creates an empty transcript
func NewStore() *Store {
	return &Store{nextID: 1, now: time.Now}
}

// Append adds a pending entry for query and returns it
func (s *Store) Append(query string, provider models.ProviderID) models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := models.Message{
		ID:        s.nextID,
		Query:     query,
		Provider:  provider,
		Pending:   true,
		CreatedAt: s.now(),
	}
	s.nextID++
	s.messages = append(s.messages, msg)
	return msg
}

// Resolve fills in the response of a pending entry. It returns false when
// the entry no longer exists or was already resolved.
func (s *Store) Resolve(id models.MessageID, response string, failed bool) (models.Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 || !s.messages[i].Pending {
		return models.Message{}, false
	}
	s.messages[i].Response = response
	s.messages[i].Pending = false
	s.messages[i].Failed = failed
	return s.messages[i], true
}

// Remove deletes a single entry
func (s *Store) Remove(id models.MessageID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return false
	}
	s.messages = append(s.messages[:i], s.messages[i+1:]...)
	return true
}

// Reset clears every entry and starts a new generation. It returns the
// number of entries removed.
func (s *Store) Reset() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.messages)
	s.messages = nil
	s.generation++
	return n
}

// Generation changes on every Reset
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Get returns the entry with the given id
func (s *Store) Get(id models.MessageID) (models.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexLocked(id)
	if i < 0 {
		return models.Message{}, false
	}
	return s.messages[i], true
}

// Messages returns a snapshot in insertion order
func (s *Store) Messages() []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of entries
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// Last returns the most recent entry
func (s *Store) Last() (models.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.messages) == 0 {
		return models.Message{}, false
	}
	return s.messages[len(s.messages)-1], true
}

// LastAnswered returns the most recent entry that has a successful response
func (s *Store) LastAnswered() (models.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.messages) - 1; i >= 0; i-- {
		if m := s.messages[i]; !m.Pending && !m.Failed && m.Response != "" {
			return m, true
		}
	}
	return models.Message{}, false
}

// PendingCount returns how many entries await a response
func (s *Store) PendingCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, m := range s.messages {
		if m.Pending {
			n++
		}
	}
	return n
}

// indexLocked does a linear scan; transcripts are small
func (s *Store) indexLocked(id models.MessageID) int {
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].ID == id {
			return i
		}
	}
	return -1
}
