package config

import (
	"sync"

	"github.com/diogo/chatty/internal/models"
)

// Preferences are the display settings observed by the chat screen
type Preferences struct {
	DarkMode bool
	FontSize models.FontSize
}

// Settings is the value object handed to the screen at construction.
// Changes are persisted through the save function and then delivered to
// every subscriber, outside the lock.
type Settings struct {
	mu        sync.Mutex
	cfg       Config
	save      func(Config) error
	observers map[int]func(Preferences)
	nextID    int
}

// NewSettings wraps cfg. A nil save function keeps changes in memory only.
func NewSettings(cfg Config, save func(Config) error) *Settings {
	if save == nil {
		save = func(Config) error { return nil }
	}
	return &Settings{
		cfg:       cfg,
		save:      save,
		observers: make(map[int]func(Preferences)),
	}
}

// LoadSettings loads the config file and persists changes back to it
func LoadSettings() (*Settings, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return NewSettings(cfg, SaveConfig), err
	}
	return NewSettings(cfg, SaveConfig), nil
}

// Config returns a copy of the full configuration
func (s *Settings) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Preferences returns the current display preferences
func (s *Settings) Preferences() Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefsLocked()
}

func (s *Settings) prefsLocked() Preferences {
	return Preferences{DarkMode: s.cfg.DarkMode, FontSize: s.cfg.FontSize}
}

// SetFontSize persists a new font size and notifies subscribers
func (s *Settings) SetFontSize(size models.FontSize) error {
	return s.update(func(c *Config) { c.FontSize = size })
}

// SetDarkMode persists the dark mode flag and notifies subscribers
func (s *Settings) SetDarkMode(enabled bool) error {
	return s.update(func(c *Config) { c.DarkMode = enabled })
}

// Subscribe registers fn for preference changes and returns a function that
// removes it again
func (s *Settings) Subscribe(fn func(Preferences)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.observers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

func (s *Settings) update(mutate func(*Config)) error {
	s.mu.Lock()
	next := s.cfg
	mutate(&next)
	if next == s.cfg {
		s.mu.Unlock()
		return nil
	}
	if err := s.save(next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.cfg = next
	prefs := s.prefsLocked()
	observers := make([]func(Preferences), 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	s.mu.Unlock()

	for _, fn := range observers {
		fn(prefs)
	}
	return nil
}
