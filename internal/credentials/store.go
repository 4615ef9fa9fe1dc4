// Package credentials persists one secret per provider.
package credentials

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/diogo/chatty/internal/config"
	"github.com/diogo/chatty/internal/models"
)

// ServiceName is the keyring service under which secrets are stored
const ServiceName = "chatty"

// Store loads and saves per-provider secrets. Load returns "" and a nil
// error when nothing is stored. Secrets are never validated.
type Store interface {
	Load(provider models.ProviderID) (string, error)
	Save(provider models.ProviderID, secret string) error
	Delete(provider models.ProviderID) error
}

// Keyring stores secrets in the OS keychain
type Keyring struct {
	service string
}

// NewKeyring creates a keyring-backed store
func NewKeyring() *Keyring {
	return &Keyring{service: ServiceName}
}

func (k *Keyring) Load(provider models.ProviderID) (string, error) {
	secret, err := keyring.Get(k.service, string(provider))
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s key from keyring: %w", provider.DisplayName(), err)
	}
	return secret, nil
}

func (k *Keyring) Save(provider models.ProviderID, secret string) error {
	if err := keyring.Set(k.service, string(provider), secret); err != nil {
		return fmt.Errorf("failed to store %s key in keyring: %w", provider.DisplayName(), err)
	}
	return nil
}

func (k *Keyring) Delete(provider models.ProviderID) error {
	err := keyring.Delete(k.service, string(provider))
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete %s key from keyring: %w", provider.DisplayName(), err)
	}
	return nil
}

// Fallback reads and writes the primary store and falls back to the
// secondary one when the primary fails (no keychain daemon, headless box)
type Fallback struct {
	primary   Store
	secondary Store
}

// NewFallback composes two stores
func NewFallback(primary, secondary Store) *Fallback {
	return &Fallback{primary: primary, secondary: secondary}
}

func (f *Fallback) Load(provider models.ProviderID) (string, error) {
	secret, err := f.primary.Load(provider)
	if err == nil && secret != "" {
		return secret, nil
	}
	if err != nil {
		slog.Debug("primary credential store unavailable", "provider", provider, "err", err)
	}
	return f.secondary.Load(provider)
}

func (f *Fallback) Save(provider models.ProviderID, secret string) error {
	err := f.primary.Save(provider, secret)
	if err == nil {
		return nil
	}
	slog.Debug("falling back to secondary credential store", "provider", provider, "err", err)
	return f.secondary.Save(provider, secret)
}

// Delete removes the secret from both stores. An unavailable primary is not
// an error as long as the secondary delete succeeds.
func (f *Fallback) Delete(provider models.ProviderID) error {
	primaryErr := f.primary.Delete(provider)
	if err := f.secondary.Delete(provider); err != nil {
		return errors.Join(primaryErr, err)
	}
	if primaryErr != nil {
		slog.Debug("primary credential store unavailable", "provider", provider, "err", primaryErr)
	}
	return nil
}

// Env overlays CHATTY_<PROVIDER>_KEY environment variables on top of a store
type Env struct {
	Store
	lookup func(string) string
}

// NewEnv wraps s with environment overrides
func NewEnv(s Store) *Env {
	return &Env{Store: s, lookup: os.Getenv}
}

// EnvVar returns the environment variable consulted for provider
func EnvVar(provider models.ProviderID) string {
	return "CHATTY_" + strings.ToUpper(string(provider)) + "_KEY"
}

func (e *Env) Load(provider models.ProviderID) (string, error) {
	if v := strings.TrimSpace(e.lookup(EnvVar(provider))); v != "" {
		return v, nil
	}
	return e.Store.Load(provider)
}

// Default builds the store described by cfg: keyring with a credentials.json
// fallback, or the file alone when the keyring is disabled. Environment
// variables take precedence in both cases.
func Default(cfg config.Config) (Store, error) {
	path, err := config.GetCredentialsPath()
	if err != nil {
		return nil, err
	}
	file := NewFile(path)

	if !cfg.UseKeyring {
		return NewEnv(file), nil
	}
	return NewEnv(NewFallback(NewKeyring(), file)), nil
}
