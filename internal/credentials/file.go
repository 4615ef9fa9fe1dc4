package credentials

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/diogo/chatty/internal/models"
)

// File stores secrets as a JSON object keyed by provider id
type File struct {
	path string
	mu   sync.Mutex
}

// NewFile creates a file-backed store at path
func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Load(provider models.ProviderID) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	secrets, err := f.read()
	if err != nil {
		return "", err
	}
	return secrets[string(provider)], nil
}

func (f *File) Save(provider models.ProviderID, secret string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	secrets, err := f.read()
	if err != nil {
		return err
	}
	secrets[string(provider)] = secret
	return f.write(secrets)
}

func (f *File) Delete(provider models.ProviderID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	secrets, err := f.read()
	if err != nil {
		return err
	}
	if _, ok := secrets[string(provider)]; !ok {
		return nil
	}
	delete(secrets, string(provider))
	return f.write(secrets)
}

func (f *File) read() (map[string]string, error) {
	secrets := make(map[string]string)

	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return secrets, nil
		}
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	if err := json.Unmarshal(data, &secrets); err != nil {
		return nil, fmt.Errorf("failed to parse credentials file: %w", err)
	}
	return secrets, nil
}

func (f *File) write(secrets map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("failed to create credentials directory: %w", err)
	}

	data, err := json.MarshalIndent(secrets, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}
	return nil
}
