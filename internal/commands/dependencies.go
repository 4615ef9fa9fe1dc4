package commands

import (
	"fmt"
	"log/slog"

	"github.com/atotto/clipboard"
	"github.com/baalimago/go_away_boilerplate/pkg/ancli"

	"github.com/diogo/chatty/internal/config"
	"github.com/diogo/chatty/internal/credentials"
	"github.com/diogo/chatty/internal/dispatch"
	"github.com/diogo/chatty/internal/models"
	"github.com/diogo/chatty/internal/providers"
	"github.com/diogo/chatty/internal/transcript"
	"github.com/diogo/chatty/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(deps tui.Deps) error
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(deps tui.Deps) error {
	return tui.RunChat(deps)
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// LoadSettings returns the persisted preferences.
	LoadSettings func() (*config.Settings, error)

	// Credentials opens the credential store described by the config.
	Credentials func(cfg config.Config) (credentials.Store, error)

	// Providers builds the provider pair and its selector.
	Providers func(cfg config.Config) (*providers.Selector, error)

	// Clipboard writes text to the system clipboard.
	Clipboard func(text string) error

	// TUI is the terminal user interface.
	TUI TUIInterface
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		LoadSettings: config.LoadSettings,
		Credentials:  credentials.Default,
		Providers: func(cfg config.Config) (*providers.Selector, error) {
			return providers.FromConfig(cfg)
		},
		Clipboard: clipboard.WriteAll,
		TUI:       &DefaultTUI{},
	}
}

// app is everything one run of the binary works with
type app struct {
	settings   *config.Settings
	dispatcher *dispatch.Dispatcher
	exportDir  string
}

func (d *Dependencies) settings() *config.Settings {
	settings, err := d.LoadSettings()
	if err != nil {
		ancli.PrintWarn(fmt.Sprintf("using default settings: %v\n", err))
	}
	if settings == nil {
		settings = config.NewSettings(config.DefaultConfig(), nil)
	}
	return settings
}

// credentialStore honours --no-persist, which keeps keys for this run only
func (d *Dependencies) credentialStore(cfg config.Config) (credentials.Store, error) {
	if noPersistFlag {
		return credentials.NewEnv(credentials.NewMemory()), nil
	}
	store, err := d.Credentials(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open credential store: %w", err)
	}
	return store, nil
}

func (d *Dependencies) build(logger *slog.Logger) (*app, error) {
	settings := d.settings()
	cfg := settings.Config()

	creds, err := d.credentialStore(cfg)
	if err != nil {
		return nil, err
	}

	selector, err := d.Providers(cfg)
	if err != nil {
		return nil, err
	}
	if providerFlag != "" {
		id, err := models.ParseProviderID(providerFlag)
		if err != nil {
			return nil, err
		}
		if err := selector.Select(id); err != nil {
			return nil, err
		}
	}

	exportDir, err := config.GetExportDir(cfg)
	if err != nil {
		return nil, err
	}

	logger.Debug("session ready",
		"provider", selector.Label(),
		"dark_mode", cfg.DarkMode,
		"font_size", cfg.FontSize,
	)

	return &app{
		settings:   settings,
		dispatcher: dispatch.New(transcript.NewStore(), selector, creds, dispatch.WithLogger(logger)),
		exportDir:  exportDir,
	}, nil
}
