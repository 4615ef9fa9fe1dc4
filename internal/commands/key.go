package commands

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/diogo/chatty/internal/models"
	"github.com/diogo/chatty/internal/providers"
)

// readSecret reads a key without echoing it. Tests replace it.
var readSecret = func(prompt string) (string, error) {
	if hasStdin() {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("failed to read key from stdin: %w", err)
		}
		return line, nil
	}

	fmt.Fprint(os.Stderr, prompt)
	data, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read key: %w", err)
	}
	return string(data), nil
}

// NewKeyCmd creates the key command
func NewKeyCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage provider API keys",
		Long: `Manage provider API keys.

Keys go to the OS keyring when it is available and enabled, and to
~/.chatty/credentials.json otherwise. CHATTY_PERPLEXITY_KEY overrides both.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <provider>",
		Short: "Store the API key for a provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeySet(deps, args[0])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear <provider>",
		Short: "Remove the stored API key for a provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeyClear(deps, args[0])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show which providers have a key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeyStatus(deps)
		},
	})

	return cmd
}

// credentialedProvider resolves name to a provider that takes a key
func credentialedProvider(deps *Dependencies, name string) (providers.Provider, error) {
	id, err := models.ParseProviderID(name)
	if err != nil {
		return nil, err
	}
	selector, err := deps.Providers(deps.settings().Config())
	if err != nil {
		return nil, err
	}
	p, ok := selector.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("unknown provider %q", name)
	}
	if !p.RequiresCredential() {
		return nil, fmt.Errorf("%s does not use an API key", p.Name())
	}
	return p, nil
}

func runKeySet(deps *Dependencies, name string) error {
	p, err := credentialedProvider(deps, name)
	if err != nil {
		return err
	}

	secret, err := readSecret(fmt.Sprintf("API Key for %s: ", p.Name()))
	if err != nil {
		return err
	}
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return errors.New("API Key cannot be empty.")
	}

	store, err := deps.credentialStore(deps.settings().Config())
	if err != nil {
		return err
	}
	if err := store.Save(p.ID(), secret); err != nil {
		return fmt.Errorf("failed to save key: %w", err)
	}

	ancli.PrintOK(fmt.Sprintf("API Key for %s saved.\n", p.Name()))
	return nil
}

func runKeyClear(deps *Dependencies, name string) error {
	p, err := credentialedProvider(deps, name)
	if err != nil {
		return err
	}

	store, err := deps.credentialStore(deps.settings().Config())
	if err != nil {
		return err
	}
	if err := store.Delete(p.ID()); err != nil {
		return fmt.Errorf("failed to remove key: %w", err)
	}

	ancli.PrintOK(fmt.Sprintf("API Key for %s removed.\n", p.Name()))
	return nil
}

func runKeyStatus(deps *Dependencies) error {
	cfg := deps.settings().Config()
	selector, err := deps.Providers(cfg)
	if err != nil {
		return err
	}
	store, err := deps.credentialStore(cfg)
	if err != nil {
		return err
	}

	for _, p := range selector.All() {
		status := "not required"
		if p.RequiresCredential() {
			secret, err := store.Load(p.ID())
			switch {
			case err != nil:
				status = "unavailable: " + err.Error()
			case secret == "":
				status = "not set"
			default:
				status = "stored"
			}
		}
		fmt.Printf("%-12s %s\n", p.Name(), status)
	}
	return nil
}
