package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/diogo/chatty/internal/config"
	apierrors "github.com/diogo/chatty/internal/errors"
	"github.com/diogo/chatty/internal/render"
)

// queryOptions controls how a single answer is delivered
type queryOptions struct {
	raw    bool
	copy   bool
	output string
}

func currentQueryOptions(cmd *cobra.Command) queryOptions {
	return queryOptions{raw: rawFlag, copy: copyFlag, output: outputFlag}
}

// NewQueryCmd creates the query command
func NewQueryCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query [prompt]",
		Short: "Ask a single question and print the answer",
		Long: `Ask a single question and print the answer.

The prompt is taken from the argument, from --file, or from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt, err := readPrompt(args)
			if err != nil {
				return err
			}
			return runQuery(cmd.Context(), deps, prompt, currentQueryOptions(cmd))
		},
	}
	addQueryFlags(cmd)
	return cmd
}

func readPrompt(args []string) (string, error) {
	switch {
	case fileFlag != "":
		data, err := os.ReadFile(fileFlag)
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), nil
	case len(args) > 0:
		return args[0], nil
	case hasStdin():
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	return "", apierrors.ErrEmptyQuery
}

// runQuery executes a single query and outputs the response.
// With opts.raw only the response text is printed, without decoration.
func runQuery(ctx context.Context, deps *Dependencies, prompt string, opts queryOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := deps.build(slog.Default())
	if err != nil {
		return err
	}
	cfg := a.settings.Config()
	theme := render.ThemeFor(cfg.DarkMode)
	label := a.dispatcher.Selector().Label()

	var spin *spinner
	if !opts.raw {
		spin = newSpinner(os.Stderr, label+" is thinking", theme)
		spin.start()
	}

	msg, err := a.dispatcher.Ask(ctx, prompt)
	if err != nil {
		if spin != nil {
			spin.stopWithError()
			fmt.Fprintln(os.Stderr, formatErrorMessage(err, theme))
		}
		return err
	}
	if spin != nil {
		spin.stopWithSuccess("Done")
	}

	if opts.copy || cfg.CopyToClipboard {
		if err := deps.Clipboard(msg.Response); err != nil {
			ancli.PrintWarn(fmt.Sprintf("failed to copy to clipboard: %v\n", err))
		} else if !opts.raw {
			ancli.PrintOK("response copied to clipboard\n")
		}
	}

	if opts.output != "" {
		if err := os.WriteFile(opts.output, []byte(msg.Response), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if !opts.raw {
			ancli.PrintOK(fmt.Sprintf("response saved to %s\n", opts.output))
		}
		return nil
	}

	if opts.raw {
		fmt.Println(msg.Response)
		return nil
	}

	fmt.Println(renderAnswer(label, msg.Response, a.settings.Preferences(), getTerminalWidth()))
	return nil
}

// renderAnswer draws the answer bubble used by the query command
func renderAnswer(label, response string, prefs config.Preferences, width int) string {
	theme := render.ThemeFor(prefs.DarkMode)

	bubbleWidth := width - 4
	if bubbleWidth < 24 {
		bubbleWidth = 24
	}

	content, err := render.Markdown(response, render.OptionsFor(prefs, bubbleWidth-4))
	if err != nil {
		content = response
	}

	labelStyle := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	bubbleStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Foreground(theme.Text).
		Padding(0, 1).
		MarginTop(1).
		Width(bubbleWidth)

	return labelStyle.Render("✦ "+label) + "\n" + bubbleStyle.Render(strings.TrimSpace(content))
}

// getTerminalWidth returns the terminal width or a default
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// formatErrorMessage formats an error with hints for the query command
func formatErrorMessage(err error, theme render.TUITheme) string {
	errStyle := lipgloss.NewStyle().Foreground(theme.Error).Bold(true)
	hintStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	var b strings.Builder
	b.WriteString(errStyle.Render("✗ " + apierrors.UserMessage(err)))

	if status := apierrors.GetHTTPStatus(err); status > 0 {
		b.WriteString(hintStyle.Render(fmt.Sprintf(" (HTTP %d)", status)))
	}

	var missing *apierrors.CredentialRequiredError
	switch {
	case errors.As(err, &missing):
		b.WriteString("\n")
		b.WriteString(hintStyle.Render(fmt.Sprintf("  Run 'chatty key set %s' to store an API key.", strings.ToLower(missing.Provider))))
	case apierrors.IsCredentialError(err):
		b.WriteString("\n")
		b.WriteString(hintStyle.Render("  The stored API key was rejected. Replace it with 'chatty key set'."))
	case apierrors.IsTimeoutError(err):
		b.WriteString("\n")
		b.WriteString(hintStyle.Render("  The request timed out. Raise it with 'chatty config set request-timeout <seconds>'."))
	case apierrors.IsNetworkError(err):
		b.WriteString("\n")
		b.WriteString(hintStyle.Render("  Check your network connection."))
	}
	return b.String()
}
