package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/diogo/chatty/internal/tui"
)

// NewChatCmd creates the chat command
func NewChatCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start the interactive chat screen",
		Long: `Start the interactive chat screen.

Keys:
  enter    send the question
  ctrl+p   switch between ATLAS and PERPLEXITY
  ctrl+r   clear the transcript
  ctrl+s   settings (API keys, font size, dark mode)
  ctrl+y   copy the last answer
  ctrl+e   export the transcript to markdown
  esc      quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(deps)
		},
	}
}

func runChat(deps *Dependencies) error {
	logger, closeLog := tuiLogger()
	defer closeLog()

	previous := slog.Default()
	slog.SetDefault(logger)
	defer slog.SetDefault(previous)

	a, err := deps.build(logger)
	if err != nil {
		return err
	}

	return deps.TUI.RunChat(tui.Deps{
		Dispatcher: a.dispatcher,
		Settings:   a.settings,
		Clipboard:  deps.Clipboard,
		ExportDir:  a.exportDir,
	})
}
