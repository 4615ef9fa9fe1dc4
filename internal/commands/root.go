// Package commands provides CLI commands for chatty.
package commands

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	providerFlag  string
	noPersistFlag bool
	outputFlag    string
	fileFlag      string
	rawFlag       bool
	copyFlag      bool

	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// deps is shared by every command of the running binary
var deps = NewDependencies()

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "chatty [prompt]",
	Short: "Terminal chat client for the Atlas and Perplexity answer services",
	Long: `chatty sends questions to one of two answer providers and keeps the
questions and answers of the session in a scrolling transcript.

ATLAS is the default provider and needs no credentials. PERPLEXITY needs an
API key, entered from the settings panel (ctrl+s) or with 'chatty key set'.

Examples:
  chatty                                Start the chat screen
  chatty "What is 2+2?"                 Ask a single question
  chatty -p perplexity "hello"          Ask using PERPLEXITY
  cat question.md | chatty              Read the question from stdin
  chatty -f question.md -o answer.md    Read from a file, save the answer
  chatty key set perplexity             Store an API key
  chatty config set font-size large     Change a setting`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if v, _ := cmd.Flags().GetBool("version"); v {
			printVersion(cmd.OutOrStdout())
			return nil
		}

		if fileFlag != "" || len(args) > 0 || hasStdin() {
			prompt, err := readPrompt(args)
			if err != nil {
				return err
			}
			return runQuery(cmd.Context(), deps, prompt, currentQueryOptions(cmd))
		}

		return runChat(deps)
	},
}

// Execute runs the root command
func Execute() {
	setupLogging()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&providerFlag, "provider", "p", "", "Provider to start with (atlas, perplexity)")
	rootCmd.PersistentFlags().BoolVar(&noPersistFlag, "no-persist", false, "Keep API keys in memory for this run only")
	addQueryFlags(rootCmd)
	rootCmd.Flags().BoolP("version", "v", false, "Show version and exit")

	rootCmd.AddCommand(NewChatCmd(deps))
	rootCmd.AddCommand(NewQueryCmd(deps))
	rootCmd.AddCommand(NewConfigCmd(deps))
	rootCmd.AddCommand(NewKeyCmd(deps))
	rootCmd.AddCommand(versionCmd)
}

// addQueryFlags registers the flags shared by the root and query commands
func addQueryFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Save response to file")
	cmd.Flags().StringVarP(&fileFlag, "file", "f", "", "Read prompt from file")
	cmd.Flags().BoolVar(&rawFlag, "raw", false, "Print the response text without decoration")
	cmd.Flags().BoolVar(&copyFlag, "copy", false, "Copy the response to the clipboard")
}

// hasStdin reports whether input is being piped in
func hasStdin() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}
