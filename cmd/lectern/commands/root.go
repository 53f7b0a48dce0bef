// ABOUTME: Root CLI command with global flags and subcommand registration
// ABOUTME: Offline ingestion and online querying share the same binary
package commands

import (
	"github.com/spf13/cobra"
)

var (
	quiet   bool
	verbose bool
)

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lectern",
		Short: "Ask questions of a lecture-transcript corpus",
		Long: `lectern ingests plain-text lecture transcripts into a local vector
store and answers free-text questions against them: it embeds the query,
retrieves the most similar passages, and conditions a language model on them.

Ingestion is offline and incremental; querying needs only the store and an
OpenAI API key in the environment (or a .env file).`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")
	cmd.MarkFlagsMutuallyExclusive("quiet", "verbose")

	cmd.AddCommand(NewIngestCmd())
	cmd.AddCommand(NewAskCmd())
	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewSourcesCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
