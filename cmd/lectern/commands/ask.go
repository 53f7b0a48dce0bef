// ABOUTME: CLI command to ask a question and stream the answer to stdout
// ABOUTME: Retrieval completes before the completion stream starts
package commands

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"lectern/internal/assemble"
	"lectern/internal/retrieval"
)

var askK int

// NewAskCmd creates the ask command
func NewAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question against the ingested corpus",
		Long: `Answer a question with retrieval-augmented generation: the question is
embedded, the most similar passages are retrieved, and the model answers
conditioned on them. The answer streams to stdout as it is generated.

Examples:
  lectern ask "What is said about breath awareness?"
  lectern ask --k 3 "How does the speaker define attention?"`,
		Args: cobra.ExactArgs(1),
		RunE: runAsk,
	}

	cmd.Flags().IntVar(&askK, "k", 5, "Passages to retrieve for context")

	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	if err := validatePositiveInt(askK, "k"); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	client, err := newLLMClient(cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	question := args[0]

	retriever := retrieval.New(client, store, cfg.DefaultTopK)
	results, err := retriever.Retrieve(ctx, question, askK)
	if err != nil {
		return fmt.Errorf("retrieving context: %w", err)
	}

	prompt := assemble.New(cfg.MaxContextChars).Assemble(results, cfg.Persona)

	fragments, errc := client.Stream(ctx, prompt, question)
	out := cmd.OutOrStdout()
	for fragment := range fragments {
		fmt.Fprint(out, fragment)
	}
	fmt.Fprintln(out)

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("completing answer: %w", err)
		}
	default:
	}
	return nil
}
