// ABOUTME: CLI command to run a raw similarity search against the store
// ABOUTME: Prints ranked passages with scores and source provenance
package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"lectern/internal/retrieval"
)

var searchK int

// NewSearchCmd creates the search command
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the corpus by semantic similarity",
		Long: `Embed a query and print the top-k most similar stored passages.

Low similarity is not an error: unrelated queries simply come back with
near-zero scores, still ranked.

Examples:
  lectern search "breath awareness"
  lectern search --k 3 "the nature of attention"`,
		Args: cobra.ExactArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().IntVar(&searchK, "k", 5, "Maximum results to return")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	if err := validatePositiveInt(searchK, "k"); err != nil {
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

	retriever := retrieval.New(client, store, cfg.DefaultTopK)
	results, err := retriever.Retrieve(cmd.Context(), args[0], searchK)
	if err != nil {
		return fmt.Errorf("searching: %w", err)
	}

	if len(results) == 0 {
		if !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), "Store is empty; run `lectern ingest` first.")
		}
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tSCORE\tSOURCE\tTEXT")
	for _, res := range results {
		fmt.Fprintf(w, "%d\t%.4f\t%s\t%s\n",
			res.Rank, res.Score, res.Chunk.Source, truncate(res.Chunk.Text, 80))
	}
	return w.Flush()
}
