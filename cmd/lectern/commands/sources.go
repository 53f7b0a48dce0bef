// ABOUTME: CLI command listing ingestion-tracking rows
// ABOUTME: Shows source name, chunk-set freshness, and content hash prefix
package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// NewSourcesCmd creates the sources command
func NewSourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List ingested sources",
		Long:  `List every ingested source with its ingestion time and content hash.`,
		Args:  cobra.NoArgs,
		RunE:  runSources,
	}
}

func runSources(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	metas, err := store.Sources()
	if err != nil {
		return fmt.Errorf("listing sources: %w", err)
	}

	if len(metas) == 0 {
		if !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), "No sources ingested yet.")
		}
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SOURCE\tINGESTED\tHASH")
	for _, m := range metas {
		fmt.Fprintf(w, "%s\t%s\t%s\n",
			m.Name, m.IngestedAt.Format("2006-01-02 15:04"), truncate(m.ContentHash, 12))
	}
	return w.Flush()
}
