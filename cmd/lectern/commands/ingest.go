// ABOUTME: CLI command to ingest a directory of transcripts into the vector store
// ABOUTME: Skips unchanged sources unless --force, reports per-source outcomes
package commands

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"lectern/internal/chunker"
	"lectern/internal/ingest"
)

var (
	ingestForce     bool
	ingestBatchSize int
)

// NewIngestCmd creates the ingest command
func NewIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <dir>",
		Short: "Ingest transcript files into the vector store",
		Long: `Ingest every .txt file in a directory: chunk, embed, and store.

Sources whose content is unchanged since the last run are skipped; a source
that fails (for example a provider error mid-batch) is left untouched and
reported, and the run continues with the remaining sources.

Examples:
  lectern ingest ./transcripts
  lectern ingest --force ./transcripts`,
		Args: cobra.ExactArgs(1),
		RunE: runIngest,
	}

	cmd.Flags().BoolVar(&ingestForce, "force", false, "Re-ingest sources even when unchanged")
	cmd.Flags().IntVar(&ingestBatchSize, "batch-size", 0, "Chunks per embedding request (default from env)")

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if ingestBatchSize > 0 {
		cfg.EmbedBatchSize = ingestBatchSize
	}

	corpus, err := ingest.LoadCorpus(args[0])
	if err != nil {
		return err
	}
	if len(corpus) == 0 {
		return fmt.Errorf("no .txt documents found in %s", args[0])
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

	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	pipeline := ingest.New(
		chunker.New(cfg.ChunkMaxWords, cfg.ChunkOverlapWords),
		client,
		store,
		ingest.WithForce(ingestForce),
		ingest.WithBatchSize(cfg.EmbedBatchSize),
		ingest.WithLogger(logger),
	)

	report := pipeline.Ingest(cmd.Context(), corpus)

	if !quiet {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Ingested: %d  Skipped: %d  Failed: %d\n",
			len(report.Ingested), len(report.Skipped), len(report.Failed))
		for _, name := range report.Ingested {
			fmt.Fprintf(out, "  + %s\n", name)
		}
		for _, name := range report.Skipped {
			fmt.Fprintf(out, "  = %s (unchanged)\n", name)
		}
		for _, failure := range report.Failed {
			fmt.Fprintf(out, "  ! %s: %v\n", failure.Source, failure.Err)
		}
	}

	if len(report.Failed) > 0 {
		return fmt.Errorf("%d source(s) failed", len(report.Failed))
	}
	return nil
}
