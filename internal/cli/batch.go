package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/juliosaraiva/a3data-sub001/internal/extract"
	"github.com/juliosaraiva/a3data-sub001/internal/llm"
	"github.com/juliosaraiva/a3data-sub001/internal/logging"
	"github.com/juliosaraiva/a3data-sub001/internal/worker"
)

var (
	batchProvider    string
	batchModel       string
	batchConcurrency int
	batchTimeout     time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Extract records from a file of descriptions, one per line",
	Long: `Batch reads incident descriptions from a file (one per line, blank
lines and #-comments skipped), extracts them concurrently and prints
one JSON result per line in input order.

Example:
  incident-extractor batch incidents.txt --concurrency 4`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVar(&batchProvider, "provider", "", "LLM provider (ollama, openai, mock)")
	batchCmd.Flags().StringVar(&batchModel, "model", "", "LLM model name")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 4, "concurrent extractions")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "overall batch timeout")
}

type batchLine struct {
	Line   int    `json:"line"`
	Error  string `json:"error,omitempty"`
	Record any    `json:"record,omitempty"`
}

func runBatch(cmd *cobra.Command, args []string) error {
	path := args[0]

	cfg := loadConfig()
	if batchProvider != "" {
		cfg.LLM.Provider = batchProvider
	}
	if batchModel != "" {
		cfg.LLM.Model = batchModel
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return fmt.Errorf("create LLM provider: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	extractor := extract.NewExtractor(cfg, provider, logger)
	processor := worker.NewBatchProcessor(extractor, batchConcurrency)

	results, err := processor.ProcessFile(ctx, path)
	if err != nil {
		return fmt.Errorf("batch extraction failed: %w", err)
	}

	encoder := json.NewEncoder(os.Stdout)
	failures := 0
	for _, result := range results {
		line := batchLine{Line: result.Line}
		if result.Error != nil {
			line.Error = result.Error.Error()
			failures++
		} else {
			line.Record = result.Record
		}
		if err := encoder.Encode(line); err != nil {
			return err
		}
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Processed %d descriptions, %d failed\n", len(results), failures)
	}
	return nil
}
