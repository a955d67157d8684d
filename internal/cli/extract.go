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
	"github.com/juliosaraiva/a3data-sub001/internal/rules"
)

var (
	extractProvider string
	extractModel    string
	extractTimeout  time.Duration
	showQuality     bool
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <description>",
	Short: "Extract a structured record from one incident description",
	Long: `Extract runs the full pipeline on a single description and prints
the resulting record as JSON.

Example:
  incident-extractor extract "Ontem às 14h, no escritório de São Paulo, houve uma falha no servidor"
  incident-extractor extract --provider mock "Sistema caiu ontem" --quality`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVar(&extractProvider, "provider", "", "LLM provider (ollama, openai, mock)")
	extractCmd.Flags().StringVar(&extractModel, "model", "", "LLM model name")
	extractCmd.Flags().DurationVar(&extractTimeout, "timeout", 2*time.Minute, "overall extraction timeout")
	extractCmd.Flags().BoolVar(&showQuality, "quality", false, "include the high-quality classification")
}

func runExtract(cmd *cobra.Command, args []string) error {
	description := args[0]

	cfg := loadConfig()
	if extractProvider != "" {
		cfg.LLM.Provider = extractProvider
	}
	if extractModel != "" {
		cfg.LLM.Model = extractModel
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

	ctx, cancel := context.WithTimeout(context.Background(), extractTimeout)
	defer cancel()

	extractor := extract.NewExtractor(cfg, provider, logger)
	record, err := extractor.Extract(ctx, description)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	out := map[string]any{
		"data_ocorrencia": record.DataOcorrencia,
		"local":           record.Local,
		"tipo_incidente":  record.TipoIncidente,
		"impacto":         record.Impacto,
		"confidence":      record.Confidence,
	}
	if len(record.ValidationLog) > 0 {
		out["validation_log"] = record.ValidationLog
	}
	if showQuality {
		quality := rules.NewHighQuality()
		out["high_quality"] = quality.IsSatisfiedBy(record)
		if reason := quality.WhyNotSatisfied(record); reason != "" {
			out["quality_reason"] = reason
		}
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}
