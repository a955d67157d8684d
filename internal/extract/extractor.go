// Package extract implements the extraction pipeline: prompt
// construction, model invocation with retry, multi-strategy response
// parsing and the deterministic regex fallback.
package extract

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/juliosaraiva/a3data-sub001/internal/llm"
	"github.com/juliosaraiva/a3data-sub001/internal/model"
	"github.com/juliosaraiva/a3data-sub001/internal/normalize"
	"github.com/juliosaraiva/a3data-sub001/internal/validate"
)

const correctiveInstruction = "\n\nATENÇÃO: Retorne APENAS JSON válido, sem texto adicional."

// Extractor orchestrates the full pipeline for one description.
// Requests are independent; an Extractor is safe for concurrent use.
type Extractor struct {
	provider   llm.Provider
	normalizer *normalize.Normalizer
	parser     *ResponseParser
	fallback   *FallbackExtractor
	validator  *validate.FieldValidator
	maxRetries int
	minLength  int
	maxLength  int
	logger     *zap.Logger
}

// NewExtractor wires the pipeline from configuration.
func NewExtractor(cfg *model.Config, provider llm.Provider, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}

	normalizer := normalize.NewNormalizer(cfg.Extraction.MaxDescriptionLength, cfg.Extraction.NormalizeText, logger)
	validator := validate.NewFieldValidator(logger)

	return &Extractor{
		provider:   provider,
		normalizer: normalizer,
		parser:     NewResponseParser(logger),
		fallback:   NewFallbackExtractor(normalizer, validator, logger),
		validator:  validator,
		maxRetries: cfg.Extraction.MaxRetries,
		minLength:  cfg.Extraction.MinDescriptionLength,
		maxLength:  cfg.Extraction.MaxDescriptionLength,
		logger:     logger,
	}
}

// Normalizer exposes the pipeline's normalizer, mainly so tests and the
// CLI can pin its clock.
func (e *Extractor) Normalizer() *normalize.Normalizer {
	return e.normalizer
}

// Extract turns a free-form incident description into a structured
// record. Gateway and parse failures degrade to the regex fallback; the
// only errors surfaced are invalid input and caller cancellation.
func (e *Extractor) Extract(ctx context.Context, description string) (*model.IncidentRecord, error) {
	if err := e.validateDescription(description); err != nil {
		return nil, err
	}

	normalized := e.normalizer.Normalize(description)
	e.logger.Debug("normalized description", zap.Int("chars", len(normalized)))

	resp, err := e.generateWithRetry(ctx, e.buildPrompt(normalized))
	if err != nil {
		return nil, err
	}

	if !resp.Success {
		e.logger.Warn("model path unusable, falling back", zap.Error(resp.Err))
		record := e.fallback.Extract(normalized)
		record.RawDescription = description
		return record, nil
	}

	parsed := e.parser.Parse(resp.Text)
	if parsed == nil {
		record := e.fallback.Extract(normalized)
		record.RawDescription = description
		return record, nil
	}

	record := e.validator.Clean(parsed)
	record.RawDescription = description
	return record, nil
}

func (e *Extractor) validateDescription(description string) error {
	trimmed := strings.TrimSpace(description)
	if trimmed == "" {
		return model.NewValidationError("description", "cannot be empty")
	}
	if len([]rune(trimmed)) < e.minLength {
		return model.NewValidationError("description",
			fmt.Sprintf("must be at least %d characters", e.minLength))
	}
	if len([]rune(trimmed)) > e.maxLength {
		return model.NewValidationError("description",
			fmt.Sprintf("must be at most %d characters", e.maxLength))
	}
	return nil
}

// buildPrompt embeds the normalized text plus any date/time hints and
// pins the exact JSON shape expected back.
func (e *Extractor) buildPrompt(text string) string {
	var hints strings.Builder
	if hint := e.normalizer.DateHint(text); hint != "" {
		hints.WriteString("\nData de contexto: " + hint)
	}
	if hint := e.normalizer.TimeHint(text); hint != "" {
		hints.WriteString("\nHorário de contexto: " + hint)
	}

	return fmt.Sprintf(`Você é um especialista em análise de incidentes. Analise o texto abaixo e extraia as informações estruturadas.

TEXTO DO INCIDENTE:
%s

CONTEXTO ADICIONAL:%s

INSTRUÇÕES:
1. Extraia APENAS as informações que estão claramente presentes no texto
2. Para campos não encontrados, use null
3. Para data_ocorrencia, use formato "AAAA-MM-DD HH:MM" se possível
4. Seja conciso e preciso nas descrições
5. RETORNE APENAS UM JSON VÁLIDO, sem explicações adicionais

FORMATO DE SAÍDA (JSON):
{
    "data_ocorrencia": "AAAA-MM-DD HH:MM ou null",
    "local": "local do incidente ou null",
    "tipo_incidente": "tipo/categoria do incidente ou null",
    "impacto": "descrição do impacto ou null"
}

JSON:`, text, hints.String())
}

// generateWithRetry invokes the gateway sequentially, appending a
// corrective instruction after each shape-invalid response. Retries are
// never issued in parallel: each attempt depends on observing the
// previous failure.
func (e *Extractor) generateWithRetry(ctx context.Context, prompt string) (llm.Response, error) {
	var resp llm.Response

	for attempt := 0; attempt <= e.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return llm.Response{}, err
		}

		e.logger.Debug("generate attempt", zap.Int("attempt", attempt+1))
		resp = e.provider.Generate(ctx, prompt)

		if resp.Success && looksLikeJSON(resp.Text) {
			return resp, nil
		}

		if attempt < e.maxRetries {
			if resp.Success {
				e.logger.Warn("shape-invalid response, retrying with corrective instruction",
					zap.Int("attempt", attempt+1))
				prompt += correctiveInstruction
			} else {
				e.logger.Warn("gateway failure, retrying",
					zap.Int("attempt", attempt+1), zap.Error(resp.Err))
			}
		}
	}

	return resp, nil
}

// looksLikeJSON is the cheap shape check used by the retry loop, not a
// full parse.
func looksLikeJSON(text string) bool {
	trimmed := strings.TrimSpace(text)
	return strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}")
}
