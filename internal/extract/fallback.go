package extract

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/juliosaraiva/a3data-sub001/internal/model"
	"github.com/juliosaraiva/a3data-sub001/internal/normalize"
	"github.com/juliosaraiva/a3data-sub001/internal/validate"
)

const letters = `A-Za-záàâãéêíóôõúçÁÀÂÃÉÊÍÓÔÕÚÇ`

var (
	locationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(?:no|na|em)\s+([ÁÀÂÃÉÊÍÓÔÕÚÇA-Z][` + letters + `\s]+?)[\s,.]`),
		regexp.MustCompile(`(?:escritório|servidor|sistema|local)(?:\s+de|\s+em|\s+na|\s+no)\s+([ÁÀÂÃÉÊÍÓÔÕÚÇA-Z][` + letters + `\s]+?)[\s,.]`),
	}

	durationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)por\s+(\d+\s+horas?)`),
		regexp.MustCompile(`(?i)durante\s+(\d+\s+horas?)`),
		regexp.MustCompile(`(?i)\b(\d+h\d*)\b`),
	}

	systemPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)sistema\s+de\s+([` + letters + `0-9]+)`),
		regexp.MustCompile(`(?i)(?:afetou|impactou)\s+(?:o\s+)?([` + letters + `0-9]+)`),
	}
)

// incidentTypeKeywords is the fixed keyword list scanned when no phrase
// pattern matches. Order matters: first occurrence wins.
var incidentTypeKeywords = []string{
	"falha", "erro", "problema", "incidente", "pane", "defeito",
	"interrupção", "indisponibilidade", "crash", "bug",
}

// incidentTypePhrases are colloquial multi-word descriptions that name
// an incident without any of the canonical keywords ("sistema caiu").
var incidentTypePhrases = []string{
	"sistema caiu", "sistema parou", "sistema fora do ar",
	"sistema indisponível", "sistema lento",
	"sem internet", "conexão perdida", "rede fora",
	"aplicação não abre", "app crashou", "software travou",
	"página não carrega",
}

// FallbackExtractor produces a best-effort record from regex patterns
// alone. It runs only when the model path is unusable and never fails:
// fields with no pattern evidence simply come back null.
type FallbackExtractor struct {
	normalizer *normalize.Normalizer
	validator  *validate.FieldValidator
	logger     *zap.Logger
}

// NewFallbackExtractor creates a fallback extractor sharing the
// normalizer's date/time hint logic.
func NewFallbackExtractor(normalizer *normalize.Normalizer, validator *validate.FieldValidator, logger *zap.Logger) *FallbackExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FallbackExtractor{
		normalizer: normalizer,
		validator:  validator,
		logger:     logger,
	}
}

// Extract builds a record directly from the normalized text.
func (f *FallbackExtractor) Extract(text string) *model.IncidentRecord {
	f.logger.Info("building fallback record without model involvement")

	raw := map[string]any{
		"data_ocorrencia": f.extractDate(text),
		"local":           f.extractLocation(text),
		"tipo_incidente":  f.extractIncidentType(text),
		"impacto":         f.extractImpact(text),
	}

	record := f.validator.Clean(raw)
	record.RawDescription = text
	return record
}

// extractDate joins the normalizer's date and time hints.
func (f *FallbackExtractor) extractDate(text string) any {
	date := f.normalizer.DateHint(text)
	if date == "" {
		return nil
	}
	if tm := f.normalizer.TimeHint(text); tm != "" {
		return date + " " + tm
	}
	return date
}

func (f *FallbackExtractor) extractLocation(text string) any {
	for _, re := range locationPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			location := strings.TrimSpace(m[1])
			if len(location) > 2 {
				return location
			}
		}
	}
	return nil
}

// extractIncidentType scans colloquial phrases first, then the keyword
// list with adjacent words as context.
func (f *FallbackExtractor) extractIncidentType(text string) any {
	lower := strings.ToLower(text)

	for _, phrase := range incidentTypePhrases {
		if strings.Contains(lower, phrase) {
			return phrase
		}
	}

	for _, keyword := range incidentTypeKeywords {
		if !strings.Contains(lower, keyword) {
			continue
		}
		re := regexp.MustCompile(`(?i)([` + letters + `0-9]+\s+)*` + keyword + `(\s+[` + letters + `0-9]+)*`)
		if m := re.FindString(text); m != "" {
			return strings.TrimSpace(m)
		}
	}
	return nil
}

// extractImpact combines a duration phrase and an affected-system
// phrase into one sentence fragment.
func (f *FallbackExtractor) extractImpact(text string) any {
	var duration, system string

	for _, re := range durationPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			duration = m[1]
			break
		}
	}

	for _, re := range systemPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			system = m[1]
			break
		}
	}

	var parts []string
	if system != "" {
		parts = append(parts, fmt.Sprintf("Sistema %s afetado", system))
	}
	if duration != "" {
		parts = append(parts, fmt.Sprintf("por %s", duration))
	}

	if len(parts) == 0 {
		return nil
	}
	return strings.Join(parts, " ")
}
