// Package validate cleans raw extracted fields into an IncidentRecord
// and derives its confidence score.
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/juliosaraiva/a3data-sub001/internal/model"
)

var (
	innerWhitespaceRe = regexp.MustCompile(`\s+`)
	canonicalDateRe   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}$`)
)

// dateLayouts are the accepted source formats for the occurrence
// timestamp, reconciled to "YYYY-MM-DD HH:MM".
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"02/01/2006 15:04",
	"2006-01-02",
}

// placeholders are model outputs that mean "no value"
var placeholders = map[string]bool{
	"null": true,
	"none": true,
	"n/a":  true,
	"-":    true,
}

// confidenceMultipliers scale the completeness score by the model's
// qualitative self-assessment, when it volunteers one.
var confidenceMultipliers = map[string]float64{
	"high":   1.0,
	"medium": 0.8,
	"low":    0.6,
}

const defaultConfidenceMultiplier = 0.8

// FieldValidator cleans extracted fields and computes confidence.
type FieldValidator struct {
	logger *zap.Logger
}

// NewFieldValidator creates a field validator.
func NewFieldValidator(logger *zap.Logger) *FieldValidator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FieldValidator{logger: logger}
}

// Clean validates the raw extracted object and builds the record. Every
// alteration is noted in the record's validation log; cleaning never
// fails, worst case every field ends up null with confidence 0.
func (v *FieldValidator) Clean(raw map[string]any) *model.IncidentRecord {
	record := &model.IncidentRecord{}
	var log []string

	clean := func(field string, maxLength int) *string {
		original, present := raw[field]
		if !present {
			return nil
		}
		cleaned := v.cleanTextField(asString(original), maxLength)
		switch orig := original.(type) {
		case nil:
			// explicit null is already clean
		case string:
			if cleaned == nil || *cleaned != orig {
				log = append(log, field+"_cleaned")
			}
		default:
			log = append(log, field+"_cleaned")
		}
		return cleaned
	}

	record.Local = clean("local", model.MaxLocationLength)
	record.TipoIncidente = clean("tipo_incidente", model.MaxTypeLength)
	record.Impacto = clean("impacto", model.MaxImpactLength)

	if date := v.cleanTextField(asString(raw["data_ocorrencia"]), 50); date != nil {
		reconciled, note := v.reconcileDate(*date)
		record.DataOcorrencia = model.StringPtr(reconciled)
		if note != "" {
			log = append(log, note)
		}
	}

	record.ValidationLog = log
	record.Confidence = v.confidence(record, asString(raw["confidence"]))
	return record
}

// cleanTextField trims, collapses internal whitespace, strips one layer
// of matching surrounding quotes, truncates with an ellipsis marker and
// maps placeholder values to nil.
func (v *FieldValidator) cleanTextField(text string, maxLength int) *string {
	if text == "" {
		return nil
	}

	cleaned := innerWhitespaceRe.ReplaceAllString(strings.TrimSpace(text), " ")

	if len(cleaned) >= 2 {
		first, last := cleaned[0], cleaned[len(cleaned)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			cleaned = cleaned[1 : len(cleaned)-1]
		}
	}

	if runes := []rune(cleaned); len(runes) > maxLength {
		cleaned = string(runes[:maxLength-3]) + "..."
	}

	if cleaned == "" || placeholders[strings.ToLower(cleaned)] {
		return nil
	}

	return &cleaned
}

// reconcileDate normalizes accepted source formats to the canonical
// "YYYY-MM-DD HH:MM". Unparseable values are returned unchanged, never
// silently dropped, with a diagnostic note.
func (v *FieldValidator) reconcileDate(date string) (string, string) {
	if canonicalDateRe.MatchString(date) {
		return date, ""
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, date); err == nil {
			return t.Format("2006-01-02 15:04"), "data_ocorrencia_cleaned"
		}
	}

	v.logger.Warn("could not reconcile date format", zap.String("value", date))
	return date, "data_ocorrencia_unparsed"
}

// confidence derives the [0,1] score: present fields over four, scaled
// by the qualitative multiplier (default 0.8 when absent or
// unrecognized).
func (v *FieldValidator) confidence(record *model.IncidentRecord, qualitative string) float64 {
	multiplier, ok := confidenceMultipliers[strings.ToLower(strings.TrimSpace(qualitative))]
	if !ok {
		multiplier = defaultConfidenceMultiplier
	}

	score := float64(record.PresentFields()) / 4.0 * multiplier
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// asString renders a raw extracted value as text. Non-string JSON
// values (numbers, booleans) are kept, objects and nil are dropped.
func asString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return fmt.Sprintf("%v", v)
	case bool:
		return fmt.Sprintf("%v", v)
	default:
		return ""
	}
}
