package rules

import (
	"fmt"
	"strings"
	"time"

	"github.com/juliosaraiva/a3data-sub001/internal/model"
)

// referenceLocation is the fixed timezone used for date plausibility.
var referenceLocation = mustLoadLocation()

func mustLoadLocation() *time.Location {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		return time.FixedZone("BRT", -3*60*60)
	}
	return loc
}

// genericLocationTerms disqualify a location made of nothing else
var genericLocationTerms = []string{
	"sistema", "aplicação", "servidor", "rede", "internet",
	"computador", "máquina", "equipamento", "local", "lugar",
}

// Completeness is satisfied when the record's confidence reaches the
// minimum score.
type Completeness struct {
	MinimumScore float64
}

// NewCompleteness creates the completeness rule with the default 0.5
// threshold.
func NewCompleteness() *Completeness {
	return &Completeness{MinimumScore: 0.5}
}

func (s *Completeness) IsSatisfiedBy(record *model.IncidentRecord) bool {
	return record.Confidence >= s.MinimumScore
}

func (s *Completeness) WhyNotSatisfied(record *model.IncidentRecord) string {
	if s.IsSatisfiedBy(record) {
		return ""
	}
	return fmt.Sprintf("Incident completeness score (%.1f%%) is below minimum requirement (%.1f%%)",
		record.Confidence*100, s.MinimumScore*100)
}

// ValidDate is satisfied when the occurrence date is absent, or when it
// lies within the plausible window around now.
type ValidDate struct {
	MaxFutureDays int
	MaxPastDays   int

	// Now supplies the reference time, overridable in tests.
	Now func() time.Time
}

// NewValidDate creates the date rule with the default window
// (365 days past, 7 days future).
func NewValidDate() *ValidDate {
	return &ValidDate{MaxFutureDays: 7, MaxPastDays: 365, Now: time.Now}
}

func (s *ValidDate) parse(record *model.IncidentRecord) (time.Time, bool) {
	if record.DataOcorrencia == nil {
		return time.Time{}, false
	}
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, *record.DataOcorrencia, referenceLocation); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (s *ValidDate) IsSatisfiedBy(record *model.IncidentRecord) bool {
	if record.DataOcorrencia == nil {
		return true
	}

	occurred, ok := s.parse(record)
	if !ok {
		return false
	}

	now := s.Now().In(referenceLocation)
	if occurred.After(now.AddDate(0, 0, s.MaxFutureDays)) {
		return false
	}
	if occurred.Before(now.AddDate(0, 0, -s.MaxPastDays)) {
		return false
	}
	return true
}

func (s *ValidDate) WhyNotSatisfied(record *model.IncidentRecord) string {
	if record.DataOcorrencia == nil || s.IsSatisfiedBy(record) {
		return ""
	}

	occurred, ok := s.parse(record)
	if !ok {
		return fmt.Sprintf("Incident date (%s) is not in a recognized format", *record.DataOcorrencia)
	}

	now := s.Now().In(referenceLocation)
	if occurred.After(now.AddDate(0, 0, s.MaxFutureDays)) {
		return fmt.Sprintf("Incident date (%s) is too far in the future (maximum %d days from now)",
			*record.DataOcorrencia, s.MaxFutureDays)
	}
	return fmt.Sprintf("Incident date (%s) is too old (maximum %d days ago)",
		*record.DataOcorrencia, s.MaxPastDays)
}

// ValidLocation is satisfied when the location is absent, or when it is
// long enough and not composed solely of generic terms.
type ValidLocation struct {
	MinimumLength int
}

// NewValidLocation creates the location rule with the default minimum
// length of 3.
func NewValidLocation() *ValidLocation {
	return &ValidLocation{MinimumLength: 3}
}

func (s *ValidLocation) genericOffender(location string) string {
	if len(strings.Fields(location)) > 2 {
		return ""
	}
	lower := strings.ToLower(location)
	for _, term := range genericLocationTerms {
		if strings.Contains(lower, term) {
			return term
		}
	}
	return ""
}

func (s *ValidLocation) IsSatisfiedBy(record *model.IncidentRecord) bool {
	if record.Local == nil {
		return true
	}
	location := *record.Local
	if len([]rune(location)) < s.MinimumLength {
		return false
	}
	return s.genericOffender(location) == ""
}

func (s *ValidLocation) WhyNotSatisfied(record *model.IncidentRecord) string {
	if record.Local == nil || s.IsSatisfiedBy(record) {
		return ""
	}

	location := *record.Local
	if len([]rune(location)) < s.MinimumLength {
		return fmt.Sprintf("Location '%s' is too short (minimum %d characters required)",
			location, s.MinimumLength)
	}
	return fmt.Sprintf("Location '%s' is too generic, please provide more specific location information", location)
}

// trivialComplaints are words that, when dominating the description,
// indicate a low-information report.
var trivialComplaints = []string{
	"erro", "problema", "não funciona", "quebrado", "parou",
	"não carrega", "deu erro", "não abre", "travou",
}

// incidentTypeKeywords maps known categories to words that should
// appear somewhere in the raw description.
var incidentTypeKeywords = map[string][]string{
	"Falha de Sistema":      {"falha", "erro", "sistema", "parou", "indisponível"},
	"Problema de Rede":      {"rede", "conexão", "internet", "wi-fi"},
	"Erro de Aplicação":     {"aplicação", "app", "software"},
	"Lentidão de Sistema":   {"lento", "devagar", "demora", "performance"},
	"Problema de Segurança": {"segurança", "hack", "vírus", "invasão"},
}

// specificPlaceWords signal that the description names a concrete place
var specificPlaceWords = []string{"sala", "andar", "prédio", "endereço"}

// HighQuality is the composite rule: base quality (completeness 0.75,
// valid date, valid location) plus a meaningful description and
// coherence between the extracted fields and the raw text.
type HighQuality struct {
	base Specification
}

// NewHighQuality creates the composite high-quality rule.
func NewHighQuality() *HighQuality {
	return &HighQuality{
		base: And(And(&Completeness{MinimumScore: 0.75}, NewValidDate()), NewValidLocation()),
	}
}

func (s *HighQuality) IsSatisfiedBy(record *model.IncidentRecord) bool {
	return s.base.IsSatisfiedBy(record) &&
		hasMeaningfulDescription(record) &&
		hasCoherentInformation(record)
}

func (s *HighQuality) WhyNotSatisfied(record *model.IncidentRecord) string {
	if s.IsSatisfiedBy(record) {
		return ""
	}

	if reason := s.base.WhyNotSatisfied(record); reason != "" {
		return "Base quality requirements not met: " + reason
	}
	if !hasMeaningfulDescription(record) {
		return "Description lacks meaningful content or detail"
	}
	return "Extracted information appears inconsistent or incoherent"
}

// hasMeaningfulDescription requires minimum length and a bounded share
// of trivial-complaint words.
func hasMeaningfulDescription(record *model.IncidentRecord) bool {
	description := strings.TrimSpace(record.RawDescription)
	if len([]rune(description)) < 20 {
		return false
	}

	words := strings.Fields(strings.ToLower(description))
	if len(words) == 0 {
		return false
	}

	trivial := 0
	for _, word := range words {
		for _, pattern := range trivialComplaints {
			if strings.Contains(word, pattern) {
				trivial++
				break
			}
		}
	}

	return float64(trivial)/float64(len(words)) <= 0.6
}

// hasCoherentInformation cross-checks extracted fields against the raw
// description.
func hasCoherentInformation(record *model.IncidentRecord) bool {
	descriptionLower := strings.ToLower(record.RawDescription)

	if record.TipoIncidente != nil {
		if keywords, known := incidentTypeKeywords[*record.TipoIncidente]; known {
			found := false
			for _, keyword := range keywords {
				if strings.Contains(descriptionLower, keyword) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
	}

	// A terse location next to a long, place-specific description
	// suggests the extraction lost detail
	if record.Local != nil &&
		len([]rune(*record.Local)) < 10 &&
		len([]rune(record.RawDescription)) > 100 {
		for _, word := range specificPlaceWords {
			if strings.Contains(descriptionLower, word) {
				return false
			}
		}
	}

	return true
}
