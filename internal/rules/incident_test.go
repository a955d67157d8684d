package rules

import (
	"strings"
	"testing"
	"time"

	"github.com/juliosaraiva/a3data-sub001/internal/model"
)

func testNow() time.Time {
	return time.Date(2025, 8, 26, 10, 0, 0, 0, referenceLocation)
}

func newTestValidDate() *ValidDate {
	rule := NewValidDate()
	rule.Now = testNow
	return rule
}

func TestCompleteness(t *testing.T) {
	rule := NewCompleteness()

	if !rule.IsSatisfiedBy(&model.IncidentRecord{Confidence: 0.8}) {
		t.Error("Expected 0.8 to satisfy the default threshold")
	}
	if !rule.IsSatisfiedBy(&model.IncidentRecord{Confidence: 0.5}) {
		t.Error("Threshold is inclusive")
	}

	low := &model.IncidentRecord{Confidence: 0.2}
	if rule.IsSatisfiedBy(low) {
		t.Error("Expected 0.2 to fail the default threshold")
	}
	reason := rule.WhyNotSatisfied(low)
	if !strings.Contains(reason, "20.0%") || !strings.Contains(reason, "50.0%") {
		t.Errorf("Unexpected reason: %q", reason)
	}
}

func TestValidDate(t *testing.T) {
	rule := newTestValidDate()

	tests := []struct {
		name      string
		date      *string
		satisfied bool
	}{
		{"absent date", nil, true},
		{"recent", model.StringPtr("2025-08-20 14:00"), true},
		{"date only", model.StringPtr("2025-08-20"), true},
		{"tomorrow", model.StringPtr("2025-08-27 09:00"), true},
		{"too far in the future", model.StringPtr("2025-09-15 09:00"), false},
		{"a year and beyond", model.StringPtr("2024-06-01 09:00"), false},
		{"unrecognized format", model.StringPtr("ontem de manhã"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := &model.IncidentRecord{DataOcorrencia: tt.date}
			if got := rule.IsSatisfiedBy(record); got != tt.satisfied {
				t.Errorf("IsSatisfiedBy = %v, want %v", got, tt.satisfied)
			}
			if tt.satisfied && rule.WhyNotSatisfied(record) != "" {
				t.Errorf("Expected empty reason, got %q", rule.WhyNotSatisfied(record))
			}
		})
	}
}

func TestValidDate_Reasons(t *testing.T) {
	rule := newTestValidDate()

	future := &model.IncidentRecord{DataOcorrencia: model.StringPtr("2025-09-15 09:00")}
	if reason := rule.WhyNotSatisfied(future); !strings.Contains(reason, "future") {
		t.Errorf("Expected future reason, got %q", reason)
	}

	old := &model.IncidentRecord{DataOcorrencia: model.StringPtr("2023-01-01 09:00")}
	if reason := rule.WhyNotSatisfied(old); !strings.Contains(reason, "too old") {
		t.Errorf("Expected too-old reason, got %q", reason)
	}

	garbled := &model.IncidentRecord{DataOcorrencia: model.StringPtr("ontem de manhã")}
	if reason := rule.WhyNotSatisfied(garbled); !strings.Contains(reason, "not in a recognized format") {
		t.Errorf("Expected format reason, got %q", reason)
	}
}

func TestValidLocation(t *testing.T) {
	rule := NewValidLocation()

	tests := []struct {
		name      string
		location  *string
		satisfied bool
	}{
		{"absent location", nil, true},
		{"specific", model.StringPtr("Escritório de São Paulo"), true},
		{"too short", model.StringPtr("SP"), false},
		{"generic single term", model.StringPtr("sistema"), false},
		{"generic pair", model.StringPtr("no servidor"), false},
		{"generic term inside a longer phrase", model.StringPtr("sala de servidores do prédio B"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := &model.IncidentRecord{Local: tt.location}
			if got := rule.IsSatisfiedBy(record); got != tt.satisfied {
				t.Errorf("IsSatisfiedBy = %v, want %v", got, tt.satisfied)
			}
		})
	}

	short := &model.IncidentRecord{Local: model.StringPtr("SP")}
	if reason := rule.WhyNotSatisfied(short); !strings.Contains(reason, "too short") {
		t.Errorf("Expected too-short reason, got %q", reason)
	}
	generic := &model.IncidentRecord{Local: model.StringPtr("sistema")}
	if reason := rule.WhyNotSatisfied(generic); !strings.Contains(reason, "too generic") {
		t.Errorf("Expected too-generic reason, got %q", reason)
	}
}

func highQualityRecord() *model.IncidentRecord {
	return &model.IncidentRecord{
		DataOcorrencia: model.StringPtr("2025-08-20 14:00"),
		Local:          model.StringPtr("Escritório de São Paulo"),
		TipoIncidente:  model.StringPtr("Falha de Sistema"),
		Impacto:        model.StringPtr("Vendas indisponíveis por 2 horas"),
		Confidence:     0.8,
		RawDescription: "O sistema de vendas apresentou falha no escritório de São Paulo e ficou fora por 2 horas",
	}
}

func newTestHighQuality() *HighQuality {
	rule := NewHighQuality()
	rule.base = And(And(&Completeness{MinimumScore: 0.75}, newTestValidDate()), NewValidLocation())
	return rule
}

func TestHighQuality_Satisfied(t *testing.T) {
	rule := newTestHighQuality()

	record := highQualityRecord()
	if !rule.IsSatisfiedBy(record) {
		t.Fatalf("Expected high quality, got: %s", rule.WhyNotSatisfied(record))
	}
	if reason := rule.WhyNotSatisfied(record); reason != "" {
		t.Errorf("Expected empty reason, got %q", reason)
	}
}

func TestHighQuality_BaseFailure(t *testing.T) {
	rule := newTestHighQuality()

	record := highQualityRecord()
	record.Confidence = 0.4

	if rule.IsSatisfiedBy(record) {
		t.Fatal("Expected low confidence to fail the composite rule")
	}
	reason := rule.WhyNotSatisfied(record)
	if !strings.HasPrefix(reason, "Base quality requirements not met: ") {
		t.Errorf("Unexpected reason: %q", reason)
	}
}

func TestHighQuality_TrivialDescription(t *testing.T) {
	rule := newTestHighQuality()

	record := highQualityRecord()
	record.RawDescription = "erro erro erro problema travou"

	if rule.IsSatisfiedBy(record) {
		t.Fatal("Expected trivial description to fail")
	}
	if reason := rule.WhyNotSatisfied(record); reason != "Description lacks meaningful content or detail" {
		t.Errorf("Unexpected reason: %q", reason)
	}
}

func TestHighQuality_IncoherentType(t *testing.T) {
	rule := newTestHighQuality()

	record := highQualityRecord()
	record.TipoIncidente = model.StringPtr("Problema de Segurança")

	if rule.IsSatisfiedBy(record) {
		t.Fatal("Expected category without supporting keywords to fail")
	}
	if reason := rule.WhyNotSatisfied(record); reason != "Extracted information appears inconsistent or incoherent" {
		t.Errorf("Unexpected reason: %q", reason)
	}
}

func TestHighQuality_LostLocationDetail(t *testing.T) {
	rule := newTestHighQuality()

	record := highQualityRecord()
	record.Local = model.StringPtr("São Paulo")
	record.RawDescription = "O sistema de vendas apresentou falha na sala 204 do prédio B em São Paulo e ficou " +
		"completamente indisponível durante toda a tarde, impactando o fechamento do caixa"

	if rule.IsSatisfiedBy(record) {
		t.Fatal("Expected terse location against a place-specific description to fail")
	}
	if reason := rule.WhyNotSatisfied(record); reason != "Extracted information appears inconsistent or incoherent" {
		t.Errorf("Unexpected reason: %q", reason)
	}
}
