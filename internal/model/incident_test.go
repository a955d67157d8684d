package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestPresentFields(t *testing.T) {
	empty := &IncidentRecord{}
	if got := empty.PresentFields(); got != 0 {
		t.Errorf("Empty record: expected 0, got %d", got)
	}

	full := &IncidentRecord{
		DataOcorrencia: StringPtr("2025-08-20 14:00"),
		Local:          StringPtr("São Paulo"),
		TipoIncidente:  StringPtr("falha"),
		Impacto:        StringPtr("indisponibilidade"),
	}
	if got := full.PresentFields(); got != 4 {
		t.Errorf("Full record: expected 4, got %d", got)
	}

	partial := &IncidentRecord{TipoIncidente: StringPtr("falha")}
	if got := partial.PresentFields(); got != 1 {
		t.Errorf("Partial record: expected 1, got %d", got)
	}
}

func TestStringPtr(t *testing.T) {
	if StringPtr("") != nil {
		t.Error("Expected nil for empty string")
	}
	if p := StringPtr("x"); p == nil || *p != "x" {
		t.Errorf("Expected pointer to x, got %v", p)
	}
}

func TestIncidentRecord_JSONShape(t *testing.T) {
	record := &IncidentRecord{
		TipoIncidente:  StringPtr("falha"),
		Confidence:     0.2,
		RawDescription: "texto original",
	}

	data, err := json.Marshal(record)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	body := string(data)
	for _, key := range []string{"data_ocorrencia", "local", "tipo_incidente", "impacto", "confidence"} {
		if !strings.Contains(body, `"`+key+`"`) {
			t.Errorf("Expected canonical key %q in %s", key, body)
		}
	}
	if strings.Contains(body, "texto original") {
		t.Error("Raw description must not be serialized")
	}
	if !strings.Contains(body, `"data_ocorrencia":null`) {
		t.Errorf("Absent fields must serialize as null, got %s", body)
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("description", "cannot be empty")
	if err.Error() != "invalid description: cannot be empty" {
		t.Errorf("Unexpected message: %s", err.Error())
	}

	var verr *ValidationError
	if !errors.As(error(err), &verr) {
		t.Error("Expected errors.As to match *ValidationError")
	}
}
