package rules

import (
	"testing"

	"github.com/juliosaraiva/a3data-sub001/internal/model"
)

// stubSpec is a fixed-outcome specification for combinator tests.
type stubSpec struct {
	satisfied bool
	reason    string
}

func (s *stubSpec) IsSatisfiedBy(_ *model.IncidentRecord) bool { return s.satisfied }

func (s *stubSpec) WhyNotSatisfied(_ *model.IncidentRecord) string {
	if s.satisfied {
		return ""
	}
	return s.reason
}

var (
	pass  = &stubSpec{satisfied: true}
	failA = &stubSpec{satisfied: false, reason: "reason A"}
	failB = &stubSpec{satisfied: false, reason: "reason B"}
)

func TestAnd(t *testing.T) {
	record := &model.IncidentRecord{}

	tests := []struct {
		name       string
		spec       Specification
		satisfied  bool
		wantReason string
	}{
		{"both pass", And(pass, pass), true, ""},
		{"left fails", And(failA, pass), false, "reason A"},
		{"right fails", And(pass, failB), false, "reason B"},
		{"both fail", And(failA, failB), false, "reason A AND reason B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.spec.IsSatisfiedBy(record); got != tt.satisfied {
				t.Errorf("IsSatisfiedBy = %v, want %v", got, tt.satisfied)
			}
			if got := tt.spec.WhyNotSatisfied(record); got != tt.wantReason {
				t.Errorf("WhyNotSatisfied = %q, want %q", got, tt.wantReason)
			}
		})
	}
}

func TestOr(t *testing.T) {
	record := &model.IncidentRecord{}

	tests := []struct {
		name       string
		spec       Specification
		satisfied  bool
		wantReason string
	}{
		{"both pass", Or(pass, pass), true, ""},
		{"left passes", Or(pass, failB), true, ""},
		{"right passes", Or(failA, pass), true, ""},
		{"both fail", Or(failA, failB), false, "Neither condition satisfied: (reason A) OR (reason B)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.spec.IsSatisfiedBy(record); got != tt.satisfied {
				t.Errorf("IsSatisfiedBy = %v, want %v", got, tt.satisfied)
			}
			if got := tt.spec.WhyNotSatisfied(record); got != tt.wantReason {
				t.Errorf("WhyNotSatisfied = %q, want %q", got, tt.wantReason)
			}
		})
	}
}

func TestNot(t *testing.T) {
	record := &model.IncidentRecord{}

	negatedFail := Not(failA)
	if !negatedFail.IsSatisfiedBy(record) {
		t.Error("NOT of a failing spec must be satisfied")
	}
	if reason := negatedFail.WhyNotSatisfied(record); reason != "" {
		t.Errorf("Expected empty reason, got %q", reason)
	}

	negatedPass := Not(pass)
	if negatedPass.IsSatisfiedBy(record) {
		t.Error("NOT of a passing spec must not be satisfied")
	}
	if reason := negatedPass.WhyNotSatisfied(record); reason != "NOT (satisfied)" {
		t.Errorf("Expected NOT (satisfied), got %q", reason)
	}
}

func TestComposition(t *testing.T) {
	record := &model.IncidentRecord{}

	// (pass AND (failA OR failB)) must fail with the nested OR reason
	spec := And(pass, Or(failA, failB))
	if spec.IsSatisfiedBy(record) {
		t.Error("Expected composed spec to fail")
	}
	want := "Neither condition satisfied: (reason A) OR (reason B)"
	if got := spec.WhyNotSatisfied(record); got != want {
		t.Errorf("WhyNotSatisfied = %q, want %q", got, want)
	}
}
