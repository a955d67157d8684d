// Package rules implements composable business-rule predicates over
// incident records. A Specification answers whether a record satisfies
// it and, when it does not, explains why. Specifications are stateless
// and reusable across records; And/Or/Not build new ones recursively.
package rules

import (
	"fmt"

	"github.com/juliosaraiva/a3data-sub001/internal/model"
)

// Specification is a boolean predicate over an incident record with an
// explanatory failure reason. WhyNotSatisfied returns "" when the
// record satisfies the specification.
type Specification interface {
	IsSatisfiedBy(record *model.IncidentRecord) bool
	WhyNotSatisfied(record *model.IncidentRecord) string
}

// And combines two specifications; both must hold.
func And(left, right Specification) Specification {
	return &andSpecification{left: left, right: right}
}

// Or combines two specifications; at least one must hold.
func Or(left, right Specification) Specification {
	return &orSpecification{left: left, right: right}
}

// Not negates a specification.
func Not(spec Specification) Specification {
	return &notSpecification{spec: spec}
}

type andSpecification struct {
	left, right Specification
}

func (s *andSpecification) IsSatisfiedBy(record *model.IncidentRecord) bool {
	return s.left.IsSatisfiedBy(record) && s.right.IsSatisfiedBy(record)
}

// WhyNotSatisfied evaluates both branches so the explanation covers
// every failing condition, not just the first.
func (s *andSpecification) WhyNotSatisfied(record *model.IncidentRecord) string {
	leftReason := s.left.WhyNotSatisfied(record)
	rightReason := s.right.WhyNotSatisfied(record)

	switch {
	case leftReason != "" && rightReason != "":
		return leftReason + " AND " + rightReason
	case leftReason != "":
		return leftReason
	default:
		return rightReason
	}
}

type orSpecification struct {
	left, right Specification
}

func (s *orSpecification) IsSatisfiedBy(record *model.IncidentRecord) bool {
	return s.left.IsSatisfiedBy(record) || s.right.IsSatisfiedBy(record)
}

// WhyNotSatisfied reports both sides jointly, and only when both fail.
func (s *orSpecification) WhyNotSatisfied(record *model.IncidentRecord) string {
	if s.IsSatisfiedBy(record) {
		return ""
	}
	return fmt.Sprintf("Neither condition satisfied: (%s) OR (%s)",
		s.left.WhyNotSatisfied(record), s.right.WhyNotSatisfied(record))
}

type notSpecification struct {
	spec Specification
}

func (s *notSpecification) IsSatisfiedBy(record *model.IncidentRecord) bool {
	return !s.spec.IsSatisfiedBy(record)
}

func (s *notSpecification) WhyNotSatisfied(record *model.IncidentRecord) string {
	if s.IsSatisfiedBy(record) {
		return ""
	}

	inner := s.spec.WhyNotSatisfied(record)
	if inner == "" {
		inner = "satisfied"
	}
	return fmt.Sprintf("NOT (%s)", inner)
}
