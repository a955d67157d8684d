package model

// Field length limits applied during validation
const (
	MaxLocationLength = 200
	MaxTypeLength     = 150
	MaxImpactLength   = 500
)

// IncidentRecord is the structured result of extracting an incident
// description. Fields are nil when no evidence for them exists in the
// source text. A record is built once per request and never mutated
// after it is returned.
type IncidentRecord struct {
	// DataOcorrencia is the occurrence timestamp, canonical form
	// "YYYY-MM-DD HH:MM" when reconcilable
	DataOcorrencia *string `json:"data_ocorrencia"`

	// Local is where the incident happened
	Local *string `json:"local"`

	// TipoIncidente is the incident type or category
	TipoIncidente *string `json:"tipo_incidente"`

	// Impacto describes the impact caused
	Impacto *string `json:"impacto"`

	// Confidence is a derived completeness score in [0,1], not a
	// model-asserted probability
	Confidence float64 `json:"confidence"`

	// ValidationLog records which fields were altered during cleaning.
	// Diagnostic only, never authoritative.
	ValidationLog []string `json:"validation_log,omitempty"`

	// RawDescription is the original input text, retained for
	// business-rule evaluation
	RawDescription string `json:"-"`
}

// PresentFields returns how many of the four canonical fields are set.
func (r *IncidentRecord) PresentFields() int {
	n := 0
	for _, f := range []*string{r.DataOcorrencia, r.Local, r.TipoIncidente, r.Impacto} {
		if f != nil && *f != "" {
			n++
		}
	}
	return n
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
