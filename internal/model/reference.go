package model

// Reference list types served by the master-data registry.
const (
	ListFuel        = "combustible"
	ListDestination = "destino"
	ListDepartment  = "departamento"
	ListCategory    = "categoria"
	ListQuality     = "calidad"
	ListTariff      = "tarifa"
	ListBroker      = "corredor"
	ListCurrency    = "moneda"
)

// ListTypes enumerates the known reference list types in the order the
// orchestrator resolves them.
var ListTypes = []string{
	ListFuel,
	ListDestination,
	ListDepartment,
	ListCategory,
	ListQuality,
	ListTariff,
	ListBroker,
	ListCurrency,
}

// ReferenceItem is one entry of an externally supplied reference list:
// an opaque id, a canonical display name and an optional short code.
// Read-only to the mapping pipeline.
type ReferenceItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

// MatchSource tells how a reference match was produced.
type MatchSource string

const (
	MatchNone       MatchSource = "none"
	MatchRule       MatchSource = "rule"
	MatchSimilarity MatchSource = "similarity"
)

// MatchResult is the outcome of resolving free text against a reference
// list. Confidence is always within [0,1].
type MatchResult struct {
	Item       ReferenceItem `json:"item"`
	Confidence float64       `json:"confidence"`
	Source     MatchSource   `json:"source"`
}
