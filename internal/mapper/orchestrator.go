// Package mapper composes normalization, extraction and reference matching
// into the document mapping pipeline. The orchestrator is a pure function
// over the bag and the reference data handed to it: no I/O, no shared
// state, deterministic output for identical inputs.
package mapper

import (
	"fmt"

	"github.com/corredora-austral/policy-cli/internal/extract"
	"github.com/corredora-austral/policy-cli/internal/model"
	"github.com/corredora-austral/policy-cli/internal/normalize"
	"github.com/corredora-austral/policy-cli/internal/refmatch"
)

// ReferenceData is the per-call snapshot of master data: one reference list
// per list type plus the keyword rule tables. Supplied by the caller;
// the pipeline never fetches or caches it.
type ReferenceData struct {
	Lists map[string][]model.ReferenceItem `json:"lists"`
	Rules map[string]refmatch.RuleTable    `json:"rules,omitempty"`
}

// List returns the reference list for a type, or nil.
func (r ReferenceData) List(listType string) []model.ReferenceItem {
	return r.Lists[listType]
}

// RuleTable returns the rule table for a type, or nil.
func (r ReferenceData) RuleTable(listType string) refmatch.RuleTable {
	return r.Rules[listType]
}

// Thresholds tunes the matching and reporting cutoffs.
type Thresholds struct {
	// MasterData is the similarity floor for descriptive master-data lists
	// (fuel, destination, category, quality, currency).
	MasterData float64
	// Names is the similarity floor for name-like lists (department,
	// tariff, broker) matched by edit distance.
	Names float64
	// LowConfidence is the cutoff below which a match raises an issue.
	LowConfidence float64
}

// DefaultThresholds returns the tuned production cutoffs.
func DefaultThresholds() Thresholds {
	return Thresholds{MasterData: 0.5, Names: 0.6, LowConfidence: 0.7}
}

// codedField describes one canonical field that must resolve to a
// reference code. The slice order fixes the processing (and output) order.
type codedField struct {
	name     string
	listType string
	strategy refmatch.Strategy
	value    func(*model.PolicyData) string
}

var codedFields = []codedField{
	{"fuel", model.ListFuel, refmatch.WordOverlap, func(d *model.PolicyData) string { return d.Vehicle.FuelText }},
	{"destination", model.ListDestination, refmatch.WordOverlap, func(d *model.PolicyData) string { return d.Vehicle.DestinationText }},
	{"department", model.ListDepartment, refmatch.EditDistance, func(d *model.PolicyData) string { return d.Client.DepartmentText }},
	{"category", model.ListCategory, refmatch.WordOverlap, func(d *model.PolicyData) string { return d.Vehicle.CategoryText }},
	{"quality", model.ListQuality, refmatch.WordOverlap, func(d *model.PolicyData) string { return d.QualityText }},
	{"tariff", model.ListTariff, refmatch.EditDistance, func(d *model.PolicyData) string { return d.TariffText }},
	{"broker", model.ListBroker, refmatch.EditDistance, func(d *model.PolicyData) string { return d.BrokerText }},
	{"currency", model.ListCurrency, refmatch.WordOverlap, func(d *model.PolicyData) string { return d.CurrencyText }},
}

// Orchestrator runs the full mapping pipeline for one document.
type Orchestrator struct {
	extractor  *extract.Extractor
	thresholds Thresholds
}

// New creates an Orchestrator with the given thresholds.
func New(thresholds Thresholds) *Orchestrator {
	if thresholds.MasterData <= 0 {
		thresholds.MasterData = 0.5
	}
	if thresholds.Names <= 0 {
		thresholds.Names = 0.6
	}
	if thresholds.LowConfidence <= 0 {
		thresholds.LowConfidence = 0.7
	}
	return &Orchestrator{extractor: extract.New(), thresholds: thresholds}
}

// Run maps one document. It never returns an error: malformed data degrades
// to defaults plus issues, and a panic in any sub-step is converted into a
// single validation issue while the rest of the document is still
// processed with whatever had been built.
func (o *Orchestrator) Run(bag model.FieldBag, providerID string, refs ReferenceData) model.MappingResult {
	normalizer := normalize.ForProvider(providerID)

	result := model.MappingResult{
		Provider:    normalizer.Provider(),
		Data:        model.NewPolicyData(),
		Matches:     make(map[string]model.MatchResult, len(codedFields)),
		Suggestions: []model.MappingSuggestion{},
		Issues:      []model.MappingIssue{},
	}

	normalized := o.normalizeStep(normalizer, bag, &result)
	o.extractStep(normalized, &result)
	o.matchStep(refs, &result)
	o.criticalChecks(&result)
	result.Metrics = buildMetrics(&result)
	result.Ready = isReady(&result)

	return result
}

func (o *Orchestrator) normalizeStep(n normalize.Normalizer, bag model.FieldBag, result *model.MappingResult) (out model.FieldBag) {
	defer func() {
		if r := recover(); r != nil {
			result.Issues = append(result.Issues, validationIssue("bag", fmt.Sprintf("normalization failed: %v", r)))
			out = bag
		}
	}()
	if bag == nil {
		result.Issues = append(result.Issues, validationIssue("bag", "nil field bag"))
		return model.FieldBag{}
	}
	return n.Normalize(bag)
}

func (o *Orchestrator) extractStep(bag model.FieldBag, result *model.MappingResult) {
	defer func() {
		if r := recover(); r != nil {
			result.Issues = append(result.Issues, validationIssue("bag", fmt.Sprintf("extraction failed: %v", r)))
		}
	}()
	result.Data = o.extractor.Extract(bag)
}

// matchStep resolves every coded field against its reference list. Matches
// below full confidence are recorded as suggestions; matches below the
// low-confidence cutoff additionally raise an issue.
func (o *Orchestrator) matchStep(refs ReferenceData, result *model.MappingResult) {
	for _, field := range codedFields {
		o.matchField(field, refs, result)
	}
}

func (o *Orchestrator) matchField(field codedField, refs ReferenceData, result *model.MappingResult) {
	defer func() {
		if r := recover(); r != nil {
			result.Issues = append(result.Issues, validationIssue(field.name, fmt.Sprintf("matching failed: %v", r)))
		}
	}()

	scanned := field.value(&result.Data)
	opts := refmatch.Options{Strategy: field.strategy, Threshold: o.thresholds.MasterData}
	if field.strategy == refmatch.EditDistance {
		opts.Threshold = o.thresholds.Names
	}

	match := refmatch.Match(scanned, refs.List(field.listType), refs.RuleTable(field.listType), opts)
	result.Matches[field.name] = match

	if match.Confidence < 1.0 {
		result.Suggestions = append(result.Suggestions, model.MappingSuggestion{
			FieldName:      field.name,
			ScannedValue:   scanned,
			SuggestedID:    match.Item.ID,
			SuggestedLabel: match.Item.Name,
			Confidence:     match.Confidence,
			Source:         match.Source,
		})
	}
	if match.Confidence < o.thresholds.LowConfidence {
		result.Issues = append(result.Issues, model.MappingIssue{
			FieldName:   field.name,
			Type:        model.IssueLowConfidence,
			Severity:    model.SeverityWarning,
			Description: fmt.Sprintf("%q matched %q with confidence %.2f", scanned, match.Item.Name, match.Confidence),
		})
	}
}

// criticalChecks flags the fields a policy cannot be submitted without.
func (o *Orchestrator) criticalChecks(result *model.MappingResult) {
	d := &result.Data
	if d.PolicyNumber == "" {
		result.Issues = append(result.Issues, missingIssue("policy_number", "no policy number could be extracted"))
	}
	if d.StartDate == "" {
		result.Issues = append(result.Issues, missingIssue("start_date", "no start date could be extracted"))
	}
	if d.EndDate == "" {
		result.Issues = append(result.Issues, missingIssue("end_date", "no end date could be extracted"))
	}
	if d.Vehicle.Plate == "" && d.Vehicle.Chassis == "" && d.Vehicle.Motor == "" {
		result.Issues = append(result.Issues, missingIssue("vehicle", "no vehicle identity (plate, chassis or motor) could be extracted"))
	}
	if d.Premium == 0 && d.Total == 0 {
		result.Issues = append(result.Issues, missingIssue("premium", "no premium amount could be extracted"))
	}
}

// isReady applies the submission rule: no missing criticals, a plausible
// policy number and a complete date range.
func isReady(result *model.MappingResult) bool {
	for _, issue := range result.Issues {
		if issue.Type == model.IssueMissingCritical {
			return false
		}
	}
	d := &result.Data
	return len(d.PolicyNumber) >= 7 && d.StartDate != "" && d.EndDate != ""
}

func missingIssue(field, description string) model.MappingIssue {
	return model.MappingIssue{
		FieldName:   field,
		Type:        model.IssueMissingCritical,
		Severity:    model.SeverityError,
		Description: description,
	}
}

func validationIssue(field, description string) model.MappingIssue {
	return model.MappingIssue{
		FieldName:   field,
		Type:        model.IssueValidationError,
		Severity:    model.SeverityError,
		Description: description,
	}
}
