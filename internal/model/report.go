package model

// IssueType classifies a mapping issue.
type IssueType string

const (
	IssueMissingCritical IssueType = "missing_critical"
	IssueLowConfidence   IssueType = "low_confidence"
	IssueValidationError IssueType = "validation_error"
)

// Severity grades a mapping issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// MappingSuggestion is a reference match that needs human confirmation:
// every match below confidence 1.0 produces one.
type MappingSuggestion struct {
	FieldName      string      `json:"field_name"`
	ScannedValue   string      `json:"scanned_value"`
	SuggestedID    string      `json:"suggested_id"`
	SuggestedLabel string      `json:"suggested_label"`
	Confidence     float64     `json:"confidence"`
	Source         MatchSource `json:"source"`
}

// MappingIssue flags a problem found while mapping a document. FieldName
// always names the canonical field the issue refers to.
type MappingIssue struct {
	FieldName   string    `json:"field_name"`
	Type        IssueType `json:"type"`
	Severity    Severity  `json:"severity"`
	Description string    `json:"description"`
}

// ConfidenceHistogram buckets match confidences. Bucket bounds follow the
// review UI's grading: Exact 90–100, High 75–89, Medium 50–74, Low 25–49,
// VeryLow 0–24 (percent).
type ConfidenceHistogram struct {
	Exact   int `json:"exact"`
	High    int `json:"high"`
	Medium  int `json:"medium"`
	Low     int `json:"low"`
	VeryLow int `json:"very_low"`
}

// Add buckets one confidence value in [0,1].
func (h *ConfidenceHistogram) Add(confidence float64) {
	pct := confidence * 100
	switch {
	case pct >= 90:
		h.Exact++
	case pct >= 75:
		h.High++
	case pct >= 50:
		h.Medium++
	case pct >= 25:
		h.Low++
	default:
		h.VeryLow++
	}
}

// CategoryCompletion is the populated-field percentage for one field
// category.
type CategoryCompletion struct {
	Category string  `json:"category"`
	Total    int     `json:"total"`
	Mapped   int     `json:"mapped"`
	Percent  float64 `json:"percent"`
}

// MappingMetrics summarizes how much of a document the pipeline resolved.
type MappingMetrics struct {
	FieldsScanned     int                  `json:"fields_scanned"`
	FieldsMapped      int                  `json:"fields_mapped"`
	FieldsMissing     int                  `json:"fields_missing"`
	Categories        []CategoryCompletion `json:"categories"`
	Histogram         ConfidenceHistogram  `json:"histogram"`
	OverallCompletion float64              `json:"overall_completion"` // percent
}

// MappingResult is the orchestrator's complete output for one document.
// It is a plain record, safe to serialize across a process boundary.
type MappingResult struct {
	Provider    string                 `json:"provider"`
	Data        PolicyData             `json:"data"`
	Matches     map[string]MatchResult `json:"matches"`
	Suggestions []MappingSuggestion    `json:"suggestions"`
	Issues      []MappingIssue         `json:"issues"`
	Metrics     MappingMetrics         `json:"metrics"`
	Ready       bool                   `json:"ready"`
}
