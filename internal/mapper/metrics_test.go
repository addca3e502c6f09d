package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corredora-austral/policy-cli/internal/model"
)

func TestBuildMetrics_EmptyDocument(t *testing.T) {
	result := model.MappingResult{
		Data:    model.NewPolicyData(),
		Matches: map[string]model.MatchResult{},
	}

	m := buildMetrics(&result)

	// Only the defaulted fields count as mapped: movement type and the
	// single-installment default.
	assert.Equal(t, len(metricFields), m.FieldsScanned)
	assert.Equal(t, 2, m.FieldsMapped)
	assert.Equal(t, len(metricFields)-2, m.FieldsMissing)
	assert.InDelta(t, 6.9, m.OverallCompletion, 0.001)
}

func TestBuildMetrics_CategoryOrder(t *testing.T) {
	result := model.MappingResult{
		Data:    model.NewPolicyData(),
		Matches: map[string]model.MatchResult{},
	}

	m := buildMetrics(&result)

	require.Len(t, m.Categories, len(categoryOrder))
	for i, c := range categoryOrder {
		assert.Equal(t, c, m.Categories[i].Category)
	}
}

func TestBuildMetrics_CategoryPercent(t *testing.T) {
	result := model.MappingResult{
		Data:    model.NewPolicyData(),
		Matches: map[string]model.MatchResult{},
	}
	result.Data.PolicyNumber = "9071222"
	result.Data.StartDate = "2024-03-01"
	result.Data.EndDate = "2025-03-01"

	m := buildMetrics(&result)

	var policy model.CategoryCompletion
	for _, c := range m.Categories {
		if c.Category == "policy" {
			policy = c
		}
	}
	assert.Equal(t, 4, policy.Total)
	assert.Equal(t, 4, policy.Mapped) // movement type defaults to EMISION
	assert.InDelta(t, 100.0, policy.Percent, 0.001)
}

func TestBuildMetrics_Histogram(t *testing.T) {
	result := model.MappingResult{
		Data: model.NewPolicyData(),
		Matches: map[string]model.MatchResult{
			"fuel":        {Confidence: 1.0},
			"destination": {Confidence: 0.85},
			"department":  {Confidence: 0.6},
			"category":    {Confidence: 0.3},
			"quality":     {Confidence: 0.1},
			// tariff, broker, currency absent: zero confidence.
		},
	}

	m := buildMetrics(&result)

	assert.Equal(t, 1, m.Histogram.Exact)
	assert.Equal(t, 1, m.Histogram.High)
	assert.Equal(t, 1, m.Histogram.Medium)
	assert.Equal(t, 1, m.Histogram.Low)
	assert.Equal(t, 4, m.Histogram.VeryLow)
}

func TestBuildMetrics_MatchedMasterData(t *testing.T) {
	result := model.MappingResult{
		Data: model.NewPolicyData(),
		Matches: map[string]model.MatchResult{
			"fuel":       {Item: model.ReferenceItem{ID: "1"}, Confidence: 1.0},
			"department": {Item: model.ReferenceItem{ID: "11"}, Confidence: 0.85},
		},
	}

	m := buildMetrics(&result)

	var master model.CategoryCompletion
	for _, c := range m.Categories {
		if c.Category == "master_data" {
			master = c
		}
	}
	assert.Equal(t, 8, master.Total)
	assert.Equal(t, 2, master.Mapped)
	assert.InDelta(t, 25.0, master.Percent, 0.001)
}

func TestRound2(t *testing.T) {
	assert.InDelta(t, 33.33, round2(100.0/3), 0.0001)
	assert.InDelta(t, 66.67, round2(200.0/3), 0.0001)
	assert.InDelta(t, 100.0, round2(100), 0.0001)
}
