package mapper

import (
	"math"

	"github.com/corredora-austral/policy-cli/internal/model"
)

// Field categories used for completion reporting. Order is fixed so the
// metrics serialize identically across runs.
const (
	categoryPolicy     = "policy"
	categoryVehicle    = "vehicle"
	categoryFinancial  = "financial"
	categoryClient     = "client"
	categoryMasterData = "master_data"
	categoryOptional   = "optional"
)

// metricField is one expected canonical field and its populated-check.
type metricField struct {
	name     string
	category string
	mapped   func(*model.MappingResult) bool
}

func nonEmpty(get func(*model.PolicyData) string) func(*model.MappingResult) bool {
	return func(r *model.MappingResult) bool { return get(&r.Data) != "" }
}

func matched(field string) func(*model.MappingResult) bool {
	return func(r *model.MappingResult) bool { return r.Matches[field].Confidence > 0 }
}

var metricFields = []metricField{
	{"policy_number", categoryPolicy, nonEmpty(func(d *model.PolicyData) string { return d.PolicyNumber })},
	{"start_date", categoryPolicy, nonEmpty(func(d *model.PolicyData) string { return d.StartDate })},
	{"end_date", categoryPolicy, nonEmpty(func(d *model.PolicyData) string { return d.EndDate })},
	{"movement_type", categoryPolicy, nonEmpty(func(d *model.PolicyData) string { return d.MovementType })},

	{"vehicle_brand", categoryVehicle, nonEmpty(func(d *model.PolicyData) string { return d.Vehicle.Brand })},
	{"vehicle_model", categoryVehicle, nonEmpty(func(d *model.PolicyData) string { return d.Vehicle.Model })},
	{"vehicle_year", categoryVehicle, func(r *model.MappingResult) bool { return r.Data.Vehicle.Year > 0 }},
	{"vehicle_motor", categoryVehicle, nonEmpty(func(d *model.PolicyData) string { return d.Vehicle.Motor })},
	{"vehicle_chassis", categoryVehicle, nonEmpty(func(d *model.PolicyData) string { return d.Vehicle.Chassis })},
	{"vehicle_plate", categoryVehicle, nonEmpty(func(d *model.PolicyData) string { return d.Vehicle.Plate })},

	{"premium", categoryFinancial, func(r *model.MappingResult) bool { return r.Data.Premium > 0 }},
	{"total", categoryFinancial, func(r *model.MappingResult) bool { return r.Data.Total > 0 }},
	{"installments", categoryFinancial, func(r *model.MappingResult) bool { return r.Data.InstallmentCount > 0 }},
	{"payment_method", categoryFinancial, nonEmpty(func(d *model.PolicyData) string { return d.PaymentMethod })},

	{"client_name", categoryClient, nonEmpty(func(d *model.PolicyData) string { return d.Client.Name })},
	{"client_document", categoryClient, nonEmpty(func(d *model.PolicyData) string { return d.Client.Document })},
	{"client_department", categoryClient, nonEmpty(func(d *model.PolicyData) string { return d.Client.DepartmentText })},

	{"fuel", categoryMasterData, matched("fuel")},
	{"destination", categoryMasterData, matched("destination")},
	{"department", categoryMasterData, matched("department")},
	{"category", categoryMasterData, matched("category")},
	{"quality", categoryMasterData, matched("quality")},
	{"tariff", categoryMasterData, matched("tariff")},
	{"broker", categoryMasterData, matched("broker")},
	{"currency", categoryMasterData, matched("currency")},

	{"endorsement_number", categoryOptional, nonEmpty(func(d *model.PolicyData) string { return d.EndorsementNumber })},
	{"modality", categoryOptional, nonEmpty(func(d *model.PolicyData) string { return d.Modality })},
	{"quality_text", categoryOptional, nonEmpty(func(d *model.PolicyData) string { return d.QualityText })},
	{"tariff_text", categoryOptional, nonEmpty(func(d *model.PolicyData) string { return d.TariffText })},
}

var categoryOrder = []string{
	categoryPolicy,
	categoryVehicle,
	categoryFinancial,
	categoryClient,
	categoryMasterData,
	categoryOptional,
}

// buildMetrics computes completion counts, per-category percentages and the
// confidence histogram. Percentages are rounded to two decimals so repeated
// runs serialize byte-identically.
func buildMetrics(result *model.MappingResult) model.MappingMetrics {
	m := model.MappingMetrics{}

	perCategory := make(map[string]*model.CategoryCompletion, len(categoryOrder))
	for _, c := range categoryOrder {
		perCategory[c] = &model.CategoryCompletion{Category: c}
	}

	for _, f := range metricFields {
		cc := perCategory[f.category]
		cc.Total++
		m.FieldsScanned++
		if f.mapped(result) {
			cc.Mapped++
			m.FieldsMapped++
		} else {
			m.FieldsMissing++
		}
	}

	for _, c := range categoryOrder {
		cc := perCategory[c]
		if cc.Total > 0 {
			cc.Percent = round2(float64(cc.Mapped) / float64(cc.Total) * 100)
		}
		m.Categories = append(m.Categories, *cc)
	}

	for _, field := range codedFields {
		m.Histogram.Add(result.Matches[field.name].Confidence)
	}

	if m.FieldsScanned > 0 {
		m.OverallCompletion = round2(float64(m.FieldsMapped) / float64(m.FieldsScanned) * 100)
	}
	return m
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
