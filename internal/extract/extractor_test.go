package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corredora-austral/policy-cli/internal/model"
)

func TestExtract_FullBag(t *testing.T) {
	bag := model.FieldBag{
		model.KeyPolicyNumber:  "Póliza: 9071222",
		model.KeyStartDate:     "01/03/2024",
		model.KeyEndDate:       "01/03/2025",
		model.KeyPremium:       "$ 55.000,00",
		model.KeyTotal:         "$ 63.812,36",
		model.KeyInstallments:  "4 cuotas",
		model.KeyMovementType:  "Renovación",
		model.KeyVehicleBrand:  "Marca TOYOTA",
		model.KeyVehicleModel:  "HILUX SRV",
		model.KeyVehicleYear:   "2018",
		model.KeyVehiclePlate:  "abc 1234",
		model.KeyVehicleFuel:   "Súper Nafta",
		model.KeyClientName:    "JUAN PÉREZ",
		model.KeyClientDocument: "4.123.456-7",
	}

	data := New().Extract(bag)

	assert.Equal(t, "9071222", data.PolicyNumber)
	assert.Equal(t, "2024-03-01", data.StartDate)
	assert.Equal(t, "2025-03-01", data.EndDate)
	assert.InDelta(t, 55000.0, data.Premium, 0.001)
	assert.InDelta(t, 63812.36, data.Total, 0.001)
	assert.Equal(t, 4, data.InstallmentCount)
	assert.Equal(t, model.MovementRenewal, data.MovementType)
	assert.Equal(t, "TOYOTA", data.Vehicle.Brand)
	assert.Equal(t, "HILUX SRV", data.Vehicle.Model)
	assert.Equal(t, 2018, data.Vehicle.Year)
	assert.Equal(t, "ABC1234", data.Vehicle.Plate)
	assert.Equal(t, "SUPER NAFTA", data.Vehicle.FuelText)
	assert.Equal(t, "Juan Pérez", data.Client.Name)
	assert.Equal(t, "41234567", data.Client.Document)
}

func TestExtract_Defaults(t *testing.T) {
	data := New().Extract(model.FieldBag{})

	assert.Empty(t, data.PolicyNumber)
	assert.Equal(t, 1, data.InstallmentCount)
	assert.Equal(t, model.MovementEmission, data.MovementType)
	assert.Zero(t, data.Premium)
	assert.Zero(t, data.Total)
}

func TestExtract_AliasCascade(t *testing.T) {
	bag := model.FieldBag{
		"nro_poliza":   "8123456",
		"fecha_desde":  "15/06/2024",
		"fecha_hasta":  "15/06/2025",
		"premio_total": "10.500,00",
	}

	data := New().Extract(bag)

	assert.Equal(t, "8123456", data.PolicyNumber)
	assert.Equal(t, "2024-06-15", data.StartDate)
	assert.Equal(t, "2025-06-15", data.EndDate)
	assert.InDelta(t, 10500.0, data.Total, 0.001)
}

func TestExtract_PolicyNumberBagScan(t *testing.T) {
	// No alias resolves; the 7-digit run must be recovered from scanning
	// the whole bag in key order.
	bag := model.FieldBag{
		"texto.cabecera": "documento de seguro 9071222 emitido",
	}

	data := New().Extract(bag)
	assert.Equal(t, "9071222", data.PolicyNumber)
}

func TestExtract_DateRangeBagScan(t *testing.T) {
	bag := model.FieldBag{
		"vigencia.texto": "Vigencia desde 01/03/2024 hasta 01/03/2025",
	}

	data := New().Extract(bag)
	assert.Equal(t, "2024-03-01", data.StartDate)
	assert.Equal(t, "2025-03-01", data.EndDate)
}

func TestExtract_DateRangeScanSkipsDuplicate(t *testing.T) {
	bag := model.FieldBag{
		"a.fecha": "01/03/2024",
		"b.fecha": "01/03/2024",
		"c.fecha": "01/03/2025",
	}

	data := New().Extract(bag)
	assert.Equal(t, "2024-03-01", data.StartDate)
	assert.Equal(t, "2025-03-01", data.EndDate)
}

func TestExtract_TotalBagScan(t *testing.T) {
	bag := model.FieldBag{
		"recibo.detalle": "TOTAL A PAGAR $ 63.812,36",
	}

	data := New().Extract(bag)
	assert.InDelta(t, 63812.36, data.Total, 0.001)
}

func TestExtract_TotalScanIgnoresBareDigits(t *testing.T) {
	// A bare digit run must not be read as an amount; it could be the
	// policy number.
	bag := model.FieldBag{
		"poliza.numero": "9071222",
	}

	data := New().Extract(bag)
	assert.Zero(t, data.Total)
}

func TestExtract_Deterministic(t *testing.T) {
	bag := model.FieldBag{
		"z.fecha": "10/10/2024",
		"a.fecha": "01/01/2024",
	}

	first := New().Extract(bag)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, New().Extract(bag))
	}
	// Key order is sorted, so a.fecha supplies the start date.
	assert.Equal(t, "2024-01-01", first.StartDate)
}
