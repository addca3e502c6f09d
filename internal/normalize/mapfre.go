package normalize

import "github.com/corredora-austral/policy-cli/internal/model"

// MapfreNormalizer handles MAPFRE documents: their templates print field
// labels in block capitals that the OCR engine merges into the value
// ("MOTOR ABC123"), and the key space is prefixed "datos_poliza".
type MapfreNormalizer struct{}

func (MapfreNormalizer) Provider() string { return "mapfre" }

var mapfreRenames = []rename{
	{"datos_poliza.numero", model.KeyPolicyNumber},
	{"datos_poliza.suplemento", model.KeyEndorsement},
	{"datos_poliza.efecto", model.KeyStartDate},
	{"datos_poliza.vencimiento", model.KeyEndDate},
	{"datos_poliza.movimiento", model.KeyMovementType},
	{"datos_poliza.modalidad", model.KeyModality},
	{"recibo.prima_neta", model.KeyPremium},
	{"recibo.prima_total", model.KeyTotal},
	{"recibo.moneda", model.KeyCurrency},
	{"recibo.forma_pago", model.KeyPaymentMethod},
	{"recibo.fraccionamiento", model.KeyInstallments},
	{"objeto.marca", model.KeyVehicleBrand},
	{"objeto.modelo", model.KeyVehicleModel},
	{"objeto.anio", model.KeyVehicleYear},
	{"objeto.motor", model.KeyVehicleMotor},
	{"objeto.bastidor", model.KeyVehicleChassis},
	{"objeto.matricula", model.KeyVehiclePlate},
	{"objeto.combustible", model.KeyVehicleFuel},
	{"objeto.uso", model.KeyVehicleDest},
	{"objeto.categoria", model.KeyVehicleCategory},
	{"tomador.nombre", model.KeyClientName},
	{"tomador.documento", model.KeyClientDocument},
	{"tomador.departamento", model.KeyClientDepartment},
	{"mediador.nombre", model.KeyBroker},
}

var mapfrePrefixes = map[string][]string{
	model.KeyVehicleBrand:   {"MARCA"},
	model.KeyVehicleModel:   {"MODELO"},
	model.KeyVehicleMotor:   {"MOTOR"},
	model.KeyVehicleChassis: {"BASTIDOR", "CHASIS"},
	model.KeyVehiclePlate:   {"MATRICULA"},
	model.KeyClientName:     {"TOMADOR", "ASEGURADO"},
}

func (MapfreNormalizer) Normalize(bag model.FieldBag) model.FieldBag {
	out := bag.Clone()
	foldRenames(out, defaultRenames)
	foldRenames(out, mapfreRenames)
	stripValuePrefixes(out, mapfrePrefixes)
	classifyModality(out)
	return out
}
