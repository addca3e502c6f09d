package normalize

import "github.com/corredora-austral/policy-cli/internal/model"

// BSENormalizer handles Banco de Seguros documents. BSE's OCR output keeps
// the printed label inside the value ("Póliza: 12345678", "Marca\nTOYOTA"),
// so the bulk of the work is prefix stripping.
type BSENormalizer struct{}

func (BSENormalizer) Provider() string { return "bse" }

var bseRenames = []rename{
	{"automotor.marca", model.KeyVehicleBrand},
	{"automotor.modelo", model.KeyVehicleModel},
	{"automotor.motor", model.KeyVehicleMotor},
	{"automotor.chasis", model.KeyVehicleChassis},
	{"automotor.matricula", model.KeyVehiclePlate},
	{"automotor.anio", model.KeyVehicleYear},
	{"seccion.calidad", model.KeyQuality},
	{"seccion.tarifa", model.KeyTariff},
	{"recibo.premio_total", model.KeyTotal},
	{"recibo.moneda", model.KeyCurrency},
}

var bsePrefixes = map[string][]string{
	model.KeyPolicyNumber:     {"Póliza Nro", "Póliza", "Nro. de Póliza"},
	model.KeyEndorsement:      {"Endoso Nro", "Endoso"},
	model.KeyVehicleBrand:     {"Marca"},
	model.KeyVehicleModel:     {"Modelo"},
	model.KeyVehicleMotor:     {"Motor Nro", "Motor"},
	model.KeyVehicleChassis:   {"Chasis Nro", "Chasis"},
	model.KeyVehiclePlate:     {"Matrícula", "Padrón"},
	model.KeyClientName:       {"Asegurado", "Tomador"},
	model.KeyClientDepartment: {"Depto", "Departamento"},
}

func (BSENormalizer) Normalize(bag model.FieldBag) model.FieldBag {
	out := bag.Clone()
	foldRenames(out, defaultRenames)
	foldRenames(out, bseRenames)
	stripValuePrefixes(out, bsePrefixes)
	classifyModality(out)
	return out
}
