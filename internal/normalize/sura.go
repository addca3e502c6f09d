package normalize

import "github.com/corredora-austral/policy-cli/internal/model"

// SURANormalizer handles SURA documents. SURA emits the payment schedule as
// an indexed table ("pago.vencimiento_cuota[1]".."pago.prima_cuota[N]")
// which is collapsed into the canonical installment keys.
type SURANormalizer struct{}

func (SURANormalizer) Provider() string { return "sura" }

var suraRenames = []rename{
	{"seguro.numero_poliza", model.KeyPolicyNumber},
	{"seguro.endoso", model.KeyEndorsement},
	{"seguro.inicio_vigencia", model.KeyStartDate},
	{"seguro.fin_vigencia", model.KeyEndDate},
	{"seguro.movimiento", model.KeyMovementType},
	{"plan.descripcion", model.KeyModality},
	{"plan.tarifa", model.KeyTariff},
	{"pago.medio_pago", model.KeyPaymentMethod},
	{"pago.moneda", model.KeyCurrency},
	{"riesgo.marca", model.KeyVehicleBrand},
	{"riesgo.modelo", model.KeyVehicleModel},
	{"riesgo.anio", model.KeyVehicleYear},
	{"riesgo.motor", model.KeyVehicleMotor},
	{"riesgo.chasis", model.KeyVehicleChassis},
	{"riesgo.matricula", model.KeyVehiclePlate},
	{"riesgo.combustible", model.KeyVehicleFuel},
	{"riesgo.destino", model.KeyVehicleDest},
	{"riesgo.categoria", model.KeyVehicleCategory},
	{"contratante.nombre", model.KeyClientName},
	{"contratante.documento", model.KeyClientDocument},
	{"contratante.departamento", model.KeyClientDepartment},
	{"contratante.calidad", model.KeyQuality},
	{"intermediario.nombre", model.KeyBroker},
}

func (SURANormalizer) Normalize(bag model.FieldBag) model.FieldBag {
	out := bag.Clone()
	foldRenames(out, defaultRenames)
	foldRenames(out, suraRenames)
	collapseInstallments(out, "pago.vencimiento_cuota[%d]", "pago.prima_cuota[%d]")
	classifyModality(out)
	return out
}
