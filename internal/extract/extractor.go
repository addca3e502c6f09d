// Package extract resolves canonical policy fields from a raw OCR field
// bag. Resolution is alias-cascade first, regex recovery second, with
// per-type cleanup; it never fails and always returns a fully populated
// record.
package extract

import (
	"github.com/corredora-austral/policy-cli/internal/model"
	"github.com/corredora-austral/policy-cli/internal/textutil"
)

// fieldAliases lists, per canonical field, the bag keys tried in order.
// The canonical key always comes first so a normalized bag resolves without
// touching the alias tail.
var fieldAliases = map[string][]string{
	model.KeyPolicyNumber: {model.KeyPolicyNumber, "poliza.nro", "poliza.numero_poliza", "nro_poliza", "numero_poliza", "policy_number"},
	model.KeyEndorsement:  {model.KeyEndorsement, "poliza.nro_endoso", "endoso", "nro_endoso"},
	model.KeyStartDate:    {model.KeyStartDate, "poliza.desde", "vigencia.desde", "fecha_desde", "inicio_vigencia"},
	model.KeyEndDate:      {model.KeyEndDate, "poliza.hasta", "vigencia.hasta", "fecha_hasta", "fin_vigencia"},
	model.KeyMovementType: {model.KeyMovementType, "poliza.movimiento", "tipo_movimiento", "movimiento"},
	model.KeyPremium:      {model.KeyPremium, "financiero.prima", "prima", "premio"},
	model.KeyTotal:        {model.KeyTotal, "financiero.total", "premio_total", "total_a_pagar", "importe_total"},
	model.KeyCurrency:     {model.KeyCurrency, "moneda", "financiero.divisa"},
	model.KeyPaymentMethod: {model.KeyPaymentMethod, "pago.forma", "forma_pago", "medio_pago"},
	model.KeyInstallments:  {model.KeyInstallments, "pago.cantidad_cuotas", "cuotas", "cantidad_cuotas"},
	model.KeyVehicleBrand:  {model.KeyVehicleBrand, "vehiculo.fabricante", "marca"},
	model.KeyVehicleModel:  {model.KeyVehicleModel, "modelo"},
	model.KeyVehicleYear:   {model.KeyVehicleYear, "vehiculo.ano", "vehiculo.modelo_anio", "anio", "ano"},
	model.KeyVehicleMotor:  {model.KeyVehicleMotor, "motor", "nro_motor"},
	model.KeyVehicleChassis: {model.KeyVehicleChassis, "chasis", "nro_chasis", "vehiculo.bastidor"},
	model.KeyVehiclePlate:   {model.KeyVehiclePlate, "matricula", "vehiculo.padron", "padron", "patente"},
	model.KeyVehicleFuel:    {model.KeyVehicleFuel, "combustible", "vehiculo.tipo_combustible"},
	model.KeyVehicleDest:    {model.KeyVehicleDest, "destino", "vehiculo.uso", "uso"},
	model.KeyVehicleCategory: {model.KeyVehicleCategory, "categoria", "vehiculo.tipo"},
	model.KeyClientName:      {model.KeyClientName, "cliente.razon_social", "asegurado", "tomador", "nombre_cliente"},
	model.KeyClientDocument:  {model.KeyClientDocument, "cliente.ci", "cliente.rut", "documento"},
	model.KeyClientDepartment: {model.KeyClientDepartment, "cliente.depto", "departamento", "depto"},
	model.KeyQuality:          {model.KeyQuality, "calidad", "calidad_contratante"},
	model.KeyTariff:           {model.KeyTariff, "tarifa", "poliza.plan"},
	model.KeyBroker:           {model.KeyBroker, "corredor", "productor", "agente"},
	model.KeyModality:         {model.KeyModality, "modalidad", "cobertura", "plan_cobertura"},
}

// Extractor builds a canonical PolicyData from a field bag. The zero value
// is ready to use.
type Extractor struct{}

// New returns an Extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract resolves every canonical field. It never returns an error: fields
// that cannot be resolved keep their type default and the orchestrator
// reports them as gaps.
func (e *Extractor) Extract(bag model.FieldBag) model.PolicyData {
	data := model.NewPolicyData()

	data.PolicyNumber = e.policyNumber(bag)
	data.EndorsementNumber = CleanNumber(e.lookup(bag, model.KeyEndorsement))
	data.StartDate, data.EndDate = e.dateRange(bag)
	data.Premium = ParseAmount(e.lookup(bag, model.KeyPremium))
	data.Total = e.total(bag)
	data.InstallmentCount = ParseInstallments(e.lookup(bag, model.KeyInstallments))
	data.MovementType = ClassifyMovement(e.lookup(bag, model.KeyMovementType))
	data.PaymentMethod = textutil.Canon(StripLabels(e.lookup(bag, model.KeyPaymentMethod)))
	data.Modality = textutil.Canon(StripLabels(e.lookup(bag, model.KeyModality)))

	data.Vehicle = model.VehicleData{
		Brand:           textutil.Canon(StripLabels(e.lookup(bag, model.KeyVehicleBrand))),
		Model:           textutil.Canon(StripLabels(e.lookup(bag, model.KeyVehicleModel))),
		Year:            ParseYear(e.lookup(bag, model.KeyVehicleYear)),
		Motor:           textutil.Identifier(StripLabels(e.lookup(bag, model.KeyVehicleMotor))),
		Chassis:         textutil.Identifier(StripLabels(e.lookup(bag, model.KeyVehicleChassis))),
		Plate:           textutil.Identifier(StripLabels(e.lookup(bag, model.KeyVehiclePlate))),
		FuelText:        textutil.Canon(StripLabels(e.lookup(bag, model.KeyVehicleFuel))),
		DestinationText: textutil.Canon(StripLabels(e.lookup(bag, model.KeyVehicleDest))),
		CategoryText:    textutil.Canon(StripLabels(e.lookup(bag, model.KeyVehicleCategory))),
	}

	data.Client = model.ClientData{
		Name:           textutil.Title(StripLabels(e.lookup(bag, model.KeyClientName))),
		Document:       textutil.Identifier(e.lookup(bag, model.KeyClientDocument)),
		DepartmentText: textutil.Canon(StripLabels(e.lookup(bag, model.KeyClientDepartment))),
	}

	data.QualityText = textutil.Canon(StripLabels(e.lookup(bag, model.KeyQuality)))
	data.TariffText = textutil.Canon(StripLabels(e.lookup(bag, model.KeyTariff)))
	data.BrokerText = textutil.Title(StripLabels(e.lookup(bag, model.KeyBroker)))
	data.CurrencyText = textutil.Canon(StripLabels(e.lookup(bag, model.KeyCurrency)))

	return data
}

// lookup walks the field's alias list and returns the first non-empty value.
func (e *Extractor) lookup(bag model.FieldBag, field string) string {
	for _, alias := range fieldAliases[field] {
		if v := bag.Get(alias); v != "" {
			return v
		}
	}
	return ""
}

// policyNumber resolves via aliases, then falls back to scanning every bag
// value for a 7–9 digit run.
func (e *Extractor) policyNumber(bag model.FieldBag) string {
	if v := CleanPolicyNumber(e.lookup(bag, model.KeyPolicyNumber)); v != "" {
		return v
	}
	for _, key := range bag.Keys() {
		if v := digitsRe.FindString(bag[key]); v != "" {
			return v
		}
	}
	return ""
}

// dateRange resolves start and end dates via aliases, recovering missing
// ones from a whole-bag date scan (first hit → start, next distinct hit →
// end).
func (e *Extractor) dateRange(bag model.FieldBag) (start, end string) {
	start = ParseDate(e.lookup(bag, model.KeyStartDate))
	end = ParseDate(e.lookup(bag, model.KeyEndDate))
	if start != "" && end != "" {
		return start, end
	}

	for _, key := range bag.Keys() {
		for _, iso := range FindDates(bag[key]) {
			switch {
			case start == "":
				start = iso
			case end == "" && iso != start:
				end = iso
			}
			if start != "" && end != "" {
				return start, end
			}
		}
	}
	return start, end
}

// total resolves the total amount via aliases, then scans the bag for a
// currency-looking token ("$ 63.812,36") as a last resort. Bare digit runs
// are not considered; they are indistinguishable from policy numbers.
func (e *Extractor) total(bag model.FieldBag) float64 {
	if v := ParseAmount(e.lookup(bag, model.KeyTotal)); v != 0 {
		return v
	}
	for _, key := range bag.Keys() {
		if m := currencyRe.FindString(bag[key]); m != "" {
			if v := ParseAmount(m); v != 0 {
				return v
			}
		}
	}
	return 0
}
