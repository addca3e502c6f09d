package model

import "strconv"

// Canonical bag keys. Provider normalizers fold their own key space into
// these; the extractor only ever reads canonical keys plus its alias lists.
const (
	KeyPolicyNumber      = "poliza.numero"
	KeyEndorsement       = "poliza.endoso"
	KeyStartDate         = "poliza.vigencia.desde"
	KeyEndDate           = "poliza.vigencia.hasta"
	KeyMovementType      = "poliza.tipo_movimiento"
	KeyPremium           = "financiero.premio"
	KeyTotal             = "financiero.premio_total"
	KeyCurrency          = "financiero.moneda"
	KeyPaymentMethod     = "pago.medio"
	KeyInstallments      = "pago.cuotas"
	KeyVehicleBrand      = "vehiculo.marca"
	KeyVehicleModel      = "vehiculo.modelo"
	KeyVehicleYear       = "vehiculo.anio"
	KeyVehicleMotor      = "vehiculo.motor"
	KeyVehicleChassis    = "vehiculo.chasis"
	KeyVehiclePlate      = "vehiculo.matricula"
	KeyVehicleFuel       = "vehiculo.combustible"
	KeyVehicleDest       = "vehiculo.destino"
	KeyVehicleCategory   = "vehiculo.categoria"
	KeyClientName        = "cliente.nombre"
	KeyClientDocument    = "cliente.documento"
	KeyClientDepartment  = "cliente.departamento"
	KeyQuality           = "poliza.calidad"
	KeyTariff            = "poliza.tarifa"
	KeyBroker            = "poliza.corredor"
	KeyModality          = "poliza.modalidad"
)

// InstallmentKey returns the canonical bag key for the i-th (0-indexed)
// installment attribute, e.g. InstallmentKey(0, "vencimiento").
func InstallmentKey(i int, attr string) string {
	return "pago.cuota[" + strconv.Itoa(i) + "]." + attr
}

// Movement types recognized by the extractor.
const (
	MovementEmission    = "EMISION"
	MovementRenewal     = "RENOVACION"
	MovementEndorsement = "ENDOSO"
	MovementCancel      = "ANULACION"
)

// VehicleData holds the insured vehicle's attributes. Text fields are
// cleaned free text; matching them against reference lists is the
// orchestrator's job.
type VehicleData struct {
	Brand           string `json:"brand"`
	Model           string `json:"model"`
	Year            int    `json:"year"`
	Motor           string `json:"motor"`
	Chassis         string `json:"chassis"`
	Plate           string `json:"plate"`
	FuelText        string `json:"fuel_text"`
	DestinationText string `json:"destination_text"`
	CategoryText    string `json:"category_text"`
}

// ClientData holds the policy holder's attributes.
type ClientData struct {
	Name           string `json:"name"`
	Document       string `json:"document"`
	DepartmentText string `json:"department_text"`
}

// PolicyData is the canonical, fully-populated policy record produced by
// extraction. Fields are never absent: missing data is represented by the
// type's empty value ("" / 0) and reported through the issue list, not
// through nulls.
type PolicyData struct {
	PolicyNumber      string  `json:"policy_number"`
	EndorsementNumber string  `json:"endorsement_number"`
	StartDate         string  `json:"start_date"` // ISO yyyy-MM-dd or ""
	EndDate           string  `json:"end_date"`   // ISO yyyy-MM-dd or ""
	Premium           float64 `json:"premium"`
	Total             float64 `json:"total"`
	InstallmentCount  int     `json:"installment_count"` // defaults to 1
	MovementType      string  `json:"movement_type"`     // defaults to EMISION
	PaymentMethod     string  `json:"payment_method"`
	Modality          string  `json:"modality"`

	Vehicle VehicleData `json:"vehicle"`
	Client  ClientData  `json:"client"`

	// Free text for the remaining reference-coded fields.
	QualityText  string `json:"quality_text"`
	TariffText   string `json:"tariff_text"`
	BrokerText   string `json:"broker_text"`
	CurrencyText string `json:"currency_text"`
}

// NewPolicyData returns a record with type-appropriate defaults applied.
func NewPolicyData() PolicyData {
	return PolicyData{
		InstallmentCount: 1,
		MovementType:     MovementEmission,
	}
}
