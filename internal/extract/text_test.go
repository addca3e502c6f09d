package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/corredora-austral/policy-cli/internal/model"
)

func TestStripLabels(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"policy label", "Póliza: 9071222", "9071222"},
		{"brand label", "Marca TOYOTA", "TOYOTA"},
		{"brand label colon", "marca: FIAT", "FIAT"},
		{"newline between label and value", "Motor:\nGDJ8804", "GDJ8804"},
		{"no label", "TOYOTA", "TOYOTA"},
		{"label is whole value", "Marca", ""},
		{"label-like word kept", "MARCADOR", "MARCADOR"},
		{"whitespace collapsed", "  CLIENTE:   Juan   Pérez ", "Juan Pérez"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripLabels(tt.input))
		})
	}
}

func TestCleanPolicyNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"embedded", "Póliza: 9071222", "9071222"},
		{"nine digits", "123456789", "123456789"},
		{"too short ignored", "123456", ""},
		{"first run wins", "9071222 y 8123456", "9071222"},
		{"ten digits takes prefix", "1234567890", "123456789"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanPolicyNumber(tt.input))
		})
	}
}

func TestCleanNumber(t *testing.T) {
	assert.Equal(t, "0", CleanNumber("Endoso 0"))
	assert.Equal(t, "12", CleanNumber("nro 12"))
	assert.Equal(t, "", CleanNumber("sin numero"))
}

func TestClassifyMovement(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty defaults to emission", "", model.MovementEmission},
		{"renewal", "Renovación", model.MovementRenewal},
		{"renewal noise", "RENOVACION AUTOMATICA", model.MovementRenewal},
		{"endorsement", "endoso de cambio", model.MovementEndorsement},
		{"cancellation", "ANULACIÓN", model.MovementCancel},
		{"emission", "Emisión nueva", model.MovementEmission},
		{"alta", "ALTA", model.MovementEmission},
		{"unrecognized passthrough", "prórroga", "PRORROGA"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyMovement(tt.input))
		})
	}
}
