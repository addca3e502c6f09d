package textutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Póliza", "Poliza"},
		{"Tarifa única", "Tarifa unica"},
		{"vehículo eléctrico", "vehiculo electrico"},
		{"plain ascii", "plain ascii"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Fold(tt.input))
		})
	}
}

func TestFold_Concurrent(t *testing.T) {
	// Fold and Title must be callable from concurrent mapping runs; the
	// underlying transformers carry buffers and are built per call.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				assert.Equal(t, "Poliza numero unica", Fold("Póliza número única"))
				assert.Equal(t, "SUPER NAFTA 95", Canon("  Súper Nafta\n95 "))
				assert.Equal(t, "Juan Pérez", Title("JUAN PÉREZ"))
			}
		}()
	}
	wg.Wait()
}

func TestCollapse(t *testing.T) {
	assert.Equal(t, "MARCA TOYOTA", Collapse("  MARCA \n\t TOYOTA  "))
	assert.Equal(t, "", Collapse("   \n  "))
}

func TestCanon(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"  Súper Nafta\n95 ", "SUPER NAFTA 95"},
		{"Montevideo", "MONTEVIDEO"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Canon(tt.input))
		})
	}
}

func TestIdentifier(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"abc 1234", "ABC1234"},
		{"8AJ-KA8CD.40254", "8AJKA8CD40254"},
		{" sbt 4581 ", "SBT4581"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Identifier(tt.input))
		})
	}
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Juan Pérez García", Title("JUAN PÉREZ GARCÍA"))
	assert.Equal(t, "María", Title("maría"))
}

func TestTrimPrefixFold(t *testing.T) {
	tests := []struct {
		name     string
		s        string
		prefix   string
		expected string
		ok       bool
	}{
		{"accented label", "Póliza: 9071222", "poliza", ": 9071222", true},
		{"case insensitive", "MARCA TOYOTA", "marca", " TOYOTA", true},
		{"exact match", "Marca", "marca", "", true},
		{"no match", "TOYOTA", "marca", "", false},
		{"prefix longer", "mar", "marca", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rest, ok := TrimPrefixFold(tt.s, tt.prefix)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, rest)
		})
	}
}

func TestWords(t *testing.T) {
	assert.Equal(t, []string{"SUPER", "NAFTA"}, Words("SUPER NAFTA 95", 2))
	assert.Nil(t, Words("DE LA", 2))
	assert.Nil(t, Words("", 2))
}
