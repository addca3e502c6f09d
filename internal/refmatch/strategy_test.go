package refmatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWordOverlap(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected float64
	}{
		{"identical", "NAFTA SUPER", "NAFTA SUPER", 1.0},
		{"partial", "SUPER NAFTA 95", "NAFTA", 0.5},
		{"disjoint", "DIESEL", "NAFTA", 0.0},
		{"substring words", "VEHICULOS PASEO", "VEHICULO PASEO PARTICULAR", 2.0 / 3.0},
		{"empty side", "", "NAFTA", 0.0},
		{"short words ignored", "DE LA 95", "NAFTA", 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, WordOverlap.Score(tt.a, tt.b), 0.001)
		})
	}
}

func TestEditSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected float64
	}{
		{"identical", "MONTEVIDEO", "MONTEVIDEO", 1.0},
		{"one slip", "MALDONADO", "MALDONADA", 1.0 - 1.0/9.0},
		{"empty", "", "MONTEVIDEO", 0.0},
		{"disjoint", "AB", "XY", 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, EditDistance.Score(tt.a, tt.b), 0.001)
		})
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"", "abc", 3},
		{"same", "same", 0},
		{"canelones", "colonia", 5},
	}
	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.expected, levenshtein([]rune(tt.a), []rune(tt.b)))
		})
	}
}

func TestScore_Bounds(t *testing.T) {
	for _, s := range []Strategy{WordOverlap, EditDistance} {
		for _, pair := range [][2]string{
			{"SUPER NAFTA 95", "NAFTA"},
			{"X", "MONTEVIDEO DEPARTAMENTO CAPITAL"},
			{"", ""},
		} {
			score := s.Score(pair[0], pair[1])
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 1.0)
		}
	}
}
