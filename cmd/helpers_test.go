package main

import (
	"bytes"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corredora-austral/policy-cli/internal/store"
)

func TestProviderFromName(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"bse-9071222.json", "bse"},
		{"SURA-123.json", "sura"},
		{"mapfre_77.json", "mapfre"},
		{"unknown-provider.json", ""},
		{"poliza.json", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, providerFromName(tt.name))
		})
	}
}

func TestReadBag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bag.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"poliza.numero": "Póliza: 9071222"}`), 0644))

	bag, err := readBag(path)
	require.NoError(t, err)
	assert.Equal(t, "Póliza: 9071222", bag["poliza.numero"])
}

func TestReadBag_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bag.json")
	require.NoError(t, os.WriteFile(path, []byte(`not json`), 0644))

	_, err := readBag(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse bag")
}

func TestReadBag_Missing(t *testing.T) {
	_, err := readBag(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestRunFilterFromQuery(t *testing.T) {
	req := httptest.NewRequest("GET", "/v1/runs?provider=bse&ready=true&limit=5", nil)
	filter := runFilterFromQuery(req)

	assert.Equal(t, "bse", filter.Provider)
	assert.True(t, filter.ReadyOnly)
	assert.Equal(t, 5, filter.Limit)
}

func TestRunFilterFromQuery_Defaults(t *testing.T) {
	req := httptest.NewRequest("GET", "/v1/runs", nil)
	filter := runFilterFromQuery(req)

	assert.Empty(t, filter.Provider)
	assert.False(t, filter.ReadyOnly)
	assert.Zero(t, filter.Limit)
}

func TestFormatRunsList(t *testing.T) {
	var buf bytes.Buffer
	formatRunsList(&buf, []store.RunRecord{
		{ID: "run-1", Document: "a.pdf", Provider: "bse", Ready: true, Completion: 87.5, Issues: 1, CreatedAt: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)},
	})

	out := buf.String()
	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "bse")
	assert.Contains(t, out, "87.5%")
	assert.Contains(t, out, "2026-08-01")
}
