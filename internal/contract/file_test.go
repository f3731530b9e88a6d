package contract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afshin-arj/shams-core/internal/faults"
)

func TestSaveLoadFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "contracts", "uq.yaml")

	s := &Spec{
		Name: "file_round_trip",
		Intervals: map[string]Interval{
			"confinement_mult": {Lo: 0.9, Hi: 1.1},
			"lambda_q_mult":    {Lo: 1.3, Hi: 0.7}, // swapped on purpose
		},
		PolicyOverrides: map[string]any{"tier": "hard"},
		Notes:           "saved and reloaded",
	}

	require.NoError(t, SaveFile(s, path))

	got, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "file_round_trip", got.Name)
	assert.Equal(t, Interval{Lo: 0.9, Hi: 1.1}, got.Intervals["confinement_mult"])
	assert.Equal(t, Interval{Lo: 0.7, Hi: 1.3}, got.Intervals["lambda_q_mult"], "bounds normalize on save")
	assert.Equal(t, map[string]any{"tier": "hard"}, got.PolicyOverrides)
	assert.Equal(t, "saved and reloaded", got.Notes)
}

func TestLoadFileRejectsUnknownSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	doc := "schema_version: something_else.v9\nname: bad\nintervals: {}\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.True(t, faults.IsSchemaError(err))
}

func TestLoadFileMissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadFileAcceptsJSON(t *testing.T) {
	// YAML is a JSON superset, so canonical-style documents load directly.
	path := filepath.Join(t.TempDir(), "uq.json")
	doc := `{"schema_version":"uncertainty_contract_spec.v1","name":"json_form","intervals":{"x":{"lo":0.5,"hi":1.5}}}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	got, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "json_form", got.Name)
	assert.Equal(t, Interval{Lo: 0.5, Hi: 1.5}, got.Intervals["x"])
}

func TestLoadFileDefaultsEmptyName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anon.yaml")
	doc := "schema_version: uncertainty_contract_spec.v1\nintervals:\n  x: {lo: 0.0, hi: 1.0}\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	got, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "contract", got.Name)
}
