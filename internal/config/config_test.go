package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewProducesValidDefaults(t *testing.T) {
	c := New()
	require.NoError(t, c.Validate())
	require.Equal(t, 0, c.BarrierModeInt())
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pycc.yaml")
	c := New()
	c.GC.BarrierMode = "satb"
	c.GC.ThresholdBytes = 2048

	require.NoError(t, c.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "satb", loaded.GC.BarrierMode)
	require.Equal(t, uint64(2048), loaded.GC.ThresholdBytes)
	require.Equal(t, 1, loaded.BarrierModeInt())
}

func TestValidateRejectsUnknownBarrierMode(t *testing.T) {
	c := New()
	c.GC.BarrierMode = "stop-the-world"
	require.Error(t, c.Validate())
}

func TestValidateRejectsMismatchedSchema(t *testing.T) {
	c := New()
	c.Schema = "pycc.config/v2"
	require.Error(t, c.Validate())
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
