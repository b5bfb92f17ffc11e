package storage

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/dynfric/internal/config"
	"github.com/san-kum/dynfric/internal/dynfric"
	"github.com/san-kum/dynfric/internal/sweep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *sweep.Result {
	return &sweep.Result{
		Rads:      []float64{3.0856775814913673e15, 3.0856775814913673e18},
		DadtTotal: []float64{-1.2345678901234567e-3, -4.5e-2},
		DadtGas:   []float64{0, -2.25e-2},
		TauTotal:  []float64{2.5e18, 6.9e19},
		TauGas:    []float64{math.Inf(1), 1.38e20},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir(), nil)
	require.NoError(t, st.Init())

	cfg := config.DefaultConfig()
	cfg.Mechanism.WhichBH = dynfric.ObjectMassPrimary

	runID, err := st.Save("reference", cfg, sampleResult())
	require.NoError(t, err)
	assert.NotEmpty(t, runID)

	meta, err := st.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, "reference", meta.Name)
	assert.Equal(t, 2, meta.Points)
	assert.Equal(t, dynfric.ObjectMassPrimary, meta.Config.Mechanism.WhichBH)
	assert.Equal(t, cfg.Binary, meta.Config.Binary)

	rates, err := st.LoadRates(runID)
	require.NoError(t, err)
	assert.Equal(t, sampleResult(), rates)
}

func TestStoreList(t *testing.T) {
	dir := t.TempDir()
	st := New(dir, nil)
	require.NoError(t, st.Init())

	first, err := st.Save("a", config.DefaultConfig(), sampleResult())
	require.NoError(t, err)
	second, err := st.Save("b", config.DefaultConfig(), sampleResult())
	require.NoError(t, err)

	// stray entries are ignored
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "junk"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "note.txt"), []byte("x"), 0644))

	runs, err := st.List()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, first, runs[0].ID)
	assert.Equal(t, second, runs[1].ID)
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "missing"), nil)
	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestLoadRatesMalformed(t *testing.T) {
	dir := t.TempDir()
	st := New(dir, nil)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "bad"), 0755))
	require.NoError(t, os.WriteFile(st.RatesPath("bad"), []byte("rads,dadt_total,dadt_gas,tau_total,tau_gas\n1,x,3,4,5\n"), 0644))

	_, err := st.LoadRates("bad")
	assert.Error(t, err)
}

func TestWriteRates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ratesFile)
	require.NoError(t, writeRates(path, sampleResult()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "rads,dadt_total,dadt_gas,tau_total,tau_gas\n")
	assert.Contains(t, string(data), "+Inf")

	err = writeRates(filepath.Join(dir, "missing", ratesFile), sampleResult())
	assert.Error(t, err)
}

func TestSaveReportsWriteFailure(t *testing.T) {
	base := filepath.Join(t.TempDir(), "data")
	// a file where the run directory should go
	require.NoError(t, os.WriteFile(base, []byte("x"), 0644))

	_, err := New(base, nil).Save("reference", config.DefaultConfig(), sampleResult())
	assert.Error(t, err)
}
