package main

import (
	"os"
	"path/filepath"
	"testing"

	lappd "github.com/next-exp/lappd_go/pkg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	filename := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(filename, []byte(content), 0o644))
	return filename
}

func TestLoadConfigurationDefaults(t *testing.T) {
	filename := writeConfig(t, `{"file_in": "hits.csv", "file_out": "traces.h5"}`)
	config, err := LoadConfiguration(filename)
	require.NoError(t, err)

	assert.Equal(t, "hits.csv", config.FileIn)
	assert.Equal(t, "traces.h5", config.FileOut)
	assert.Equal(t, "pulsecharacteristics.h5", config.CalibrationFile)
	assert.False(t, config.UseDB)
	assert.Equal(t, 1, config.NumWorkers)
	assert.Equal(t, uint64(1), config.Seed)
	assert.Equal(t, lappd.Sampling{StartTime: 0, SampleSize: 100, NSamples: 256, Noise: 2}, config.Sampling())
	assert.Equal(t, []lappd.Side{lappd.Left, lappd.Right}, config.Sides())
	assert.True(t, config.WriteData)
}

func TestLoadConfigurationOverrides(t *testing.T) {
	filename := writeConfig(t, `{
		"file_in": "hits.csv",
		"write_data": false,
		"use_db": true,
		"run_number": 12,
		"seed": 77,
		"num_workers": 4,
		"start_time": -500,
		"sample_size": 25,
		"num_samples": 1024,
		"noise": 0,
		"write_left": false
	}`)
	config, err := LoadConfiguration(filename)
	require.NoError(t, err)

	assert.True(t, config.UseDB)
	assert.Equal(t, 12, config.RunNumber)
	assert.Equal(t, uint64(77), config.Seed)
	assert.Equal(t, 4, config.NumWorkers)
	assert.Equal(t, lappd.Sampling{StartTime: -500, SampleSize: 25, NSamples: 1024, Noise: 0}, config.Sampling())
	assert.Equal(t, []lappd.Side{lappd.Right}, config.Sides())
}

func TestLoadConfigurationErrors(t *testing.T) {
	_, err := LoadConfiguration(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	_, err = LoadConfiguration(writeConfig(t, `{"file_in": `))
	require.Error(t, err)

	invalid := []string{
		`{"file_out": "traces.h5"}`,
		`{"file_in": "hits.csv"}`,
		`{"file_in": "hits.csv", "file_out": "t.h5", "num_workers": 0}`,
		`{"file_in": "hits.csv", "file_out": "t.h5", "write_left": false, "write_right": false}`,
		`{"file_in": "hits.csv", "file_out": "t.h5", "compression_level": 12}`,
		`{"file_in": "hits.csv", "file_out": "t.h5", "num_samples": 0}`,
		`{"file_in": "hits.csv", "file_out": "t.h5", "sample_size": -1}`,
		`{"file_in": "hits.csv", "file_out": "t.h5", "calibration_file": ""}`,
	}
	for _, content := range invalid {
		_, err := LoadConfiguration(writeConfig(t, content))
		assert.Error(t, err, content)
	}
}
