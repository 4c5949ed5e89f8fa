package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/scigo-knn/pkg/errors"
)

var envKeys = []string{"EDA_CATEGORICAL_THRESHOLD", "EDA_PLOT_DIR", "EDA_LOG_LEVEL"}

// clearEnv unsets the EDA_* variables for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

const fixture = "../../eda/testdata/passengers.csv"

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := loadConfig(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	assert.Equal(t, Config{CategoricalThreshold: 12, LogLevel: "info"}, cfg)
}

func TestLoadConfigEnvVars(t *testing.T) {
	clearEnv(t)
	t.Setenv("EDA_CATEGORICAL_THRESHOLD", "5")
	t.Setenv("EDA_PLOT_DIR", "/tmp/plots")
	t.Setenv("EDA_LOG_LEVEL", "debug")

	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.CategoricalThreshold)
	assert.Equal(t, "/tmp/plots", cfg.PlotDir)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfigDotenv(t *testing.T) {
	clearEnv(t)
	// 既に設定済みの変数は .env で上書きされない
	t.Setenv("EDA_LOG_LEVEL", "error")

	path := filepath.Join(t.TempDir(), ".env")
	content := "EDA_CATEGORICAL_THRESHOLD=3\nEDA_LOG_LEVEL=debug\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.CategoricalThreshold)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestLoadConfigInvalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("EDA_CATEGORICAL_THRESHOLD", "many")

	_, err := loadConfig("")
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

func TestRun(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	var stdout, stderr bytes.Buffer
	err := run([]string{"-threshold", "12", "-plots", dir, "-log-level", "error", fixture}, &stdout, &stderr)
	require.NoError(t, err)

	assert.Contains(t, stdout.String(), "Greetings, stranger! Please get acquainted with data")
	assert.Contains(t, stdout.String(), "Number of missing values: 2")
	assert.FileExists(t, filepath.Join(dir, "hist_age.png"))
}

func TestRunErrors(t *testing.T) {
	clearEnv(t)

	var stdout, stderr bytes.Buffer
	err := run(nil, &stdout, &stderr)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
	assert.Contains(t, stderr.String(), "usage: eda")

	err = run([]string{"-log-level", "loud", fixture}, &stdout, &stderr)
	assert.Error(t, err)

	err = run([]string{"-threshold", "-1", fixture}, &stdout, &stderr)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))

	err = run([]string{filepath.Join(t.TempDir(), "missing.csv")}, &stdout, &stderr)
	assert.Error(t, err)
	assert.Empty(t, stdout.String())
}
