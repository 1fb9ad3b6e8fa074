package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/domain/stats"
	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/internal/errors"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "LOG_LEVEL", "LOG_FORMAT", "FEATURE_TABLE", "METADATA_TABLE",
		"ANALYSIS_WORKERS", "DEFAULT_CORRECTION", "WATCH_DATA", "METRICS_ENABLED"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.True(t, cfg.Server.MetricsEnabled)
	assert.Equal(t, stats.CorrectionFDRBH, cfg.Analysis.DefaultCorrection)
	assert.GreaterOrEqual(t, cfg.Analysis.Workers, 1)
	assert.False(t, cfg.HasStartupData())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DEFAULT_CORRECTION", "bonf")
	t.Setenv("ANALYSIS_WORKERS", "3")
	t.Setenv("FEATURE_TABLE", "quant.csv")
	t.Setenv("METADATA_TABLE", "meta.csv")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, stats.CorrectionBonferroni, cfg.Analysis.DefaultCorrection)
	assert.Equal(t, 3, cfg.Analysis.Workers)
	assert.True(t, cfg.HasStartupData())
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown correction", "DEFAULT_CORRECTION", "tukey"},
		{"non-numeric port", "PORT", "http"},
		{"zero workers", "ANALYSIS_WORKERS", "0"},
		{"half-configured data", "FEATURE_TABLE", "quant.csv"},
		{"bad log format", "LOG_FORMAT", "xml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("METADATA_TABLE", "")
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.FromDomain(err).Code)
		})
	}
}
