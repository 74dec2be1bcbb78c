package config

import (
	"os"
	"path/filepath"
	"stock-screener/internal/indicator"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
logger:
  level: debug
database:
  host: db.local
  name: screener
price_source:
  provider: simulated
  range: 90
indicator:
  max_concurrency: 3
  rsi_period: 10
signal:
  rules:
    rsi:
      overbought: 80
      oversold: 20
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "db.local", cfg.DB.Host)
	assert.Equal(t, PriceProviderSimulated, cfg.PriceSource.Provider)
	assert.Equal(t, 90, cfg.PriceSource.Range)
	assert.Equal(t, 3, cfg.Indicator.MaxConcurrency)
	assert.Equal(t, 10, cfg.Indicator.RSIPeriod)
	assert.Equal(t, indicator.DefaultBollingerPeriod, cfg.Indicator.BollingerPeriod)
	assert.Equal(t, 30*time.Second, cfg.Indicator.Timeout)

	rule, ok := cfg.Signal.Rules["rsi"]
	require.True(t, ok)
	require.NotNil(t, rule.Overbought)
	assert.Equal(t, 80.0, *rule.Overbought)

	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("DATABASE_HOST", "db.env")
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)
	assert.Equal(t, "db.env", cfg.DB.Host)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	cfg.PriceSource.Provider = "bloomberg"
	cfg.Indicator.MaxConcurrency = 0
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "price_source.provider")
	assert.Contains(t, err.Error(), "indicator.max_concurrency")
}
