package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "200", cfg.DefaultCreditLimit.String())
	assert.Equal(t, "masa", cfg.Estimate.DoughSupplyName)
	assert.Equal(t, "50", cfg.Estimate.DoughUnitKg.String())
	assert.Equal(t, "45", cfg.Estimate.YieldPerDoughUnit.String())
	assert.Equal(t, "36", cfg.Estimate.YieldPerFlourBag.String())
	assert.Equal(t, "22", cfg.Estimate.DefaultProductPrice.String())
	assert.Len(t, cfg.Warnings, 2)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DEFAULT_CREDIT_LIMIT", "350.50")
	t.Setenv("ESTIMATE_YIELD_PER_FLOUR_BAG", "40")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, "350.5", cfg.DefaultCreditLimit.String())
	assert.Equal(t, "40", cfg.Estimate.YieldPerFlourBag.String())
	assert.True(t, cfg.IsProduction())
}

func TestLoad_RejectsShortSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "corto")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "32")
}

func TestLoad_RejectsMissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_RejectsBadDecimal(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("DEFAULT_CREDIT_LIMIT", "doscientos")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "default_credit_limit")
}
