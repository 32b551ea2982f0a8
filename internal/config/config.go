package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const defaultDSN = "host=localhost user=postgres password=postgres dbname=hacienda port=5432 sslmode=disable"

type Config struct {
	AppEnv      string
	HTTPPort    string
	DatabaseDSN string
	JWTSecret   string
	CORSOrigins string

	LogLevel  string
	LogFormat string

	// Límite de crédito para clientes sin límite propio
	DefaultCreditLimit decimal.Decimal

	Estimate EstimateConfig

	// Avisos de configuración que main escribe una vez que hay logger
	Warnings []string
}

// EstimateConfig: constantes del estimado de venta por consumo de masa y harina.
type EstimateConfig struct {
	DoughSupplyName     string          // nombre del insumo / categoría de gasto "masa"
	DefaultDoughPrice   decimal.Decimal // precio por kg si no hay historial
	DoughUnitKg         decimal.Decimal // kg por unidad de compra de masa
	YieldPerDoughUnit   decimal.Decimal // kg de tortilla por unidad de masa
	YieldPerFlourBag    decimal.Decimal // kg de tortilla por bulto de harina
	ProductCode         string          // código del producto tortilla
	DefaultProductPrice decimal.Decimal // precio por kg si no hay precio configurado
}

func DefaultEstimate() EstimateConfig {
	return EstimateConfig{
		DoughSupplyName:     "masa",
		DefaultDoughPrice:   decimal.NewFromInt(8),
		DoughUnitKg:         decimal.NewFromInt(50),
		YieldPerDoughUnit:   decimal.NewFromInt(45),
		YieldPerFlourBag:    decimal.NewFromInt(36),
		ProductCode:         "tortilla",
		DefaultProductPrice: decimal.NewFromInt(22),
	}
}

// Load lee config.yaml (opcional) y variables de entorno; el entorno gana.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/hacienda")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.Wrap(err, "config.yaml no se pudo leer")
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	applyDefaults(v)

	cfg := &Config{
		AppEnv:      v.GetString("app_env"),
		HTTPPort:    v.GetString("http_port"),
		DatabaseDSN: v.GetString("database_dsn"),
		JWTSecret:   v.GetString("jwt_secret"),
		CORSOrigins: v.GetString("cors_allowed_origins"),
		LogLevel:    v.GetString("log_level"),
		LogFormat:   v.GetString("log_format"),
	}

	var err error
	if cfg.DefaultCreditLimit, err = getDecimal(v, "default_credit_limit"); err != nil {
		return nil, err
	}

	def := DefaultEstimate()
	cfg.Estimate = EstimateConfig{
		DoughSupplyName: v.GetString("estimate.dough_supply_name"),
		ProductCode:     v.GetString("estimate.product_code"),
	}
	decimals := []struct {
		key string
		dst *decimal.Decimal
	}{
		{"estimate.default_dough_price", &cfg.Estimate.DefaultDoughPrice},
		{"estimate.dough_unit_kg", &cfg.Estimate.DoughUnitKg},
		{"estimate.yield_per_dough_unit", &cfg.Estimate.YieldPerDoughUnit},
		{"estimate.yield_per_flour_bag", &cfg.Estimate.YieldPerFlourBag},
		{"estimate.default_product_price", &cfg.Estimate.DefaultProductPrice},
	}
	for _, d := range decimals {
		if *d.dst, err = getDecimal(v, d.key); err != nil {
			return nil, err
		}
	}
	if cfg.Estimate.DoughSupplyName == "" {
		cfg.Estimate.DoughSupplyName = def.DoughSupplyName
	}
	if cfg.Estimate.ProductCode == "" {
		cfg.Estimate.ProductCode = def.ProductCode
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(v *viper.Viper) {
	def := DefaultEstimate()

	v.SetDefault("app_env", "development")
	v.SetDefault("http_port", "8080")
	v.SetDefault("database_dsn", defaultDSN)
	v.SetDefault("cors_allowed_origins", "http://localhost:5173")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("default_credit_limit", "200")

	v.SetDefault("estimate.dough_supply_name", def.DoughSupplyName)
	v.SetDefault("estimate.default_dough_price", def.DefaultDoughPrice.String())
	v.SetDefault("estimate.dough_unit_kg", def.DoughUnitKg.String())
	v.SetDefault("estimate.yield_per_dough_unit", def.YieldPerDoughUnit.String())
	v.SetDefault("estimate.yield_per_flour_bag", def.YieldPerFlourBag.String())
	v.SetDefault("estimate.product_code", def.ProductCode)
	v.SetDefault("estimate.default_product_price", def.DefaultProductPrice.String())
}

func getDecimal(v *viper.Viper, key string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "%s no es un número válido", key)
	}
	return d, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET no está definido")
	}
	if len(c.JWTSecret) < 32 {
		return errors.New("JWT_SECRET debe tener al menos 32 caracteres")
	}
	if !c.DefaultCreditLimit.IsPositive() {
		return errors.New("DEFAULT_CREDIT_LIMIT debe ser mayor a cero")
	}
	if !c.Estimate.DoughUnitKg.IsPositive() {
		return errors.New("ESTIMATE_DOUGH_UNIT_KG debe ser mayor a cero")
	}

	if c.DatabaseDSN == defaultDSN {
		c.Warnings = append(c.Warnings, "DATABASE_DSN usa el valor por defecto, define tu propia conexión en producción")
	}
	if c.CORSOrigins == "http://localhost:5173" {
		c.Warnings = append(c.Warnings, "CORS_ALLOWED_ORIGINS usa el valor por defecto, define tu dominio en producción")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
