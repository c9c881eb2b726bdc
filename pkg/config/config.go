package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App   AppConfig
	API   APIConfig
	Redis RedisConfig
	Cart  CartConfig
}

// Load reads configuration from the environment. A .env file is picked up
// when present so library consumers can run against a local API without
// exporting anything.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Cart.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type APIConfig struct {
	BaseURL    string        `envconfig:"STOREFRONT_API_BASE_URL" required:"true"`
	Timeout    time.Duration `envconfig:"STOREFRONT_API_TIMEOUT" default:"10s"`
	AuthHeader string        `envconfig:"STOREFRONT_API_AUTH_HEADER" default:"auth-token"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis connection is configured at all; without
// one the in-memory store is used instead.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type CartConfig struct {
	TaxRate        string `envconfig:"STOREFRONT_CART_TAX_RATE" default:"0.25"`
	CouponCode     string `envconfig:"STOREFRONT_CART_COUPON_CODE" default:"JOPA"`
	CouponDiscount string `envconfig:"STOREFRONT_CART_COUPON_DISCOUNT" default:"0.9"`
	GuestName      string `envconfig:"STOREFRONT_CART_GUEST_NAME" default:"Guest"`
}

// TaxRateAmount returns the flat sales tax rate as a decimal.
func (c CartConfig) TaxRateAmount() decimal.Decimal {
	rate, err := decimal.NewFromString(c.TaxRate)
	if err != nil {
		return decimal.RequireFromString(DefaultTaxRate)
	}
	return rate
}

// CouponDiscountAmount returns the multiplier applied for the accepted code.
func (c CartConfig) CouponDiscountAmount() decimal.Decimal {
	mult, err := decimal.NewFromString(c.CouponDiscount)
	if err != nil {
		return decimal.RequireFromString(DefaultCouponDiscount)
	}
	return mult
}

func (c CartConfig) validate() error {
	if _, err := decimal.NewFromString(c.TaxRate); err != nil {
		return fmt.Errorf("invalid %s: %w", EnvCartTaxRate, err)
	}
	if _, err := decimal.NewFromString(c.CouponDiscount); err != nil {
		return fmt.Errorf("invalid %s: %w", EnvCartCouponDiscount, err)
	}
	return nil
}
