package config

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"golang.org/x/text/currency"
)

type Config struct {
	ListenAddr   string `mapstructure:"LISTEN_ADDR"`
	APIBaseURL   string `mapstructure:"API_BASE_URL"`
	PhotoBaseURL string `mapstructure:"PHOTO_BASE_URL"`
	Currency     string `mapstructure:"CURRENCY"`

	ShippingFee int64 `mapstructure:"SHIPPING_FEE"`
	AdminFee    int64 `mapstructure:"ADMIN_FEE"`

	// Storage selects the KV backend: memory, file, redis or postgres.
	Storage     string `mapstructure:"STORAGE"`
	StatePath   string `mapstructure:"STATE_PATH"`
	StateScope  string `mapstructure:"STATE_SCOPE"`
	RedisAddr   string `mapstructure:"REDIS_ADDR"`
	PostgresDSN string `mapstructure:"POSTGRES_DSN"`
}

// Load reads configuration from the environment, with an optional
// .env style file at path taking lower precedence.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("LISTEN_ADDR", ":8080")
	v.SetDefault("CURRENCY", "IDR")
	v.SetDefault("SHIPPING_FEE", 10000)
	v.SetDefault("ADMIN_FEE", 2000)
	v.SetDefault("STORAGE", "file")
	v.SetDefault("STATE_PATH", "storefront-state.json")
	v.SetDefault("STATE_SCOPE", "storefront")

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("v.ReadInConfig: %w", err)
		}
	}

	v.AutomaticEnv()
	bindEnv(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("v.Unmarshal: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("cfg.validate: %w", err)
	}

	return cfg, nil
}

// AutomaticEnv alone does not surface env vars through Unmarshal, so
// bind each key explicitly.
func bindEnv(v *viper.Viper) {
	for _, key := range []string{
		"LISTEN_ADDR", "API_BASE_URL", "PHOTO_BASE_URL", "CURRENCY",
		"SHIPPING_FEE", "ADMIN_FEE",
		"STORAGE", "STATE_PATH", "STATE_SCOPE", "REDIS_ADDR", "POSTGRES_DSN",
	} {
		_ = v.BindEnv(key)
	}
}

func (c Config) validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}

	if _, err := currency.ParseISO(c.Currency); err != nil {
		return fmt.Errorf("CURRENCY[%s] is not valid: %w", c.Currency, err)
	}

	if c.ShippingFee < 0 || c.AdminFee < 0 {
		return fmt.Errorf("fees must not be negative")
	}

	switch c.Storage {
	case "memory", "file":
	case "redis":
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required for redis storage")
		}
	case "postgres":
		if c.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required for postgres storage")
		}
	default:
		return fmt.Errorf("STORAGE[%s] is not one of memory, file, redis, postgres", c.Storage)
	}

	return nil
}

func (c Config) CurrencyUnit() currency.Unit {
	unit, _ := currency.ParseISO(c.Currency) // validated in Load
	return unit
}

func (c Config) ShippingFeeAmount() decimal.Decimal {
	return decimal.NewFromInt(c.ShippingFee)
}

func (c Config) AdminFeeAmount() decimal.Decimal {
	return decimal.NewFromInt(c.AdminFee)
}
