package config

import (
	"errors"
	"fmt"
	"stock-screener/internal/indicator"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	PriceProviderYahoo     = "yahoo"
	PriceProviderDatabase  = "database"
	PriceProviderSimulated = "simulated"
)

type Config struct {
	Log          Logger       `mapstructure:"logger"`
	DB           Database     `mapstructure:"database"`
	API          API          `mapstructure:"api"`
	Scheduler    Scheduler    `mapstructure:"scheduler"`
	Cache        Cache        `mapstructure:"cache"`
	YahooFinance YahooFinance `mapstructure:"yahoo_finance"`
	PriceSource  PriceSource  `mapstructure:"price_source"`
	Indicator    Indicator    `mapstructure:"indicator"`
	Signal       Signal       `mapstructure:"signal"`
	Screener     Screener     `mapstructure:"screener"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type Database struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	TimeZone        string `mapstructure:"time_zone"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
}

type Scheduler struct {
	Enabled         bool          `mapstructure:"enabled"`
	MaxConcurrency  int           `mapstructure:"max_concurrency"`
	TimeoutDuration time.Duration `mapstructure:"timeout_duration"`
	// TickCron drives the in-process scheduler tick when Enabled.
	TickCron string `mapstructure:"tick_cron"`
}

type API struct {
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	MaxRequestPerSec  float64       `mapstructure:"max_request_per_sec"`
	RateLimitBurst    int           `mapstructure:"rate_limit_burst"`
	RateLimitExpireIn time.Duration `mapstructure:"rate_limit_expire_in"`
}

type YahooFinance struct {
	BaseURL          string        `mapstructure:"base_url"`
	Timeout          time.Duration `mapstructure:"timeout"`
	MaxRequestPerMin int           `mapstructure:"max_request_per_minute"`
	MaxRetry         uint64        `mapstructure:"max_retry"`
}

type PriceSource struct {
	Provider string `mapstructure:"provider"`
	// Range is the number of days of history fetched for indicator computation.
	Range    int    `mapstructure:"range"`
	Interval string `mapstructure:"interval"`
}

type Cache struct {
	DefaultExpiration  time.Duration `mapstructure:"default_expiration"`
	CleanupInterval    time.Duration `mapstructure:"cleanup_interval"`
	UniverseExpiration time.Duration `mapstructure:"universe_expiration"`
}

type Indicator struct {
	indicator.Params `mapstructure:",squash"`
	MaxConcurrency   int           `mapstructure:"max_concurrency"`
	Timeout          time.Duration `mapstructure:"timeout"`
}

type Signal struct {
	Rules map[string]indicator.SignalRule `mapstructure:"rules"`
}

type Screener struct {
	Workers int `mapstructure:"workers"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.encoding", "json")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.time_zone", "Asia/Jakarta")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.read_timeout", 30*time.Second)
	v.SetDefault("api.max_request_per_sec", 20)
	v.SetDefault("api.rate_limit_burst", 40)
	v.SetDefault("api.rate_limit_expire_in", 3*time.Minute)
	v.SetDefault("scheduler.max_concurrency", 2)
	v.SetDefault("scheduler.timeout_duration", 10*time.Minute)
	v.SetDefault("scheduler.tick_cron", "* * * * *")
	v.SetDefault("cache.default_expiration", 5*time.Minute)
	v.SetDefault("cache.cleanup_interval", 10*time.Minute)
	v.SetDefault("cache.universe_expiration", time.Minute)
	v.SetDefault("yahoo_finance.base_url", "https://query1.finance.yahoo.com")
	v.SetDefault("yahoo_finance.timeout", 10*time.Second)
	v.SetDefault("yahoo_finance.max_request_per_minute", 60)
	v.SetDefault("yahoo_finance.max_retry", 3)
	v.SetDefault("price_source.provider", PriceProviderYahoo)
	v.SetDefault("price_source.range", 120)
	v.SetDefault("price_source.interval", "1d")
	v.SetDefault("indicator.max_concurrency", 5)
	v.SetDefault("indicator.timeout", 30*time.Second)
	v.SetDefault("indicator.rsi_period", indicator.DefaultRSIPeriod)
	v.SetDefault("indicator.bollinger_period", indicator.DefaultBollingerPeriod)
	v.SetDefault("indicator.bollinger_k", indicator.DefaultBollingerK)
	v.SetDefault("screener.workers", 4)
}

// Load reads .env (if present), then the yaml config at path or ./config.yaml, then
// environment variables with "." replaced by "_" (DATABASE_HOST overrides database.host).
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Validate checks the settings every command depends on.
func (c *Config) Validate() error {
	var errs []error
	switch c.PriceSource.Provider {
	case PriceProviderYahoo, PriceProviderDatabase, PriceProviderSimulated:
	default:
		errs = append(errs, fmt.Errorf("price_source.provider %q is not one of yahoo, database, simulated", c.PriceSource.Provider))
	}
	if c.PriceSource.Range <= 0 {
		errs = append(errs, errors.New("price_source.range must be positive"))
	}
	if c.Indicator.MaxConcurrency <= 0 {
		errs = append(errs, errors.New("indicator.max_concurrency must be positive"))
	}
	if c.Scheduler.MaxConcurrency <= 0 {
		errs = append(errs, errors.New("scheduler.max_concurrency must be positive"))
	}
	if c.API.Port <= 0 {
		errs = append(errs, errors.New("api.port must be positive"))
	}
	return errors.Join(errs...)
}
