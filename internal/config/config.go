package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Rate sources understood by RATE_SOURCE.
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
	SourceRedis    = "redis"
)

// Config holds all runtime configuration derived from environment variables.
type Config struct {
	HTTPPort            string
	LogLevel            string
	RateSource          string
	RatesFile           string
	DatabaseURL         string
	RatesTable          string
	RedisURL            string
	RedisRatesKey       string
	RateRefreshInterval time.Duration
	PublicRateLimitRPS  int
	AdminRateLimitRPS   int
	JWTSecret           string
	JWTIssuer           string
	JWTAudience         string
}

// AdminEnabled reports whether admin routes are mounted.
func (c *Config) AdminEnabled() bool {
	return c.JWTSecret != ""
}

// Load reads environment variables using viper and returns a typed config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	bindEnv(v, "port", "PORT", "FX_PORT")
	bindEnv(v, "log_level", "LOG_LEVEL", "FX_LOG_LEVEL")
	bindEnv(v, "rate_source", "RATE_SOURCE", "FX_RATE_SOURCE")
	bindEnv(v, "rates_file", "RATES_FILE", "FX_RATES_FILE")
	bindEnv(v, "database_url", "DATABASE_URL", "FX_DATABASE_URL")
	bindEnv(v, "rates_table", "RATES_TABLE", "FX_RATES_TABLE")
	bindEnv(v, "redis_url", "REDIS_URL", "FX_REDIS_URL")
	bindEnv(v, "redis_rates_key", "REDIS_RATES_KEY", "FX_REDIS_RATES_KEY")
	bindEnv(v, "rate_refresh_interval", "RATE_REFRESH_INTERVAL", "FX_RATE_REFRESH_INTERVAL")
	bindEnv(v, "public_rate_limit_rps", "PUBLIC_RATE_LIMIT_RPS", "FX_PUBLIC_RATE_LIMIT_RPS")
	bindEnv(v, "admin_rate_limit_rps", "ADMIN_RATE_LIMIT_RPS", "FX_ADMIN_RATE_LIMIT_RPS")
	bindEnv(v, "jwt_secret", "JWT_SECRET", "FX_JWT_SECRET")
	bindEnv(v, "jwt_issuer", "JWT_ISSUER", "FX_JWT_ISSUER")
	bindEnv(v, "jwt_audience", "JWT_AUDIENCE", "FX_JWT_AUDIENCE")

	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("rate_source", SourceFile)
	v.SetDefault("rates_file", "rates.json")
	v.SetDefault("database_url", "")
	v.SetDefault("rates_table", "exchange_rates")
	v.SetDefault("redis_url", "")
	v.SetDefault("redis_rates_key", "fx:quotes")
	v.SetDefault("rate_refresh_interval", "5m")
	v.SetDefault("public_rate_limit_rps", 50)
	v.SetDefault("admin_rate_limit_rps", 5)
	v.SetDefault("jwt_secret", "")
	v.SetDefault("jwt_issuer", "fx-converter")
	v.SetDefault("jwt_audience", "fx-api")

	refreshInterval, err := time.ParseDuration(v.GetString("rate_refresh_interval"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_REFRESH_INTERVAL: %w", err)
	}
	if refreshInterval < 0 {
		return nil, fmt.Errorf("RATE_REFRESH_INTERVAL must not be negative")
	}

	publicRPS, err := positiveInt(v, "public_rate_limit_rps", "PUBLIC_RATE_LIMIT_RPS")
	if err != nil {
		return nil, err
	}
	adminRPS, err := positiveInt(v, "admin_rate_limit_rps", "ADMIN_RATE_LIMIT_RPS")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPPort:            v.GetString("port"),
		LogLevel:            v.GetString("log_level"),
		RateSource:          strings.ToLower(strings.TrimSpace(v.GetString("rate_source"))),
		RatesFile:           v.GetString("rates_file"),
		DatabaseURL:         v.GetString("database_url"),
		RatesTable:          v.GetString("rates_table"),
		RedisURL:            v.GetString("redis_url"),
		RedisRatesKey:       v.GetString("redis_rates_key"),
		RateRefreshInterval: refreshInterval,
		PublicRateLimitRPS:  publicRPS,
		AdminRateLimitRPS:   adminRPS,
		JWTSecret:           strings.TrimSpace(v.GetString("jwt_secret")),
		JWTIssuer:           v.GetString("jwt_issuer"),
		JWTAudience:         v.GetString("jwt_audience"),
	}

	switch cfg.RateSource {
	case SourceFile:
		if strings.TrimSpace(cfg.RatesFile) == "" {
			return nil, fmt.Errorf("RATES_FILE is required when RATE_SOURCE is file")
		}
	case SourcePostgres:
		if strings.TrimSpace(cfg.DatabaseURL) == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when RATE_SOURCE is postgres")
		}
		if strings.TrimSpace(cfg.RatesTable) == "" {
			return nil, fmt.Errorf("RATES_TABLE is required when RATE_SOURCE is postgres")
		}
	case SourceRedis:
		if strings.TrimSpace(cfg.RedisURL) == "" {
			return nil, fmt.Errorf("REDIS_URL is required when RATE_SOURCE is redis")
		}
	default:
		return nil, fmt.Errorf("unsupported RATE_SOURCE %q (want file, postgres or redis)", cfg.RateSource)
	}

	if cfg.AdminEnabled() {
		if len(cfg.JWTSecret) < 32 {
			return nil, fmt.Errorf("JWT_SECRET must be at least 32 characters")
		}
		if strings.TrimSpace(cfg.JWTIssuer) == "" {
			return nil, fmt.Errorf("JWT_ISSUER is required")
		}
		if strings.TrimSpace(cfg.JWTAudience) == "" {
			return nil, fmt.Errorf("JWT_AUDIENCE is required")
		}
	}

	return cfg, nil
}

func positiveInt(v *viper.Viper, key, name string) (int, error) {
	raw := strings.TrimSpace(v.GetString(key))
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, raw, err)
	}
	if n < 1 {
		return 0, fmt.Errorf("%s must be at least 1, got %d", name, n)
	}
	return n, nil
}

func bindEnv(v *viper.Viper, key string, names ...string) {
	args := append([]string{key}, names...)
	_ = v.BindEnv(args...)
}
