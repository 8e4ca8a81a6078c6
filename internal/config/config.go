// Package config loads runtime settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "change-me-in-production"

type Config struct {
	AppPort  string `mapstructure:"APP_PORT"`
	AppEnv   string `mapstructure:"APP_ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	DBDriver    string `mapstructure:"DB_DRIVER"`
	MySQLHost   string `mapstructure:"MYSQL_HOST"`
	MySQLPort   string `mapstructure:"MYSQL_PORT"`
	MySQLDB     string `mapstructure:"MYSQL_DB"`
	MySQLUser   string `mapstructure:"MYSQL_USER"`
	MySQLPass   string `mapstructure:"MYSQL_PASS"`
	PostgresDSN string `mapstructure:"POSTGRES_DSN"`

	RedisAddr    string `mapstructure:"REDIS_ADDR"`
	RedisDB      int    `mapstructure:"REDIS_DB"`
	IdempTTLSecs int    `mapstructure:"IDEMPOTENCY_TTL_SECONDS"`

	JWTSecret string `mapstructure:"JWT_SECRET"`

	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUser     string `mapstructure:"SMTP_USER"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	SMTPFrom     string `mapstructure:"SMTP_FROM"`
	SMTPFromName string `mapstructure:"SMTP_FROM_NAME"`
	SMTPUseTLS   bool   `mapstructure:"SMTP_USE_TLS"`
	EmailWorkers int    `mapstructure:"EMAIL_WORKERS"`

	AWSRegion          string `mapstructure:"AWS_REGION"`
	AWSAccessKeyID     string `mapstructure:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `mapstructure:"AWS_SECRET_ACCESS_KEY"`
	S3Bucket           string `mapstructure:"S3_BUCKET_NAME"`
	S3Endpoint         string `mapstructure:"S3_ENDPOINT"`

	BalanceSweepSchedule string `mapstructure:"BALANCE_SWEEP_SCHEDULE"`
	BalanceSweepWorkers  int    `mapstructure:"BALANCE_SWEEP_WORKERS"`

	OTLPEndpoint        string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	IntakeRatePerMinute int    `mapstructure:"INTAKE_RATE_PER_MINUTE"`
}

var defaults = map[string]any{
	"APP_PORT":                    "8080",
	"APP_ENV":                     "development",
	"LOG_LEVEL":                   "info",
	"DB_DRIVER":                   "mysql",
	"MYSQL_HOST":                  "mysql",
	"MYSQL_PORT":                  "3306",
	"MYSQL_DB":                    "csei",
	"MYSQL_USER":                  "csei",
	"MYSQL_PASS":                  "csei",
	"POSTGRES_DSN":                "",
	"REDIS_ADDR":                  "redis:6379",
	"REDIS_DB":                    0,
	"IDEMPOTENCY_TTL_SECONDS":     300,
	"JWT_SECRET":                  defaultJWTSecret,
	"SMTP_HOST":                   "",
	"SMTP_PORT":                   587,
	"SMTP_USER":                   "",
	"SMTP_PASSWORD":               "",
	"SMTP_FROM":                   "",
	"SMTP_FROM_NAME":              "",
	"SMTP_USE_TLS":                false,
	"EMAIL_WORKERS":               2,
	"AWS_REGION":                  "us-east-1",
	"AWS_ACCESS_KEY_ID":           "",
	"AWS_SECRET_ACCESS_KEY":       "",
	"S3_BUCKET_NAME":              "",
	"S3_ENDPOINT":                 "",
	"BALANCE_SWEEP_SCHEDULE":      "@every 15m",
	"BALANCE_SWEEP_WORKERS":       4,
	"OTEL_EXPORTER_OTLP_ENDPOINT": "",
	"INTAKE_RATE_PER_MINUTE":      20,
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	// a missing .env is normal outside local development
	_ = godotenv.Load()
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	return &c, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production" || c.AppEnv == "prod"
}

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	switch c.DBDriver {
	case "mysql":
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	case "postgres":
		if c.PostgresDSN == "" {
			return errors.New("missing POSTGRES_DSN")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.JWTSecret == "" {
		return errors.New("missing JWT_SECRET")
	}
	if c.IsProduction() {
		if c.JWTSecret == defaultJWTSecret || len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be changed and at least 32 characters in production")
		}
		if c.S3Bucket == "" {
			return errors.New("missing S3_BUCKET_NAME")
		}
	}
	if c.IdempTTLSecs <= 0 {
		return fmt.Errorf("invalid IDEMPOTENCY_TTL_SECONDS %d", c.IdempTTLSecs)
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// clientFoundRows makes an UPDATE to the same value still report one row
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&charset=utf8mb4&loc=UTC&clientFoundRows=true",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == "postgres" {
		return c.PostgresDSN
	}
	return c.MySQLDSN()
}
