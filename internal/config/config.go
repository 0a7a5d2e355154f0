package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverREST     = "rest"
)

type Config struct {
	Port      string `mapstructure:"PORT"`
	Env       string `mapstructure:"ENV"`
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`
	AppName   string `mapstructure:"APP_NAME"`

	// memory | postgres | rest
	StoreDriver        string        `mapstructure:"STORE_DRIVER"`
	DatabaseURL        string        `mapstructure:"DATABASE_URL"`
	RecordStoreURL     string        `mapstructure:"RECORD_STORE_URL"`
	RecordStoreKey     string        `mapstructure:"RECORD_STORE_KEY"`
	RecordStoreTimeout time.Duration `mapstructure:"RECORD_STORE_TIMEOUT"`

	RedisURL    string        `mapstructure:"REDIS_URL"`
	SnapshotTTL time.Duration `mapstructure:"SNAPSHOT_TTL"`

	JWTSecret string        `mapstructure:"JWT_SECRET"`
	JWTIssuer string        `mapstructure:"JWT_ISSUER"`
	JWTTTL    time.Duration `mapstructure:"JWT_TTL"`

	AdminUsername string `mapstructure:"ADMIN_USERNAME"`
	AdminPassword string `mapstructure:"ADMIN_PASSWORD"`

	// zona horaria de fechas impresas en PDF/XLSX
	ReportTZ string `mapstructure:"REPORT_TZ"`

	HTTPReadTimeout  time.Duration `mapstructure:"HTTP_READ_TIMEOUT"`
	HTTPWriteTimeout time.Duration `mapstructure:"HTTP_WRITE_TIMEOUT"`
}

var keys = []string{
	"PORT", "ENV", "LOG_LEVEL", "LOG_FORMAT", "APP_NAME",
	"STORE_DRIVER", "DATABASE_URL", "RECORD_STORE_URL", "RECORD_STORE_KEY", "RECORD_STORE_TIMEOUT",
	"REDIS_URL", "SNAPSHOT_TTL",
	"JWT_SECRET", "JWT_ISSUER", "JWT_TTL",
	"ADMIN_USERNAME", "ADMIN_PASSWORD",
	"REPORT_TZ",
	"HTTP_READ_TIMEOUT", "HTTP_WRITE_TIMEOUT",
}

// Load lee env y, si existe, un .env en el directorio actual.
func Load() (*Config, error) {
	return load(".env")
}

func load(envFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(envFile)
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("APP_NAME", "pediatric-dosage")
	v.SetDefault("STORE_DRIVER", DriverMemory)
	v.SetDefault("RECORD_STORE_TIMEOUT", "10s")
	v.SetDefault("SNAPSHOT_TTL", "30m")
	v.SetDefault("JWT_ISSUER", "pediatric-dosage")
	v.SetDefault("JWT_TTL", "8h")
	v.SetDefault("REPORT_TZ", "UTC")
	v.SetDefault("HTTP_READ_TIMEOUT", "5s")
	v.SetDefault("HTTP_WRITE_TIMEOUT", "30s")

	for _, k := range keys {
		_ = v.BindEnv(k)
	}
	// compat con el DSN que usaba el router
	_ = v.BindEnv("DATABASE_URL", "DATABASE_URL", "DB_DSN")

	// .env es opcional
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Addr es la dirección de escucha (":8080").
func (c *Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}

// Location resuelve REPORT_TZ (UTC si viene vacío).
func (c *Config) Location() (*time.Location, error) {
	if strings.TrimSpace(c.ReportTZ) == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.ReportTZ)
}

// Validate revisa que el driver tenga lo que necesita y que producción no
// arranque sin secretos.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverMemory:
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_DRIVER=%s", DriverPostgres)
		}
	case DriverREST:
		if c.RecordStoreURL == "" || c.RecordStoreKey == "" {
			return fmt.Errorf("RECORD_STORE_URL and RECORD_STORE_KEY are required when STORE_DRIVER=%s", DriverREST)
		}
	default:
		return fmt.Errorf("STORE_DRIVER must be %q, %q or %q, got %q", DriverMemory, DriverPostgres, DriverREST, c.StoreDriver)
	}

	if c.SnapshotTTL <= 0 {
		return fmt.Errorf("SNAPSHOT_TTL must be > 0")
	}

	if c.IsProduction() {
		if len(c.JWTSecret) < 32 {
			return fmt.Errorf("JWT_SECRET must be at least 32 chars in production")
		}
		if c.StoreDriver == DriverMemory {
			return fmt.Errorf("STORE_DRIVER=%s is not allowed in production", DriverMemory)
		}
	}

	if c.AdminUsername != "" && len(c.AdminPassword) < 6 {
		return fmt.Errorf("ADMIN_PASSWORD must be at least 6 chars when ADMIN_USERNAME is set")
	}

	if _, err := c.Location(); err != nil {
		return fmt.Errorf("REPORT_TZ: %w", err)
	}
	return nil
}
