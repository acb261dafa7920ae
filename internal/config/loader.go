package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "schoolforge.yaml"

// DefaultEnvFile is the dotenv file loaded before environment overrides.
const DefaultEnvFile = ".env"

// minSecretLen is the shortest accepted HS256 signing secret.
const minSecretLen = 32

// Load returns a Config using the hierarchy: defaults < YAML < .env < ENV.
// Both files are optional; missing files are not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile, DefaultEnvFile)
}

// LoadFrom returns a Config loaded from the given YAML and dotenv paths.
// Variables already present in the process environment win over the
// dotenv file.
func LoadFrom(yamlPath, envPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	if err := loadDotenv(envPath); err != nil {
		return nil, fmt.Errorf("config dotenv: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is validated by caller
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadDotenv populates unset environment variables from a dotenv file.
func loadDotenv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.Server.Port, "SCHOOLFORGE_PORT")
	setString(&cfg.Server.CORSOrigin, "SCHOOLFORGE_CORS_ORIGIN")
	setInt64(&cfg.Server.BodyLimit, "SCHOOLFORGE_BODY_LIMIT")
	setString(&cfg.Postgres.DSN, "DATABASE_URL")
	setInt32(&cfg.Postgres.MaxConns, "SCHOOLFORGE_PG_MAX_CONNS")
	setInt32(&cfg.Postgres.MinConns, "SCHOOLFORGE_PG_MIN_CONNS")
	setDuration(&cfg.Postgres.MaxConnLifetime, "SCHOOLFORGE_PG_MAX_CONN_LIFETIME")
	setDuration(&cfg.Postgres.MaxConnIdleTime, "SCHOOLFORGE_PG_MAX_CONN_IDLE_TIME")
	setDuration(&cfg.Postgres.HealthCheck, "SCHOOLFORGE_PG_HEALTH_CHECK")
	setString(&cfg.NATS.URL, "NATS_URL")
	setString(&cfg.NATS.Stream, "SCHOOLFORGE_NATS_STREAM")
	setDuration(&cfg.NATS.PublishTimeout, "SCHOOLFORGE_NATS_PUBLISH_TIMEOUT")
	setInt(&cfg.NATS.BreakerFailures, "SCHOOLFORGE_NATS_BREAKER_FAILURES")
	setDuration(&cfg.NATS.BreakerCooldown, "SCHOOLFORGE_NATS_BREAKER_COOLDOWN")
	setString(&cfg.Logging.Level, "SCHOOLFORGE_LOG_LEVEL")
	setString(&cfg.Logging.Service, "SCHOOLFORGE_LOG_SERVICE")
	setBool(&cfg.Logging.Async, "SCHOOLFORGE_LOG_ASYNC")
	setFloat64(&cfg.Rate.RequestsPerSecond, "SCHOOLFORGE_RATE_RPS")
	setInt(&cfg.Rate.Burst, "SCHOOLFORGE_RATE_BURST")
	setDuration(&cfg.Rate.CleanupInterval, "SCHOOLFORGE_RATE_CLEANUP_INTERVAL")
	setDuration(&cfg.Rate.MaxIdleTime, "SCHOOLFORGE_RATE_MAX_IDLE_TIME")

	// Auth
	setString(&cfg.Auth.JWTSecret, "SCHOOLFORGE_JWT_SECRET")
	setString(&cfg.Auth.Issuer, "SCHOOLFORGE_JWT_ISSUER")
	setDuration(&cfg.Auth.SessionTTL, "SCHOOLFORGE_SESSION_TTL")
	setInt(&cfg.Auth.BcryptCost, "SCHOOLFORGE_BCRYPT_COST")
	setBool(&cfg.Auth.ProvisioningRequiresSuperAdmin, "SCHOOLFORGE_PROVISIONING_REQUIRES_SUPER_ADMIN")

	// Provisioning
	setInt(&cfg.Provisioning.TrialDays, "SCHOOLFORGE_TRIAL_DAYS")
	setInt(&cfg.Provisioning.TempPasswordLength, "SCHOOLFORGE_TEMP_PASSWORD_LENGTH")
	setInt(&cfg.Provisioning.SlugAttempts, "SCHOOLFORGE_SLUG_ATTEMPTS")

	// Telemetry uses the standard OTLP variable names.
	setString(&cfg.Telemetry.OTLPEndpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
	setBool(&cfg.Telemetry.Insecure, "OTEL_EXPORTER_OTLP_INSECURE")
	setDuration(&cfg.Telemetry.ExportPeriod, "SCHOOLFORGE_OTEL_EXPORT_PERIOD")
}

// validate checks that required fields are set.
func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if cfg.Postgres.DSN == "" {
		return errors.New("postgres.dsn is required")
	}
	if cfg.Postgres.MaxConns < 1 {
		return errors.New("postgres.max_conns must be >= 1")
	}
	if cfg.NATS.URL != "" && cfg.NATS.Stream == "" {
		return errors.New("nats.stream is required when nats.url is set")
	}
	if cfg.Rate.Burst < 1 {
		return errors.New("rate.burst must be >= 1")
	}
	if len(cfg.Auth.JWTSecret) < minSecretLen {
		return fmt.Errorf("auth.jwt_secret must be at least %d bytes", minSecretLen)
	}
	if cfg.Auth.BcryptCost < bcrypt.MinCost || cfg.Auth.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("auth.bcrypt_cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if cfg.Auth.SessionTTL <= 0 {
		return errors.New("auth.session_ttl must be positive")
	}
	if cfg.Provisioning.TrialDays < 1 {
		return errors.New("provisioning.trial_days must be >= 1")
	}
	if cfg.Provisioning.TempPasswordLength < 8 {
		return errors.New("provisioning.temp_password_length must be >= 8")
	}
	if cfg.Provisioning.SlugAttempts < 1 {
		return errors.New("provisioning.slug_attempts must be >= 1")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt32(dst *int32, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			*dst = int32(n)
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
