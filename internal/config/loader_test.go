package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Server.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Postgres.MaxConns != 15 {
		t.Errorf("expected max_conns 15, got %d", cfg.Postgres.MaxConns)
	}
	if cfg.Provisioning.TrialDays != 30 {
		t.Errorf("expected trial_days 30, got %d", cfg.Provisioning.TrialDays)
	}
	if cfg.Provisioning.TempPasswordLength != 12 {
		t.Errorf("expected temp_password_length 12, got %d", cfg.Provisioning.TempPasswordLength)
	}
	if !cfg.Auth.ProvisioningRequiresSuperAdmin {
		t.Error("expected provisioning to require super admin by default")
	}
	if cfg.NATS.URL != "" {
		t.Errorf("expected NATS disabled by default, got %q", cfg.NATS.URL)
	}
	if cfg.NATS.BreakerFailures != 5 {
		t.Errorf("expected breaker_failures 5, got %d", cfg.NATS.BreakerFailures)
	}
}

func TestLoadYAMLOverride(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "test.yaml")

	content := `
server:
  port: "9090"
  cors_origin: "http://example.com"
postgres:
  max_conns: 20
logging:
  level: "debug"
provisioning:
  trial_days: 14
`
	if err := os.WriteFile(yamlPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Defaults()
	if err := loadYAML(&cfg, yamlPath); err != nil {
		t.Fatal(err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Server.CORSOrigin != "http://example.com" {
		t.Errorf("expected cors http://example.com, got %s", cfg.Server.CORSOrigin)
	}
	if cfg.Postgres.MaxConns != 20 {
		t.Errorf("expected max_conns 20, got %d", cfg.Postgres.MaxConns)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Logging.Level)
	}
	if cfg.Provisioning.TrialDays != 14 {
		t.Errorf("expected trial_days 14, got %d", cfg.Provisioning.TrialDays)
	}
	// Unchanged fields keep defaults
	if cfg.Auth.BcryptCost != 12 {
		t.Errorf("expected default bcrypt cost, got %d", cfg.Auth.BcryptCost)
	}
}

func TestLoadYAMLMissing(t *testing.T) {
	cfg := Defaults()
	err := loadYAML(&cfg, "/nonexistent/path.yaml")
	if err != nil {
		t.Errorf("missing YAML should not error, got %v", err)
	}
}

func TestLoadYAMLInvalid(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(yamlPath, []byte("server: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Defaults()
	if err := loadYAML(&cfg, yamlPath); err == nil {
		t.Error("expected parse error for malformed YAML")
	}
}

func TestEnvOverride(t *testing.T) {
	cfg := Defaults()

	t.Setenv("SCHOOLFORGE_PORT", "7070")
	t.Setenv("DATABASE_URL", "postgres://test:test@db:5432/test")
	t.Setenv("SCHOOLFORGE_PG_MAX_CONNS", "25")
	t.Setenv("SCHOOLFORGE_LOG_LEVEL", "warn")
	t.Setenv("SCHOOLFORGE_SESSION_TTL", "1h")
	t.Setenv("SCHOOLFORGE_BCRYPT_COST", "10")
	t.Setenv("SCHOOLFORGE_PROVISIONING_REQUIRES_SUPER_ADMIN", "false")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "collector:4317")

	loadEnv(&cfg)

	if cfg.Server.Port != "7070" {
		t.Errorf("expected port 7070, got %s", cfg.Server.Port)
	}
	if cfg.Postgres.DSN != "postgres://test:test@db:5432/test" {
		t.Errorf("unexpected DSN: %s", cfg.Postgres.DSN)
	}
	if cfg.Postgres.MaxConns != 25 {
		t.Errorf("expected max_conns 25, got %d", cfg.Postgres.MaxConns)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected log level warn, got %s", cfg.Logging.Level)
	}
	if cfg.Auth.SessionTTL != time.Hour {
		t.Errorf("expected session ttl 1h, got %v", cfg.Auth.SessionTTL)
	}
	if cfg.Auth.BcryptCost != 10 {
		t.Errorf("expected bcrypt cost 10, got %d", cfg.Auth.BcryptCost)
	}
	if cfg.Auth.ProvisioningRequiresSuperAdmin {
		t.Error("expected provisioning guard disabled")
	}
	if cfg.Telemetry.OTLPEndpoint != "collector:4317" {
		t.Errorf("expected otlp endpoint, got %q", cfg.Telemetry.OTLPEndpoint)
	}
}

func TestEnvInvalidValuesIgnored(t *testing.T) {
	cfg := Defaults()

	t.Setenv("SCHOOLFORGE_PG_MAX_CONNS", "not-a-number")
	t.Setenv("SCHOOLFORGE_SESSION_TTL", "forever")
	t.Setenv("SCHOOLFORGE_LOG_ASYNC", "maybe")

	loadEnv(&cfg)

	if cfg.Postgres.MaxConns != 15 {
		t.Errorf("invalid int should keep default, got %d", cfg.Postgres.MaxConns)
	}
	if cfg.Auth.SessionTTL != 12*time.Hour {
		t.Errorf("invalid duration should keep default, got %v", cfg.Auth.SessionTTL)
	}
	if cfg.Logging.Async {
		t.Error("invalid bool should keep default")
	}
}

func TestValidateRequired(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{"empty port", func(c *Config) { c.Server.Port = "" }, "server.port"},
		{"empty dsn", func(c *Config) { c.Postgres.DSN = "" }, "postgres.dsn"},
		{"zero max conns", func(c *Config) { c.Postgres.MaxConns = 0 }, "postgres.max_conns"},
		{"nats without stream", func(c *Config) { c.NATS.URL = "nats://localhost:4222"; c.NATS.Stream = "" }, "nats.stream"},
		{"zero burst", func(c *Config) { c.Rate.Burst = 0 }, "rate.burst"},
		{"short secret", func(c *Config) { c.Auth.JWTSecret = "short" }, "auth.jwt_secret"},
		{"bcrypt cost too low", func(c *Config) { c.Auth.BcryptCost = 2 }, "auth.bcrypt_cost"},
		{"bcrypt cost too high", func(c *Config) { c.Auth.BcryptCost = 40 }, "auth.bcrypt_cost"},
		{"zero session ttl", func(c *Config) { c.Auth.SessionTTL = 0 }, "auth.session_ttl"},
		{"zero trial days", func(c *Config) { c.Provisioning.TrialDays = 0 }, "provisioning.trial_days"},
		{"short temp password", func(c *Config) { c.Provisioning.TempPasswordLength = 4 }, "provisioning.temp_password_length"},
		{"zero slug attempts", func(c *Config) { c.Provisioning.SlugAttempts = 0 }, "provisioning.slug_attempts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			cfg.Auth.JWTSecret = testSecret
			tt.modify(&cfg)
			err := validate(&cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	cfg := Defaults()
	cfg.Auth.JWTSecret = testSecret
	if err := validate(&cfg); err != nil {
		t.Errorf("defaults with a secret should be valid, got %v", err)
	}
}

func TestValidateDefaultsWithoutSecret(t *testing.T) {
	cfg := Defaults()
	if err := validate(&cfg); err == nil {
		t.Error("defaults without a JWT secret must not validate")
	}
}
