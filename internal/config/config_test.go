package config

import (
	"flag"
	"os"
	"testing"
)

// resetFlagSet создаёт новый FlagSet перед каждым вызовом NewConfig,
// чтобы избежать повторной регистрации одних и тех же флагов между тестами.
func resetFlagSet(t *testing.T) {
	t.Helper()
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	// подавляем вывод парсера флагов в тестах
	flag.CommandLine.SetOutput(os.Stderr)
}

func TestNewConfig_DefaultsWhenEnvEmpty(t *testing.T) {
	t.Setenv("RUN_ADDRESS", "")
	t.Setenv("DATABASE_URI", "")
	t.Setenv("AUTH_SECRET", "")
	t.Setenv("ENCRYPTION_KEY", "")
	t.Setenv("DATA_DIR", "")
	t.Setenv("MAX_UPLOAD_MB", "")
	t.Setenv("AUDIT_CAPACITY", "")
	t.Setenv("QUARANTINE_RETENTION_DAYS", "")
	t.Setenv("ADMIN_EMAIL", "")
	t.Setenv("ADMIN_PASSWORD", "")

	resetFlagSet(t)
	cfg := NewConfig()

	if cfg.RunAddr != "localhost:8081" {
		t.Fatalf("RunAddr default expected 'localhost:8081', got %q", cfg.RunAddr)
	}
	if cfg.AuthSecret != "dev-secret-key" {
		t.Fatalf("AuthSecret default expected 'dev-secret-key', got %q", cfg.AuthSecret)
	}
	if cfg.DataDir != "data" {
		t.Fatalf("DataDir default expected 'data', got %q", cfg.DataDir)
	}
	if cfg.MaxUploadMB != 100 {
		t.Fatalf("MaxUploadMB default expected 100, got %d", cfg.MaxUploadMB)
	}
	if cfg.AuditCapacity != 1000 {
		t.Fatalf("AuditCapacity default expected 1000, got %d", cfg.AuditCapacity)
	}
	if cfg.QuarantineRetentionDays != 30 {
		t.Fatalf("QuarantineRetentionDays default expected 30, got %d", cfg.QuarantineRetentionDays)
	}
	if cfg.AdminEmail != "admin@safeshare.local" {
		t.Fatalf("AdminEmail default expected 'admin@safeshare.local', got %q", cfg.AdminEmail)
	}
	if cfg.AdminPassword != "" {
		t.Fatalf("AdminPassword must stay empty without env, got %q", cfg.AdminPassword)
	}
}

func TestNewConfig_EnvOverrides(t *testing.T) {
	t.Setenv("RUN_ADDRESS", "example.com:9000")
	t.Setenv("DATABASE_URI", "postgres://u:p@db:5432/safeshare")
	t.Setenv("AUTH_SECRET", "top")
	t.Setenv("ENCRYPTION_KEY", "0123456789abcdef0123456789abcdef")
	t.Setenv("DATA_DIR", "/var/lib/safeshare")
	t.Setenv("MAX_UPLOAD_MB", "10")
	t.Setenv("AUDIT_CAPACITY", "50")
	t.Setenv("QUARANTINE_RETENTION_DAYS", "7")

	resetFlagSet(t)
	cfg := NewConfig()

	if cfg.RunAddr != "example.com:9000" {
		t.Fatalf("RunAddr expected 'example.com:9000', got %q", cfg.RunAddr)
	}
	if cfg.DatabaseDSN != "postgres://u:p@db:5432/safeshare" {
		t.Fatalf("DatabaseDSN expected from env, got %q", cfg.DatabaseDSN)
	}
	if cfg.AuthSecret != "top" {
		t.Fatalf("AuthSecret expected from env 'top', got %q", cfg.AuthSecret)
	}
	if cfg.EncryptionKey != "0123456789abcdef0123456789abcdef" {
		t.Fatalf("EncryptionKey expected from env, got %q", cfg.EncryptionKey)
	}
	if cfg.MaxUploadMB != 10 {
		t.Fatalf("MaxUploadMB expected 10, got %d", cfg.MaxUploadMB)
	}
	if cfg.AuditCapacity != 50 {
		t.Fatalf("AuditCapacity expected 50, got %d", cfg.AuditCapacity)
	}
	if cfg.QuarantineRetentionDays != 7 {
		t.Fatalf("QuarantineRetentionDays expected 7, got %d", cfg.QuarantineRetentionDays)
	}
}

func TestNewConfig_InvalidRunAddrFallback(t *testing.T) {
	// адрес со схемой невалиден, откатываемся на localhost:8081
	t.Setenv("RUN_ADDRESS", "http://bad:8080")

	resetFlagSet(t)
	cfg := NewConfig()

	if cfg.RunAddr != "localhost:8081" {
		t.Fatalf("invalid RUN_ADDRESS must fallback to 'localhost:8081', got %q", cfg.RunAddr)
	}
}
