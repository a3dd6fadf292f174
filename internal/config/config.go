package config

import (
	"flag"
	"regexp"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	// Server settings
	RunAddr     string `env:"RUN_ADDRESS"`
	DatabaseDSN string `env:"DATABASE_URI"`
	AuthSecret  string `env:"AUTH_SECRET"`

	// EncryptionKey — симметричный ключ шифрования файлов, 32 байта для AES-256.
	// Внедряется снаружи, чтобы ротация ключа оставалась вопросом деплоя.
	EncryptionKey string `env:"ENCRYPTION_KEY"`

	// DataDir — каталог для областей encrypted и quarantine.
	DataDir string `env:"DATA_DIR"`

	// Limits / retention
	MaxUploadMB             int `env:"MAX_UPLOAD_MB"`
	AuditCapacity           int `env:"AUDIT_CAPACITY"`
	QuarantineRetentionDays int `env:"QUARANTINE_RETENTION_DAYS"`

	// Bootstrap admin, создаётся при первом запуске если отсутствует.
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
}

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// flags работают ТОЛЬКО если переменные из env не заданы
	flag.StringVar(&cfg.RunAddr, "a", cfg.RunAddr, "адрес и порт сервера")
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД")
	flag.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "секрет для подписи JWT")
	flag.StringVar(&cfg.EncryptionKey, "encryption-key", cfg.EncryptionKey, "32-byte key for at-rest file encryption")
	flag.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "directory for encrypted and quarantined blobs")
	flag.IntVar(&cfg.MaxUploadMB, "max-upload-mb", cfg.MaxUploadMB, "per-file upload ceiling in MB")
	flag.IntVar(&cfg.AuditCapacity, "audit-capacity", cfg.AuditCapacity, "max retained audit entries")
	flag.IntVar(&cfg.QuarantineRetentionDays, "quarantine-days", cfg.QuarantineRetentionDays, "days to keep quarantined files")
	flag.Parse()

	// Defaults
	// validate RunAddr: must be in "address:port" (no scheme, no path). Otherwise use default.
	hostPortRe := regexp.MustCompile(`^[A-Za-z0-9\.\-]*:\d{1,5}$`)
	if !hostPortRe.MatchString(cfg.RunAddr) {
		cfg.RunAddr = "localhost:8081"
	}
	if cfg.AuthSecret == "" {
		cfg.AuthSecret = "dev-secret-key"
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = 100
	}
	if cfg.AuditCapacity <= 0 {
		cfg.AuditCapacity = 1000
	}
	if cfg.QuarantineRetentionDays <= 0 {
		cfg.QuarantineRetentionDays = 30
	}
	if cfg.AdminEmail == "" {
		cfg.AdminEmail = "admin@safeshare.local"
	}

	return cfg
}
