package main

import (
	"SafeShare/internal/config"
	"SafeShare/internal/crypto"
	"SafeShare/internal/handlers"
	"SafeShare/internal/ledger"
	"SafeShare/internal/middleware"
	"SafeShare/internal/model"
	"SafeShare/internal/repo"
	"SafeShare/internal/service"
	"SafeShare/internal/threat"
	"context"
	"encoding/hex"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	cfg := config.NewConfig()

	// создаём предустановленный регистратор zap
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	sugar := logger.Sugar()
	middleware.SetLogger(sugar)
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	key, err := encryptionKey(cfg.EncryptionKey)
	if err != nil {
		sugar.Fatalw("invalid encryption key", "error", err)
	}
	cipher, err := crypto.NewCipher(key)
	if err != nil {
		sugar.Fatalw("failed to initialize cipher", "error", err)
	}

	gormDB, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}

	blobs, err := repo.NewBlobStore(cfg.DataDir)
	if err != nil {
		sugar.Fatalw("failed to initialize blob store", "error", err)
	}

	userRepo := repo.NewUserRepository(gormDB)
	fileRepo := repo.NewFileRepository(gormDB)
	auditLedger := ledger.New(cfg.AuditCapacity)
	classifier := threat.NewClassifier(int64(cfg.MaxUploadMB) * 1024 * 1024)

	userService := service.NewUserService(userRepo, auditLedger, cfg.AuthSecret)
	fileService := service.NewFileService(fileRepo, blobs, cipher, classifier, auditLedger, sugar)
	statsService := service.NewStatsService(fileRepo, userRepo, auditLedger)

	if err := seedAdmin(gormDB, cfg); err != nil {
		sugar.Fatalw("failed to seed admin user", "error", err)
	}

	// периодическая чистка карантина
	go purgeQuarantineLoop(blobs, cfg.QuarantineRetentionDays, sugar)

	h := handlers.NewHandler(userService, fileService, statsService, auditLedger, sugar, cfg)

	sugar.Infow("Starting server",
		"addr", cfg.RunAddr,
		"data_dir", cfg.DataDir,
		"max_upload_mb", cfg.MaxUploadMB,
		"audit_capacity", cfg.AuditCapacity,
	)

	if err := http.ListenAndServe(cfg.RunAddr, h.Router); err != nil {
		sugar.Fatalw("Server failed", "error", err)
	}
}

// encryptionKey принимает ключ как 32 сырых байта либо 64 hex-символа.
// Ключ обязателен: небезопасного значения по умолчанию нет.
func encryptionKey(s string) ([]byte, error) {
	switch len(s) {
	case 0:
		return nil, errors.New("ENCRYPTION_KEY is required")
	case crypto.KeyLen:
		return []byte(s), nil
	case crypto.KeyLen * 2:
		return hex.DecodeString(s)
	default:
		return nil, errors.New("ENCRYPTION_KEY must be 32 bytes (or 64 hex chars)")
	}
}

// seedAdmin создаёт стартовую админскую учётку, если её ещё нет.
// Без пароля в конфиге ничего не создаётся.
func seedAdmin(db *gorm.DB, cfg *config.Config) error {
	if cfg.AdminPassword == "" {
		return nil
	}
	r := repo.NewUserRepository(db)
	ctx := context.Background()
	if _, err := r.GetUserByEmail(ctx, cfg.AdminEmail); err == nil {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), 12)
	if err != nil {
		return err
	}
	_, err = r.CreateUser(ctx, &model.User{
		ID:           uuid.NewString(),
		Email:        cfg.AdminEmail,
		Name:         "System Administrator",
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
		IsActive:     true,
	})
	return err
}

// purgeQuarantineLoop чистит карантин сразу при старте и далее раз в час,
// чтобы просроченные файлы не переживали рестарт лишний час.
func purgeQuarantineLoop(blobs *repo.BlobStore, retentionDays int, sugar *zap.SugaredLogger) {
	retention := time.Duration(retentionDays) * 24 * time.Hour
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		removed, err := blobs.PurgeQuarantine(retention)
		if err != nil {
			sugar.Errorw("quarantine purge failed", "error", err)
		} else if removed > 0 {
			sugar.Infow("quarantine purged", "removed", removed)
		}
		<-ticker.C
	}
}
