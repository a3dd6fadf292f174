package service

import (
	"context"
	"errors"

	"SafeShare/internal/crypto"
	"SafeShare/internal/ledger"
	"SafeShare/internal/model"
	"SafeShare/internal/policy"
	"SafeShare/internal/repo"
	"SafeShare/internal/threat"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FileService — оркестратор конвейера загрузки: классификация →
// карантин-или-шифрование → сохранение → аудит. Единственный компонент,
// которому позволено звать классификатор и шифратор. Блокирующая работа
// (шифрование, дисковый ввод-вывод) не держит никаких общих блокировок —
// критические секции живут внутри БД и журнала.
type FileService struct {
	files      repo.FileRepository
	blobs      *repo.BlobStore
	cipher     *crypto.Cipher
	classifier *threat.Classifier
	ledger     *ledger.Ledger
	logger     *zap.SugaredLogger
}

func NewFileService(
	files repo.FileRepository,
	blobs *repo.BlobStore,
	cipher *crypto.Cipher,
	classifier *threat.Classifier,
	l *ledger.Ledger,
	logger *zap.SugaredLogger,
) *FileService {
	return &FileService{
		files:      files,
		blobs:      blobs,
		cipher:     cipher,
		classifier: classifier,
		ledger:     l,
		logger:     logger,
	}
}

// Upload проводит принятый в память файл через конвейер.
// Состояния: Received → Classified → {Quarantined | Encrypting → Persisted}.
// Вердикт классификатора окончателен, пути повтора с переопределением нет.
func (s *FileService) Upload(ctx context.Context, p Principal, name, mediaType string, content []byte, meta Meta) (*model.FileRecord, error) {
	verdict := s.classifier.Classify(name, content)
	if verdict.Blocked {
		// Карантин: сырые байты под свежим id, исходное имя — для форензики.
		if _, qErr := s.blobs.Quarantine(name, content); qErr != nil {
			s.logger.Errorw("quarantine write failed", "file", name, "error", qErr)
		}
		s.ledger.Append(model.AuditEntry{
			ActorID: p.ID, ActorLabel: p.Email,
			Action: model.ActionThreatDetected, Resource: name,
			IPAddress: meta.IPAddress, UserAgent: meta.UserAgent,
			Success: false, Details: verdict.Reason, Risk: verdict.Risk,
		})
		return nil, &ThreatError{Reason: verdict.Reason, Risk: verdict.Risk}
	}

	blob, err := s.cipher.Seal(content)
	if err != nil {
		s.auditUploadFailure(p, name, meta, "Encryption failed")
		return nil, ErrStorage
	}

	fileID := uuid.NewString()
	blobName := fileID + ".enc"
	if err := s.blobs.SaveEncrypted(blobName, blob); err != nil {
		s.logger.Errorw("encrypted blob write failed", "file", name, "error", err)
		s.auditUploadFailure(p, name, meta, "Storage failure")
		return nil, ErrStorage
	}

	rec := &model.FileRecord{
		ID:           fileID,
		Name:         name,
		Type:         mediaType,
		Size:         int64(len(content)),
		OwnerID:      p.ID,
		OwnerLabel:   p.Email,
		IsEncrypted:  true,
		ThreatStatus: "safe",
		Shared:       false,
		BlobName:     blobName,
	}
	if err := s.files.CreateFile(ctx, rec); err != nil {
		// метаданные не записались — блоб не должен осиротеть
		if delErr := s.blobs.DeleteEncrypted(blobName); delErr != nil {
			s.logger.Errorw("orphan blob cleanup failed", "blob", blobName, "error", delErr)
		}
		s.auditUploadFailure(p, name, meta, "Storage failure")
		return nil, ErrStorage
	}

	s.ledger.Append(model.AuditEntry{
		ActorID: p.ID, ActorLabel: p.Email,
		Action: model.ActionFileUpload, Resource: name,
		IPAddress: meta.IPAddress, UserAgent: meta.UserAgent,
		Success: true, Details: "File uploaded and encrypted successfully", Risk: model.RiskLow,
	})
	return rec, nil
}

func (s *FileService) auditUploadFailure(p Principal, name string, meta Meta, cause string) {
	s.ledger.Append(model.AuditEntry{
		ActorID: p.ID, ActorLabel: p.Email,
		Action: model.ActionFileUpload, Resource: name,
		IPAddress: meta.IPAddress, UserAgent: meta.UserAgent,
		Success: false, Details: "Upload failed: " + cause, Risk: model.RiskMedium,
	})
}

// List возвращает файлы, видимые субъекту. admin и manager видят всё
// вместе с личностью загрузившего; обычный пользователь — только свои
// и помеченные shared, с отредактированной меткой владельца.
func (s *FileService) List(ctx context.Context, p Principal) ([]model.FileResponse, error) {
	recs, err := s.files.ListFiles(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.FileResponse, 0, len(recs))
	for _, rec := range recs {
		if !policy.CanAccess(p.Role, p.ID, rec.OwnerID, rec.Shared, policy.OpFileList) {
			continue
		}
		out = append(out, model.FileResponse{
			ID:           rec.ID,
			Name:         rec.Name,
			Type:         rec.Type,
			Size:         rec.Size,
			UploadedBy:   policy.OwnerLabel(p.Role, p.ID, rec.OwnerID, rec.OwnerLabel),
			UploadedAt:   rec.UploadedAt,
			IsEncrypted:  rec.IsEncrypted,
			ThreatStatus: rec.ThreatStatus,
			Shared:       rec.Shared,
			Downloads:    rec.Downloads,
		})
	}
	return out, nil
}

// Download авторизует, расшифровывает и отдаёт плейнтекст файла.
// Отказ в доступе аудируется и счётчик скачиваний не меняется.
func (s *FileService) Download(ctx context.Context, p Principal, id string, meta Meta) (*model.FileRecord, []byte, error) {
	rec, err := s.files.GetFileByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	if !policy.CanAccess(p.Role, p.ID, rec.OwnerID, rec.Shared, policy.OpFileDownload) {
		s.ledger.Append(model.AuditEntry{
			ActorID: p.ID, ActorLabel: p.Email,
			Action: model.ActionUnauthorizedFile, Resource: rec.Name,
			IPAddress: meta.IPAddress, UserAgent: meta.UserAgent,
			Success: false, Details: "Attempted to download file without permission", Risk: model.RiskMedium,
		})
		return nil, nil, ErrForbidden
	}

	blob, err := s.blobs.ReadEncrypted(rec.BlobName)
	if err != nil {
		s.logger.Errorw("encrypted blob read failed", "file_id", rec.ID, "error", err)
		s.auditDownloadFailure(p, rec.Name, meta, "Blob missing or unreadable")
		return nil, nil, ErrStorage
	}

	plain, err := s.cipher.Open(blob)
	if err != nil {
		// повреждённый блоб или чужой ключ: частичные данные не отдаются
		s.logger.Errorw("blob decrypt failed", "file_id", rec.ID, "error", err)
		s.auditDownloadFailure(p, rec.Name, meta, "Decrypt failure")
		return nil, nil, ErrStorage
	}

	// Инкремент одним UPDATE после успешной расшифровки; 0 затронутых
	// строк значит, что запись конкурентно удалена.
	affected, err := s.files.IncrementDownloads(ctx, rec.ID)
	if err != nil {
		return nil, nil, err
	}
	if affected == 0 {
		return nil, nil, ErrNotFound
	}
	rec.Downloads++

	s.ledger.Append(model.AuditEntry{
		ActorID: p.ID, ActorLabel: p.Email,
		Action: model.ActionFileDownload, Resource: rec.Name,
		IPAddress: meta.IPAddress, UserAgent: meta.UserAgent,
		Success: true, Details: "File downloaded and decrypted successfully", Risk: model.RiskLow,
	})
	return rec, plain, nil
}

func (s *FileService) auditDownloadFailure(p Principal, resource string, meta Meta, cause string) {
	s.ledger.Append(model.AuditEntry{
		ActorID: p.ID, ActorLabel: p.Email,
		Action: model.ActionFileDownload, Resource: resource,
		IPAddress: meta.IPAddress, UserAgent: meta.UserAgent,
		Success: false, Details: "Download failed: " + cause, Risk: model.RiskMedium,
	})
}

// Delete удаляет метаданные и шифроблоб. Сначала метаданные, затем блоб:
// неудача удаления блоба логируется, но не блокирует удаление записи —
// осознанный компромисс в пользу консистентности списков.
func (s *FileService) Delete(ctx context.Context, p Principal, id string, meta Meta) error {
	rec, err := s.files.GetFileByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if !policy.CanAccess(p.Role, p.ID, rec.OwnerID, rec.Shared, policy.OpFileDelete) {
		s.ledger.Append(model.AuditEntry{
			ActorID: p.ID, ActorLabel: p.Email,
			Action: model.ActionUnauthorizedDelete, Resource: rec.Name,
			IPAddress: meta.IPAddress, UserAgent: meta.UserAgent,
			Success: false, Details: "Attempted to delete file without permission", Risk: model.RiskMedium,
		})
		return ErrForbidden
	}

	if err := s.files.DeleteFile(ctx, rec.ID); err != nil {
		return err
	}
	if err := s.blobs.DeleteEncrypted(rec.BlobName); err != nil {
		s.logger.Errorw("encrypted blob delete failed", "file_id", rec.ID, "error", err)
	}

	s.ledger.Append(model.AuditEntry{
		ActorID: p.ID, ActorLabel: p.Email,
		Action: model.ActionFileDelete, Resource: rec.Name,
		IPAddress: meta.IPAddress, UserAgent: meta.UserAgent,
		Success: true, Details: "File deleted successfully", Risk: model.RiskLow,
	})
	return nil
}
