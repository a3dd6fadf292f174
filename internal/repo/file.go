package repo

import (
	"context"

	"SafeShare/internal/model"

	"gorm.io/gorm"
)

// FileRepository — контракт доступа к FileRecord.
type FileRepository interface {
	CreateFile(ctx context.Context, rec *model.FileRecord) error
	GetFileByID(ctx context.Context, id string) (*model.FileRecord, error)
	ListFiles(ctx context.Context) ([]model.FileRecord, error)
	DeleteFile(ctx context.Context, id string) error
	// IncrementDownloads атомарно увеличивает счётчик скачиваний.
	// Возвращает число затронутых строк: 0 означает, что файл уже удалён.
	IncrementDownloads(ctx context.Context, id string) (int64, error)
	CountFiles(ctx context.Context) (int64, error)
	SumSizes(ctx context.Context) (int64, error)
}

type fileRepo struct {
	db *gorm.DB
}

// NewFileRepository создаёт реализацию репозитория для FileRecord.
func NewFileRepository(db *gorm.DB) FileRepository {
	return &fileRepo{db: db}
}

func (r *fileRepo) CreateFile(ctx context.Context, rec *model.FileRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *fileRepo) GetFileByID(ctx context.Context, id string) (*model.FileRecord, error) {
	var rec model.FileRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *fileRepo) ListFiles(ctx context.Context) ([]model.FileRecord, error) {
	var recs []model.FileRecord
	if err := r.db.WithContext(ctx).Order("uploaded_at").Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *fileRepo) DeleteFile(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.FileRecord{}, "id = ?", id).Error
}

// IncrementDownloads выполняется одним UPDATE, поэтому инкремент и
// конкурентное удаление той же записи не теряют обновлений.
func (r *fileRepo) IncrementDownloads(ctx context.Context, id string) (int64, error) {
	tx := r.db.WithContext(ctx).Model(&model.FileRecord{}).
		Where("id = ?", id).
		UpdateColumn("downloads", gorm.Expr("downloads + 1"))
	return tx.RowsAffected, tx.Error
}

func (r *fileRepo) CountFiles(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.FileRecord{}).Count(&n).Error
	return n, err
}

func (r *fileRepo) SumSizes(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.FileRecord{}).
		Select("COALESCE(SUM(size), 0)").Scan(&total).Error
	return total, err
}
