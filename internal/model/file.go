package model

import "time"

// FileRecord — метаданные успешно загруженного и зашифрованного файла.
// Инвариант: запись существует тогда и только тогда, когда существует
// её шифроблоб в области encrypted; создаются и удаляются вместе.
type FileRecord struct {
	ID   string `gorm:"primaryKey;type:uuid"`
	Name string `gorm:"not null"`
	Type string `gorm:"not null"` // declared media type
	Size int64  `gorm:"not null"`

	OwnerID string `gorm:"type:uuid;not null;index"` // ссылка на users.id, без каскада
	// OwnerLabel — денормализованная метка владельца (email на момент загрузки).
	// Остаётся осмысленной после удаления пользователя.
	OwnerLabel string `gorm:"not null"`

	IsEncrypted  bool   `gorm:"not null;default:true"`
	ThreatStatus string `gorm:"not null;default:safe"`
	Shared       bool   `gorm:"not null;default:false"`
	Downloads    int64  `gorm:"not null;default:0"`

	// BlobName — имя шифроблоба в области encrypted. Связь с исходным
	// именем файла существует только здесь.
	BlobName string `gorm:"not null"`

	UploadedAt time.Time `gorm:"autoCreateTime"`
}

// FileResponse — проекция FileRecord для ответов API.
// UploadedBy редактируется политикой доступа для роли user.
type FileResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Type         string    `json:"type"`
	Size         int64     `json:"size"`
	UploadedBy   string    `json:"uploadedBy"`
	UploadedAt   time.Time `json:"uploadDate"`
	IsEncrypted  bool      `json:"isEncrypted"`
	ThreatStatus string    `json:"threatStatus"`
	Shared       bool      `json:"shared"`
	Downloads    int64     `json:"downloads"`
}
