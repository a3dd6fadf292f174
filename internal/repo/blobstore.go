package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// BlobStore — дисковое хранилище блобов с двумя логически раздельными
// областями: encrypted (шифроблобы, имя — свежий uuid без связи с
// исходным именем файла) и quarantine (сырые заблокированные файлы,
// исходное имя сохраняется для форензики). Плейнтекст на диск не
// попадает никогда, кроме карантина.
type BlobStore struct {
	encryptedDir  string
	quarantineDir string
}

// NewBlobStore создаёт области хранения внутри dataDir.
func NewBlobStore(dataDir string) (*BlobStore, error) {
	s := &BlobStore{
		encryptedDir:  filepath.Join(dataDir, "encrypted"),
		quarantineDir: filepath.Join(dataDir, "quarantine"),
	}
	for _, dir := range []string{s.encryptedDir, s.quarantineDir} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create blob dir %s: %w", dir, err)
		}
	}
	return s, nil
}

// SaveEncrypted записывает шифроблоб под заданным именем.
// Паттерн: temp файл → запись → атомарный rename.
func (s *BlobStore) SaveEncrypted(name string, blob []byte) error {
	return writeAtomic(filepath.Join(s.encryptedDir, name), blob)
}

// ReadEncrypted читает шифроблоб по имени.
func (s *BlobStore) ReadEncrypted(name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.encryptedDir, name))
}

// DeleteEncrypted удаляет шифроблоб.
func (s *BlobStore) DeleteEncrypted(name string) error {
	return os.Remove(filepath.Join(s.encryptedDir, name))
}

// Quarantine сохраняет сырые байты заблокированного файла под свежим id,
// сохранив исходное имя в имени файла. Возвращает id карантинной копии.
func (s *BlobStore) Quarantine(originalName string, raw []byte) (string, error) {
	id := uuid.NewString()
	name := fmt.Sprintf("%s_%s", id, filepath.Base(originalName))
	if err := writeAtomic(filepath.Join(s.quarantineDir, name), raw); err != nil {
		return "", err
	}
	return id, nil
}

// PurgeQuarantine удаляет карантинные файлы старше retention.
// Возвращает число удалённых файлов; ошибка удаления отдельного файла
// не прерывает проход.
func (s *BlobStore) PurgeQuarantine(retention time.Duration) (int, error) {
	entries, err := os.ReadDir(s.quarantineDir)
	if err != nil {
		return 0, err
	}
	cutoff := time.Now().Add(-retention)
	removed := 0
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(s.quarantineDir, e.Name())); err == nil {
				removed++
			}
		}
	}
	return removed, nil
}

// QuarantineCount возвращает число файлов в карантине.
func (s *BlobStore) QuarantineCount() (int, error) {
	entries, err := os.ReadDir(s.quarantineDir)
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
