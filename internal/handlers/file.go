package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"SafeShare/internal/config"
	"SafeShare/internal/model"
	"SafeShare/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// FileHandler обрабатывает загрузку, листинг, скачивание и удаление файлов.
type FileHandler struct {
	FileService *service.FileService
	Logger      *zap.SugaredLogger
	Config      *config.Config
}

// NewFileHandler создаёт хендлер файлов
func NewFileHandler(fileService *service.FileService, logger *zap.SugaredLogger, cfg *config.Config) *FileHandler {
	return &FileHandler{FileService: fileService, Logger: logger, Config: cfg}
}

// Upload принимает multipart-файл целиком в память и проводит его через
// конвейер: классификация → карантин-или-шифрование → сохранение.
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	// Жёсткий потолок тела запроса: сам файл плюс накладные multipart.
	// maxMemory равен потолку целиком: парсер не выгружает части формы во
	// временные файлы, плейнтекст до вердикта классификатора существует
	// только в памяти.
	maxFile := int64(h.Config.MaxUploadMB) * 1024 * 1024
	r.Body = http.MaxBytesReader(w, r.Body, maxFile+1*1024*1024)

	if err := r.ParseMultipartForm(maxFile + 1*1024*1024); err != nil {
		h.Logger.Warnw("Upload: invalid multipart form", "error", err)
		writeMessage(w, http.StatusBadRequest, "File too large or malformed upload")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	if header.Filename == "" || len(header.Filename) > 255 {
		writeMessage(w, http.StatusBadRequest, "Invalid filename")
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		h.Logger.Warnw("Upload: failed to read file", "error", err)
		writeMessage(w, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}

	mediaType := header.Header.Get("Content-Type")
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}

	rec, err := h.FileService.Upload(r.Context(), p, header.Filename, mediaType, content, requestMeta(r))
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "File uploaded successfully",
		"file":    fileResponseOwn(rec),
	})
}

// fileResponseOwn — проекция только что загруженного файла для его владельца.
func fileResponseOwn(rec *model.FileRecord) model.FileResponse {
	return model.FileResponse{
		ID:           rec.ID,
		Name:         rec.Name,
		Type:         rec.Type,
		Size:         rec.Size,
		UploadedBy:   "You",
		UploadedAt:   rec.UploadedAt,
		IsEncrypted:  rec.IsEncrypted,
		ThreatStatus: rec.ThreatStatus,
		Shared:       rec.Shared,
		Downloads:    rec.Downloads,
	}
}

// List файлы, видимые текущему пользователю
func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	files, err := h.FileService.List(r.Context(), p)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, files)
}

// Download отдаёт расшифрованный файл с исходным именем и типом.
func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	rec, plain, err := h.FileService.Download(r.Context(), p, chi.URLParam(r, "id"), requestMeta(r))
	if err != nil {
		serviceError(w, err)
		return
	}

	w.Header().Set("Content-Type", rec.Type)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", rec.Name))
	w.Header().Set("Content-Length", strconv.Itoa(len(plain)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(plain)
}

// Delete удаляет файл (владелец либо admin/manager)
func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	if err := h.FileService.Delete(r.Context(), p, chi.URLParam(r, "id"), requestMeta(r)); err != nil {
		serviceError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "File deleted successfully")
}
