package threat

import (
	"bytes"
	"path/filepath"
	"strings"

	"SafeShare/internal/model"
)

// Verdict — решение классификатора по кандидату на загрузку.
type Verdict struct {
	Blocked bool
	Reason  string
	Risk    model.RiskLevel
}

// Причины вердикта видны пользователю, внутренности классификатора — нет.
const (
	ReasonSuspiciousExtension = "Suspicious file extension detected"
	ReasonSizeExceeded        = "File size exceeds safe limits"
	ReasonEmbeddedExecutable  = "Potential embedded executable detected"
	ReasonSafe                = "File appears safe"
)

// deniedExtensions — расширения исполняемых файлов и скриптов.
var deniedExtensions = map[string]struct{}{
	".exe": {}, ".bat": {}, ".cmd": {}, ".scr": {}, ".vbs": {}, ".js": {}, ".jar": {},
}

// allowedArchiveExtensions — форматы, для которых ZIP-сигнатура ожидаема.
var allowedArchiveExtensions = map[string]struct{}{
	".zip": {}, ".docx": {}, ".xlsx": {},
}

// Сигнатуры: MZ — исполняемый файл Windows, PK\x03\x04 — ZIP-контейнер.
var (
	magicMZ  = []byte{0x4d, 0x5a}
	magicZIP = []byte{0x50, 0x4b, 0x03, 0x04}
)

// Classifier — эвристический гейт загрузок. Детерминированный, чистый,
// без побочных эффектов; вердикт окончателен для данной попытки.
type Classifier struct {
	// MaxSize — потолок размера файла в байтах.
	MaxSize int64
}

// NewClassifier создаёт классификатор с заданным потолком размера.
func NewClassifier(maxSize int64) *Classifier {
	return &Classifier{MaxSize: maxSize}
}

// Classify проверяет имя, размер и содержимое кандидата, по порядку:
// denylist расширений → потолок размера → сигнатура содержимого.
func (c *Classifier) Classify(filename string, content []byte) Verdict {
	ext := strings.ToLower(filepath.Ext(filename))

	if _, denied := deniedExtensions[ext]; denied {
		return Verdict{Blocked: true, Reason: ReasonSuspiciousExtension, Risk: model.RiskHigh}
	}

	if int64(len(content)) > c.MaxSize {
		return Verdict{Blocked: true, Reason: ReasonSizeExceeded, Risk: model.RiskMedium}
	}

	if bytes.HasPrefix(content, magicMZ) || bytes.HasPrefix(content, magicZIP) {
		if _, allowed := allowedArchiveExtensions[ext]; !allowed {
			return Verdict{Blocked: true, Reason: ReasonEmbeddedExecutable, Risk: model.RiskHigh}
		}
	}

	return Verdict{Blocked: false, Reason: ReasonSafe, Risk: model.RiskLow}
}
