package service

import (
	"errors"
	"fmt"

	"SafeShare/internal/model"
)

// Ошибки уровня сервиса. Хендлеры сопоставляют их со статусами HTTP
// через errors.Is / errors.As.
var (
	// ErrEmailTaken — email уже зарегистрирован.
	ErrEmailTaken = errors.New("user with this email already exists")
	// ErrWeakPassword — пароль короче минимума.
	ErrWeakPassword = errors.New("password must be at least 8 characters long")
	// ErrInvalidCredentials — единый ответ на все причины отказа входа
	// (нет пользователя, аккаунт выключен, неверный пароль), чтобы не
	// допускать перечисление аккаунтов. Реальная причина остаётся в аудите.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrNotFound — ресурс отсутствует.
	ErrNotFound = errors.New("not found")
	// ErrForbidden — личность валидна, прав недостаточно.
	ErrForbidden = errors.New("insufficient permissions")
	// ErrSelfDelete — администратор не может удалить собственный аккаунт.
	ErrSelfDelete = errors.New("cannot delete your own account")
	// ErrStorage — внутренний сбой хранилища или крипто. Наружу уходит
	// только общий текст, детали — в лог и аудит.
	ErrStorage = errors.New("internal storage error")
)

// ThreatError — отказ классификатора. Причина видна пользователю,
// внутренности классификатора — нет.
type ThreatError struct {
	Reason string
	Risk   model.RiskLevel
}

func (e *ThreatError) Error() string {
	return fmt.Sprintf("file blocked due to security concerns: %s", e.Reason)
}

// Meta — сетевое происхождение запроса для записей аудита.
type Meta struct {
	IPAddress string
	UserAgent string
}

// Principal — аутентифицированный субъект запроса.
type Principal struct {
	ID    string
	Email string
	Role  model.Role
}
