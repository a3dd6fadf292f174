package handlers

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"SafeShare/internal/ledger"
	"SafeShare/internal/middleware"
	"SafeShare/internal/model"
	"SafeShare/internal/policy"
	"SafeShare/internal/service"
)

// Health проверка живости сервиса
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// requestMeta извлекает сетевое происхождение запроса для аудита.
func requestMeta(r *http.Request) service.Meta {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		ip = host
	}
	ua := r.UserAgent()
	if ua == "" {
		ua = "Unknown"
	}
	return service.Meta{IPAddress: ip, UserAgent: ua}
}

// principal возвращает аутентифицированного субъекта или пишет 401/403:
// 401 — токена нет вовсе, 403 — токен есть, но невалиден или истёк.
func principal(w http.ResponseWriter, r *http.Request) (service.Principal, bool) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		if r.Header.Get("Authorization") == "" {
			writeMessage(w, http.StatusUnauthorized, "Access token required")
		} else {
			writeMessage(w, http.StatusForbidden, "Invalid or expired token")
		}
		return service.Principal{}, false
	}
	return service.Principal{ID: claims.UserID, Email: claims.Email, Role: claims.Role}, true
}

// requireOp проверяет ролевую операцию без привязки к ресурсу.
// Отказ аудируется как UNAUTHORIZED_ACCESS_ATTEMPT.
func requireOp(w http.ResponseWriter, r *http.Request, l *ledger.Ledger, p service.Principal, op policy.Operation) bool {
	if policy.CanAccess(p.Role, p.ID, "", false, op) {
		return true
	}
	meta := requestMeta(r)
	l.Append(model.AuditEntry{
		ActorID: p.ID, ActorLabel: p.Email,
		Action: model.ActionUnauthorizedAccess, Resource: r.URL.Path,
		IPAddress: meta.IPAddress, UserAgent: meta.UserAgent,
		Success: false,
		Details: "User with role " + string(p.Role) + " attempted to access a restricted resource",
		Risk:    model.RiskMedium,
	})
	writeMessage(w, http.StatusForbidden, "Insufficient permissions")
	return false
}

// serviceError переводит ошибки сервиса в HTTP-ответы. Внутренние сбои
// наружу уходят одним общим сообщением.
func serviceError(w http.ResponseWriter, err error) {
	var threatErr *service.ThreatError
	switch {
	case errors.As(err, &threatErr):
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"message": "File blocked due to security concerns",
			"reason":  threatErr.Reason,
		})
	case errors.Is(err, service.ErrWeakPassword),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrSelfDelete):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrForbidden):
		writeMessage(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "Not found")
	default:
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}
