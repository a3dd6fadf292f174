package model

import "time"

// RiskLevel — уровень риска события аудита.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Action — закрытое множество тегов аудируемых действий.
type Action string

const (
	ActionLoginSuccess        Action = "LOGIN_SUCCESS"
	ActionLoginAttempt        Action = "LOGIN_ATTEMPT"
	ActionRegistration        Action = "USER_REGISTERED"
	ActionRegistrationAttempt Action = "REGISTRATION_ATTEMPT"
	ActionFileUpload          Action = "FILE_UPLOAD"
	ActionFileDownload        Action = "FILE_DOWNLOAD"
	ActionFileDelete          Action = "FILE_DELETE"
	ActionThreatDetected      Action = "THREAT_DETECTED"
	ActionUnauthorizedAccess  Action = "UNAUTHORIZED_ACCESS_ATTEMPT"
	ActionUnauthorizedFile    Action = "UNAUTHORIZED_FILE_ACCESS"
	ActionUnauthorizedDelete  Action = "UNAUTHORIZED_FILE_DELETE"
	ActionUserListAccess      Action = "USER_LIST_ACCESS"
	ActionUserCreated         Action = "USER_CREATED"
	ActionUserUpdated         Action = "USER_UPDATED"
	ActionUserDeleted         Action = "USER_DELETED"
	ActionAuditLogAccess      Action = "AUDIT_LOG_ACCESS"
)

// AuditEntry — запись журнала аудита. После записи в журнал никогда
// не изменяется. ActorLabel — снимок на момент события, не живая ссылка:
// остаётся осмысленным после удаления актора.
type AuditEntry struct {
	ID        string    `json:"id"`
	Seq       uint64    `json:"-"` // порядковый номер, назначается журналом
	Timestamp time.Time `json:"timestamp"`

	ActorID    string `json:"userId"`
	ActorLabel string `json:"userName"`

	Action   Action `json:"action"`
	Resource string `json:"resource"`

	IPAddress string `json:"ipAddress"`
	UserAgent string `json:"userAgent"`

	Success bool      `json:"success"`
	Details string    `json:"details"`
	Risk    RiskLevel `json:"riskLevel"`
}
