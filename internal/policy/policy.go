package policy

import "SafeShare/internal/model"

// Operation — закрытое множество проверяемых операций.
type Operation string

const (
	OpFileList     Operation = "file_list"
	OpFileDownload Operation = "file_download"
	OpFileDelete   Operation = "file_delete"
	OpUserList     Operation = "user_list"
	OpUserManage   Operation = "user_manage"
	OpAuditRead    Operation = "audit_read"
)

// CanAccess — чистая функция авторизации.
// admin и manager видят все файлы; обычный user — только свои и shared.
// Удаление файла — владелец либо admin/manager. Управление пользователями
// и чтение аудита — только admin; список пользователей — admin и manager.
func CanAccess(role model.Role, callerID, ownerID string, shared bool, op Operation) bool {
	switch op {
	case OpFileList, OpFileDownload:
		if role == model.RoleAdmin || role == model.RoleManager {
			return true
		}
		return callerID == ownerID || shared
	case OpFileDelete:
		if role == model.RoleAdmin || role == model.RoleManager {
			return true
		}
		return callerID == ownerID
	case OpUserList:
		return role == model.RoleAdmin || role == model.RoleManager
	case OpUserManage:
		return role == model.RoleAdmin
	case OpAuditRead:
		return role == model.RoleAdmin
	default:
		return false
	}
}

// OwnerLabel возвращает метку загрузившего для ответа API.
// Для admin/manager — реальная метка; обычному пользователю чужая
// личность не раскрывается.
func OwnerLabel(role model.Role, callerID, ownerID, ownerLabel string) string {
	if role == model.RoleAdmin || role == model.RoleManager {
		return ownerLabel
	}
	if callerID == ownerID {
		return "You"
	}
	return "Shared with you"
}
