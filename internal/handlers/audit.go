package handlers

import (
	"net/http"

	"SafeShare/internal/ledger"
	"SafeShare/internal/model"
	"SafeShare/internal/policy"
	"SafeShare/internal/service"

	"go.uber.org/zap"
)

// AuditHandler отдаёт журнал аудита, алерты и сводку панели.
type AuditHandler struct {
	Stats  *service.StatsService
	Ledger *ledger.Ledger
	Logger *zap.SugaredLogger
}

// NewAuditHandler создаёт хендлер аудита
func NewAuditHandler(stats *service.StatsService, l *ledger.Ledger, logger *zap.SugaredLogger) *AuditHandler {
	return &AuditHandler{Stats: stats, Ledger: l, Logger: logger}
}

// AuditLogs журнал аудита целиком, от новых к старым (admin)
func (h *AuditHandler) AuditLogs(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	if !requireOp(w, r, h.Ledger, p, policy.OpAuditRead) {
		return
	}

	meta := requestMeta(r)
	h.Ledger.Append(model.AuditEntry{
		ActorID: p.ID, ActorLabel: p.Email,
		Action: model.ActionAuditLogAccess, Resource: "Audit System",
		IPAddress: meta.IPAddress, UserAgent: meta.UserAgent,
		Success: true, Details: "Accessed audit logs", Risk: model.RiskLow,
	})

	writeJSON(w, http.StatusOK, h.Ledger.Query(ledger.Filter{}))
}

// SecurityAlerts — проекция событий с высоким риском.
func (h *AuditHandler) SecurityAlerts(w http.ResponseWriter, r *http.Request) {
	if _, ok := principal(w, r); !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.Ledger.HighRisk())
}

// DashboardStats сводка панели
func (h *AuditHandler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	if _, ok := principal(w, r); !ok {
		return
	}

	stats, err := h.Stats.Dashboard(r.Context())
	if err != nil {
		h.Logger.Errorw("DashboardStats: failed to collect", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
