package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"SafeShare/internal/ledger"
	"SafeShare/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestAuditLogs(t *testing.T) {
	t.Run("admin reads the journal and the read itself is audited", func(t *testing.T) {
		env := newHandlersTestEnv(t)
		env.ledger.Append(model.AuditEntry{
			ActorID: "u1", ActorLabel: "alice@x.com",
			Action: model.ActionLoginSuccess, Resource: "Authentication System",
			Success: true, Risk: model.RiskLow,
		})

		req := httptest.NewRequest(http.MethodGet, "/api/audit-logs", nil)
		addAuth(t, req, "adm", "admin@x.com", model.RoleAdmin, env.cfg.AuthSecret)
		rr := do(env, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var body []model.AuditEntry
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		// запись о самом чтении журнала попадает в ответ первой
		assert.Len(t, body, 2)
		assert.Equal(t, model.ActionAuditLogAccess, body[0].Action)
		assert.Equal(t, model.ActionLoginSuccess, body[1].Action)
	})

	t.Run("manager is not allowed", func(t *testing.T) {
		env := newHandlersTestEnv(t)

		req := httptest.NewRequest(http.MethodGet, "/api/audit-logs", nil)
		addAuth(t, req, "m1", "mgr@x.com", model.RoleManager, env.cfg.AuthSecret)
		rr := do(env, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
		got := env.ledger.Query(ledger.Filter{Action: model.ActionUnauthorizedAccess})
		assert.Len(t, got, 1)
	})
}

func TestSecurityAlerts(t *testing.T) {
	env := newHandlersTestEnv(t)
	env.ledger.Append(model.AuditEntry{Action: model.ActionLoginSuccess, Risk: model.RiskLow, Success: true})
	env.ledger.Append(model.AuditEntry{Action: model.ActionThreatDetected, Risk: model.RiskHigh, Success: false})

	req := httptest.NewRequest(http.MethodGet, "/api/security-alerts", nil)
	addAuth(t, req, "u1", "alice@x.com", model.RoleUser, env.cfg.AuthSecret)
	rr := do(env, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var body []model.AuditEntry
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Len(t, body, 1)
	assert.Equal(t, model.RiskHigh, body[0].Risk)
}

func TestDashboardStats(t *testing.T) {
	env := newHandlersTestEnv(t)
	env.files.On("CountFiles", mock.Anything).Return(int64(5), nil).Once()
	env.users.On("CountUsers", mock.Anything).Return(int64(3), nil).Once()
	env.files.On("SumSizes", mock.Anything).Return(int64(4096), nil).Once()
	env.ledger.Append(model.AuditEntry{Action: model.ActionThreatDetected, Risk: model.RiskHigh})

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/stats", nil)
	addAuth(t, req, "u1", "alice@x.com", model.RoleUser, env.cfg.AuthSecret)
	rr := do(env, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var body struct {
		TotalFiles       int64 `json:"totalFiles"`
		TotalUsers       int64 `json:"totalUsers"`
		SecurityAlerts   int   `json:"securityAlerts"`
		StorageUsedBytes int64 `json:"storageUsedBytes"`
		ThreatDetections int   `json:"threatDetections"`
	}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, int64(5), body.TotalFiles)
	assert.Equal(t, int64(3), body.TotalUsers)
	assert.Equal(t, 1, body.SecurityAlerts)
	assert.Equal(t, int64(4096), body.StorageUsedBytes)
	assert.Equal(t, 1, body.ThreatDetections)
}
