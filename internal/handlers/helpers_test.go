package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"SafeShare/internal/auth"
	"SafeShare/internal/config"
	"SafeShare/internal/crypto"
	"SafeShare/internal/handlers"
	"SafeShare/internal/ledger"
	"SafeShare/internal/model"
	"SafeShare/internal/repo"
	"SafeShare/internal/service"
	"SafeShare/internal/threat"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// Local light mocks
type hMockUserRepo struct{ mock.Mock }

func (m *hMockUserRepo) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *hMockUserRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *hMockUserRepo) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *hMockUserRepo) ListUsers(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if v, ok := args.Get(0).([]model.User); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *hMockUserRepo) UpdateUser(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *hMockUserRepo) DeleteUser(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *hMockUserRepo) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}
func (m *hMockUserRepo) CountUsers(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

var _ repo.UserRepository = (*hMockUserRepo)(nil)

type hMockFileRepo struct{ mock.Mock }

func (m *hMockFileRepo) CreateFile(ctx context.Context, rec *model.FileRecord) error {
	return m.Called(ctx, rec).Error(0)
}
func (m *hMockFileRepo) GetFileByID(ctx context.Context, id string) (*model.FileRecord, error) {
	args := m.Called(ctx, id)
	if rec, ok := args.Get(0).(*model.FileRecord); ok {
		return rec, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *hMockFileRepo) ListFiles(ctx context.Context) ([]model.FileRecord, error) {
	args := m.Called(ctx)
	if v, ok := args.Get(0).([]model.FileRecord); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *hMockFileRepo) DeleteFile(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *hMockFileRepo) IncrementDownloads(ctx context.Context, id string) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}
func (m *hMockFileRepo) CountFiles(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
func (m *hMockFileRepo) SumSizes(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

var _ repo.FileRepository = (*hMockFileRepo)(nil)

type handlersTestEnv struct {
	router http.Handler
	cfg    *config.Config
	users  *hMockUserRepo
	files  *hMockFileRepo
	blobs  *repo.BlobStore
	cipher *crypto.Cipher
	ledger *ledger.Ledger
}

func newHandlersTestEnv(t *testing.T) *handlersTestEnv {
	t.Helper()
	return newHandlersTestEnvUploadMB(t, 1)
}

func newHandlersTestEnvUploadMB(t *testing.T, maxUploadMB int) *handlersTestEnv {
	t.Helper()
	cfg := &config.Config{
		AuthSecret:    "test-secret",
		MaxUploadMB:   maxUploadMB,
		AuditCapacity: 100,
	}
	logger := zap.NewNop().Sugar()

	blobs, err := repo.NewBlobStore(t.TempDir())
	assert.NoError(t, err)
	cipher, err := crypto.NewCipher([]byte("0123456789abcdef0123456789abcdef"))
	assert.NoError(t, err)

	ur := &hMockUserRepo{}
	fr := &hMockFileRepo{}
	l := ledger.New(cfg.AuditCapacity)

	userSvc := service.NewUserService(ur, l, cfg.AuthSecret)
	fileSvc := service.NewFileService(fr, blobs, cipher, threat.NewClassifier(int64(cfg.MaxUploadMB)*1024*1024), l, logger)
	statsSvc := service.NewStatsService(fr, ur, l)

	h := handlers.NewHandler(userSvc, fileSvc, statsSvc, l, logger, cfg)
	return &handlersTestEnv{
		router: h.Router,
		cfg:    cfg,
		users:  ur,
		files:  fr,
		blobs:  blobs,
		cipher: cipher,
		ledger: l,
	}
}

// addAuth выпускает Bearer-токен и вешает его на запрос.
func addAuth(t *testing.T, req *http.Request, id, email string, role model.Role, secret string) {
	t.Helper()
	token, err := auth.GenerateToken(secret, &model.User{ID: id, Email: email, Role: role}, 0)
	assert.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
}

func do(env *handlersTestEnv, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	return rr
}
