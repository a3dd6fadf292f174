package service

import (
	"context"
	"errors"
	"time"

	"SafeShare/internal/auth"
	"SafeShare/internal/ledger"
	"SafeShare/internal/model"
	"SafeShare/internal/repo"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// bcryptCost — рабочий фактор хеширования пароля.
const bcryptCost = 12

// minPasswordLen — минимальная длина пароля при регистрации.
const minPasswordLen = 8

// UserService инкапсулирует учётные записи: регистрацию, вход, выпуск
// и проверку токенов, административное управление пользователями.
type UserService struct {
	repo       repo.UserRepository
	ledger     *ledger.Ledger
	authSecret string
	tokenTTL   time.Duration
}

func NewUserService(r repo.UserRepository, l *ledger.Ledger, authSecret string) *UserService {
	return &UserService{repo: r, ledger: l, authSecret: authSecret, tokenTTL: auth.DefaultTTL}
}

// Register создаёт пользователя. Роль зажимается в закрытое множество
// (неизвестное значение — user, осознанный fail-safe-low). Пароль
// хешируется необратимо, плейнтекст не сохраняется и не логируется.
func (s *UserService) Register(ctx context.Context, name, email, password, role string, meta Meta) (*model.User, error) {
	if len(password) < minPasswordLen {
		return nil, ErrWeakPassword
	}

	if existing, err := s.repo.GetUserByEmail(ctx, email); err == nil && existing != nil {
		s.ledger.Append(model.AuditEntry{
			ActorID: "unknown", ActorLabel: email,
			Action: model.ActionRegistrationAttempt, Resource: "User Registration",
			IPAddress: meta.IPAddress, UserAgent: meta.UserAgent,
			Success: false, Details: "Email already exists", Risk: model.RiskLow,
		})
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         model.ParseRole(role),
		IsActive:     true,
		LastLogin:    &now,
	}
	created, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}

	s.ledger.Append(model.AuditEntry{
		ActorID: created.ID, ActorLabel: created.Name,
		Action: model.ActionRegistration, Resource: "User Registration",
		IPAddress: meta.IPAddress, UserAgent: meta.UserAgent,
		Success: true, Details: "New user account created", Risk: model.RiskLow,
	})
	return created, nil
}

// Authenticate проверяет учётные данные. Все три причины отказа —
// отсутствующий пользователь, выключенный аккаунт, неверный пароль —
// возвращают один и тот же ErrInvalidCredentials; различаются они
// только в детали записи аудита.
func (s *UserService) Authenticate(ctx context.Context, email, password string, meta Meta) (*model.User, error) {
	failed := func(actorID, actorLabel, cause string) {
		s.ledger.Append(model.AuditEntry{
			ActorID: actorID, ActorLabel: actorLabel,
			Action: model.ActionLoginAttempt, Resource: "Authentication System",
			IPAddress: meta.IPAddress, UserAgent: meta.UserAgent,
			Success: false, Details: cause, Risk: model.RiskMedium,
		})
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			failed("unknown", email, "User not found")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		failed(user.ID, user.Name, "Account is deactivated")
		return nil, ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		failed(user.ID, user.Name, "Invalid password")
		return nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if err := s.repo.TouchLastLogin(ctx, user.ID, now); err == nil {
		user.LastLogin = &now
	}

	s.ledger.Append(model.AuditEntry{
		ActorID: user.ID, ActorLabel: user.Name,
		Action: model.ActionLoginSuccess, Resource: "Authentication System",
		IPAddress: meta.IPAddress, UserAgent: meta.UserAgent,
		Success: true, Details: "User logged in successfully", Risk: model.RiskLow,
	})
	return user, nil
}

// IssueToken выпускает bearer-токен для пользователя.
func (s *UserService) IssueToken(user *model.User) (string, error) {
	return auth.GenerateToken(s.authSecret, user, s.tokenTTL)
}

// VerifyToken проверяет токен и возвращает claims.
func (s *UserService) VerifyToken(token string) (*auth.Claims, error) {
	return auth.ParseToken(s.authSecret, token)
}

// Me возвращает пользователя по id из claims.
func (s *UserService) Me(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// ListUsers возвращает всех пользователей (без хешей — проекцию строит
// хендлер через ToResponse). Доступ к списку аудируется.
func (s *UserService) ListUsers(ctx context.Context, p Principal, meta Meta) ([]model.User, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	s.ledger.Append(model.AuditEntry{
		ActorID: p.ID, ActorLabel: p.Email,
		Action: model.ActionUserListAccess, Resource: "User Management",
		IPAddress: meta.IPAddress, UserAgent: meta.UserAgent,
		Success: true, Details: "Accessed user list", Risk: model.RiskLow,
	})
	return users, nil
}

// CreateUser — административное создание учётной записи.
func (s *UserService) CreateUser(ctx context.Context, p Principal, name, email, password, role string, meta Meta) (*model.User, error) {
	if len(password) < minPasswordLen {
		return nil, ErrWeakPassword
	}
	if existing, err := s.repo.GetUserByEmail(ctx, email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         model.ParseRole(role),
		IsActive:     true,
	}
	created, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}

	s.ledger.Append(model.AuditEntry{
		ActorID: p.ID, ActorLabel: p.Email,
		Action: model.ActionUserCreated, Resource: email,
		IPAddress: meta.IPAddress, UserAgent: meta.UserAgent,
		Success: true, Details: "New user created with role: " + string(created.Role), Risk: model.RiskLow,
	})
	return created, nil
}

// UserUpdate — частичное обновление учётной записи администратором.
type UserUpdate struct {
	Name     *string
	Email    *string
	Role     *string
	IsActive *bool
}

// UpdateUser применяет непустые поля upd к пользователю id.
func (s *UserService) UpdateUser(ctx context.Context, p Principal, id string, upd UserUpdate, meta Meta) (*model.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if upd.Name != nil && *upd.Name != "" {
		user.Name = *upd.Name
	}
	if upd.Email != nil && *upd.Email != "" {
		user.Email = *upd.Email
	}
	if upd.Role != nil && *upd.Role != "" {
		user.Role = model.ParseRole(*upd.Role)
	}
	if upd.IsActive != nil {
		user.IsActive = *upd.IsActive
	}

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	s.ledger.Append(model.AuditEntry{
		ActorID: p.ID, ActorLabel: p.Email,
		Action: model.ActionUserUpdated, Resource: user.Email,
		IPAddress: meta.IPAddress, UserAgent: meta.UserAgent,
		Success: true, Details: "User information updated", Risk: model.RiskLow,
	})
	return user, nil
}

// DeleteUser удаляет учётную запись. Собственный аккаунт удалить нельзя.
// FileRecord удаляемого пользователя не трогаются: владение становится
// висячей меткой, записи аудита хранят имя снимком.
func (s *UserService) DeleteUser(ctx context.Context, p Principal, id string, meta Meta) error {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if user.ID == p.ID {
		return ErrSelfDelete
	}

	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return err
	}

	s.ledger.Append(model.AuditEntry{
		ActorID: p.ID, ActorLabel: p.Email,
		Action: model.ActionUserDeleted, Resource: user.Email,
		IPAddress: meta.IPAddress, UserAgent: meta.UserAgent,
		Success: true, Details: "User account deleted", Risk: model.RiskMedium,
	})
	return nil
}
