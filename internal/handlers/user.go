package handlers

import (
	"encoding/json"
	"net/http"

	"SafeShare/internal/ledger"
	"SafeShare/internal/model"
	"SafeShare/internal/policy"
	"SafeShare/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// UserHandler обрабатывает аутентификацию и управление пользователями.
type UserHandler struct {
	UserService *service.UserService
	Ledger      *ledger.Ledger
	Logger      *zap.SugaredLogger
}

// NewUserHandler создаёт хендлер пользователей
func NewUserHandler(userService *service.UserService, l *ledger.Ledger, logger *zap.SugaredLogger) *UserHandler {
	return &UserHandler{UserService: userService, Ledger: l, Logger: logger}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Message string             `json:"message"`
	User    model.UserResponse `json:"user"`
	Token   string             `json:"token"`
}

// Register регистрация нового пользователя
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Name, email, and password are required")
		return
	}

	user, err := h.UserService.Register(r.Context(), req.Name, req.Email, req.Password, req.Role, requestMeta(r))
	if err != nil {
		serviceError(w, err)
		return
	}

	token, err := h.UserService.IssueToken(user)
	if err != nil {
		h.Logger.Errorw("Register: token issue failed", "user_id", user.ID, "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{
		Message: "User registered successfully",
		User:    user.ToResponse(),
		Token:   token,
	})
}

// Login вход по email и паролю
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.UserService.Authenticate(r.Context(), req.Email, req.Password, requestMeta(r))
	if err != nil {
		serviceError(w, err)
		return
	}

	token, err := h.UserService.IssueToken(user)
	if err != nil {
		h.Logger.Errorw("Login: token issue failed", "user_id", user.ID, "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		Message: "Login successful",
		User:    user.ToResponse(),
		Token:   token,
	})
}

// Me профиль текущего пользователя
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	user, err := h.UserService.Me(r.Context(), p.ID)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user.ToResponse())
}

// ListUsers список пользователей (admin и manager)
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	if !requireOp(w, r, h.Ledger, p, policy.OpUserList) {
		return
	}

	users, err := h.UserService.ListUsers(r.Context(), p, requestMeta(r))
	if err != nil {
		serviceError(w, err)
		return
	}

	out := make([]model.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, users[i].ToResponse())
	}
	writeJSON(w, http.StatusOK, out)
}

// CreateUser административное создание пользователя (admin)
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	if !requireOp(w, r, h.Ledger, p, policy.OpUserManage) {
		return
	}

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Name, email, and password are required")
		return
	}

	user, err := h.UserService.CreateUser(r.Context(), p, req.Name, req.Email, req.Password, req.Role, requestMeta(r))
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User created successfully",
		"user":    user.ToResponse(),
	})
}

type updateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"isActive"`
}

// UpdateUser административное обновление пользователя (admin)
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	if !requireOp(w, r, h.Ledger, p, policy.OpUserManage) {
		return
	}

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request")
		return
	}

	user, err := h.UserService.UpdateUser(r.Context(), p, chi.URLParam(r, "id"), service.UserUpdate{
		Name:     req.Name,
		Email:    req.Email,
		Role:     req.Role,
		IsActive: req.IsActive,
	}, requestMeta(r))
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "User updated successfully",
		"user":    user.ToResponse(),
	})
}

// DeleteUser административное удаление пользователя (admin)
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	if !requireOp(w, r, h.Ledger, p, policy.OpUserManage) {
		return
	}

	if err := h.UserService.DeleteUser(r.Context(), p, chi.URLParam(r, "id"), requestMeta(r)); err != nil {
		serviceError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "User deleted successfully")
}
