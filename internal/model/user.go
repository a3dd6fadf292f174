package model

import "time"

// Role — закрытое множество ролей пользователя.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

// ParseRole clamps an arbitrary string to the closed enum.
// Unrecognized values fall back to RoleUser (fail-safe-low).
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleAdmin, RoleManager, RoleUser:
		return Role(s)
	default:
		return RoleUser
	}
}

// User — серверная модель учётной записи.
// PasswordHash никогда не отдаётся наружу, см. UserResponse.
type User struct {
	ID           string `gorm:"primaryKey;type:uuid"`
	Email        string `gorm:"uniqueIndex;not null"`
	Name         string `gorm:"not null"`
	PasswordHash string `gorm:"not null"`
	Role         Role   `gorm:"not null;default:user"`
	IsActive     bool   `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	LastLogin *time.Time
}

// UserResponse — форма пользователя для ответов API, без хеша пароля.
type UserResponse struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Role      Role       `json:"role"`
	IsActive  bool       `json:"isActive"`
	CreatedAt time.Time  `json:"createdAt"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

// ToResponse возвращает безопасную проекцию пользователя.
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		LastLogin: u.LastLogin,
	}
}
