// internal/domain/user/entity.go
package user

import (
	"database/sql"
	"time"
)

// Roles an account can hold.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
	RoleAgent = "agent"
)

// User is a login account. Agent-role accounts carry the agent they belong
// to so client listings can be scoped.
type User struct {
	ID           int64         `json:"id" db:"id"`
	FullName     string        `json:"full_name" db:"full_name"`
	Email        string        `json:"email" db:"email"`
	PasswordHash string        `json:"-" db:"password_hash"`
	Role         string        `json:"role" db:"role"`
	AgentID      sql.NullInt64 `json:"agent_id,omitempty" db:"agent_id"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at" db:"updated_at"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}
