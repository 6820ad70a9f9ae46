// models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles
const (
	RoleSuperAdmin  = "SUPER_ADMIN"
	RoleTenantAdmin = "TENANT_ADMIN"
	RoleAgent       = "AGENT"
)

// User model. Agents and tenant admins are tenant-scoped; platform admins
// carry no tenantId.
type User struct {
	ID             primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Name           string              `json:"name" bson:"name"`
	Email          string              `json:"email" bson:"email"`
	Password       string              `json:"password,omitempty" bson:"password"`
	Role           string              `json:"role" bson:"role"`
	TenantID       *primitive.ObjectID `json:"tenantId,omitempty" bson:"tenantId,omitempty"`
	IsActive       bool                `json:"isActive" bson:"isActive"`
	LastActivityAt time.Time           `json:"lastActivityAt,omitempty" bson:"lastActivityAt,omitempty"`
	CreatedAt      time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued token plus the signed-in user
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// ForgotPasswordRequest represents the forgot-password request body
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest represents the reset-password request body
type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

// CreateAgentRequest represents the request body for creating an agent user
type CreateAgentRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// UpdateAgentStatusRequest toggles an agent's active flag
type UpdateAgentStatusRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}
