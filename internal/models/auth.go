package models

import "github.com/golang-jwt/jwt/v5"

// UserRole scopes access to administrative operations.
type UserRole string

const (
	RoleAdmin      UserRole = "ADMIN"
	RoleSuperAdmin UserRole = "SUPERADMIN"
)

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID   string   `json:"user_id"`
	Role     UserRole `json:"role"`
	Email    string   `json:"email"`
	FullName string   `json:"full_name"`
	jwt.RegisteredClaims
}
