// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Role represents a user's permission tier in the system.
type Role string

const (
	RoleUser      Role = "USER"
	RoleEditor    Role = "EDITOR"
	RoleModerator Role = "MODERATOR"
	RoleAdmin     Role = "ADMIN"
)

// ValidRole reports whether r is one of the known role tiers.
func ValidRole(r Role) bool {
	switch r {
	case RoleUser, RoleEditor, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// User mirrors the account record managed by the identity provider. The
// core only reads it for author projections and role checks; token
// issuance and verification live outside this service.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Username     string     `json:"username"`
	Name         string     `json:"name"`
	Email        string     `json:"-"` // Never serialized; shaped out by construction
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	AvatarURL    *string    `json:"avatar_url,omitempty"`
	VerifiedAt   *time.Time `json:"-"`
	BannedAt     *time.Time `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
}

// IsModerator returns true for the roles that can moderate content.
func (u *User) IsModerator() bool {
	return u.Role == RoleModerator || u.Role == RoleAdmin
}

// Banned returns true if the account is currently banned.
func (u *User) Banned() bool {
	return u.BannedAt != nil
}
