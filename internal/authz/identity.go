// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package authz

import (
	"github.com/google/uuid"

	"sportwire/internal/models"
)

// Identity is the caller decoded from the bearer token. The zero value is
// the anonymous caller.
type Identity struct {
	UserID   uuid.UUID
	Username string
	Role     models.Role
}

// Anonymous reports whether no authenticated user is attached.
func (id Identity) Anonymous() bool {
	return id.UserID == uuid.Nil
}

// IsModerator reports whether the identity holds a moderation-capable role.
func (id Identity) IsModerator() bool {
	return id.Role == models.RoleModerator || id.Role == models.RoleAdmin
}

// IsAdmin reports whether the identity holds the admin role.
func (id Identity) IsAdmin() bool {
	return id.Role == models.RoleAdmin
}
