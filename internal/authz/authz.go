// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package authz is the single permission evaluator for the service. Every
// gated operation consults the same table of (operation × role × ownership)
// rules instead of scattering role checks across handlers.
package authz

import (
	"github.com/google/uuid"

	"sportwire/internal/models"
)

// Op names a gated operation.
type Op string

const (
	OpCreatePost       Op = "post:create"
	OpAdjustPost       Op = "post:adjust" // update, delete, change-request
	OpModeratePost     Op = "post:moderate"
	OpManageCategories Op = "category:manage"
	OpHandleReports    Op = "report:handle"
	OpUploadMedia      Op = "media:upload"
)

// rule says which roles may perform an operation unconditionally, and
// whether resource ownership also grants it.
type rule struct {
	roles      map[models.Role]bool
	ownerGrant bool
}

var matrix = map[Op]rule{
	OpCreatePost: {
		roles: map[models.Role]bool{
			models.RoleEditor:    true,
			models.RoleModerator: true,
			models.RoleAdmin:     true,
		},
	},
	OpAdjustPost: {
		roles: map[models.Role]bool{
			models.RoleModerator: true,
			models.RoleAdmin:     true,
		},
		ownerGrant: true,
	},
	OpModeratePost: {
		roles: map[models.Role]bool{
			models.RoleModerator: true,
			models.RoleAdmin:     true,
		},
	},
	OpManageCategories: {
		roles: map[models.Role]bool{
			models.RoleAdmin: true,
		},
	},
	OpHandleReports: {
		roles: map[models.Role]bool{
			models.RoleAdmin: true,
		},
	},
	OpUploadMedia: {
		roles: map[models.Role]bool{
			models.RoleEditor:    true,
			models.RoleModerator: true,
			models.RoleAdmin:     true,
		},
	},
}

// Can evaluates the matrix for one operation. isOwner is ignored for
// operations without an ownership grant.
func Can(op Op, role models.Role, isOwner bool) bool {
	r, ok := matrix[op]
	if !ok {
		return false
	}
	if r.roles[role] {
		return true
	}
	return r.ownerGrant && isOwner
}

// CanCreatePost reports whether the role may author new posts.
func CanCreatePost(role models.Role) bool {
	return Can(OpCreatePost, role, false)
}

// CanAdjustPost reports whether the actor may mutate the given post
// (edit, delete, file a change request). A false result is a
// permission-denied error at the boundary, not a silent no-op.
func CanAdjustPost(actorID uuid.UUID, role models.Role, post *models.Post) bool {
	return Can(OpAdjustPost, role, actorID == post.AuthorID)
}

// CanReadPost reports whether the actor may see the post at all.
// Published posts are world-readable. Unpublished posts are visible only
// to their author and to ADMIN; for everyone else the caller must answer
// "not found", never "forbidden", so unpublished content does not leak
// its existence.
func CanReadPost(actorID uuid.UUID, role models.Role, post *models.Post) bool {
	if post.Status == models.PostStatusPublished {
		return true
	}
	return actorID == post.AuthorID || role == models.RoleAdmin
}
