// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"sportwire/internal/apperr"
	"sportwire/internal/models"
)

// ListUsers handles GET /api/v1/users: the admin account overview.
func (a *API) ListUsers(w http.ResponseWriter, r *http.Request) {
	items, err := a.userStore.List()
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// updateRoleRequest is the body for PUT /api/v1/users/{id}/role.
type updateRoleRequest struct {
	Role models.Role `json:"role"`
}

// UpdateUserRole handles PUT /api/v1/users/{id}/role.
func (a *API) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	userID, err := urlID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var req updateRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if !models.ValidRole(req.Role) {
		respondError(w, r, apperr.Validation("role", "unknown role"))
		return
	}

	u, err := a.userStore.FindByID(userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if u == nil {
		respondError(w, r, apperr.NotFoundf("user %s", userID))
		return
	}

	if err := a.userStore.UpdateRole(userID, req.Role); err != nil {
		respondError(w, r, err)
		return
	}
	u.Role = req.Role
	writeJSON(w, http.StatusOK, u)
}

// banUserRequest is the body for PUT /api/v1/users/{id}/ban.
type banUserRequest struct {
	Banned bool `json:"banned"`
}

// BanUser handles PUT /api/v1/users/{id}/ban: bans or unbans an account.
func (a *API) BanUser(w http.ResponseWriter, r *http.Request) {
	userID, err := urlID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var req banUserRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	u, err := a.userStore.FindByID(userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if u == nil {
		respondError(w, r, apperr.NotFoundf("user %s", userID))
		return
	}

	if err := a.userStore.SetBanned(userID, req.Banned); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
