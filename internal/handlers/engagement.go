// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"sportwire/internal/apperr"
	"sportwire/internal/middleware"
	"sportwire/internal/models"
)

// UpvotePost handles POST /api/v1/posts/{id}/upvote. Voting is a
// toggle: a second identical vote removes the first.
func (a *API) UpvotePost(w http.ResponseWriter, r *http.Request) {
	a.toggleVote(w, r, models.VoteTargetPost, true)
}

// DownvotePost handles POST /api/v1/posts/{id}/downvote.
func (a *API) DownvotePost(w http.ResponseWriter, r *http.Request) {
	a.toggleVote(w, r, models.VoteTargetPost, false)
}

// UpvoteComment handles POST /api/v1/comments/{id}/upvote.
func (a *API) UpvoteComment(w http.ResponseWriter, r *http.Request) {
	a.toggleVote(w, r, models.VoteTargetComment, true)
}

// DownvoteComment handles POST /api/v1/comments/{id}/downvote.
func (a *API) DownvoteComment(w http.ResponseWriter, r *http.Request) {
	a.toggleVote(w, r, models.VoteTargetComment, false)
}

func (a *API) toggleVote(w http.ResponseWriter, r *http.Request, target models.VoteTarget, positive bool) {
	targetID, err := urlID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	counts, err := a.ledger.ToggleVote(middleware.IdentityFromCtx(r.Context()), target, targetID, positive)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

// createCommentRequest is the body for POST /api/v1/posts/{id}/comments.
type createCommentRequest struct {
	Body            string     `json:"body"`
	ParentCommentID *uuid.UUID `json:"parent_comment_id"`
}

// CreateComment handles POST /api/v1/posts/{id}/comments.
func (a *API) CreateComment(w http.ResponseWriter, r *http.Request) {
	postID, err := urlID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var req createCommentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if err := validateComment(req.Body); err != nil {
		respondError(w, r, err)
		return
	}

	c, err := a.ledger.CreateComment(middleware.IdentityFromCtx(r.Context()), postID, req.ParentCommentID, req.Body)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// ListComments handles GET /api/v1/posts/{id}/comments. Comments come
// back as a one-level thread: top-level comments with replies attached.
func (a *API) ListComments(w http.ResponseWriter, r *http.Request) {
	postID, err := urlID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	items, err := a.ledger.ListComments(middleware.IdentityFromCtx(r.Context()), postID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// recordVisitRequest is the optional body for POST /api/v1/posts/{id}/read.
type recordVisitRequest struct {
	Percentage *int `json:"percentage"`
}

// RecordVisit handles POST /api/v1/posts/{id}/read. Anonymous readers
// are tracked by client IP, signed-in readers by user id.
func (a *API) RecordVisit(w http.ResponseWriter, r *http.Request) {
	postID, err := urlID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req recordVisitRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, r, err)
			return
		}
	}
	if req.Percentage != nil && (*req.Percentage < 0 || *req.Percentage > 100) {
		respondError(w, r, apperr.Validation("percentage", "must be between 0 and 100"))
		return
	}

	id := middleware.IdentityFromCtx(r.Context())
	if err := a.ledger.RecordVisit(id, postID, middleware.ClientIP(r), req.Percentage); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// saveProgressRequest is the body for POST /api/v1/posts/{id}/progress.
type saveProgressRequest struct {
	Percentage int `json:"percentage"`
}

// SaveProgress handles POST /api/v1/posts/{id}/progress: how far into
// the article the signed-in reader has scrolled.
func (a *API) SaveProgress(w http.ResponseWriter, r *http.Request) {
	postID, err := urlID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var req saveProgressRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if req.Percentage < 0 || req.Percentage > 100 {
		respondError(w, r, apperr.Validation("percentage", "must be between 0 and 100"))
		return
	}

	if err := a.ledger.SaveReadProgress(middleware.IdentityFromCtx(r.Context()), postID, req.Percentage); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReadHistory handles GET /api/v1/posts/read: the posts this reader has
// visited, most recent first.
func (a *API) ReadHistory(w http.ResponseWriter, r *http.Request) {
	id := middleware.IdentityFromCtx(r.Context())
	items, meta, err := a.ledger.ReadHistory(id, middleware.ClientIP(r), pageParams(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: items, Meta: meta})
}
