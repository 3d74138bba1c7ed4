// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"sportwire/internal/apperr"
	"sportwire/internal/authz"
	"sportwire/internal/markdown"
	"sportwire/internal/middleware"
	"sportwire/internal/models"
	"sportwire/internal/posts"
	"sportwire/internal/search"
	"sportwire/internal/store"
)

// postDetail is the single-post response: the post plus its body
// rendered to HTML.
type postDetail struct {
	*models.Post
	BodyHTML string `json:"body_html"`
}

func detailOf(p *models.Post) postDetail {
	html, err := markdown.Render(p.Body)
	if err != nil {
		// Rendering failures are not worth a 500; the client still has
		// the raw Markdown body.
		slog.Warn("markdown render failed", "post_id", p.ID, "error", err)
	}
	return postDetail{Post: p, BodyHTML: html}
}

// ListPosts handles GET /api/v1/posts. Status and category filters come
// from the query string; non-admin callers are pinned to PUBLISHED by
// the manager regardless of the status they ask for.
func (a *API) ListPosts(w http.ResponseWriter, r *http.Request) {
	id := middleware.IdentityFromCtx(r.Context())
	q := r.URL.Query()

	filter := store.PostFilter{
		Status:        models.PostStatus(q.Get("status")),
		CategorySlugs: q["category"],
	}
	if sub := q.Get("subcategory"); sub != "" {
		subID, err := uuid.Parse(sub)
		if err != nil {
			respondError(w, r, apperr.Validation("subcategory", "must be a valid UUID"))
			return
		}
		filter.SubcategoryID = &subID
	}

	items, meta, err := a.posts.List(id, filter, pageParams(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: items, Meta: meta})
}

// MyPosts handles GET /api/v1/posts/mine: the caller's own posts in any
// status.
func (a *API) MyPosts(w http.ResponseWriter, r *http.Request) {
	id := middleware.IdentityFromCtx(r.Context())
	items, meta, err := a.posts.ListMine(id, pageParams(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: items, Meta: meta})
}

// PendingPosts handles GET /api/v1/pending-posts: the moderation queue.
func (a *API) PendingPosts(w http.ResponseWriter, r *http.Request) {
	id := middleware.IdentityFromCtx(r.Context())
	items, meta, err := a.posts.ListPending(id, pageParams(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: items, Meta: meta})
}

// GetPost handles GET /api/v1/posts/{id}.
func (a *API) GetPost(w http.ResponseWriter, r *http.Request) {
	postID, err := urlID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	p, err := a.posts.Get(middleware.IdentityFromCtx(r.Context()), postID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detailOf(p))
}

// GetPostBySlug handles GET /api/v1/posts/slug/{slug}.
func (a *API) GetPostBySlug(w http.ResponseWriter, r *http.Request) {
	p, err := a.posts.GetBySlug(middleware.IdentityFromCtx(r.Context()), chi.URLParam(r, "slug"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detailOf(p))
}

// createPostRequest is the body for POST /api/v1/posts.
type createPostRequest struct {
	Title            string            `json:"title"`
	Body             string            `json:"body"`
	SecondaryText    *string           `json:"secondary_text"`
	CategoryID       uuid.UUID         `json:"category_id"`
	SubcategoryIDs   []uuid.UUID       `json:"subcategory_ids"`
	ThumbnailMediaID *uuid.UUID        `json:"thumbnail_media_id"`
	Status           models.PostStatus `json:"status"`
}

// CreatePost handles POST /api/v1/posts.
func (a *API) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if err := validatePostInput(req.Title, req.Body); err != nil {
		respondError(w, r, err)
		return
	}

	p, err := a.posts.Create(middleware.IdentityFromCtx(r.Context()), posts.CreateInput{
		Title:            req.Title,
		Body:             req.Body,
		SecondaryText:    req.SecondaryText,
		CategoryID:       req.CategoryID,
		SubcategoryIDs:   req.SubcategoryIDs,
		ThumbnailMediaID: req.ThumbnailMediaID,
		Status:           req.Status,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, detailOf(p))
}

// changePostRequest is the body for PUT /api/v1/posts. All edit fields
// are optional; absent fields are left untouched.
type changePostRequest struct {
	PostID         uuid.UUID   `json:"post_id"`
	Title          *string     `json:"title"`
	Body           *string     `json:"body"`
	CategoryID     *uuid.UUID  `json:"category_id"`
	SubcategoryIDs []uuid.UUID `json:"subcategory_ids"`
}

// changePostResponse reports where the edit landed: directly on the
// post, or parked in a change request awaiting moderation.
type changePostResponse struct {
	Post          *models.Post          `json:"post"`
	ChangeRequest *models.ChangeRequest `json:"change_request,omitempty"`
}

// SubmitChange handles PUT /api/v1/posts. Edits to unpublished posts
// apply immediately; edits to published posts become change requests.
func (a *API) SubmitChange(w http.ResponseWriter, r *http.Request) {
	var req changePostRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	a.submitChange(w, r, req)
}

func (a *API) submitChange(w http.ResponseWriter, r *http.Request, req changePostRequest) {
	if req.PostID == uuid.Nil {
		respondError(w, r, apperr.Validation("post_id", "is required"))
		return
	}
	if req.Title != nil || req.Body != nil {
		title, body := "", ""
		if req.Title != nil {
			title = *req.Title
		}
		if req.Body != nil {
			body = *req.Body
		}
		if err := validateChangeInput(req.Title != nil, title, req.Body != nil, body); err != nil {
			respondError(w, r, err)
			return
		}
	}

	p, cr, err := a.posts.SubmitChange(middleware.IdentityFromCtx(r.Context()), posts.ChangeInput{
		PostID:         req.PostID,
		Title:          req.Title,
		Body:           req.Body,
		CategoryID:     req.CategoryID,
		SubcategoryIDs: req.SubcategoryIDs,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	status := http.StatusOK
	if cr != nil {
		status = http.StatusAccepted
	}
	writeJSON(w, status, changePostResponse{Post: p, ChangeRequest: cr})
}

// UpdatePost handles PUT /api/v1/posts/{id}: the same edit flow as
// SubmitChange, with the post id taken from the URL.
func (a *API) UpdatePost(w http.ResponseWriter, r *http.Request) {
	postID, err := urlID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var req changePostRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	req.PostID = postID
	a.submitChange(w, r, req)
}

// DeletePost handles DELETE /api/v1/posts/{id}.
func (a *API) DeletePost(w http.ResponseWriter, r *http.Request) {
	postID, err := urlID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := a.posts.Delete(middleware.IdentityFromCtx(r.Context()), postID); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ApprovePost handles POST /api/v1/posts/{id}/approve.
func (a *API) ApprovePost(w http.ResponseWriter, r *http.Request) {
	a.moderate(w, r, a.posts.Approve)
}

// DenyPost handles POST /api/v1/posts/{id}/deny.
func (a *API) DenyPost(w http.ResponseWriter, r *http.Request) {
	a.moderate(w, r, a.posts.Deny)
}

func (a *API) moderate(w http.ResponseWriter, r *http.Request, decide func(authz.Identity, uuid.UUID) (*models.Post, error)) {
	postID, err := urlID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	p, err := decide(middleware.IdentityFromCtx(r.Context()), postID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// ListChangeRequests handles GET /api/v1/change-requests: the queue of
// edits to published posts awaiting moderation.
func (a *API) ListChangeRequests(w http.ResponseWriter, r *http.Request) {
	items, err := a.posts.ListChangeRequests(middleware.IdentityFromCtx(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// ApproveChangeRequest handles POST /api/v1/change-requests/{id}/approve.
func (a *API) ApproveChangeRequest(w http.ResponseWriter, r *http.Request) {
	requestID, err := urlID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	p, err := a.posts.ApproveChangeRequest(middleware.IdentityFromCtx(r.Context()), requestID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// RejectChangeRequest handles DELETE /api/v1/change-requests/{id}. The
// request is discarded and the published post is left untouched.
func (a *API) RejectChangeRequest(w http.ResponseWriter, r *http.Request) {
	requestID, err := urlID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := a.posts.RejectChangeRequest(middleware.IdentityFromCtx(r.Context()), requestID); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PopularPosts handles GET /api/v1/posts/popular.
func (a *API) PopularPosts(w http.ResponseWriter, r *http.Request) {
	limit := atoiDefault(r.URL.Query().Get("limit"), 10)
	items, err := a.popularity.PopularPosts(r.Context(), limit)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// FrontPagePost handles GET /api/v1/posts/front-page.
func (a *API) FrontPagePost(w http.ResponseWriter, r *http.Request) {
	p, err := a.popularity.FrontPagePost(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detailOf(p))
}

// SearchText handles GET /api/v1/posts/search-text?q=.
func (a *API) SearchText(w http.ResponseWriter, r *http.Request) {
	if a.search == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "search is not configured"})
		return
	}
	query := r.URL.Query().Get("q")
	if query == "" {
		respondError(w, r, apperr.Validation("q", "is required"))
		return
	}

	slugs, err := a.search.SearchText(r.Context(), query)
	if err != nil {
		respondError(w, r, err)
		return
	}
	a.respondSearch(w, r, slugs)
}

// SearchImage handles POST /api/v1/posts/search-image with a multipart
// "image" part.
func (a *API) SearchImage(w http.ResponseWriter, r *http.Request) {
	if a.search == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "search is not configured"})
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(w, r, apperr.Validation("image", "multipart image part is required"))
		return
	}
	defer file.Close()

	slugs, err := a.search.SearchImage(r.Context(), header.Filename, file)
	if err != nil {
		respondError(w, r, err)
		return
	}
	a.respondSearch(w, r, slugs)
}

func (a *API) respondSearch(w http.ResponseWriter, r *http.Request, slugs []string) {
	items, err := search.Reconcile(a.postStore, slugs)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}
