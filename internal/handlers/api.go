// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers exposes the Sportwire JSON API. Handlers parse and
// validate the request, call into the domain services, and translate
// domain errors to HTTP statuses in one place (respondError).
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"sportwire/internal/apperr"
	"sportwire/internal/engagement"
	"sportwire/internal/pagination"
	"sportwire/internal/posts"
	"sportwire/internal/search"
	"sportwire/internal/storage"
	"sportwire/internal/store"
)

// API groups all JSON handlers and their collaborators. search and
// storageClient may be nil when the respective backends are not
// configured; the affected endpoints then answer 503.
type API struct {
	posts         *posts.Manager
	popularity    *posts.Popularity
	ledger        *engagement.Ledger
	search        *search.Client
	postStore     *store.PostStore
	categoryStore *store.CategoryStore
	reportStore   *store.ReportStore
	mediaStore    *store.MediaStore
	userStore     *store.UserStore
	storageClient *storage.Client
}

// New creates the API handler group.
func New(
	manager *posts.Manager,
	popularity *posts.Popularity,
	ledger *engagement.Ledger,
	searchClient *search.Client,
	postStore *store.PostStore,
	categoryStore *store.CategoryStore,
	reportStore *store.ReportStore,
	mediaStore *store.MediaStore,
	userStore *store.UserStore,
	storageClient *storage.Client,
) *API {
	return &API{
		posts:         manager,
		popularity:    popularity,
		ledger:        ledger,
		search:        searchClient,
		postStore:     postStore,
		categoryStore: categoryStore,
		reportStore:   reportStore,
		mediaStore:    mediaStore,
		userStore:     userStore,
		storageClient: storageClient,
	}
}

// listResponse is the envelope for paginated collections.
type listResponse struct {
	Items any             `json:"items"`
	Meta  pagination.Meta `json:"meta"`
}

// errorResponse is the uniform error body. Field is set only for
// validation failures.
type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("encode response failed", "error", err)
	}
}

// respondError is the single translation point from domain errors to
// HTTP statuses. Handlers never pick a status for a domain error
// themselves.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *apperr.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Reason, Field: verr.Field})
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, apperr.ErrPermissionDenied):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "forbidden"})
	case errors.Is(err, search.ErrNotRelevant):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "query is not relevant to sports news"})
	case errors.Is(err, apperr.ErrUpstream):
		slog.Error("upstream failure", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "upstream service failed"})
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

// decodeJSON parses the request body into dst, limited to 1 MB.
func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperr.Validation("body", "invalid JSON: %v", err)
	}
	return nil
}

// urlID parses the {id} URL parameter as a UUID.
func urlID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, apperr.Validation("id", "must be a valid UUID")
	}
	return id, nil
}

// pageParams reads ?page= and ?pageSize= with normalized defaults.
func pageParams(r *http.Request) pagination.Params {
	q := r.URL.Query()
	return pagination.Normalize(atoiDefault(q.Get("page"), 1), atoiDefault(q.Get("pageSize"), 0))
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
