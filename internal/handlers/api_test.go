package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"sportwire/internal/apperr"
	"sportwire/internal/search"
)

func TestRespondError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		want      int
		wantField string
	}{
		{"validation", apperr.Validation("title", "is required"), http.StatusBadRequest, "title"},
		{"wrapped validation", fmt.Errorf("create post: %w", apperr.Validation("body", "is required")), http.StatusBadRequest, "body"},
		{"not found", apperr.ErrNotFound, http.StatusNotFound, ""},
		{"wrapped not found", apperr.NotFoundf("post %s", "abc"), http.StatusNotFound, ""},
		{"permission denied", apperr.ErrPermissionDenied, http.StatusForbidden, ""},
		{"not relevant", search.ErrNotRelevant, http.StatusUnprocessableEntity, ""},
		{"upstream", fmt.Errorf("text search: %w", apperr.ErrUpstream), http.StatusBadGateway, ""},
		{"storage upstream", fmt.Errorf("s3 upload media/x: connection reset: %w", apperr.ErrUpstream), http.StatusBadGateway, ""},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/test", nil)
			respondError(rr, req, tt.err)

			if rr.Code != tt.want {
				t.Errorf("status: got %d, want %d", rr.Code, tt.want)
			}
			if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("content type: got %q, want application/json", ct)
			}

			var body errorResponse
			if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Error == "" {
				t.Error("error message should not be empty")
			}
			if body.Field != tt.wantField {
				t.Errorf("field: got %q, want %q", body.Field, tt.wantField)
			}
		})
	}
}

func TestRespondErrorHidesInternals(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", nil)
	respondError(rr, req, errors.New("pq: connection refused on 10.0.0.7"))

	var body errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error != "internal server error" {
		t.Errorf("internal errors must not leak details, got %q", body.Error)
	}
}

func TestPageParams(t *testing.T) {
	req := httptest.NewRequest("GET", "/posts?page=3&pageSize=5", nil)
	p := pageParams(req)
	if p.Page != 3 || p.PageSize != 5 {
		t.Errorf("got page=%d pageSize=%d, want 3/5", p.Page, p.PageSize)
	}

	req = httptest.NewRequest("GET", "/posts?page=junk", nil)
	p = pageParams(req)
	if p.Page != 1 {
		t.Errorf("junk page: got %d, want 1", p.Page)
	}
}
