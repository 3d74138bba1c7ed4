// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package search talks to the external search collaborators and maps
// their slug hits back onto stored posts.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"sportwire/internal/apperr"
	"sportwire/internal/models"
	"sportwire/internal/store"
)

// ErrNotRelevant is returned when the collaborator judged the query
// meaningless for the corpus. Distinct from an empty result list, which
// is a successful search that matched nothing.
var ErrNotRelevant = errors.New("query not relevant")

// Client calls the external text and image search services.
type Client struct {
	textURL  string
	imageURL string
	client   *http.Client
}

// NewClient builds a search client for the configured collaborator URLs.
func NewClient(textURL, imageURL string) *Client {
	return &Client{
		textURL:  textURL,
		imageURL: imageURL,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

// response is the wire shape both collaborators answer with. Results are
// post slugs in relevance order.
type response struct {
	Relevant bool     `json:"relevant"`
	Results  []string `json:"results"`
}

// SearchText submits a text query and returns matching slugs in
// relevance order.
func (c *Client) SearchText(ctx context.Context, query string) ([]string, error) {
	payload, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, fmt.Errorf("search marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.textURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

// SearchImage submits an image and returns slugs of visually similar
// posts in relevance order.
func (c *Client) SearchImage(ctx context.Context, filename string, image io.Reader) ([]string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return nil, fmt.Errorf("search image form: %w", err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, fmt.Errorf("search image copy: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("search image close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.imageURL, &buf)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return c.do(req)
}

// do executes a prepared search request. Any transport or shape failure
// is an upstream error, never an empty result.
func (c *Client) do(req *http.Request) ([]string, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search http: %w", apperr.ErrUpstream)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("search read body: %w", apperr.ErrUpstream)
	}
	if resp.StatusCode != http.StatusOK {
		slog.Warn("search collaborator error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("search status %d: %w", resp.StatusCode, apperr.ErrUpstream)
	}

	var result response
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("search decode: %w", apperr.ErrUpstream)
	}
	if !result.Relevant {
		return nil, ErrNotRelevant
	}
	return result.Results, nil
}

// Reconcile maps collaborator slugs onto stored published posts,
// preserving the external order. Slugs that no longer resolve are
// skipped and counted; a stale index entry must not fail the search.
func Reconcile(posts *store.PostStore, slugs []string) ([]models.Post, error) {
	var (
		matched []models.Post
		missing int
	)
	for _, s := range slugs {
		p, err := posts.FindBySlug(s)
		if err != nil {
			return nil, err
		}
		if p == nil || !p.IsPublished() {
			missing++
			continue
		}
		matched = append(matched, *p)
	}
	if missing > 0 {
		slog.Warn("search results referenced unknown posts", "missing", missing, "total", len(slugs))
	}
	return matched, nil
}
