// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"

	"sportwire/internal/apperr"
	"sportwire/internal/models"
	"sportwire/internal/slug"
)

// ListCategories handles GET /api/v1/categories: every category with
// its subcategories and published post count.
func (a *API) ListCategories(w http.ResponseWriter, r *http.Request) {
	items, err := a.categoryStore.List()
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// createCategoryRequest is the body for POST /api/v1/categories.
// Subcategories are created together with their parent.
type createCategoryRequest struct {
	Name          string   `json:"name"`
	Thumbnail     *string  `json:"thumbnail"`
	Subcategories []string `json:"subcategories"`
}

// CreateCategory handles POST /api/v1/categories.
func (a *API) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respondError(w, r, apperr.Validation("name", "is required"))
		return
	}

	catSlug := slug.Generate(req.Name)
	if existing, err := a.categoryStore.FindBySlug(catSlug); err != nil {
		respondError(w, r, err)
		return
	} else if existing != nil {
		respondError(w, r, apperr.Validation("name", "duplicates an existing category"))
		return
	}

	c, err := a.categoryStore.Create(&models.Category{
		Name:      req.Name,
		Slug:      catSlug,
		Thumbnail: req.Thumbnail,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	for _, name := range req.Subcategories {
		if strings.TrimSpace(name) == "" {
			continue
		}
		sub, err := a.categoryStore.CreateSubcategory(&models.Subcategory{
			CategoryID: c.ID,
			Name:       name,
			Slug:       catSlug + "-" + slug.Generate(name),
		})
		if err != nil {
			respondError(w, r, err)
			return
		}
		c.Subcategories = append(c.Subcategories, *sub)
	}

	writeJSON(w, http.StatusCreated, c)
}
