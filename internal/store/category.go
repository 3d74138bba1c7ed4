// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"sportwire/internal/models"
)

// CategoryStore manages categories and their subcategories.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, slug, thumbnail, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(&c.ID, &c.Name, &c.Slug, &c.Thumbnail, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all categories ordered by name, each with its subcategories
// and a count of published posts attached.
func (s *CategoryStore) List() ([]models.Category, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.name, c.slug, c.thumbnail, c.created_at, c.updated_at,
		       COUNT(p.id) AS post_count
		FROM categories c
		LEFT JOIN posts p ON p.category_id = c.id AND p.status = 'PUBLISHED'
		GROUP BY c.id
		ORDER BY c.name
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	byID := map[uuid.UUID]int{}
	for rows.Next() {
		var c models.Category
		err := rows.Scan(
			&c.ID, &c.Name, &c.Slug, &c.Thumbnail, &c.CreatedAt, &c.UpdatedAt,
			&c.PostCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		byID[c.ID] = len(items)
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	subs, err := s.listSubcategories()
	if err != nil {
		return nil, err
	}
	for _, sub := range subs {
		if i, ok := byID[sub.CategoryID]; ok {
			items[i].Subcategories = append(items[i].Subcategories, sub)
		}
	}
	return items, nil
}

func (s *CategoryStore) listSubcategories() ([]models.Subcategory, error) {
	rows, err := s.db.Query(`
		SELECT id, category_id, name, slug, created_at
		FROM subcategories
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("list subcategories: %w", err)
	}
	defer rows.Close()

	var subs []models.Subcategory
	for rows.Next() {
		var sub models.Subcategory
		if err := rows.Scan(&sub.ID, &sub.CategoryID, &sub.Name, &sub.Slug, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan subcategory: %w", err)
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// FindBySlug retrieves a category by slug. Returns nil if not found.
func (s *CategoryStore) FindBySlug(slug string) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE slug = $1`, slug)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	return c, nil
}

// Create inserts a new category and returns it.
func (s *CategoryStore) Create(c *models.Category) (*models.Category, error) {
	row := s.db.QueryRow(`
		INSERT INTO categories (name, slug, thumbnail)
		VALUES ($1, $2, $3)
		RETURNING `+categoryColumns,
		c.Name, c.Slug, c.Thumbnail,
	)
	result, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return result, nil
}

// Update modifies an existing category.
func (s *CategoryStore) Update(c *models.Category) error {
	_, err := s.db.Exec(`
		UPDATE categories SET
			name = $1, slug = $2, thumbnail = $3, updated_at = NOW()
		WHERE id = $4
	`, c.Name, c.Slug, c.Thumbnail, c.ID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// Delete removes a category by ID. Subcategories cascade; posts keep their
// foreign key, so the caller must reassign or remove them first.
func (s *CategoryStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// CreateSubcategory inserts a subcategory under a category and returns it.
func (s *CategoryStore) CreateSubcategory(sub *models.Subcategory) (*models.Subcategory, error) {
	result := &models.Subcategory{}
	err := s.db.QueryRow(`
		INSERT INTO subcategories (category_id, name, slug)
		VALUES ($1, $2, $3)
		RETURNING id, category_id, name, slug, created_at
	`, sub.CategoryID, sub.Name, sub.Slug).Scan(
		&result.ID, &result.CategoryID, &result.Name, &result.Slug, &result.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create subcategory: %w", err)
	}
	return result, nil
}

// FindSubcategory retrieves a subcategory by ID. Returns nil if not found.
func (s *CategoryStore) FindSubcategory(id uuid.UUID) (*models.Subcategory, error) {
	sub := &models.Subcategory{}
	err := s.db.QueryRow(`
		SELECT id, category_id, name, slug, created_at
		FROM subcategories WHERE id = $1
	`, id).Scan(&sub.ID, &sub.CategoryID, &sub.Name, &sub.Slug, &sub.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find subcategory: %w", err)
	}
	return sub, nil
}

// DeleteSubcategory removes a subcategory. Post links cascade.
func (s *CategoryStore) DeleteSubcategory(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM subcategories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete subcategory: %w", err)
	}
	return nil
}
