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

// ChangeRequestStore manages proposed edits to published posts.
type ChangeRequestStore struct {
	db *sql.DB
}

// NewChangeRequestStore returns a new ChangeRequestStore.
func NewChangeRequestStore(db *sql.DB) *ChangeRequestStore {
	return &ChangeRequestStore{db: db}
}

const changeRequestColumns = `
	id, post_id, user_id, title, body, category_id,
	approved_at, approved_by, created_at`

func scanChangeRequest(row interface{ Scan(...any) error }) (*models.ChangeRequest, error) {
	cr := &models.ChangeRequest{}
	err := row.Scan(
		&cr.ID, &cr.PostID, &cr.UserID, &cr.Title, &cr.Body, &cr.CategoryID,
		&cr.ApprovedAt, &cr.ApprovedBy, &cr.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return cr, nil
}

// Create inserts a change request and its subcategory selections in one
// transaction.
func (s *ChangeRequestStore) Create(cr *models.ChangeRequest) (*models.ChangeRequest, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("create change request begin: %w", err)
	}
	defer tx.Rollback()

	result, err := scanChangeRequest(tx.QueryRow(`
		INSERT INTO change_requests (post_id, user_id, title, body, category_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+changeRequestColumns,
		cr.PostID, cr.UserID, cr.Title, cr.Body, cr.CategoryID,
	))
	if err != nil {
		return nil, fmt.Errorf("create change request: %w", err)
	}

	for _, subID := range cr.SubcategoryIDs {
		if _, err := tx.Exec(`
			INSERT INTO change_request_subcategories (change_request_id, subcategory_id)
			VALUES ($1, $2)
		`, result.ID, subID); err != nil {
			return nil, fmt.Errorf("link change request subcategory: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("create change request commit: %w", err)
	}
	result.SubcategoryIDs = cr.SubcategoryIDs
	return result, nil
}

// FindByID retrieves a change request with its subcategory selections.
// Returns nil if not found.
func (s *ChangeRequestStore) FindByID(id uuid.UUID) (*models.ChangeRequest, error) {
	cr, err := scanChangeRequest(s.db.QueryRow(`
		SELECT `+changeRequestColumns+` FROM change_requests WHERE id = $1
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find change request: %w", err)
	}

	rows, err := s.db.Query(`
		SELECT subcategory_id FROM change_request_subcategories WHERE change_request_id = $1
	`, id)
	if err != nil {
		return nil, fmt.Errorf("load change request subcategories: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var subID uuid.UUID
		if err := rows.Scan(&subID); err != nil {
			return nil, fmt.Errorf("scan change request subcategory: %w", err)
		}
		cr.SubcategoryIDs = append(cr.SubcategoryIDs, subID)
	}
	return cr, rows.Err()
}

// ListPending returns unapproved change requests, oldest first, so the
// moderation queue drains in submission order.
func (s *ChangeRequestStore) ListPending() ([]models.ChangeRequest, error) {
	rows, err := s.db.Query(`
		SELECT ` + changeRequestColumns + `
		FROM change_requests
		WHERE approved_at IS NULL
		ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("list pending change requests: %w", err)
	}
	defer rows.Close()

	var items []models.ChangeRequest
	for rows.Next() {
		cr, err := scanChangeRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan change request: %w", err)
		}
		items = append(items, *cr)
	}
	return items, rows.Err()
}

// Apply copies an already-merged post snapshot over the live row and
// stamps the request approved, in one transaction. The caller merges the
// request's diff into post before calling.
func (s *ChangeRequestStore) Apply(cr *models.ChangeRequest, post *models.Post, approverID uuid.UUID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("apply change request begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		UPDATE posts SET
			title = $1, slug = $2, body = $3, secondary_text = $4,
			category_id = $5, updated_at = NOW()
		WHERE id = $6
	`, post.Title, post.Slug, post.Body, post.SecondaryText, post.CategoryID, post.ID)
	if err != nil {
		return fmt.Errorf("apply change request to post: %w", err)
	}

	if len(cr.SubcategoryIDs) > 0 {
		if _, err := tx.Exec(`DELETE FROM post_subcategories WHERE post_id = $1`, post.ID); err != nil {
			return fmt.Errorf("apply change request clear subcategories: %w", err)
		}
		for _, subID := range cr.SubcategoryIDs {
			if _, err := tx.Exec(`
				INSERT INTO post_subcategories (post_id, subcategory_id) VALUES ($1, $2)
			`, post.ID, subID); err != nil {
				return fmt.Errorf("apply change request link subcategory: %w", err)
			}
		}
	}

	_, err = tx.Exec(`
		UPDATE change_requests SET approved_at = NOW(), approved_by = $2 WHERE id = $1
	`, cr.ID, approverID)
	if err != nil {
		return fmt.Errorf("apply change request stamp: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("apply change request commit: %w", err)
	}
	return nil
}

// Delete removes a change request and its subcategory links.
func (s *ChangeRequestStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM change_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete change request: %w", err)
	}
	return nil
}
