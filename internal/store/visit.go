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

// VisitStore records post opens and reading positions.
type VisitStore struct {
	db *sql.DB
}

// NewVisitStore returns a new VisitStore.
func NewVisitStore(db *sql.DB) *VisitStore {
	return &VisitStore{db: db}
}

// Record upserts a visit for the identity. The first open inserts a row;
// later opens refresh visit_at and overwrite the read percentage with the
// latest reported value, keeping the stored one when none is reported. The
// partial unique indexes on (post_id, user_id) and (post_id, ip) are the
// conflict targets, one per identity kind.
func (s *VisitStore) Record(postID uuid.UUID, identity models.VisitorIdentity, percentage *int) error {
	if !identity.Valid() {
		return fmt.Errorf("record visit: identity must carry exactly one of user id and ip")
	}

	var err error
	if identity.UserID != nil {
		_, err = s.db.Exec(`
			INSERT INTO visits (post_id, user_id, percentage)
			VALUES ($1, $2, $3)
			ON CONFLICT (post_id, user_id) WHERE user_id IS NOT NULL
			DO UPDATE SET
				percentage = COALESCE(EXCLUDED.percentage, visits.percentage),
				visit_at = NOW()
		`, postID, *identity.UserID, percentage)
	} else {
		_, err = s.db.Exec(`
			INSERT INTO visits (post_id, ip, percentage)
			VALUES ($1, $2, $3)
			ON CONFLICT (post_id, ip) WHERE ip IS NOT NULL
			DO UPDATE SET
				percentage = COALESCE(EXCLUDED.percentage, visits.percentage),
				visit_at = NOW()
		`, postID, *identity.IP, percentage)
	}
	if err != nil {
		return fmt.Errorf("record visit: %w", err)
	}
	return nil
}

// CountByPost returns the number of distinct visitors a post has had.
func (s *VisitStore) CountByPost(postID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM visits WHERE post_id = $1`, postID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count visits: %w", err)
	}
	return count, nil
}

// VisitedPosts returns one page of the identity's visited published posts,
// latest visit first, plus the total. One row per (post, identity) keeps
// the list deduplicated.
func (s *VisitStore) VisitedPosts(identity models.VisitorIdentity, limit, offset int) ([]models.Post, int, error) {
	if !identity.Valid() {
		return nil, 0, fmt.Errorf("visited posts: identity must carry exactly one of user id and ip")
	}

	where := "v.user_id = $1"
	var key any
	if identity.UserID != nil {
		key = *identity.UserID
	}
	if identity.IP != nil {
		where = "v.ip = $1"
		key = *identity.IP
	}

	// Count and page in one transaction so the total matches the rows.
	tx, err := s.db.Begin()
	if err != nil {
		return nil, 0, fmt.Errorf("list visited posts: %w", err)
	}
	defer tx.Rollback()

	var total int
	err = tx.QueryRow(`
		SELECT COUNT(*)
		FROM visits v
		JOIN posts p ON p.id = v.post_id AND p.status = 'PUBLISHED'
		WHERE `+where, key).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count visited posts: %w", err)
	}

	rows, err := tx.Query(`
		SELECT `+postColumns+`
		FROM visits v
		JOIN posts p ON p.id = v.post_id AND p.status = 'PUBLISHED'
		JOIN users u ON u.id = p.author_id
		WHERE `+where+`
		ORDER BY v.visit_at DESC
		LIMIT $2 OFFSET $3
	`, key, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list visited posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan visited post: %w", err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return posts, total, tx.Commit()
}

// SaveProgress upserts the user's reading position for a post.
func (s *VisitStore) SaveProgress(userID, postID uuid.UUID, percentage int) error {
	_, err := s.db.Exec(`
		INSERT INTO read_progress (user_id, post_id, percentage)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, post_id)
		DO UPDATE SET percentage = EXCLUDED.percentage, updated_at = NOW()
	`, userID, postID, percentage)
	if err != nil {
		return fmt.Errorf("save read progress: %w", err)
	}
	return nil
}

// FindProgress returns the user's saved position for a post, or nil when
// nothing was saved yet.
func (s *VisitStore) FindProgress(userID, postID uuid.UUID) (*models.ReadProgress, error) {
	rp := &models.ReadProgress{}
	err := s.db.QueryRow(`
		SELECT user_id, post_id, percentage, updated_at
		FROM read_progress WHERE user_id = $1 AND post_id = $2
	`, userID, postID).Scan(&rp.UserID, &rp.PostID, &rp.Percentage, &rp.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find read progress: %w", err)
	}
	return rp, nil
}

// History returns the user's reading positions, most recently updated
// first.
func (s *VisitStore) History(userID uuid.UUID) ([]models.ReadProgress, error) {
	rows, err := s.db.Query(`
		SELECT user_id, post_id, percentage, updated_at
		FROM read_progress
		WHERE user_id = $1
		ORDER BY updated_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list read history: %w", err)
	}
	defer rows.Close()

	var items []models.ReadProgress
	for rows.Next() {
		var rp models.ReadProgress
		if err := rows.Scan(&rp.UserID, &rp.PostID, &rp.Percentage, &rp.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan read progress: %w", err)
		}
		items = append(items, rp)
	}
	return items, rows.Err()
}
