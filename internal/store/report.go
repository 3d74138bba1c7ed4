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

// ReportStore manages reader reports against posts.
type ReportStore struct {
	db *sql.DB
}

// NewReportStore returns a new ReportStore.
func NewReportStore(db *sql.DB) *ReportStore {
	return &ReportStore{db: db}
}

// Create files a report against a post and returns it.
func (s *ReportStore) Create(r *models.Report) (*models.Report, error) {
	result := &models.Report{}
	err := s.db.QueryRow(`
		INSERT INTO reports (post_id, user_id, reason)
		VALUES ($1, $2, $3)
		RETURNING id, post_id, user_id, reason, status, created_at
	`, r.PostID, r.UserID, r.Reason).Scan(
		&result.ID, &result.PostID, &result.UserID, &result.Reason,
		&result.Status, &result.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}
	return result, nil
}

// FindByID retrieves a report by ID. Returns nil if not found.
func (s *ReportStore) FindByID(id uuid.UUID) (*models.Report, error) {
	r := &models.Report{}
	err := s.db.QueryRow(`
		SELECT r.id, r.post_id, r.user_id, r.reason, r.status, r.created_at, u.username
		FROM reports r
		JOIN users u ON u.id = r.user_id
		WHERE r.id = $1
	`, id).Scan(
		&r.ID, &r.PostID, &r.UserID, &r.Reason, &r.Status, &r.CreatedAt,
		&r.ReporterUsername,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find report by id: %w", err)
	}
	return r, nil
}

// ListByStatus returns reports in the given state, oldest first so the
// queue drains in filing order.
func (s *ReportStore) ListByStatus(status models.ReportStatus) ([]models.Report, error) {
	return s.list(`
		SELECT r.id, r.post_id, r.user_id, r.reason, r.status, r.created_at, u.username
		FROM reports r
		JOIN users u ON u.id = r.user_id
		WHERE r.status = $1
		ORDER BY r.created_at
	`, status)
}

// ListAll returns every report regardless of state, oldest first.
func (s *ReportStore) ListAll() ([]models.Report, error) {
	return s.list(`
		SELECT r.id, r.post_id, r.user_id, r.reason, r.status, r.created_at, u.username
		FROM reports r
		JOIN users u ON u.id = r.user_id
		ORDER BY r.created_at
	`)
}

// ListByUser returns the reports filed by one user, oldest first.
func (s *ReportStore) ListByUser(userID uuid.UUID) ([]models.Report, error) {
	return s.list(`
		SELECT r.id, r.post_id, r.user_id, r.reason, r.status, r.created_at, u.username
		FROM reports r
		JOIN users u ON u.id = r.user_id
		WHERE r.user_id = $1
		ORDER BY r.created_at
	`, userID)
}

func (s *ReportStore) list(query string, args ...any) ([]models.Report, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var items []models.Report
	for rows.Next() {
		var r models.Report
		err := rows.Scan(
			&r.ID, &r.PostID, &r.UserID, &r.Reason, &r.Status, &r.CreatedAt,
			&r.ReporterUsername,
		)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

// UpdateStatus resolves or dismisses a report.
func (s *ReportStore) UpdateStatus(id uuid.UUID, status models.ReportStatus) error {
	_, err := s.db.Exec(`UPDATE reports SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("update report status: %w", err)
	}
	return nil
}

// Delete removes a report.
func (s *ReportStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM reports WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	return nil
}
