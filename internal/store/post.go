// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"sportwire/internal/models"
	"sportwire/internal/pagination"
)

// postColumns is the SELECT list shared by every post query. p is the
// posts alias, u the joined author.
const postColumns = `
	p.id, p.title, p.slug, p.body, p.secondary_text, p.category_id,
	p.author_id, p.status, p.thumbnail_media_id, p.upvote_count,
	p.downvote_count, p.mongo_oid, p.published_at, p.approved_by,
	p.created_at, p.updated_at,
	u.username, u.name`

// PostStore handles all post-related database operations.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

// PostFilter narrows List results. Zero values mean "any". A post matches
// CategorySlugs when its category slug is any of the listed slugs.
type PostFilter struct {
	Status        models.PostStatus
	CategorySlugs []string
	SubcategoryID *uuid.UUID
	AuthorID      *uuid.UUID
}

func scanPost(row interface{ Scan(...any) error }) (*models.Post, error) {
	p := &models.Post{Author: &models.PostAuthor{}}
	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Body, &p.SecondaryText, &p.CategoryID,
		&p.AuthorID, &p.Status, &p.ThumbnailMediaID, &p.UpvoteCount,
		&p.DownvoteCount, &p.MongoOID, &p.PublishedAt, &p.ApprovedBy,
		&p.CreatedAt, &p.UpdatedAt,
		&p.Author.Username, &p.Author.Name,
	)
	if err != nil {
		return nil, err
	}
	p.Author.ID = p.AuthorID
	return p, nil
}

// List returns one page of posts matching the filter plus the total match
// count, newest first. Published posts order by published_at, everything
// else by created_at.
func (s *PostStore) List(filter PostFilter, page pagination.Params) ([]models.Post, int, error) {
	where := "WHERE 1=1"
	args := []any{}
	n := 0

	if filter.Status != "" {
		n++
		where += " AND p.status = $" + strconv.Itoa(n)
		args = append(args, filter.Status)
	}
	if len(filter.CategorySlugs) > 0 {
		n++
		where += " AND c.slug = ANY($" + strconv.Itoa(n) + ")"
		args = append(args, filter.CategorySlugs)
	}
	if filter.SubcategoryID != nil {
		n++
		where += " AND EXISTS (SELECT 1 FROM post_subcategories ps" +
			" WHERE ps.post_id = p.id AND ps.subcategory_id = $" + strconv.Itoa(n) + ")"
		args = append(args, *filter.SubcategoryID)
	}
	if filter.AuthorID != nil {
		n++
		where += " AND p.author_id = $" + strconv.Itoa(n)
		args = append(args, *filter.AuthorID)
	}

	// Count and page in one transaction so the total matches the rows.
	tx, err := s.db.Begin()
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	defer tx.Rollback()

	var total int
	err = tx.QueryRow(`
		SELECT COUNT(*)
		FROM posts p
		JOIN users u ON u.id = p.author_id
		JOIN categories c ON c.id = p.category_id
		`+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	args = append(args, page.Limit(), page.Offset())
	rows, err := tx.Query(`
		SELECT `+postColumns+`
		FROM posts p
		JOIN users u ON u.id = p.author_id
		JOIN categories c ON c.id = p.category_id
		`+where+`
		ORDER BY COALESCE(p.published_at, p.created_at) DESC
		LIMIT $`+strconv.Itoa(n+1)+` OFFSET $`+strconv.Itoa(n+2),
		args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return posts, total, tx.Commit()
}

// FindByID retrieves a post by its UUID with author and subcategory links
// attached. Returns nil if not found.
func (s *PostStore) FindByID(id uuid.UUID) (*models.Post, error) {
	p, err := scanPost(s.db.QueryRow(`
		SELECT `+postColumns+`
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE p.id = $1
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	if err := s.attachSubcategories(p); err != nil {
		return nil, err
	}
	return p, nil
}

// FindBySlug retrieves a post by its slug regardless of status. Callers
// decide whether the current user may see it. Returns nil if not found.
func (s *PostStore) FindBySlug(slug string) (*models.Post, error) {
	p, err := scanPost(s.db.QueryRow(`
		SELECT `+postColumns+`
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE p.slug = $1
	`, slug))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	if err := s.attachSubcategories(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PostStore) attachSubcategories(p *models.Post) error {
	rows, err := s.db.Query(`
		SELECT subcategory_id FROM post_subcategories WHERE post_id = $1
	`, p.ID)
	if err != nil {
		return fmt.Errorf("load post subcategories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("scan subcategory id: %w", err)
		}
		p.SubcategoryIDs = append(p.SubcategoryIDs, id)
	}
	return rows.Err()
}

// SlugExists reports whether any post already uses the slug.
func (s *PostStore) SlugExists(slug string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM posts WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return exists, nil
}

// Create inserts a new post and its subcategory links in one transaction
// and returns the post with the generated ID.
func (s *PostStore) Create(p *models.Post) (*models.Post, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("create post begin: %w", err)
	}
	defer tx.Rollback()

	result := &models.Post{}
	err = tx.QueryRow(`
		INSERT INTO posts (title, slug, body, secondary_text, category_id,
		                   author_id, status, thumbnail_media_id, mongo_oid)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, title, slug, body, secondary_text, category_id,
		          author_id, status, thumbnail_media_id, upvote_count,
		          downvote_count, mongo_oid, published_at, created_at, updated_at
	`, p.Title, p.Slug, p.Body, p.SecondaryText, p.CategoryID,
		p.AuthorID, p.Status, p.ThumbnailMediaID, p.MongoOID,
	).Scan(
		&result.ID, &result.Title, &result.Slug, &result.Body, &result.SecondaryText,
		&result.CategoryID, &result.AuthorID, &result.Status, &result.ThumbnailMediaID,
		&result.UpvoteCount, &result.DownvoteCount, &result.MongoOID,
		&result.PublishedAt, &result.CreatedAt, &result.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	for _, subID := range p.SubcategoryIDs {
		if _, err := tx.Exec(`
			INSERT INTO post_subcategories (post_id, subcategory_id) VALUES ($1, $2)
		`, result.ID, subID); err != nil {
			return nil, fmt.Errorf("link post subcategory: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("create post commit: %w", err)
	}
	result.SubcategoryIDs = p.SubcategoryIDs
	return result, nil
}

// Update modifies a post's editable fields and replaces its subcategory
// links. Status is not touched here; use UpdateStatus for transitions.
func (s *PostStore) Update(p *models.Post) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("update post begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		UPDATE posts SET
			title = $1, slug = $2, body = $3, secondary_text = $4,
			category_id = $5, thumbnail_media_id = $6, updated_at = NOW()
		WHERE id = $7
	`, p.Title, p.Slug, p.Body, p.SecondaryText, p.CategoryID, p.ThumbnailMediaID, p.ID)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM post_subcategories WHERE post_id = $1`, p.ID); err != nil {
		return fmt.Errorf("clear post subcategories: %w", err)
	}
	for _, subID := range p.SubcategoryIDs {
		if _, err := tx.Exec(`
			INSERT INTO post_subcategories (post_id, subcategory_id) VALUES ($1, $2)
		`, p.ID, subID); err != nil {
			return fmt.Errorf("link post subcategory: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("update post commit: %w", err)
	}
	return nil
}

// UpdateStatus moves a post to the given status. The first transition to
// PUBLISHED stamps published_at; later transitions keep the original date.
func (s *PostStore) UpdateStatus(id uuid.UUID, status models.PostStatus) error {
	publish := status == models.PostStatusPublished
	_, err := s.db.Exec(`
		UPDATE posts SET
			status = $1,
			published_at = CASE WHEN $2 AND published_at IS NULL THEN NOW() ELSE published_at END,
			updated_at = NOW()
		WHERE id = $3
	`, status, publish, id)
	if err != nil {
		return fmt.Errorf("update post status: %w", err)
	}
	return nil
}

// Publish moves a post to PUBLISHED and records who approved it. The
// first publication stamps published_at; a republication after a denial
// keeps the original date.
func (s *PostStore) Publish(id, approverID uuid.UUID) error {
	_, err := s.db.Exec(`
		UPDATE posts SET
			status = $1,
			published_at = COALESCE(published_at, NOW()),
			approved_by = $2,
			updated_at = NOW()
		WHERE id = $3
	`, models.PostStatusPublished, approverID, id)
	if err != nil {
		return fmt.Errorf("publish post: %w", err)
	}
	return nil
}

// Delete removes a post row entirely. Votes, comments, visits and change
// requests cascade. Soft removal is a status transition, not a delete.
func (s *PostStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// Popular returns published posts ranked by distinct visits inside the
// window, most visited first. Ties break on the newer publication date.
func (s *PostStore) Popular(window time.Duration, limit int) ([]models.Post, error) {
	rows, err := s.db.Query(`
		SELECT `+postColumns+`
		FROM posts p
		JOIN users u ON u.id = p.author_id
		LEFT JOIN visits v ON v.post_id = p.id AND v.visit_at > NOW() - make_interval(secs => $1)
		WHERE p.status = 'PUBLISHED'
		GROUP BY p.id, u.username, u.name
		ORDER BY COUNT(v.id) DESC, p.published_at DESC NULLS LAST, p.id
		LIMIT $2
	`, window.Seconds(), limit)
	if err != nil {
		return nil, fmt.Errorf("list popular posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan popular post: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}
