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

// CommentStore manages post comments and replies.
type CommentStore struct {
	db *sql.DB
}

// NewCommentStore returns a new CommentStore.
func NewCommentStore(db *sql.DB) *CommentStore {
	return &CommentStore{db: db}
}

const commentColumns = `
	c.id, c.post_id, c.user_id, c.parent_comment_id, c.body,
	c.upvote_count, c.downvote_count, c.created_at,
	u.username, u.name`

func scanComment(row interface{ Scan(...any) error }) (*models.Comment, error) {
	c := &models.Comment{Author: &models.PostAuthor{}}
	err := row.Scan(
		&c.ID, &c.PostID, &c.UserID, &c.ParentCommentID, &c.Body,
		&c.UpvoteCount, &c.DownvoteCount, &c.CreatedAt,
		&c.Author.Username, &c.Author.Name,
	)
	if err != nil {
		return nil, err
	}
	c.Author.ID = c.UserID
	return c, nil
}

// ListByPost returns a post's comments as a two-level thread: top-level
// comments oldest first, each with its replies oldest first.
func (s *CommentStore) ListByPost(postID uuid.UUID) ([]models.Comment, error) {
	rows, err := s.db.Query(`
		SELECT `+commentColumns+`
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.post_id = $1
		ORDER BY c.created_at
	`, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var top []models.Comment
	topIndex := map[uuid.UUID]int{}
	var replies []models.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		if c.ParentCommentID == nil {
			topIndex[c.ID] = len(top)
			top = append(top, *c)
		} else {
			replies = append(replies, *c)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, r := range replies {
		if i, ok := topIndex[*r.ParentCommentID]; ok {
			top[i].Replies = append(top[i].Replies, r)
		}
	}
	return top, nil
}

// FindByID retrieves a comment by ID. Returns nil if not found.
func (s *CommentStore) FindByID(id uuid.UUID) (*models.Comment, error) {
	c, err := scanComment(s.db.QueryRow(`
		SELECT `+commentColumns+`
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.id = $1
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find comment by id: %w", err)
	}
	return c, nil
}

// Create inserts a new comment and returns it with the generated ID.
func (s *CommentStore) Create(c *models.Comment) (*models.Comment, error) {
	result := &models.Comment{}
	err := s.db.QueryRow(`
		INSERT INTO comments (post_id, user_id, parent_comment_id, body)
		VALUES ($1, $2, $3, $4)
		RETURNING id, post_id, user_id, parent_comment_id, body,
		          upvote_count, downvote_count, created_at
	`, c.PostID, c.UserID, c.ParentCommentID, c.Body).Scan(
		&result.ID, &result.PostID, &result.UserID, &result.ParentCommentID,
		&result.Body, &result.UpvoteCount, &result.DownvoteCount, &result.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return result, nil
}

// Delete removes a comment. Replies and votes cascade.
func (s *CommentStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}
