// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a user comment on a post. A nil ParentCommentID marks a
// top-level comment; replies reference their parent.
type Comment struct {
	ID              uuid.UUID  `json:"id"`
	PostID          uuid.UUID  `json:"post_id"`
	UserID          uuid.UUID  `json:"user_id"`
	ParentCommentID *uuid.UUID `json:"parent_comment_id,omitempty"`
	Body            string     `json:"body"`
	UpvoteCount     int        `json:"upvote_count"`
	DownvoteCount   int        `json:"downvote_count"`
	CreatedAt       time.Time  `json:"created_at"`

	// Virtual fields populated by store methods.
	Author  *PostAuthor `json:"author,omitempty"`
	Replies []Comment   `json:"replies,omitempty"`
}

// IsReply returns true if the comment answers another comment.
func (c *Comment) IsReply() bool {
	return c.ParentCommentID != nil
}
