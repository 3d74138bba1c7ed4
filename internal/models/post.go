// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// PostStatus represents the editorial state of a post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "DRAFT"
	PostStatusPending   PostStatus = "PENDING"
	PostStatusPublished PostStatus = "PUBLISHED"
	PostStatusDenied    PostStatus = "DENIED"
	PostStatusDeleted   PostStatus = "DELETED"
)

// ValidPostStatus reports whether s is one of the known editorial states.
func ValidPostStatus(s PostStatus) bool {
	switch s {
	case PostStatusDraft, PostStatusPending, PostStatusPublished,
		PostStatusDenied, PostStatusDeleted:
		return true
	}
	return false
}

// Post is a published or in-review article. Vote counters are denormalized
// and always equal the live count of vote rows of each polarity.
type Post struct {
	ID               uuid.UUID  `json:"id"`
	Title            string     `json:"title"`
	Slug             string     `json:"slug"`
	Body             string     `json:"body"`
	SecondaryText    *string    `json:"secondary_text,omitempty"`
	CategoryID       uuid.UUID  `json:"category_id"`
	AuthorID         uuid.UUID  `json:"author_id"`
	Status           PostStatus `json:"status"`
	ThumbnailMediaID *uuid.UUID `json:"thumbnail_media_id,omitempty"`
	UpvoteCount      int        `json:"upvote_count"`
	DownvoteCount    int        `json:"downvote_count"`
	MongoOID         *string    `json:"mongo_oid,omitempty"` // legacy import marker
	PublishedAt      *time.Time `json:"published_at,omitempty"`
	ApprovedBy       *uuid.UUID `json:"approved_by,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	// Virtual fields populated by store methods.
	SubcategoryIDs []uuid.UUID `json:"subcategory_ids,omitempty"`
	Author         *PostAuthor `json:"author,omitempty"`
	Category       *Category   `json:"category,omitempty"`
}

// PostAuthor is the author projection embedded in post reads. It carries
// only fields safe for any caller.
type PostAuthor struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Name     string    `json:"name"`
}

// IsPublished returns true if the post is in published status.
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

// ChangeRequest holds proposed edits to a published post. The live post is
// not touched until a moderator approves the request.
type ChangeRequest struct {
	ID         uuid.UUID  `json:"id"`
	PostID     uuid.UUID  `json:"post_id"`
	UserID     uuid.UUID  `json:"user_id"`
	Title      *string    `json:"title,omitempty"`
	Body       *string    `json:"body,omitempty"`
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
	ApprovedBy *uuid.UUID `json:"approved_by,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`

	SubcategoryIDs []uuid.UUID `json:"subcategory_ids,omitempty"`
}

// Approved returns true once a moderator has applied the request.
func (cr *ChangeRequest) Approved() bool {
	return cr.ApprovedAt != nil
}
