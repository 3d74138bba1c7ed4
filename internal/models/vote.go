// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// VoteTarget selects which aggregate a vote applies to. Posts and comments
// share the toggle algorithm; only the backing tables differ.
type VoteTarget string

const (
	VoteTargetPost    VoteTarget = "post"
	VoteTargetComment VoteTarget = "comment"
)

// Vote is a single user's vote on a post or comment. A user holds at most
// one vote per target; polarity flips update the row in place.
type Vote struct {
	TargetID  uuid.UUID `json:"target_id"`
	UserID    uuid.UUID `json:"user_id"`
	Positive  bool      `json:"positive"`
	CreatedAt time.Time `json:"created_at"`
}

// VoteCounts is the denormalized counter pair carried on posts and comments.
type VoteCounts struct {
	Upvotes   int `json:"upvote_count"`
	Downvotes int `json:"downvote_count"`
}
