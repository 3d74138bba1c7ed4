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

// VoteStore runs the vote toggle for posts and comments. Both share one
// algorithm; the target picks the vote table and the counter columns.
type VoteStore struct {
	db *sql.DB
}

// NewVoteStore returns a new VoteStore.
func NewVoteStore(db *sql.DB) *VoteStore {
	return &VoteStore{db: db}
}

type voteTables struct {
	votes   string // vote rows
	keyCol  string // FK column naming the target
	counted string // table carrying the counters
}

func tablesFor(target models.VoteTarget) (voteTables, error) {
	switch target {
	case models.VoteTargetPost:
		return voteTables{votes: "post_votes", keyCol: "post_id", counted: "posts"}, nil
	case models.VoteTargetComment:
		return voteTables{votes: "comment_votes", keyCol: "comment_id", counted: "comments"}, nil
	}
	return voteTables{}, fmt.Errorf("unknown vote target %q", target)
}

// Toggle applies one vote action and returns the resulting counters.
// Same polarity as the existing vote removes it, opposite polarity flips
// it, no existing vote inserts one. The target row is locked for the
// duration so concurrent toggles by the same user serialize and the
// counters stay exact.
func (s *VoteStore) Toggle(target models.VoteTarget, targetID, userID uuid.UUID, positive bool) (*models.VoteCounts, error) {
	t, err := tablesFor(target)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("toggle vote begin: %w", err)
	}
	defer tx.Rollback()

	// Lock the target row first. This orders concurrent toggles and
	// confirms the target still exists.
	var exists bool
	err = tx.QueryRow(`
		SELECT true FROM `+t.counted+` WHERE id = $1 FOR UPDATE
	`, targetID).Scan(&exists)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lock vote target: %w", err)
	}

	var existing sql.NullBool
	err = tx.QueryRow(`
		SELECT positive FROM `+t.votes+` WHERE `+t.keyCol+` = $1 AND user_id = $2
	`, targetID, userID).Scan(&existing)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("read existing vote: %w", err)
	}

	var up, down int
	switch {
	case !existing.Valid:
		// No prior vote: insert and bump the matching counter.
		_, err = tx.Exec(`
			INSERT INTO `+t.votes+` (`+t.keyCol+`, user_id, positive)
			VALUES ($1, $2, $3)
		`, targetID, userID, positive)
		if err != nil {
			return nil, fmt.Errorf("insert vote: %w", err)
		}
		if positive {
			up = 1
		} else {
			down = 1
		}

	case existing.Bool == positive:
		// Same polarity again: remove the vote.
		_, err = tx.Exec(`
			DELETE FROM `+t.votes+` WHERE `+t.keyCol+` = $1 AND user_id = $2
		`, targetID, userID)
		if err != nil {
			return nil, fmt.Errorf("delete vote: %w", err)
		}
		if positive {
			up = -1
		} else {
			down = -1
		}

	default:
		// Opposite polarity: flip the row in place.
		_, err = tx.Exec(`
			UPDATE `+t.votes+` SET positive = $3 WHERE `+t.keyCol+` = $1 AND user_id = $2
		`, targetID, userID, positive)
		if err != nil {
			return nil, fmt.Errorf("flip vote: %w", err)
		}
		if positive {
			up, down = +1, -1
		} else {
			up, down = -1, +1
		}
	}

	counts := &models.VoteCounts{}
	err = tx.QueryRow(`
		UPDATE `+t.counted+` SET
			upvote_count = upvote_count + $1,
			downvote_count = downvote_count + $2
		WHERE id = $3
		RETURNING upvote_count, downvote_count
	`, up, down, targetID).Scan(&counts.Upvotes, &counts.Downvotes)
	if err != nil {
		return nil, fmt.Errorf("update vote counters: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("toggle vote commit: %w", err)
	}
	return counts, nil
}

// Find returns the caller's current vote on the target, or nil when none
// exists.
func (s *VoteStore) Find(target models.VoteTarget, targetID, userID uuid.UUID) (*models.Vote, error) {
	t, err := tablesFor(target)
	if err != nil {
		return nil, err
	}

	v := &models.Vote{}
	err = s.db.QueryRow(`
		SELECT `+t.keyCol+`, user_id, positive, created_at
		FROM `+t.votes+` WHERE `+t.keyCol+` = $1 AND user_id = $2
	`, targetID, userID).Scan(&v.TargetID, &v.UserID, &v.Positive, &v.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find vote: %w", err)
	}
	return v, nil
}
