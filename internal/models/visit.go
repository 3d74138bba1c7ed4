// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// VisitorIdentity names who opened a post: a logged-in user or an
// anonymous IP. Exactly one of the two fields is set.
type VisitorIdentity struct {
	UserID *uuid.UUID
	IP     *string
}

// Valid reports whether the identity can be attributed — exactly one of
// user ID and IP must be present.
func (vi VisitorIdentity) Valid() bool {
	return (vi.UserID != nil) != (vi.IP != nil)
}

// Visit records that an identity opened a post. At most one row exists per
// (post, identity); repeat visits update percentage and timestamp in place.
type Visit struct {
	ID         uuid.UUID  `json:"id"`
	PostID     uuid.UUID  `json:"post_id"`
	UserID     *uuid.UUID `json:"user_id,omitempty"`
	IP         *string    `json:"ip,omitempty"`
	Percentage *int       `json:"percentage,omitempty"`
	VisitAt    time.Time  `json:"visit_at"`
}

// ReadProgress stores the last saved reading position for a (user, post)
// pair. Kept separate from Visit so analytics and resume state stay
// independent.
type ReadProgress struct {
	UserID     uuid.UUID `json:"user_id"`
	PostID     uuid.UUID `json:"post_id"`
	Percentage int       `json:"percentage"`
	UpdatedAt  time.Time `json:"updated_at"`
}
