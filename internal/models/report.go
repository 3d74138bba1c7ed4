// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// ReportStatus tracks the moderation state of a user report.
type ReportStatus string

const (
	ReportStatusOpen      ReportStatus = "OPEN"
	ReportStatusResolved  ReportStatus = "RESOLVED"
	ReportStatusDismissed ReportStatus = "DISMISSED"
)

// ValidReportStatus reports whether s is a known report status.
func ValidReportStatus(s ReportStatus) bool {
	switch s {
	case ReportStatusOpen, ReportStatusResolved, ReportStatusDismissed:
		return true
	}
	return false
}

// Report is a user-filed complaint against a post, handled by admins.
type Report struct {
	ID        uuid.UUID    `json:"id"`
	PostID    uuid.UUID    `json:"post_id"`
	UserID    uuid.UUID    `json:"user_id"`
	Reason    string       `json:"reason"`
	Status    ReportStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`

	// Virtual field populated by store methods.
	ReporterUsername string `json:"reporter_username,omitempty"`
}
