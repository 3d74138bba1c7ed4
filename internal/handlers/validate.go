// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"strings"
	"unicode/utf8"

	"sportwire/internal/apperr"
)

// Validation limits for user-supplied text fields.
const (
	maxTitleLen   = 300
	maxBodyLen    = 100_000
	maxCommentLen = 5_000
	maxReasonLen  = 1_000
)

// validatePostInput checks the required fields of a new post.
func validatePostInput(title, body string) error {
	if strings.TrimSpace(title) == "" {
		return apperr.Validation("title", "is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return apperr.Validation("title", "is too long (max %d characters)", maxTitleLen)
	}
	if strings.TrimSpace(body) == "" {
		return apperr.Validation("body", "is required")
	}
	if utf8.RuneCountInString(body) > maxBodyLen {
		return apperr.Validation("body", "is too long (max %d characters)", maxBodyLen)
	}
	return nil
}

// validateChangeInput checks only the edit fields that are present.
// A present title or body must still be non-empty: an edit cannot blank
// out a required field.
func validateChangeInput(hasTitle bool, title string, hasBody bool, body string) error {
	if hasTitle {
		if strings.TrimSpace(title) == "" {
			return apperr.Validation("title", "must not be empty")
		}
		if utf8.RuneCountInString(title) > maxTitleLen {
			return apperr.Validation("title", "is too long (max %d characters)", maxTitleLen)
		}
	}
	if hasBody {
		if strings.TrimSpace(body) == "" {
			return apperr.Validation("body", "must not be empty")
		}
		if utf8.RuneCountInString(body) > maxBodyLen {
			return apperr.Validation("body", "is too long (max %d characters)", maxBodyLen)
		}
	}
	return nil
}

// validateComment checks a comment body.
func validateComment(body string) error {
	if strings.TrimSpace(body) == "" {
		return apperr.Validation("body", "is required")
	}
	if utf8.RuneCountInString(body) > maxCommentLen {
		return apperr.Validation("body", "is too long (max %d characters)", maxCommentLen)
	}
	return nil
}

// validateReason checks a report reason.
func validateReason(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return apperr.Validation("reason", "is required")
	}
	if utf8.RuneCountInString(reason) > maxReasonLen {
		return apperr.Validation("reason", "is too long (max %d characters)", maxReasonLen)
	}
	return nil
}
