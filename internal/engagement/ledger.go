// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package engagement covers everything readers do to published posts:
// votes, comments, visits and reading progress.
package engagement

import (
	"github.com/google/uuid"

	"sportwire/internal/apperr"
	"sportwire/internal/authz"
	"sportwire/internal/models"
	"sportwire/internal/pagination"
	"sportwire/internal/store"
)

// Ledger coordinates engagement writes over the stores.
type Ledger struct {
	posts    *store.PostStore
	comments *store.CommentStore
	votes    *store.VoteStore
	visits   *store.VisitStore
}

// NewLedger wires a Ledger over the given stores.
func NewLedger(posts *store.PostStore, comments *store.CommentStore, votes *store.VoteStore, visits *store.VisitStore) *Ledger {
	return &Ledger{posts: posts, comments: comments, votes: votes, visits: visits}
}

// engageablePost loads a post and confirms the identity may engage with
// it. Engagement is limited to published posts; invisible posts answer
// not-found.
func (l *Ledger) engageablePost(id authz.Identity, postID uuid.UUID) (*models.Post, error) {
	p, err := l.posts.FindByID(postID)
	if err != nil {
		return nil, err
	}
	if p == nil || !authz.CanReadPost(id.UserID, id.Role, p) {
		return nil, apperr.NotFoundf("post %s", postID)
	}
	if !p.IsPublished() {
		return nil, apperr.Validation("post_id", "engagement is limited to published posts")
	}
	return p, nil
}

// ToggleVote applies one vote action for the identity and returns the
// resulting counters.
func (l *Ledger) ToggleVote(id authz.Identity, target models.VoteTarget, targetID uuid.UUID, positive bool) (*models.VoteCounts, error) {
	if id.Anonymous() {
		return nil, apperr.ErrPermissionDenied
	}

	switch target {
	case models.VoteTargetPost:
		if _, err := l.engageablePost(id, targetID); err != nil {
			return nil, err
		}
	case models.VoteTargetComment:
		c, err := l.comments.FindByID(targetID)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, apperr.NotFoundf("comment %s", targetID)
		}
	default:
		return nil, apperr.Validation("target", "unknown vote target %q", target)
	}

	counts, err := l.votes.Toggle(target, targetID, id.UserID, positive)
	if err != nil {
		return nil, err
	}
	if counts == nil {
		return nil, apperr.NotFoundf("%s %s", target, targetID)
	}
	return counts, nil
}

// CreateComment adds a comment or a reply to a published post. Replies
// must answer a top-level comment on the same post.
func (l *Ledger) CreateComment(id authz.Identity, postID uuid.UUID, parentID *uuid.UUID, body string) (*models.Comment, error) {
	if id.Anonymous() {
		return nil, apperr.ErrPermissionDenied
	}
	if body == "" {
		return nil, apperr.Validation("body", "must not be empty")
	}
	if _, err := l.engageablePost(id, postID); err != nil {
		return nil, err
	}

	if parentID != nil {
		parent, err := l.comments.FindByID(*parentID)
		if err != nil {
			return nil, err
		}
		if parent == nil || parent.PostID != postID {
			return nil, apperr.Validation("parent_comment_id", "parent comment not found on this post")
		}
		if parent.IsReply() {
			return nil, apperr.Validation("parent_comment_id", "replies cannot be nested")
		}
	}

	return l.comments.Create(&models.Comment{
		PostID:          postID,
		UserID:          id.UserID,
		ParentCommentID: parentID,
		Body:            body,
	})
}

// ListComments returns the post's comment thread.
func (l *Ledger) ListComments(id authz.Identity, postID uuid.UUID) ([]models.Comment, error) {
	p, err := l.posts.FindByID(postID)
	if err != nil {
		return nil, err
	}
	if p == nil || !authz.CanReadPost(id.UserID, id.Role, p) {
		return nil, apperr.NotFoundf("post %s", postID)
	}
	return l.comments.ListByPost(postID)
}

// RecordVisit notes that an identity opened a post. Callers without any
// attributable identity are silently ignored. Unknown or invisible posts
// answer not-found.
func (l *Ledger) RecordVisit(id authz.Identity, postID uuid.UUID, ip string, percentage *int) error {
	p, err := l.posts.FindByID(postID)
	if err != nil {
		return err
	}
	if p == nil || !authz.CanReadPost(id.UserID, id.Role, p) {
		return apperr.NotFoundf("post %s", postID)
	}
	if !p.IsPublished() {
		// Authors previewing their own drafts are not visits.
		return nil
	}

	identity := models.VisitorIdentity{}
	switch {
	case !id.Anonymous():
		uid := id.UserID
		identity.UserID = &uid
	case ip != "":
		identity.IP = &ip
	default:
		return nil
	}

	if percentage != nil && (*percentage < 0 || *percentage > 100) {
		return apperr.Validation("percentage", "must be between 0 and 100")
	}
	return l.visits.Record(postID, identity, percentage)
}

// SaveReadProgress upserts the identity's reading position on a post.
func (l *Ledger) SaveReadProgress(id authz.Identity, postID uuid.UUID, percentage int) error {
	if id.Anonymous() {
		return apperr.ErrPermissionDenied
	}
	if percentage < 0 || percentage > 100 {
		return apperr.Validation("percentage", "must be between 0 and 100")
	}
	if _, err := l.engageablePost(id, postID); err != nil {
		return err
	}
	return l.visits.SaveProgress(id.UserID, postID, percentage)
}

// ReadHistory returns the posts the identity has visited, latest first.
// Anonymous callers are identified by IP.
func (l *Ledger) ReadHistory(id authz.Identity, ip string, page pagination.Params) ([]models.Post, pagination.Meta, error) {
	identity := models.VisitorIdentity{}
	switch {
	case !id.Anonymous():
		uid := id.UserID
		identity.UserID = &uid
	case ip != "":
		identity.IP = &ip
	default:
		return nil, page.MetaFor(0), nil
	}

	items, total, err := l.visits.VisitedPosts(identity, page.Limit(), page.Offset())
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return items, page.MetaFor(total), nil
}
