// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package posts implements the editorial lifecycle: creation, review,
// publication, change requests and removal. All role and visibility rules
// are enforced here so handlers stay thin.
package posts

import (
	"github.com/google/uuid"

	"sportwire/internal/apperr"
	"sportwire/internal/authz"
	"sportwire/internal/models"
	"sportwire/internal/pagination"
	"sportwire/internal/slug"
	"sportwire/internal/store"
)

// Manager coordinates post state transitions over the stores.
type Manager struct {
	posts      *store.PostStore
	categories *store.CategoryStore
	changes    *store.ChangeRequestStore
}

// NewManager wires a Manager over the given stores.
func NewManager(posts *store.PostStore, categories *store.CategoryStore, changes *store.ChangeRequestStore) *Manager {
	return &Manager{posts: posts, categories: categories, changes: changes}
}

// CreateInput carries a new post. Status may be empty (DRAFT), PENDING
// (submit for review) or PUBLISHED (moderators only).
type CreateInput struct {
	Title            string
	Body             string
	SecondaryText    *string
	CategoryID       uuid.UUID
	SubcategoryIDs   []uuid.UUID
	ThumbnailMediaID *uuid.UUID
	Status           models.PostStatus
}

// Create validates and inserts a new post for the identity.
func (m *Manager) Create(id authz.Identity, in CreateInput) (*models.Post, error) {
	if !authz.CanCreatePost(id.Role) {
		return nil, apperr.ErrPermissionDenied
	}

	status := in.Status
	switch status {
	case "":
		status = models.PostStatusDraft
	case models.PostStatusDraft, models.PostStatusPending:
	case models.PostStatusPublished:
		if !id.IsModerator() {
			return nil, apperr.ErrPermissionDenied
		}
	default:
		return nil, apperr.Validation("status", "cannot create a post as %s", status)
	}

	if in.Title == "" {
		return nil, apperr.Validation("title", "must not be empty")
	}
	if in.Body == "" {
		return nil, apperr.Validation("body", "must not be empty")
	}

	postSlug := slug.Generate(in.Title)
	if postSlug == "" {
		return nil, apperr.Validation("title", "must contain letters or digits")
	}
	exists, err := m.posts.SlugExists(postSlug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Validation("title", "duplicates an existing post")
	}

	if err := m.checkCategory(in.CategoryID, in.SubcategoryIDs); err != nil {
		return nil, err
	}

	created, err := m.posts.Create(&models.Post{
		Title:            in.Title,
		Slug:             postSlug,
		Body:             in.Body,
		SecondaryText:    in.SecondaryText,
		CategoryID:       in.CategoryID,
		AuthorID:         id.UserID,
		Status:           status,
		ThumbnailMediaID: in.ThumbnailMediaID,
		SubcategoryIDs:   in.SubcategoryIDs,
	})
	if err != nil {
		return nil, err
	}

	if status == models.PostStatusPublished {
		// Direct publishes are self-approved by the moderator creating them.
		if err := m.posts.Publish(created.ID, id.UserID); err != nil {
			return nil, err
		}
		return m.posts.FindByID(created.ID)
	}
	return created, nil
}

// checkCategory verifies the category exists and every subcategory belongs
// to it.
func (m *Manager) checkCategory(categoryID uuid.UUID, subcategoryIDs []uuid.UUID) error {
	cat, err := m.categories.FindByID(categoryID)
	if err != nil {
		return err
	}
	if cat == nil {
		return apperr.Validation("category_id", "unknown category")
	}
	for _, subID := range subcategoryIDs {
		sub, err := m.categories.FindSubcategory(subID)
		if err != nil {
			return err
		}
		if sub == nil || sub.CategoryID != categoryID {
			return apperr.Validation("subcategory_ids", "subcategory %s does not belong to the category", subID)
		}
	}
	return nil
}

// Get returns a post by ID if the identity may see it. Posts the caller
// must not see answer not-found, never forbidden.
func (m *Manager) Get(id authz.Identity, postID uuid.UUID) (*models.Post, error) {
	p, err := m.posts.FindByID(postID)
	if err != nil {
		return nil, err
	}
	if p == nil || !authz.CanReadPost(id.UserID, id.Role, p) {
		return nil, apperr.NotFoundf("post %s", postID)
	}
	return p, nil
}

// GetBySlug returns a post by slug with the same visibility rules as Get.
func (m *Manager) GetBySlug(id authz.Identity, s string) (*models.Post, error) {
	p, err := m.posts.FindBySlug(s)
	if err != nil {
		return nil, err
	}
	if p == nil || !authz.CanReadPost(id.UserID, id.Role, p) {
		return nil, apperr.NotFoundf("post %q", s)
	}
	return p, nil
}

// List returns one page of posts. Non-admin callers are pinned to
// PUBLISHED regardless of the status they asked for.
func (m *Manager) List(id authz.Identity, filter store.PostFilter, page pagination.Params) ([]models.Post, pagination.Meta, error) {
	if !id.IsAdmin() {
		filter.Status = models.PostStatusPublished
	}
	items, total, err := m.posts.List(filter, page)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return items, page.MetaFor(total), nil
}

// ListMine returns the identity's own posts in any status.
func (m *Manager) ListMine(id authz.Identity, page pagination.Params) ([]models.Post, pagination.Meta, error) {
	if id.Anonymous() {
		return nil, pagination.Meta{}, apperr.ErrPermissionDenied
	}
	items, total, err := m.posts.List(store.PostFilter{AuthorID: &id.UserID}, page)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return items, page.MetaFor(total), nil
}

// ChangeInput is a partial edit. Nil fields keep the current value.
type ChangeInput struct {
	PostID         uuid.UUID
	Title          *string
	Body           *string
	CategoryID     *uuid.UUID
	SubcategoryIDs []uuid.UUID
}

// SubmitChange routes an edit by the post's current status: pre-review
// posts are edited in place, denied posts re-enter review with the edits
// applied, published posts get a change request for moderator approval.
// Deleted posts are immutable.
func (m *Manager) SubmitChange(id authz.Identity, in ChangeInput) (*models.Post, *models.ChangeRequest, error) {
	p, err := m.posts.FindByID(in.PostID)
	if err != nil {
		return nil, nil, err
	}
	if p == nil {
		return nil, nil, apperr.NotFoundf("post %s", in.PostID)
	}
	if !authz.CanAdjustPost(id.UserID, id.Role, p) {
		if !authz.CanReadPost(id.UserID, id.Role, p) {
			return nil, nil, apperr.NotFoundf("post %s", in.PostID)
		}
		return nil, nil, apperr.ErrPermissionDenied
	}

	switch p.Status {
	case models.PostStatusDeleted:
		return nil, nil, apperr.Validation("post_id", "deleted posts are immutable")

	case models.PostStatusPublished:
		if in.CategoryID != nil || in.SubcategoryIDs != nil {
			catID := p.CategoryID
			if in.CategoryID != nil {
				catID = *in.CategoryID
			}
			if err := m.checkCategory(catID, in.SubcategoryIDs); err != nil {
				return nil, nil, err
			}
		}
		cr, err := m.changes.Create(&models.ChangeRequest{
			PostID:         p.ID,
			UserID:         id.UserID,
			Title:          in.Title,
			Body:           in.Body,
			CategoryID:     in.CategoryID,
			SubcategoryIDs: in.SubcategoryIDs,
		})
		if err != nil {
			return nil, nil, err
		}
		return p, cr, nil

	default:
		// DRAFT, PENDING, DENIED: edit the live row.
		if err := m.applyChange(p, in); err != nil {
			return nil, nil, err
		}
		if err := m.posts.Update(p); err != nil {
			return nil, nil, err
		}
		if p.Status == models.PostStatusDenied {
			if err := m.posts.UpdateStatus(p.ID, models.PostStatusPending); err != nil {
				return nil, nil, err
			}
		}
		updated, err := m.posts.FindByID(p.ID)
		return updated, nil, err
	}
}

// applyChange merges the edit onto the post, re-deriving the slug when the
// title changes.
func (m *Manager) applyChange(p *models.Post, in ChangeInput) error {
	if in.Title != nil && *in.Title != p.Title {
		newSlug := slug.Generate(*in.Title)
		if newSlug == "" {
			return apperr.Validation("title", "must contain letters or digits")
		}
		if newSlug != p.Slug {
			exists, err := m.posts.SlugExists(newSlug)
			if err != nil {
				return err
			}
			if exists {
				return apperr.Validation("title", "duplicates an existing post")
			}
		}
		p.Title = *in.Title
		p.Slug = newSlug
	}
	if in.Body != nil {
		p.Body = *in.Body
	}
	if in.CategoryID != nil {
		p.CategoryID = *in.CategoryID
	}
	if in.SubcategoryIDs != nil {
		p.SubcategoryIDs = in.SubcategoryIDs
	}
	if in.CategoryID != nil || in.SubcategoryIDs != nil {
		return m.checkCategory(p.CategoryID, p.SubcategoryIDs)
	}
	return nil
}

// transition moves a post between review states, rejecting illegal pairs.
func (m *Manager) transition(id authz.Identity, postID uuid.UUID, from, to models.PostStatus) (*models.Post, error) {
	if !authz.Can(authz.OpModeratePost, id.Role, false) {
		return nil, apperr.ErrPermissionDenied
	}
	p, err := m.posts.FindByID(postID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFoundf("post %s", postID)
	}
	if p.Status != from {
		return nil, apperr.Validation("status", "cannot transition from %s to %s", p.Status, to)
	}
	if to == models.PostStatusPublished {
		err = m.posts.Publish(p.ID, id.UserID)
	} else {
		err = m.posts.UpdateStatus(p.ID, to)
	}
	if err != nil {
		return nil, err
	}
	return m.posts.FindByID(p.ID)
}

// Approve publishes a pending post.
func (m *Manager) Approve(id authz.Identity, postID uuid.UUID) (*models.Post, error) {
	return m.transition(id, postID, models.PostStatusPending, models.PostStatusPublished)
}

// Deny rejects a pending post.
func (m *Manager) Deny(id authz.Identity, postID uuid.UUID) (*models.Post, error) {
	return m.transition(id, postID, models.PostStatusPending, models.PostStatusDenied)
}

// ListPending returns the moderation queue.
func (m *Manager) ListPending(id authz.Identity, page pagination.Params) ([]models.Post, pagination.Meta, error) {
	if !authz.Can(authz.OpModeratePost, id.Role, false) {
		return nil, pagination.Meta{}, apperr.ErrPermissionDenied
	}
	items, total, err := m.posts.List(store.PostFilter{Status: models.PostStatusPending}, page)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return items, page.MetaFor(total), nil
}

// ListChangeRequests returns the unapproved change requests, oldest
// first.
func (m *Manager) ListChangeRequests(id authz.Identity) ([]models.ChangeRequest, error) {
	if !authz.Can(authz.OpModeratePost, id.Role, false) {
		return nil, apperr.ErrPermissionDenied
	}
	return m.changes.ListPending()
}

// ApproveChangeRequest applies a stored change request to its post and
// records the approver. The post and the approval stamp commit together.
func (m *Manager) ApproveChangeRequest(id authz.Identity, requestID uuid.UUID) (*models.Post, error) {
	if !authz.Can(authz.OpModeratePost, id.Role, false) {
		return nil, apperr.ErrPermissionDenied
	}
	cr, err := m.changes.FindByID(requestID)
	if err != nil {
		return nil, err
	}
	if cr == nil {
		return nil, apperr.NotFoundf("change request %s", requestID)
	}
	if cr.Approved() {
		return nil, apperr.Validation("id", "change request already approved")
	}

	p, err := m.posts.FindByID(cr.PostID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFoundf("post %s", cr.PostID)
	}

	if err := m.applyChange(p, ChangeInput{
		PostID:         p.ID,
		Title:          cr.Title,
		Body:           cr.Body,
		CategoryID:     cr.CategoryID,
		SubcategoryIDs: cr.SubcategoryIDs,
	}); err != nil {
		return nil, err
	}
	if err := m.changes.Apply(cr, p, id.UserID); err != nil {
		return nil, err
	}
	return m.posts.FindByID(p.ID)
}

// RejectChangeRequest discards a pending change request. The published
// post stays as it is.
func (m *Manager) RejectChangeRequest(id authz.Identity, requestID uuid.UUID) error {
	if !authz.Can(authz.OpModeratePost, id.Role, false) {
		return apperr.ErrPermissionDenied
	}
	cr, err := m.changes.FindByID(requestID)
	if err != nil {
		return err
	}
	if cr == nil {
		return apperr.NotFoundf("change request %s", requestID)
	}
	if cr.Approved() {
		return apperr.Validation("id", "change request already approved")
	}
	return m.changes.Delete(requestID)
}

// Delete removes a post. Authors hard-delete their own unpublished work;
// moderators move any post to the terminal DELETED status so history is
// kept.
func (m *Manager) Delete(id authz.Identity, postID uuid.UUID) error {
	p, err := m.posts.FindByID(postID)
	if err != nil {
		return err
	}
	if p == nil {
		return apperr.NotFoundf("post %s", postID)
	}
	if !authz.CanAdjustPost(id.UserID, id.Role, p) {
		if !authz.CanReadPost(id.UserID, id.Role, p) {
			return apperr.NotFoundf("post %s", postID)
		}
		return apperr.ErrPermissionDenied
	}

	if id.IsModerator() {
		if p.Status == models.PostStatusDeleted {
			return nil
		}
		return m.posts.UpdateStatus(p.ID, models.PostStatusDeleted)
	}

	// Author path.
	switch p.Status {
	case models.PostStatusPublished, models.PostStatusDeleted:
		return apperr.ErrPermissionDenied
	}
	return m.posts.Delete(p.ID)
}
