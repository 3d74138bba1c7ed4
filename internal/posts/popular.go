// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package posts

import (
	"context"
	"time"

	"sportwire/internal/apperr"
	"sportwire/internal/cache"
	"sportwire/internal/models"
	"sportwire/internal/store"
)

const (
	// popularWindow is the trailing period visits count towards.
	popularWindow = 30 * 24 * time.Hour

	// rankedSize bounds how much of the ranking is computed and cached.
	rankedSize = 25
)

// Popularity serves the visit-ranked views of published posts. Rank 1 is
// the front-page post and is excluded from the popular list, so the two
// surfaces never show the same article.
type Popularity struct {
	posts *store.PostStore
	cache *cache.PopularCache // nil disables caching
}

// NewPopularity wires a Popularity service. cache may be nil.
func NewPopularity(posts *store.PostStore, c *cache.PopularCache) *Popularity {
	return &Popularity{posts: posts, cache: c}
}

// ranked returns the cached ranking, recomputing it on a miss.
func (p *Popularity) ranked(ctx context.Context) ([]models.Post, error) {
	if p.cache != nil {
		if posts, ok := p.cache.Get(ctx); ok {
			return posts, nil
		}
	}

	posts, err := p.posts.Popular(popularWindow, rankedSize)
	if err != nil {
		return nil, err
	}
	if p.cache != nil {
		p.cache.Set(ctx, posts)
	}
	return posts, nil
}

// PopularPosts returns up to limit posts from rank 2 down.
func (p *Popularity) PopularPosts(ctx context.Context, limit int) ([]models.Post, error) {
	if limit <= 0 || limit > rankedSize-1 {
		limit = rankedSize - 1
	}

	ranked, err := p.ranked(ctx)
	if err != nil {
		return nil, err
	}
	if len(ranked) <= 1 {
		return nil, nil
	}

	rest := ranked[1:]
	if len(rest) > limit {
		rest = rest[:limit]
	}
	return rest, nil
}

// FrontPagePost returns the single top-ranked post.
func (p *Popularity) FrontPagePost(ctx context.Context) (*models.Post, error) {
	ranked, err := p.ranked(ctx)
	if err != nil {
		return nil, err
	}
	if len(ranked) == 0 {
		return nil, apperr.NotFoundf("front page post")
	}
	return &ranked[0], nil
}
