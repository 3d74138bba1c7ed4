// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// Sportwire API. Routes are grouped by the role a caller needs: public,
// any signed-in user, editors, moderators, and admins.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"sportwire/internal/handlers"
	"sportwire/internal/middleware"
)

// engagementRateLimit caps anonymous engagement writes (visits, votes,
// comments) per client IP.
const (
	engagementRateLimit  = 60
	engagementRateWindow = time.Minute
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(api *handlers.API, jwtSecret string) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.Authenticate(jwtSecret))

	limiter := middleware.NewRateLimiter(engagementRateLimit, engagementRateWindow)

	r.Get("/health", healthHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/posts", func(r chi.Router) {
			// Public reads. Fixed paths must register before /{id}.
			r.Get("/", api.ListPosts)
			r.Get("/popular", api.PopularPosts)
			r.Get("/front-page", api.FrontPagePost)
			r.Get("/search-text", api.SearchText)
			r.Post("/search-image", api.SearchImage)
			r.Get("/read", api.ReadHistory)
			r.Get("/slug/{slug}", api.GetPostBySlug)
			r.Get("/{id}", api.GetPost)
			r.Get("/{id}/comments", api.ListComments)

			// Visit recording accepts anonymous readers, keyed by IP.
			r.With(limiter.Middleware).Post("/{id}/read", api.RecordVisit)

			// Authoring.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireEditor)
				r.Post("/", api.CreatePost)
			})
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireUser)
				r.Get("/mine", api.MyPosts)
				r.Put("/", api.SubmitChange)
				r.Put("/{id}", api.UpdatePost)
				r.Delete("/{id}", api.DeletePost)
			})

			// Engagement writes from signed-in users.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireUser)
				r.Use(limiter.Middleware)
				r.Post("/{id}/upvote", api.UpvotePost)
				r.Post("/{id}/downvote", api.DownvotePost)
				r.Post("/{id}/comments", api.CreateComment)
				r.Post("/{id}/progress", api.SaveProgress)
				r.Post("/{id}/report", api.CreateReport)
			})

			// Moderation.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireModerator)
				r.Post("/{id}/approve", api.ApprovePost)
				r.Post("/{id}/deny", api.DenyPost)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUser)
			r.Use(limiter.Middleware)
			r.Post("/comments/{id}/upvote", api.UpvoteComment)
			r.Post("/comments/{id}/downvote", api.DownvoteComment)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireModerator)
			r.Get("/pending-posts", api.PendingPosts)
			r.Get("/change-requests", api.ListChangeRequests)
			r.Post("/change-requests/{id}/approve", api.ApproveChangeRequest)
			r.Delete("/change-requests/{id}", api.RejectChangeRequest)
		})

		r.With(middleware.RequireUser).Get("/reports", api.ListReports)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Put("/reports/{id}", api.HandleReport)
			r.Delete("/reports/{id}", api.DeleteReport)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Get("/users", api.ListUsers)
			r.Put("/users/{id}/role", api.UpdateUserRole)
			r.Put("/users/{id}/ban", api.BanUser)
		})

		r.Get("/categories", api.ListCategories)
		r.With(middleware.RequireAdmin).Post("/categories", api.CreateCategory)

		r.With(middleware.RequireEditor).Post("/media", api.UploadMedia)
	})

	return r
}

// healthHandler responds to load balancer health checks.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
