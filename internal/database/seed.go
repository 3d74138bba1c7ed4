package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"sportwire/internal/slug"
)

// Seed populates the database with initial development data: one user per
// role and a starting set of categories with subcategories. It does nothing
// when users already exist, so it is safe to call on every startup.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	// All dev accounts share the same throwaway password.
	hash, err := bcrypt.GenerateFromPassword([]byte("sportwire"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	users := []struct {
		username string
		name     string
		role     string
	}{
		{"admin", "Admin", "ADMIN"},
		{"moderator", "Moderator", "MODERATOR"},
		{"editor", "Editor", "EDITOR"},
		{"reader", "Reader", "USER"},
	}
	for _, u := range users {
		_, err = db.Exec(`
			INSERT INTO users (username, name, email, password_hash, role, verified_at)
			VALUES ($1, $2, $3, $4, $5, now())
		`, u.username, u.name, u.username+"@sportwire.local", string(hash), u.role)
		if err != nil {
			return fmt.Errorf("seed insert user %s: %w", u.username, err)
		}
	}

	categories := map[string][]string{
		"Football":   {"Premier League", "La Liga", "Champions League"},
		"Basketball": {"NBA", "EuroLeague"},
		"Tennis":     {"ATP", "WTA", "Grand Slams"},
		"Motorsport": {"Formula 1", "MotoGP"},
	}
	for name, subs := range categories {
		var categoryID string
		err = db.QueryRow(`
			INSERT INTO categories (name, slug)
			VALUES ($1, $2)
			RETURNING id
		`, name, slug.Generate(name)).Scan(&categoryID)
		if err != nil {
			return fmt.Errorf("seed insert category %s: %w", name, err)
		}

		for _, sub := range subs {
			_, err = db.Exec(`
				INSERT INTO subcategories (category_id, name, slug)
				VALUES ($1, $2, $3)
			`, categoryID, sub, slug.Generate(name)+"-"+slug.Generate(sub))
			if err != nil {
				return fmt.Errorf("seed insert subcategory %s: %w", sub, err)
			}
		}
	}

	slog.Info("database seeded with dev users and categories",
		"users", len(users),
		"password", "sportwire",
	)

	return nil
}
