// Package store provides database access methods for all Sportwire
// entities. Each store struct wraps a *sql.DB and exposes typed query methods.
package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"sportwire/internal/models"
)

// UserStore handles all user-related database operations. Accounts are
// created by the identity provider; this store only reads and moderates
// them.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new UserStore with the given database connection.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, username, name, email, password_hash, role,
	avatar_url, verified_at, banned_at, created_at`

func scanUser(scanner interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	err := scanner.Scan(
		&u.ID, &u.Username, &u.Name, &u.Email, &u.PasswordHash, &u.Role,
		&u.AvatarURL, &u.VerifiedAt, &u.BannedAt, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// FindByID retrieves a user by their UUID. Returns nil if not found.
func (s *UserStore) FindByID(id uuid.UUID) (*models.User, error) {
	u, err := scanUser(s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// FindByUsername retrieves a user by username. Returns nil if not found.
func (s *UserStore) FindByUsername(username string) (*models.User, error) {
	u, err := scanUser(s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return u, nil
}

// List returns all users ordered by creation date descending.
func (s *UserStore) List() ([]models.User, error) {
	rows, err := s.db.Query(`SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// UpdateRole changes a user's role tier.
func (s *UserStore) UpdateRole(id uuid.UUID, role models.Role) error {
	_, err := s.db.Exec(`UPDATE users SET role = $1 WHERE id = $2`, role, id)
	if err != nil {
		return fmt.Errorf("update user role: %w", err)
	}
	return nil
}

// SetBanned bans or unbans a user.
func (s *UserStore) SetBanned(id uuid.UUID, banned bool) error {
	var err error
	if banned {
		_, err = s.db.Exec(`UPDATE users SET banned_at = NOW() WHERE id = $1`, id)
	} else {
		_, err = s.db.Exec(`UPDATE users SET banned_at = NULL WHERE id = $1`, id)
	}
	if err != nil {
		return fmt.Errorf("set user banned: %w", err)
	}
	return nil
}
