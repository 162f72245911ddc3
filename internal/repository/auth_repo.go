package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"fhemview/internal/models"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Ensure implementation of Authorization interface at compile time.
var _ Authorization = (*UserRepository)(nil)

const (
	insertUserSQL           = `INSERT INTO users (username, password_hash, permissions) VALUES (?, ?, ?)`
	selectUserByUsernameSQL = `SELECT id, username, password_hash, permissions FROM users WHERE username = ?`
)

// Create inserts a new user with the granted permission tags and returns its ID.
func (r *UserRepository) Create(username, passwordHash string, permissions []string) (int, error) {
	perms, err := marshalPermissions(permissions)
	if err != nil {
		return 0, fmt.Errorf("encode permissions for user %q: %w", username, err)
	}
	res, err := r.db.Exec(insertUserSQL, username, passwordHash, perms)
	if err != nil {
		return 0, fmt.Errorf("insert user %q: %w", username, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for user %q: %w", username, err)
	}
	return int(lastID), nil
}

// GetByUsername fetches a user by username. Returns (nil, nil) if not found.
func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	var (
		u     models.User
		perms string
	)
	err := r.db.QueryRow(selectUserByUsernameSQL, username).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &perms)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user %q: %w", username, err)
	}
	if u.Permissions, err = unmarshalPermissions(perms); err != nil {
		return nil, fmt.Errorf("decode permissions for user %q: %w", username, err)
	}
	return &u, nil
}

func marshalPermissions(permissions []string) (string, error) {
	if permissions == nil {
		permissions = []string{}
	}
	b, err := json.Marshal(permissions)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func unmarshalPermissions(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	var permissions []string
	if err := json.Unmarshal([]byte(s), &permissions); err != nil {
		return nil, err
	}
	return permissions, nil
}
