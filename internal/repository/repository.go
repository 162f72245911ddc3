package repository

import (
	"database/sql"

	"fhemview/internal/models"
	"fhemview/internal/repository/db"
)

type Authorization interface {
	Create(username, hash string, permissions []string) (int, error)
	GetByUsername(username string) (*models.User, error)
}

type Repository struct {
	Auth Authorization
}

func NewRepository(database *sql.DB) *Repository {
	return &Repository{
		Auth: NewUserRepository(database),
	}
}

// InitDB opens the SQLite user store; forwarded so callers only wire this package.
func InitDB(path string) (*sql.DB, error) {
	return db.InitDB(path)
}
