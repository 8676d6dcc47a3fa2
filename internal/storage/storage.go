package storage

import (
	"context"
	"errors"

	"todoweb/internal/models"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
)

// TaskStore persists task rows. Every read and write that targets a
// single row is scoped by both task id and user id, so a row owned by
// another user is indistinguishable from a missing one.
type TaskStore interface {
	CreateTask(ctx context.Context, task *models.Task) error

	// FindTaskByID returns ErrNotFound when no row matches both ids.
	FindTaskByID(ctx context.Context, userID, taskID string) (*models.Task, error)

	// ListTasksByUser returns the user's rows with the given deleted
	// flag, ordered by due date, then created_at, then id.
	ListTasksByUser(ctx context.Context, userID string, deleted bool) ([]models.Task, error)

	// UpdateTask writes all mutable fields of an existing row and
	// returns ErrNotFound when no row matched id and user id.
	UpdateTask(ctx context.Context, task *models.Task) error
}

type UserStore interface {
	// CreateUser returns ErrAlreadyExists on an email collision.
	CreateUser(ctx context.Context, user *models.User) error

	FindUserByEmail(ctx context.Context, email string) (*models.User, error)

	// CreateUserWithSession inserts both rows atomically.
	CreateUserWithSession(ctx context.Context, user *models.User, session *models.Session) error
}

type SessionStore interface {
	CreateSession(ctx context.Context, session *models.Session) error
	FindSessionByID(ctx context.Context, sessionID string) (*models.Session, error)
	FindSessionByRefreshToken(ctx context.Context, refreshToken string) (*models.Session, error)
	UpdateSession(ctx context.Context, session *models.Session) error
	DeleteSessionsByUser(ctx context.Context, userID string) error
}

// Store is the full persistence surface the application wires at startup.
type Store interface {
	TaskStore
	UserStore
	SessionStore
}
