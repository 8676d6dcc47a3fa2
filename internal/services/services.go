package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"todoweb/internal/forms"
	"todoweb/internal/models"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrUserPasswordMismatch = errors.New("user password mismatch")
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionExpired       = errors.New("session expired")

	// ErrTaskNotFound covers both a missing task and a task owned by
	// someone else. The lookup is scoped by owner, so the two cases
	// cannot be told apart.
	ErrTaskNotFound = errors.New("task not found")
)

// TaskService is the operations surface over a user's tasks. Every
// operation takes the authenticated user id explicitly; there is no
// ambient session state.
type TaskService interface {
	// Create validates the submitted input and persists a new task
	// owned by userID. On validation failure it returns the field
	// errors and persists nothing.
	Create(ctx context.Context, userID string, input forms.TaskInput) (*models.Task, forms.FieldErrors, error)

	// ListActive returns the user's non-deleted tasks, soonest due
	// first.
	ListActive(ctx context.Context, userID string) ([]models.Task, error)

	// Get returns a single task for the edit form prefill. It returns
	// ErrTaskNotFound when the task is absent or not owned by userID.
	Get(ctx context.Context, userID, taskID string) (*models.Task, error)

	// Edit validates the input and overwrites every field of the task
	// except its id and owner. It returns ErrTaskNotFound when the
	// task is absent or not owned by userID; on validation failure it
	// returns the field errors and leaves the row untouched.
	Edit(ctx context.Context, userID, taskID string, input forms.TaskInput) (*models.Task, forms.FieldErrors, error)

	// SoftDelete marks the task deleted and returns it. The row stays
	// in storage and shows up in ListTrash only.
	SoftDelete(ctx context.Context, userID, taskID string) (*models.Task, error)

	// ListTrash returns the user's soft-deleted tasks.
	ListTrash(ctx context.Context, userID string) ([]models.Task, error)
}

// AuthService authenticates browser users against the store.
type AuthService interface {
	// Login authenticates the user by email and password.
	//
	// It deletes all sessions with the same user ID, creates a new
	// session and generates a fresh JWT token pair.
	//
	// It returns ErrUserNotFound if the user with the given email
	// doesn't exist or ErrUserPasswordMismatch if the given password
	// doesn't match the user's password.
	Login(ctx context.Context, params LoginParams) (*LoginResult, error)

	// Refresh rotates the session with the given refresh token.
	//
	// It returns ErrSessionNotFound if the session with the given
	// refresh token doesn't exist or ErrSessionExpired if the session
	// is expired.
	Refresh(ctx context.Context, params RefreshParams) (*LoginResult, error)

	// Register creates a user with the given email and password.
	//
	// It hashes the password, generates a unique ID and creates a
	// session with the given fingerprint and a fresh JWT token pair.
	//
	// It returns ErrUserAlreadyExists if the user with the given
	// email already exists.
	Register(ctx context.Context, params LoginParams) (*LoginResult, error)

	// Logout invalidates all sessions with the given user ID.
	Logout(ctx context.Context, userID string) error

	// SessionByID loads a stored session, for the auth middleware.
	SessionByID(ctx context.Context, sessionID string) (*models.Session, error)

	// ParseJWTToken parses the given JWT token and returns the
	// registered claims or jwt.ErrTokenExpired if the token is
	// expired.
	ParseJWTToken(token string) (*jwt.RegisteredClaims, error)
}

type LoginParams struct {
	Email       string
	Password    string
	Fingerprint string
}

type LoginResult struct {
	UserID                string
	SessionID             string
	AccessToken           string
	AccessTokenExpiresAt  time.Time
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
}

type RefreshParams struct {
	RefreshToken string
	Fingerprint  string
}
