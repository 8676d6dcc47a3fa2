package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"todoweb/internal/models"
	"todoweb/internal/storage"
)

type fakeUserStore struct {
	users    map[string]models.User // keyed by email
	sessions *fakeSessionStore
}

func (f *fakeUserStore) CreateUser(_ context.Context, user *models.User) error {
	if _, ok := f.users[user.Email]; ok {
		return storage.ErrAlreadyExists
	}
	f.users[user.Email] = *user
	return nil
}

func (f *fakeUserStore) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := f.users[email]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &user, nil
}

func (f *fakeUserStore) CreateUserWithSession(ctx context.Context, user *models.User, session *models.Session) error {
	if err := f.CreateUser(ctx, user); err != nil {
		return err
	}
	return f.sessions.CreateSession(ctx, session)
}

type fakeSessionStore struct {
	sessions map[string]models.Session
}

func (f *fakeSessionStore) CreateSession(_ context.Context, session *models.Session) error {
	f.sessions[session.ID] = *session
	return nil
}

func (f *fakeSessionStore) FindSessionByID(_ context.Context, sessionID string) (*models.Session, error) {
	session, ok := f.sessions[sessionID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &session, nil
}

func (f *fakeSessionStore) FindSessionByRefreshToken(_ context.Context, refreshToken string) (*models.Session, error) {
	for _, session := range f.sessions {
		if session.RefreshToken == refreshToken {
			return &session, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeSessionStore) UpdateSession(_ context.Context, session *models.Session) error {
	if _, ok := f.sessions[session.ID]; !ok {
		return storage.ErrNotFound
	}
	f.sessions[session.ID] = *session
	return nil
}

func (f *fakeSessionStore) DeleteSessionsByUser(_ context.Context, userID string) error {
	for id, session := range f.sessions {
		if session.UserID == userID {
			delete(f.sessions, id)
		}
	}
	return nil
}

func newTestAuthService() (AuthService, *fakeUserStore, *fakeSessionStore) {
	sessions := &fakeSessionStore{sessions: make(map[string]models.Session)}
	users := &fakeUserStore{users: make(map[string]models.User), sessions: sessions}
	svc := NewAuthService(
		zerolog.Nop(),
		users,
		sessions,
		"todoweb-test",
		[]byte("test-signing-key"),
		15*time.Minute,
		time.Hour,
	)
	return svc, users, sessions
}

func TestRegisterAndLogin(t *testing.T) {
	svc, users, _ := newTestAuthService()
	ctx := context.Background()

	params := LoginParams{
		Email:       "a@example.com",
		Password:    "secret-password",
		Fingerprint: "fp",
	}

	registered, err := svc.Register(ctx, params)
	if err != nil {
		t.Fatal(err)
	}
	if registered.AccessToken == "" || registered.RefreshToken == "" {
		t.Error("expected a token pair")
	}
	stored := users.users[params.Email]
	if stored.Password == params.Password {
		t.Error("password stored in plain text")
	}

	// Access token resolves back to the session.
	claims, err := svc.ParseJWTToken(registered.AccessToken)
	if err != nil {
		t.Fatal(err)
	}
	if claims.Subject != registered.SessionID {
		t.Errorf("subject = %q, want %q", claims.Subject, registered.SessionID)
	}

	loggedIn, err := svc.Login(ctx, params)
	if err != nil {
		t.Fatal(err)
	}
	if loggedIn.UserID != registered.UserID {
		t.Errorf("UserID = %q, want %q", loggedIn.UserID, registered.UserID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	params := LoginParams{Email: "a@example.com", Password: "secret-password"}
	if _, err := svc.Register(ctx, params); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Register(ctx, params); !errors.Is(err, ErrUserAlreadyExists) {
		t.Errorf("err = %v, want ErrUserAlreadyExists", err)
	}
}

func TestLoginFailures(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	params := LoginParams{Email: "a@example.com", Password: "secret-password"}
	if _, err := svc.Register(ctx, params); err != nil {
		t.Fatal(err)
	}

	wrong := params
	wrong.Password = "not-the-password"
	if _, err := svc.Login(ctx, wrong); !errors.Is(err, ErrUserPasswordMismatch) {
		t.Errorf("wrong password: err = %v, want ErrUserPasswordMismatch", err)
	}

	unknown := params
	unknown.Email = "b@example.com"
	if _, err := svc.Login(ctx, unknown); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("unknown user: err = %v, want ErrUserNotFound", err)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, _, sessions := newTestAuthService()
	ctx := context.Background()

	registered, err := svc.Register(ctx, LoginParams{
		Email: "a@example.com", Password: "secret-password", Fingerprint: "fp",
	})
	if err != nil {
		t.Fatal(err)
	}

	refreshed, err := svc.Refresh(ctx, RefreshParams{
		RefreshToken: registered.RefreshToken,
		Fingerprint:  "fp",
	})
	if err != nil {
		t.Fatal(err)
	}
	if refreshed.RefreshToken == registered.RefreshToken {
		t.Error("refresh token not rotated")
	}
	if refreshed.SessionID != registered.SessionID {
		t.Errorf("SessionID = %q, want %q", refreshed.SessionID, registered.SessionID)
	}

	// The old token is gone; a wrong fingerprint is rejected too.
	if _, err := svc.Refresh(ctx, RefreshParams{
		RefreshToken: registered.RefreshToken, Fingerprint: "fp",
	}); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("stale token: err = %v, want ErrSessionNotFound", err)
	}
	if _, err := svc.Refresh(ctx, RefreshParams{
		RefreshToken: refreshed.RefreshToken, Fingerprint: "other",
	}); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("foreign fingerprint: err = %v, want ErrSessionNotFound", err)
	}

	// An expired session refuses to refresh.
	session := sessions.sessions[registered.SessionID]
	session.ExpiresAt = time.Now().Add(-time.Minute)
	sessions.sessions[registered.SessionID] = session
	if _, err := svc.Refresh(ctx, RefreshParams{
		RefreshToken: refreshed.RefreshToken, Fingerprint: "fp",
	}); !errors.Is(err, ErrSessionExpired) {
		t.Errorf("expired session: err = %v, want ErrSessionExpired", err)
	}
}

func TestLogoutInvalidatesSessions(t *testing.T) {
	svc, _, sessions := newTestAuthService()
	ctx := context.Background()

	registered, err := svc.Register(ctx, LoginParams{
		Email: "a@example.com", Password: "secret-password", Fingerprint: "fp",
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.Logout(ctx, registered.UserID); err != nil {
		t.Fatal(err)
	}
	if len(sessions.sessions) != 0 {
		t.Errorf("%d sessions left after logout", len(sessions.sessions))
	}
	if _, err := svc.SessionByID(ctx, registered.SessionID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}
