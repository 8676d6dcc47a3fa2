package sqlite

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"todoweb/internal/models"
	"todoweb/internal/storage"
)

func (s *Store) CreateSession(ctx context.Context, session *models.Session) error {
	return s.createSession(s.db.WithContext(ctx), session)
}

func (s *Store) createSession(tx *gorm.DB, session *models.Session) error {
	row := sessionToRow(session)
	if err := tx.Create(&row).Error; err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	s.logger.Debug().
		Str("session_id", session.ID).
		Msg("inserted session")
	return nil
}

func (s *Store) FindSessionByID(ctx context.Context, sessionID string) (*models.Session, error) {
	var row sessionRow
	err := s.db.WithContext(ctx).
		Where("id = ?", sessionID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("find session: %w", err)
	}

	session := rowToSession(&row)
	return &session, nil
}

func (s *Store) FindSessionByRefreshToken(ctx context.Context, refreshToken string) (*models.Session, error) {
	var row sessionRow
	err := s.db.WithContext(ctx).
		Where("refresh_token = ?", refreshToken).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("find session: %w", err)
	}

	session := rowToSession(&row)
	return &session, nil
}

func (s *Store) UpdateSession(ctx context.Context, session *models.Session) error {
	res := s.db.WithContext(ctx).
		Model(&sessionRow{}).
		Where("id = ?", session.ID).
		Updates(map[string]any{
			"refresh_token": session.RefreshToken,
			"expires_at":    session.ExpiresAt,
			"updated_at":    session.UpdatedAt,
		})
	if res.Error != nil {
		return fmt.Errorf("update session: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteSessionsByUser(ctx context.Context, userID string) error {
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&sessionRow{}).Error
	if err != nil {
		return fmt.Errorf("delete sessions: %w", err)
	}

	s.logger.Debug().
		Str("user_id", userID).
		Msg("deleted sessions by user id")
	return nil
}

func sessionToRow(s *models.Session) sessionRow {
	return sessionRow{
		ID:           s.ID,
		UserID:       s.UserID,
		Fingerprint:  s.Fingerprint,
		RefreshToken: s.RefreshToken,
		ExpiresAt:    s.ExpiresAt,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func rowToSession(r *sessionRow) models.Session {
	return models.Session{
		ID:           r.ID,
		UserID:       r.UserID,
		Fingerprint:  r.Fingerprint,
		RefreshToken: r.RefreshToken,
		ExpiresAt:    r.ExpiresAt,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}
