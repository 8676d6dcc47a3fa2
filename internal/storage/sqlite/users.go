package sqlite

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"todoweb/internal/models"
	"todoweb/internal/storage"
)

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	return s.createUser(s.db.WithContext(ctx), user)
}

func (s *Store) createUser(tx *gorm.DB, user *models.User) error {
	row := userRow{
		ID:        user.ID,
		Email:     user.Email,
		Password:  user.Password,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
	if err := tx.Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			s.logger.Warn().
				Str("email", user.Email).
				Msg("user with this email already exists")
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create user: %w", err)
	}

	s.logger.Debug().
		Str("user_id", user.ID).
		Msg("inserted user")
	return nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var row userRow
	err := s.db.WithContext(ctx).
		Where("email = ?", email).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	return &models.User{
		ID:        row.ID,
		Email:     row.Email,
		Password:  row.Password,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

func (s *Store) CreateUserWithSession(ctx context.Context, user *models.User, session *models.Session) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.createUser(tx, user); err != nil {
			return err
		}
		return s.createSession(tx, session)
	})
}
