package postgres

import (
	"context"
	"fmt"
	"time"

	"marketai-bot/internal/models"

	"github.com/gocraft/dbr/v2"
	"go.uber.org/zap"
)

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	now := time.Now()

	_, err := s.sess.
		InsertInto("users").
		Columns("id", "username", "first_name", "last_name", "created_at", "last_seen").
		Values(user.ID, user.Username, user.FirstName, user.LastName, now, now).
		ExecContext(ctx)

	if err != nil {
		s.logger.Error("failed to create user",
			zap.Int64("user_id", user.ID),
			zap.Error(err),
		)
		return fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user created",
		zap.Int64("user_id", user.ID),
		zap.Stringp("username", user.Username),
	)

	return nil
}

func (s *Store) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	var user models.User

	err := s.sess.
		Select("*").
		From("users").
		Where("id = ?", userID).
		LoadOneContext(ctx, &user)

	if err == dbr.ErrNotFound {
		return nil, nil
	}

	if err != nil {
		s.logger.Error("failed to get user",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

func (s *Store) UpdateUser(ctx context.Context, user *models.User) error {
	_, err := s.sess.
		Update("users").
		Set("username", user.Username).
		Set("first_name", user.FirstName).
		Set("last_name", user.LastName).
		Where("id = ?", user.ID).
		ExecContext(ctx)

	if err != nil {
		s.logger.Error("failed to update user",
			zap.Int64("user_id", user.ID),
			zap.Error(err),
		)
		return fmt.Errorf("update user: %w", err)
	}

	s.logger.Info("user updated", zap.Int64("user_id", user.ID))
	return nil
}

// TouchUser records activity of a user.
func (s *Store) TouchUser(ctx context.Context, userID int64) error {
	_, err := s.sess.
		Update("users").
		Set("last_seen", time.Now()).
		Where("id = ?", userID).
		ExecContext(ctx)

	if err != nil {
		s.logger.Error("failed to update last seen",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return fmt.Errorf("touch user: %w", err)
	}

	return nil
}
