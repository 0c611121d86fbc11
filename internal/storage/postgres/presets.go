package postgres

import (
	"context"
	"fmt"

	"marketai-bot/internal/models"

	"github.com/gocraft/dbr/v2"
	"go.uber.org/zap"
)

// LoadPresets returns the raw preset document of a user, or nil when the
// user has none.
func (s *Store) LoadPresets(ctx context.Context, userID int64) ([]byte, error) {
	var row models.UserPresets

	err := s.sess.
		Select("user_id", "payload", "updated_at").
		From("user_presets").
		Where("user_id = ?", userID).
		LoadOneContext(ctx, &row)

	if err == dbr.ErrNotFound {
		return nil, nil
	}

	if err != nil {
		s.logger.Error("failed to load presets",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("load presets: %w", err)
	}

	return row.Payload, nil
}

// SavePresets replaces the preset document of a user.
func (s *Store) SavePresets(ctx context.Context, userID int64, data []byte) error {
	query := `
		INSERT INTO user_presets (user_id, payload, updated_at)
		VALUES (?, ?::jsonb, NOW())
		ON CONFLICT (user_id)
		DO UPDATE SET
			payload    = EXCLUDED.payload,
			updated_at = NOW()
	`

	_, err := s.sess.
		InsertBySql(query, userID, string(data)).
		ExecContext(ctx)

	if err != nil {
		s.logger.Error("failed to save presets",
			zap.Int64("user_id", userID),
			zap.Int("bytes", len(data)),
			zap.Error(err),
		)
		return fmt.Errorf("save presets: %w", err)
	}

	s.logger.Debug("presets saved",
		zap.Int64("user_id", userID),
		zap.Int("bytes", len(data)),
	)

	return nil
}
