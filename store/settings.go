package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/plutotom/ep-reader/model"
)

func (s *SQLite) GetSettings(ctx context.Context, userID string) (*model.UserSettings, error) {
	var us model.UserSettings
	var created, updated int64
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, timezone, reading_font_size, reading_theme, created_at, updated_at
		FROM user_settings WHERE user_id = ?`, userID).
		Scan(&us.ID, &us.UserID, &us.Timezone, &us.ReadingFontSize, &us.ReadingTheme,
			&created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan settings: %w", err)
	}
	us.CreatedAt = fromUnix(created)
	us.UpdatedAt = fromUnix(updated)
	return &us, nil
}

func (s *SQLite) UpsertSettings(ctx context.Context, us *model.UserSettings) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_settings (id, user_id, timezone, reading_font_size, reading_theme, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			timezone = excluded.timezone,
			reading_font_size = excluded.reading_font_size,
			reading_theme = excluded.reading_theme,
			updated_at = excluded.updated_at`,
		us.ID, us.UserID, us.Timezone, us.ReadingFontSize, us.ReadingTheme,
		unix(us.CreatedAt), unix(us.UpdatedAt))
	if err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}
