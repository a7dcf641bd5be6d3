package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/aliskhannn/medcourse-bot/internal/domain/entities"
	"github.com/aliskhannn/medcourse-bot/internal/infra/postgres"
)

var ErrSettingsNotFound = errors.New("settings not found")

// SettingsRepository provides access to user settings data in the database.
type SettingsRepository struct {
	db postgres.DBTX
}

// NewSettingsRepository creates a new SettingsRepository with the provided database pool.
func NewSettingsRepository(db postgres.DBTX) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Ensure creates an empty settings row for a user if it does not exist yet.
func (r *SettingsRepository) Ensure(ctx context.Context, userID int64) error {
	query := `
		INSERT INTO user_settings (user_id, created_at, updated_at)
		VALUES ($1, NOW(), NOW())
		ON CONFLICT (user_id) DO NOTHING
	`

	_, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("ensure settings: %w", err)
	}

	return nil
}

// SetZodiac stores the user's zodiac sign. The last write wins.
func (r *SettingsRepository) SetZodiac(ctx context.Context, userID int64, sign entities.ZodiacSign) error {
	query := `
		INSERT INTO user_settings (user_id, zodiac_sign, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET zodiac_sign = EXCLUDED.zodiac_sign,
		    updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.Exec(ctx, query, userID, string(sign), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set zodiac sign: %w", err)
	}

	return nil
}

// GetByUserID retrieves settings for a user.
func (r *SettingsRepository) GetByUserID(ctx context.Context, userID int64) (*entities.UserSettings, error) {
	query := `
		SELECT user_id, zodiac_sign, created_at, updated_at
		FROM user_settings
		WHERE user_id = $1
	`

	var (
		settings entities.UserSettings
		sign     pgtype.Text
	)
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&settings.UserID,
		&sign,
		&settings.CreatedAt,
		&settings.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSettingsNotFound
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}

	if sign.Valid {
		if parsed, ok := entities.ParseZodiacSign(sign.String); ok {
			settings.ZodiacSign = &parsed
		}
	}

	return &settings, nil
}
