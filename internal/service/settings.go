package service

import (
	"context"
	"errors"

	"github.com/aliskhannn/medcourse-bot/internal/domain/entities"
	"github.com/aliskhannn/medcourse-bot/internal/infra/postgres/repository"
)

type SettingsService struct {
	repository SettingsRepository
}

func NewSettingsService(repository SettingsRepository) *SettingsService {
	return &SettingsService{repository: repository}
}

// Ensure registers the user on first contact. Repeated calls are no-ops.
func (s *SettingsService) Ensure(ctx context.Context, userID int64) error {
	if err := s.repository.Ensure(ctx, userID); err != nil {
		return storeErr("ensure settings", err)
	}
	return nil
}

// Get returns the user's settings, or defaults when the user has none yet.
func (s *SettingsService) Get(ctx context.Context, userID int64) (*entities.UserSettings, error) {
	settings, err := s.repository.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrSettingsNotFound) {
			return entities.NewUserSettings(userID), nil
		}
		return nil, storeErr("get settings", err)
	}
	return settings, nil
}

// SetZodiac parses raw as a zodiac sign and stores its canonical form.
func (s *SettingsService) SetZodiac(ctx context.Context, userID int64, raw string) (entities.ZodiacSign, error) {
	sign, ok := entities.ParseZodiacSign(raw)
	if !ok {
		return "", ErrUnknownSign
	}

	if err := s.repository.SetZodiac(ctx, userID, sign); err != nil {
		return "", storeErr("set zodiac", err)
	}
	return sign, nil
}
