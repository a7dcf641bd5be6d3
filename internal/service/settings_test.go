package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/medcourse-bot/internal/domain/entities"
)

func TestSettingsService_GetDefaults(t *testing.T) {
	s := NewSettingsService(newFakeSettingsRepo())

	settings, err := s.Get(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), settings.UserID)
	assert.Nil(t, settings.ZodiacSign)
	assert.Equal(t, entities.SignLeo, settings.SignOr(entities.SignLeo))
}

func TestSettingsService_SetZodiac(t *testing.T) {
	repo := newFakeSettingsRepo()
	s := NewSettingsService(repo)
	ctx := context.Background()

	require.NoError(t, s.Ensure(ctx, 5))

	sign, err := s.SetZodiac(ctx, 5, "  Scorpio ")
	require.NoError(t, err)
	assert.Equal(t, entities.SignScorpio, sign)

	settings, err := s.Get(ctx, 5)
	require.NoError(t, err)
	require.NotNil(t, settings.ZodiacSign)
	assert.Equal(t, entities.SignScorpio, *settings.ZodiacSign)

	_, err = s.SetZodiac(ctx, 5, "дракон")
	require.ErrorIs(t, err, ErrUnknownSign)
	assert.Equal(t, entities.SignScorpio, repo.signs[5])
}

func TestSettingsService_StoreErrors(t *testing.T) {
	repo := newFakeSettingsRepo()
	repo.err = errStoreDown
	s := NewSettingsService(repo)

	require.ErrorIs(t, s.Ensure(context.Background(), 1), ErrStore)

	_, err := s.Get(context.Background(), 1)
	require.ErrorIs(t, err, ErrStore)

	_, err = s.SetZodiac(context.Background(), 1, "овен")
	require.ErrorIs(t, err, ErrStore)
}
