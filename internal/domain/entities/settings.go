package entities

import (
	"time"
)

// UserSettings stores per-user preferences. A row is created on first contact.
type UserSettings struct {
	UserID     int64
	ZodiacSign *ZodiacSign // nullable, picked with /set_zodiac
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewUserSettings creates a new UserSettings instance with default values.
func NewUserSettings(userID int64) *UserSettings {
	now := time.Now()
	return &UserSettings{
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SignOr returns the configured sign or the fallback.
func (s *UserSettings) SignOr(fallback ZodiacSign) ZodiacSign {
	if s == nil || s.ZodiacSign == nil || *s.ZodiacSign == "" {
		return fallback
	}
	return *s.ZodiacSign
}
