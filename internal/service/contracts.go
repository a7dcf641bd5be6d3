package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/aliskhannn/medcourse-bot/internal/domain/entities"
)

// RegimenRepository is the record store of medication courses.
type RegimenRepository interface {
	Insert(ctx context.Context, reg *entities.Regimen) (uuid.UUID, error)
	Get(ctx context.Context, id uuid.UUID) (*entities.Regimen, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*entities.Regimen, error)
	ListAll(ctx context.Context) ([]*entities.Regimen, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fn func(reg *entities.Regimen) error) error
	Delete(ctx context.Context, ownerID int64, id uuid.UUID) error
	AllOwners(ctx context.Context) ([]int64, error)
}

type SettingsRepository interface {
	Ensure(ctx context.Context, userID int64) error
	SetZodiac(ctx context.Context, userID int64, sign entities.ZodiacSign) error
	GetByUserID(ctx context.Context, userID int64) (*entities.UserSettings, error)
}

// Format is a rendering hint for the delivery transport.
type Format string

const (
	FormatPlain Format = ""
	FormatHTML  Format = "HTML"
)

// Notifier delivers a text message to a recipient.
// It returns ErrRecipientUnreachable when the recipient has no open chat
// and ErrDelivery for any other transport failure.
type Notifier interface {
	Send(ctx context.Context, recipientID int64, text string, format Format) error
}

// ContentProvider produces the auxiliary blocks of the daily digest.
type ContentProvider interface {
	Weather(ctx context.Context, city string) (string, error)
	ExchangeRates(ctx context.Context) (string, error)
	Horoscope(ctx context.Context, sign entities.ZodiacSign) (string, error)
	DailyQuote(ctx context.Context) (string, error)
}
