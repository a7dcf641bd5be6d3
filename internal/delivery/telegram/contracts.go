package telegram

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/aliskhannn/medcourse-bot/internal/domain/entities"
)

// BotAPI is the part of *tgbotapi.BotAPI the handler uses.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type RegimenService interface {
	Create(ctx context.Context, reg *entities.Regimen) (uuid.UUID, error)
	UpdateField(ctx context.Context, ownerID int64, id uuid.UUID, field entities.RegimenField, raw string) (*entities.Regimen, error)
	Delete(ctx context.Context, ownerID int64, id uuid.UUID) error
	List(ctx context.Context, ownerID int64) ([]*entities.Regimen, error)
	Get(ctx context.Context, ownerID int64, id uuid.UUID) (*entities.Regimen, error)
	ListReport(ctx context.Context, ownerID int64, today time.Time) (string, error)
}

type SettingsService interface {
	Ensure(ctx context.Context, userID int64) error
	SetZodiac(ctx context.Context, userID int64, raw string) (entities.ZodiacSign, error)
	Get(ctx context.Context, userID int64) (*entities.UserSettings, error)
}

type SessionStorage interface {
	Store(userID int64, session *FormSession)
	Get(userID int64) (*FormSession, bool)
	Delete(userID int64)
	Expire(ttl time.Duration) int
}
