package service

import (
	"errors"
	"fmt"

	"github.com/aliskhannn/medcourse-bot/internal/infra/postgres/repository"
)

var (
	// ErrStore marks an unavailable or failing record store.
	ErrStore = errors.New("store failure")

	// ErrRecipientUnreachable is returned by a Notifier when the recipient
	// has not opened a chat with the bot or has blocked it.
	ErrRecipientUnreachable = errors.New("recipient unreachable")

	// ErrDelivery is returned by a Notifier for any other transport failure.
	ErrDelivery = errors.New("delivery failed")

	ErrRegimenNotFound = repository.ErrRegimenNotFound
	ErrUnknownSign     = errors.New("unknown zodiac sign")
)

func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStore, err)
}
