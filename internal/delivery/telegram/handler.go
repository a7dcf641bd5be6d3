package telegram

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const (
	sessionTTL          = 30 * time.Minute
	sessionSweepEvery   = 5 * time.Minute
	updatesTimeoutInSec = 60
)

type Handler struct {
	bot             BotAPI
	logger          *zap.Logger
	regimenService  RegimenService
	settingsService SettingsService
	sessions        SessionStorage
	location        *time.Location
	now             func() time.Time
}

func NewHandler(
	bot BotAPI,
	logger *zap.Logger,
	regimenService RegimenService,
	settingsService SettingsService,
	sessions SessionStorage,
	location *time.Location,
) *Handler {
	if location == nil {
		location = time.UTC
	}
	return &Handler{
		bot:             bot,
		logger:          logger,
		regimenService:  regimenService,
		settingsService: settingsService,
		sessions:        sessions,
		location:        location,
		now:             time.Now,
	}
}

// Commands is the command menu registered with Telegram.
func Commands() []tgbotapi.BotCommand {
	return []tgbotapi.BotCommand{
		{Command: "start", Description: "Запустить бота"},
		{Command: "add", Description: "Добавить лекарство"},
		{Command: "list", Description: "Мои лекарства"},
		{Command: "edit", Description: "Изменить лекарство"},
		{Command: "delete", Description: "Удалить лекарство"},
		{Command: "set_zodiac", Description: "Знак зодиака для утренней сводки"},
		{Command: "cancel", Description: "Отменить ввод"},
		{Command: "help", Description: "Помощь"},
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = updatesTimeoutInSec

	updates := h.bot.GetUpdatesChan(u)
	defer h.bot.StopReceivingUpdates()

	ticker := time.NewTicker(sessionSweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if n := h.sessions.Expire(sessionTTL); n > 0 {
				h.logger.Debug("expired form sessions", zap.Int("count", n))
			}
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil || update.Message.From == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.Bool("command", update.Message.IsCommand()),
	)

	userID := update.Message.From.ID
	if err := h.settingsService.Ensure(ctx, userID); err != nil {
		h.logger.Error("failed to ensure user",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}

	chatID := update.Message.Chat.ID

	if update.Message.IsCommand() {
		switch update.Message.Command() {
		case "start":
			h.send(newHTMLMessage(chatID, msgWelcome))

		case "help":
			h.send(newHTMLMessage(chatID, msgHelp))

		case "add":
			_ = h.withErrorHandling(h.addHandler(userID))(ctx, chatID)

		case "list":
			_ = h.withErrorHandling(h.listHandler(userID))(ctx, chatID)

		case "edit":
			_ = h.withErrorHandling(h.editHandler(userID))(ctx, chatID)

		case "delete":
			_ = h.withErrorHandling(h.deleteHandler(userID))(ctx, chatID)

		case "set_zodiac":
			_ = h.withErrorHandling(h.zodiacHandler(userID, update.Message.CommandArguments()))(ctx, chatID)

		case "cancel":
			h.cancelHandler(userID, chatID)

		default:
			h.send(newHTMLMessage(chatID, msgUnknownCommand))
		}

		return
	}

	_ = h.withErrorHandling(h.formInputHandler(userID, update.Message.Text))(ctx, chatID)
}

func (h *Handler) sendError(chatID int64, err string) {
	msg := newHTMLMessage(chatID, err)
	h.send(msg)
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
	}
}

func (h *Handler) today() time.Time {
	return h.now().In(h.location)
}
