package telegram

import (
	"context"
	"errors"
	"fmt"
	"html"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/medcourse-bot/internal/domain/entities"
)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	defer h.answerCallback(cb.ID)

	if cb.Message == nil {
		return
	}

	userID := cb.From.ID
	chatID := cb.Message.Chat.ID
	data := decodeCallback(cb.Data)

	var fn HandlerFunc
	switch data.Action {
	case actionEdit:
		fn = h.editPickCallback(userID, cb.Message.MessageID, data)
	case actionField:
		fn = h.fieldPickCallback(userID, data)
	case actionDelete:
		fn = h.deletePickCallback(userID, cb.Message.MessageID, data)
	case actionDeleteConfirm:
		fn = h.deleteConfirmCallback(userID, cb.Message.MessageID, data)
	case actionDeleteCancel:
		h.editText(chatID, cb.Message.MessageID, msgDeleteCanceled, nil)
		return
	case actionForm:
		fn = h.formCallback(userID, data)
	case actionZodiac:
		fn = h.zodiacCallback(userID, data)
	default:
		h.logger.Debug("unknown callback", zap.String("data", cb.Data))
		return
	}

	_ = h.withErrorHandling(fn)(ctx, chatID)
}

func (h *Handler) editPickCallback(userID int64, messageID int, data callbackData) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		id, ok := data.regimenID()
		if !ok {
			return fmt.Errorf("invalid edit callback %q", data.Raw)
		}

		reg, err := h.regimenService.Get(ctx, userID, id)
		if err != nil {
			return err
		}

		kb := buildFieldKeyboard(reg)
		h.editText(chatID, messageID, fmt.Sprintf(msgChooseField, html.EscapeString(reg.Name)), &kb)
		return nil
	}
}

func (h *Handler) fieldPickCallback(userID int64, data callbackData) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		id, ok := data.regimenID()
		if !ok || len(data.Params) < 2 {
			return fmt.Errorf("invalid field callback %q", data.Raw)
		}
		field, ok := entities.ParseRegimenField(data.Params[1])
		if !ok {
			return fmt.Errorf("unknown field in callback %q", data.Raw)
		}

		if _, err := h.regimenService.Get(ctx, userID, id); err != nil {
			return err
		}

		session := NewEditForm(id, field)
		h.sessions.Store(userID, session)
		h.sendPrompt(chatID, session, "")
		return nil
	}
}

func (h *Handler) deletePickCallback(userID int64, messageID int, data callbackData) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		id, ok := data.regimenID()
		if !ok {
			return fmt.Errorf("invalid delete callback %q", data.Raw)
		}

		reg, err := h.regimenService.Get(ctx, userID, id)
		if err != nil {
			return err
		}

		kb := buildDeleteConfirmKeyboard(reg)
		h.editText(chatID, messageID, fmt.Sprintf(msgConfirmDelete, html.EscapeString(reg.Name)), &kb)
		return nil
	}
}

func (h *Handler) deleteConfirmCallback(userID int64, messageID int, data callbackData) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		id, ok := data.regimenID()
		if !ok {
			return fmt.Errorf("invalid delete confirm callback %q", data.Raw)
		}

		if err := h.regimenService.Delete(ctx, userID, id); err != nil {
			return err
		}

		h.logger.Info("regimen deleted",
			zap.Int64("user_id", userID),
			zap.String("regimen_id", id.String()),
		)
		h.editText(chatID, messageID, msgDeleted, nil)
		return nil
	}
}

// formCallback answers the pending form step from a quick-answer button.
func (h *Handler) formCallback(userID int64, data callbackData) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if len(data.Params) == 0 {
			return fmt.Errorf("invalid form callback %q", data.Raw)
		}

		session, ok := h.sessions.Get(userID)
		if !ok {
			h.send(newHTMLMessage(chatID, msgSendTextExpected))
			return nil
		}

		raw := data.Params[0]
		if !acceptsQuickAnswer(session, raw) {
			return nil
		}
		if raw == formToday {
			raw = h.today().Format(entities.DateLayout)
		}

		err := h.applyFormInput(ctx, chatID, userID, session, raw)
		if errors.Is(err, errFormClosed) {
			return nil
		}
		return err
	}
}

// acceptsQuickAnswer filters out buttons left over from earlier steps.
func acceptsQuickAnswer(session *FormSession, raw string) bool {
	if raw == formToday {
		return session.Field() == entities.FieldStartDate
	}
	return session.wantsUnit()
}

func (h *Handler) zodiacCallback(userID int64, data callbackData) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if len(data.Params) == 0 {
			return fmt.Errorf("invalid zodiac callback %q", data.Raw)
		}
		return h.saveZodiac(ctx, chatID, userID, data.Params[0])
	}
}

func (h *Handler) editText(chatID int64, messageID int, text string, kb *tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	if kb != nil {
		edit.ReplyMarkup = kb
	}
	h.send(edit)
}

// answerCallback removes the loading indicator on the pressed button.
func (h *Handler) answerCallback(id string) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(id, "")); err != nil {
		h.logger.Debug("callback answer error", zap.Error(err))
	}
}
