package telegram

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"go.uber.org/zap"

	"github.com/aliskhannn/medcourse-bot/internal/domain/entities"
	"github.com/aliskhannn/medcourse-bot/internal/service"
)

func (h *Handler) addHandler(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		session := NewCreateForm(userID)
		h.sessions.Store(userID, session)
		h.sendPrompt(chatID, session, "")
		return nil
	}
}

func (h *Handler) listHandler(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		text, err := h.regimenService.ListReport(ctx, userID, h.today())
		if err != nil {
			return fmt.Errorf("list report: %w", err)
		}
		for _, part := range splitMessage(text, maxMessageRunes, service.FormatHTML) {
			h.send(newHTMLMessage(chatID, part))
		}
		return nil
	}
}

func (h *Handler) editHandler(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		regimens, err := h.regimenService.List(ctx, userID)
		if err != nil {
			return fmt.Errorf("list regimens: %w", err)
		}
		if len(regimens) == 0 {
			h.send(newHTMLMessage(chatID, msgNoRegimens))
			return nil
		}

		msg := newHTMLMessage(chatID, msgChooseEdit)
		msg.ReplyMarkup = buildRegimenPickKeyboard(regimens, func(reg *entities.Regimen) string {
			return buildEditCallback(reg.ID)
		})
		h.send(msg)
		return nil
	}
}

func (h *Handler) deleteHandler(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		regimens, err := h.regimenService.List(ctx, userID)
		if err != nil {
			return fmt.Errorf("list regimens: %w", err)
		}
		if len(regimens) == 0 {
			h.send(newHTMLMessage(chatID, msgNoRegimens))
			return nil
		}

		msg := newHTMLMessage(chatID, msgChooseDelete)
		msg.ReplyMarkup = buildRegimenPickKeyboard(regimens, func(reg *entities.Regimen) string {
			return buildDeleteCallback(reg.ID)
		})
		h.send(msg)
		return nil
	}
}

func (h *Handler) zodiacHandler(userID int64, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if strings.TrimSpace(args) == "" {
			settings, err := h.settingsService.Get(ctx, userID)
			if err != nil {
				return fmt.Errorf("get settings: %w", err)
			}
			msg := newHTMLMessage(chatID, chooseSignMessage(settings))
			msg.ReplyMarkup = buildZodiacKeyboard()
			h.send(msg)
			return nil
		}
		return h.saveZodiac(ctx, chatID, userID, args)
	}
}

func (h *Handler) saveZodiac(ctx context.Context, chatID, userID int64, raw string) error {
	sign, err := h.settingsService.SetZodiac(ctx, userID, raw)
	if err != nil {
		if errors.Is(err, service.ErrUnknownSign) {
			msg := newHTMLMessage(chatID, msgUnknownSign)
			msg.ReplyMarkup = buildZodiacKeyboard()
			h.send(msg)
			return nil
		}
		return fmt.Errorf("set zodiac: %w", err)
	}

	h.send(newHTMLMessage(chatID, zodiacSavedMessage(sign)))
	return nil
}

func (h *Handler) cancelHandler(userID, chatID int64) {
	if _, ok := h.sessions.Get(userID); !ok {
		h.send(newHTMLMessage(chatID, msgNothingToCancel))
		return
	}
	h.sessions.Delete(userID)
	h.send(newHTMLMessage(chatID, msgCancelled))
}

// formInputHandler feeds a plain text message into the user's pending form.
func (h *Handler) formInputHandler(userID int64, text string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		session, ok := h.sessions.Get(userID)
		if !ok {
			h.send(newHTMLMessage(chatID, msgSendTextExpected))
			return nil
		}
		return h.applyFormInput(ctx, chatID, userID, session, text)
	}
}

// applyFormInput advances the form with raw. Invalid input re-prompts the
// same step; a finished create form is saved, an edit form writes one field.
func (h *Handler) applyFormInput(ctx context.Context, chatID, userID int64, session *FormSession, raw string) error {
	if session.Mode == ModeEdit {
		return h.applyEdit(ctx, chatID, userID, session, raw)
	}

	if err := session.Apply(raw); err != nil {
		if errors.Is(err, entities.ErrValidation) {
			h.sendPrompt(chatID, session, invalidInputMessage(session, err))
			return nil
		}
		h.sessions.Delete(userID)
		return err
	}

	if !session.Done() {
		h.sessions.Store(userID, session)
		h.sendPrompt(chatID, session, "")
		return nil
	}

	h.sessions.Delete(userID)

	id, err := h.regimenService.Create(ctx, session.Draft)
	if err != nil {
		if errors.Is(err, entities.ErrValidation) {
			var vErr *entities.ValidationError
			if errors.As(err, &vErr) {
				h.sendError(chatID, "❌ "+html.EscapeString(vErr.Message)+"\n\nНачните заново: /add")
				return nil
			}
		}
		return fmt.Errorf("create regimen: %w", err)
	}

	h.logger.Info("regimen added via form",
		zap.Int64("user_id", userID),
		zap.String("regimen_id", id.String()),
	)
	h.send(newHTMLMessage(chatID, regimenCreatedMessage(session.Draft)))
	return nil
}

func (h *Handler) applyEdit(ctx context.Context, chatID, userID int64, session *FormSession, raw string) error {
	updated, err := h.regimenService.UpdateField(ctx, userID, session.RegimenID, session.EditField, raw)
	if err != nil {
		if errors.Is(err, entities.ErrValidation) {
			h.sendPrompt(chatID, session, invalidInputMessage(session, err))
			return nil
		}
		h.sessions.Delete(userID)
		return err
	}

	h.sessions.Delete(userID)
	h.send(newHTMLMessage(chatID, regimenUpdatedMessage(updated, session.EditField)))
	return nil
}

// sendPrompt asks for the current step, with quick-answer buttons where they exist.
// A non-empty text replaces the default prompt.
func (h *Handler) sendPrompt(chatID int64, session *FormSession, text string) {
	if text == "" {
		text = formPrompt(session)
	}
	msg := newHTMLMessage(chatID, text)
	if kb := formKeyboard(session); kb != nil {
		msg.ReplyMarkup = *kb
	}
	h.send(msg)
}
