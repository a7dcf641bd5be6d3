package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/medcourse-bot/internal/service"
)

// maxMessageRunes is the Telegram limit for one text message.
const maxMessageRunes = 4096

// Sender is the part of *tgbotapi.BotAPI the notifier uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier delivers reminders and digests to private chats.
type Notifier struct {
	bot    Sender
	logger *zap.Logger
}

// NewNotifier creates a new Notifier.
func NewNotifier(bot Sender, logger *zap.Logger) *Notifier {
	return &Notifier{bot: bot, logger: logger}
}

// Send delivers text to the recipient's private chat. Texts longer than one
// Telegram message are split on paragraph boundaries.
func (n *Notifier) Send(ctx context.Context, recipientID int64, text string, format service.Format) error {
	for _, part := range splitMessage(text, maxMessageRunes, format) {
		msg := tgbotapi.NewMessage(recipientID, part)
		msg.ParseMode = string(format)

		if err := n.send(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

// send runs the blocking API call so that ctx can bound it.
func (n *Notifier) send(ctx context.Context, msg tgbotapi.MessageConfig) error {
	done := make(chan error, 1)
	go func() {
		_, err := n.bot.Send(msg)
		done <- err
	}()

	select {
	case err := <-done:
		return classifySendError(err)
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", service.ErrDelivery, ctx.Err())
	}
}

// classifySendError separates recipients without an open chat from other failures.
func classifySendError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		desc := strings.ToLower(apiErr.Message)
		switch {
		case apiErr.Code == http.StatusForbidden,
			apiErr.Code == http.StatusBadRequest && strings.Contains(desc, "chat not found"):
			return fmt.Errorf("%w: %v", service.ErrRecipientUnreachable, err)
		}
	}

	return fmt.Errorf("%w: %v", service.ErrDelivery, err)
}

// splitMessage cuts text into chunks of at most limit runes, preferring
// blank lines, then line breaks, then spaces as cut points. In HTML mode a
// chunk never ends inside a tag, an entity or an open element.
func splitMessage(text string, limit int, format service.Format) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	markup := format == service.FormatHTML
	stripped := false

	var parts []string
	for utf8.RuneCountInString(text) > limit {
		runes := []rune(text)
		head := string(runes[:limit])

		cut := cutPoint(head, markup)
		if cut <= 0 && markup && !stripped {
			// One element longer than a message: drop the formatting.
			text = htmlTag.ReplaceAllString(text, "")
			stripped = true
			continue
		}
		if cut <= 0 {
			cut = len(head)
		}

		parts = append(parts, strings.TrimRight(text[:cut], "\n "))
		text = strings.TrimLeft(text[cut:], "\n ")
	}
	if text != "" {
		parts = append(parts, text)
	}
	return parts
}

var htmlTag = regexp.MustCompile(`<[^>]*>`)

// cutPoint returns the byte offset of the best place to end head, or 0 if
// there is none.
func cutPoint(head string, markup bool) int {
	var (
		inTag, inEntity, closing bool
		depth                    int
		para, line, space, safe  int
	)

	for i, r := range head {
		if !markup || (!inTag && !inEntity && depth == 0) {
			if i > 0 {
				safe = i
			}
			switch r {
			case '\n':
				line = i
				if i > 0 && head[i-1] == '\n' {
					para = i - 1
				}
			case ' ':
				space = i
			}
		}
		if !markup {
			continue
		}

		switch {
		case r == '<':
			inTag = true
			closing = strings.HasPrefix(head[i:], "</")
		case r == '>' && inTag:
			inTag = false
			if closing {
				depth = max(depth-1, 0)
			} else {
				depth++
			}
		case r == '&' && !inTag:
			inEntity = true
		case r == ';' && inEntity:
			inEntity = false
		}
	}
	if !markup || (!inTag && !inEntity && depth == 0) {
		safe = len(head)
	}

	for _, cut := range []int{para, line, space, safe} {
		if cut > 0 {
			return cut
		}
	}
	return 0
}
