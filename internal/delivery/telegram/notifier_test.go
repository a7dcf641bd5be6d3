package telegram

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/medcourse-bot/internal/service"
)

type fakeSender struct {
	mu    sync.Mutex
	sent  []tgbotapi.MessageConfig
	err   error
	block chan struct{}
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return tgbotapi.Message{}, f.err
	}
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, nil
}

func TestNotifier_Send(t *testing.T) {
	sender := &fakeSender{}
	n := NewNotifier(sender, zap.NewNop())

	err := n.Send(context.Background(), 42, "<b>hi</b>", service.FormatHTML)
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, int64(42), sender.sent[0].ChatID)
	assert.Equal(t, tgbotapi.ModeHTML, sender.sent[0].ParseMode)

	require.NoError(t, n.Send(context.Background(), 42, "plain", service.FormatPlain))
	assert.Empty(t, sender.sent[1].ParseMode)
}

func TestNotifier_ClassifiesErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"blocked by user", &tgbotapi.Error{Code: 403, Message: "Forbidden: bot was blocked by the user"}, service.ErrRecipientUnreachable},
		{"chat not found", &tgbotapi.Error{Code: 400, Message: "Bad Request: chat not found"}, service.ErrRecipientUnreachable},
		{"bad markup", &tgbotapi.Error{Code: 400, Message: "Bad Request: can't parse entities"}, service.ErrDelivery},
		{"rate limited", &tgbotapi.Error{Code: 429, Message: "Too Many Requests"}, service.ErrDelivery},
		{"network", errors.New("connection reset"), service.ErrDelivery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewNotifier(&fakeSender{err: tt.err}, zap.NewNop())

			err := n.Send(context.Background(), 1, "text", service.FormatPlain)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNotifier_HonorsContext(t *testing.T) {
	sender := &fakeSender{block: make(chan struct{})}
	defer close(sender.block)
	n := NewNotifier(sender, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := n.Send(ctx, 1, "text", service.FormatPlain)
	require.ErrorIs(t, err, service.ErrDelivery)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSplitMessage(t *testing.T) {
	assert.Equal(t, []string{"short"}, splitMessage("short", 10, service.FormatPlain))

	para := strings.Repeat("я", 6)
	text := para + "\n\n" + para + "\n\n" + para
	parts := splitMessage(text, 16, service.FormatPlain)

	require.Len(t, parts, 2)
	assert.Equal(t, para+"\n\n"+para, parts[0])
	assert.Equal(t, para, parts[1])

	long := strings.Repeat("ж", 25)
	parts = splitMessage(long, 10, service.FormatPlain)
	require.Len(t, parts, 3)
	for _, p := range parts {
		assert.LessOrEqual(t, utf8.RuneCountInString(p), 10)
	}
	assert.Equal(t, long, strings.Join(parts, ""))
}

func TestSplitMessage_HTML(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		limit int
		want  []string
	}{
		{
			name:  "cuts after a closed element",
			text:  "<b>Витамин D</b> принимать утром после еды",
			limit: 20,
			want:  []string{"<b>Витамин D</b>", "принимать утром", "после еды"},
		},
		{
			name:  "keeps a multi-line element whole",
			text:  "<b>aa\nbb</b>\ncc",
			limit: 12,
			want:  []string{"<b>aa\nbb</b>", "cc"},
		},
		{
			name:  "never splits an entity",
			text:  "Tom &amp; Jerry",
			limit: 8,
			want:  []string{"Tom", "&amp;", "Jerry"},
		},
		{
			name:  "drops formatting of an element longer than the limit",
			text:  "<b>" + strings.Repeat("я", 12) + "</b> ok",
			limit: 10,
			want:  []string{strings.Repeat("я", 10), "яя ok"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parts := splitMessage(tt.text, tt.limit, service.FormatHTML)
			assert.Equal(t, tt.want, parts)
			for _, p := range parts {
				assert.LessOrEqual(t, utf8.RuneCountInString(p), tt.limit)
			}
		})
	}
}

func TestSplitMessage_PlainIgnoresMarkup(t *testing.T) {
	parts := splitMessage("<b>abcdefgh</b>", 6, service.FormatPlain)
	assert.Equal(t, "<b>abcdefgh</b>", strings.Join(parts, ""))
	assert.Equal(t, "<b>abc", parts[0])
}
