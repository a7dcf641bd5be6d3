package content

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/aliskhannn/medcourse-bot/internal/domain/entities"
)

const (
	horoscopeClass    = "article__text"
	maxHoroscopeRunes = 500
)

var ErrHoroscopeNotFound = errors.New("horoscope block not found")

// Horoscope returns today's horoscope for the sign, cut to 500 characters.
func (p *Provider) Horoscope(ctx context.Context, sign entities.ZodiacSign) (string, error) {
	pageURL := strings.TrimRight(p.cfg.HoroscopeURL, "/") + "/" + sign.Slug() + "/today/"

	body, err := p.get(ctx, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("horoscope for %s: %w", sign, err)
	}

	text, err := extractHoroscope(body)
	if err != nil {
		return "", fmt.Errorf("horoscope for %s: %w", sign, err)
	}

	return fmt.Sprintf("♌ Гороскоп для %s:\n%s...", sign, truncateRunes(text, maxHoroscopeRunes)), nil
}

// extractHoroscope returns the whitespace-collapsed text of the first div
// carrying the article__text class.
func extractHoroscope(page []byte) (string, error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("parse page: %w", err)
	}

	node := findByClass(doc, "div", horoscopeClass)
	if node == nil {
		return "", ErrHoroscopeNotFound
	}

	var b strings.Builder
	collectText(node, &b)

	text := strings.Join(strings.Fields(b.String()), " ")
	if text == "" {
		return "", ErrHoroscopeNotFound
	}
	return text, nil
}

func findByClass(n *html.Node, tag, class string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag && hasClass(n, class) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByClass(c, tag, class); found != nil {
			return found
		}
	}
	return nil
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func collectText(n *html.Node, b *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		b.WriteByte(' ')
	case html.ElementNode:
		if n.Data == "script" || n.Data == "style" {
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
