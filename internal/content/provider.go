// Package content fetches the auxiliary blocks of the daily digest:
// weather, exchange rates, horoscope and a quote.
package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

const (
	DefaultWeatherURL   = "https://api.openweathermap.org/data/2.5/weather"
	DefaultFiatURL      = "https://api.exchangerate-api.com/v4/latest/USD"
	DefaultCryptoURL    = "https://min-api.cryptocompare.com/data/pricemulti"
	DefaultHoroscopeURL = "https://horo.mail.ru/prediction"

	maxBodySize = 2 << 20
)

var ErrUnexpectedStatus = errors.New("unexpected response status")

// Config holds endpoints of the content sources.
type Config struct {
	WeatherURL    string
	WeatherAPIKey string
	FiatURL       string
	CryptoURL     string
	HoroscopeURL  string
	Timeout       time.Duration
	Retries       uint64
}

// Provider implements every digest content block.
type Provider struct {
	cfg    Config
	client *http.Client
	logger *zap.Logger
	pick   func(n int) int
}

// NewProvider creates a Provider, filling unset endpoints with the public defaults.
func NewProvider(cfg Config, logger *zap.Logger) *Provider {
	if cfg.WeatherURL == "" {
		cfg.WeatherURL = DefaultWeatherURL
	}
	if cfg.FiatURL == "" {
		cfg.FiatURL = DefaultFiatURL
	}
	if cfg.CryptoURL == "" {
		cfg.CryptoURL = DefaultCryptoURL
	}
	if cfg.HoroscopeURL == "" {
		cfg.HoroscopeURL = DefaultHoroscopeURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &Provider{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
		pick:   randomIndex,
	}
}

// get fetches rawURL with query params. 5xx responses and transport errors
// are retried with a short backoff, anything else fails immediately.
func (p *Provider) get(ctx context.Context, rawURL string, params url.Values) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	if len(params) > 0 {
		u.RawQuery = params.Encode()
	}

	backoff := retry.WithMaxRetries(p.cfg.Retries, retry.NewExponential(200*time.Millisecond))

	var body []byte
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return fmt.Errorf("new request: %w", err)
		}
		req.Header.Set("User-Agent", "medcourse-bot/1.0")

		resp, err := p.client.Do(req)
		if err != nil {
			return retry.RetryableError(fmt.Errorf("do request: %w", err))
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError {
			return retry.RetryableError(fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
		}

		body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
		if err != nil {
			return fmt.Errorf("read body: %w", err)
		}
		return nil
	})
	if err != nil {
		p.logger.Debug("content request failed", zap.String("host", u.Host), zap.Error(err))
		return nil, err
	}

	return body, nil
}

func (p *Provider) getJSON(ctx context.Context, rawURL string, params url.Values, dst any) error {
	body, err := p.get(ctx, rawURL, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
