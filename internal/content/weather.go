package content

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
)

var ErrNoAPIKey = errors.New("weather api key is not configured")

type weatherResponse struct {
	Main *struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  float64 `json:"humidity"`
	} `json:"main"`
	Wind *struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

// Weather returns the current weather for a city from OpenWeatherMap.
func (p *Provider) Weather(ctx context.Context, city string) (string, error) {
	if p.cfg.WeatherAPIKey == "" {
		return "", ErrNoAPIKey
	}

	params := url.Values{
		"q":     {city},
		"appid": {p.cfg.WeatherAPIKey},
		"units": {"metric"},
		"lang":  {"ru"},
	}

	var data weatherResponse
	if err := p.getJSON(ctx, p.cfg.WeatherURL, params, &data); err != nil {
		return "", fmt.Errorf("weather for %s: %w", city, err)
	}
	if data.Main == nil || data.Wind == nil {
		return "", fmt.Errorf("weather for %s: incomplete response", city)
	}

	return fmt.Sprintf(
		"🌤 Погода в %s:\nТемпература: %s°C\nОщущается как: %s°C\nВлажность: %s%%\nВетер: %s м/с",
		city,
		number(data.Main.Temp),
		number(data.Main.FeelsLike),
		number(data.Main.Humidity),
		number(data.Wind.Speed),
	), nil
}

func number(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
