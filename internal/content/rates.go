package content

import (
	"context"
	"fmt"
	"net/url"

	"golang.org/x/sync/errgroup"
)

var cryptoSymbols = []string{"BTC", "ETH", "TON"}

type fiatResponse struct {
	Rates map[string]float64 `json:"rates"`
}

type cryptoResponse map[string]map[string]float64

// ExchangeRates returns USD/RUB and the USD prices of BTC, ETH and TON.
func (p *Provider) ExchangeRates(ctx context.Context) (string, error) {
	var (
		fiat   fiatResponse
		crypto cryptoResponse
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return p.getJSON(gctx, p.cfg.FiatURL, nil, &fiat)
	})
	g.Go(func() error {
		params := url.Values{"fsyms": {"BTC,ETH,TON"}, "tsyms": {"USD"}}
		return p.getJSON(gctx, p.cfg.CryptoURL, params, &crypto)
	})
	if err := g.Wait(); err != nil {
		return "", fmt.Errorf("exchange rates: %w", err)
	}

	rub, ok := fiat.Rates["RUB"]
	if !ok {
		return "", fmt.Errorf("exchange rates: RUB missing")
	}

	text := fmt.Sprintf("💱 Курсы:\nUSD/RUB: %.2f", rub)
	for _, sym := range cryptoSymbols {
		price, ok := crypto[sym]["USD"]
		if !ok {
			return "", fmt.Errorf("exchange rates: %s missing", sym)
		}
		text += fmt.Sprintf("\n%s: $%s", sym, number(price))
	}

	return text, nil
}
