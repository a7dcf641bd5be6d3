package content

import (
	"context"
	"math/rand/v2"
)

var quotes = []string{
	"Сегодня лучший день, чтобы начать!",
	"Маленькие шаги приводят к большим результатам.",
	"Успех — это сумма небольших усилий, повторяющихся изо дня в день.",
	"Никогда не поздно стать тем, кем вы всегда хотели быть.",
	"Ваше здоровье — ваше богатство.",
	"Забота о себе — это не эгоизм, а необходимость.",
	"Регулярность приема лекарств — ключ к эффективному лечению.",
	"Здоровье — это не просто отсутствие болезни, а состояние полного благополучия.",
	"Лучшее лекарство — это профилактика.",
	"Ваше тело — храм вашей души, заботьтесь о нем.",
}

// DailyQuote returns a random motivational quote.
func (p *Provider) DailyQuote(_ context.Context) (string, error) {
	return "🌟 Цитата дня:\n" + quotes[p.pick(len(quotes))], nil
}

func randomIndex(n int) int {
	return rand.IntN(n)
}
