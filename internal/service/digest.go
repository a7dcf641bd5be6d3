package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/medcourse-bot/internal/domain/entities"
	"github.com/aliskhannn/medcourse-bot/internal/infra/postgres/repository"
)

const (
	digestGreeting     = "🌅 Доброе утро!"
	digestRegimensHead = "💊 Лекарства на сегодня:"
	fallbackQuote      = "🌟 Цитата дня:\nСегодня лучший день, чтобы начать!"
)

// DigestConfig controls the daily digest.
type DigestConfig struct {
	Location      *time.Location
	Time          string // local "HH:MM"
	Cities        []string
	DefaultSign   entities.ZodiacSign
	MaxConcurrent int
	SendTimeout   time.Duration
}

// DigestReport summarizes one digest run.
type DigestReport struct {
	StartedAt   time.Time     `json:"started_at"`
	Duration    time.Duration `json:"duration"`
	Recipients  int           `json:"recipients"`
	Sent        int           `json:"sent"`
	Unreachable int           `json:"unreachable"`
	Failed      int           `json:"failed"`
	DataErrors  int           `json:"data_errors"`
	Error       string        `json:"error,omitempty"`
}

// digestContent holds the blocks shared by every recipient of one run.
type digestContent struct {
	weather    []string
	rates      string
	quote      string
	horoscopes map[entities.ZodiacSign]string
}

// DigestScheduler sends one morning message per known user.
type DigestScheduler struct {
	regimens RegimenRepository
	settings SettingsRepository
	content  ContentProvider
	notifier Notifier
	cfg      DigestConfig
	logger   *zap.Logger
	now      func() time.Time

	mu   sync.RWMutex
	last *DigestReport
}

// NewDigestScheduler creates a new digest scheduler.
func NewDigestScheduler(
	regimens RegimenRepository,
	settings SettingsRepository,
	content ContentProvider,
	notifier Notifier,
	cfg DigestConfig,
	logger *zap.Logger,
) *DigestScheduler {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 10
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 10 * time.Second
	}
	if cfg.DefaultSign == "" {
		cfg.DefaultSign = entities.SignAries
	}

	return &DigestScheduler{
		regimens: regimens,
		settings: settings,
		content:  content,
		notifier: notifier,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// DailySpec converts a local "HH:MM" time into a daily cron spec.
func DailySpec(hhmm string) (string, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return "", fmt.Errorf("parse digest time %q: %w", hhmm, err)
	}
	return fmt.Sprintf("%d %d * * *", t.Minute(), t.Hour()), nil
}

// Start sends the digest every day at the configured time until ctx is done.
func (d *DigestScheduler) Start(ctx context.Context) error {
	spec, err := DailySpec(d.cfg.Time)
	if err != nil {
		return err
	}

	c := cron.New(cron.WithLocation(d.cfg.Location))

	_, err = c.AddFunc(spec, func() {
		d.logger.Info("cron triggered: daily digest")
		if _, err := d.SendDigests(ctx, d.now().In(d.cfg.Location)); err != nil {
			d.logger.Error("daily digest aborted", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("add digest job: %w", err)
	}

	c.Start()
	d.logger.Info("digest scheduler started",
		zap.String("spec", spec),
		zap.String("timezone", d.cfg.Location.String()),
	)

	<-ctx.Done()

	<-c.Stop().Done()
	d.logger.Info("digest scheduler stopped")
	return nil
}

// SendDigests composes and sends the digest to every known user. A failure
// to read the store aborts the run; a failure for one recipient does not.
func (d *DigestScheduler) SendDigests(ctx context.Context, now time.Time) (DigestReport, error) {
	report := DigestReport{StartedAt: now}
	started := time.Now()

	owners, err := d.regimens.AllOwners(ctx)
	if err != nil {
		return d.abort(report, storeErr("list owners", err))
	}

	all, err := d.regimens.ListAll(ctx)
	if err != nil {
		return d.abort(report, storeErr("list regimens", err))
	}

	byOwner := make(map[int64][]*entities.Regimen, len(owners))
	for _, reg := range all {
		byOwner[reg.OwnerID] = append(byOwner[reg.OwnerID], reg)
	}

	signs := d.loadSigns(ctx, owners)
	content := d.fetchContent(ctx, signs)

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(d.cfg.MaxConcurrent)
	report.Recipients = len(owners)

	for _, owner := range owners {
		g.Go(func() error {
			text, dataErrors := d.compose(byOwner[owner], signs[owner], content, now)
			for _, err := range dataErrors {
				d.logger.Warn("malformed regimen in digest", zap.Int64("owner_id", owner), zap.Error(err))
			}

			sendCtx, cancel := context.WithTimeout(ctx, d.cfg.SendTimeout)
			defer cancel()
			err := d.notifier.Send(sendCtx, owner, text, FormatHTML)

			mu.Lock()
			defer mu.Unlock()
			report.DataErrors += len(dataErrors)

			switch {
			case err == nil:
				report.Sent++
			case errors.Is(err, ErrRecipientUnreachable):
				report.Unreachable++
				d.logger.Warn("digest recipient unreachable", zap.Int64("owner_id", owner), zap.Error(err))
			default:
				report.Failed++
				d.logger.Error("failed to send digest", zap.Int64("owner_id", owner), zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()

	report.Duration = time.Since(started)
	d.logger.Info("daily digest finished",
		zap.Int("recipients", report.Recipients),
		zap.Int("sent", report.Sent),
		zap.Int("unreachable", report.Unreachable),
		zap.Int("failed", report.Failed),
	)

	d.storeReport(report)
	return report, nil
}

// LastReport returns the report of the most recent digest run, if any.
func (d *DigestScheduler) LastReport() (DigestReport, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.last == nil {
		return DigestReport{}, false
	}
	return *d.last, true
}

func (d *DigestScheduler) abort(report DigestReport, err error) (DigestReport, error) {
	report.Error = err.Error()
	d.storeReport(report)
	return report, err
}

func (d *DigestScheduler) storeReport(r DigestReport) {
	d.mu.Lock()
	d.last = &r
	d.mu.Unlock()
}

// loadSigns resolves each owner's zodiac sign, falling back to the default
// when settings are missing or cannot be read.
func (d *DigestScheduler) loadSigns(ctx context.Context, owners []int64) map[int64]entities.ZodiacSign {
	signs := make(map[int64]entities.ZodiacSign, len(owners))
	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(d.cfg.MaxConcurrent)

	for _, owner := range owners {
		g.Go(func() error {
			settings, err := d.settings.GetByUserID(ctx, owner)
			if err != nil && !errors.Is(err, repository.ErrSettingsNotFound) {
				d.logger.Warn("failed to load settings for digest", zap.Int64("owner_id", owner), zap.Error(err))
			}

			mu.Lock()
			signs[owner] = settings.SignOr(d.cfg.DefaultSign)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return signs
}

// fetchContent loads the shared blocks once per run. Each block degrades to
// its fallback text independently.
func (d *DigestScheduler) fetchContent(ctx context.Context, signs map[int64]entities.ZodiacSign) digestContent {
	content := digestContent{
		weather:    make([]string, len(d.cfg.Cities)),
		horoscopes: make(map[entities.ZodiacSign]string),
	}

	unique := make(map[entities.ZodiacSign]struct{})
	for _, s := range signs {
		unique[s] = struct{}{}
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(d.cfg.MaxConcurrent)

	for i, city := range d.cfg.Cities {
		g.Go(func() error {
			text, err := d.content.Weather(ctx, city)
			content.weather[i] = d.orFallback("weather", text, err, "Не удалось получить погоду для "+city)
			return nil
		})
	}

	g.Go(func() error {
		text, err := d.content.ExchangeRates(ctx)
		content.rates = d.orFallback("exchange rates", text, err, "Не удалось получить курсы валют")
		return nil
	})

	g.Go(func() error {
		text, err := d.content.DailyQuote(ctx)
		content.quote = d.orFallback("quote", text, err, fallbackQuote)
		return nil
	})

	for sign := range unique {
		g.Go(func() error {
			text, err := d.content.Horoscope(ctx, sign)
			text = d.orFallback("horoscope", text, err, "Не удалось получить гороскоп для "+string(sign))
			mu.Lock()
			content.horoscopes[sign] = text
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait()
	return content
}

func (d *DigestScheduler) orFallback(block, text string, err error, fallback string) string {
	if err != nil {
		d.logger.Warn("content block unavailable", zap.String("block", block), zap.Error(err))
		return fallback
	}
	if strings.TrimSpace(text) == "" {
		return fallback
	}
	return text
}

// compose builds one recipient's digest as HTML. It returns the data errors
// of regimens that were rendered as warnings.
func (d *DigestScheduler) compose(
	regimens []*entities.Regimen,
	sign entities.ZodiacSign,
	content digestContent,
	now time.Time,
) (string, []error) {
	blocks := []string{digestGreeting}

	var dataErrors []error
	if len(regimens) > 0 {
		report := RenderRegimens(regimens, now)
		dataErrors = report.DataErrors
		blocks = append(blocks, digestRegimensHead+"\n\n"+report.Text)
	}

	for _, w := range content.weather {
		blocks = append(blocks, html.EscapeString(w))
	}
	blocks = append(blocks, html.EscapeString(content.rates))

	if sign == "" {
		sign = d.cfg.DefaultSign
	}
	horoscope, ok := content.horoscopes[sign]
	if !ok {
		horoscope = "Не удалось получить гороскоп для " + string(sign)
	}
	blocks = append(blocks, html.EscapeString(horoscope))
	blocks = append(blocks, html.EscapeString(content.quote))

	return strings.Join(blocks, "\n\n"), dataErrors
}
