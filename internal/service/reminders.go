package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/aliskhannn/medcourse-bot/internal/domain/entities"
)

// ReminderConfig controls the intake reminder sweep.
type ReminderConfig struct {
	Location       *time.Location
	Spec           string        // cron spec of the sweep, e.g. "*/30 * * * *"
	Tolerance      time.Duration // max distance in minutes between a tick and an intake instant
	RegimenTimeout time.Duration // upper bound for processing one regimen
	MaxConcurrent  int
}

// SweepReport summarizes one sweep tick.
type SweepReport struct {
	StartedAt   time.Time     `json:"started_at"`
	Duration    time.Duration `json:"duration"`
	Regimens    int           `json:"regimens"`
	Sent        int           `json:"sent"`
	Skipped     int           `json:"skipped"`
	DataErrors  int           `json:"data_errors"`
	Unreachable int           `json:"unreachable"`
	Failed      int           `json:"failed"`
	Error       string        `json:"error,omitempty"`
}

type sweepOutcome int

const (
	outcomeSkipped sweepOutcome = iota
	outcomeSent
	outcomeDataError
	outcomeUnreachable
	outcomeFailed
)

// ReminderEvaluator sends intake reminders for every regimen whose intake
// instant matches the current tick. It keeps no per-regimen state, so a
// regimen matching two consecutive ticks is reminded twice.
type ReminderEvaluator struct {
	repo     RegimenRepository
	notifier Notifier
	cfg      ReminderConfig
	logger   *zap.Logger
	now      func() time.Time

	mu   sync.RWMutex
	last *SweepReport
}

// NewReminderEvaluator creates a new reminder evaluator.
func NewReminderEvaluator(
	repo RegimenRepository,
	notifier Notifier,
	cfg ReminderConfig,
	logger *zap.Logger,
) *ReminderEvaluator {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 10
	}
	if cfg.RegimenTimeout <= 0 {
		cfg.RegimenTimeout = 10 * time.Second
	}

	return &ReminderEvaluator{
		repo:     repo,
		notifier: notifier,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// Start runs the sweep on the configured schedule until ctx is done.
func (e *ReminderEvaluator) Start(ctx context.Context) error {
	c := cron.New(cron.WithLocation(e.cfg.Location))

	_, err := c.AddFunc(e.cfg.Spec, func() {
		now := e.now().In(e.cfg.Location)
		e.logger.Debug("cron triggered: reminder sweep", zap.Time("now", now))
		if _, err := e.Sweep(ctx, now); err != nil {
			e.logger.Error("reminder sweep aborted", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("add sweep job: %w", err)
	}

	c.Start()
	e.logger.Info("reminder evaluator started",
		zap.String("spec", e.cfg.Spec),
		zap.String("timezone", e.cfg.Location.String()),
	)

	<-ctx.Done()

	<-c.Stop().Done()
	e.logger.Info("reminder evaluator stopped")
	return nil
}

// Sweep evaluates every stored regimen against now. A store failure aborts
// the tick; per-regimen failures are counted and logged.
func (e *ReminderEvaluator) Sweep(ctx context.Context, now time.Time) (SweepReport, error) {
	report := SweepReport{StartedAt: now}
	started := time.Now()

	regimens, err := e.repo.ListAll(ctx)
	if err != nil {
		err = storeErr("list regimens", err)
		report.Error = err.Error()
		e.storeReport(report)
		return report, err
	}
	report.Regimens = len(regimens)

	outcomes := e.processBatch(ctx, regimens, now)
	for _, o := range outcomes {
		switch o {
		case outcomeSent:
			report.Sent++
		case outcomeDataError:
			report.DataErrors++
		case outcomeUnreachable:
			report.Unreachable++
		case outcomeFailed:
			report.Failed++
		default:
			report.Skipped++
		}
	}
	report.Duration = time.Since(started)

	e.logger.Info("reminder sweep finished",
		zap.Int("regimens", report.Regimens),
		zap.Int("sent", report.Sent),
		zap.Int("data_errors", report.DataErrors),
		zap.Int("unreachable", report.Unreachable),
		zap.Int("failed", report.Failed),
	)

	e.storeReport(report)
	return report, nil
}

// LastReport returns the report of the most recent sweep, if any.
func (e *ReminderEvaluator) LastReport() (SweepReport, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.last == nil {
		return SweepReport{}, false
	}
	return *e.last, true
}

func (e *ReminderEvaluator) storeReport(r SweepReport) {
	e.mu.Lock()
	e.last = &r
	e.mu.Unlock()
}

// processBatch evaluates regimens concurrently with a bounded number of workers.
func (e *ReminderEvaluator) processBatch(ctx context.Context, regimens []*entities.Regimen, now time.Time) []sweepOutcome {
	sem := make(chan struct{}, e.cfg.MaxConcurrent)
	outcomes := make([]sweepOutcome, len(regimens))
	var wg sync.WaitGroup

	for i, reg := range regimens {
		wg.Add(1)
		sem <- struct{}{}

		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			outcomes[i] = e.processRegimen(ctx, reg, now)
		}()
	}

	wg.Wait()
	return outcomes
}

// processRegimen handles a single regimen.
func (e *ReminderEvaluator) processRegimen(ctx context.Context, reg *entities.Regimen, now time.Time) (outcome sweepOutcome) {
	log := e.logger.With(
		zap.String("regimen_id", reg.ID.String()),
		zap.Int64("owner_id", reg.OwnerID),
	)

	defer func() {
		if r := recover(); r != nil {
			log.Error("panic while evaluating regimen", zap.Any("panic", r))
			outcome = outcomeFailed
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, e.cfg.RegimenTimeout)
	defer cancel()

	at, due, err := reg.DueIntake(now, e.cfg.Tolerance)
	if err != nil {
		log.Warn("skipping malformed regimen", zap.Error(err))
		return outcomeDataError
	}
	if !due {
		return outcomeSkipped
	}

	if err := e.notifier.Send(ctx, reg.OwnerID, ReminderText(reg), FormatPlain); err != nil {
		if errors.Is(err, ErrRecipientUnreachable) {
			log.Warn("recipient has no open chat", zap.Error(err))
			return outcomeUnreachable
		}
		log.Error("failed to send reminder", zap.Error(err))
		return outcomeFailed
	}

	log.Info("reminder sent", zap.Time("intake_at", at))
	return outcomeSent
}

// ReminderText is the message sent for one intake.
func ReminderText(reg *entities.Regimen) string {
	return fmt.Sprintf("💊 Напоминание: примите %d капсул(ы) %s", reg.DosePerIntake, reg.Name)
}
