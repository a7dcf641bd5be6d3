package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/medcourse-bot/internal/domain/entities"
)

const (
	reportHeader   = "💊 Ваши лекарства:"
	reportEmpty    = "ℹ️ У вас пока нет добавленных лекарств."
	displayDateFmt = "02.01.2006"
)

// RegimenReport is the rendered status of one owner's regimens.
type RegimenReport struct {
	Text       string
	Lines      int
	DataErrors []error
}

// RenderRegimens renders each regimen on its own block. A regimen that
// cannot be classified becomes a warning line; the rest still render.
func RenderRegimens(regimens []*entities.Regimen, today time.Time) RegimenReport {
	var (
		b      strings.Builder
		report RegimenReport
	)

	for i, reg := range regimens {
		if i > 0 {
			b.WriteString("\n\n")
		}

		line, err := RegimenLine(reg, today)
		if err != nil {
			report.DataErrors = append(report.DataErrors, err)
		}
		b.WriteString(line)
		report.Lines++
	}

	report.Text = b.String()
	return report
}

// RegimenLine renders a single regimen. On a data error the returned line
// is the warning to show in place of the status.
func RegimenLine(reg *entities.Regimen, today time.Time) (string, error) {
	name := html.EscapeString(reg.Name)

	status, err := reg.Classify(today)
	if err != nil {
		return fmt.Sprintf("⚠️ <b>%s</b> (ID: %s) — ошибка данных: некорректная дата начала", name, reg.ShortID()), err
	}

	var state string
	switch status.State {
	case entities.StateActive:
		state = fmt.Sprintf("⏳ Осталось: %d дней", status.DaysLeft)
	default:
		state = fmt.Sprintf("⏸️ Перерыв до %s", status.NextCycleStart.Format(displayDateFmt))
	}

	return fmt.Sprintf(
		"• <b>%s</b> (ID: %s)\n  🟢 %d капс. × %d р/день\n  📅 Начало: %s\n  %s",
		name, reg.ShortID(), reg.DosePerIntake, reg.IntakesPerDay, html.EscapeString(reg.StartDate), state,
	), nil
}

// ListReport renders the owner's regimens for the list command.
func (s *RegimenService) ListReport(ctx context.Context, ownerID int64, today time.Time) (string, error) {
	regimens, err := s.List(ctx, ownerID)
	if err != nil {
		return "", err
	}
	if len(regimens) == 0 {
		return reportEmpty, nil
	}

	report := RenderRegimens(regimens, today)
	for _, err := range report.DataErrors {
		s.logger.Warn("malformed regimen in list", zap.Int64("owner_id", ownerID), zap.Error(err))
	}

	return reportHeader + "\n\n" + report.Text, nil
}
