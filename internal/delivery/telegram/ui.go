package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/medcourse-bot/internal/domain/entities"
)

const zodiacColumns = 3

// buildRegimenPickKeyboard lists regimens, one per row, with the given callback builder.
func buildRegimenPickKeyboard(regimens []*entities.Regimen, cb func(reg *entities.Regimen) string) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(regimens))
	for _, reg := range regimens {
		label := reg.Name + " (" + reg.ShortID() + ")"
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, cb(reg)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildFieldKeyboard lists editable fields of a regimen, two per row.
func buildFieldKeyboard(reg *entities.Regimen) tgbotapi.InlineKeyboardMarkup {
	var (
		rows [][]tgbotapi.InlineKeyboardButton
		row  []tgbotapi.InlineKeyboardButton
	)
	for _, f := range entities.RegimenFields {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(fieldButtonLabel(f), buildFieldCallback(reg.ID, f)))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func fieldButtonLabel(f entities.RegimenField) string {
	switch f {
	case entities.FieldName:
		return "Название"
	case entities.FieldDose:
		return "Доза"
	case entities.FieldIntakes:
		return "Приемов в день"
	case entities.FieldStartDate:
		return "Дата начала"
	case entities.FieldDurationValue:
		return "Длительность"
	case entities.FieldDurationUnit:
		return "Ед. длительности"
	case entities.FieldBreakValue:
		return "Перерыв"
	case entities.FieldBreakUnit:
		return "Ед. перерыва"
	case entities.FieldCycles:
		return "Курсов"
	}
	return string(f)
}

func buildDeleteConfirmKeyboard(reg *entities.Regimen) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Удалить", buildDeleteConfirmCallback(reg.ID)),
			tgbotapi.NewInlineKeyboardButtonData("Отмена", buildDeleteCancelCallback()),
		),
	)
}

// buildUnitKeyboard offers the two duration units.
func buildUnitKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Дни", buildFormCallback(string(entities.UnitDays))),
			tgbotapi.NewInlineKeyboardButtonData("Месяцы", buildFormCallback(string(entities.UnitMonths))),
		),
	)
}

func buildTodayKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📅 Сегодня", buildFormCallback(formToday)),
		),
	)
}

func buildZodiacKeyboard() tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i := 0; i < len(entities.ZodiacSigns); i += zodiacColumns {
		var row []tgbotapi.InlineKeyboardButton
		for _, sign := range entities.ZodiacSigns[i:min(i+zodiacColumns, len(entities.ZodiacSigns))] {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(string(sign), buildZodiacCallback(sign)))
		}
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// formKeyboard returns quick answers for the current step, if it has any.
func formKeyboard(s *FormSession) *tgbotapi.InlineKeyboardMarkup {
	var kb tgbotapi.InlineKeyboardMarkup
	switch {
	case s.wantsUnit():
		kb = buildUnitKeyboard()
	case s.Field() == entities.FieldStartDate:
		kb = buildTodayKeyboard()
	default:
		return nil
	}
	return &kb
}
