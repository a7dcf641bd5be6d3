// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"errors"
	"fmt"
	"html"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/aliskhannn/medcourse-bot/internal/domain/entities"
)

var errFormClosed = errors.New("form is not waiting for input")

// Error messages.
const (
	msgInternalError    = "❌ Произошла ошибка при загрузке данных. Попробуйте позже."
	msgUnknownCommand   = "Неизвестная команда. Список доступных команд: /help"
	msgRegimenNotFound  = "⚠️ Лекарство не найдено."
	msgUnknownSign      = "⚠️ Неизвестный знак зодиака. Выберите знак из списка:"
	msgNoRegimens       = "ℹ️ У вас пока нет добавленных лекарств. Добавьте первое: /add"
	msgNothingToCancel  = "Нечего отменять."
	msgSendTextExpected = "Отправьте /help, чтобы увидеть список команд."
)

const (
	msgWelcome = "👋 Привет! Я помогу не забывать о приеме лекарств.\n\n" +
		"Я напомню о каждом приеме, покажу, сколько дней осталось до конца курса, " +
		"и каждое утро пришлю сводку с погодой, курсами валют и гороскопом.\n\n" +
		"Начните с команды /add."

	msgHelp = "<b>Команды</b>\n\n" +
		"/add — добавить лекарство\n" +
		"/list — мои лекарства и статус курса\n" +
		"/edit — изменить лекарство\n" +
		"/delete — удалить лекарство\n" +
		"/set_zodiac — выбрать знак зодиака для утренней сводки\n" +
		"/cancel — отменить текущий ввод\n" +
		"/help — эта справка"

	msgCancelled      = "Ввод отменен."
	msgChooseEdit     = "Выберите лекарство для изменения:"
	msgChooseDelete   = "Выберите лекарство для удаления:"
	msgChooseField    = "Что изменить в <b>%s</b>?"
	msgConfirmDelete  = "Удалить <b>%s</b>? Это действие нельзя отменить."
	msgDeleted        = "🗑 Лекарство удалено."
	msgDeleteCanceled = "Удаление отменено."
	msgChooseSign     = "Выберите ваш знак зодиака:"
)

// newHTMLMessage creates a message with HTML parse mode.
func newHTMLMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	return msg
}

// formPrompt asks for the value of the current form step.
func formPrompt(s *FormSession) string {
	if s.Mode == ModeEdit {
		return fmt.Sprintf("Введите новое значение: %s", s.Field().Label())
	}
	step, total := s.Progress()
	return fmt.Sprintf("Шаг %d из %d\nВведите %s:", step, total, s.Field().Label())
}

// invalidInputMessage explains why the value was rejected and repeats the prompt.
func invalidInputMessage(s *FormSession, err error) string {
	reason := "Некорректное значение"
	var vErr *entities.ValidationError
	if errors.As(err, &vErr) {
		reason = vErr.Message
	}
	return fmt.Sprintf("❌ %s\n\n%s", html.EscapeString(reason), formPrompt(s))
}

func regimenCreatedMessage(reg *entities.Regimen) string {
	var sb strings.Builder

	sb.WriteString("✅ Лекарство добавлено!\n\n")
	sb.WriteString(fmt.Sprintf("<b>%s</b> (ID: %s)\n", html.EscapeString(reg.Name), reg.ShortID()))
	sb.WriteString(fmt.Sprintf("🟢 %d капс. × %d р/день\n", reg.DosePerIntake, reg.IntakesPerDay))
	sb.WriteString(fmt.Sprintf("📅 Начало: %s, курс %d %s, перерыв %d %s\n",
		reg.StartDate,
		reg.DurationValue, unitLabel(reg.DurationUnit),
		reg.BreakValue, unitLabel(reg.BreakUnit),
	))
	sb.WriteString(fmt.Sprintf("⏰ Напоминания: %s", intakeHoursLabel(reg.IntakesPerDay)))

	return sb.String()
}

func regimenUpdatedMessage(reg *entities.Regimen, field entities.RegimenField) string {
	return fmt.Sprintf("✅ Поле «%s» обновлено для <b>%s</b>.", field.Label(), html.EscapeString(reg.Name))
}

func zodiacSavedMessage(sign entities.ZodiacSign) string {
	title := cases.Title(language.Russian).String(string(sign))
	return fmt.Sprintf("✅ Знак зодиака сохранен: %s", title)
}

// chooseSignMessage asks for a sign, mentioning the current one if it is set.
func chooseSignMessage(settings *entities.UserSettings) string {
	if settings == nil || settings.ZodiacSign == nil {
		return msgChooseSign
	}
	title := cases.Title(language.Russian).String(string(*settings.ZodiacSign))
	return fmt.Sprintf("Сейчас выбран знак: %s\n\n%s", title, msgChooseSign)
}

func unitLabel(u entities.DurationUnit) string {
	if u == entities.UnitMonths {
		return "мес."
	}
	return "дн."
}

func intakeHoursLabel(intakesPerDay int) string {
	hours := entities.IntakeHours(intakesPerDay)
	parts := make([]string, len(hours))
	for i, h := range hours {
		parts[i] = fmt.Sprintf("%02d:00", h)
	}
	return strings.Join(parts, ", ")
}
