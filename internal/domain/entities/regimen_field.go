package entities

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// RegimenField names a mutable regimen attribute.
type RegimenField string

const (
	FieldName          RegimenField = "name"
	FieldDose          RegimenField = "dose"
	FieldIntakes       RegimenField = "intakes"
	FieldStartDate     RegimenField = "start_date"
	FieldDurationValue RegimenField = "duration_value"
	FieldDurationUnit  RegimenField = "duration_unit"
	FieldBreakValue    RegimenField = "break_value"
	FieldBreakUnit     RegimenField = "break_unit"
	FieldCycles        RegimenField = "cycles"
)

// RegimenFields lists the fields in the order the intake form asks for them.
var RegimenFields = []RegimenField{
	FieldName,
	FieldDose,
	FieldIntakes,
	FieldStartDate,
	FieldDurationValue,
	FieldDurationUnit,
	FieldBreakValue,
	FieldBreakUnit,
	FieldCycles,
}

type fieldKind int

const (
	kindText fieldKind = iota
	kindInt
	kindUnit
)

type fieldRule struct {
	kind    fieldKind
	tag     string // validator tag applied to the parsed value
	message string
}

// maxSpanValue bounds durations and breaks so that a span in months still
// fits a Postgres INTEGER column and time.AddDate once converted to days.
const maxSpanValue = "100000"

var fieldRules = map[RegimenField]fieldRule{
	FieldName:          {kindText, "required,max=50", "Название не может быть пустым и должно быть не длиннее 50 символов"},
	FieldDose:          {kindInt, "min=1,max=1000", "Должно быть целое число от 1 до 1000"},
	FieldIntakes:       {kindInt, "min=1,max=24", "Должно быть целое число от 1 до 24"},
	FieldStartDate:     {kindText, "required,datetime=2006-01-02", "Неверный формат даты (требуется ГГГГ-ММ-ДД)"},
	FieldDurationValue: {kindInt, "min=1,max=" + maxSpanValue, "Должно быть целое число от 1 до " + maxSpanValue},
	FieldDurationUnit:  {kindUnit, "oneof=days months", "Допустимые значения: 'days' или 'months'"},
	FieldBreakValue:    {kindInt, "min=0,max=" + maxSpanValue, "Должно быть целое число от 0 до " + maxSpanValue},
	FieldBreakUnit:     {kindUnit, "oneof=days months", "Допустимые значения: 'days' или 'months'"},
	FieldCycles:        {kindInt, "min=1,max=1000", "Должно быть целое число от 1 до 1000"},
}

var validate = validator.New()

// ParseRegimenField resolves a field name coming from user input or callback data.
func ParseRegimenField(s string) (RegimenField, bool) {
	f := RegimenField(strings.ToLower(strings.TrimSpace(s)))
	_, ok := fieldRules[f]
	return f, ok
}

// ParseField converts raw user input into a typed, validated field value.
// The same rule applies when a field is set for the first time and when it is edited.
func ParseField(f RegimenField, raw string) (any, error) {
	rule, ok := fieldRules[f]
	if !ok {
		return nil, &ValidationError{Field: f, Message: "Неизвестное поле"}
	}

	raw = strings.TrimSpace(raw)

	var v any
	switch rule.kind {
	case kindInt:
		if err := validate.Var(raw, "required,number"); err != nil {
			return nil, &ValidationError{Field: f, Message: rule.message}
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, &ValidationError{Field: f, Message: rule.message}
		}
		v = n
	case kindUnit:
		v = strings.ToLower(raw)
	default:
		v = raw
	}

	if err := validateValue(f, v); err != nil {
		return nil, err
	}
	return v, nil
}

func validateValue(f RegimenField, v any) error {
	rule, ok := fieldRules[f]
	if !ok {
		return &ValidationError{Field: f, Message: "Неизвестное поле"}
	}
	if err := validate.Var(v, rule.tag); err != nil {
		return &ValidationError{Field: f, Message: rule.message}
	}
	return nil
}

// Label returns the human-readable field name used in prompts.
func (f RegimenField) Label() string {
	switch f {
	case FieldName:
		return "название"
	case FieldDose:
		return "дозу (число)"
	case FieldIntakes:
		return "количество приемов в день (число)"
	case FieldStartDate:
		return "дату начала (ГГГГ-ММ-ДД)"
	case FieldDurationValue:
		return "длительность (число)"
	case FieldDurationUnit:
		return "единицы длительности (days/months)"
	case FieldBreakValue:
		return "длительность перерыва (число)"
	case FieldBreakUnit:
		return "единицы перерыва (days/months)"
	case FieldCycles:
		return "количество курсов (число)"
	}
	return string(f)
}
