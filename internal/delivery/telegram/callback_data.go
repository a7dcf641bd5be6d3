package telegram

import (
	"strings"

	"github.com/google/uuid"

	"github.com/aliskhannn/medcourse-bot/internal/domain/entities"
)

// Callback action constants.
const (
	actionEdit          = "edit"
	actionField         = "field"
	actionDelete        = "del"
	actionDeleteConfirm = "delok"
	actionDeleteCancel  = "delno"
	actionForm          = "form"
	actionZodiac        = "zodiac"
)

// Form quick answers.
const (
	formToday = "today"
)

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

// regimenID returns the regimen ID carried in the first parameter.
func (cd callbackData) regimenID() (uuid.UUID, bool) {
	if len(cd.Params) == 0 {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(cd.Params[0])
	return id, err == nil
}

func buildEditCallback(id uuid.UUID) string {
	return callbackData{Action: actionEdit, Params: []string{id.String()}}.encode()
}

func buildFieldCallback(id uuid.UUID, field entities.RegimenField) string {
	return callbackData{Action: actionField, Params: []string{id.String(), string(field)}}.encode()
}

func buildDeleteCallback(id uuid.UUID) string {
	return callbackData{Action: actionDelete, Params: []string{id.String()}}.encode()
}

func buildDeleteConfirmCallback(id uuid.UUID) string {
	return callbackData{Action: actionDeleteConfirm, Params: []string{id.String()}}.encode()
}

func buildDeleteCancelCallback() string {
	return actionDeleteCancel
}

// buildFormCallback answers the pending form step with a fixed value.
func buildFormCallback(value string) string {
	return callbackData{Action: actionForm, Params: []string{value}}.encode()
}

func buildZodiacCallback(sign entities.ZodiacSign) string {
	return callbackData{Action: actionZodiac, Params: []string{sign.Slug()}}.encode()
}
