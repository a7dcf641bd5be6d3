package telegram

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/medcourse-bot/internal/domain/entities"
)

// Telegram rejects callback data longer than 64 bytes.
const maxCallbackDataBytes = 64

func TestCallbackData_RoundTrip(t *testing.T) {
	id := uuid.New()

	data := decodeCallback(buildFieldCallback(id, entities.FieldDurationUnit))
	assert.Equal(t, actionField, data.Action)
	require.Len(t, data.Params, 2)
	assert.Equal(t, "duration_unit", data.Params[1])

	got, ok := data.regimenID()
	require.True(t, ok)
	assert.Equal(t, id, got)
}

func TestCallbackData_NoParams(t *testing.T) {
	data := decodeCallback(buildDeleteCancelCallback())
	assert.Equal(t, actionDeleteCancel, data.Action)
	assert.Empty(t, data.Params)

	_, ok := data.regimenID()
	assert.False(t, ok)
}

func TestCallbackData_BadRegimenID(t *testing.T) {
	_, ok := decodeCallback("edit:not-a-uuid").regimenID()
	assert.False(t, ok)
}

func TestCallbackData_FitsTelegramLimit(t *testing.T) {
	id := uuid.New()

	var all []string
	for _, f := range entities.RegimenFields {
		all = append(all, buildFieldCallback(id, f))
	}
	for _, sign := range entities.ZodiacSigns {
		all = append(all, buildZodiacCallback(sign))
	}
	all = append(all,
		buildEditCallback(id),
		buildDeleteCallback(id),
		buildDeleteConfirmCallback(id),
		buildFormCallback(formToday),
		buildFormCallback(string(entities.UnitMonths)),
	)

	for _, data := range all {
		assert.LessOrEqual(t, len(data), maxCallbackDataBytes, data)
	}
}

func TestZodiacCallback_UsesSlug(t *testing.T) {
	data := decodeCallback(buildZodiacCallback(entities.SignSagittarius))
	require.Len(t, data.Params, 1)
	assert.Equal(t, "sagittarius", data.Params[0])

	sign, ok := entities.ParseZodiacSign(data.Params[0])
	require.True(t, ok)
	assert.Equal(t, entities.SignSagittarius, sign)
}
