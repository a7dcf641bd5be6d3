package entities

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseField(t *testing.T) {
	tests := []struct {
		name    string
		field   RegimenField
		raw     string
		want    any
		wantErr bool
	}{
		{"name ok", FieldName, "  Омега-3 ", "Омега-3", false},
		{"name empty", FieldName, "   ", nil, true},
		{"name 50 cyrillic runes", FieldName, strings.Repeat("я", 50), strings.Repeat("я", 50), false},
		{"name 51 chars", FieldName, strings.Repeat("A", 51), nil, true},
		{"dose ok", FieldDose, "2", 2, false},
		{"dose zero", FieldDose, "0", nil, true},
		{"dose negative", FieldDose, "-1", nil, true},
		{"dose not a number", FieldDose, "two", nil, true},
		{"dose with sign", FieldDose, "+2", nil, true},
		{"dose overflow", FieldDose, "99999999999999999999999", nil, true},
		{"dose above bound", FieldDose, "1001", nil, true},
		{"intakes lower bound", FieldIntakes, "1", 1, false},
		{"intakes upper bound", FieldIntakes, "24", 24, false},
		{"intakes above bound", FieldIntakes, "25", nil, true},
		{"start date ok", FieldStartDate, "2025-01-01", "2025-01-01", false},
		{"start date short parts", FieldStartDate, "2025-1-1", nil, true},
		{"start date not real", FieldStartDate, "2025-02-30", nil, true},
		{"start date other layout", FieldStartDate, "01.01.2025", nil, true},
		{"duration ok", FieldDurationValue, "30", 30, false},
		{"duration zero", FieldDurationValue, "0", nil, true},
		{"duration upper bound", FieldDurationValue, "100000", 100000, false},
		{"duration above bound", FieldDurationValue, "100001", nil, true},
		{"duration above int32", FieldDurationValue, "2147483648", nil, true},
		{"unit days", FieldDurationUnit, "days", "days", false},
		{"unit mixed case", FieldDurationUnit, "Months", "months", false},
		{"unit unknown", FieldDurationUnit, "weeks", nil, true},
		{"break zero", FieldBreakValue, "0", 0, false},
		{"break negative", FieldBreakValue, "-3", nil, true},
		{"break above bound", FieldBreakValue, "200000", nil, true},
		{"break unit", FieldBreakUnit, "DAYS", "days", false},
		{"cycles ok", FieldCycles, "3", 3, false},
		{"cycles zero", FieldCycles, "0", nil, true},
		{"cycles above bound", FieldCycles, "2000000000", nil, true},
		{"unknown field", RegimenField("color"), "red", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseField(tt.field, tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrValidation)

				var vErr *ValidationError
				require.ErrorAs(t, err, &vErr)
				assert.Equal(t, tt.field, vErr.Field)
				assert.NotEmpty(t, vErr.Message)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRegimenField(t *testing.T) {
	f, ok := ParseRegimenField(" Start_Date ")
	assert.True(t, ok)
	assert.Equal(t, FieldStartDate, f)

	_, ok = ParseRegimenField("owner")
	assert.False(t, ok)
}

func TestRegimenValidate(t *testing.T) {
	r := sampleRegimen()
	require.NoError(t, r.Validate())

	r.Name = strings.Repeat("A", 51)
	err := r.Validate()
	require.Error(t, err)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, FieldName, vErr.Field)

	r = sampleRegimen()
	r.BreakUnit = ""
	err = r.Validate()
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, FieldBreakUnit, vErr.Field)
}

func TestRegimenSetAppliesParsedValues(t *testing.T) {
	r := NewRegimenDraft(7)
	inputs := map[RegimenField]string{
		FieldName:          "Магний",
		FieldDose:          "2",
		FieldIntakes:       "3",
		FieldStartDate:     "2025-03-01",
		FieldDurationValue: "1",
		FieldDurationUnit:  "months",
		FieldBreakValue:    "14",
		FieldBreakUnit:     "days",
		FieldCycles:        "2",
	}

	for _, f := range RegimenFields {
		v, err := ParseField(f, inputs[f])
		require.NoError(t, err, f)
		r.Set(f, v)
	}

	require.NoError(t, r.Validate())
	assert.Equal(t, UnitMonths, r.DurationUnit)
	assert.Equal(t, 14, r.BreakValue)
	assert.Equal(t, int64(7), r.OwnerID)
	assert.Len(t, r.ShortID(), 8)
}
