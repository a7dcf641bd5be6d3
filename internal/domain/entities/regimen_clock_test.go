package entities

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(DateLayout, s)
	require.NoError(t, err)
	return d
}

func sampleRegimen() *Regimen {
	return &Regimen{
		ID:            uuid.New(),
		OwnerID:       42,
		Name:          "Витамин D",
		DosePerIntake: 1,
		IntakesPerDay: 3,
		StartDate:     "2025-01-01",
		DurationValue: 10,
		DurationUnit:  UnitDays,
		BreakValue:    5,
		BreakUnit:     UnitDays,
		Cycles:        1,
	}
}

func TestDaysIn(t *testing.T) {
	assert.Equal(t, 7, DaysIn(7, UnitDays))
	assert.Equal(t, 90, DaysIn(3, UnitMonths))
	assert.Equal(t, 0, DaysIn(0, UnitMonths))
}

func TestEndDate(t *testing.T) {
	tests := []struct {
		name  string
		value int
		unit  DurationUnit
		want  string
	}{
		{"days", 10, UnitDays, "2025-01-11"},
		{"one month is thirty days", 1, UnitMonths, "2025-01-31"},
		{"two months cross february", 2, UnitMonths, "2025-03-02"},
		{"sixty days", 60, UnitDays, "2025-03-02"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := sampleRegimen()
			r.DurationValue = tt.value
			r.DurationUnit = tt.unit

			end, err := r.EndDate()
			require.NoError(t, err)
			assert.Equal(t, date(t, tt.want), end)
		})
	}
}

func TestClassify_ActiveAndBreak(t *testing.T) {
	r := sampleRegimen()

	status, err := r.Classify(date(t, "2025-01-05"))
	require.NoError(t, err)
	assert.Equal(t, StateActive, status.State)
	assert.Equal(t, 6, status.DaysLeft)

	status, err = r.Classify(date(t, "2025-02-15"))
	require.NoError(t, err)
	assert.Equal(t, StateOnBreak, status.State)
	assert.Equal(t, date(t, "2025-01-16"), status.NextCycleStart)
}

func TestClassify_EndDayIsBreak(t *testing.T) {
	r := sampleRegimen()

	status, err := r.Classify(date(t, "2025-01-11"))
	require.NoError(t, err)
	assert.Equal(t, StateOnBreak, status.State)
	assert.Equal(t, 0, status.DaysLeft)
}

func TestClassify_LongCourse(t *testing.T) {
	tests := []struct {
		name  string
		value int
		unit  DurationUnit
		want  int
	}{
		{"200000 days", 200000, UnitDays, 200000},
		{"largest month value", 100000, UnitMonths, 3000000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := sampleRegimen()
			r.DurationValue = tt.value
			r.DurationUnit = tt.unit
			require.NoError(t, r.Validate())

			status, err := r.Classify(date(t, r.StartDate))
			require.NoError(t, err)
			assert.Equal(t, StateActive, status.State)
			assert.Equal(t, tt.want, status.DaysLeft)
		})
	}
}

func TestClassify_IgnoresClockAndZone(t *testing.T) {
	r := sampleRegimen()
	msk := time.FixedZone("MSK", 3*3600)

	status, err := r.Classify(time.Date(2025, 1, 10, 23, 59, 0, 0, msk))
	require.NoError(t, err)
	assert.Equal(t, StateActive, status.State)
	assert.Equal(t, 1, status.DaysLeft)
}

func TestClassify_IsTotal(t *testing.T) {
	r := sampleRegimen()
	r.DurationUnit = UnitMonths
	r.DurationValue = 1

	day := date(t, "2024-12-01")
	for i := 0; i < 120; i++ {
		status, err := r.Classify(day)
		require.NoError(t, err)

		switch status.State {
		case StateActive:
			assert.Positive(t, status.DaysLeft)
			assert.True(t, status.NextCycleStart.IsZero())
		case StateOnBreak:
			assert.LessOrEqual(t, status.DaysLeft, 0)
			assert.False(t, status.NextCycleStart.IsZero())
		default:
			t.Fatalf("unexpected state %q", status.State)
		}
		day = day.AddDate(0, 0, 1)
	}
}

func TestClassify_BadStartDate(t *testing.T) {
	for _, start := range []string{"", "not-a-date", "2025-13-01", "01.02.2025"} {
		t.Run(start, func(t *testing.T) {
			r := sampleRegimen()
			r.StartDate = start

			_, err := r.Classify(date(t, "2025-01-05"))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrDataCorrupted))

			var dataErr *DataError
			require.ErrorAs(t, err, &dataErr)
			assert.Equal(t, FieldStartDate, dataErr.Field)
			assert.Equal(t, r.ID, dataErr.RegimenID)
		})
	}
}

func TestNextCycleStart_MonthBreak(t *testing.T) {
	r := sampleRegimen()
	r.BreakValue = 1
	r.BreakUnit = UnitMonths

	next, err := r.NextCycleStart()
	require.NoError(t, err)
	assert.Equal(t, date(t, "2025-02-10"), next)
}

func TestInCourse(t *testing.T) {
	r := sampleRegimen()

	tests := []struct {
		day  string
		want bool
	}{
		{"2024-12-31", false},
		{"2025-01-01", true},
		{"2025-01-10", true},
		{"2025-01-11", false},
		{"2025-03-01", false},
	}

	for _, tt := range tests {
		t.Run(tt.day, func(t *testing.T) {
			got, err := r.InCourse(date(t, tt.day))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
