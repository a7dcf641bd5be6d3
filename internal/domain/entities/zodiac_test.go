package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseZodiacSign(t *testing.T) {
	tests := []struct {
		in   string
		want ZodiacSign
		ok   bool
	}{
		{"овен", SignAries, true},
		{"Близнецы", SignGemini, true},
		{"  РЫБЫ ", SignPisces, true},
		{"Leo", SignLeo, true},
		{"змееносец", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseZodiacSign(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestZodiacSlug(t *testing.T) {
	assert.Equal(t, "scorpio", SignScorpio.Slug())
	assert.Equal(t, "aries", ZodiacSign("unknown").Slug())
	assert.Len(t, ZodiacSigns, 12)
}

func TestUserSettingsSignOr(t *testing.T) {
	var nilSettings *UserSettings
	assert.Equal(t, SignAries, nilSettings.SignOr(SignAries))

	s := &UserSettings{UserID: 1}
	assert.Equal(t, SignLeo, s.SignOr(SignLeo))

	sign := SignVirgo
	s.ZodiacSign = &sign
	assert.Equal(t, SignVirgo, s.SignOr(SignLeo))
}

func TestParseTimezoneLocation(t *testing.T) {
	tests := []struct {
		in     string
		offset int
	}{
		{"", 0},
		{"UTC", 0},
		{"gmt", 0},
		{"UTC+3", 3 * 3600},
		{"+03:30", 3*3600 + 30*60},
		{"GMT-7", -7 * 3600},
	}

	ref := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			loc, err := ParseTimezoneLocation(tt.in)
			require.NoError(t, err)
			_, off := ref.In(loc).Zone()
			assert.Equal(t, tt.offset, off)
		})
	}

	for _, bad := range []string{"Mars/Olympus", "UTC+15", "+3:75"} {
		_, err := ParseTimezoneLocation(bad)
		assert.Error(t, err, bad)
	}
}
