package entities

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultTimezone is the zone the reminder schedule runs in when none is configured.
const DefaultTimezone = "Europe/Moscow"

var utcOffsetPattern = regexp.MustCompile(`^(?i:UTC|GMT)?\s*([+-])(\d{1,2})(?::(\d{2}))?$`)

// ParseTimezoneLocation resolves the configured zone. It accepts IANA names
// ("Europe/Moscow"), "UTC"/"GMT" and fixed offsets such as "UTC+3", "+03:30" or "GMT-7".
// Fixed offsets ignore daylight saving.
func ParseTimezoneLocation(tz string) (*time.Location, error) {
	tz = strings.TrimSpace(tz)
	switch strings.ToUpper(tz) {
	case "", "UTC", "GMT", "ETC/UTC":
		return time.UTC, nil
	}

	if loc, err := time.LoadLocation(tz); err == nil {
		return loc, nil
	}

	m := utcOffsetPattern.FindStringSubmatch(tz)
	if m == nil {
		return nil, fmt.Errorf("unsupported timezone %q", tz)
	}

	hours, _ := strconv.Atoi(m[2])
	minutes := 0
	if m[3] != "" {
		minutes, _ = strconv.Atoi(m[3])
	}
	if hours > 14 || minutes >= 60 {
		return nil, fmt.Errorf("timezone offset out of range %q", tz)
	}

	offset := hours*3600 + minutes*60
	if m[1] == "-" {
		offset = -offset
	}

	return time.FixedZone(fmt.Sprintf("UTC%s%02d:%02d", m[1], hours, minutes), offset), nil
}
