package entities

import "time"

const (
	wakingStartHour = 8
	wakingHours     = 14
)

var presetIntakeHours = map[int][]int{
	1: {9},
	2: {9, 21},
	3: {9, 15, 21},
}

// IntakeHours returns the reminder hours for a given number of daily intakes.
// One to three intakes use fixed presets; larger counts are spread over the
// waking window starting at 08:00 with a whole-hour step of 14/n hours.
// The step is truncated before it is multiplied, so five intakes land on
// 08, 10, 12, 14 and 16 rather than the 08, 10, 13, 16 and 19 that
// 8+floor(i*14/n) gives. That per-intake formula is used only once the
// step drops to zero, for more than 14 intakes.
func IntakeHours(intakesPerDay int) []int {
	if intakesPerDay <= 0 {
		return nil
	}
	if preset, ok := presetIntakeHours[intakesPerDay]; ok {
		out := make([]int, len(preset))
		copy(out, preset)
		return out
	}

	step := wakingHours / intakesPerDay
	hours := make([]int, intakesPerDay)
	for i := range intakesPerDay {
		if step > 0 {
			hours[i] = wakingStartHour + i*step
		} else {
			hours[i] = wakingStartHour + i*wakingHours/intakesPerDay
		}
	}
	return hours
}

// IntakeTimes anchors IntakeHours to the calendar day of now, in now's location.
func IntakeTimes(intakesPerDay int, now time.Time) []time.Time {
	hours := IntakeHours(intakesPerDay)
	times := make([]time.Time, 0, len(hours))
	y, m, d := now.Date()
	for _, h := range hours {
		times = append(times, time.Date(y, m, d, h, 0, 0, 0, now.Location()))
	}
	return times
}

// MatchIntake returns the first instant sharing now's hour whose minute is
// within tolerance of now's minute.
func MatchIntake(instants []time.Time, now time.Time, tolerance time.Duration) (time.Time, bool) {
	tol := int(tolerance / time.Minute)
	for _, at := range instants {
		if at.Hour() != now.Hour() {
			continue
		}
		diff := at.Minute() - now.Minute()
		if diff < 0 {
			diff = -diff
		}
		if diff <= tol {
			return at, true
		}
	}
	return time.Time{}, false
}

// DueIntake decides whether a reminder for r fires at now.
func (r *Regimen) DueIntake(now time.Time, tolerance time.Duration) (time.Time, bool, error) {
	inCourse, err := r.InCourse(now)
	if err != nil {
		return time.Time{}, false, err
	}
	if !inCourse {
		return time.Time{}, false, nil
	}

	at, ok := MatchIntake(IntakeTimes(r.IntakesPerDay, now), now, tolerance)
	return at, ok, nil
}
