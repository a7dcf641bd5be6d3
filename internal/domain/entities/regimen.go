package entities

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the storage and input format of a regimen start date.
const DateLayout = "2006-01-02"

const (
	MaxNameLength     = 50
	MaxIntakesPerDay  = 24
	daysPerMonthApprx = 30
)

// DurationUnit is the unit of a course or break length.
type DurationUnit string

const (
	UnitDays   DurationUnit = "days"
	UnitMonths DurationUnit = "months"
)

// Regimen is one medication course owned by a single user.
type Regimen struct {
	ID            uuid.UUID
	OwnerID       int64 // Telegram user ID, equals the private chat ID
	Name          string
	DosePerIntake int
	IntakesPerDay int
	StartDate     string // "YYYY-MM-DD", kept as text so broken rows can be reported
	DurationValue int
	DurationUnit  DurationUnit
	BreakValue    int
	BreakUnit     DurationUnit
	Cycles        int // informational, no rollover is computed from it
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewRegimenDraft returns an empty regimen for the given owner with a fresh ID.
func NewRegimenDraft(ownerID int64) *Regimen {
	now := time.Now().UTC()
	return &Regimen{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Cycles:    1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ShortID returns the first block of the ID, enough to tell regimens apart in a chat.
func (r *Regimen) ShortID() string {
	s := r.ID.String()
	if len(s) < 8 {
		return s
	}
	return s[:8]
}

// Validate checks every field of the regimen.
func (r *Regimen) Validate() error {
	for _, f := range RegimenFields {
		if err := validateValue(f, r.value(f)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Regimen) value(f RegimenField) any {
	switch f {
	case FieldName:
		return r.Name
	case FieldDose:
		return r.DosePerIntake
	case FieldIntakes:
		return r.IntakesPerDay
	case FieldStartDate:
		return r.StartDate
	case FieldDurationValue:
		return r.DurationValue
	case FieldDurationUnit:
		return string(r.DurationUnit)
	case FieldBreakValue:
		return r.BreakValue
	case FieldBreakUnit:
		return string(r.BreakUnit)
	case FieldCycles:
		return r.Cycles
	}
	return nil
}

// Set assigns an already validated value to the field.
func (r *Regimen) Set(f RegimenField, v any) {
	switch f {
	case FieldName:
		r.Name = v.(string)
	case FieldDose:
		r.DosePerIntake = v.(int)
	case FieldIntakes:
		r.IntakesPerDay = v.(int)
	case FieldStartDate:
		r.StartDate = v.(string)
	case FieldDurationValue:
		r.DurationValue = v.(int)
	case FieldDurationUnit:
		r.DurationUnit = DurationUnit(v.(string))
	case FieldBreakValue:
		r.BreakValue = v.(int)
	case FieldBreakUnit:
		r.BreakUnit = DurationUnit(v.(string))
	case FieldCycles:
		r.Cycles = v.(int)
	}
}
