package telegram

import (
	"github.com/google/uuid"

	"github.com/aliskhannn/medcourse-bot/internal/domain/entities"
)

// FormStep is a position in the /add conversation.
type FormStep int

const (
	StepName FormStep = iota
	StepDose
	StepIntakes
	StepStartDate
	StepDurationValue
	StepDurationUnit
	StepBreakValue
	StepBreakUnit
	StepCycles
	StepDone
)

type formTransition struct {
	field entities.RegimenField
	next  FormStep
}

// formTransitions maps every input step to the field it fills and the step after it.
var formTransitions = map[FormStep]formTransition{
	StepName:          {entities.FieldName, StepDose},
	StepDose:          {entities.FieldDose, StepIntakes},
	StepIntakes:       {entities.FieldIntakes, StepStartDate},
	StepStartDate:     {entities.FieldStartDate, StepDurationValue},
	StepDurationValue: {entities.FieldDurationValue, StepDurationUnit},
	StepDurationUnit:  {entities.FieldDurationUnit, StepBreakValue},
	StepBreakValue:    {entities.FieldBreakValue, StepBreakUnit},
	StepBreakUnit:     {entities.FieldBreakUnit, StepCycles},
	StepCycles:        {entities.FieldCycles, StepDone},
}

// FormMode tells what a pending session is collecting input for.
type FormMode int

const (
	ModeCreate FormMode = iota
	ModeEdit
)

// FormSession is the state of one user's unfinished /add or /edit dialog.
type FormSession struct {
	Mode FormMode
	Step FormStep

	Draft *entities.Regimen // ModeCreate

	RegimenID uuid.UUID             // ModeEdit
	EditField entities.RegimenField // ModeEdit
}

// NewCreateForm starts the /add dialog.
func NewCreateForm(ownerID int64) *FormSession {
	return &FormSession{
		Mode:  ModeCreate,
		Step:  StepName,
		Draft: entities.NewRegimenDraft(ownerID),
	}
}

// NewEditForm waits for a new value of one field of an existing regimen.
func NewEditForm(id uuid.UUID, field entities.RegimenField) *FormSession {
	return &FormSession{
		Mode:      ModeEdit,
		RegimenID: id,
		EditField: field,
	}
}

// Field returns the field the session is waiting for.
func (s *FormSession) Field() entities.RegimenField {
	if s.Mode == ModeEdit {
		return s.EditField
	}
	return formTransitions[s.Step].field
}

// Done reports whether every step of the create dialog has been filled.
func (s *FormSession) Done() bool {
	return s.Mode == ModeCreate && s.Step == StepDone
}

// Apply validates raw for the current step and moves to the next one.
// On a validation error the session stays on the same step.
func (s *FormSession) Apply(raw string) error {
	t, ok := formTransitions[s.Step]
	if s.Mode != ModeCreate || !ok {
		return errFormClosed
	}

	v, err := entities.ParseField(t.field, raw)
	if err != nil {
		return err
	}

	s.Draft.Set(t.field, v)
	s.Step = t.next
	return nil
}

// Progress returns the 1-based number of the current step and the total.
func (s *FormSession) Progress() (int, int) {
	return int(s.Step) + 1, len(formTransitions)
}

// wantsUnit reports whether the current field is a days/months choice.
func (s *FormSession) wantsUnit() bool {
	f := s.Field()
	return f == entities.FieldDurationUnit || f == entities.FieldBreakUnit
}
