package schedule

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/eduscan/core"
)

const DefaultLateThresholdMinutes = 15

// Schedule holds the entry/exit times of a class.
type Schedule struct {
	ID                   int64          `json:"id"`
	ClassName            string         `json:"class_name"`
	EntryTime            core.TimeOfDay `json:"entry_time"`
	ExitTime             core.TimeOfDay `json:"exit_time"`
	LateThresholdMinutes int            `json:"late_threshold_minutes"`
	IsActive             bool           `json:"is_active"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
}

// LateAfter is the last time of day an entry scan still counts as on time.
func (s Schedule) LateAfter() core.TimeOfDay {
	return s.EntryTime.AddMinutes(s.LateThresholdMinutes)
}

// NewSchedule contains information needed to create a new Schedule.
type NewSchedule struct {
	ClassName            string `json:"class_name" validate:"required,max=255,alphanum_"`
	EntryTime            string `json:"entry_time" validate:"required"`
	ExitTime             string `json:"exit_time" validate:"required"`
	LateThresholdMinutes *int   `json:"late_threshold_minutes" validate:"omitempty,min=0,max=720"`

	entry, exit core.TimeOfDay
}

func (ns *NewSchedule) Validate(validate *validator.Validate) error {
	ns.ClassName = core.CleanString(ns.ClassName)
	if err := validate.Struct(ns); err != nil {
		return err
	}

	var err error
	if ns.entry, ns.exit, err = parseTimes(ns.EntryTime, ns.ExitTime); err != nil {
		return err
	}
	if ns.LateThresholdMinutes == nil {
		threshold := DefaultLateThresholdMinutes
		ns.LateThresholdMinutes = &threshold
	}
	return nil
}

// UpdateSchedule defines what information may be provided to modify an existing Schedule.
// Empty fields keep their current value.
type UpdateSchedule struct {
	ClassName            string `json:"class_name" validate:"max=255,alphanum_"`
	EntryTime            string `json:"entry_time"`
	ExitTime             string `json:"exit_time"`
	LateThresholdMinutes *int   `json:"late_threshold_minutes" validate:"omitempty,min=0,max=720"`
	IsActive             *bool  `json:"is_active"`

	entry, exit core.TimeOfDay
}

func (us *UpdateSchedule) Validate(orig Schedule, validate *validator.Validate) error {
	if name := core.CleanString(us.ClassName); name != "" {
		us.ClassName = name
	} else {
		us.ClassName = orig.ClassName
	}
	if core.CleanString(us.EntryTime) == "" {
		us.EntryTime = orig.EntryTime.String()
	}
	if core.CleanString(us.ExitTime) == "" {
		us.ExitTime = orig.ExitTime.String()
	}
	if us.LateThresholdMinutes == nil {
		threshold := orig.LateThresholdMinutes
		us.LateThresholdMinutes = &threshold
	}
	if us.IsActive == nil {
		active := orig.IsActive
		us.IsActive = &active
	}

	if err := validate.Struct(us); err != nil {
		return err
	}

	var err error
	us.entry, us.exit, err = parseTimes(us.EntryTime, us.ExitTime)
	return err
}

func parseTimes(entryStr, exitStr string) (entry, exit core.TimeOfDay, err error) {
	var fldErrs []core.FieldError
	if entry, err = core.ParseTimeOfDay(entryStr); err != nil {
		fldErrs = append(fldErrs, core.FieldError{Field: "entry_time", Error: err.Error()})
	}
	if exit, err = core.ParseTimeOfDay(exitStr); err != nil {
		fldErrs = append(fldErrs, core.FieldError{Field: "exit_time", Error: err.Error()})
	}
	if len(fldErrs) > 0 {
		return 0, 0, core.NewValidationError(core.ErrInvalidTimeOfDay, fldErrs...)
	}
	if exit <= entry {
		return 0, 0, core.NewValidationError(
			ErrExitBeforeEntry,
			core.FieldError{Field: "exit_time", Error: ErrExitBeforeEntry.Error()},
		)
	}
	return entry, exit, nil
}

type QueryFilter struct {
	ClassName string `query:"class"`
	IsActive  *bool  `query:"is_active"`
}

func (qf *QueryFilter) Clean() {
	qf.ClassName = core.CleanString(qf.ClassName)
}
