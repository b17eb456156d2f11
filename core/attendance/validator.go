package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/trezcool/eduscan/core"
	"github.com/trezcool/eduscan/core/student"
)

// StudentFinder looks up the student a barcode belongs to.
type StudentFinder interface {
	GetActiveByBarcode(ctx context.Context, barcode string) (student.Student, error)
}

// Validator checks a scan against the student registry and today's records.
// It has no side effects.
type Validator struct {
	students StudentFinder
	repo     Repository
	clock    core.Clock
}

func NewValidator(students StudentFinder, repo Repository, clock core.Clock) *Validator {
	return &Validator{students: students, repo: repo, clock: clock}
}

func (v *Validator) Validate(ctx context.Context, barcode string, dir Direction) (Outcome, error) {
	return v.validateOn(ctx, barcode, dir, core.DateOf(v.clock.Now()))
}

func (v *Validator) validateOn(ctx context.Context, barcode string, dir Direction, date time.Time) (Outcome, error) {
	std, err := v.students.GetActiveByBarcode(ctx, barcode)
	if err != nil {
		if errors.Is(err, student.ErrNotFound) {
			return Outcome{Kind: OutcomeStudentNotFound, Barcode: barcode}, nil
		}
		return Outcome{}, err
	}

	rec, err := v.repo.GetRecord(ctx, std.ID, date, dir)
	switch {
	case err == nil:
		return Outcome{Kind: OutcomeDuplicate, Student: std, ExistingTime: rec.ScanTime}, nil
	case errors.Is(err, ErrNotFound):
		return Outcome{Kind: OutcomeValid, Student: std}, nil
	default:
		return Outcome{}, err
	}
}
