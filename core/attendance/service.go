package attendance

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/eduscan/core"
	"github.com/trezcool/eduscan/core/schedule"
)

var (
	// errors
	ErrNotFound         = errors.New("attendance record not found")
	ErrConflict         = errors.New("attendance already recorded for this student, date and direction")
	ErrInvalidDirection = errors.New("direction must be one of entry, exit")
	ErrStudentNotFound  = errors.New("attendance record references an unknown student")
)

type (
	Repository interface {
		// CreateRecord returns ErrConflict when the (student, date, direction) record exists.
		CreateRecord(ctx context.Context, rec Record) (Record, error)
		GetRecord(ctx context.Context, studentID int64, date time.Time, dir Direction) (Record, error)
		// QueryRecords applies AND on the set filter fields, newest created first.
		QueryRecords(ctx context.Context, filter *QueryFilter) ([]Record, error)
	}

	ScheduleResolver interface {
		Resolve(ctx context.Context, class string) (schedule.Schedule, bool, error)
	}

	// Service runs scans through validation, classification and recording.
	Service struct {
		repo      Repository
		validator *Validator
		recorder  *Recorder
		schedules ScheduleResolver
		clock     core.Clock
		validate  *validator.Validate
		log       core.Logger
	}
)

func NewService(
	repo Repository,
	students StudentFinder,
	schedules ScheduleResolver,
	clock core.Clock,
	validate *validator.Validate,
	logger core.Logger,
) *Service {
	return &Service{
		repo:      repo,
		validator: NewValidator(students, repo, clock),
		recorder:  NewRecorder(repo, clock),
		schedules: schedules,
		clock:     clock,
		validate:  validate,
		log:       logger,
	}
}

// Scan handles a kiosk scan. Unknown or inactive students and repeated scans are
// reported in the result, not as errors.
func (svc *Service) Scan(ctx context.Context, req ScanRequest) (ScanResult, error) {
	if err := req.Validate(svc.validate); err != nil {
		return ScanResult{}, err
	}

	now := svc.clock.Now()
	today := core.DateOf(now)

	outcome, err := svc.validator.validateOn(ctx, req.Barcode, req.Direction, today)
	if err != nil {
		return ScanResult{}, errors.Wrap(err, "validating scan")
	}
	switch outcome.Kind {
	case OutcomeStudentNotFound:
		return notFoundResult(outcome.Barcode), nil
	case OutcomeDuplicate:
		return duplicateResult(outcome.Student, req.Direction, outcome.ExistingTime), nil
	}

	std := outcome.Student
	var sched *schedule.Schedule
	if req.Direction == DirectionEntry {
		s, found, err := svc.schedules.Resolve(ctx, std.Class)
		if err != nil {
			return ScanResult{}, errors.Wrap(err, "resolving schedule")
		}
		if found {
			sched = &s
		}
	}

	scanTime := core.TimeOfDayOf(now)
	rec, err := svc.recorder.Record(ctx, NewRecord{
		StudentID: std.ID,
		Date:      today,
		Direction: req.Direction,
		ScanTime:  scanTime,
		Status:    Classify(req.Direction, scanTime, sched),
	})
	if errors.Is(err, ErrConflict) {
		// a concurrent scan won the insert
		existing, err := svc.repo.GetRecord(ctx, std.ID, today, req.Direction)
		if err != nil {
			return ScanResult{}, errors.Wrap(err, "reading conflicting record")
		}
		return duplicateResult(std, req.Direction, existing.ScanTime), nil
	}
	if errors.Is(err, ErrStudentNotFound) {
		// the student was deleted since validation
		return notFoundResult(req.Barcode), nil
	}
	if err != nil {
		return ScanResult{}, errors.Wrap(err, "recording scan")
	}

	svc.log.Debug("scan recorded", map[string]interface{}{
		"student_id": std.ID,
		"direction":  rec.Direction,
		"status":     rec.Status.String(),
	})
	return successResult(std, rec), nil
}

// StudentRecords returns every record of a student, newest first.
func (svc *Service) StudentRecords(ctx context.Context, studentID int64) ([]Record, error) {
	return svc.repo.QueryRecords(ctx, &QueryFilter{StudentIDs: []int64{studentID}})
}
