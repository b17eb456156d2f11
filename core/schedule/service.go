package schedule

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/eduscan/core"
)

var (
	// errors
	ErrNotFound        = errors.New("class schedule not found")
	ErrExitBeforeEntry = errors.New("exit time must be after entry time")
)

type (
	Repository interface {
		CreateSchedule(ctx context.Context, sched Schedule) (Schedule, error)
		GetSchedule(ctx context.Context, id int64) (Schedule, error)
		// QuerySchedules returns the schedules matching all set filter fields, ordered by ID.
		QuerySchedules(ctx context.Context, filter *QueryFilter) ([]Schedule, error)
		UpdateSchedule(ctx context.Context, sched Schedule) (Schedule, error)
	}

	Service struct {
		repo     Repository
		clock    core.Clock
		validate *validator.Validate
	}
)

func NewService(repo Repository, clock core.Clock, validate *validator.Validate) *Service {
	return &Service{repo: repo, clock: clock, validate: validate}
}

// Resolve returns the active schedule of a class.
// When several are active the one with the lowest ID wins.
func (svc *Service) Resolve(ctx context.Context, class string) (Schedule, bool, error) {
	class = core.CleanString(class)
	if class == "" {
		return Schedule{}, false, nil
	}

	active := true
	scheds, err := svc.repo.QuerySchedules(ctx, &QueryFilter{ClassName: class, IsActive: &active})
	if err != nil {
		return Schedule{}, false, err
	}
	if len(scheds) == 0 {
		return Schedule{}, false, nil
	}

	sched := scheds[0]
	for _, s := range scheds[1:] {
		if s.ID < sched.ID {
			sched = s
		}
	}
	return sched, true, nil
}

func (svc *Service) Create(ctx context.Context, ns NewSchedule) (Schedule, error) {
	if err := ns.Validate(svc.validate); err != nil {
		return Schedule{}, err
	}

	now := svc.clock.Now()
	return svc.repo.CreateSchedule(ctx, Schedule{
		ClassName:            ns.ClassName,
		EntryTime:            ns.entry,
		ExitTime:             ns.exit,
		LateThresholdMinutes: *ns.LateThresholdMinutes,
		IsActive:             true,
		CreatedAt:            now,
		UpdatedAt:            now,
	})
}

func (svc *Service) Get(ctx context.Context, id int64) (Schedule, error) {
	return svc.repo.GetSchedule(ctx, id)
}

func (svc *Service) List(ctx context.Context, filter QueryFilter) ([]Schedule, error) {
	filter.Clean()
	return svc.repo.QuerySchedules(ctx, &filter)
}

func (svc *Service) Update(ctx context.Context, id int64, us UpdateSchedule) (Schedule, error) {
	sched, err := svc.repo.GetSchedule(ctx, id)
	if err != nil {
		return Schedule{}, err
	}
	if err = us.Validate(sched, svc.validate); err != nil {
		return Schedule{}, err
	}

	sched.ClassName = us.ClassName
	sched.EntryTime = us.entry
	sched.ExitTime = us.exit
	sched.LateThresholdMinutes = *us.LateThresholdMinutes
	sched.IsActive = *us.IsActive
	sched.UpdatedAt = svc.clock.Now()
	return svc.repo.UpdateSchedule(ctx, sched)
}

// Deactivate keeps the schedule but stops the resolver from picking it.
func (svc *Service) Deactivate(ctx context.Context, id int64) (Schedule, error) {
	inactive := false
	return svc.Update(ctx, id, UpdateSchedule{IsActive: &inactive})
}
