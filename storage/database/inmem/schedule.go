package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/eduscan/core/schedule"
)

type scheduleRepository struct {
	db *DB
}

var _ schedule.Repository = (*scheduleRepository)(nil) // interface compliance check

func NewScheduleRepository(db *DB) *scheduleRepository {
	return &scheduleRepository{db: db}
}

func (repo *scheduleRepository) CreateSchedule(ctx context.Context, sched schedule.Schedule) (schedule.Schedule, error) {
	if err := ctx.Err(); err != nil {
		return schedule.Schedule{}, err
	}
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.schedulePK++
	sched.ID = repo.db.schedulePK
	repo.db.schedules[sched.ID] = &sched
	return sched, nil
}

func (repo *scheduleRepository) GetSchedule(ctx context.Context, id int64) (schedule.Schedule, error) {
	if err := ctx.Err(); err != nil {
		return schedule.Schedule{}, err
	}
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if sched, ok := repo.db.schedules[id]; ok {
		return *sched, nil
	}
	return schedule.Schedule{}, schedule.ErrNotFound
}

func (repo *scheduleRepository) QuerySchedules(ctx context.Context, filter *schedule.QueryFilter) ([]schedule.Schedule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	scheds := make([]schedule.Schedule, 0, len(repo.db.schedules))
	for _, sched := range repo.db.schedules {
		if filter != nil {
			if filter.ClassName != "" && sched.ClassName != filter.ClassName {
				continue
			}
			if filter.IsActive != nil && sched.IsActive != *filter.IsActive {
				continue
			}
		}
		scheds = append(scheds, *sched)
	}
	sort.Slice(scheds, func(i, j int) bool { return scheds[i].ID < scheds[j].ID })
	return scheds, nil
}

func (repo *scheduleRepository) UpdateSchedule(ctx context.Context, sched schedule.Schedule) (schedule.Schedule, error) {
	if err := ctx.Err(); err != nil {
		return schedule.Schedule{}, err
	}
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.schedules[sched.ID]
	if !ok {
		return schedule.Schedule{}, schedule.ErrNotFound
	}
	sched.CreatedAt = orig.CreatedAt
	repo.db.schedules[sched.ID] = &sched
	return sched, nil
}
