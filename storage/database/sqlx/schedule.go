package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/eduscan/core"
	"github.com/trezcool/eduscan/core/schedule"
)

const scheduleColumns = "id, class_name, entry_time, exit_time, late_threshold_minutes, is_active, created_at, updated_at"

type scheduleRow struct {
	ID                   int64          `db:"id"`
	ClassName            string         `db:"class_name"`
	EntryTime            core.TimeOfDay `db:"entry_time"`
	ExitTime             core.TimeOfDay `db:"exit_time"`
	LateThresholdMinutes int            `db:"late_threshold_minutes"`
	IsActive             bool           `db:"is_active"`
	CreatedAt            time.Time      `db:"created_at"`
	UpdatedAt            time.Time      `db:"updated_at"`
}

type scheduleRepository struct {
	db  sqlx.ExtContext
	loc *time.Location
}

var _ schedule.Repository = (*scheduleRepository)(nil) // interface compliance check

func NewScheduleRepository(db sqlx.ExtContext, conf *core.Config) *scheduleRepository {
	return &scheduleRepository{db: db, loc: conf.Location()}
}

func (repo scheduleRepository) unrow(r scheduleRow) schedule.Schedule {
	return schedule.Schedule{
		ID:                   r.ID,
		ClassName:            r.ClassName,
		EntryTime:            r.EntryTime,
		ExitTime:             r.ExitTime,
		LateThresholdMinutes: r.LateThresholdMinutes,
		IsActive:             r.IsActive,
		CreatedAt:            r.CreatedAt.In(repo.loc),
		UpdatedAt:            r.UpdatedAt.In(repo.loc),
	}
}

func (repo scheduleRepository) CreateSchedule(ctx context.Context, sched schedule.Schedule) (schedule.Schedule, error) {
	q := `INSERT INTO class_schedules (class_name, entry_time, exit_time, late_threshold_minutes, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + scheduleColumns

	var r scheduleRow
	err := sqlx.GetContext(ctx, repo.db, &r, q,
		sched.ClassName, sched.EntryTime, sched.ExitTime, sched.LateThresholdMinutes,
		sched.IsActive, sched.CreatedAt.UTC(), sched.UpdatedAt.UTC())
	if err != nil {
		return schedule.Schedule{}, wrapErr(err, "inserting class schedule")
	}
	return repo.unrow(r), nil
}

func (repo scheduleRepository) GetSchedule(ctx context.Context, id int64) (schedule.Schedule, error) {
	var r scheduleRow
	q := "SELECT " + scheduleColumns + " FROM class_schedules WHERE id = $1"
	if err := sqlx.GetContext(ctx, repo.db, &r, q, id); err != nil {
		return schedule.Schedule{}, trapNoRowsErr(err, schedule.ErrNotFound, "finding class schedule by ID")
	}
	return repo.unrow(r), nil
}

func (repo scheduleRepository) QuerySchedules(ctx context.Context, filter *schedule.QueryFilter) ([]schedule.Schedule, error) {
	w := new(where)
	if filter != nil {
		if filter.ClassName != "" {
			w.add("class_name = ?", filter.ClassName)
		}
		if filter.IsActive != nil {
			w.add("is_active = ?", *filter.IsActive)
		}
	}
	q := "SELECT " + scheduleColumns + " FROM class_schedules" + w.String() +
		orderBy([]core.DBOrdering{{Field: "id", Ascending: true}})

	var rows []scheduleRow
	if err := sqlx.SelectContext(ctx, repo.db, &rows, repo.db.Rebind(q), w.args...); err != nil {
		return nil, wrapErr(err, "querying class schedules")
	}
	scheds := make([]schedule.Schedule, 0, len(rows))
	for _, r := range rows {
		scheds = append(scheds, repo.unrow(r))
	}
	return scheds, nil
}

func (repo scheduleRepository) UpdateSchedule(ctx context.Context, sched schedule.Schedule) (schedule.Schedule, error) {
	q := `UPDATE class_schedules
		SET class_name = $2, entry_time = $3, exit_time = $4, late_threshold_minutes = $5, is_active = $6, updated_at = $7
		WHERE id = $1
		RETURNING ` + scheduleColumns

	var r scheduleRow
	err := sqlx.GetContext(ctx, repo.db, &r, q,
		sched.ID, sched.ClassName, sched.EntryTime, sched.ExitTime,
		sched.LateThresholdMinutes, sched.IsActive, sched.UpdatedAt.UTC())
	if err != nil {
		return schedule.Schedule{}, trapNoRowsErr(err, schedule.ErrNotFound, "updating class schedule")
	}
	return repo.unrow(r), nil
}
