package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/trezcool/eduscan/core"
	"github.com/trezcool/eduscan/core/attendance"
)

type attendanceRepository struct {
	db *DB
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *DB) *attendanceRepository {
	return &attendanceRepository{db: db}
}

func keyOf(rec attendance.Record) recordKey {
	return recordKey{studentID: rec.StudentID, date: rec.Date.Format(core.DateLayout), direction: rec.Direction}
}

func (repo *attendanceRepository) CreateRecord(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	if err := ctx.Err(); err != nil {
		return attendance.Record{}, err
	}
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.students[rec.StudentID]; !ok {
		return attendance.Record{}, attendance.ErrStudentNotFound
	}
	key := keyOf(rec)
	if _, exists := repo.db.recordIndex[key]; exists {
		return attendance.Record{}, attendance.ErrConflict
	}

	repo.db.recordPK++
	rec.ID = repo.db.recordPK
	repo.db.records[rec.ID] = &rec
	repo.db.recordIndex[key] = rec.ID
	return rec, nil
}

func (repo *attendanceRepository) GetRecord(ctx context.Context, studentID int64, date time.Time, dir attendance.Direction) (attendance.Record, error) {
	if err := ctx.Err(); err != nil {
		return attendance.Record{}, err
	}
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	key := recordKey{studentID: studentID, date: date.Format(core.DateLayout), direction: dir}
	if id, ok := repo.db.recordIndex[key]; ok {
		return *repo.db.records[id], nil
	}
	return attendance.Record{}, attendance.ErrNotFound
}

func (repo *attendanceRepository) QueryRecords(ctx context.Context, filter *attendance.QueryFilter) ([]attendance.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var (
		studentIDs map[int64]bool
		from, to   string
	)
	if filter != nil {
		if len(filter.StudentIDs) > 0 {
			studentIDs = make(map[int64]bool, len(filter.StudentIDs))
			for _, id := range filter.StudentIDs {
				studentIDs[id] = true
			}
		}
		if !filter.DateFrom.IsZero() {
			from = filter.DateFrom.Format(core.DateLayout)
		}
		if !filter.DateTo.IsZero() {
			to = filter.DateTo.Format(core.DateLayout)
		}
	}

	recs := make([]attendance.Record, 0)
	for _, rec := range repo.db.records {
		if filter != nil {
			date := rec.Date.Format(core.DateLayout) // lexical order is chronological
			if studentIDs != nil && !studentIDs[rec.StudentID] {
				continue
			}
			if from != "" && date < from {
				continue
			}
			if to != "" && date > to {
				continue
			}
			if filter.Direction != "" && rec.Direction != filter.Direction {
				continue
			}
		}
		recs = append(recs, *rec)
	}
	sort.Slice(recs, func(i, j int) bool {
		if !recs[i].CreatedAt.Equal(recs[j].CreatedAt) {
			return recs[i].CreatedAt.After(recs[j].CreatedAt)
		}
		return recs[i].ID > recs[j].ID
	})
	if filter != nil && filter.Limit > 0 && len(recs) > filter.Limit {
		recs = recs[:filter.Limit]
	}
	return recs, nil
}
