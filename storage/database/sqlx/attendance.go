package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/eduscan/core"
	"github.com/trezcool/eduscan/core/attendance"
)

const recordColumns = "id, student_id, attendance_date, direction, scan_time, status, notes, created_at"

type recordRow struct {
	ID        int64                 `db:"id"`
	StudentID int64                 `db:"student_id"`
	Date      time.Time             `db:"attendance_date"`
	Direction attendance.Direction  `db:"direction"`
	ScanTime  core.TimeOfDay        `db:"scan_time"`
	Status    attendance.ScanStatus `db:"status"`
	Notes     null.String           `db:"notes"`
	CreatedAt time.Time             `db:"created_at"`
}

type attendanceRepository struct {
	db  sqlx.ExtContext
	loc *time.Location
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db sqlx.ExtContext, conf *core.Config) *attendanceRepository {
	return &attendanceRepository{db: db, loc: conf.Location()}
}

func (repo attendanceRepository) unrow(r recordRow) attendance.Record {
	return attendance.Record{
		ID:        r.ID,
		StudentID: r.StudentID,
		Date:      dateIn(r.Date, repo.loc),
		Direction: r.Direction,
		ScanTime:  r.ScanTime,
		Status:    r.Status,
		Notes:     r.Notes.String,
		CreatedAt: r.CreatedAt.In(repo.loc),
	}
}

// CreateRecord relies on UNIQUE(student_id, attendance_date, direction) to reject duplicates.
func (repo attendanceRepository) CreateRecord(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := `INSERT INTO attendance_records (student_id, attendance_date, direction, scan_time, status, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + recordColumns

	var r recordRow
	err := sqlx.GetContext(ctx, repo.db, &r, q,
		rec.StudentID, rec.Date.Format(core.DateLayout), rec.Direction, rec.ScanTime, rec.Status,
		null.NewString(rec.Notes, rec.Notes != ""), rec.CreatedAt.UTC())
	if err != nil {
		switch code, _ := pgError(err); code {
		case uniqueViolation:
			return attendance.Record{}, attendance.ErrConflict
		case foreignKeyViolation:
			return attendance.Record{}, attendance.ErrStudentNotFound
		}
		return attendance.Record{}, wrapErr(err, "inserting attendance record")
	}
	return repo.unrow(r), nil
}

func (repo attendanceRepository) GetRecord(ctx context.Context, studentID int64, date time.Time, dir attendance.Direction) (attendance.Record, error) {
	q := "SELECT " + recordColumns + ` FROM attendance_records
		WHERE student_id = $1 AND attendance_date = $2 AND direction = $3`

	var r recordRow
	if err := sqlx.GetContext(ctx, repo.db, &r, q, studentID, date.Format(core.DateLayout), dir); err != nil {
		return attendance.Record{}, trapNoRowsErr(err, attendance.ErrNotFound, "finding attendance record")
	}
	return repo.unrow(r), nil
}

func (repo attendanceRepository) QueryRecords(ctx context.Context, filter *attendance.QueryFilter) ([]attendance.Record, error) {
	w := new(where)
	limit := ""
	if filter != nil {
		if len(filter.StudentIDs) > 0 {
			w.add("student_id IN (?)", filter.StudentIDs)
		}
		if !filter.DateFrom.IsZero() {
			w.add("attendance_date >= ?", filter.DateFrom.Format(core.DateLayout))
		}
		if !filter.DateTo.IsZero() {
			w.add("attendance_date <= ?", filter.DateTo.Format(core.DateLayout))
		}
		if filter.Direction != "" {
			w.add("direction = ?", filter.Direction)
		}
		if filter.Limit > 0 {
			limit = " LIMIT ?"
			w.args = append(w.args, filter.Limit)
		}
	}
	q := "SELECT " + recordColumns + " FROM attendance_records" + w.String() +
		orderBy([]core.DBOrdering{{Field: "created_at"}, {Field: "id"}}) + limit

	q, args, err := sqlx.In(q, w.args...)
	if err != nil {
		return nil, wrapErr(err, "building attendance records query")
	}
	var rows []recordRow
	if err = sqlx.SelectContext(ctx, repo.db, &rows, repo.db.Rebind(q), args...); err != nil {
		return nil, wrapErr(err, "querying attendance records")
	}
	recs := make([]attendance.Record, 0, len(rows))
	for _, r := range rows {
		recs = append(recs, repo.unrow(r))
	}
	return recs, nil
}
