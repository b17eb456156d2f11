package attendance

import (
	"context"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"

	"github.com/trezcool/eduscan/core"
	"github.com/trezcool/eduscan/core/student"
)

const (
	DefaultTrendDays   = 7
	DefaultRecentLimit = 10

	trendLabelLayout = "Jan 02"
)

var ErrInvalidDays = errors.New("days must be at least 1")

type (
	// StudentDirectory is the student registry as seen by the aggregation engine.
	StudentDirectory interface {
		CountActive(ctx context.Context) (int, error)
		GetMany(ctx context.Context, ids ...int64) ([]student.Student, error)
		ActiveInClass(ctx context.Context, class string) ([]student.Student, error)
	}

	// Stats aggregates persisted records on demand. It never writes.
	Stats struct {
		repo     Repository
		students StudentDirectory
		clock    core.Clock
		log      core.Logger
	}
)

func NewStats(repo Repository, students StudentDirectory, clock core.Clock, logger core.Logger) *Stats {
	return &Stats{repo: repo, students: students, clock: clock, log: logger}
}

// dayStatuses folds the records of one day into a single status per student.
// Any late record makes the student late for the day.
func dayStatuses(recs []Record) map[int64]DayStatus {
	statuses := make(map[int64]DayStatus, len(recs))
	for _, rec := range recs {
		if rec.Status == StatusLate {
			statuses[rec.StudentID] = DayLate
		} else if _, ok := statuses[rec.StudentID]; !ok {
			statuses[rec.StudentID] = DayPresent
		}
	}
	return statuses
}

func (st *Stats) Daily(ctx context.Context, date time.Time) (DailyStats, error) {
	date = core.DateOf(date)

	total, err := st.students.CountActive(ctx)
	if err != nil {
		return DailyStats{}, errors.Wrap(err, "counting active students")
	}
	recs, err := st.repo.QueryRecords(ctx, &QueryFilter{DateFrom: date, DateTo: date})
	if err != nil {
		return DailyStats{}, errors.Wrap(err, "querying records")
	}

	// present and late are counted independently: a late entry followed by an
	// on-time exit puts the student in both counts.
	present := make(map[int64]struct{}, len(recs))
	late := make(map[int64]struct{}, len(recs))
	for _, rec := range recs {
		if rec.Status == StatusLate {
			late[rec.StudentID] = struct{}{}
		} else {
			present[rec.StudentID] = struct{}{}
		}
	}
	stats := DailyStats{Date: date.Format(core.DateLayout), Total: total, Present: len(present), Late: len(late)}

	stats.Absent = stats.Total - stats.Present - stats.Late
	if stats.Absent < 0 {
		st.log.Warn("more present and late students than active students", map[string]interface{}{
			"date":    stats.Date,
			"total":   stats.Total,
			"present": stats.Present,
			"late":    stats.Late,
		})
		stats.Absent = 0
	}
	return stats, nil
}

// Trend returns one point per day for the `days` consecutive days ending at `end`, oldest first.
// Present counts students with a present or late record.
func (st *Stats) Trend(ctx context.Context, days int, end time.Time) ([]TrendPoint, error) {
	if days < 1 {
		return nil, core.NewValidationError(ErrInvalidDays, core.FieldError{Field: "days", Error: ErrInvalidDays.Error()})
	}

	end = core.DateOf(end)
	start := end.AddDate(0, 0, -(days - 1))
	recs, err := st.repo.QueryRecords(ctx, &QueryFilter{DateFrom: start, DateTo: end})
	if err != nil {
		return nil, errors.Wrap(err, "querying records")
	}

	seen := make(map[string]map[int64]struct{}, days)
	for _, rec := range recs {
		key := rec.Date.Format(core.DateLayout)
		if seen[key] == nil {
			seen[key] = make(map[int64]struct{})
		}
		seen[key][rec.StudentID] = struct{}{}
	}

	points := make([]TrendPoint, 0, days)
	for i := 0; i < days; i++ {
		d := start.AddDate(0, 0, i)
		key := d.Format(core.DateLayout)
		points = append(points, TrendPoint{Date: key, Label: d.Format(trendLabelLayout), Present: len(seen[key])})
	}
	return points, nil
}

// RecentActivity returns the latest records of a day, newest first.
// Records of deactivated students are included.
func (st *Stats) RecentActivity(ctx context.Context, date time.Time, limit int) ([]Activity, error) {
	if limit < 1 {
		limit = DefaultRecentLimit
	}
	date = core.DateOf(date)

	recs, err := st.repo.QueryRecords(ctx, &QueryFilter{DateFrom: date, DateTo: date, Limit: limit})
	if err != nil {
		return nil, errors.Wrap(err, "querying records")
	}
	return st.activities(ctx, recs)
}

func (st *Stats) activities(ctx context.Context, recs []Record) ([]Activity, error) {
	ids := make([]int64, 0, len(recs))
	known := make(map[int64]bool, len(recs))
	for _, rec := range recs {
		if !known[rec.StudentID] {
			known[rec.StudentID] = true
			ids = append(ids, rec.StudentID)
		}
	}

	students, err := st.students.GetMany(ctx, ids...)
	if err != nil {
		return nil, errors.Wrap(err, "fetching students")
	}
	byID := make(map[int64]student.Student, len(students))
	for _, std := range students {
		byID[std.ID] = std
	}

	acts := make([]Activity, 0, len(recs))
	for _, rec := range recs {
		std := byID[rec.StudentID]
		acts = append(acts, Activity{
			ID:        rec.ID,
			StudentID: rec.StudentID,
			Name:      std.Name,
			Class:     std.Class,
			Status:    rec.Status,
			Direction: rec.Direction,
			Time:      rec.ScanTime.HourMinute(),
			CreatedAt: rec.CreatedAt,
		})
	}
	return acts, nil
}

// RollCall lists every active student of a class with their status of the day.
func (st *Stats) RollCall(ctx context.Context, date time.Time, class string) ([]RollCallEntry, error) {
	class = core.CleanString(class)
	if class == "" {
		return nil, core.NewValidationError(nil, core.FieldError{Field: "class", Error: "this field is required"})
	}
	date = core.DateOf(date)

	students, err := st.students.ActiveInClass(ctx, class)
	if err != nil {
		return nil, errors.Wrap(err, "fetching students")
	}
	if len(students) == 0 {
		return []RollCallEntry{}, nil
	}

	ids := make([]int64, 0, len(students))
	for _, std := range students {
		ids = append(ids, std.ID)
	}
	recs, err := st.repo.QueryRecords(ctx, &QueryFilter{StudentIDs: ids, DateFrom: date, DateTo: date})
	if err != nil {
		return nil, errors.Wrap(err, "querying records")
	}

	statuses := dayStatuses(recs)
	byStudent := make(map[int64][]Record, len(recs))
	for _, rec := range recs {
		byStudent[rec.StudentID] = append(byStudent[rec.StudentID], rec)
	}

	entries := make([]RollCallEntry, 0, len(students))
	for _, std := range students {
		entry := RollCallEntry{Student: std, Status: DayAbsent}
		if status, ok := statuses[std.ID]; ok {
			entry.Status = status
		}
		for _, rec := range byStudent[std.ID] {
			switch rec.Direction {
			case DirectionEntry:
				entry.EntryTime = rec.ScanTime.HourMinute()
			case DirectionExit:
				entry.ExitTime = rec.ScanTime.HourMinute()
			}
		}
		entries = append(entries, entry)
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Student.Name < entries[j].Student.Name })
	return entries, nil
}

// Dashboard gathers today's stats, the weekly trend and the latest scans.
func (st *Stats) Dashboard(ctx context.Context) (Dashboard, error) {
	now := st.clock.Now()
	today := core.DateOf(now)

	stats, err := st.Daily(ctx, today)
	if err != nil {
		return Dashboard{}, err
	}
	trend, err := st.Trend(ctx, DefaultTrendDays, today)
	if err != nil {
		return Dashboard{}, err
	}
	recent, err := st.RecentActivity(ctx, today, DefaultRecentLimit)
	if err != nil {
		return Dashboard{}, err
	}
	for i := range recent {
		recent[i].CreatedAgo = humanize.RelTime(recent[i].CreatedAt, now, "ago", "from now")
	}
	return Dashboard{Stats: stats, Trend: trend, Recent: recent}, nil
}
