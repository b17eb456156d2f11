package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/eduscan/core"
	"github.com/trezcool/eduscan/core/attendance"
	"github.com/trezcool/eduscan/core/schedule"
	"github.com/trezcool/eduscan/core/setting"
	"github.com/trezcool/eduscan/core/student"
	"github.com/trezcool/eduscan/services/email"
	"github.com/trezcool/eduscan/storage/database/inmem"
)

// Clock is a settable core.Clock.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(now time.Time) *Clock { return &Clock{now: now} }

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Set(now time.Time) {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
}

// Env wires every service against a fresh in-memory store.
type Env struct {
	Conf       *core.Config
	Clock      *Clock
	DB         *inmemdb.DB
	Validate   *validator.Validate
	Translator ut.Translator
	Logger     core.Logger

	StudentRepo    student.Repository
	ScheduleRepo   schedule.Repository
	AttendanceRepo attendance.Repository

	Students   *student.Service
	Schedules  *schedule.Service
	Settings   *setting.Service
	Attendance *attendance.Service
	Stats      *attendance.Stats
	Mailer     *emailsvc.ConsoleServiceMock
	Reporter   *attendance.Reporter
}

func NewEnv(now time.Time) *Env {
	env := &Env{
		Conf:       core.NewTestConfig(now.Location()),
		Clock:      NewClock(now),
		DB:         inmemdb.Open(),
		Validate:   validator.New(),
		Translator: core.NewTranslator(),
		Logger:     core.NewNopLogger(),
	}
	core.InitValidators(env.Validate, env.Translator)

	env.StudentRepo = inmemdb.NewStudentRepository(env.DB)
	env.ScheduleRepo = inmemdb.NewScheduleRepository(env.DB)
	env.AttendanceRepo = inmemdb.NewAttendanceRepository(env.DB)

	env.Students = student.NewService(env.StudentRepo, env.Clock, env.Validate)
	env.Schedules = schedule.NewService(env.ScheduleRepo, env.Clock, env.Validate)
	env.Settings = setting.NewService(inmemdb.NewSettingRepository(env.DB), env.Conf)
	env.Attendance = attendance.NewService(env.AttendanceRepo, env.Students, env.Schedules, env.Clock, env.Validate, env.Logger)
	env.Stats = attendance.NewStats(env.AttendanceRepo, env.Students, env.Clock, env.Logger)
	env.Mailer = emailsvc.NewConsoleServiceMock(env.Clock, env.Conf)
	env.Reporter = attendance.NewReporter(env.Stats, env.AttendanceRepo, env.Settings, env.Mailer, env.Conf)
	return env
}

// Date returns midnight of the given day in loc.
func Date(year int, month time.Month, day int, loc *time.Location) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// At returns date at the given "HH:MM[:SS]" time of day.
func At(t *testing.T, date time.Time, tod string) time.Time {
	v, err := core.ParseTimeOfDay(tod)
	if err != nil {
		t.Fatalf("At(%q) failed: %v", tod, err)
	}
	return v.On(date)
}

func CreateStudent(t *testing.T, repo student.Repository, nisn, name, class string, isActive bool) student.Student {
	now := time.Now()
	std, err := repo.CreateStudent(context.Background(), student.Student{
		NISN:      nisn,
		Name:      name,
		Class:     class,
		Gender:    student.GenderFemale,
		Barcode:   student.BarcodeFor(nisn),
		IsActive:  isActive,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return std
}

func CreateSchedule(t *testing.T, repo schedule.Repository, class, entry, exit string, threshold int, isActive bool) schedule.Schedule {
	entryTime, err := core.ParseTimeOfDay(entry)
	if err != nil {
		t.Fatalf("CreateSchedule() failed: %v", err)
	}
	exitTime, err := core.ParseTimeOfDay(exit)
	if err != nil {
		t.Fatalf("CreateSchedule() failed: %v", err)
	}
	now := time.Now()
	sched, err := repo.CreateSchedule(context.Background(), schedule.Schedule{
		ClassName:            class,
		EntryTime:            entryTime,
		ExitTime:             exitTime,
		LateThresholdMinutes: threshold,
		IsActive:             isActive,
		CreatedAt:            now,
		UpdatedAt:            now,
	})
	if err != nil {
		t.Fatalf("CreateSchedule() failed: %v", err)
	}
	return sched
}

// CreateRecord stores a record scanned at `at`, created at the same instant.
func CreateRecord(
	t *testing.T,
	repo attendance.Repository,
	studentID int64,
	at time.Time,
	dir attendance.Direction,
	status attendance.ScanStatus,
) attendance.Record {
	rec, err := repo.CreateRecord(context.Background(), attendance.Record{
		StudentID: studentID,
		Date:      core.DateOf(at),
		Direction: dir,
		ScanTime:  core.TimeOfDayOf(at),
		Status:    status,
		CreatedAt: at,
	})
	if err != nil {
		t.Fatalf("CreateRecord() failed: %v", err)
	}
	return rec
}
