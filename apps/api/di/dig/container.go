package dig_container

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/eduscan/apps/api/echo"
	"github.com/trezcool/eduscan/core"
	"github.com/trezcool/eduscan/core/attendance"
	"github.com/trezcool/eduscan/core/schedule"
	"github.com/trezcool/eduscan/core/setting"
	"github.com/trezcool/eduscan/core/student"
	emailsvc "github.com/trezcool/eduscan/services/email"
	logsvc "github.com/trezcool/eduscan/services/logger"
	"github.com/trezcool/eduscan/storage/database"
	inmemdb "github.com/trezcool/eduscan/storage/database/inmem"
	sqlxrepos "github.com/trezcool/eduscan/storage/database/sqlx"
)

const engineMemory = "memory"

type (
	DBLoggerParam struct {
		dig.In
		Logger core.Logger `name:"dbLogger"`
	}

	// StatusCheckFunc reports whether the storage backend is reachable.
	StatusCheckFunc func(ctx context.Context) error

	// Storage is the set of repositories of the configured database engine.
	Storage struct {
		dig.Out
		Students    student.Repository
		Schedules   schedule.Repository
		Attendance  attendance.Repository
		Settings    setting.Repository
		StatusCheck StatusCheckFunc
		Closer      io.Closer `name:"dbCloser"`
	}

	// StorageCloser gets the closer of the storage opened by the container.
	StorageCloser struct {
		dig.In
		Closer io.Closer `name:"dbCloser"`
	}

	ServerParams struct {
		dig.In
		Conf        *core.Config
		Logger      core.Logger
		Clock       core.Clock
		Students    *student.Service
		Schedules   *schedule.Service
		Settings    *setting.Service
		Attendance  *attendance.Service
		Stats       *attendance.Stats
		Validate    *validator.Validate
		Translator  ut.Translator
		StatusCheck StatusCheckFunc
	}
)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	return logsvc.NewRollbarLogger(stdLogger, conf)
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	return logsvc.NewRollbarLogger(stdLogger, conf)
}

func newClock(conf *core.Config) core.Clock {
	return core.NewClock(conf.Location())
}

func newStorage(conf *core.Config, loggerParam DBLoggerParam) Storage {
	if conf.Database.Engine == engineMemory {
		loggerParam.Logger.Warn("using the in-memory database, data is lost on shutdown")
		db := inmemdb.Open()
		return Storage{
			Students:    inmemdb.NewStudentRepository(db),
			Schedules:   inmemdb.NewScheduleRepository(db),
			Attendance:  inmemdb.NewAttendanceRepository(db),
			Settings:    inmemdb.NewSettingRepository(db),
			StatusCheck: func(ctx context.Context) error { return ctx.Err() },
			Closer:      closerFunc(func() error { return nil }),
		}
	}

	if err := database.CreateIfNotExist(conf); err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("creating database: %v", err), err)
	}
	db, err := database.Open(conf)
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
	}
	if err = database.Migrate(db.DB); err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("migrating database: %v", err), err)
	}

	return Storage{
		Students:    sqlxrepos.NewStudentRepository(db, conf),
		Schedules:   sqlxrepos.NewScheduleRepository(db, conf),
		Attendance:  sqlxrepos.NewAttendanceRepository(db, conf),
		Settings:    sqlxrepos.NewSettingRepository(db, conf),
		StatusCheck: func(ctx context.Context) error { return database.StatusCheck(ctx, db) },
		Closer:      db,
	}
}

func newEmailService(conf *core.Config, logger core.Logger, clock core.Clock) core.EmailService {
	if conf.Debug {
		return emailsvc.NewConsoleService(log.New(os.Stdout, "EMAIL : ", 0), clock, conf)
	}
	return emailsvc.NewSendgridService(logger, conf)
}

func newValidator(translator ut.Translator) *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, translator)
	return validate
}

func newAttendanceService(
	repo attendance.Repository,
	students *student.Service,
	schedules *schedule.Service,
	clock core.Clock,
	validate *validator.Validate,
	logger core.Logger,
) *attendance.Service {
	return attendance.NewService(repo, students, schedules, clock, validate, logger)
}

func newStats(repo attendance.Repository, students *student.Service, clock core.Clock, logger core.Logger) *attendance.Stats {
	return attendance.NewStats(repo, students, clock, logger)
}

func newReporter(
	stats *attendance.Stats,
	repo attendance.Repository,
	settings *setting.Service,
	mailer core.EmailService,
	conf *core.Config,
) *attendance.Reporter {
	return attendance.NewReporter(stats, repo, settings, mailer, conf)
}

func newServer(p ServerParams) *echoapi.Server {
	return echoapi.NewServer(echoapi.ServerDeps{
		Conf:          p.Conf,
		Logger:        p.Logger,
		Clock:         p.Clock,
		StudentSvc:    p.Students,
		ScheduleSvc:   p.Schedules,
		SettingSvc:    p.Settings,
		AttendanceSvc: p.Attendance,
		Stats:         p.Stats,
		Validate:      p.Validate,
		Translator:    p.Translator,
		StatusCheck:   p.StatusCheck,
	})
}

// New returns a new dependency injection dig.Container
func New(newConfig func() *core.Config) *dig.Container {
	c := dig.New()

	must(c.Provide(newConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newClock))
	must(c.Provide(newStorage))
	must(c.Provide(newEmailService))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(newValidator))
	must(c.Provide(student.NewService))
	must(c.Provide(schedule.NewService))
	must(c.Provide(setting.NewService))
	must(c.Provide(newAttendanceService))
	must(c.Provide(newStats))
	must(c.Provide(newReporter))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
