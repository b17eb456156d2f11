package main

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/eduscan/core"
	"github.com/trezcool/eduscan/core/attendance"
	"github.com/trezcool/eduscan/core/schedule"
	"github.com/trezcool/eduscan/core/setting"
	"github.com/trezcool/eduscan/core/student"
	"github.com/trezcool/eduscan/services/email"
	"github.com/trezcool/eduscan/services/logger"
	"github.com/trezcool/eduscan/storage/database"
	"github.com/trezcool/eduscan/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()
	stdLogger := log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)

	// set up DB
	errAndDie(logger, database.CreateIfNotExist(conf))
	db, err := database.Open(conf)
	errAndDie(logger, err)

	// set up services
	translator := core.NewTranslator()
	validate := validator.New()
	core.InitValidators(validate, translator)

	clock := core.NewClock(conf.Location())
	stdRepo := sqlxrepos.NewStudentRepository(db, conf)
	attRepo := sqlxrepos.NewAttendanceRepository(db, conf)
	stdSvc := student.NewService(stdRepo, clock, validate)
	stats := attendance.NewStats(attRepo, stdSvc, clock, logger)

	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(stdLogger, clock, conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(logger, conf)
	}
	settSvc := setting.NewService(sqlxrepos.NewSettingRepository(db, conf), conf)

	// start CLI
	cli := commandLine{
		conf:      conf,
		db:        db.DB,
		clock:     clock,
		students:  stdSvc,
		schedules: schedule.NewService(sqlxrepos.NewScheduleRepository(db, conf), clock, validate),
		reporter:  attendance.NewReporter(stats, attRepo, settSvc, mailSvc, conf),
		out:       os.Stdout,
	}
	err = cli.run(os.Args)
	if cerr := db.Close(); cerr != nil {
		logger.Error("closing database", cerr)
	}
	if err != nil {
		if err != errHelp {
			stdLogger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(logger core.Logger, err error) {
	if err != nil {
		logger.Fatal(err.Error(), err)
	}
}
