package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/trezcool/eduscan/core"
	"github.com/trezcool/eduscan/core/attendance"
	"github.com/trezcool/eduscan/core/schedule"
	"github.com/trezcool/eduscan/core/student"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	conf      *core.Config
	db        *sql.DB
	clock     core.Clock
	students  *student.Service
	schedules *schedule.Service
	reporter  *attendance.Reporter
	out       io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a goose migration command (up, down, status, ...)")
	fmt.Fprintln(cli.out, "  addstudent -nisn NISN -name NAME -class CLASS -gender Male|Female [-guardian PHONE] - register a student")
	fmt.Fprintln(cli.out, "  deactivate -barcode BARCODE - deactivate a student (records are kept)")
	fmt.Fprintln(cli.out, "  addschedule -class CLASS -entry HH:MM -exit HH:MM [-late MINUTES] - add a class schedule")
	fmt.Fprintln(cli.out, "  token -name NAME -role kiosk|admin - issue an API token")
	fmt.Fprintln(cli.out, "  report [-date YYYY-MM-DD] [-to EMAIL] - email the daily attendance report")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addStudentCmd := flag.NewFlagSet("addstudent", flag.ContinueOnError)
	addStudentNISN := addStudentCmd.String("nisn", "", "The national student number.")
	addStudentName := addStudentCmd.String("name", "", "The student's full name.")
	addStudentClass := addStudentCmd.String("class", "", "The student's class, eg. 7A.")
	addStudentGender := addStudentCmd.String("gender", "", "Male or Female.")
	addStudentGuardian := addStudentCmd.String("guardian", "", "The guardian's phone number.")

	deactivateCmd := flag.NewFlagSet("deactivate", flag.ContinueOnError)
	deactivateBarcode := deactivateCmd.String("barcode", "", "The barcode printed on the student card.")

	addScheduleCmd := flag.NewFlagSet("addschedule", flag.ContinueOnError)
	addScheduleClass := addScheduleCmd.String("class", "", "The class the schedule applies to.")
	addScheduleEntry := addScheduleCmd.String("entry", "", "Entry time, HH:MM.")
	addScheduleExit := addScheduleCmd.String("exit", "", "Exit time, HH:MM.")
	addScheduleLate := addScheduleCmd.Int("late", schedule.DefaultLateThresholdMinutes, "Minutes after entry time before a scan is late.")

	tokenCmd := flag.NewFlagSet("token", flag.ContinueOnError)
	tokenName := tokenCmd.String("name", "", "Who the token is for, eg. 'Gate 1'.")
	tokenRole := tokenCmd.String("role", "", "kiosk or admin.")

	reportCmd := flag.NewFlagSet("report", flag.ContinueOnError)
	reportDate := reportCmd.String("date", "", "The day to report on, YYYY-MM-DD. Defaults to today.")
	reportTo := reportCmd.String("to", "", "The recipient. Defaults to the school email.")

	for _, cmd := range []*flag.FlagSet{addStudentCmd, deactivateCmd, addScheduleCmd, tokenCmd, reportCmd} {
		cmd.SetOutput(cli.out)
	}

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "addstudent":
		if err := addStudentCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addStudentNISN == "" || *addStudentName == "" || *addStudentClass == "" || *addStudentGender == "" {
			addStudentCmd.Usage()
			return errHelp
		}
		return cli.addStudent(student.NewStudent{
			NISN:            *addStudentNISN,
			Name:            *addStudentName,
			Class:           *addStudentClass,
			Gender:          *addStudentGender,
			GuardianContact: *addStudentGuardian,
		})
	case "deactivate":
		if err := deactivateCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *deactivateBarcode == "" {
			deactivateCmd.Usage()
			return errHelp
		}
		return cli.deactivate(*deactivateBarcode)
	case "addschedule":
		if err := addScheduleCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addScheduleClass == "" || *addScheduleEntry == "" || *addScheduleExit == "" {
			addScheduleCmd.Usage()
			return errHelp
		}
		return cli.addSchedule(schedule.NewSchedule{
			ClassName:            *addScheduleClass,
			EntryTime:            *addScheduleEntry,
			ExitTime:             *addScheduleExit,
			LateThresholdMinutes: addScheduleLate,
		})
	case "token":
		if err := tokenCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *tokenName == "" || *tokenRole == "" {
			tokenCmd.Usage()
			return errHelp
		}
		return cli.token(*tokenName, *tokenRole)
	case "report":
		if err := reportCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.report(*reportDate, *reportTo)
	default:
		cli.printUsage()
		return errHelp
	}
}
