package main

import (
	"context"
	"fmt"

	"github.com/trezcool/eduscan/core/schedule"
	"github.com/trezcool/eduscan/core/student"
)

func (cli *commandLine) addStudent(ns student.NewStudent) error {
	std, err := cli.students.Create(context.Background(), ns)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "student #%d registered, barcode: %s\n", std.ID, std.Barcode)
	return nil
}

func (cli *commandLine) deactivate(barcode string) error {
	std, err := cli.students.DeactivateByBarcode(context.Background(), barcode)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "student %s (%s) deactivated\n", std.Name, std.Class)
	return nil
}

func (cli *commandLine) addSchedule(ns schedule.NewSchedule) error {
	sched, err := cli.schedules.Create(context.Background(), ns)
	if err != nil {
		return err
	}
	fmt.Fprintf(
		cli.out, "schedule #%d added for %s: %s-%s, late after %s\n",
		sched.ID, sched.ClassName, sched.EntryTime.HourMinute(), sched.ExitTime.HourMinute(), sched.LateAfter().HourMinute(),
	)
	return nil
}
