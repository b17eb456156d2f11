package main

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/pkg/errors"

	"github.com/trezcool/eduscan/core"
)

func (cli *commandLine) report(dateStr, toStr string) error {
	now := cli.clock.Now()
	date := core.DateOf(now)
	if dateStr != "" {
		var err error
		if date, err = core.ParseDate(dateStr, now.Location()); err != nil {
			return errors.Wrap(err, "invalid date")
		}
	}

	var to []mail.Address
	if toStr != "" {
		addr, err := mail.ParseAddress(toStr)
		if err != nil {
			return errors.Wrap(err, "invalid recipient")
		}
		to = append(to, *addr)
	}

	report, err := cli.reporter.Send(context.Background(), date, to...)
	if err != nil {
		return err
	}
	fmt.Fprintf(
		cli.out, "report of %s sent: %d present, %d late, %d absent out of %d\n",
		report.Date, report.Stats.Present, report.Stats.Late, report.Stats.Absent, report.Stats.Total,
	)
	return nil
}
