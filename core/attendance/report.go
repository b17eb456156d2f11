package attendance

import (
	"context"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/eduscan/core"
	"github.com/trezcool/eduscan/core/setting"
)

const reportTemplate = "daily_report"

var ErrNoRecipient = errors.New("no report recipient: set the school email or pass one explicitly")

type SettingsGetter interface {
	Get(ctx context.Context) (setting.SchoolSetting, error)
}

// Reporter emails the attendance summary of a day.
type Reporter struct {
	stats    *Stats
	repo     Repository
	settings SettingsGetter
	mailer   core.EmailService
	appName  string
}

func NewReporter(stats *Stats, repo Repository, settings SettingsGetter, mailer core.EmailService, conf *core.Config) *Reporter {
	return &Reporter{stats: stats, repo: repo, settings: settings, mailer: mailer, appName: conf.AppName}
}

// Build collects the report data of a day. Late arrivals are listed by scan time.
func (r *Reporter) Build(ctx context.Context, date time.Time) (Report, error) {
	date = core.DateOf(date)

	sett, err := r.settings.Get(ctx)
	if err != nil {
		return Report{}, errors.Wrap(err, "reading school settings")
	}
	stats, err := r.stats.Daily(ctx, date)
	if err != nil {
		return Report{}, err
	}
	recs, err := r.repo.QueryRecords(ctx, &QueryFilter{DateFrom: date, DateTo: date, Direction: DirectionEntry})
	if err != nil {
		return Report{}, errors.Wrap(err, "querying records")
	}

	late := make([]Record, 0, stats.Late)
	for i := len(recs) - 1; i >= 0; i-- { // oldest first
		if recs[i].Status == StatusLate {
			late = append(late, recs[i])
		}
	}
	lateActs, err := r.stats.activities(ctx, late)
	if err != nil {
		return Report{}, err
	}

	return Report{
		AppName:    r.appName,
		SchoolName: sett.SchoolName,
		Date:       date.Format(core.DateLayout),
		Stats:      stats,
		Late:       lateActs,
	}, nil
}

// Send emails the report of a day to `to`, or to the school email when `to` is empty.
func (r *Reporter) Send(ctx context.Context, date time.Time, to ...mail.Address) (Report, error) {
	report, err := r.Build(ctx, date)
	if err != nil {
		return Report{}, err
	}

	if len(to) == 0 {
		sett, err := r.settings.Get(ctx)
		if err != nil {
			return Report{}, errors.Wrap(err, "reading school settings")
		}
		if sett.Email == "" {
			return Report{}, ErrNoRecipient
		}
		to = []mail.Address{{Name: sett.SchoolName, Address: sett.Email}}
	}

	msg := &core.EmailMessage{
		To:           to,
		Subject:      "Attendance report " + report.Date,
		TemplateName: reportTemplate,
		TemplateData: report,
	}
	if err = r.mailer.Send(ctx, msg); err != nil {
		return Report{}, errors.Wrap(err, "sending report")
	}
	return report, nil
}
