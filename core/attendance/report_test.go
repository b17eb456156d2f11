package attendance_test

import (
	"context"
	"net/mail"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/eduscan/core/attendance"
	"github.com/trezcool/eduscan/core/setting"
	"github.com/trezcool/eduscan/tests"
)

func setupReport(t *testing.T) *testutil.Env {
	env := testutil.NewEnv(testutil.At(t, today, "16:00"))

	ayu := testutil.CreateStudent(t, env.StudentRepo, "1", "Ayu", "7A", true)
	budi := testutil.CreateStudent(t, env.StudentRepo, "2", "Budi", "7B", true)
	citra := testutil.CreateStudent(t, env.StudentRepo, "3", "Citra", "7A", true)
	testutil.CreateStudent(t, env.StudentRepo, "4", "Dodi", "7A", true)

	testutil.CreateRecord(t, env.AttendanceRepo, ayu.ID, testutil.At(t, today, "07:10"), attendance.DirectionEntry, attendance.StatusPresent)
	testutil.CreateRecord(t, env.AttendanceRepo, citra.ID, testutil.At(t, today, "07:52"), attendance.DirectionEntry, attendance.StatusLate)
	testutil.CreateRecord(t, env.AttendanceRepo, budi.ID, testutil.At(t, today, "08:15"), attendance.DirectionEntry, attendance.StatusLate)
	testutil.CreateRecord(t, env.AttendanceRepo, ayu.ID, testutil.At(t, today, "14:00"), attendance.DirectionExit, attendance.StatusPresent)
	return env
}

func TestReporter_Build(t *testing.T) {
	env := setupReport(t)

	report, err := env.Reporter.Build(context.Background(), testutil.At(t, today, "12:00"))
	require.NoError(t, err)

	assert.Equal(t, "EduScan", report.AppName)
	assert.Equal(t, "EduScan", report.SchoolName)
	assert.Equal(t, "2024-03-04", report.Date)
	assert.Equal(t, attendance.DailyStats{Date: "2024-03-04", Total: 4, Present: 1, Late: 2, Absent: 1}, report.Stats)

	require.Len(t, report.Late, 2)
	assert.Equal(t, "Citra", report.Late[0].Name)
	assert.Equal(t, "07:52", report.Late[0].Time)
	assert.Equal(t, "Budi", report.Late[1].Name)
	assert.Equal(t, "7B", report.Late[1].Class)
}

func TestReporter_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("no recipient", func(t *testing.T) {
		env := setupReport(t)
		_, err := env.Reporter.Send(ctx, today)
		assert.True(t, errors.Is(err, attendance.ErrNoRecipient))
		assert.Empty(t, env.Mailer.Sent)
	})

	t.Run("explicit recipient", func(t *testing.T) {
		env := setupReport(t)
		to := mail.Address{Name: "Head", Address: "head@school.test"}

		report, err := env.Reporter.Send(ctx, today, to)
		require.NoError(t, err)
		assert.Equal(t, 2, report.Stats.Late)

		require.Len(t, env.Mailer.Sent, 1)
		msg := env.Mailer.Sent[0]
		assert.Equal(t, []mail.Address{to}, msg.To)
		assert.Equal(t, "Attendance report 2024-03-04", msg.Subject)
		assert.Contains(t, msg.TextContent, "Attendance report for EduScan on 2024-03-04")
		assert.Contains(t, msg.TextContent, "- Citra (7A) at 07:52\n- Budi (7B) at 08:15")
		assert.Contains(t, msg.HTMLContent, "Citra")
	})

	t.Run("school email", func(t *testing.T) {
		env := setupReport(t)
		env.DB.SetSettings(setting.SchoolSetting{SchoolName: "SMP Negeri 1", Email: "office@smpn1.test"})

		report, err := env.Reporter.Send(ctx, today)
		require.NoError(t, err)
		assert.Equal(t, "SMP Negeri 1", report.SchoolName)

		require.Len(t, env.Mailer.Sent, 1)
		assert.Equal(t, []mail.Address{{Name: "SMP Negeri 1", Address: "office@smpn1.test"}}, env.Mailer.Sent[0].To)
	})
}
