package schedule_test

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/eduscan/core"
	"github.com/trezcool/eduscan/core/schedule"
	"github.com/trezcool/eduscan/tests"
)

var now = time.Date(2024, time.March, 4, 7, 40, 0, 0, time.UTC)

func intPtr(i int) *int { return &i }

func TestService_Resolve(t *testing.T) {
	env := testutil.NewEnv(now)
	ctx := context.Background()

	testutil.CreateSchedule(t, env.ScheduleRepo, "7A", "07:00", "14:00", 10, false)
	first := testutil.CreateSchedule(t, env.ScheduleRepo, "7A", "07:30", "14:00", 15, true)
	testutil.CreateSchedule(t, env.ScheduleRepo, "7A", "08:00", "15:00", 5, true)
	testutil.CreateSchedule(t, env.ScheduleRepo, "7B", "07:30", "13:00", 0, false)

	tests := []struct {
		name      string
		class     string
		want      schedule.Schedule
		wantFound bool
	}{
		{name: "lowest active ID wins", class: "7A", want: first, wantFound: true},
		{name: "trimmed class", class: " 7A ", want: first, wantFound: true},
		{name: "only inactive", class: "7B"},
		{name: "unknown class", class: "9Z"},
		{name: "empty class", class: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found, err := env.Schedules.Resolve(ctx, tt.class)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFound, found)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("deactivated schedule is skipped", func(t *testing.T) {
		_, err := env.Schedules.Deactivate(ctx, first.ID)
		require.NoError(t, err)

		got, found, err := env.Schedules.Resolve(ctx, "7A")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, core.NewTimeOfDay(8, 0, 0), got.EntryTime)
	})
}

func TestService_Create(t *testing.T) {
	env := testutil.NewEnv(now)
	ctx := context.Background()

	t.Run("missing fields", func(t *testing.T) {
		_, err := env.Schedules.Create(ctx, schedule.NewSchedule{ClassName: "  "})
		var vErrs validator.ValidationErrors
		require.True(t, errors.As(err, &vErrs))
		assert.Equal(t, map[string]string{
			"class_name": "this field is required",
			"entry_time": "this field is required",
			"exit_time":  "this field is required",
		}, core.TranslateValidationErrors(vErrs, env.Translator))
	})

	tests := []struct {
		name    string
		entry   string
		exit    string
		wantErr error
		fields  []core.FieldError
	}{
		{
			name: "bad times", entry: "7am", exit: "25:00",
			wantErr: core.ErrInvalidTimeOfDay,
			fields: []core.FieldError{
				{Field: "entry_time", Error: core.ErrInvalidTimeOfDay.Error()},
				{Field: "exit_time", Error: core.ErrInvalidTimeOfDay.Error()},
			},
		},
		{
			name: "exit before entry", entry: "14:00", exit: "07:00",
			wantErr: schedule.ErrExitBeforeEntry,
			fields:  []core.FieldError{{Field: "exit_time", Error: schedule.ErrExitBeforeEntry.Error()}},
		},
		{
			name: "exit equals entry", entry: "07:00", exit: "07:00:00",
			wantErr: schedule.ErrExitBeforeEntry,
			fields:  []core.FieldError{{Field: "exit_time", Error: schedule.ErrExitBeforeEntry.Error()}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.Schedules.Create(ctx, schedule.NewSchedule{ClassName: "7A", EntryTime: tt.entry, ExitTime: tt.exit})
			var vErr *core.ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.True(t, errors.Is(err, tt.wantErr))
			assert.Equal(t, tt.fields, vErr.Fields)
		})
	}

	t.Run("class label with symbols", func(t *testing.T) {
		_, err := env.Schedules.Create(ctx, schedule.NewSchedule{ClassName: "7A%", EntryTime: "07:00", ExitTime: "14:00"})
		var vErrs validator.ValidationErrors
		require.True(t, errors.As(err, &vErrs))
		assert.Equal(t, map[string]string{
			"class_name": "class_name may only contain letters, digits, spaces and underscores",
		}, core.TranslateValidationErrors(vErrs, env.Translator))
	})

	t.Run("threshold out of range", func(t *testing.T) {
		_, err := env.Schedules.Create(ctx, schedule.NewSchedule{
			ClassName: "7A", EntryTime: "07:00", ExitTime: "14:00", LateThresholdMinutes: intPtr(-1),
		})
		var vErrs validator.ValidationErrors
		assert.True(t, errors.As(err, &vErrs))
	})

	t.Run("default threshold", func(t *testing.T) {
		got, err := env.Schedules.Create(ctx, schedule.NewSchedule{ClassName: " 7A", EntryTime: "07:30", ExitTime: "14:00"})
		require.NoError(t, err)
		assert.Equal(t, "7A", got.ClassName)
		assert.Equal(t, schedule.DefaultLateThresholdMinutes, got.LateThresholdMinutes)
		assert.Equal(t, core.NewTimeOfDay(7, 45, 0), got.LateAfter())
		assert.True(t, got.IsActive)
	})

	t.Run("zero threshold", func(t *testing.T) {
		got, err := env.Schedules.Create(ctx, schedule.NewSchedule{
			ClassName: "7B", EntryTime: "07:30:30", ExitTime: "14:00", LateThresholdMinutes: intPtr(0),
		})
		require.NoError(t, err)
		assert.Equal(t, 0, got.LateThresholdMinutes)
		assert.Equal(t, core.NewTimeOfDay(7, 30, 30), got.LateAfter())
	})
}

func TestService_Update(t *testing.T) {
	env := testutil.NewEnv(now)
	ctx := context.Background()
	sched := testutil.CreateSchedule(t, env.ScheduleRepo, "7A", "07:00", "14:00", 10, true)

	t.Run("unknown", func(t *testing.T) {
		_, err := env.Schedules.Update(ctx, 42, schedule.UpdateSchedule{})
		assert.True(t, errors.Is(err, schedule.ErrNotFound))
	})

	t.Run("exit before kept entry", func(t *testing.T) {
		_, err := env.Schedules.Update(ctx, sched.ID, schedule.UpdateSchedule{ExitTime: "06:00"})
		assert.True(t, errors.Is(err, schedule.ErrExitBeforeEntry))
	})

	t.Run("partial", func(t *testing.T) {
		later := now.Add(time.Minute)
		env.Clock.Set(later)

		got, err := env.Schedules.Update(ctx, sched.ID, schedule.UpdateSchedule{EntryTime: "07:15", LateThresholdMinutes: intPtr(5)})
		require.NoError(t, err)
		assert.Equal(t, "7A", got.ClassName)
		assert.Equal(t, core.NewTimeOfDay(7, 15, 0), got.EntryTime)
		assert.Equal(t, core.NewTimeOfDay(14, 0, 0), got.ExitTime)
		assert.Equal(t, 5, got.LateThresholdMinutes)
		assert.True(t, got.IsActive)
		assert.Equal(t, later, got.UpdatedAt)
	})
}

func TestService_List(t *testing.T) {
	env := testutil.NewEnv(now)
	ctx := context.Background()
	a := testutil.CreateSchedule(t, env.ScheduleRepo, "7A", "07:00", "14:00", 10, true)
	b := testutil.CreateSchedule(t, env.ScheduleRepo, "7B", "07:00", "14:00", 10, false)
	c := testutil.CreateSchedule(t, env.ScheduleRepo, "7A", "08:00", "14:00", 10, false)

	inactive := false
	tests := []struct {
		name   string
		filter schedule.QueryFilter
		want   []schedule.Schedule
	}{
		{name: "all", want: []schedule.Schedule{a, b, c}},
		{name: "class", filter: schedule.QueryFilter{ClassName: " 7A"}, want: []schedule.Schedule{a, c}},
		{name: "inactive", filter: schedule.QueryFilter{IsActive: &inactive}, want: []schedule.Schedule{b, c}},
		{name: "inactive class", filter: schedule.QueryFilter{ClassName: "7B", IsActive: &inactive}, want: []schedule.Schedule{b}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := env.Schedules.List(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
