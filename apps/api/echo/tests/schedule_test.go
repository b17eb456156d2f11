package tests

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/eduscan/apps/api/echo"
	"github.com/trezcool/eduscan/core"
	"github.com/trezcool/eduscan/core/schedule"
	"github.com/trezcool/eduscan/tests"
)

func Test_scheduleAPI(t *testing.T) {
	app, env := setup(t)

	sched7A := testutil.CreateSchedule(t, env.ScheduleRepo, "7A", "07:30", "14:00", 15, true)
	old7A := testutil.CreateSchedule(t, env.ScheduleRepo, "7A", "08:00", "15:00", 10, false)
	token := getToken(t, env, echoapi.RoleAdmin)
	now := env.Clock.Now()

	// expected state of sched7A after each write below
	updated := sched7A
	updated.EntryTime = core.NewTimeOfDay(7, 15, 0)
	updated.LateThresholdMinutes = 5
	updated.UpdatedAt = now
	deactivated := updated
	deactivated.IsActive = false

	created := schedule.Schedule{
		ID:                   3,
		ClassName:            "8B",
		EntryTime:            core.NewTimeOfDay(7, 0, 0),
		ExitTime:             core.NewTimeOfDay(13, 30, 0),
		LateThresholdMinutes: schedule.DefaultLateThresholdMinutes,
		IsActive:             true,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	tests := []httpTest{
		{name: "Auth required", path: "/v1/schedules", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "All", path: "/v1/schedules", token: token, wantCode: http.StatusOK, wantData: marchallList(t, sched7A, old7A)},
		{name: "is_active=true", path: "/v1/schedules?is_active=true", token: token, wantCode: http.StatusOK, wantData: marchallList(t, sched7A)},
		{name: "class (unknown)", path: "/v1/schedules?class=9Z", token: token, wantCode: http.StatusOK, wantData: marchallList(t)},
		{
			name:     "Create: missing fields",
			method:   http.MethodPost,
			path:     "/v1/schedules",
			body:     []byte(`{"class_name": "8B"}`),
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, echo.Map{"entry_time": "this field is required", "exit_time": "this field is required"}),
		},
		{
			name:     "Create: bad time",
			method:   http.MethodPost,
			path:     "/v1/schedules",
			body:     []byte(`{"class_name": "8B", "entry_time": "7h", "exit_time": "13:30"}`),
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, echo.Map{"entry_time": core.ErrInvalidTimeOfDay.Error()}),
		},
		{
			name:     "Create: exit before entry",
			method:   http.MethodPost,
			path:     "/v1/schedules",
			body:     []byte(`{"class_name": "8B", "entry_time": "13:30", "exit_time": "07:00"}`),
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, echo.Map{"exit_time": schedule.ErrExitBeforeEntry.Error()}),
		},
		{
			name:     "Create",
			method:   http.MethodPost,
			path:     "/v1/schedules",
			body:     []byte(`{"class_name": "8B", "entry_time": "07:00", "exit_time": "13:30"}`),
			token:    token,
			wantCode: http.StatusCreated,
			wantData: marchallObj(t, created),
		},
		{
			name:     "Update: unknown",
			method:   http.MethodPut,
			path:     "/v1/schedules/99",
			body:     []byte(`{}`),
			token:    token,
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, errNotFound),
		},
		{
			name:     "Update",
			method:   http.MethodPut,
			path:     "/v1/schedules/1",
			body:     []byte(`{"entry_time": "07:15", "late_threshold_minutes": 5}`),
			token:    token,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, updated),
		},
		{
			name:     "Deactivate",
			method:   http.MethodDelete,
			path:     "/v1/schedules/1",
			token:    token,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, deactivated),
		},
		{name: "Nothing active left for 7A", path: "/v1/schedules?class=7A&is_active=true", token: token, wantCode: http.StatusOK, wantData: marchallList(t)},
	}
	runHTTPTests(t, app, tests)
}
