package tests

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/eduscan/apps/api/echo"
	"github.com/trezcool/eduscan/core"
	"github.com/trezcool/eduscan/core/attendance"
	"github.com/trezcool/eduscan/core/setting"
	"github.com/trezcool/eduscan/tests"
)

func TestServer_public(t *testing.T) {
	app, env := setup(t)

	t.Run("home", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/")
		app.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Welcome to EduScan API!", rec.Body.String())
	})

	runHTTPTests(t, app, []httpTest{
		{
			name:     "health check",
			path:     "/health-check",
			wantCode: http.StatusOK,
			wantData: marchallObj(t, map[string]interface{}{"status": "ok", "timestamp": env.Clock.Now()}),
		},
		{name: "unknown route", path: "/v1/nope", wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "Not Found"})},
	})

	t.Run("metrics", func(t *testing.T) {
		std := testutil.CreateStudent(t, env.StudentRepo, "1", "Ayu", "7A", true)
		token := getToken(t, env, echoapi.RoleKiosk)
		for _, barcode := range []string{std.Barcode, std.Barcode, "EDU9999999999"} {
			req, rec := newAuthRequest(http.MethodPost, "/v1/attendance/scan", token, scanBody(t, barcode, attendance.DirectionEntry))
			app.ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code)
		}

		req, rec := newRequest(http.MethodGet, "/metrics")
		app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		for _, line := range []string{
			`eduscan_scans_total{direction="entry",outcome="present"} 1`,
			`eduscan_scans_total{direction="entry",outcome="duplicate"} 1`,
			`eduscan_scans_total{direction="entry",outcome="not_found"} 1`,
			`eduscan_scan_duration_seconds_count 3`,
		} {
			assert.True(t, strings.Contains(body, line), "missing %q", line)
		}
	})
}

func TestServer_settings(t *testing.T) {
	app, env := setup(t)
	token := getToken(t, env, echoapi.RoleAdmin)

	custom := setting.SchoolSetting{
		ID:                          1,
		SchoolName:                  "SMP Negeri 1",
		Email:                       "office@smpn1.sch.id",
		DefaultEntryTime:            core.NewTimeOfDay(6, 45, 0),
		DefaultExitTime:             core.NewTimeOfDay(14, 0, 0),
		DefaultLateThresholdMinutes: 10,
	}

	t.Run("defaults", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/settings", token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, setting.Defaults("EduScan"))}, rec)
	})

	t.Run("stored", func(t *testing.T) {
		env.DB.SetSettings(custom)

		req, rec := newAuthRequest(http.MethodGet, "/v1/settings", token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, custom)}, rec)
	})
}

func TestServer_errors(t *testing.T) {
	app, env := setup(t)
	unavailable := echoapi.NewServer(echoapi.ServerDeps{
		Conf:           env.Conf,
		Logger:         env.Logger,
		Clock:          env.Clock,
		StudentSvc:     env.Students,
		ScheduleSvc:    env.Schedules,
		SettingSvc:     env.Settings,
		AttendanceSvc:  env.Attendance,
		Stats:          env.Stats,
		Validate:       env.Validate,
		Translator:     env.Translator,
		StatusCheck:    func(_ context.Context) error { return core.NewUnavailableError(errors.New("connection refused")) },
		DisableReqLogs: true,
	})

	t.Run("storage unavailable", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/health-check")
		unavailable.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusServiceUnavailable,
			wantData: marchallObj(t, httpErr{Error: "service unavailable"}),
		}, rec)
	})

	t.Run("malformed body", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/attendance/scan", getToken(t, env, echoapi.RoleKiosk), []byte(`{"barcode": 42`))
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		claims := echoapi.NewClaims(env.Conf, time.Now().Add(-2*env.Conf.JWTExpirationDelta), "old kiosk", echoapi.RoleKiosk)
		token, err := echoapi.GenerateToken(env.Conf, claims)
		require.NoError(t, err)

		req, rec := newAuthRequest(http.MethodGet, "/v1/dashboard", token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, httpErr{Error: "invalid or expired jwt"}),
		}, rec)
	})
}
