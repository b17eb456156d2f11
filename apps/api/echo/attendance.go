package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/eduscan/core"
	"github.com/trezcool/eduscan/core/attendance"
)

type attendanceAPI struct {
	service *attendance.Service
	stats   *attendance.Stats
	clock   core.Clock
	metrics *metrics
}

func registerAttendanceAPI(
	router *echo.Group,
	jwt echo.MiddlewareFunc,
	svc *attendance.Service,
	stats *attendance.Stats,
	clock core.Clock,
	m *metrics,
) {
	api := attendanceAPI{service: svc, stats: stats, clock: clock, metrics: m}
	admin := adminMiddleware()

	grp := router.Group("/attendance", jwt)
	grp.POST("/scan", api.scan, roleMiddleware(RoleKiosk, RoleAdmin))
	grp.GET("/roll-call", api.rollCall, admin)
	grp.GET("/stats", api.dailyStats, admin)
	grp.GET("/trend", api.trend, admin)
	grp.GET("/recent", api.recentActivity, admin)

	router.GET("/dashboard", api.dashboard, jwt, admin)
}

// Scan outcomes are always 200, the body tells whether the scan was accepted.
func (api attendanceAPI) scan(ctx echo.Context) error {
	start := time.Now()

	var req attendance.ScanRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	res, err := api.service.Scan(ctx.Request().Context(), req)
	if err != nil {
		return err
	}
	api.metrics.observeScan(req.Direction, res, time.Since(start).Seconds())
	return ctx.JSON(http.StatusOK, res)
}

func (api attendanceAPI) rollCall(ctx echo.Context) error {
	date, err := bindDate(ctx, "date", api.clock.Now())
	if err != nil {
		return err
	}
	entries, err := api.stats.RollCall(ctx.Request().Context(), date, ctx.QueryParam("class"))
	if err != nil {
		return errors.Wrap(err, "building roll call")
	}
	return ctx.JSON(http.StatusOK, entries)
}

func (api attendanceAPI) dailyStats(ctx echo.Context) error {
	date, err := bindDate(ctx, "date", api.clock.Now())
	if err != nil {
		return err
	}
	stats, err := api.stats.Daily(ctx.Request().Context(), date)
	if err != nil {
		return errors.Wrap(err, "computing daily stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api attendanceAPI) trend(ctx echo.Context) error {
	end, err := bindDate(ctx, "end", api.clock.Now())
	if err != nil {
		return err
	}
	days, err := bindInt(ctx, "days", attendance.DefaultTrendDays)
	if err != nil {
		return err
	}
	points, err := api.stats.Trend(ctx.Request().Context(), days, end)
	if err != nil {
		return errors.Wrap(err, "computing trend")
	}
	return ctx.JSON(http.StatusOK, points)
}

func (api attendanceAPI) recentActivity(ctx echo.Context) error {
	date, err := bindDate(ctx, "date", api.clock.Now())
	if err != nil {
		return err
	}
	limit, err := bindInt(ctx, "limit", attendance.DefaultRecentLimit)
	if err != nil {
		return err
	}
	acts, err := api.stats.RecentActivity(ctx.Request().Context(), date, limit)
	if err != nil {
		return errors.Wrap(err, "listing recent activity")
	}
	return ctx.JSON(http.StatusOK, acts)
}

func (api attendanceAPI) dashboard(ctx echo.Context) error {
	dash, err := api.stats.Dashboard(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "building dashboard")
	}
	return ctx.JSON(http.StatusOK, dash)
}
