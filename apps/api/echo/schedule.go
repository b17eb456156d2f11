package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/eduscan/core/schedule"
)

type scheduleAPI struct {
	service *schedule.Service
}

func registerScheduleAPI(router *echo.Group, jwt echo.MiddlewareFunc, svc *schedule.Service) {
	api := scheduleAPI{service: svc}

	grp := router.Group("/schedules", jwt, adminMiddleware())
	grp.GET("", api.list)
	grp.POST("", api.create)
	grp.PUT("/:id", api.update)
	grp.DELETE("/:id", api.deactivate)
}

func (api scheduleAPI) list(ctx echo.Context) error {
	filter := schedule.QueryFilter{
		ClassName: ctx.QueryParam("class"),
		IsActive:  bindBool(ctx, "is_active"),
	}
	scheds, err := api.service.List(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "listing schedules")
	}
	return ctx.JSON(http.StatusOK, scheds)
}

func (api scheduleAPI) create(ctx echo.Context) error {
	var ns schedule.NewSchedule
	if err := ctx.Bind(&ns); err != nil {
		return err
	}
	sched, err := api.service.Create(ctx.Request().Context(), ns)
	if err != nil {
		return errors.Wrap(err, "creating schedule")
	}
	return ctx.JSON(http.StatusCreated, sched)
}

func (api scheduleAPI) update(ctx echo.Context) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}
	var us schedule.UpdateSchedule
	if err := ctx.Bind(&us); err != nil {
		return err
	}
	sched, err := api.service.Update(ctx.Request().Context(), id, us)
	if err != nil {
		return errors.Wrap(err, "updating schedule")
	}
	return ctx.JSON(http.StatusOK, sched)
}

// deactivate keeps the schedule row, resolution skips inactive schedules.
func (api scheduleAPI) deactivate(ctx echo.Context) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}
	sched, err := api.service.Deactivate(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "deactivating schedule")
	}
	return ctx.JSON(http.StatusOK, sched)
}
