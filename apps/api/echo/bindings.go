package echoapi

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/eduscan/core"
)

func bindPage(ctx echo.Context) core.Page {
	var page core.Page
	page.Number, _ = strconv.Atoi(ctx.QueryParam("page"))
	page.Size, _ = strconv.Atoi(ctx.QueryParam("page_size"))
	page.Clean()
	return page
}

func bindBool(ctx echo.Context, param string) *bool {
	val := ctx.QueryParam(param)
	if val == "" {
		return nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return nil
	}
	return &b
}

func bindInt(ctx echo.Context, param string, def int) (int, error) {
	val := ctx.QueryParam(param)
	if val == "" {
		return def, nil
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0, core.NewValidationError(err, core.FieldError{Field: param, Error: "must be an integer"})
	}
	return i, nil
}

// bindDate reads a YYYY-MM-DD query param, defaulting to the day of `now`.
func bindDate(ctx echo.Context, param string, now time.Time) (time.Time, error) {
	val := ctx.QueryParam(param)
	if val == "" {
		return core.DateOf(now), nil
	}
	date, err := core.ParseDate(val, now.Location())
	if err != nil {
		return time.Time{}, core.NewValidationError(err, core.FieldError{Field: param, Error: "must be a date formatted as YYYY-MM-DD"})
	}
	return date, nil
}
