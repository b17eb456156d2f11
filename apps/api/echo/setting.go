package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/eduscan/core/setting"
)

func registerSettingAPI(router *echo.Group, jwt echo.MiddlewareFunc, svc *setting.Service) {
	router.GET("/settings", func(ctx echo.Context) error {
		settings, err := svc.Get(ctx.Request().Context())
		if err != nil {
			return errors.Wrap(err, "reading school settings")
		}
		return ctx.JSON(http.StatusOK, settings)
	}, jwt, adminMiddleware())
}
