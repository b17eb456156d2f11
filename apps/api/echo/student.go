package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/skip2/go-qrcode"

	"github.com/trezcool/eduscan/core/attendance"
	"github.com/trezcool/eduscan/core/student"
)

const cardSize = 256 // px

type (
	studentAPI struct {
		service    *student.Service
		attendance *attendance.Service
	}

	studentDetail struct {
		Student student.Student     `json:"student"`
		Records []attendance.Record `json:"records"`
	}
)

func registerStudentAPI(router *echo.Group, jwt echo.MiddlewareFunc, svc *student.Service, attSvc *attendance.Service) {
	api := studentAPI{service: svc, attendance: attSvc}
	objMiddleware := studentObjectMiddleware(svc)

	grp := router.Group("/students", jwt, adminMiddleware())
	grp.GET("", api.roster)
	grp.POST("", api.create)
	grp.GET("/:id", api.retrieve, objMiddleware)
	grp.PUT("/:id", api.update, objMiddleware)
	grp.DELETE("/:id", api.delete, objMiddleware)
	grp.GET("/:id/card.png", api.card, objMiddleware)
}

func (api studentAPI) roster(ctx echo.Context) error {
	filter := student.QueryFilter{
		Class:    ctx.QueryParam("class"),
		Search:   ctx.QueryParam("search"),
		IsActive: bindBool(ctx, "is_active"),
	}
	roster, err := api.service.Roster(ctx.Request().Context(), filter, bindPage(ctx))
	if err != nil {
		return errors.Wrap(err, "listing students")
	}
	return ctx.JSON(http.StatusOK, roster)
}

func (api studentAPI) create(ctx echo.Context) error {
	var ns student.NewStudent
	if err := ctx.Bind(&ns); err != nil {
		return err
	}
	std, err := api.service.Create(ctx.Request().Context(), ns)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return ctx.JSON(http.StatusCreated, std)
}

func (api studentAPI) retrieve(ctx echo.Context) error {
	std := ctx.Get(contextObjectKey).(student.Student)
	recs, err := api.attendance.StudentRecords(ctx.Request().Context(), std.ID)
	if err != nil {
		return errors.Wrap(err, "listing student records")
	}
	return ctx.JSON(http.StatusOK, studentDetail{Student: std, Records: recs})
}

func (api studentAPI) update(ctx echo.Context) error {
	std := ctx.Get(contextObjectKey).(student.Student)

	var us student.UpdateStudent
	if err := ctx.Bind(&us); err != nil {
		return err
	}
	std, err := api.service.Update(ctx.Request().Context(), std.ID, us)
	if err != nil {
		return errors.Wrap(err, "updating student")
	}
	return ctx.JSON(http.StatusOK, std)
}

func (api studentAPI) delete(ctx echo.Context) error {
	std := ctx.Get(contextObjectKey).(student.Student)
	if err := api.service.Delete(ctx.Request().Context(), std.ID); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// card renders the barcode of the student as a QR code, to be printed on the student card.
func (api studentAPI) card(ctx echo.Context) error {
	std := ctx.Get(contextObjectKey).(student.Student)
	png, err := qrcode.Encode(std.Barcode, qrcode.Medium, cardSize)
	if err != nil {
		return errors.Wrap(err, "encoding QR code")
	}
	return ctx.Blob(http.StatusOK, "image/png", png)
}
