package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Otsikow/bridge-study-global-sub004/core/contact"
)

type contactApi struct {
	svc      *contact.Service
	validate *validator.Validate
}

func registerContactAPI(g *echo.Group, limiter echo.MiddlewareFunc, deps *Deps) {
	api := contactApi{svc: deps.ContactSvc, validate: deps.Validate}

	// public endpoint
	g.POST("/send-contact-email", api.send, limiter)
}

func (api *contactApi) send(ctx echo.Context) error {
	var data contact.Submission
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Submission")
	}
	data.Normalize()
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	if err := api.svc.Send(ctx.Request().Context(), data); err != nil {
		return &echo.HTTPError{Code: http.StatusInternalServerError, Message: "Failed to send email", Internal: err}
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true})
}
