package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Otsikow/bridge-study-global-sub004/core/insight"
	"github.com/Otsikow/bridge-study-global-sub004/core/lead"
)

type assistantApi struct {
	validate *validator.Validate
}

// registerAssistantAPI mounts the deterministic lead scoring and canned Zoe insight functions.
func registerAssistantAPI(g *echo.Group, auth echo.MiddlewareFunc, deps *Deps) {
	api := assistantApi{validate: deps.Validate}
	g.POST("/lead-qualification", api.qualifyLead, auth)
	g.POST("/zoe-insights", api.insights, auth)
}

func (api *assistantApi) qualifyLead(ctx echo.Context) error {
	var data lead.Lead
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Lead")
	}
	data.Normalize()
	if err := api.validate.Struct(data); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, lead.Qualify(data))
}

func (api *assistantApi) insights(ctx echo.Context) error {
	var data insight.Request
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to insight.Request")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, insight.Generate(data.Context))
}
