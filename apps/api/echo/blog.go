package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Otsikow/bridge-study-global-sub004/core/blog"
)

type blogApi struct {
	svc      *blog.Service
	validate *validator.Validate
}

func registerBlogAPI(g *echo.Group, auth echo.MiddlewareFunc, deps *Deps) {
	api := blogApi{svc: deps.BlogSvc, validate: deps.Validate}
	g.POST("/generate-blog-image", api.generateImage, auth)
}

func (api *blogApi) generateImage(ctx echo.Context) error {
	var data blog.CoverRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CoverRequest")
	}
	data.Normalize()
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	cover, err := api.svc.GenerateCover(ctx.Request().Context(), data)
	if err != nil {
		return upstreamHTTPError(err, "Failed to generate blog image", http.StatusTooManyRequests, http.StatusPaymentRequired)
	}
	return ctx.JSON(http.StatusOK, cover)
}
