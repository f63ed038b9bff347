package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Otsikow/bridge-study-global-sub004/core"
	"github.com/Otsikow/bridge-study-global-sub004/core/university"
)

type universityApi struct {
	searchSvc  *university.SearchService
	imageSvc   *university.ImageService
	validate   *validator.Validate
	translator ut.Translator
}

func registerUniversityAPI(g *echo.Group, auth, role echo.MiddlewareFunc, deps *Deps) {
	api := universityApi{
		searchSvc:  deps.SearchSvc,
		imageSvc:   deps.UniversityImageSvc,
		validate:   deps.Validate,
		translator: deps.Translator,
	}

	g.POST("/ai-university-search", api.search, auth, role)
	g.POST("/generate-university-image", api.generateImage, auth)
}

// Handlers

func (api *universityApi) search(ctx echo.Context) error {
	var data university.SearchQuery
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SearchQuery")
	}
	data.Normalize()
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	results, err := api.searchSvc.Search(ctx.Request().Context(), data)
	if err != nil {
		if errors.Is(err, university.ErrInvalidJSON) {
			return &echo.HTTPError{Code: http.StatusInternalServerError, Message: "AI returned an invalid response", Internal: err}
		}
		return upstreamHTTPError(err, "Failed to search universities")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"results": results})
}

func (api *universityApi) generateImage(ctx echo.Context) error {
	var data university.ImageRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ImageRequest")
	}
	data.Normalize()
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	img, err := api.imageSvc.Generate(ctx.Request().Context(), data)
	switch {
	case err == nil:
		return ctx.JSON(http.StatusOK, img)
	case errors.Is(err, university.ErrInvalidImage):
		return &echo.HTTPError{Code: http.StatusBadGateway, Message: "AI gateway returned an invalid image", Internal: err}
	case errors.Is(err, university.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, university.ErrNotFound.Error())
	default:
		if _, ok := core.UpstreamStatus(err); !ok && !errors.Is(err, core.ErrNoImage) {
			return err // storage & database failures
		}
		return upstreamHTTPError(err, "Failed to generate university image",
			http.StatusUnauthorized, http.StatusForbidden, http.StatusPaymentRequired, http.StatusTooManyRequests)
	}
}
