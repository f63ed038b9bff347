package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Otsikow/bridge-study-global-sub004/core"
)

const validationFailedMsg = "Validation failed"

var (
	errMissingToken     = echo.NewHTTPError(http.StatusUnauthorized, "missing or malformed jwt")
	errInvalidToken     = echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired jwt")
	errHttpForbidden    = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errTooManyRequests  = echo.NewHTTPError(http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
	errCreditsExhausted = echo.NewHTTPError(http.StatusPaymentRequired, "AI credits exhausted. Please add credits to your workspace.")
	errAICredentials    = echo.NewHTTPError(http.StatusInternalServerError, "AI gateway rejected the request credentials")
	errNoImage          = echo.NewHTTPError(http.StatusBadGateway, "No image was returned by the AI gateway")
)

// withInternal copies a sentinel HTTP error and attaches the cause for logging.
func withInternal(he *echo.HTTPError, err error) *echo.HTTPError {
	return &echo.HTTPError{Code: he.Code, Message: he.Message, Internal: err}
}

// upstreamHTTPError maps an AI gateway failure to the error surfaced to callers;
// statuses absent from known fall back to a 500 with fallbackMsg.
func upstreamHTTPError(err error, fallbackMsg string, known ...int) error {
	if status, ok := core.UpstreamStatus(err); ok {
		for _, k := range known {
			if k != status {
				continue
			}
			switch status {
			case http.StatusTooManyRequests:
				return withInternal(errTooManyRequests, err)
			case http.StatusPaymentRequired:
				return withInternal(errCreditsExhausted, err)
			case http.StatusUnauthorized, http.StatusForbidden:
				return withInternal(errAICredentials, err)
			}
		}
	}
	if errors.Is(err, core.ErrNoImage) {
		return withInternal(errNoImage, err)
	}
	return &echo.HTTPError{Code: http.StatusInternalServerError, Message: fallbackMsg, Internal: err}
}

func validationDetails(vErrs validator.ValidationErrors, translator ut.Translator) map[string]string {
	details := make(map[string]string, len(vErrs))
	for _, vErr := range vErrs {
		details[vErr.Field()] = vErr.Translate(translator)
	}
	return details
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			code = origErr.Code
			message = origErr.Message
			if code >= http.StatusInternalServerError && origErr.Internal != nil {
				logger.Error(http.StatusText(code), origErr.Internal, contextPerson(ctx), requestFields(ctx))
			}
		case validator.ValidationErrors:
			code = http.StatusBadRequest
			message = echo.Map{"error": validationFailedMsg, "details": validationDetails(origErr, translator)}
		case *core.ValidationError:
			code = http.StatusBadRequest
			if origErr.Fields != nil {
				details := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					details[fErr.Field] = fErr.Error
				}
				message = echo.Map{"error": validationFailedMsg, "details": details}
			} else {
				message = origErr.Error()
			}
		default: // any other error is a server error
			code = http.StatusInternalServerError
			message = core.FriendlyMessage(err)
			logger.Error(http.StatusText(code), errors.Wrap(err, "unhandled error"), contextPerson(ctx), requestFields(ctx))

			if ctx.Echo().Debug {
				message = err.Error()
			}

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				logger.Error("writing error response", err)
			}
		}
	}
}

func contextPerson(ctx echo.Context) core.Person {
	var p core.Person
	if claims, err := getContextClaims(ctx); err == nil {
		p.ID = claims.Subject
		p.Email = claims.Email
		p.Role = claims.Role
	}
	return p
}

func requestFields(ctx echo.Context) map[string]interface{} {
	return map[string]interface{}{
		"method":     ctx.Request().Method,
		"path":       ctx.Path(),
		"request_id": ctx.Response().Header().Get(echo.HeaderXRequestID),
	}
}
