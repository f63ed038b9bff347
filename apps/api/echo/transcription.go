package echoapi

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Otsikow/bridge-study-global-sub004/core"
	"github.com/Otsikow/bridge-study-global-sub004/core/transcription"
)

const audioField = "audio"

var (
	errAudioMissing  = echo.NewHTTPError(http.StatusBadRequest, "No audio file provided")
	errAudioTooLarge = echo.NewHTTPError(http.StatusRequestEntityTooLarge, "Audio file too large. Maximum size is 25MB.")
)

type transcriptionApi struct {
	svc *transcription.Service
}

func registerTranscriptionAPI(g *echo.Group, auth echo.MiddlewareFunc, deps *Deps) {
	api := transcriptionApi{svc: deps.TranscriptionSvc}
	g.POST("/audio-transcribe", api.transcribe, auth)
}

func (api *transcriptionApi) transcribe(ctx echo.Context) error {
	fh, err := ctx.FormFile(audioField)
	if err != nil {
		return withInternal(errAudioMissing, err)
	}
	if fh.Size > transcription.MaxAudioSize {
		return errAudioTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening audio file")
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, transcription.MaxAudioSize+1))
	if err != nil {
		return errors.Wrap(err, "reading audio file")
	}

	text, err := api.svc.Transcribe(ctx.Request().Context(), transcription.Audio{
		Filename: fh.Filename,
		Data:     data,
		Language: ctx.FormValue("language"),
		Prompt:   ctx.FormValue("prompt"),
	})
	switch {
	case err == nil:
		return ctx.JSON(http.StatusOK, echo.Map{"text": text})
	case errors.Is(err, transcription.ErrNoAudio):
		return errAudioMissing
	case errors.Is(err, transcription.ErrAudioTooBig):
		return errAudioTooLarge
	case core.IsRateLimited(err):
		return withInternal(errTooManyRequests, err)
	default:
		return &echo.HTTPError{Code: http.StatusInternalServerError, Message: "Transcription failed", Internal: err}
	}
}
