package transcription

import (
	"context"
	"errors"

	pkgerrors "github.com/pkg/errors"

	"github.com/Otsikow/bridge-study-global-sub004/core"
)

// MaxAudioSize is the largest accepted upload, in bytes.
const MaxAudioSize = 25 << 20

var (
	// errors
	ErrNoAudio     = errors.New("audio file is required")
	ErrAudioTooBig = errors.New("audio file exceeds the 25MB limit")
)

type (
	Audio struct {
		Filename string
		Data     []byte
		Language string
		Prompt   string
	}

	Service struct {
		tr            core.Transcriber
		model         string
		fallbackModel string
		log           core.Logger
	}
)

func NewService(tr core.Transcriber, model, fallbackModel string, logger core.Logger) *Service {
	return &Service{tr: tr, model: model, fallbackModel: fallbackModel, log: logger}
}

// Transcribe converts speech to text with the primary model and retries once with the fallback model.
// A rate-limited attempt is returned as is.
func (svc *Service) Transcribe(ctx context.Context, audio Audio) (string, error) {
	if len(audio.Data) == 0 {
		return "", ErrNoAudio
	}
	if len(audio.Data) > MaxAudioSize {
		return "", ErrAudioTooBig
	}

	text, err := svc.transcribe(ctx, svc.model, audio)
	if err == nil {
		return text, nil
	}
	if core.IsRateLimited(err) || svc.fallbackModel == "" || svc.fallbackModel == svc.model {
		return "", err
	}

	svc.log.Warn("primary transcription model failed, retrying with fallback", err, map[string]interface{}{
		"model":    svc.model,
		"fallback": svc.fallbackModel,
	})
	text, err = svc.transcribe(ctx, svc.fallbackModel, audio)
	if err != nil {
		return "", pkgerrors.Wrap(err, "fallback transcription")
	}
	return text, nil
}

func (svc *Service) transcribe(ctx context.Context, model string, audio Audio) (string, error) {
	return svc.tr.Transcribe(ctx, core.TranscriptionRequest{
		Model:    model,
		Filename: audio.Filename,
		Audio:    audio.Data,
		Language: audio.Language,
		Prompt:   audio.Prompt,
	})
}
