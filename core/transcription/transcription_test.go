package transcription

import (
	"context"
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Otsikow/bridge-study-global-sub004/core"
	aisvc "github.com/Otsikow/bridge-study-global-sub004/services/ai"
	logsvc "github.com/Otsikow/bridge-study-global-sub004/services/logger"
)

func TestService_Transcribe(t *testing.T) {
	audio := Audio{Filename: "note.webm", Data: []byte("RIFF"), Language: "en"}
	rateLimited := core.NewUpstreamError("transcription", http.StatusTooManyRequests, "")
	serverErr := core.NewUpstreamError("transcription", http.StatusInternalServerError, "")

	tests := []struct {
		name       string
		results    map[string]error // model: error
		wantText   string
		wantModels []string
		wantStatus int
	}{
		{
			name:       "primary succeeds",
			results:    map[string]error{},
			wantText:   "text from primary",
			wantModels: []string{"primary"},
		},
		{
			name:       "fallback after failure",
			results:    map[string]error{"primary": serverErr},
			wantText:   "text from fallback",
			wantModels: []string{"primary", "fallback"},
		},
		{
			name:       "no fallback on rate limit",
			results:    map[string]error{"primary": rateLimited},
			wantModels: []string{"primary"},
			wantStatus: http.StatusTooManyRequests,
		},
		{
			name:       "fallback rate limited",
			results:    map[string]error{"primary": serverErr, "fallback": rateLimited},
			wantModels: []string{"primary", "fallback"},
			wantStatus: http.StatusTooManyRequests,
		},
		{
			name:       "both fail",
			results:    map[string]error{"primary": serverErr, "fallback": serverErr},
			wantModels: []string{"primary", "fallback"},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ai := &aisvc.Fake{TranscribeFunc: func(req core.TranscriptionRequest) (string, error) {
				if err := tt.results[req.Model]; err != nil {
					return "", err
				}
				return "text from " + req.Model, nil
			}}
			svc := NewService(ai, "primary", "fallback", logsvc.NewNop())

			text, err := svc.Transcribe(context.Background(), audio)
			models := make([]string, 0, len(ai.TranscribeCalls))
			for _, c := range ai.TranscribeCalls {
				models = append(models, c.Model)
				assert.Equal(t, "note.webm", c.Filename)
				assert.Equal(t, "en", c.Language)
			}
			assert.Equal(t, tt.wantModels, models)

			if tt.wantStatus == 0 {
				require.NoError(t, err)
				assert.Equal(t, tt.wantText, text)
				return
			}
			status, ok := core.UpstreamStatus(err)
			require.True(t, ok, "%v", err)
			assert.Equal(t, tt.wantStatus, status)
		})
	}
}

func TestService_Transcribe_input(t *testing.T) {
	svc := NewService(&aisvc.Fake{}, "primary", "fallback", logsvc.NewNop())

	_, err := svc.Transcribe(context.Background(), Audio{})
	assert.Equal(t, ErrNoAudio, err)

	_, err = svc.Transcribe(context.Background(), Audio{Data: make([]byte, MaxAudioSize+1)})
	assert.True(t, errors.Is(err, ErrAudioTooBig))
}
