package echoapi

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Otsikow/bridge-study-global-sub004/core"
	"github.com/Otsikow/bridge-study-global-sub004/core/transcription"
)

func newMultipartRequest(t *testing.T, token string, audio []byte, fields map[string]string) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()
	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)
	if audio != nil {
		fw, err := w.CreateFormFile(audioField, "recording.webm")
		require.NoError(t, err)
		_, err = fw.Write(audio)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())

	req, rec := newAuthRequest(http.MethodPost, "/functions/v1/audio-transcribe", token, body.Bytes())
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req, rec
}

func Test_transcriptionApi_transcribe(t *testing.T) {
	token := getToken(t, "authenticated")
	serverErr := core.NewUpstreamError("transcription", http.StatusInternalServerError, "")
	rateLimited := core.NewUpstreamError("transcription", http.StatusTooManyRequests, "")

	tests := []struct {
		httpTest
		audio  []byte
		failOn map[string]error // model: error
	}{
		{
			httpTest: httpTest{name: "primary model", wantCode: http.StatusOK, wantData: []byte(`{"text":"from primary"}`)},
			audio:    []byte("OggS audio"),
		},
		{
			httpTest: httpTest{name: "fallback model", wantCode: http.StatusOK, wantData: []byte(`{"text":"from fallback"}`)},
			audio:    []byte("OggS audio"),
			failOn:   map[string]error{"primary": serverErr},
		},
		{
			httpTest: httpTest{
				name:     "rate limited",
				wantCode: http.StatusTooManyRequests,
				wantData: marshallObj(t, httpErr{Error: "Rate limit exceeded. Please try again later."}),
			},
			audio:  []byte("OggS audio"),
			failOn: map[string]error{"primary": rateLimited},
		},
		{
			httpTest: httpTest{
				name:     "both models fail",
				wantCode: http.StatusInternalServerError,
				wantData: marshallObj(t, httpErr{Error: "Transcription failed"}),
			},
			audio:  []byte("OggS audio"),
			failOn: map[string]error{"primary": serverErr, "fallback": serverErr},
		},
		{
			httpTest: httpTest{
				name:     "missing file",
				wantCode: http.StatusBadRequest,
				wantData: marshallObj(t, httpErr{Error: "No audio file provided"}),
			},
		},
		{
			httpTest: httpTest{
				name:     "empty file",
				wantCode: http.StatusBadRequest,
				wantData: marshallObj(t, httpErr{Error: "No audio file provided"}),
			},
			audio: []byte{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setup(t)
			env.ai.TranscribeFunc = func(req core.TranscriptionRequest) (string, error) {
				if err := tt.failOn[req.Model]; err != nil {
					return "", err
				}
				return "from " + req.Model, nil
			}

			req, rec := newMultipartRequest(t, token, tt.audio, map[string]string{"language": "en"})
			env.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt.httpTest, rec)

			for _, call := range env.ai.TranscribeCalls {
				assert.Equal(t, "en", call.Language)
				assert.Equal(t, "recording.webm", call.Filename)
			}
		})
	}
}

func Test_transcriptionApi_tooLarge(t *testing.T) {
	env := setup(t)
	req, rec := newMultipartRequest(t, getToken(t, "authenticated"), make([]byte, transcription.MaxAudioSize+1), nil)
	env.app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Empty(t, env.ai.TranscribeCalls)
}
