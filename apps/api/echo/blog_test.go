package echoapi

import (
	"net/http"
	"strings"
	"testing"

	"github.com/Otsikow/bridge-study-global-sub004/core"
)

func Test_blogApi_generateImage(t *testing.T) {
	env := setup(t)
	token := getToken(t, "authenticated")
	path := "/functions/v1/generate-blog-image"

	env.ai.ImageFunc = func(req core.ImageRequest) (core.Image, error) {
		switch {
		case strings.Contains(req.Prompt, `"rate"`):
			return core.Image{}, core.NewUpstreamError("image generation", http.StatusTooManyRequests, "")
		case strings.Contains(req.Prompt, `"credits"`):
			return core.Image{}, core.NewUpstreamError("image generation", http.StatusPaymentRequired, "")
		case strings.Contains(req.Prompt, `"auth"`):
			return core.Image{}, core.NewUpstreamError("image generation", http.StatusUnauthorized, "")
		case strings.Contains(req.Prompt, `"empty"`):
			return core.Image{}, core.ErrNoImage
		default:
			return core.Image{MIMEType: "image/jpeg", Base64: "/9j/4AAQ"}, nil
		}
	}

	tests := []httpTest{
		{
			name:     "success",
			method:   http.MethodPost,
			path:     path,
			body:     []byte(`{"title": "Top scholarships for 2025", "excerpt": "Funding guide", "tags": "scholarships"}`),
			token:    token,
			wantCode: http.StatusOK,
			wantData: []byte(`{"imageBase64":"/9j/4AAQ","mimeType":"image/jpeg"}`),
		},
		{
			name:     "missing title",
			method:   http.MethodPost,
			path:     path,
			body:     []byte(`{"excerpt": "no title"}`),
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"error":"Validation failed","details":{"title":"this field is required"}}`),
		},
		{
			name:     "rate limited",
			method:   http.MethodPost,
			path:     path,
			body:     []byte(`{"title": "rate"}`),
			token:    token,
			wantCode: http.StatusTooManyRequests,
			wantData: marshallObj(t, httpErr{Error: "Rate limit exceeded. Please try again later."}),
		},
		{
			name:     "credits exhausted",
			method:   http.MethodPost,
			path:     path,
			body:     []byte(`{"title": "credits"}`),
			token:    token,
			wantCode: http.StatusPaymentRequired,
			wantData: marshallObj(t, httpErr{Error: "AI credits exhausted. Please add credits to your workspace."}),
		},
		{
			name:     "other upstream error",
			method:   http.MethodPost,
			path:     path,
			body:     []byte(`{"title": "auth"}`),
			token:    token,
			wantCode: http.StatusInternalServerError,
			wantData: marshallObj(t, httpErr{Error: "Failed to generate blog image"}),
		},
		{
			name:     "no image",
			method:   http.MethodPost,
			path:     path,
			body:     []byte(`{"title": "empty"}`),
			token:    token,
			wantCode: http.StatusBadGateway,
			wantData: marshallObj(t, httpErr{Error: "No image was returned by the AI gateway"}),
		},
	}
	runHTTPTests(t, env.app, tests)
}
