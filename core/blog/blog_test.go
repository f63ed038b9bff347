package blog

import (
	"context"
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Otsikow/bridge-study-global-sub004/core"
	aisvc "github.com/Otsikow/bridge-study-global-sub004/services/ai"
)

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt(CoverRequest{Title: "Studying in Germany", Excerpt: "Tuition-free degrees.", Tags: "germany, tuition"})
	assert.Contains(t, p, `titled "Studying in Germany"`)
	assert.Contains(t, p, "The article is about: Tuition-free degrees.")
	assert.Contains(t, p, "Themes: germany, tuition.")
	assert.Contains(t, p, "16:9")

	p = BuildPrompt(CoverRequest{Title: "Visas"})
	assert.NotContains(t, p, "The article is about")
	assert.NotContains(t, p, "Themes")
}

func TestCoverRequest_validation(t *testing.T) {
	validate, _ := core.NewValidator()
	assert.NoError(t, validate.Struct(CoverRequest{Title: "ok"}))
	assert.Error(t, validate.Struct(CoverRequest{}))
	assert.Error(t, validate.Struct(CoverRequest{Title: string(make([]byte, 201))}))
}

func TestService_GenerateCover(t *testing.T) {
	ai := &aisvc.Fake{ImageFunc: func(req core.ImageRequest) (core.Image, error) {
		return core.Image{MIMEType: "image/webp", Base64: "UklGRg=="}, nil
	}}
	svc := NewService(ai, "image-model")

	cover, err := svc.GenerateCover(context.Background(), CoverRequest{Title: "Scholarships"})
	require.NoError(t, err)
	assert.Equal(t, Cover{ImageBase64: "UklGRg==", MIMEType: "image/webp"}, cover)
	require.Len(t, ai.ImageCalls, 1)
	assert.Equal(t, "image-model", ai.ImageCalls[0].Model)

	svc = NewService(&aisvc.Fake{}, "m")
	_, err = svc.GenerateCover(context.Background(), CoverRequest{Title: "x"})
	assert.Equal(t, core.ErrNoImage, err)

	svc = NewService(&aisvc.Fake{ImageFunc: func(core.ImageRequest) (core.Image, error) {
		return core.Image{}, core.NewUpstreamError("image", http.StatusPaymentRequired, "")
	}}, "m")
	_, err = svc.GenerateCover(context.Background(), CoverRequest{Title: "x"})
	status, ok := core.UpstreamStatus(errors.Cause(err))
	assert.True(t, ok)
	assert.Equal(t, http.StatusPaymentRequired, status)
}
