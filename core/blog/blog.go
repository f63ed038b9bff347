package blog

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/Otsikow/bridge-study-global-sub004/core"
)

type (
	CoverRequest struct {
		Title   string `json:"title" validate:"required,notblank,max=200"`
		Excerpt string `json:"excerpt" validate:"max=1000"`
		Tags    string `json:"tags" validate:"max=300"`
	}

	Cover struct {
		ImageBase64 string `json:"imageBase64"`
		MIMEType    string `json:"mimeType"`
	}

	// Service generates cover images for blog posts.
	Service struct {
		images core.ImageGenerator
		model  string
	}
)

func (r *CoverRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Excerpt = strings.TrimSpace(r.Excerpt)
	r.Tags = strings.TrimSpace(r.Tags)
}

func NewService(images core.ImageGenerator, model string) *Service {
	return &Service{images: images, model: model}
}

func (svc *Service) GenerateCover(ctx context.Context, req CoverRequest) (Cover, error) {
	img, err := svc.images.GenerateImage(ctx, core.ImageRequest{Model: svc.model, Prompt: BuildPrompt(req)})
	if err != nil {
		return Cover{}, errors.Wrap(err, "generating blog cover")
	}
	if img.Base64 == "" {
		return Cover{}, core.ErrNoImage
	}
	return Cover{ImageBase64: img.Base64, MIMEType: img.MIMEType}, nil
}

func BuildPrompt(req CoverRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a modern editorial cover illustration for a study-abroad blog article titled %q.", req.Title)
	if req.Excerpt != "" {
		fmt.Fprintf(&b, " The article is about: %s.", strings.TrimRight(req.Excerpt, "."))
	}
	if req.Tags != "" {
		fmt.Fprintf(&b, " Themes: %s.", req.Tags)
	}
	b.WriteString(" Wide 16:9 landscape format, vibrant but professional colors, international students and campus life." +
		" Do not include any text, letters or logos in the image.")
	return b.String()
}
