package university

import (
	"context"
	"encoding/base64"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/Otsikow/bridge-study-global-sub004/core"
)

type ImageService struct {
	images core.ImageGenerator
	store  core.ObjectStore
	repo   Repository // optional
	model  string
	log    core.Logger
}

func NewImageService(images core.ImageGenerator, store core.ObjectStore, repo Repository, model string, logger core.Logger) *ImageService {
	return &ImageService{images: images, store: store, repo: repo, model: model, log: logger}
}

// Generate creates a featured image for a university, uploads it and, when the university is known,
// records its public URL. req must be normalized and validated.
func (svc *ImageService) Generate(ctx context.Context, req ImageRequest) (GeneratedImage, error) {
	if svc.repo != nil && req.UniversityID != "" {
		if _, err := svc.repo.GetByID(ctx, req.UniversityID); err != nil {
			return GeneratedImage{}, err
		}
	}

	prompt := BuildImagePrompt(req)
	img, err := svc.images.GenerateImage(ctx, core.ImageRequest{Model: svc.model, Prompt: prompt})
	if err != nil {
		return GeneratedImage{}, errors.Wrap(err, "generating university image")
	}

	data, err := base64.StdEncoding.DecodeString(img.Base64)
	if err != nil || len(data) == 0 {
		return GeneratedImage{}, ErrInvalidImage
	}

	folder := req.UniversityID
	if folder == "" {
		folder = core.Slugify(req.Name)
	}
	if folder == "" {
		folder = "unnamed"
	}
	key := path.Join("universities", folder, uuid.NewString()+"."+extension(img.MIMEType))

	if err = svc.store.Upload(ctx, key, data, img.MIMEType); err != nil {
		return GeneratedImage{}, errors.Wrap(err, "uploading university image")
	}
	url := svc.store.PublicURL(key)

	if svc.repo != nil && req.UniversityID != "" {
		if err = svc.repo.SetFeaturedImage(ctx, req.UniversityID, url); err != nil {
			fields := map[string]interface{}{"university_id": req.UniversityID, "file_path": key}
			if delErr := svc.store.Delete(context.Background(), key); delErr != nil {
				svc.log.Error("removing orphaned university image", delErr, fields)
			}
			svc.log.Error("updating university featured image", err, fields)
			return GeneratedImage{}, errors.Wrap(err, "updating university featured image")
		}
	}

	return GeneratedImage{
		ImageURL: url,
		FilePath: key,
		Prompt:   prompt,
		MIMEType: img.MIMEType,
	}, nil
}

func BuildImagePrompt(req ImageRequest) string {
	var location string
	switch {
	case req.City != "" && req.Country != "":
		location = fmt.Sprintf(" in %s, %s", req.City, req.Country)
	case req.City != "":
		location = " in " + req.City
	case req.Country != "":
		location = " in " + req.Country
	}
	tone := req.Tone
	if tone == "" {
		tone = DefaultTone
	}
	return fmt.Sprintf(
		"Create a %s, photorealistic wide-angle photograph of the %s campus%s. "+
			"Show iconic architecture, green spaces and students in natural light. "+
			"Landscape 16:9 composition suitable for a website hero banner. No text, logos or watermarks.",
		tone, req.Name, location,
	)
}

func extension(mimeType string) string {
	switch strings.ToLower(mimeType) {
	case "image/jpeg", "image/jpg":
		return "jpg"
	case "image/webp":
		return "webp"
	case "image/gif":
		return "gif"
	default:
		return "png"
	}
}
