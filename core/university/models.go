package university

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	// errors
	ErrNotFound     = errors.New("university not found")
	ErrInvalidImage = errors.New("generated image is not valid base64")
	ErrInvalidJSON  = errors.New("AI response is not valid JSON")
)

const (
	DefaultResultCount = 3
	MaxResultCount     = 5
	DefaultTone        = "inspiring"
)

type (
	University struct {
		ID               string    `db:"id"`
		Name             string    `db:"name"`
		City             string    `db:"city"`
		Country          string    `db:"country"`
		FeaturedImageURL string    `db:"featured_image_url"`
		UpdatedAt        time.Time `db:"updated_at"`
	}

	// Repository is the subset of the managed universities table the gateway touches.
	Repository interface {
		GetByID(ctx context.Context, id string) (University, error)
		SetFeaturedImage(ctx context.Context, id, imageURL string) error
	}

	SearchQuery struct {
		Query       string   `json:"query" validate:"required,notblank,max=500"`
		FocusAreas  []string `json:"focusAreas" validate:"max=5,dive,max=100"`
		ResultCount int      `json:"resultCount" validate:"omitempty,min=1,max=5"`
	}

	ImageRequest struct {
		Name         string `json:"name" validate:"required,notblank,max=200"`
		UniversityID string `json:"universityId" validate:"omitempty,uuid"`
		City         string `json:"city" validate:"max=100"`
		Country      string `json:"country" validate:"max=100"`
		Tone         string `json:"tone" validate:"max=50"`
	}

	GeneratedImage struct {
		ImageURL string `json:"imageUrl"`
		FilePath string `json:"filePath"`
		Prompt   string `json:"prompt"`
		MIMEType string `json:"mimeType"`
	}
)

// Normalize trims every field, drops blank focus areas and applies the default result count.
func (q *SearchQuery) Normalize() {
	q.Query = strings.TrimSpace(q.Query)
	areas := make([]string, 0, len(q.FocusAreas))
	for _, a := range q.FocusAreas {
		if a = strings.TrimSpace(a); a != "" {
			areas = append(areas, a)
		}
	}
	q.FocusAreas = areas
	if q.ResultCount == 0 {
		q.ResultCount = DefaultResultCount
	}
}

func (r *ImageRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.UniversityID = strings.TrimSpace(r.UniversityID)
	r.City = strings.TrimSpace(r.City)
	r.Country = strings.TrimSpace(r.Country)
	r.Tone = strings.TrimSpace(r.Tone)
	if r.Tone == "" {
		r.Tone = DefaultTone
	}
}
