package core

import (
	"context"
	"errors"
)

// ErrNoImage is returned when an image generation succeeded upstream but carried no image.
var ErrNoImage = errors.New("no image returned")

type (
	ChatMessage struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}

	ChatRequest struct {
		Model        string
		Messages     []ChatMessage
		JSONResponse bool
		Temperature  float64
	}

	ImageRequest struct {
		Model  string
		Prompt string
	}

	// Image is a generated image, its payload standard base64 encoded.
	Image struct {
		MIMEType string
		Base64   string
	}

	TranscriptionRequest struct {
		Model    string
		Filename string
		Audio    []byte
		Language string
		Prompt   string
	}

	// ChatCompleter is any service that answers chat-completion requests.
	ChatCompleter interface {
		CompleteChat(ctx context.Context, req ChatRequest) (string, error)
	}

	// ImageGenerator is any service that turns a prompt into an image.
	ImageGenerator interface {
		GenerateImage(ctx context.Context, req ImageRequest) (Image, error)
	}

	// Transcriber is any speech-to-text service.
	Transcriber interface {
		Transcribe(ctx context.Context, req TranscriptionRequest) (string, error)
	}
)
