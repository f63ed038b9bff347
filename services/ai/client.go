// Package aisvc talks to OpenAI-compatible AI gateways: chat completions, image generation and transcription.
package aisvc

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/Otsikow/bridge-study-global-sub004/core"
	"github.com/Otsikow/bridge-study-global-sub004/services/metrics"
)

const (
	opChat       = "chat"
	opImage      = "image"
	opTranscribe = "transcribe"

	maxErrBody = 4 << 10
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

var (
	_ core.ChatCompleter  = (*Client)(nil)
	_ core.ImageGenerator = (*Client)(nil)
	_ core.Transcriber    = (*Client)(nil)
)

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type chatPayload struct {
	Model          string             `json:"model"`
	Messages       []core.ChatMessage `json:"messages"`
	ResponseFormat *responseFormat    `json:"response_format,omitempty"`
	Temperature    float64            `json:"temperature,omitempty"`
	Modalities     []string           `json:"modalities,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

// CompleteChat returns the content of the first choice.
func (c *Client) CompleteChat(ctx context.Context, req core.ChatRequest) (string, error) {
	payload := chatPayload{
		Model:       req.Model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
	}
	if req.JSONResponse {
		payload.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	body, err := c.postJSON(ctx, opChat, "/chat/completions", payload)
	if err != nil {
		return "", err
	}
	content := gjson.GetBytes(body, "choices.0.message.content")
	if !content.Exists() {
		metrics.ObserveUpstream(opChat, "empty")
		return "", errors.New("chat completion returned no content")
	}
	return content.String(), nil
}

// GenerateImage asks a multimodal chat model for an image and returns the first one.
func (c *Client) GenerateImage(ctx context.Context, req core.ImageRequest) (core.Image, error) {
	payload := chatPayload{
		Model:      req.Model,
		Messages:   []core.ChatMessage{{Role: "user", Content: req.Prompt}},
		Modalities: []string{"image", "text"},
	}

	body, err := c.postJSON(ctx, opImage, "/chat/completions", payload)
	if err != nil {
		return core.Image{}, err
	}

	raw := gjson.GetBytes(body, "choices.0.message.images.0.image_url.url").String()
	if raw == "" {
		raw = gjson.GetBytes(body, "data.0.b64_json").String()
	}
	if raw == "" {
		metrics.ObserveUpstream(opImage, "empty")
		return core.Image{}, core.ErrNoImage
	}
	return ParseImageData(raw), nil
}

// ParseImageData splits a `data:<mime>;base64,<payload>` URL. Bare payloads are assumed to be PNG.
func ParseImageData(raw string) core.Image {
	if strings.HasPrefix(raw, "data:") {
		if idx := strings.Index(raw, ","); idx > 0 {
			meta := strings.TrimPrefix(raw[:idx], "data:")
			mime := strings.TrimSuffix(meta, ";base64")
			if mime == "" {
				mime = "image/png"
			}
			return core.Image{MIMEType: mime, Base64: raw[idx+1:]}
		}
	}
	return core.Image{MIMEType: "image/png", Base64: raw}
}

// Transcribe posts the audio as multipart/form-data and returns the transcript text.
func (c *Client) Transcribe(ctx context.Context, req core.TranscriptionRequest) (string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	filename := req.Filename
	if filename == "" {
		filename = "audio.webm"
	}
	fw, err := w.CreateFormFile("file", filename)
	if err != nil {
		return "", errors.Wrap(err, "creating file part")
	}
	if _, err = fw.Write(req.Audio); err != nil {
		return "", errors.Wrap(err, "writing file part")
	}
	fields := map[string]string{
		"model":           req.Model,
		"response_format": "json",
		"language":        req.Language,
		"prompt":          req.Prompt,
	}
	for k, v := range fields {
		if v == "" {
			continue
		}
		if err = w.WriteField(k, v); err != nil {
			return "", errors.Wrapf(err, "writing %s field", k)
		}
	}
	if err = w.Close(); err != nil {
		return "", errors.Wrap(err, "closing multipart writer")
	}

	body, err := c.do(ctx, opTranscribe, "/audio/transcriptions", w.FormDataContentType(), &buf)
	if err != nil {
		return "", err
	}
	text := gjson.GetBytes(body, "text")
	if !text.Exists() {
		metrics.ObserveUpstream(opTranscribe, "empty")
		return "", errors.New("transcription returned no text")
	}
	return strings.TrimSpace(text.String()), nil
}

func (c *Client) postJSON(ctx context.Context, op, path string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "marshalling payload")
	}
	return c.do(ctx, op, path, "application/json", bytes.NewReader(data))
}

func (c *Client) do(ctx context.Context, op, path, contentType string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, errors.Wrap(err, "building request")
	}
	req.Header.Set("Content-Type", contentType)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveUpstream(op, "error")
		return nil, errors.Wrapf(err, "%s request", op)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode >= http.StatusBadRequest {
		metrics.ObserveUpstream(op, strconv.Itoa(res.StatusCode))
		errBody, _ := io.ReadAll(io.LimitReader(res.Body, maxErrBody))
		return nil, core.NewUpstreamError(op, res.StatusCode, string(errBody))
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		metrics.ObserveUpstream(op, "error")
		return nil, errors.Wrapf(err, "reading %s response", op)
	}
	if !gjson.ValidBytes(data) {
		metrics.ObserveUpstream(op, "invalid")
		return nil, errors.Errorf("%s response is not valid JSON", op)
	}
	metrics.ObserveUpstream(op, "ok")
	return data, nil
}
