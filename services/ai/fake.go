package aisvc

import (
	"context"
	"sync"

	"github.com/Otsikow/bridge-study-global-sub004/core"
)

// Fake is an in-process stand-in for the AI gateway.
// Unset funcs return zero values.
type Fake struct {
	ChatFunc       func(req core.ChatRequest) (string, error)
	ImageFunc      func(req core.ImageRequest) (core.Image, error)
	TranscribeFunc func(req core.TranscriptionRequest) (string, error)

	mu              sync.Mutex
	ChatCalls       []core.ChatRequest
	ImageCalls      []core.ImageRequest
	TranscribeCalls []core.TranscriptionRequest
}

var (
	_ core.ChatCompleter  = (*Fake)(nil)
	_ core.ImageGenerator = (*Fake)(nil)
	_ core.Transcriber    = (*Fake)(nil)
)

func (f *Fake) CompleteChat(_ context.Context, req core.ChatRequest) (string, error) {
	f.mu.Lock()
	f.ChatCalls = append(f.ChatCalls, req)
	f.mu.Unlock()
	if f.ChatFunc == nil {
		return "", nil
	}
	return f.ChatFunc(req)
}

func (f *Fake) GenerateImage(_ context.Context, req core.ImageRequest) (core.Image, error) {
	f.mu.Lock()
	f.ImageCalls = append(f.ImageCalls, req)
	f.mu.Unlock()
	if f.ImageFunc == nil {
		return core.Image{}, nil
	}
	return f.ImageFunc(req)
}

func (f *Fake) Transcribe(_ context.Context, req core.TranscriptionRequest) (string, error) {
	f.mu.Lock()
	f.TranscribeCalls = append(f.TranscribeCalls, req)
	f.mu.Unlock()
	if f.TranscribeFunc == nil {
		return "", nil
	}
	return f.TranscribeFunc(req)
}
