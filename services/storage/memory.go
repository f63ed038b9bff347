package storagesvc

import (
	"context"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/Otsikow/bridge-study-global-sub004/core"
)

type Object struct {
	Data        []byte
	ContentType string
}

// MemoryStore keeps objects in process memory (DEV & tests).
type MemoryStore struct {
	mu            sync.RWMutex
	objects       map[string]Object
	publicBaseURL string
}

var _ core.ObjectStore = (*MemoryStore)(nil)

func NewMemoryStore(publicBaseURL string) *MemoryStore {
	return &MemoryStore{
		objects:       make(map[string]Object),
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
	}
}

func (s *MemoryStore) Upload(_ context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	s.mu.Lock()
	s.objects[key] = Object{Data: append([]byte(nil), data...), ContentType: contentType}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.objects, key)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) PublicURL(key string) string {
	return s.publicBaseURL + "/" + escapeKey(key)
}

// Get returns the object stored at key.
func (s *MemoryStore) Get(key string) (Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	return obj, ok
}
