package university

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/Otsikow/bridge-study-global-sub004/core"
)

const searchSystemPrompt = `You are an expert international education advisor helping students find universities abroad.
Answer ONLY with a single JSON object, no markdown and no commentary, following exactly this schema:
{
  "summary": string,
  "universities": [
    {
      "name": string,
      "country": string,
      "city": string,
      "website": string,
      "overview": string,
      "ranking": string,
      "programs": [string],
      "tuitionRange": string,
      "admissionRequirements": [string],
      "scholarships": [string],
      "applicationDeadlines": string,
      "whyItFits": string
    }
  ]
}
Use accurate, up-to-date public information. When a value is unknown use an empty string or an empty array.`

type SearchService struct {
	chat  core.ChatCompleter
	cache core.Cache // optional
	model string
	ttl   time.Duration
	log   core.Logger
}

func NewSearchService(chat core.ChatCompleter, cache core.Cache, model string, ttl time.Duration, logger core.Logger) *SearchService {
	return &SearchService{chat: chat, cache: cache, model: model, ttl: ttl, log: logger}
}

// Search asks the AI gateway for universities matching q and returns the raw JSON document.
// q must be normalized and validated.
func (svc *SearchService) Search(ctx context.Context, q SearchQuery) (json.RawMessage, error) {
	key := cacheKey(q)
	if cached, ok := svc.fromCache(ctx, key); ok {
		return cached, nil
	}

	answer, err := svc.chat.CompleteChat(ctx, core.ChatRequest{
		Model: svc.model,
		Messages: []core.ChatMessage{
			{Role: "system", Content: searchSystemPrompt},
			{Role: "user", Content: buildSearchPrompt(q)},
		},
		JSONResponse: true,
		Temperature:  0.4,
	})
	if err != nil {
		return nil, errors.Wrap(err, "searching universities")
	}

	results, err := parseResults(answer)
	if err != nil {
		return nil, err
	}

	if svc.cache != nil && svc.ttl > 0 {
		if err = svc.cache.Set(ctx, key, results, svc.ttl); err != nil {
			svc.log.Warn("caching university search results", err, map[string]interface{}{"key": key})
		}
	}
	return results, nil
}

func (svc *SearchService) fromCache(ctx context.Context, key string) (json.RawMessage, bool) {
	if svc.cache == nil {
		return nil, false
	}
	val, ok, err := svc.cache.Get(ctx, key)
	if err != nil {
		svc.log.Warn("reading university search cache", err, map[string]interface{}{"key": key})
		return nil, false
	}
	if !ok || !json.Valid(val) {
		return nil, false
	}
	return val, true
}

func buildSearchPrompt(q SearchQuery) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Student request: %s\n", q.Query)
	if len(q.FocusAreas) > 0 {
		fmt.Fprintf(&b, "Focus areas: %s\n", strings.Join(q.FocusAreas, ", "))
	}
	fmt.Fprintf(&b, "Return exactly %d universities, best match first.", q.ResultCount)
	return b.String()
}

// cacheKey ignores casing and surrounding whitespace.
func cacheKey(q SearchQuery) string {
	areas := make([]string, len(q.FocusAreas))
	for i, a := range q.FocusAreas {
		areas[i] = core.CleanString(a, true)
	}
	raw := fmt.Sprintf("%s|%s|%d", core.CleanString(q.Query, true), strings.Join(areas, ","), q.ResultCount)
	sum := sha256.Sum256([]byte(raw))
	return "university-search:" + hex.EncodeToString(sum[:])
}

func parseResults(answer string) (json.RawMessage, error) {
	doc := []byte(stripCodeFence(answer))
	if !json.Valid(doc) {
		return nil, ErrInvalidJSON
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, doc); err != nil {
		return nil, ErrInvalidJSON
	}
	return buf.Bytes(), nil
}

// stripCodeFence removes a surrounding markdown code fence (``` or ```json).
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSpace(s)
	return strings.TrimSpace(strings.TrimSuffix(s, "```"))
}
