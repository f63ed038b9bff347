package core

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_defaults(t *testing.T) {
	t.Setenv("ENV", "")

	conf, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, "DEV", conf.Env)
	assert.True(t, conf.Debug)
	assert.False(t, conf.TestMode)
	assert.Equal(t, ":8000", conf.Server.Address)
	assert.Equal(t, []string{"*"}, conf.Server.AllowOrigins)
	assert.Empty(t, conf.Server.TrustedProxies)
	assert.Equal(t, "authenticated", conf.Auth.RequiredRole)
	assert.Equal(t, time.Hour, conf.Cache.SearchTTL)
	assert.Equal(t, 5, conf.RateLimit.ContactPerMinute)
	assert.Equal(t, "whisper-1", conf.AI.TranscriptionFallbackModel)
}

func TestNewConfig_env(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("TEST_SERVER_ADDRESS", ":9999")
	t.Setenv("TEST_AI_APIKEY", "gateway-key")
	t.Setenv("TEST_CACHE_SEARCHTTL", "30m")
	t.Setenv("TEST_DEBUG", "false")
	t.Setenv("TEST_SERVER_ALLOWORIGINS", "https://a.example, https://b.example")
	t.Setenv("TEST_SERVER_TRUSTEDPROXIES", "10.0.0.0/8 192.168.0.0/16")

	conf, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, "TEST", conf.Env)
	assert.True(t, conf.TestMode)
	assert.False(t, conf.Debug)
	assert.Equal(t, ":9999", conf.Server.Address)
	assert.Equal(t, "gateway-key", conf.AI.APIKey)
	assert.Equal(t, "gateway-key", conf.AI.TranscriptionAPIKey)
	assert.Equal(t, 30*time.Minute, conf.Cache.SearchTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, conf.Server.AllowOrigins)
	assert.Equal(t, []string{"10.0.0.0/8", "192.168.0.0/16"}, conf.Server.TrustedProxies)
}

func TestFriendlyMessage(t *testing.T) {
	tests := map[string]string{
		"JWT expired":                       "Your session has expired. Please sign in again.",
		"pq: permission denied for table x": "You do not have permission to perform this action.",
		"pq: duplicate key value violates":  "This record already exists.",
		"dial tcp: connection refused":      "A network error occurred. Please check your connection and try again.",
		"boom":                              "Internal Server Error",
	}
	for msg, want := range tests {
		assert.Equal(t, want, FriendlyMessage(NewValidationError(errString(msg))), msg)
	}
	assert.Empty(t, FriendlyMessage(nil))
}

type errString string

func (e errString) Error() string { return string(e) }

func TestUpstreamError(t *testing.T) {
	err := NewUpstreamError("chat", 429, "slow down")
	status, ok := UpstreamStatus(err)
	assert.True(t, ok)
	assert.Equal(t, 429, status)
	assert.True(t, IsRateLimited(err))
	assert.EqualError(t, err, "chat: upstream status 429: slow down")

	_, ok = UpstreamStatus(errString("plain"))
	assert.False(t, ok)

	long := NewUpstreamError("chat", 500, strings.Repeat("é", 250))
	assert.EqualError(t, long, "chat: upstream status 500: "+strings.Repeat("é", 200)+"...")
	assert.True(t, utf8.ValidString(long.Error()))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "university-of-ghana", Slugify("  University of Ghana! "))
	assert.Equal(t, "", Slugify("!!!"))
	assert.Equal(t, "abc", Truncate("abcdef", 3))
	assert.Equal(t, "ab", Truncate("ab", 3))
}
