package cachesvc

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Otsikow/bridge-study-global-sub004/core"
)

func TestNewRedisCache_unreachable(t *testing.T) {
	_, err := NewRedisCache(core.CacheConfig{RedisAddr: "127.0.0.1:1"})
	assert.Error(t, err)
}
