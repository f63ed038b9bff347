package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Otsikow/bridge-study-global-sub004/core"
)

func TestOpen_noURL(t *testing.T) {
	_, err := Open(context.Background(), core.DatabaseConfig{})
	assert.EqualError(t, err, "database URL is not configured")
}

func TestOpen_unreachable(t *testing.T) {
	pingAttempts = 1
	defer func() { pingAttempts = 30 }()

	_, err := Open(context.Background(), core.DatabaseConfig{URL: "postgres://u:p@127.0.0.1:1/geg?sslmode=disable"})
	assert.Error(t, err)
}
