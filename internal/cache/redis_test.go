package cache

import (
	"context"
	"net"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	a := Key("https://api-web.nhle.com/v1/standings/now")
	b := Key("https://api-web.nhle.com/v1/standings/now")
	c := Key("https://api-web.nhle.com/v1/roster/BOS/current")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.True(t, strings.HasPrefix(a, keyPrefix))
	assert.Len(t, a, len(keyPrefix)+40)
}

func TestRedisCache_RoundTrip(t *testing.T) {
	host := os.Getenv("TEST_REDIS_HOST")
	if host == "" {
		t.Skip("TEST_REDIS_HOST not set")
	}

	ctx := context.Background()
	c, err := NewRedisCache(ctx, Config{Addr: net.JoinHostPort(host, "6379"), TTL: time.Minute})
	require.NoError(t, err)
	defer c.Close()

	url := "https://example.test/cache-roundtrip"
	_, ok, err := c.Get(ctx, url+"/missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, url, []byte(`{"a":1}`)))
	body, ok, err := c.Get(ctx, url)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"a":1}`, string(body))
}

func TestNewRedisCache_Unreachable(t *testing.T) {
	_, err := NewRedisCache(context.Background(), Config{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}
