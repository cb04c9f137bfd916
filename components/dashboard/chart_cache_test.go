package dashboard

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChartCacheStoresEntry(t *testing.T) {
	cache := NewChartCache(time.Minute)
	calls := 0
	render := func() (string, error) {
		calls++
		return "html", nil
	}

	val1, err := cache.GetOrRender("key", render)
	require.NoError(t, err)
	val2, err := cache.GetOrRender("key", render)
	require.NoError(t, err)

	assert.Equal(t, "html", val1)
	assert.Equal(t, val1, val2)
	assert.Equal(t, 1, calls)
}

func TestChartCacheExpiresAndPurges(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cache := NewChartCache(time.Minute)
	cache.now = func() time.Time { return now }
	calls := 0
	render := func() (string, error) {
		calls++
		return "fresh", nil
	}

	_, err := cache.GetOrRender("a", render)
	require.NoError(t, err)
	_, err = cache.GetOrRender("b", render)
	require.NoError(t, err)
	assert.Equal(t, 2, cache.Purge())

	now = now.Add(2 * time.Minute)
	_, err = cache.GetOrRender("a", render)
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 1, cache.Purge())
}

func TestChartCacheDoesNotStoreErrors(t *testing.T) {
	cache := NewChartCache(time.Minute)
	_, err := cache.GetOrRender("key", func() (string, error) { return "", errors.New("boom") })
	require.Error(t, err)
	html, err := cache.GetOrRender("key", func() (string, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", html)
}

func TestConfigHashStable(t *testing.T) {
	assert.Equal(t, "empty", configHash(nil))
	a := configHash(map[string]any{"view": "bar", "limit": 3})
	b := configHash(map[string]any{"limit": 3, "view": "bar"})
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, configHash(map[string]any{"view": "area"}))
}
