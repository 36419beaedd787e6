package memcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGet(t *testing.T) {
	c := New()

	c.Set("key", []byte("value"), time.Minute)

	got, ok := c.Get("key")
	require.True(t, ok)
	assert.Equal(t, []byte("value"), got)
}

func TestGet_Missing(t *testing.T) {
	c := New()

	_, ok := c.Get("missing")
	assert.False(t, ok)
}

func TestGet_Expired(t *testing.T) {
	c := New()

	c.Set("key", []byte("value"), -time.Second)

	_, ok := c.Get("key")
	assert.False(t, ok)
}

func TestSet_Overwrites(t *testing.T) {
	c := New()

	c.Set("key", []byte("old"), time.Minute)
	c.Set("key", []byte("new"), time.Minute)

	got, ok := c.Get("key")
	require.True(t, ok)
	assert.Equal(t, []byte("new"), got)
}

func TestInvalidate(t *testing.T) {
	c := New()

	c.Set("key", []byte("value"), time.Minute)
	c.Invalidate("key")

	_, ok := c.Get("key")
	assert.False(t, ok)
}

func TestPurge_RemovesOnlyExpired(t *testing.T) {
	c := New()

	c.Set("fresh", []byte("a"), time.Minute)
	c.Set("stale", []byte("b"), -time.Second)

	c.Purge()

	_, ok := c.Get("fresh")
	assert.True(t, ok)

	c.mu.RLock()
	_, stillThere := c.entries["stale"]
	c.mu.RUnlock()
	assert.False(t, stillThere)
}
