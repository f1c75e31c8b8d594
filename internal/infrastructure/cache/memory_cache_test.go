package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	key := "dashboard:v1:b1"

	_, ok := c.Get(key)
	assert.False(t, ok)

	c.Set(key, 42, 0)
	v, ok := c.Get(key)
	assert.True(t, ok)
	assert.Equal(t, 42, v)

	c.Delete(key)
	_, ok = c.Get(key)
	assert.False(t, ok)
}

func TestMemoryCache_Expira(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	c.Set("k", "v", 20*time.Millisecond)
	time.Sleep(40 * time.Millisecond)
	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestNoopCache(t *testing.T) {
	var c NoopCache
	c.Set("k", 1, time.Minute)
	_, ok := c.Get("k")
	assert.False(t, ok)
}
