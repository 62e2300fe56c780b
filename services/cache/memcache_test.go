package cache

import (
	"testing"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// This test requires a running memcached instance
// If memcached is not available, the test will be skipped
func TestMemcacheService(t *testing.T) {
	mc := NewMemcacheService("localhost:11211")

	_, err := mc.client.Get("test")
	if err != nil && err != memcache.ErrCacheMiss {
		t.Skip("Memcached is not available, skipping test")
	}

	err = mc.Set("coupons_com_rate_limited", []byte("300"), 1*time.Second)
	assert.NoError(t, err)

	value, err := mc.Get("coupons_com_rate_limited")
	assert.NoError(t, err)
	assert.Equal(t, "300", string(value))
	assert.True(t, IsBlocked(mc, "coupons_com"))

	err = mc.Delete("coupons_com_rate_limited")
	assert.NoError(t, err)

	_, err = mc.Get("coupons_com_rate_limited")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryService(t *testing.T) {
	mem := NewMemoryService(4)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	mem.now = func() time.Time { return now }

	_, err := mem.Get("missing")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, mem.Set(BlockKey("demo"), []byte("60"), time.Minute))
	value, err := mem.Get(BlockKey("demo"))
	require.NoError(t, err)
	assert.Equal(t, "60", string(value))
	assert.True(t, IsBlocked(mem, "demo"))

	// Past the expiration the key reads as a miss
	now = now.Add(time.Minute)
	_, err = mem.Get(BlockKey("demo"))
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.False(t, IsBlocked(mem, "demo"))

	require.NoError(t, mem.Set("forever", []byte("x"), 0))
	now = now.Add(24 * time.Hour)
	_, err = mem.Get("forever")
	assert.NoError(t, err)

	require.NoError(t, mem.Delete("forever"))
	_, err = mem.Get("forever")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestNewPicksBackend(t *testing.T) {
	assert.IsType(t, &MemoryService{}, New(""))
	assert.IsType(t, &MemcacheService{}, New("localhost:11211"))
	assert.Equal(t, "retailmenot_rate_limited", BlockKey("retailmenot"))
	assert.False(t, IsBlocked(nil, "retailmenot"))
}
