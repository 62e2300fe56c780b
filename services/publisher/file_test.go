package publisher

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sjsage522/couponworker/config"
)

func TestFilePublisher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "coupons.json")
	p := NewFilePublisher(path)

	require.NoError(t, p.Publish(MessageKey, []byte(`{"title":"20% Off Sitewide","code":"SAVE20"}`)))
	require.NoError(t, p.Publish(MessageKey, []byte(`{"title":"Free Shipping"}`)))
	assert.Equal(t, 2, p.Len())
	assert.NoError(t, p.TrimStreams())
	require.NoError(t, p.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "[\n    {\n        \"title\""))

	var out []map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	require.Len(t, out, 2)
	assert.Equal(t, "SAVE20", out[0]["code"])
	assert.Equal(t, "Free Shipping", out[1]["title"])

	// Closed sinks reject further records; a second Close is a no-op
	assert.Error(t, p.Publish(MessageKey, []byte(`{}`)))
	assert.NoError(t, p.Close())
}

func TestFilePublisherEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, NewFilePublisher(path).Close())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestFilePublisherInvalidJSON(t *testing.T) {
	p := NewFilePublisher(filepath.Join(t.TempDir(), "x.json"))
	assert.Error(t, p.Publish(MessageKey, []byte("not json")))
	assert.Equal(t, 0, p.Len())
}

func TestFilePublisherConcurrent(t *testing.T) {
	p := NewFilePublisher(filepath.Join(t.TempDir(), "c.json"))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, p.Publish(MessageKey, []byte(`{"title":"Concurrent"}`)))
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, p.Len())
	require.NoError(t, p.Close())
}

func TestNewSelectsSink(t *testing.T) {
	cfg := &config.Config{Sink: config.SinkFile}
	p, err := New(context.Background(), cfg, "out.json")
	require.NoError(t, err)
	assert.IsType(t, &FilePublisher{}, p)

	cfg.Sink = "kafka"
	_, err = New(context.Background(), cfg, "out.json")
	assert.ErrorIs(t, err, config.ErrInvalidSink)

	cfg = &config.Config{Sink: config.SinkRedis, RedisAddr: "127.0.0.1:1", RedisStream: "coupons", RedisStreamCount: 1}
	_, err = New(context.Background(), cfg, "")
	assert.Error(t, err)
}
