package publisher

import (
	"context"
	"fmt"

	"sjsage522/couponworker/config"
)

// MessageKey is the stream field that carries an encoded coupon record
const MessageKey = "b64_coupon"

// Publisher represents a sink for accepted coupon records
type Publisher interface {
	// Publish publishes a serialized record under key
	Publish(key string, message []byte) error

	// TrimStreams trims all streams to the configured maximum length
	TrimStreams() error

	// Close flushes pending output and releases the sink
	Close() error
}

// New creates the sink selected by cfg.Sink. outputPath is used by the file sink.
func New(ctx context.Context, cfg *config.Config, outputPath string) (Publisher, error) {
	switch cfg.Sink {
	case config.SinkFile:
		return NewFilePublisher(outputPath), nil
	case config.SinkRedis:
		p := NewRedisPublisher(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream, cfg.RedisStreamCount, cfg.RedisStreamMaxLength)
		if err := p.Ping(); err != nil {
			_ = p.Close()
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrInvalidSink, cfg.Sink)
	}
}
