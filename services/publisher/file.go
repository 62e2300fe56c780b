package publisher

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"sjsage522/couponworker/logger"
	pkgerrors "sjsage522/couponworker/pkg/errors"
)

// FilePublisher collects records and writes them as one JSON array on Close
type FilePublisher struct {
	path string

	mu      sync.Mutex
	records []json.RawMessage
	closed  bool
	log     *logger.Logger
}

// NewFilePublisher creates a file sink writing to path
func NewFilePublisher(path string) *FilePublisher {
	return &FilePublisher{
		path: path,
		log:  logger.ForPublisher(),
	}
}

// Path returns the output file path
func (p *FilePublisher) Path() string {
	return p.path
}

// Len returns the number of records collected so far
func (p *FilePublisher) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.records)
}

// Publish buffers one serialized record. The key is not used by the file sink.
func (p *FilePublisher) Publish(_ string, message []byte) error {
	if !json.Valid(message) {
		return pkgerrors.NewPublisher("file", "record is not valid JSON", nil)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return pkgerrors.NewPublisher("file", "publish after close", nil)
	}
	p.records = append(p.records, append(json.RawMessage(nil), message...))
	return nil
}

// TrimStreams is a no-op for the file sink
func (p *FilePublisher) TrimStreams() error {
	return nil
}

// Close writes the collected records with 4-space indentation.
// Nothing is written when no record was published.
func (p *FilePublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true

	if len(p.records) == 0 {
		p.log.Warn().Str("path", p.path).Msg("No records collected, output file not written")
		return nil
	}

	data, err := json.MarshalIndent(p.records, "", "    ")
	if err != nil {
		return pkgerrors.NewPublisher("file", "encode records", err)
	}
	if dir := filepath.Dir(p.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return pkgerrors.NewPublisher("file", "create "+dir, err)
		}
	}
	if err := os.WriteFile(p.path, append(data, '\n'), 0o644); err != nil {
		return pkgerrors.NewPublisher("file", "write "+p.path, err)
	}

	p.log.Info().Str("path", p.path).Int("records", len(p.records)).Msg("Wrote output file")
	return nil
}
