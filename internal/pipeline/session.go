package pipeline

import (
	"sync"
	"time"
)

// Session holds the dedup state of a single crawl run.
// It is created when a run starts and dropped when the run ends.
type Session struct {
	ID        string
	StartedAt time.Time

	mu          sync.Mutex
	seen        map[string]struct{}
	accepted    int
	rejected    int
	duplicates  int
	unpublished int
}

// Stats summarises the outcomes recorded in a session
type Stats struct {
	Accepted    int
	Rejected    int
	Duplicates  int
	Unpublished int
	UniqueKeys  int
}

// NewSession creates an empty run session
func NewSession(id string) *Session {
	return &Session{
		ID:        id,
		StartedAt: time.Now(),
		seen:      make(map[string]struct{}),
	}
}

// Claim inserts key and reports whether it was new.
// Check and insert happen under one lock so concurrent callers cannot both win.
func (s *Session) Claim(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.seen[key]; ok {
		return false
	}
	s.seen[key] = struct{}{}
	return true
}

// MarkUnpublished moves one accepted record to the unpublished count.
// The worker calls it when an accepted record could not be delivered.
func (s *Session) MarkUnpublished() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.accepted > 0 {
		s.accepted--
	}
	s.unpublished++
}

// record counts a final pipeline outcome
func (s *Session) record(kind Kind) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch kind {
	case Accepted:
		s.accepted++
	case Rejected:
		s.rejected++
	case Duplicate:
		s.duplicates++
	}
}

// Stats returns a snapshot of the session counters
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Stats{
		Accepted:    s.accepted,
		Rejected:    s.rejected,
		Duplicates:  s.duplicates,
		Unpublished: s.unpublished,
		UniqueKeys:  len(s.seen),
	}
}
