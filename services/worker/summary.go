package worker

import (
	"sort"
	"time"

	"sjsage522/couponworker/internal/coupon"
	"sjsage522/couponworker/internal/pipeline"
)

// Summary describes the outcome of one crawl round
type Summary struct {
	RunID      string
	StartedAt  time.Time
	Duration   time.Duration
	Stats      pipeline.Stats
	Records    []*coupon.Record
	Categories map[string]int
	WithCodes  int
	Errors     []error
}

// NewSummary builds a summary from the accepted records of a session
func NewSummary(session *pipeline.Session, records []*coupon.Record, errs []error) *Summary {
	s := &Summary{
		RunID:      session.ID,
		StartedAt:  session.StartedAt,
		Duration:   time.Since(session.StartedAt),
		Stats:      session.Stats(),
		Records:    append([]*coupon.Record(nil), records...),
		Categories: make(map[string]int),
		Errors:     append([]error(nil), errs...),
	}
	for _, r := range records {
		s.Categories[r.Category]++
		if r.HasCode() {
			s.WithCodes++
		}
	}
	return s
}

// Total returns the number of accepted records
func (s *Summary) Total() int {
	return len(s.Records)
}

// Example returns the first accepted record, or nil
func (s *Summary) Example() *coupon.Record {
	if len(s.Records) == 0 {
		return nil
	}
	return s.Records[0]
}

// CategoryNames returns the categories seen, most frequent first
func (s *Summary) CategoryNames() []string {
	names := make([]string, 0, len(s.Categories))
	for name := range s.Categories {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if s.Categories[names[i]] != s.Categories[names[j]] {
			return s.Categories[names[i]] > s.Categories[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}
