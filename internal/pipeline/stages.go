package pipeline

import (
	"regexp"
	"strings"

	"sjsage522/couponworker/internal/coupon"
	"sjsage522/couponworker/internal/extract"
)

// KeyDelimiter separates the parts of a dedup key
const KeyDelimiter = ":"

var whitespace = regexp.MustCompile(`\s+`)

// Stage processes a single record.
// Only the dedup stage touches the session's shared state.
type Stage interface {
	Name() string
	Process(session *Session, record *coupon.Record) Outcome
}

// ValidateStage drops records without a title and canonicalises code and expiry
type ValidateStage struct{}

// Name implements Stage
func (ValidateStage) Name() string { return "validate" }

// Process implements Stage
func (ValidateStage) Process(_ *Session, record *coupon.Record) Outcome {
	if record == nil || strings.TrimSpace(record.Title) == "" {
		return Reject("missing title")
	}

	if record.Code != nil {
		record.Code = coupon.StringPtr(strings.ToUpper(whitespace.ReplaceAllString(*record.Code, "")))
	}
	if record.ExpiryDate != nil {
		record.ExpiryDate = coupon.StringPtr(strings.TrimSpace(*record.ExpiryDate))
	}
	return Accept(record)
}

// DedupStage drops records whose composite key was already seen in the run
type DedupStage struct{}

// Name implements Stage
func (DedupStage) Name() string { return "deduplicate" }

// Process implements Stage
func (DedupStage) Process(session *Session, record *coupon.Record) Outcome {
	key := DedupKey(record)
	if !session.Claim(key) {
		return Dup(key)
	}
	return Accept(record)
}

// DedupKey builds the lowercase title:code:store key of a record
func DedupKey(record *coupon.Record) string {
	parts := []string{record.Title, coupon.Value(record.Code), record.Store}
	for i, p := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return strings.Join(parts, KeyDelimiter)
}

// CleanStage collapses whitespace again and fills in a missing discount percentage
type CleanStage struct{}

// Name implements Stage
func (CleanStage) Name() string { return "clean" }

// Process implements Stage
func (CleanStage) Process(_ *Session, record *coupon.Record) Outcome {
	record.Title = extract.CollapseWhitespace(record.Title)
	if record.Description != nil {
		record.Description = coupon.StringPtr(extract.CollapseWhitespace(*record.Description))
	}

	if record.DiscountPercentage == nil {
		text := record.Title + " " + coupon.Value(record.Description)
		if pct, ok := extract.ExtractPercentage(text); ok {
			record.DiscountPercentage = &pct
		}
	}
	return Accept(record)
}
