package pipeline

import (
	"fmt"

	"sjsage522/couponworker/internal/coupon"
)

// Kind tags the result of running a record through the pipeline
type Kind int

const (
	// Accepted records continue to the sink
	Accepted Kind = iota
	// Rejected records failed a stage
	Rejected
	// Duplicate records were already seen in this run
	Duplicate
)

// String implements fmt.Stringer
func (k Kind) String() string {
	switch k {
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	case Duplicate:
		return "duplicate"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Outcome is the tagged result of a stage or of the whole pipeline.
// Record is set for Accepted, Reason and Err for Rejected and Key for Duplicate.
type Outcome struct {
	Kind   Kind
	Record *coupon.Record
	Reason string
	Key    string
	Err    error
}

// Accept wraps a record that passed a stage
func Accept(record *coupon.Record) Outcome {
	return Outcome{Kind: Accepted, Record: record}
}

// Reject builds a rejection with a human readable reason
func Reject(reason string) Outcome {
	return Outcome{Kind: Rejected, Reason: reason}
}

// Dup builds a duplicate signal for key
func Dup(key string) Outcome {
	return Outcome{Kind: Duplicate, Key: key}
}

// IsAccepted reports whether the outcome carries a record for the sink
func (o Outcome) IsAccepted() bool {
	return o.Kind == Accepted && o.Record != nil
}
