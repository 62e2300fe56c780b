package extract

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"sjsage522/couponworker/internal/coupon"
)

// Extraction errors
var (
	// ErrNoTitle means no title locator produced a usable title
	ErrNoTitle = errors.New("no usable title")
	// ErrRejected means the candidate failed the validity filter
	ErrRejected = errors.New("rejected by validity filter")
)

const (
	// DefaultMinTitleLength is the shortest cleaned title the extractor accepts
	DefaultMinTitleLength = 3
	// MinValidTitleLength is the shortest title the validity filter accepts
	MinValidTitleLength = 5
)

// blockedTitleTerms mark page chrome picked up by broad fallback selectors
var blockedTitleTerms = []string{"menu", "navigation", "footer", "header", "sidebar", "advertisement"}

// Fields holds the locator cascades used to read each coupon field from a fragment
type Fields struct {
	Title       []Locator `yaml:"title"`
	Code        []Locator `yaml:"code"`
	Description []Locator `yaml:"description"`
	Store       []Locator `yaml:"store"`
	Expiry      []Locator `yaml:"expiry"`
	Category    []Locator `yaml:"category"`
	Terms       []Locator `yaml:"terms"`

	// FallbackStore is used when no store locator matches
	FallbackStore string `yaml:"fallback_store"`
	// MinTitleLength overrides DefaultMinTitleLength when positive
	MinTitleLength int `yaml:"min_title_length"`
}

// Extractor builds coupon records from page fragments
type Extractor struct {
	fields Fields
	now    func() time.Time
}

// NewExtractor creates an extractor for the given field locators
func NewExtractor(fields Fields) *Extractor {
	return &Extractor{fields: fields, now: time.Now}
}

func (e *Extractor) minTitleLength() int {
	if e.fields.MinTitleLength > 0 {
		return e.fields.MinTitleLength
	}
	return DefaultMinTitleLength
}

// Extract builds a candidate record from one fragment.
// It returns ErrNoTitle when no title is found; other fields are optional.
func (e *Extractor) Extract(q Queryable, sourceURL string) (*coupon.Record, error) {
	rawTitle, ok := Cascade(q, e.fields.Title)
	if !ok {
		return nil, ErrNoTitle
	}
	title := CleanText(rawTitle)
	if len([]rune(title)) < e.minTitleLength() {
		return nil, fmt.Errorf("%w: %q shorter than %d characters", ErrNoTitle, title, e.minTitleLength())
	}

	record := coupon.NewRecordAt(title, sourceURL, e.now())

	if raw, ok := Cascade(q, e.fields.Code); ok {
		if code, ok := NormalizeCode(raw); ok {
			record.Code = &code
		}
	}

	if raw, ok := Cascade(q, e.fields.Description); ok {
		record.Description = coupon.StringPtr(CleanText(raw))
	}

	record.Store = e.fields.FallbackStore
	if raw, ok := Cascade(q, e.fields.Store); ok {
		if store := CleanText(raw); store != "" {
			record.Store = store
		}
	}

	if raw, ok := Cascade(q, e.fields.Expiry); ok {
		record.ExpiryDate = coupon.StringPtr(ExtractExpiry(raw))
	}

	text := record.Title + " " + coupon.Value(record.Description)

	if raw, ok := Cascade(q, e.fields.Category); ok {
		record.Category = ResolveCategory(raw, text)
	} else {
		record.Category = Classify(text)
	}

	if pct, ok := ExtractPercentage(text); ok {
		record.DiscountPercentage = &pct
	}

	if raw, ok := Cascade(q, e.fields.Terms); ok {
		record.TermsConditions = coupon.StringPtr(CleanText(raw))
	}

	return record, nil
}

// Validate applies the validity filter to a candidate record
func Validate(record *coupon.Record) error {
	if record == nil {
		return fmt.Errorf("%w: nil record", ErrRejected)
	}

	title := strings.ToLower(record.Title)
	if len([]rune(title)) < MinValidTitleLength {
		return fmt.Errorf("%w: title %q shorter than %d characters", ErrRejected, record.Title, MinValidTitleLength)
	}
	for _, term := range blockedTitleTerms {
		if strings.Contains(title, term) {
			return fmt.Errorf("%w: title %q contains %q", ErrRejected, record.Title, term)
		}
	}
	return nil
}

// ExtractValid extracts a record and applies the validity filter
func (e *Extractor) ExtractValid(q Queryable, sourceURL string) (*coupon.Record, error) {
	record, err := e.Extract(q, sourceURL)
	if err != nil {
		return nil, err
	}
	if err := Validate(record); err != nil {
		return nil, err
	}
	return record, nil
}
