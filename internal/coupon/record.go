package coupon

import (
	"encoding/json"
	"time"
)

// DefaultCategory is used when no category keyword matches
const DefaultCategory = "general"

// Record represents a scraped coupon.
// Optional fields are nil when the value was not found on the page.
type Record struct {
	Title              string
	Code               *string
	Description        *string
	Store              string
	ExpiryDate         *string
	DiscountPercentage *int
	Category           string
	TermsConditions    *string
	URL                string

	scrapedAt time.Time
}

// NewRecord creates a record for sourceURL stamped with the current time
func NewRecord(title, sourceURL string) *Record {
	return NewRecordAt(title, sourceURL, time.Now())
}

// NewRecordAt creates a record with an explicit scrape time
func NewRecordAt(title, sourceURL string, scrapedAt time.Time) *Record {
	return &Record{
		Title:     title,
		URL:       sourceURL,
		Category:  DefaultCategory,
		scrapedAt: scrapedAt,
	}
}

// ScrapedAt returns the time the record was created
func (r *Record) ScrapedAt() time.Time {
	return r.scrapedAt
}

// HasCode reports whether the record carries a coupon code
func (r *Record) HasCode() bool {
	return r.Code != nil && *r.Code != ""
}

// Clone returns a copy that shares no pointers with r
func (r *Record) Clone() *Record {
	c := *r
	c.Code = cloneString(r.Code)
	c.Description = cloneString(r.Description)
	c.ExpiryDate = cloneString(r.ExpiryDate)
	c.TermsConditions = cloneString(r.TermsConditions)
	if r.DiscountPercentage != nil {
		v := *r.DiscountPercentage
		c.DiscountPercentage = &v
	}
	return &c
}

// wireRecord is the JSON shape of a Record
type wireRecord struct {
	Title              string  `json:"title"`
	Code               *string `json:"code,omitempty"`
	Description        *string `json:"description,omitempty"`
	Store              string  `json:"store"`
	ExpiryDate         *string `json:"expiryDate,omitempty"`
	DiscountPercentage *int    `json:"discountPercentage,omitempty"`
	Category           string  `json:"category"`
	TermsConditions    *string `json:"termsConditions,omitempty"`
	URL                string  `json:"url"`
	ScrapedAt          string  `json:"scrapedAt"`
}

// MarshalJSON implements json.Marshaler
func (r *Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireRecord{
		Title:              r.Title,
		Code:               r.Code,
		Description:        r.Description,
		Store:              r.Store,
		ExpiryDate:         r.ExpiryDate,
		DiscountPercentage: r.DiscountPercentage,
		Category:           r.Category,
		TermsConditions:    r.TermsConditions,
		URL:                r.URL,
		ScrapedAt:          r.scrapedAt.Format(time.RFC3339Nano),
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (r *Record) UnmarshalJSON(data []byte) error {
	var w wireRecord
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	var scrapedAt time.Time
	if w.ScrapedAt != "" {
		t, err := time.Parse(time.RFC3339Nano, w.ScrapedAt)
		if err != nil {
			return err
		}
		scrapedAt = t
	}

	*r = Record{
		Title:              w.Title,
		Code:               w.Code,
		Description:        w.Description,
		Store:              w.Store,
		ExpiryDate:         w.ExpiryDate,
		DiscountPercentage: w.DiscountPercentage,
		Category:           w.Category,
		TermsConditions:    w.TermsConditions,
		URL:                w.URL,
		scrapedAt:          scrapedAt,
	}
	return nil
}

// StringPtr returns a pointer to s, or nil if s is empty
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// IntPtr returns a pointer to v
func IntPtr(v int) *int {
	return &v
}

// Value dereferences an optional string, returning "" when absent
func Value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
