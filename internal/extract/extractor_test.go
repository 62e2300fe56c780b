package extract

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sjsage522/couponworker/internal/coupon"
)

var testFields = Fields{
	Title:       Texts("[data-testid*=title]", ".title", "h3", "strong"),
	Code:        []Locator{Text(".coupon-code"), Attr("[data-clipboard-text]", "data-clipboard-text")},
	Description: Texts(".description", "p"),
	Store:       Texts(".store-name"),
	Expiry:      []Locator{Text(".expires"), Attr("[data-expiry]", "data-expiry")},
	Category:    Texts(".category"),
	Terms:       Texts(".terms"),

	FallbackStore: "Coupons.com",
}

func fragment(t *testing.T, html string) Queryable {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return NewSelection(doc.Find("div.card").First())
}

func TestExtractEndToEnd(t *testing.T) {
	q := fragment(t, `<div class="card">
		<div class="title">  20%   Off Sitewide  </div>
		<p>Save 20% storewide</p>
	</div>`)

	record, err := NewExtractor(testFields).Extract(q, "https://www.coupons.com/")
	require.NoError(t, err)

	assert.Equal(t, "20% Off Sitewide", record.Title)
	require.NotNil(t, record.DiscountPercentage)
	assert.Equal(t, 20, *record.DiscountPercentage)
	assert.Equal(t, "general", record.Category)
	assert.Nil(t, record.Code)
	assert.Equal(t, "Save 20% storewide", coupon.Value(record.Description))
	assert.Equal(t, "Coupons.com", record.Store)
	assert.Equal(t, "https://www.coupons.com/", record.URL)
	assert.False(t, record.ScrapedAt().IsZero())
}

func TestExtractAllFields(t *testing.T) {
	q := fragment(t, `<div class="card">
		<h3>Deal: Large Pizza Night</h3>
		<span class="coupon-code"> pz-50 </span>
		<div class="description">Half off   any large pizza</div>
		<span class="store-name">Pizza Palace</span>
		<span data-expiry="Expires: 12/31/2025"></span>
		<div class="terms"> Dine-in only. </div>
	</div>`)

	extractor := NewExtractor(testFields)
	fixed := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	extractor.now = func() time.Time { return fixed }

	record, err := extractor.Extract(q, "https://example.com/food")
	require.NoError(t, err)

	assert.Equal(t, "Large Pizza Night", record.Title)
	assert.Equal(t, "PZ50", coupon.Value(record.Code))
	assert.Equal(t, "Half off any large pizza", coupon.Value(record.Description))
	assert.Equal(t, "Pizza Palace", record.Store)
	assert.Equal(t, "12/31/2025", coupon.Value(record.ExpiryDate))
	assert.Equal(t, "food", record.Category)
	assert.Nil(t, record.DiscountPercentage)
	assert.Equal(t, "Dine-in only.", coupon.Value(record.TermsConditions))
	assert.Equal(t, fixed, record.ScrapedAt())
}

func TestExtractExplicitCategory(t *testing.T) {
	q := fragment(t, `<div class="card">
		<h3>Pizza for the road</h3>
		<span class="category"> Travel  Deals </span>
	</div>`)

	record, err := NewExtractor(testFields).Extract(q, "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, "travel", record.Category)
}

func TestExtractCategoryOutsideSet(t *testing.T) {
	tests := []struct {
		name   string
		html   string
		expect string
	}{
		{
			name: "unknown label falls back to record text",
			html: `<div class="card">
				<h3>Weekend pizza special</h3>
				<span class="category">Seasonal Clearance!!</span>
			</div>`,
			expect: "food",
		},
		{
			name: "unknown label without keywords",
			html: `<div class="card">
				<h3>Members save more</h3>
				<span class="category">Seasonal Clearance!!</span>
			</div>`,
			expect: "general",
		},
		{
			name: "exact category name kept",
			html: `<div class="card">
				<h3>Weekend pizza special</h3>
				<span class="category"> HEALTH </span>
			</div>`,
			expect: "health",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			record, err := NewExtractor(testFields).Extract(fragment(t, tc.html), "https://example.com")
			require.NoError(t, err)
			assert.Equal(t, tc.expect, record.Category)
			assert.True(t, IsCategory(record.Category), "category %q outside the set", record.Category)
		})
	}
}

func TestExtractShortCodeDropped(t *testing.T) {
	q := fragment(t, `<div class="card">
		<h3>Free shipping weekend</h3>
		<span class="coupon-code">ab</span>
	</div>`)

	record, err := NewExtractor(testFields).Extract(q, "https://example.com")
	require.NoError(t, err)
	assert.Nil(t, record.Code)
}

func TestExtractWithoutTitle(t *testing.T) {
	q := fragment(t, `<div class="card"><p>Just a paragraph</p></div>`)

	record, err := NewExtractor(testFields).Extract(q, "https://example.com")
	assert.Nil(t, record)
	assert.True(t, errors.Is(err, ErrNoTitle))

	// "Deal" cleans down to an empty title
	q = fragment(t, `<div class="card"><h3>Deal</h3></div>`)
	_, err = NewExtractor(testFields).Extract(q, "https://example.com")
	assert.ErrorIs(t, err, ErrNoTitle)

	q = fragment(t, `<div class="card"><h3>Go</h3></div>`)
	_, err = NewExtractor(testFields).Extract(q, "https://example.com")
	assert.ErrorIs(t, err, ErrNoTitle)
}

func TestValidate(t *testing.T) {
	assert.ErrorIs(t, Validate(coupon.NewRecord("Menu", "https://example.com")), ErrRejected)
	assert.ErrorIs(t, Validate(coupon.NewRecord("Main Navigation Links", "https://example.com")), ErrRejected)
	assert.ErrorIs(t, Validate(coupon.NewRecord("Advertisement: shoes", "https://example.com")), ErrRejected)
	assert.ErrorIs(t, Validate(nil), ErrRejected)
	assert.NoError(t, Validate(coupon.NewRecord("20% Off Everything", "https://example.com")))
}

func TestExtractValid(t *testing.T) {
	q := fragment(t, `<div class="card"><strong>Footer links and more</strong></div>`)

	_, err := NewExtractor(testFields).ExtractValid(q, "https://example.com")
	assert.ErrorIs(t, err, ErrRejected)

	q = fragment(t, `<div class="card"><strong>20% Off Everything</strong></div>`)
	record, err := NewExtractor(testFields).ExtractValid(q, "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, 20, *record.DiscountPercentage)
}
