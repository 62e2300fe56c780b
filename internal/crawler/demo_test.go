package crawler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sjsage522/couponworker/internal/coupon"
)

func TestDemoSpider(t *testing.T) {
	spider := NewDemoSpider()
	fixed := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	spider.now = func() time.Time { return fixed }

	var records []*coupon.Record
	err := spider.Crawl(context.Background(), func(r *coupon.Record) { records = append(records, r) })
	require.NoError(t, err)
	require.Len(t, records, 3)

	first := records[0]
	assert.Equal(t, "20% Off Sitewide", first.Title)
	assert.Equal(t, "SAVE20", coupon.Value(first.Code))
	assert.Equal(t, 20, *first.DiscountPercentage)
	assert.Equal(t, "clothing", first.Category)
	assert.Equal(t, DemoURL, first.URL)
	assert.Equal(t, fixed, first.ScrapedAt())

	assert.Nil(t, records[1].DiscountPercentage)
	assert.Equal(t, "general", records[1].Category)
	assert.Equal(t, "Demo Electronics", records[2].Store)
	assert.Equal(t, "demo_coupons", spider.GetName())
}

func TestDemoSpiderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewDemoSpider().Crawl(ctx, func(*coupon.Record) { t.Fatal("unexpected record") })
	assert.ErrorIs(t, err, context.Canceled)
}
