package crawler

import (
	"context"
	"time"

	"sjsage522/couponworker/internal/coupon"
	"sjsage522/couponworker/logger"
)

// DemoURL is the source URL stamped on demo records
const DemoURL = "https://demo.example.com"

type demoCoupon struct {
	title, code, description, store, expiry, category string
	percentage                                         int
}

var demoCoupons = []demoCoupon{
	{
		title:       "20% Off Sitewide",
		code:        "SAVE20",
		description: "Get 20% off your entire order",
		store:       "Demo Store",
		expiry:      "2025-12-31",
		percentage:  20,
		category:    "clothing",
	},
	{
		title:       "Free Shipping on Orders Over $50",
		code:        "FREESHIP50",
		description: "Free shipping when you spend $50 or more",
		store:       "Demo Store",
		expiry:      "2025-11-30",
		category:    "general",
	},
	{
		title:       "Buy 2 Get 1 Free",
		code:        "BUY2GET1",
		description: "Buy any 2 items and get the 3rd free",
		store:       "Demo Electronics",
		expiry:      "2025-10-15",
		category:    "electronics",
	},
}

// DemoSpider emits fixed records without touching the network
type DemoSpider struct {
	now func() time.Time
}

// NewDemoSpider creates the demo spider
func NewDemoSpider() *DemoSpider {
	return &DemoSpider{now: time.Now}
}

// GetName returns the spider's name
func (d *DemoSpider) GetName() string {
	return "demo_coupons"
}

// Crawl emits the demo records in order
func (d *DemoSpider) Crawl(ctx context.Context, emit EmitFunc) error {
	log := logger.ForSpider(d.GetName())
	for _, c := range demoCoupons {
		if err := ctx.Err(); err != nil {
			return err
		}

		r := coupon.NewRecordAt(c.title, DemoURL, d.now())
		r.Code = coupon.StringPtr(c.code)
		r.Description = coupon.StringPtr(c.description)
		r.Store = c.store
		r.ExpiryDate = coupon.StringPtr(c.expiry)
		r.Category = c.category
		if c.percentage > 0 {
			r.DiscountPercentage = coupon.IntPtr(c.percentage)
		}
		emit(r)
	}
	log.Info().Int("records", len(demoCoupons)).Msg("Emitted demo coupons")
	return nil
}
