package pipeline

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sjsage522/couponworker/internal/coupon"
	pkgerrors "sjsage522/couponworker/pkg/errors"
)

func newRecord(title, code, store string) *coupon.Record {
	r := coupon.NewRecord(title, "https://www.coupons.com/")
	r.Code = coupon.StringPtr(code)
	r.Store = store
	return r
}

func TestDedupWithinRun(t *testing.T) {
	p := Default()
	session := NewSession("run-1")

	first := p.Process(session, newRecord("20% Off Sitewide", "SAVE20", "Demo Store"))
	second := p.Process(session, newRecord("  20% off sitewide ", "save20", "DEMO STORE"))

	assert.Equal(t, Accepted, first.Kind)
	assert.Equal(t, Duplicate, second.Kind)
	assert.Equal(t, "20% off sitewide:save20:demo store", second.Key)

	stats := session.Stats()
	assert.Equal(t, 1, stats.Accepted)
	assert.Equal(t, 1, stats.Duplicates)
	assert.Equal(t, 1, stats.UniqueKeys)

	// A fresh session accepts the same record again
	next := NewSession("run-2")
	again := p.Process(next, newRecord("20% Off Sitewide", "SAVE20", "Demo Store"))
	assert.Equal(t, Accepted, again.Kind)
}

func TestMarkUnpublished(t *testing.T) {
	p := Default()
	session := NewSession("run")
	require.True(t, p.Process(session, newRecord("Delivered coupon", "OK", "Store")).IsAccepted())
	require.True(t, p.Process(session, newRecord("Lost coupon", "LOST", "Store")).IsAccepted())

	session.MarkUnpublished()

	stats := session.Stats()
	assert.Equal(t, 1, stats.Accepted)
	assert.Equal(t, 1, stats.Unpublished)
	assert.Equal(t, 2, stats.UniqueKeys)
}

func TestDedupKeyWithoutCode(t *testing.T) {
	r := newRecord("Free Shipping", "", "Coupons.com")
	assert.Equal(t, "free shipping::coupons.com", DedupKey(r))
}

func TestValidateStage(t *testing.T) {
	p := Default()
	session := NewSession("run")

	out := p.Process(session, coupon.NewRecord("   ", "https://example.com"))
	assert.Equal(t, Rejected, out.Kind)
	assert.Equal(t, "missing title", out.Reason)
	assert.Nil(t, out.Record)
	var scrapeErr *pkgerrors.ScrapeError
	require.True(t, errors.As(out.Err, &scrapeErr))
	assert.Equal(t, pkgerrors.ErrorTypeValidation, scrapeErr.Type)
	assert.Equal(t, "validate", scrapeErr.Source)

	r := newRecord("Spring sale", " sp ring 10 ", "Store")
	expiry := "  2025-12-31 "
	r.ExpiryDate = &expiry
	out = p.Process(session, r)
	require.True(t, out.IsAccepted())
	assert.Equal(t, "SPRING10", coupon.Value(out.Record.Code))
	assert.Equal(t, "2025-12-31", coupon.Value(out.Record.ExpiryDate))

	assert.Equal(t, 1, session.Stats().Rejected)
}

func TestCleanStageDerivesPercentage(t *testing.T) {
	r := newRecord("Big   \n sale", "", "Store")
	r.Description = coupon.StringPtr("Take   an extra 15% off   clearance")

	out := Default().Process(NewSession("run"), r)
	require.True(t, out.IsAccepted())
	assert.Equal(t, "Big sale", out.Record.Title)
	assert.Equal(t, "Take an extra 15% off clearance", coupon.Value(out.Record.Description))
	require.NotNil(t, out.Record.DiscountPercentage)
	assert.Equal(t, 15, *out.Record.DiscountPercentage)
}

func TestCleanStageKeepsExistingPercentage(t *testing.T) {
	r := newRecord("Save 30% today", "", "Store")
	r.DiscountPercentage = coupon.IntPtr(5)

	out := Default().Process(NewSession("run"), r)
	require.True(t, out.IsAccepted())
	assert.Equal(t, 5, *out.Record.DiscountPercentage)
}

func TestStagesOrder(t *testing.T) {
	assert.Equal(t, []string{"validate", "deduplicate", "clean"}, Default().Stages())
}

func TestConcurrentDedup(t *testing.T) {
	p := Default()
	session := NewSession("run")

	const workers = 32
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Every goroutine submits the same key plus one unique key
			shared := p.Process(session, newRecord("Shared Coupon", "SHARED", "Store"))
			unique := p.Process(session, newRecord(fmt.Sprintf("Unique Coupon %d", i), "", "Store"))

			mu.Lock()
			defer mu.Unlock()
			if shared.Kind == Accepted {
				accepted++
			}
			if unique.Kind == Accepted {
				accepted++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, workers+1, accepted)
	stats := session.Stats()
	assert.Equal(t, workers+1, stats.Accepted)
	assert.Equal(t, workers-1, stats.Duplicates)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "accepted", Accepted.String())
	assert.Equal(t, "rejected", Rejected.String())
	assert.Equal(t, "duplicate", Duplicate.String())
	assert.Equal(t, "kind(9)", Kind(9).String())
}
