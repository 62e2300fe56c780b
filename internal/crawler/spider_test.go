package crawler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "sjsage522/couponworker/pkg/errors"
	"sjsage522/couponworker/services/cache"
)

const pageOne = `<html><body>
	<div class="coupon-card"><h3>20% Off Sitewide</h3><span class="coupon-code">save20</span></div>
	<div class="coupon-card"><h3>Free Shipping Today</h3></div>
	<a class="next-page" href="/page2">Next</a>
</body></html>`

const pageTwo = `<html><body>
	<div class="coupon-card"><h3>Buy One Get One</h3></div>
</body></html>`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(pageOne))
	})
	mux.HandleFunc("/page2", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(pageTwo))
	})
	mux.HandleFunc("/limited", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func testOptions() Options {
	return Options{
		Parallelism:    2,
		RequestTimeout: 5 * time.Second,
		BlockTime:      time.Minute,
	}
}

func TestSiteSpiderFollowsPagination(t *testing.T) {
	server := newTestServer(t)
	profile := testProfile()
	profile.StartURLs = []string{server.URL + "/"}

	sink := &recordSink{}
	err := NewSiteSpider(profile, testOptions(), NewMockCacheService()).Crawl(context.Background(), sink.emit)
	require.NoError(t, err)

	titles := sink.Titles()
	sort.Strings(titles)
	assert.Equal(t, []string{"20% Off Sitewide", "Buy One Get One", "Free Shipping Today"}, titles)
}

func TestSiteSpiderMaxPages(t *testing.T) {
	server := newTestServer(t)
	profile := testProfile()
	profile.StartURLs = []string{server.URL + "/"}
	opts := testOptions()
	opts.MaxPages = 1

	sink := &recordSink{}
	err := NewSiteSpider(profile, opts, nil).Crawl(context.Background(), sink.emit)
	require.NoError(t, err)
	assert.Len(t, sink.Titles(), 2)
}

func TestSiteSpiderRateLimited(t *testing.T) {
	server := newTestServer(t)
	profile := testProfile()
	profile.StartURLs = []string{server.URL + "/limited"}
	mockCache := NewMockCacheService()
	spider := NewSiteSpider(profile, testOptions(), mockCache)

	sink := &recordSink{}
	err := spider.Crawl(context.Background(), sink.emit)
	require.Error(t, err)
	assert.Empty(t, sink.Titles())

	value, getErr := mockCache.Get(cache.BlockKey("test_site"))
	require.NoError(t, getErr)
	assert.Equal(t, "60", string(value))
	assert.Equal(t, time.Minute, mockCache.ttl[cache.BlockKey("test_site")])

	// While blocked the spider does not fetch at all
	err = spider.Crawl(context.Background(), sink.emit)
	var scrapeErr *pkgerrors.ScrapeError
	require.True(t, errors.As(err, &scrapeErr))
	assert.Equal(t, pkgerrors.ErrorTypeRateLimit, scrapeErr.Type)
}

func TestSiteSpiderNoStartURLs(t *testing.T) {
	err := NewSiteSpider(testProfile(), testOptions(), nil).Crawl(context.Background(), (&recordSink{}).emit)
	var scrapeErr *pkgerrors.ScrapeError
	require.True(t, errors.As(err, &scrapeErr))
	assert.Equal(t, pkgerrors.ErrorTypeConfiguration, scrapeErr.Type)
}

func TestSiteSpiderCancelled(t *testing.T) {
	server := newTestServer(t)
	profile := testProfile()
	profile.StartURLs = []string{server.URL + "/"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewSiteSpider(profile, testOptions(), nil).Crawl(ctx, (&recordSink{}).emit)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSiteSpiderInvalidProxy(t *testing.T) {
	profile := testProfile()
	profile.StartURLs = []string{"https://www.coupons.com/"}
	opts := testOptions()
	opts.ProxyURLs = []string{"://not-a-proxy"}

	err := NewSiteSpider(profile, opts, nil).Crawl(context.Background(), (&recordSink{}).emit)
	var scrapeErr *pkgerrors.ScrapeError
	require.True(t, errors.As(err, &scrapeErr))
	assert.Equal(t, pkgerrors.ErrorTypeConfiguration, scrapeErr.Type)
}
