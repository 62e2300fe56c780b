package crawler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/gocolly/colly/v2"
	"github.com/gocolly/colly/v2/proxy"

	"sjsage522/couponworker/helpers"
	"sjsage522/couponworker/logger"
	pkgerrors "sjsage522/couponworker/pkg/errors"
	"sjsage522/couponworker/services/cache"
)

// statusBlocked is returned by some CDNs instead of 429
const statusBlocked = 430

// SiteSpider crawls a site described by a Profile with a colly collector
type SiteSpider struct {
	profile  Profile
	opts     Options
	parser   *PageParser
	cacheSvc cache.CacheService
	log      *logger.Logger
}

// NewSiteSpider creates a spider for profile. cacheSvc may be nil.
func NewSiteSpider(profile Profile, opts Options, cacheSvc cache.CacheService) *SiteSpider {
	return &SiteSpider{
		profile:  profile,
		opts:     opts,
		parser:   NewPageParser(profile, opts.MaxFragments),
		cacheSvc: cacheSvc,
		log:      logger.ForSpider(profile.Name),
	}
}

// GetName returns the profile name
func (s *SiteSpider) GetName() string {
	return s.profile.Name
}

// Profile returns the spider's site profile
func (s *SiteSpider) Profile() Profile {
	return s.profile
}

// Crawl visits the start URLs and follows pagination until the page
// budget is spent, emitting every valid record it extracts.
func (s *SiteSpider) Crawl(ctx context.Context, emit EmitFunc) error {
	if cache.IsBlocked(s.cacheSvc, s.profile.Name) {
		return pkgerrors.NewRateLimit(s.profile.Name, s.opts.BlockTime)
	}
	if len(s.profile.StartURLs) == 0 {
		return pkgerrors.NewConfiguration(s.profile.Name+": no start URLs", nil)
	}

	c, err := s.newCollector(ctx)
	if err != nil {
		return err
	}

	var (
		mu        sync.Mutex
		fetchErrs []error
	)

	c.OnRequest(func(r *colly.Request) {
		if cache.IsBlocked(s.cacheSvc, s.profile.Name) {
			s.log.Warn().Str("url", r.URL.String()).Msg("Rate limited, skipping request")
			r.Abort()
			return
		}
		header := http.Header{}
		helpers.SetBrowserHeaders(header)
		for k := range header {
			r.Headers.Set(k, header.Get(k))
		}
		s.log.Debug().Str("url", r.URL.String()).Msg("Visiting")
	})

	c.OnHTML("html", func(e *colly.HTMLElement) {
		pageURL := e.Request.URL.String()
		for _, record := range s.parser.Parse(e.DOM, pageURL) {
			emit(record)
		}

		next, ok := s.parser.NextPage(e.DOM)
		if !ok {
			return
		}
		s.log.Info().Str("next", next).Msg("Following pagination")
		if err := e.Request.Visit(next); err != nil {
			s.log.Debug().Err(err).Str("next", next).Msg("Pagination not followed")
		}
	})

	c.OnError(func(r *colly.Response, err error) {
		pageURL := r.Request.URL.String()
		if r.StatusCode == http.StatusTooManyRequests || r.StatusCode == statusBlocked {
			s.block()
			err = pkgerrors.NewRateLimit(s.profile.Name, s.opts.BlockTime)
		} else {
			err = pkgerrors.NewFetch(s.profile.Name, fmt.Sprintf("fetch %s (status %d)", pageURL, r.StatusCode), err)
		}
		logger.LogError("crawler", err, "Error fetching %s", pageURL)

		mu.Lock()
		fetchErrs = append(fetchErrs, err)
		mu.Unlock()
	})

	for _, u := range s.profile.StartURLs {
		if err := c.Visit(u); err != nil {
			s.log.Warn().Err(err).Str("url", u).Msg("Start URL not visited")
		}
	}
	c.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}
	return errors.Join(fetchErrs...)
}

// block sets the spider's rate-limit key for the configured block time
func (s *SiteSpider) block() {
	if s.cacheSvc == nil || s.opts.BlockTime <= 0 {
		return
	}
	seconds := strconv.Itoa(int(s.opts.BlockTime.Seconds()))
	if err := s.cacheSvc.Set(cache.BlockKey(s.profile.Name), []byte(seconds), s.opts.BlockTime); err != nil {
		logger.LogError("cache", err, "Failed to set rate limit for %s", s.profile.Name)
		return
	}
	s.log.Warn().Dur("block_time", s.opts.BlockTime).Msg("Rate limited, blocking spider")
}

// newCollector configures a colly collector from the profile and crawl options
func (s *SiteSpider) newCollector(ctx context.Context) (*colly.Collector, error) {
	opts := []colly.CollectorOption{
		colly.StdlibContext(ctx),
		colly.Async(true),
		colly.DetectCharset(),
		colly.UserAgent(helpers.RandomUserAgent()),
	}
	if len(s.profile.AllowedDomains) > 0 {
		opts = append(opts, colly.AllowedDomains(s.profile.AllowedDomains...))
	}
	if s.opts.MaxPages > 0 {
		opts = append(opts, colly.MaxRequests(uint32(s.opts.MaxPages)))
	}

	c := colly.NewCollector(opts...)
	c.IgnoreRobotsTxt = !s.opts.ObeyRobots
	if s.opts.RequestTimeout > 0 {
		c.SetRequestTimeout(s.opts.RequestTimeout)
	}

	if len(s.opts.ProxyURLs) > 0 {
		switcher, err := proxy.RoundRobinProxySwitcher(s.opts.ProxyURLs...)
		if err != nil {
			return nil, pkgerrors.NewConfiguration("invalid proxy URLs", err)
		}
		c.SetProxyFunc(switcher)
		s.log.Info().Int("proxy_count", len(s.opts.ProxyURLs)).Msg("Proxy rotation enabled")
	}

	delay := s.opts.DownloadDelay
	if s.profile.DownloadDelay > 0 {
		delay = s.profile.DownloadDelay
	}
	parallelism := s.opts.Parallelism
	if parallelism < 1 {
		parallelism = 1
	}
	if err := c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: parallelism,
		Delay:       delay,
		RandomDelay: delay / 2,
	}); err != nil {
		return nil, pkgerrors.NewConfiguration("invalid rate limit rule", err)
	}

	s.log.Debug().
		Dur("delay", delay).
		Int("parallelism", parallelism).
		Int("max_pages", s.opts.MaxPages).
		Bool("obey_robots", s.opts.ObeyRobots).
		Msg("Collector configured")
	return c, nil
}
