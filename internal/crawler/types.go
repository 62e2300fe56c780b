package crawler

import (
	"context"
	"time"

	"sjsage522/couponworker/internal/coupon"
	"sjsage522/couponworker/internal/extract"
)

// EmitFunc receives candidate records as they are extracted.
// It may be called from several goroutines at once.
type EmitFunc func(record *coupon.Record)

// Spider interface defines the contract for all spider implementations
type Spider interface {
	// Crawl runs the spider until its pages are exhausted or ctx is done
	Crawl(ctx context.Context, emit EmitFunc) error

	// GetName returns the spider's name for logging and identification
	GetName() string
}

// Profile describes how to find coupons on one target site
type Profile struct {
	Name           string   `yaml:"name"`
	StartURLs      []string `yaml:"start_urls"`
	AllowedDomains []string `yaml:"allowed_domains"`

	// Containers are tried in order; the first selector matching anything wins
	Containers []string `yaml:"containers"`
	// FallbackContainers is used when no container selector matches
	FallbackContainers string `yaml:"fallback_containers"`
	// MaxFragments caps the fragments extracted per page; zero uses the crawl default
	MaxFragments int `yaml:"max_fragments"`

	NextPage      []extract.Locator `yaml:"next_page"`
	DownloadDelay time.Duration     `yaml:"download_delay"`

	Fields extract.Fields `yaml:"fields"`
}

// Options carries crawl settings shared by all spiders of a run
type Options struct {
	MaxPages       int
	MaxFragments   int
	DownloadDelay  time.Duration
	Parallelism    int
	RequestTimeout time.Duration
	BlockTime      time.Duration
	ObeyRobots     bool
	ProxyURLs      []string
}

// DefaultOptions returns the crawl settings used when none are configured
func DefaultOptions() Options {
	return Options{
		MaxFragments:   30,
		DownloadDelay:  3 * time.Second,
		Parallelism:    1,
		RequestTimeout: 30 * time.Second,
		BlockTime:      5 * time.Minute,
		ObeyRobots:     true,
	}
}
