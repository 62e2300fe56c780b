package crawler

import (
	"fmt"
	"sort"
	"strings"

	"sjsage522/couponworker/config"
	"sjsage522/couponworker/logger"
	"sjsage522/couponworker/services/cache"
)

// DemoSpiderName selects the offline demo spider
const DemoSpiderName = "demo_coupons"

// OptionsFromConfig builds crawl options from the loaded configuration
func OptionsFromConfig(cfg *config.Config, maxPages int) Options {
	return Options{
		MaxPages:       maxPages,
		MaxFragments:   cfg.MaxFragmentsPerPage,
		DownloadDelay:  cfg.DownloadDelay,
		Parallelism:    cfg.ParallelismPerHost,
		RequestTimeout: cfg.RequestTimeout,
		BlockTime:      cfg.RateLimitBlockTime,
		ObeyRobots:     cfg.ObeyRobots,
		ProxyURLs:      cfg.ProxyURLs,
	}
}

// SpiderNames lists every selectable spider, sorted
func SpiderNames(profiles map[string]Profile) []string {
	names := make([]string, 0, len(profiles)+1)
	for name := range profiles {
		names = append(names, name)
	}
	names = append(names, DemoSpiderName)
	sort.Strings(names)
	return names
}

// CreateSpiders creates the spiders named in a comma-separated list
func CreateSpiders(names string, profiles map[string]Profile, opts Options, cacheSvc cache.CacheService) ([]Spider, error) {
	var spiders []Spider
	for _, name := range strings.Split(names, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		if name == DemoSpiderName {
			spiders = append(spiders, NewDemoSpider())
			continue
		}
		profile, ok := profiles[name]
		if !ok {
			return nil, fmt.Errorf("unknown spider %q (available: %s)", name, strings.Join(SpiderNames(profiles), ", "))
		}
		spiders = append(spiders, NewSiteSpider(profile, opts, cacheSvc))
	}

	if len(spiders) == 0 {
		return nil, fmt.Errorf("no spider selected")
	}

	for i, s := range spiders {
		logger.Debug("Spider %d: %s", i, s.GetName())
	}
	return spiders, nil
}
