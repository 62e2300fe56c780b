package cmd

import (
	"fmt"
	"strings"

	"sjsage522/couponworker/internal/crawler"
)

func errUnknownSite(site string, profiles map[string]crawler.Profile) error {
	names := make([]string, 0, len(profiles))
	for _, name := range crawler.SpiderNames(profiles) {
		if name != crawler.DemoSpiderName {
			names = append(names, name)
		}
	}
	return fmt.Errorf("unknown site profile %q (available: %s)", site, strings.Join(names, ", "))
}
