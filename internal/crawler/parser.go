package crawler

import (
	"errors"
	"fmt"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"sjsage522/couponworker/internal/coupon"
	"sjsage522/couponworker/internal/extract"
	"sjsage522/couponworker/logger"
	pkgerrors "sjsage522/couponworker/pkg/errors"
)

// PageParser turns one listing page into candidate records using a Profile
type PageParser struct {
	profile      Profile
	extractor    *extract.Extractor
	maxFragments int
	log          *logger.Logger
}

// NewPageParser creates a parser; maxFragments applies when the profile sets none
func NewPageParser(profile Profile, maxFragments int) *PageParser {
	if profile.MaxFragments > 0 {
		maxFragments = profile.MaxFragments
	}
	return &PageParser{
		profile:      profile,
		extractor:    extract.NewExtractor(profile.Fields),
		maxFragments: maxFragments,
		log:          logger.ForSpider(profile.Name),
	}
}

// Fragments selects the coupon containers of a page.
// The first container selector with any match wins, then the fallback
// selector is tried, and the result is capped at the fragment limit.
func (p *PageParser) Fragments(page *goquery.Selection) *goquery.Selection {
	var found *goquery.Selection
	for _, selector := range p.profile.Containers {
		sel := find(page, selector)
		if sel.Length() > 0 {
			p.log.Debug().Str("selector", selector).Int("count", sel.Length()).Msg("Found containers")
			found = sel
			break
		}
	}

	if found == nil && p.profile.FallbackContainers != "" {
		found = find(page, p.profile.FallbackContainers)
		p.log.Debug().Int("count", found.Length()).Msg("Using fallback containers")
	}

	if found == nil || found.Length() == 0 {
		return page.Slice(0, 0)
	}
	if p.maxFragments > 0 && found.Length() > p.maxFragments {
		found = found.Slice(0, p.maxFragments)
	}
	return found
}

// Parse extracts every valid record from the page in document order.
// A fragment that fails or panics is logged and skipped.
func (p *PageParser) Parse(page *goquery.Selection, sourceURL string) []*coupon.Record {
	fragments := p.Fragments(page)
	if fragments.Length() == 0 {
		p.log.Warn().Str("url", sourceURL).Msg("No coupon containers found")
		return nil
	}

	records := p.processFragments(fragments, sourceURL)
	p.log.Info().
		Str("url", sourceURL).
		Int("fragments", fragments.Length()).
		Int("records", len(records)).
		Msg("Parsed page")
	return records
}

// ParseDocument is Parse over a standalone document
func (p *PageParser) ParseDocument(doc *extract.Selection, sourceURL string) []*coupon.Record {
	return p.Parse(doc.Goquery(), sourceURL)
}

// processFragments extracts fragments in parallel using goroutines
func (p *PageParser) processFragments(fragments *goquery.Selection, sourceURL string) []*coupon.Record {
	results := make([]*coupon.Record, fragments.Length())
	var wg sync.WaitGroup

	fragments.Each(func(i int, s *goquery.Selection) {
		wg.Add(1)
		go func(i int, s *goquery.Selection) {
			defer wg.Done()
			results[i] = p.processFragment(i, s, sourceURL)
		}(i, s)
	})

	wg.Wait()

	records := make([]*coupon.Record, 0, len(results))
	for _, r := range results {
		if r != nil {
			records = append(records, r)
		}
	}
	return records
}

func (p *PageParser) processFragment(i int, s *goquery.Selection, sourceURL string) (record *coupon.Record) {
	defer func() {
		if r := recover(); r != nil {
			err := pkgerrors.NewExtraction(p.profile.Name, fmt.Sprintf("fragment %d panicked", i), fmt.Errorf("%v", r))
			logger.LogError("crawler", err, "Error extracting coupon %d", i)
			record = nil
		}
	}()

	record, err := p.extractor.ExtractValid(extract.NewSelection(s), sourceURL)
	if err != nil {
		p.log.Warn().
			Str("url", sourceURL).
			Int("index", i).
			Str("reason", skipReason(err)).
			Err(err).
			Msg("Skipped fragment")
		return nil
	}
	return record
}

// skipReason names why a fragment produced no record
func skipReason(err error) string {
	switch {
	case errors.Is(err, extract.ErrNoTitle):
		return "no_title"
	case errors.Is(err, extract.ErrRejected):
		return "invalid"
	default:
		return "extraction_failed"
	}
}

// find matches selector against sel, treating an invalid selector as no match
func find(sel *goquery.Selection, selector string) (found *goquery.Selection) {
	defer func() {
		if r := recover(); r != nil {
			logger.Debug("invalid container selector %q: %v", selector, r)
			found = sel.Slice(0, 0)
		}
	}()
	return sel.Find(selector)
}

// NextPage resolves the first pagination link on the page, if any
func (p *PageParser) NextPage(page *goquery.Selection) (string, bool) {
	if len(p.profile.NextPage) == 0 {
		return "", false
	}
	return extract.Cascade(extract.NewSelection(page), p.profile.NextPage)
}
