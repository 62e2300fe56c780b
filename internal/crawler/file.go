package crawler

import (
	"context"
	"errors"
	"net/url"
	"os"
	"path/filepath"

	"sjsage522/couponworker/helpers"
	"sjsage522/couponworker/internal/extract"
	"sjsage522/couponworker/logger"
	pkgerrors "sjsage522/couponworker/pkg/errors"
)

// FileSpider extracts coupons from saved HTML pages with a site profile
type FileSpider struct {
	parser    *PageParser
	name      string
	paths     []string
	sourceURL string
}

// NewFileSpider creates a spider over local files.
// sourceURL is stamped on records; when empty each file's file:// URL is used.
func NewFileSpider(profile Profile, maxFragments int, sourceURL string, paths ...string) *FileSpider {
	return &FileSpider{
		parser:    NewPageParser(profile, maxFragments),
		name:      profile.Name,
		paths:     paths,
		sourceURL: sourceURL,
	}
}

// GetName returns the profile name
func (f *FileSpider) GetName() string {
	return f.name
}

// Crawl parses each file in order. Unreadable files are reported and skipped.
func (f *FileSpider) Crawl(ctx context.Context, emit EmitFunc) error {
	var errs []error
	for _, path := range f.paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := f.parseFile(path, emit); err != nil {
			logger.LogError("crawler", err, "Error parsing %s", path)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f *FileSpider) parseFile(path string, emit EmitFunc) error {
	body, err := os.ReadFile(path)
	if err != nil {
		return pkgerrors.NewFetch(f.name, "read "+path, err)
	}

	reader, err := helpers.DecodeToUTF8(body, "")
	if err != nil {
		return pkgerrors.NewParsing(f.name, "decode "+path, err)
	}
	doc, err := extract.NewDocument(reader)
	if err != nil {
		return pkgerrors.NewParsing(f.name, "parse "+path, err)
	}

	for _, record := range f.parser.ParseDocument(doc, f.urlFor(path)) {
		emit(record)
	}
	return nil
}

func (f *FileSpider) urlFor(path string) string {
	if f.sourceURL != "" {
		return f.sourceURL
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
}
