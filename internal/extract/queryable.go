package extract

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// Queryable is a read-only view over a parsed document fragment.
// An empty result with a nil error means the selector matched nothing.
type Queryable interface {
	// TextAt returns the text content of the first element matching selector
	TextAt(selector string) (string, error)

	// AttrAt returns the named attribute of the first matching element that carries it
	AttrAt(selector, name string) (string, error)
}

// Selection adapts a goquery selection to Queryable
type Selection struct {
	sel *goquery.Selection
}

// NewSelection wraps a goquery selection
func NewSelection(sel *goquery.Selection) *Selection {
	return &Selection{sel: sel}
}

// NewDocument parses HTML from r and returns the whole document as a Queryable
func NewDocument(r io.Reader) (*Selection, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return NewSelection(doc.Selection), nil
}

// Goquery returns the underlying selection
func (s *Selection) Goquery() *goquery.Selection {
	return s.sel
}

// TextAt implements Queryable
func (s *Selection) TextAt(selector string) (string, error) {
	m, err := compile(selector)
	if err != nil {
		return "", err
	}

	found := s.sel.FindMatcher(m)
	if found.Length() == 0 {
		return "", nil
	}
	return found.First().Text(), nil
}

// AttrAt implements Queryable
func (s *Selection) AttrAt(selector, name string) (string, error) {
	m, err := compile(selector)
	if err != nil {
		return "", err
	}

	var value string
	s.sel.FindMatcher(m).EachWithBreak(func(_ int, el *goquery.Selection) bool {
		if v, ok := el.Attr(name); ok && strings.TrimSpace(v) != "" {
			value = v
			return false
		}
		return true
	})
	return value, nil
}

// compiled selectors are shared by every fragment of every page
var (
	matcherMu sync.RWMutex
	matchers  = map[string]cascadia.Selector{}
)

func compile(selector string) (goquery.Matcher, error) {
	matcherMu.RLock()
	m, ok := matchers[selector]
	matcherMu.RUnlock()
	if ok {
		return m, nil
	}

	m, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", selector, err)
	}

	matcherMu.Lock()
	matchers[selector] = m
	matcherMu.Unlock()
	return m, nil
}
