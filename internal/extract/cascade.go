package extract

import (
	"fmt"
	"strings"

	"sjsage522/couponworker/logger"
)

// Locator describes where to look for a value in a fragment.
// An empty Attr means the element's text content is used.
type Locator struct {
	Selector string `yaml:"selector"`
	Attr     string `yaml:"attr,omitempty"`
}

// Text returns a locator reading the text content at selector
func Text(selector string) Locator {
	return Locator{Selector: selector}
}

// Attr returns a locator reading the named attribute at selector
func Attr(selector, name string) Locator {
	return Locator{Selector: selector, Attr: name}
}

// Texts builds text locators for each selector, keeping their order
func Texts(selectors ...string) []Locator {
	locators := make([]Locator, 0, len(selectors))
	for _, s := range selectors {
		locators = append(locators, Text(s))
	}
	return locators
}

// String implements fmt.Stringer
func (l Locator) String() string {
	if l.Attr != "" {
		return fmt.Sprintf("%s::attr(%s)", l.Selector, l.Attr)
	}
	return l.Selector + "::text"
}

// Cascade evaluates locators in order and returns the first non-empty trimmed value.
// Misses, selector errors and adapter panics all fall through to the next locator.
func Cascade(q Queryable, locators []Locator) (string, bool) {
	for _, l := range locators {
		if v := lookup(q, l); v != "" {
			return v, true
		}
	}
	return "", false
}

// lookup evaluates a single locator, returning "" on any kind of miss
func lookup(q Queryable, l Locator) (value string) {
	defer func() {
		if r := recover(); r != nil {
			logger.Debug("Locator %s panicked: %v", l, r)
			value = ""
		}
	}()

	var (
		raw string
		err error
	)
	if l.Attr != "" {
		raw, err = q.AttrAt(l.Selector, l.Attr)
	} else {
		raw, err = q.TextAt(l.Selector)
	}
	if err != nil {
		logger.Debug("Locator %s failed: %v", l, err)
		return ""
	}
	return strings.TrimSpace(raw)
}
