package extract

import (
	"strings"

	"sjsage522/couponworker/internal/coupon"
)

type categoryKeywords struct {
	name     string
	keywords []string
}

// categoryTable is ordered; earlier categories win when keywords overlap
var categoryTable = []categoryKeywords{
	{"food", []string{"food", "restaurant", "dining", "pizza", "burger", "meal", "grocery"}},
	{"clothing", []string{"clothing", "fashion", "apparel", "dress", "shirt", "shoes", "style"}},
	{"electronics", []string{"electronics", "tech", "computer", "phone", "gadget", "software"}},
	{"travel", []string{"travel", "hotel", "flight", "vacation", "trip", "airline"}},
	{"beauty", []string{"beauty", "cosmetics", "makeup", "skincare", "hair"}},
	{"home", []string{"home", "furniture", "decor", "garden", "kitchen"}},
	{"automotive", []string{"auto", "car", "vehicle", "automotive", "tire"}},
	{"health", []string{"health", "medical", "pharmacy", "vitamin", "fitness"}},
}

// Classify returns the first category whose keyword appears in text, or "general"
func Classify(text string) string {
	lower := strings.ToLower(text)
	for _, category := range categoryTable {
		for _, keyword := range category.keywords {
			if strings.Contains(lower, keyword) {
				return category.name
			}
		}
	}
	return coupon.DefaultCategory
}

// Categories lists every category Classify can return, in table order
func Categories() []string {
	names := make([]string, 0, len(categoryTable)+1)
	for _, category := range categoryTable {
		names = append(names, category.name)
	}
	return append(names, coupon.DefaultCategory)
}

// IsCategory reports whether name is one of Categories
func IsCategory(name string) bool {
	for _, category := range Categories() {
		if name == category {
			return true
		}
	}
	return false
}

// ResolveCategory maps a label read from the page onto the category set.
// A label that names a category is kept; otherwise the label's keywords
// decide, and failing that the record text is classified.
func ResolveCategory(label, text string) string {
	label = strings.ToLower(CollapseWhitespace(label))
	if IsCategory(label) {
		return label
	}
	if category := Classify(label); category != coupon.DefaultCategory {
		return category
	}
	return Classify(text)
}
