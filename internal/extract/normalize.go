package extract

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Pre-compiled regular expressions
var (
	boilerplatePrefix = regexp.MustCompile(`(?i)^(deal|offer|coupon):\s*`)
	boilerplateSuffix = regexp.MustCompile(`(?i)\s*(deal|offer|coupon)$`)
	expiryPrefix      = regexp.MustCompile(`(?i)^(expires?\b:?\s*|exp\b\.?:?\s*|valid until\b:?\s*|until\b:?\s*)`)

	// Tried in order; the first pattern found anywhere in the text wins
	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{4}`),    // MM/DD/YYYY
		regexp.MustCompile(`\d{4}-\d{1,2}-\d{1,2}`),    // YYYY-MM-DD
		regexp.MustCompile(`\d{1,2}-\d{1,2}-\d{4}`),    // MM-DD-YYYY
		regexp.MustCompile(`[A-Za-z]+ \d{1,2}, \d{4}`), // Month DD, YYYY
	}

	// Tried in order against lowercased text
	percentagePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\d+)%\s*off`),
		regexp.MustCompile(`save\s*(\d+)%`),
		regexp.MustCompile(`(\d+)%\s*discount`),
		regexp.MustCompile(`(\d+)%\s*savings`),
		regexp.MustCompile(`(\d+)%`),
	}
)

// CollapseWhitespace replaces every whitespace run with a single space and trims the ends
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// CleanText collapses whitespace and strips leading "deal:"/"offer:"/"coupon:" labels
// and a trailing "deal"/"offer"/"coupon" word.
func CleanText(s string) string {
	s = CollapseWhitespace(s)
	s = boilerplatePrefix.ReplaceAllString(s, "")
	s = boilerplateSuffix.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// NormalizeCode keeps only letters and digits, uppercased.
// Codes shorter than 3 characters are rejected.
func NormalizeCode(raw string) (string, bool) {
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}

	code := b.String()
	if len([]rune(code)) < 3 {
		return "", false
	}
	return code, true
}

// ExtractExpiry strips "expires"/"exp:"/"valid until"/"until:" prefixes and returns the
// first recognised date substring, or the stripped text when no date pattern matches.
func ExtractExpiry(raw string) string {
	text := strings.TrimSpace(raw)
	text = expiryPrefix.ReplaceAllString(text, "")

	for _, pattern := range datePatterns {
		if match := pattern.FindString(text); match != "" {
			return match
		}
	}
	return strings.TrimSpace(text)
}

// ExtractPercentage finds a discount percentage in text.
// Precedence: "N% off", "save N%", "N% discount", "N% savings", bare "N%".
func ExtractPercentage(text string) (int, bool) {
	if text == "" {
		return 0, false
	}

	lower := strings.ToLower(text)
	for _, pattern := range percentagePatterns {
		match := pattern.FindStringSubmatch(lower)
		if match == nil {
			continue
		}
		value, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		return value, true
	}
	return 0, false
}
