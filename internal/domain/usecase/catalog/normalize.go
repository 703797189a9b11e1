package catalog

import (
	"regexp"
	"strings"
)

// DefaultPlaceholders are image values upstream uses to mean "no image"
var DefaultPlaceholders = []string{"null", "undefined", "na"}

var (
	trademarkGlyphs   = strings.NewReplacer("™", "", "®", "", "©", "")
	pathSeparators    = regexp.MustCompile(`[-_.:/\\]+`)
	nonAlphanumerics  = regexp.MustCompile(`[^\p{L}\p{N}]+`)
	absoluteURLPrefix = regexp.MustCompile(`(?i)^(https?:)?//`)
)

// Normalizer derives the comparison keys used for identity resolution
type Normalizer struct {
	placeholders map[string]struct{}
}

// NewNormalizer creates a Normalizer; an empty placeholder list uses DefaultPlaceholders
func NewNormalizer(placeholders []string) *Normalizer {
	if len(placeholders) == 0 {
		placeholders = DefaultPlaceholders
	}
	n := &Normalizer{placeholders: make(map[string]struct{}, len(placeholders))}
	for _, p := range placeholders {
		n.placeholders[strings.ToLower(strings.TrimSpace(p))] = struct{}{}
	}
	return n
}

// CollapseSpace replaces whitespace runs with a single space and trims
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// CleanImage trims img and blanks placeholder values
func (n *Normalizer) CleanImage(img string) string {
	img = strings.TrimSpace(img)
	if _, ok := n.placeholders[strings.ToLower(img)]; ok {
		return ""
	}
	return img
}

// NameKey lowercases, strips trademark glyphs and collapses path-like separators
func NameKey(name string) string {
	key := trademarkGlyphs.Replace(strings.ToLower(name))
	key = pathSeparators.ReplaceAllString(key, " ")
	return CollapseSpace(key)
}

// ProviderKey lowercases and collapses every non-alphanumeric run
func ProviderKey(provider string) string {
	key := nonAlphanumerics.ReplaceAllString(strings.ToLower(provider), " ")
	return strings.TrimSpace(key)
}

// ImageKey compares absolute URLs without query, fragment or trailing slashes;
// other values only lose a single leading slash. img must already be cleaned.
func ImageKey(img string) string {
	if img == "" {
		return ""
	}
	if absoluteURLPrefix.MatchString(img) {
		key := strings.ToLower(img)
		if i := strings.IndexAny(key, "?#"); i >= 0 {
			key = key[:i]
		}
		return strings.TrimRight(key, "/")
	}
	return strings.TrimPrefix(img, "/")
}

// ImageScore ranks thumbnails: absolute http(s) 5, protocol-relative 4, other 3,
// long data URI 2, short data URI 1, empty 0. img must already be cleaned.
func ImageScore(img string) int {
	lower := strings.ToLower(img)
	switch {
	case img == "":
		return 0
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return 5
	case strings.HasPrefix(img, "//"):
		return 4
	case strings.HasPrefix(lower, "data:"):
		if len(img) >= 80 {
			return 2
		}
		return 1
	default:
		return 3
	}
}
