package downloader

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"cpxfetch/utils"
)

// ExtractionRule is one independent matcher applied to the gateway's
// working response. Rules are evaluated in order; the first match wins.
// The gateway controls its own markup, so each rule stays separately
// testable and swappable.
type ExtractionRule struct {
	Name    string
	Extract func(body, workingURL string) (string, bool)
}

var (
	dataAttrPattern     = regexp.MustCompile(`data-u="([^"]*)"`)
	locationHrefPattern = regexp.MustCompile(`window\.location\.href\s*=\s*"([^"]*)"`)
)

// anchorPrefixes are the gateway path shapes that carry a direct link.
var anchorPrefixes = []string{"/stream/", "/get/", "/browser/"}

// DefaultRules returns the extraction rules in priority order:
// the data-u attribute is the most common and most specific signal,
// the location.href assignment and the bare anchor are fallbacks for
// alternate gateway response shapes.
func DefaultRules() []ExtractionRule {
	return []ExtractionRule{
		{Name: "data-u", Extract: extractDataAttr},
		{Name: "location-href", Extract: extractLocationHref},
		{Name: "anchor-path", Extract: extractAnchorPath},
	}
}

// extractDataAttr matches a data-u="..." attribute anywhere in the body.
func extractDataAttr(body, _ string) (string, bool) {
	matches := dataAttrPattern.FindStringSubmatch(body)
	if len(matches) < 2 || matches[1] == "" {
		return "", false
	}
	return utils.CleanExtractedURL(matches[1]), true
}

// extractLocationHref matches a window.location.href = "..." assignment
// and resolves it against the working response URL.
func extractLocationHref(body, workingURL string) (string, bool) {
	matches := locationHrefPattern.FindStringSubmatch(body)
	if len(matches) < 2 || matches[1] == "" {
		return "", false
	}

	cleaned := strings.ReplaceAll(matches[1], `\/`, "/")
	resolved, err := utils.ResolveReference(workingURL, cleaned)
	if err != nil {
		return "", false
	}
	return resolved, true
}

// extractAnchorPath matches the first anchor whose href starts with one
// of the known gateway content paths.
func extractAnchorPath(body, workingURL string) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return "", false
	}

	var found string
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		for _, prefix := range anchorPrefixes {
			if strings.HasPrefix(href, prefix) {
				found = href
				return false
			}
		}
		return true
	})

	if found == "" {
		return "", false
	}

	resolved, err := utils.ResolveReference(workingURL, found)
	if err != nil {
		return "", false
	}
	return resolved, true
}
