package fahrplan

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"c3speakers/models"
	"c3speakers/utils"
)

const (
	speakerMarker = "/speakers/"
	twitterMarker = "twitter.com"
)

var (
	// speakerRegexp captures the id of .../speakers/1234.html, 1234.en.html etc.
	speakerRegexp = regexp.MustCompile(`^.*/speakers/([0-9]+)(?:\.[A-Za-z]{2})?\.html?$`)
	// twitterRegexp captures the handle of http(s)://twitter.com/the_name
	twitterRegexp = regexp.MustCompile(`twitter\.com/@?([A-Za-z0-9_]+)`)
)

// Extractor pulls speaker data out of Fahrplan pages.
type Extractor struct {
	logger *utils.Logger
}

// NewExtractor creates an Extractor reporting skipped links to logger.
func NewExtractor(logger *utils.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// ExtractListing maps speaker id to display name for every speaker link in
// the listing page. Links without the speakers marker are ignored; links
// with the marker but an unexpected shape are logged and skipped. A page
// without speaker links yields an empty map.
func (e *Extractor) ExtractListing(doc []byte) (map[string]string, error) {
	root, err := goquery.NewDocumentFromReader(bytes.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("parse listing: %w", err)
	}

	speakers := make(map[string]string)
	root.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href := a.AttrOr("href", "")
		if !strings.Contains(href, speakerMarker) {
			return
		}

		m := speakerRegexp.FindStringSubmatch(href)
		if m == nil {
			e.logger.Warn("%v", &models.MalformedLinkError{Kind: "speaker", Href: href})
			return
		}
		speakers[m[1]] = a.Text()
	})

	return speakers, nil
}

// ExtractHandle returns the Twitter handle linked from a speaker profile.
// The first well-formed link wins; the leading @ is dropped.
func (e *Extractor) ExtractHandle(doc []byte) (string, bool, error) {
	root, err := goquery.NewDocumentFromReader(bytes.NewReader(doc))
	if err != nil {
		return "", false, fmt.Errorf("parse profile: %w", err)
	}

	var handle string
	root.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href := a.AttrOr("href", "")
		if !strings.Contains(href, twitterMarker) {
			return true
		}

		m := twitterRegexp.FindStringSubmatch(href)
		if m == nil {
			e.logger.Warn("%v", &models.MalformedLinkError{Kind: "Twitter account", Href: href})
			return true
		}
		handle = m[1]
		return false
	})

	return handle, handle != "", nil
}
