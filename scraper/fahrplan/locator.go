package fahrplan

import (
	"regexp"
	"strconv"
	"strings"

	"c3speakers/models"
)

// fahrplanRegexp matches Fahrplan addresses such as
//
//	http://abc.de/congress/2000/Fahrplan/schedule.en.html
//	https://xyz.co.uk/congress/31c3/Fahrplan/speakers.html
//
// The segment before the Fahrplan folder must carry a year or a congress code.
var fahrplanRegexp = regexp.MustCompile(
	`^(?P<prefix>.+/)(?P<edition>(?:(?P<year>(?:19|20)[0-9]{2})|(?P<code>[1-9][0-9]?[Cc]3)).*/Fahrplan.*/)` +
		`[A-Za-z]+(?P<suffix>\.[A-Za-z.]*html)$`)

// ForeignURL is the result of parsing a user supplied Fahrplan address.
// Exactly one of Year and Code is set.
type ForeignURL struct {
	Base   string
	Year   string
	Code   string
	Suffix string
}

// ParseForeignURL splits a Fahrplan page address into its speakers base
// address, year or congress code, and file ending.
func ParseForeignURL(address string) (ForeignURL, error) {
	m := fahrplanRegexp.FindStringSubmatch(strings.TrimSpace(address))
	if m == nil {
		return ForeignURL{}, &models.FormatError{
			Field: "url",
			Value: address,
			Message: "the address has an unexpected format and cannot be used; " +
				"try an address that references the C3 Fahrplan (schedule), e.g. " +
				"https://events.ccc.de/congress/2015/Fahrplan/speakers.html",
		}
	}

	group := func(name string) string {
		return m[fahrplanRegexp.SubexpIndex(name)]
	}
	return ForeignURL{
		Base:   group("prefix") + group("edition"),
		Year:   group("year"),
		Code:   group("code"),
		Suffix: group("suffix"),
	}, nil
}

// Locator derives the candidate addresses of a speakers listing.
type Locator struct {
	BaseURL  string
	Suffixes []string
}

// NewLocator creates a Locator for the given site root and known file endings.
func NewLocator(baseURL string, suffixes []string) *Locator {
	if baseURL != "" && !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Locator{BaseURL: baseURL, Suffixes: suffixes}
}

// DefaultBase returns the Fahrplan folder for a congress year on the
// configured site.
func (l *Locator) DefaultBase(year int) string {
	return l.BaseURL + strconv.Itoa(year) + "/Fahrplan/"
}

// Candidates returns the listing candidates in order of preference. With an
// override the override's own file ending is the only candidate; otherwise
// every known ending is tried on the default base.
func (l *Locator) Candidates(override string, edition models.Edition) ([]models.Candidate, error) {
	if strings.TrimSpace(override) != "" {
		foreign, err := ParseForeignURL(override)
		if err != nil {
			return nil, err
		}
		return []models.Candidate{{Base: foreign.Base, Suffix: foreign.Suffix}}, nil
	}

	base := l.DefaultBase(edition.Year)
	candidates := make([]models.Candidate, 0, len(l.Suffixes))
	for _, suffix := range l.Suffixes {
		candidates = append(candidates, models.Candidate{Base: base, Suffix: suffix})
	}
	return candidates, nil
}
