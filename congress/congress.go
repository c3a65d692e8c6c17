// Package congress maps years and congress codes such as "33c3" to editions
// of the Chaos Communication Congress.
package congress

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"c3speakers/models"
)

// FirstYear is the year of the 1st congress (1C3).
const FirstYear = 1984

var codeRegexp = regexp.MustCompile(`^([0-9]+)[Cc]3$`)

// Resolver turns user input into a validated Edition.
type Resolver struct {
	FirstYear int
	Now       func() time.Time
}

// New creates a Resolver whose notion of "this year" comes from now.
// A nil now uses time.Now.
func New(now func() time.Time) *Resolver {
	if now == nil {
		now = time.Now
	}
	return &Resolver{FirstYear: FirstYear, Now: now}
}

// Current returns this year's edition.
func (r *Resolver) Current() models.Edition {
	year := r.Now().Year()
	return models.Edition{Year: year, Number: year - r.FirstYear + 1}
}

// Resolve validates either a year or a congress code. At most one may be
// given; with neither, the current edition is returned.
func (r *Resolver) Resolve(year, code string) (models.Edition, error) {
	year = strings.TrimSpace(year)
	code = strings.TrimSpace(code)
	current := r.Current()

	switch {
	case year != "" && code != "":
		return models.Edition{}, &models.FormatError{
			Field:   "congress",
			Value:   year + "/" + code,
			Message: "provide either a year or a congress, not both",
		}
	case code != "":
		return r.fromCode(code, current)
	case year != "":
		return r.fromYear(year, current)
	default:
		return current, nil
	}
}

func (r *Resolver) fromCode(code string, current models.Edition) (models.Edition, error) {
	m := codeRegexp.FindStringSubmatch(code)
	if m == nil {
		return models.Edition{}, &models.FormatError{
			Field:   "congress",
			Value:   code,
			Message: "expected a congress such as 33C3",
		}
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return models.Edition{}, &models.FormatError{Field: "congress", Value: code, Message: err.Error()}
	}
	if n < 1 || n > current.Number {
		return models.Edition{}, &models.RangeError{
			Field: "congress",
			Value: code,
			Bound: fmt.Sprintf("only congresses between 1C3 and %dC3 are allowed", current.Number),
		}
	}
	return models.Edition{Year: current.Year - (current.Number - n), Number: n}, nil
}

func (r *Resolver) fromYear(year string, current models.Edition) (models.Edition, error) {
	y, err := strconv.Atoi(year)
	if err != nil {
		return models.Edition{}, &models.FormatError{
			Field:   "year",
			Value:   year,
			Message: "expected a four-digit year",
		}
	}
	if y < r.FirstYear || y > current.Year {
		return models.Edition{}, &models.RangeError{
			Field: "year",
			Value: year,
			Bound: fmt.Sprintf("only years between %d and the current year (%d) are allowed", r.FirstYear, current.Year),
		}
	}
	return models.Edition{Year: y, Number: y - r.FirstYear + 1}, nil
}
