// Package fahrplan finds speakers in a Chaos Communication Congress Fahrplan
// (schedule) and the Twitter handles linked from their profile pages.
package fahrplan

import (
	"context"
	"fmt"

	"c3speakers/config"
	"c3speakers/models"
	"c3speakers/utils"
)

// Listing is the speakers overview page that was found, together with the
// speakers extracted from it. Candidate fixes the file ending used for all
// profile pages of the run.
type Listing struct {
	Candidate models.Candidate
	Speakers  map[string]string
}

// ProfileResult holds the handles found on profile pages. Skipped lists the
// ids whose profile could not be fetched or parsed.
type ProfileResult struct {
	Handles map[string]string
	Skipped []string
}

// Scraper drives discovery: probing listing candidates, then visiting every
// speaker profile one at a time.
type Scraper struct {
	cfg       *config.Config
	logger    *utils.Logger
	locator   *Locator
	fetcher   *Fetcher
	extractor *Extractor
	pacer     *utils.Pacer
}

// New creates a ready-to-use Fahrplan Scraper.
func New(cfg *config.Config, logger *utils.Logger) *Scraper {
	return &Scraper{
		cfg:       cfg,
		logger:    logger,
		locator:   NewLocator(cfg.BaseURL, cfg.Suffixes),
		fetcher:   NewFetcher(cfg, logger),
		extractor: NewExtractor(logger),
		pacer:     utils.NewPacer(cfg.RequestDelay),
	}
}

// Candidates returns the listing addresses to probe for an edition.
func (s *Scraper) Candidates(override string, edition models.Edition) ([]models.Candidate, error) {
	return s.locator.Candidates(override, edition)
}

// Locate probes the candidates in order. The first one that can be opened
// wins; not-found pages and failed requests move on to the next candidate.
func (s *Scraper) Locate(ctx context.Context, candidates []models.Candidate) (*Listing, error) {
	var lastErr error = models.ErrNotFound

	for _, c := range candidates {
		if err := s.pacer.Wait(ctx); err != nil {
			return nil, err
		}

		res := s.fetcher.FetchWithRetry(ctx, c.ListingURL())
		switch res.Outcome {
		case OutcomeNotFound:
			lastErr = fmt.Errorf("%s: %w", c.ListingURL(), models.ErrNotFound)
			continue
		case OutcomeFailed:
			lastErr = res.Err
			continue
		}

		speakers, err := s.extractor.ExtractListing(res.Body)
		if err != nil {
			return nil, fmt.Errorf("fetch speakers from %s: %w", c.ListingURL(), err)
		}
		s.logger.Debug("[fahrplan] Using file ending %s", c.Suffix)
		return &Listing{Candidate: c, Speakers: speakers}, nil
	}

	return nil, fmt.Errorf("%w: tried %d candidate(s), last: %w", models.ErrNoListing, len(candidates), lastErr)
}

// Profiles visits every speaker's profile page in ascending id order,
// pausing between requests. A profile that cannot be fetched is skipped.
func (s *Scraper) Profiles(ctx context.Context, listing *Listing) (*ProfileResult, error) {
	result := &ProfileResult{Handles: make(map[string]string)}

	ids := models.SortedIDs(listing.Speakers)
	for i, id := range ids {
		s.logger.Info("Speaker #%d of %d", i+1, len(ids))

		if err := s.pacer.Wait(ctx); err != nil {
			return result, err
		}

		res := s.fetcher.FetchWithRetry(ctx, listing.Candidate.ProfileURL(id))
		if res.Outcome != OutcomeOK {
			result.Skipped = append(result.Skipped, id)
			continue
		}

		handle, ok, err := s.extractor.ExtractHandle(res.Body)
		if err != nil {
			s.logger.Warn("[fahrplan] Skipping profile of speaker %s: %v", id, err)
			result.Skipped = append(result.Skipped, id)
			continue
		}
		if ok {
			s.logger.Info("Twitter: %s", handle)
			result.Handles[id] = handle
		}
	}

	return result, nil
}
