package commands

import (
	"context"

	"c3speakers/config"
	"c3speakers/congress"
	"c3speakers/models"
	"c3speakers/scraper/fahrplan"
	"c3speakers/services"
	"c3speakers/storage"
	"c3speakers/utils"
)

// pipeline runs one discovery and reconciliation pass for a congress.
type pipeline struct {
	cfg      *config.Config
	logger   *utils.Logger
	resolver *congress.Resolver
}

func newPipeline(cfg *config.Config, logger *utils.Logger, resolver *congress.Resolver) *pipeline {
	return &pipeline{cfg: cfg, logger: logger, resolver: resolver}
}

// edition resolves the requested congress. An address carries its own
// year or congress code.
func (p *pipeline) edition(year, code, url string) (models.Edition, error) {
	if url != "" {
		foreign, err := fahrplan.ParseForeignURL(url)
		if err != nil {
			return models.Edition{}, err
		}
		year, code = foreign.Year, foreign.Code
	}
	return p.resolver.Resolve(year, code)
}

func (p *pipeline) run(ctx context.Context, year, code, url string) (*models.Summary, error) {
	ed, err := p.edition(year, code, url)
	if err != nil {
		return nil, err
	}
	p.logger.Info("%s ... requested", ed)

	scraper := fahrplan.New(p.cfg, p.logger)
	candidates, err := scraper.Candidates(url, ed)
	if err != nil {
		return nil, err
	}

	listing, err := scraper.Locate(ctx, candidates)
	if err != nil {
		return nil, err
	}

	summary := &models.Summary{
		Edition:    ed,
		Source:     listing.Candidate.ListingURL(),
		Discovered: len(listing.Speakers),
	}
	if len(listing.Speakers) == 0 {
		p.logger.Warn("Found no speakers in Fahrplan.")
		return summary, nil
	}
	p.logger.Info("%d speaker(s) found", len(listing.Speakers))

	store, err := storage.Open(p.cfg, ed.Year)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("[store] Using %s", store.Name())
	rec := services.NewReconciler(store, p.logger)

	names, err := rec.ReconcileNames(ctx, listing.Speakers)
	if err != nil {
		return nil, err
	}
	summary.NamesBefore = len(names.Before)
	summary.NamesAfter = len(names.After)
	summary.NameDiff = names.Diff
	summary.StoredNames = names.After

	profiles, err := scraper.Profiles(ctx, listing)
	if err != nil {
		return nil, err
	}
	summary.HandlesDetected = len(profiles.Handles)
	summary.SkippedProfiles = profiles.Skipped
	if len(profiles.Handles) > 0 {
		p.logger.Info("%d Twitter handle(s) detected", len(profiles.Handles))
	} else {
		p.logger.Info("Found no Twitter handles in Fahrplan.")
	}

	handles, err := rec.ReconcileHandles(ctx, profiles.Handles)
	if err != nil {
		return nil, err
	}
	summary.HandlesBefore = len(handles.Before)
	summary.HandlesAfter = len(handles.After)
	summary.HandleDiff = handles.Diff
	summary.StoredHandles = handles.After

	summary.Degraded = rec.Degraded()
	summary.StoreErr = rec.Err()
	return summary, nil
}
