package discovery

import (
	"context"
	"errors"

	"github.com/Jasmitha1474/women-safety-app/internal/models"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrInvalidFix discovery needs a fix with finite coordinates.
var ErrInvalidFix = errors.New("discovery requires a valid location fix")

// SearchStatus outcome of a single category search
type SearchStatus string

const (
	StatusOK            SearchStatus = "ok"
	StatusNoResults     SearchStatus = "no_results"
	StatusProviderError SearchStatus = "provider_error"
)

// Query one category search around a center
type Query struct {
	Center       models.Position
	RadiusMeters int
	Category     models.Category
}

// SearchResult Places is only meaningful when Status is StatusOK.
type SearchResult struct {
	Status SearchStatus
	Places []models.ResponderCandidate
	Err    error
}

// Searcher the place search provider.
type Searcher interface {
	Search(ctx context.Context, q Query) SearchResult
}

// Result merged candidates of one discovery cycle.
type Result struct {
	Candidates   []models.ResponderCandidate
	Statuses     map[models.Category]SearchStatus
	NoResponders bool
}

// Discovery runs one search per responder category concurrently and
// publishes the merged set once every search has completed.
type Discovery struct {
	searcher     Searcher
	radiusMeters int
	logger       *zap.Logger
}

func New(searcher Searcher, radiusMeters int, logger *zap.Logger) *Discovery {
	return &Discovery{
		searcher:     searcher,
		radiusMeters: radiusMeters,
		logger:       logger,
	}
}

// Discover searches every category around fix. A failed or empty category
// contributes nothing; the others are still published. Candidates are ordered
// by category then provider order, with ids unique within the result.
func (d *Discovery) Discover(ctx context.Context, fix models.LocationFix) (Result, error) {
	if !fix.Valid() {
		return Result{}, ErrInvalidFix
	}

	categories := models.Categories()
	results := make([]SearchResult, len(categories))

	var g errgroup.Group
	for i, category := range categories {
		i, category := i, category
		g.Go(func() error {
			results[i] = d.searcher.Search(ctx, Query{
				Center:       fix.Position(),
				RadiusMeters: d.radiusMeters,
				Category:     category,
			})
			return nil
		})
	}
	// tasks never fail; each status is carried in its result slot
	_ = g.Wait()

	out := Result{Statuses: make(map[models.Category]SearchStatus, len(categories))}
	seen := make(map[string]bool)
	for i, category := range categories {
		r := results[i]
		out.Statuses[category] = r.Status

		if r.Status != StatusOK {
			if r.Status == StatusProviderError {
				d.logger.Warn("Responder search failed",
					zap.String("category", string(category)),
					zap.Error(r.Err),
				)
			}
			continue
		}

		for _, c := range r.Places {
			if c.ID != "" {
				if seen[c.ID] {
					continue
				}
				seen[c.ID] = true
			}
			c.Category = category
			out.Candidates = append(out.Candidates, c)
		}
	}
	out.NoResponders = len(out.Candidates) == 0

	d.logger.Info("Responder discovery completed",
		zap.Int("candidates", len(out.Candidates)),
		zap.Bool("no_responders", out.NoResponders),
	)
	return out, nil
}
