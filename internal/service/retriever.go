package service

import (
	"context"
	"sort"

	"suggest/internal/model"
	"suggest/internal/repository"
	"suggest/internal/utils"

	"github.com/charmbracelet/log"
	gobreaker "github.com/sony/gobreaker/v2"
)

// Retriever produces the candidate set for a query. It prefers the remote
// engine when enabled and healthy; otherwise it falls back to a fuzzy scan
// over the in-memory index. The two tiers are mutually exclusive per
// request, never merged.
type Retriever struct {
	index         *repository.IndexStore
	engine        SearchEngine
	breaker       *gobreaker.CircuitBreaker[[]model.Candidate]
	maxCandidates int
}

// NewRetriever creates a retriever over the given index and optional engine
func NewRetriever(index *repository.IndexStore, engine SearchEngine, maxCandidates int) *Retriever {
	return &Retriever{
		index:         index,
		engine:        engine,
		breaker:       newEngineBreaker(),
		maxCandidates: maxCandidates,
	}
}

// Retrieve returns at most maxCandidates candidates, ranked best-first
// within the tier that produced them. If the remote tier ran and returned at
// least one candidate those are used exclusively; any remote failure is
// recovered locally and never surfaced. An empty index with no remote
// results fails with ErrNoIndexAvailable.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]model.Candidate, error) {
	if r.engine != nil && r.engine.IsEnabled() {
		candidates, err := r.breaker.Execute(func() ([]model.Candidate, error) {
			if err := r.engine.Ping(ctx); err != nil {
				return nil, err
			}
			return r.engine.Search(ctx, query, r.maxCandidates)
		})
		if err != nil {
			log.Debugf("Remote engine unavailable, using local scan: %v", err)
		} else if len(candidates) > 0 {
			return candidates, nil
		}
	}

	return r.localScan(query)
}

// localScan scores every index record with a token-set fuzzy ratio against
// the normalized query. Always succeeds when the index is populated.
func (r *Retriever) localScan(query string) ([]model.Candidate, error) {
	var records []model.PlaceRecord
	if r.index != nil {
		records = r.index.All()
	}
	if len(records) == 0 {
		return nil, model.ErrNoIndexAvailable
	}

	normalized := utils.Normalize(query)
	candidates := make([]model.Candidate, 0, len(records))
	for _, rec := range records {
		candidates = append(candidates, model.Candidate{
			Name:        rec.Name,
			MatchScore:  utils.TokenSetSimilarity(normalized, rec.NormalizedName),
			Rating:      rec.Rating,
			ReviewCount: rec.ReviewCount,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].MatchScore > candidates[j].MatchScore
	})
	if len(candidates) > r.maxCandidates {
		candidates = candidates[:r.maxCandidates]
	}
	return candidates, nil
}
