package service

import (
	"context"
	"sort"
	"time"

	"suggest/internal/cache"
	"suggest/internal/model"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// CandidateRetriever produces candidates for a query (implemented by
// Retriever; substituted in tests)
type CandidateRetriever interface {
	Retrieve(ctx context.Context, query string) ([]model.Candidate, error)
}

// SuggestCache is the slice of the cache the orchestrator needs
type SuggestCache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration)
}

// SuggestService composes the whole pipeline: cache check, retrieval,
// feature build, scoring, sort/truncate, cache write.
type SuggestService struct {
	retriever CandidateRetriever
	scorer    Scorer
	cache     SuggestCache
	ttl       time.Duration
	limit     int
}

// NewSuggestService creates a new suggest service
func NewSuggestService(retriever CandidateRetriever, scorer Scorer, c SuggestCache, ttl time.Duration, limit int) *SuggestService {
	return &SuggestService{
		retriever: retriever,
		scorer:    scorer,
		cache:     c,
		ttl:       ttl,
		limit:     limit,
	}
}

// Suggest returns the ranked top suggestions for a query.
//
// Only two errors are user-visible: ErrInvalidQuery for an empty query and
// ErrNoIndexAvailable when no retrieval tier could produce candidates. Cache
// failures degrade to a miss or a skipped write.
func (s *SuggestService) Suggest(ctx context.Context, query string) ([]model.SuggestItem, error) {
	if query == "" {
		return nil, model.ErrInvalidQuery
	}

	key := cache.SuggestKey(query)
	if data, ok := s.cache.Get(key); ok {
		var items []model.SuggestItem
		if err := msgpack.Unmarshal(data, &items); err == nil {
			log.Debugf("Cache HIT: %s", key)
			return items, nil
		}
		// Undecodable entry: recompute and overwrite.
		log.Debugf("Cache entry for %s undecodable, recomputing", key)
	}

	candidates, err := s.retriever.Retrieve(ctx, query)
	if err != nil {
		return nil, err
	}

	features := buildFeatureMatrix(candidates)
	scores := s.scorer.Score(features)

	items := make([]model.SuggestItem, len(candidates))
	for i, c := range candidates {
		items[i] = model.SuggestItem{
			Name:        c.Name,
			Score:       scores[i],
			Rating:      c.Rating,
			ReviewCount: c.ReviewCount,
		}
	}

	// Stable sort keeps the retrieval order for equal scores, so identical
	// inputs always produce identical responses.
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})
	if len(items) > s.limit {
		items = items[:s.limit]
	}

	if data, err := msgpack.Marshal(items); err == nil {
		s.cache.Set(key, data, s.ttl)
	} else {
		log.Debugf("Cache encode failed for %s: %v", key, err)
	}

	return items, nil
}
