package model

// PlaceRecord is one destination in the loaded index snapshot.
// Records are immutable after load; a reload replaces the whole slice.
type PlaceRecord struct {
	Name        string  `json:"name" db:"name"`
	Rating      float64 `json:"rating" db:"rating"`
	ReviewCount int     `json:"review_count" db:"review_count"`
	SourceURL   string  `json:"source_url,omitempty" db:"source_url"`
	Description string  `json:"description,omitempty" db:"description"`

	// Enhanced snapshot fields. The scraper that produces the enhanced
	// index merges per-source ratings next to the base fields; they are
	// carried through untouched so a reload round-trips them.
	TripadviserRating  float64 `json:"tripadviser_rating,omitempty" db:"-"`
	TripadviserReviews int     `json:"tripadviser_reviews,omitempty" db:"-"`
	GoogleRating       float64 `json:"google_rating,omitempty" db:"-"`
	GoogleReviews      int     `json:"google_reviews,omitempty" db:"-"`
	AggregateRating    float64 `json:"aggregate_rating,omitempty" db:"-"`
	RatingSources      int     `json:"rating_sources,omitempty" db:"-"`

	// NormalizedName is precomputed once at load time so the fuzzy scan
	// never normalizes on the request path.
	NormalizedName string `json:"-" db:"-"`
}

// Candidate is a place retrieved for one query, prior to ranking.
//
// MatchScore is on the scale of whichever retrieval tier produced it: the
// remote engine's native relevance score, or a [0,1] token-set ratio from the
// local fuzzy scan. The two tiers are never mixed within one response, so
// relative order stays consistent either way.
type Candidate struct {
	Name        string  `json:"name"`
	MatchScore  float64 `json:"match_score"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"review_count"`
}

// SuggestItem is one ranked entry in a suggest response.
type SuggestItem struct {
	Name        string  `json:"name" msgpack:"name"`
	Score       float64 `json:"score" msgpack:"score"`
	Rating      float64 `json:"rating" msgpack:"rating"`
	ReviewCount int     `json:"review_count" msgpack:"review_count"`
}
