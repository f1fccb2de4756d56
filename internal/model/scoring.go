package model

// FeatureVector is the normalized feature contract shared between offline
// training and request-time scoring. All three components are bounded [0,1].
type FeatureVector struct {
	Match   float64 // retrieval match score, taken as already in [0,1]
	Rating  float64 // rating / 5.0
	Reviews float64 // min(1, review_count / 5000)
}

// LinearWeights is the plain structured model artifact: a weighted blend over
// a FeatureVector plus an intercept. Weight order: [match, rating, reviews].
type LinearWeights struct {
	Weights   []float64 `json:"weights"`
	Intercept float64   `json:"intercept"`
}

// Score evaluates the linear blend for one feature vector. Weights must have
// been validated to hold exactly three entries.
func (w LinearWeights) Score(f FeatureVector) float64 {
	return f.Match*w.Weights[0] + f.Rating*w.Weights[1] + f.Reviews*w.Weights[2] + w.Intercept
}
