package service

import (
	"suggest/internal/model"
)

// Feature normalization constants. These are the train/serve contract: the
// offline training pipeline extracts features with the same divisors, so
// changing them invalidates any loaded model artifact.
const (
	ratingScale    = 5.0
	reviewCountCap = 5000.0
)

// BuildFeatures converts one candidate's raw signals into bounded normalized
// features. Total: missing or negative numeric fields contribute 0.
func BuildFeatures(c model.Candidate) model.FeatureVector {
	f := model.FeatureVector{Match: c.MatchScore}
	if f.Match < 0 {
		f.Match = 0
	}
	if c.Rating > 0 {
		f.Rating = c.Rating / ratingScale
		if f.Rating > 1 {
			f.Rating = 1
		}
	}
	if c.ReviewCount > 0 {
		f.Reviews = float64(c.ReviewCount) / reviewCountCap
		if f.Reviews > 1 {
			f.Reviews = 1
		}
	}
	return f
}

// buildFeatureMatrix builds one feature vector per candidate, same order.
func buildFeatureMatrix(candidates []model.Candidate) []model.FeatureVector {
	features := make([]model.FeatureVector, len(candidates))
	for i, c := range candidates {
		features[i] = BuildFeatures(c)
	}
	return features
}
