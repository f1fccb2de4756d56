package utils

import (
	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// TokenSetSimilarity returns the token-set fuzzy ratio between two strings,
// rescaled from [0,100] to [0,1]. Inputs are expected to be normalized
// already; comparing raw against normalized text will understate similarity.
func TokenSetSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	return float64(fuzzy.TokenSetRatio(a, b)) / 100.0
}
