package service

import (
	"testing"

	"suggest/internal/model"
)

func TestBuildFeatures(t *testing.T) {
	tests := []struct {
		name      string
		candidate model.Candidate
		want      model.FeatureVector
	}{
		{
			name:      "Maximum rating and capped reviews",
			candidate: model.Candidate{MatchScore: 0.5, Rating: 5.0, ReviewCount: 10000},
			want:      model.FeatureVector{Match: 0.5, Rating: 1.0, Reviews: 1.0},
		},
		{
			name:      "All zero",
			candidate: model.Candidate{},
			want:      model.FeatureVector{},
		},
		{
			name:      "Mid-range values",
			candidate: model.Candidate{MatchScore: 0.8, Rating: 2.5, ReviewCount: 2500},
			want:      model.FeatureVector{Match: 0.8, Rating: 0.5, Reviews: 0.5},
		},
		{
			name:      "Negative values contribute zero",
			candidate: model.Candidate{MatchScore: -1, Rating: -3, ReviewCount: -10},
			want:      model.FeatureVector{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildFeatures(tt.candidate)
			if got != tt.want {
				t.Errorf("BuildFeatures(%+v) = %+v, want %+v", tt.candidate, got, tt.want)
			}
		})
	}
}

func TestBuildFeatureMatrixOrder(t *testing.T) {
	candidates := []model.Candidate{
		{Name: "a", MatchScore: 0.1},
		{Name: "b", MatchScore: 0.9},
	}
	features := buildFeatureMatrix(candidates)
	if len(features) != 2 {
		t.Fatalf("expected 2 feature vectors, got %d", len(features))
	}
	if features[0].Match != 0.1 || features[1].Match != 0.9 {
		t.Error("feature vectors must keep candidate order")
	}
}
