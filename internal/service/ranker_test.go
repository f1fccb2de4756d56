package service

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"suggest/internal/config"
	"suggest/internal/model"
)

func defaultTestRanker() *Ranker {
	return LoadRanker(
		&config.ModelConfig{},
		&config.RankConfig{WeightMatch: 0.6, WeightRating: 0.25, WeightReviews: 0.15},
	)
}

func TestLinearScoreDefaults(t *testing.T) {
	ranker := defaultTestRanker()

	scores := ranker.Score([]model.FeatureVector{{Match: 0.8, Rating: 0.6, Reviews: 0.4}})
	if len(scores) != 1 {
		t.Fatalf("expected 1 score, got %d", len(scores))
	}

	want := 0.8*0.6 + 0.6*0.25 + 0.4*0.15 // 0.69
	if math.Abs(scores[0]-want) > 1e-12 {
		t.Errorf("score = %v, want %v", scores[0], want)
	}
}

func TestLinearScoreBatchOrder(t *testing.T) {
	ranker := defaultTestRanker()

	features := []model.FeatureVector{
		{Match: 1.0},
		{Match: 0.5},
		{Match: 0.0},
	}
	scores := ranker.Score(features)
	if len(scores) != 3 {
		t.Fatalf("expected 3 scores, got %d", len(scores))
	}
	if !(scores[0] > scores[1] && scores[1] > scores[2]) {
		t.Errorf("scores must follow input order semantics, got %v", scores)
	}
}

func TestLoadWeights(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.json")
	if err := os.WriteFile(path, []byte(`{"weights":[0.5,0.3,0.2],"intercept":0.1}`), 0o644); err != nil {
		t.Fatalf("write weights: %v", err)
	}

	weights, err := LoadWeights(path)
	if err != nil {
		t.Fatalf("LoadWeights: %v", err)
	}

	ranker := NewRanker(nil, weights)
	scores := ranker.Score([]model.FeatureVector{{Match: 1, Rating: 1, Reviews: 1}})
	want := 0.5 + 0.3 + 0.2 + 0.1
	if math.Abs(scores[0]-want) > 1e-12 {
		t.Errorf("score with loaded weights = %v, want %v", scores[0], want)
	}
}

func TestLoadWeightsInvalid(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{name: "Wrong arity", content: `{"weights":[0.5,0.5],"intercept":0}`},
		{name: "Not JSON", content: `weights=0.5`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "bad.json")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("write weights: %v", err)
			}
			if _, err := LoadWeights(path); err == nil {
				t.Error("expected error for invalid weights file")
			}
		})
	}
}

// failingModel simulates a corrupt learned model whose predictions fail
type failingModel struct{}

func (failingModel) Predict([]model.FeatureVector) ([]float64, error) {
	return nil, errors.New("predictor exploded")
}

func (failingModel) Close() error { return nil }

func TestLearnedModelFailureFallsBackToLinear(t *testing.T) {
	ranker := NewRanker(failingModel{}, model.LinearWeights{Weights: []float64{0.6, 0.25, 0.15}})

	scores := ranker.Score([]model.FeatureVector{{Match: 0.8, Rating: 0.6, Reviews: 0.4}})
	want := 0.69
	if math.Abs(scores[0]-want) > 1e-12 {
		t.Errorf("fallback score = %v, want %v", scores[0], want)
	}
	if !ranker.ModelLoaded() {
		t.Error("a loaded-but-failing model still counts as loaded")
	}
}

// truncatingModel returns the wrong number of scores
type truncatingModel struct{}

func (truncatingModel) Predict(features []model.FeatureVector) ([]float64, error) {
	return make([]float64, len(features)/2), nil
}

func (truncatingModel) Close() error { return nil }

func TestLearnedModelShapeMismatchFallsBack(t *testing.T) {
	ranker := NewRanker(truncatingModel{}, model.LinearWeights{Weights: []float64{1, 0, 0}})

	features := []model.FeatureVector{{Match: 0.2}, {Match: 0.4}}
	scores := ranker.Score(features)
	if len(scores) != len(features) {
		t.Fatalf("expected %d scores from fallback, got %d", len(features), len(scores))
	}
}

func TestNewRankerMalformedWeights(t *testing.T) {
	tests := []struct {
		name    string
		weights model.LinearWeights
	}{
		{name: "Zero value", weights: model.LinearWeights{}},
		{name: "Too few", weights: model.LinearWeights{Weights: []float64{0.5}}},
		{name: "Too many", weights: model.LinearWeights{Weights: []float64{1, 1, 1, 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranker := NewRanker(nil, tt.weights)

			// Must not panic, and must score with the defaults instead.
			scores := ranker.Score([]model.FeatureVector{{Match: 0.8, Rating: 0.6, Reviews: 0.4}})
			want := 0.69
			if math.Abs(scores[0]-want) > 1e-12 {
				t.Errorf("score with substituted defaults = %v, want %v", scores[0], want)
			}
		})
	}
}

func TestScoreEmptyBatch(t *testing.T) {
	ranker := defaultTestRanker()
	if scores := ranker.Score(nil); len(scores) != 0 {
		t.Errorf("expected no scores for empty batch, got %v", scores)
	}
}
