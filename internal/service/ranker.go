package service

import (
	"fmt"
	"os"

	"suggest/internal/config"
	"suggest/internal/model"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-json"
)

// LearnedModel is an opaque predictor over batches of feature vectors
type LearnedModel interface {
	Predict(features []model.FeatureVector) ([]float64, error)
	Close() error
}

// Scorer scores feature vectors; implemented by Ranker and by test stubs
type Scorer interface {
	Score(features []model.FeatureVector) []float64
	ModelLoaded() bool
}

// Ranker scores candidates' feature vectors. It delegates to the learned
// model when one is loaded; on predict failure it logs and falls back to the
// linear blend for that request only, so a corrupt artifact never fails a
// request. With no model at all, the linear blend is the primary path.
type Ranker struct {
	learned LearnedModel
	weights model.LinearWeights
}

// NewRanker creates a ranker from an optional learned model and linear
// weights. Both may be absent; see LoadRanker for the usual wiring. A
// weights slice that does not hold exactly three entries is replaced by the
// built-in defaults, so a zero-value LinearWeights never panics in Score.
func NewRanker(learned LearnedModel, weights model.LinearWeights) *Ranker {
	if len(weights.Weights) != 3 {
		if weights.Weights != nil {
			log.Warnf("Linear weights must hold exactly 3 entries, got %d; using defaults", len(weights.Weights))
		}
		weights = defaultWeights()
	}
	return &Ranker{learned: learned, weights: weights}
}

// defaultWeights mirrors the configuration defaults for the linear blend.
func defaultWeights() model.LinearWeights {
	return model.LinearWeights{Weights: []float64{0.6, 0.25, 0.15}}
}

// LoadRanker assembles the ranker from the configured artifacts, in
// precedence order: ONNX predictor, weights file, heuristic defaults. Every
// load failure degrades to the next rung and is logged, never fatal.
func LoadRanker(modelCfg *config.ModelConfig, rankCfg *config.RankConfig) *Ranker {
	var learned LearnedModel
	if modelCfg.Path != "" {
		if _, err := os.Stat(modelCfg.Path); err == nil {
			m, err := LoadONNXModel(modelCfg)
			if err != nil {
				log.Errorf("Failed to load model %s: %v", modelCfg.Path, err)
			} else {
				log.Infof("Loaded model %s", modelCfg.Path)
				learned = m
			}
		}
	}

	weights := model.LinearWeights{
		Weights: []float64{rankCfg.WeightMatch, rankCfg.WeightRating, rankCfg.WeightReviews},
	}
	if modelCfg.WeightsPath != "" {
		if _, err := os.Stat(modelCfg.WeightsPath); err == nil {
			w, err := LoadWeights(modelCfg.WeightsPath)
			if err != nil {
				log.Errorf("Failed to load weights %s: %v", modelCfg.WeightsPath, err)
			} else {
				log.Infof("Loaded weights %s", modelCfg.WeightsPath)
				weights = w
			}
		}
	}

	return NewRanker(learned, weights)
}

// LoadWeights parses a {"weights":[w_match,w_rating,w_reviews],"intercept":b}
// artifact and validates its shape.
func LoadWeights(path string) (model.LinearWeights, error) {
	var weights model.LinearWeights

	data, err := os.ReadFile(path)
	if err != nil {
		return weights, fmt.Errorf("read weights file: %w", err)
	}
	if err := json.Unmarshal(data, &weights); err != nil {
		return weights, fmt.Errorf("parse weights file: %w", err)
	}
	if len(weights.Weights) != 3 {
		return weights, fmt.Errorf("weights file must hold exactly 3 weights, got %d", len(weights.Weights))
	}
	return weights, nil
}

// Score returns one score per feature vector, same order
func (r *Ranker) Score(features []model.FeatureVector) []float64 {
	if len(features) == 0 {
		return nil
	}

	if r.learned != nil {
		scores, err := r.learned.Predict(features)
		if err == nil && len(scores) == len(features) {
			return scores
		}
		if err != nil {
			log.Errorf("Model predict failed, falling back to linear blend: %v", err)
		} else {
			log.Errorf("Model returned %d scores for %d vectors, falling back to linear blend", len(scores), len(features))
		}
	}

	scores := make([]float64, len(features))
	for i, f := range features {
		scores[i] = r.weights.Score(f)
	}
	return scores
}

// ModelLoaded reports whether a learned model backs this ranker
func (r *Ranker) ModelLoaded() bool {
	return r.learned != nil
}

// Close releases the learned model, if any
func (r *Ranker) Close() error {
	if r.learned == nil {
		return nil
	}
	return r.learned.Close()
}
