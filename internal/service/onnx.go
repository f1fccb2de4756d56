package service

import (
	"fmt"
	"sync"

	"suggest/internal/config"
	"suggest/internal/model"

	ort "github.com/yalue/onnxruntime_go"
)

// ONNXModel runs a regression model exported to ONNX: a float32 [N,3] input
// of feature vectors, a [N,1] output of scores. This is the Go-consumable
// form of the offline training pipeline's artifact; the service only ever
// runs inference on it.
type ONNXModel struct {
	session *ort.DynamicAdvancedSession

	// ORT sessions do not document concurrent Run as safe; serialize.
	mu sync.Mutex
}

// LoadONNXModel initializes the ONNX runtime once and opens a session over
// the configured artifact. Callers treat any error as "no learned model".
func LoadONNXModel(cfg *config.ModelConfig) (*ONNXModel, error) {
	if !ort.IsInitialized() {
		if cfg.OrtLibrary != "" {
			ort.SetSharedLibraryPath(cfg.OrtLibrary)
		}
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("initialize onnx runtime: %w", err)
		}
	}

	session, err := ort.NewDynamicAdvancedSession(
		cfg.Path,
		[]string{cfg.InputName},
		[]string{cfg.OutputName},
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("open onnx session: %w", err)
	}

	return &ONNXModel{session: session}, nil
}

// Predict scores the whole batch in one session run
func (m *ONNXModel) Predict(features []model.FeatureVector) ([]float64, error) {
	n := len(features)
	if n == 0 {
		return nil, nil
	}

	flat := make([]float32, 0, n*3)
	for _, f := range features {
		flat = append(flat, float32(f.Match), float32(f.Rating), float32(f.Reviews))
	}

	input, err := ort.NewTensor(ort.NewShape(int64(n), 3), flat)
	if err != nil {
		return nil, fmt.Errorf("create input tensor: %w", err)
	}
	defer input.Destroy()

	output, err := ort.NewEmptyTensor[float32](ort.NewShape(int64(n), 1))
	if err != nil {
		return nil, fmt.Errorf("create output tensor: %w", err)
	}
	defer output.Destroy()

	m.mu.Lock()
	err = m.session.Run([]ort.Value{input}, []ort.Value{output})
	m.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("run onnx session: %w", err)
	}

	data := output.GetData()
	if len(data) != n {
		return nil, fmt.Errorf("model returned %d scores for %d vectors", len(data), n)
	}

	scores := make([]float64, n)
	for i, v := range data {
		scores[i] = float64(v)
	}
	return scores, nil
}

// Close releases the session. The runtime environment is left initialized
// for the life of the process.
func (m *ONNXModel) Close() error {
	if m.session == nil {
		return nil
	}
	err := m.session.Destroy()
	m.session = nil
	return err
}
