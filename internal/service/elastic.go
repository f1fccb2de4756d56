package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"suggest/internal/config"
	"suggest/internal/model"

	"github.com/goccy/go-json"
)

// SearchEngine is the interface for the optional remote full-text engine
type SearchEngine interface {
	// Ping checks the engine is reachable and healthy
	Ping(ctx context.Context) error

	// Search runs a fuzzy multi-field query and returns candidates carrying
	// the engine's native relevance score
	Search(ctx context.Context, query string, size int) ([]model.Candidate, error)

	// IsEnabled returns whether the engine is administratively enabled
	IsEnabled() bool
}

// ElasticClient talks to an Elasticsearch-compatible HTTP API
type ElasticClient struct {
	cfg        *config.ElasticConfig
	httpClient *http.Client
}

// NewElasticClient creates a new client for the configured engine
func NewElasticClient(cfg *config.ElasticConfig) *ElasticClient {
	return &ElasticClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// IsEnabled returns whether remote search is administratively enabled
func (c *ElasticClient) IsEnabled() bool {
	return c != nil && c.cfg.Enabled
}

// searchRequest mirrors the engine's _search body: a fuzzy multi_match
// weighted toward the name field.
type searchRequest struct {
	Query searchQuery `json:"query"`
	Size  int         `json:"size"`
}

type searchQuery struct {
	MultiMatch multiMatch `json:"multi_match"`
}

type multiMatch struct {
	Query     string   `json:"query"`
	Fields    []string `json:"fields"`
	Fuzziness string   `json:"fuzziness"`
}

// searchResponse is the subset of the engine response we consume
type searchResponse struct {
	Hits struct {
		Hits []struct {
			Score  float64 `json:"_score"`
			Source struct {
				Name        string  `json:"name"`
				Rating      float64 `json:"rating"`
				ReviewCount int     `json:"review_count"`
			} `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Ping checks engine reachability with the client's short timeout
func (c *ElasticClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.URL, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("engine ping: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("engine ping: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// Search issues the fuzzy multi-field query against the configured index.
// Hits with an empty name are dropped; everything else maps to a Candidate
// with the engine's native score as MatchScore.
func (c *ElasticClient) Search(ctx context.Context, query string, size int) ([]model.Candidate, error) {
	body := searchRequest{
		Query: searchQuery{
			MultiMatch: multiMatch{
				Query:     query,
				Fields:    []string{"name^3"},
				Fuzziness: "AUTO",
			},
		},
		Size: size,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	url := fmt.Sprintf("%s/%s/_search", c.cfg.URL, c.cfg.Index)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("engine search: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read search response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("engine search: status %d: %s", resp.StatusCode, data)
	}

	var parsed searchResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse search response: %w", err)
	}

	candidates := make([]model.Candidate, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		if hit.Source.Name == "" {
			continue
		}
		candidates = append(candidates, model.Candidate{
			Name:        hit.Source.Name,
			MatchScore:  hit.Score,
			Rating:      hit.Source.Rating,
			ReviewCount: hit.Source.ReviewCount,
		})
	}
	return candidates, nil
}
