package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"suggest/internal/config"

	"github.com/goccy/go-json"
)

func elasticTestConfig(url string) *config.ElasticConfig {
	return &config.ElasticConfig{
		Enabled: true,
		URL:     url,
		Index:   "places",
		Timeout: 2 * time.Second,
	}
}

func TestElasticSearchParsesHits(t *testing.T) {
	var gotBody searchRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.WriteHeader(http.StatusOK)
			return
		}
		if r.URL.Path != "/places/_search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"hits": {"hits": [
				{"_score": 14.2, "_source": {"name": "Đà Lạt", "rating": 4.6, "review_count": 3200}},
				{"_score": 8.1, "_source": {"name": "Đà Nẵng", "rating": 4.4, "review_count": 5100}},
				{"_score": 1.0, "_source": {"name": ""}}
			]}
		}`))
	}))
	defer server.Close()

	client := NewElasticClient(elasticTestConfig(server.URL))
	candidates, err := client.Search(context.Background(), "da", 50)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates (nameless hit dropped), got %d", len(candidates))
	}
	if candidates[0].Name != "Đà Lạt" || candidates[0].MatchScore != 14.2 {
		t.Errorf("unexpected first candidate: %+v", candidates[0])
	}
	if candidates[1].Rating != 4.4 || candidates[1].ReviewCount != 5100 {
		t.Errorf("unexpected second candidate: %+v", candidates[1])
	}

	if gotBody.Size != 50 {
		t.Errorf("expected size 50 in request, got %d", gotBody.Size)
	}
	if gotBody.Query.MultiMatch.Query != "da" || gotBody.Query.MultiMatch.Fuzziness != "AUTO" {
		t.Errorf("unexpected query body: %+v", gotBody.Query)
	}
	if len(gotBody.Query.MultiMatch.Fields) != 1 || gotBody.Query.MultiMatch.Fields[0] != "name^3" {
		t.Errorf("query must weight the name field, got %v", gotBody.Query.MultiMatch.Fields)
	}
}

func TestElasticSearchNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewElasticClient(elasticTestConfig(server.URL))
	if _, err := client.Search(context.Background(), "da", 50); err == nil {
		t.Error("expected error for non-2xx response")
	}
}

func TestElasticPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	client := NewElasticClient(elasticTestConfig(server.URL))
	if err := client.Ping(context.Background()); err != nil {
		t.Errorf("Ping against healthy server: %v", err)
	}

	server.Close()
	if err := client.Ping(context.Background()); err == nil {
		t.Error("expected ping failure against closed server")
	}
}

func TestElasticDisabled(t *testing.T) {
	client := NewElasticClient(&config.ElasticConfig{Enabled: false})
	if client.IsEnabled() {
		t.Error("client must report disabled when config disables it")
	}
}
