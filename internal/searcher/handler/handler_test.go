package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/AKNosov/InfSearch/internal/searcher"
	"github.com/AKNosov/InfSearch/internal/searcher/executor"
	"github.com/AKNosov/InfSearch/pkg/config"
	"github.com/AKNosov/InfSearch/pkg/metrics"
)

var (
	metricsOnce sync.Once
	testMetrics *metrics.Metrics
)

func sharedMetrics() *metrics.Metrics {
	metricsOnce.Do(func() {
		testMetrics = metrics.New()
	})
	return testMetrics
}

type fakeSource struct{}

func (fakeSource) ForEachPage(ctx context.Context, limit int, fn func(id int, url, text string) error) (int, error) {
	pages := [][2]string{
		{"https://a.example/0", "нефть и газ европа"},
		{"https://a.example/1", "газ россия"},
		{"https://a.example/2", "нефть санкции европа"},
	}
	for i, p := range pages {
		if err := fn(i, p[0], p[1]); err != nil {
			return i, err
		}
	}
	return len(pages), nil
}

func builtService(t *testing.T) *searcher.Service {
	t.Helper()
	svc := searcher.New(fakeSource{}, config.IndexerConfig{InitialTableSize: 64}, nil)
	if err := svc.Rebuild(context.Background()); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	return svc
}

func TestSearchEndpoint(t *testing.T) {
	h := New(builtService(t), nil, sharedMetrics(), 20, 1000)

	req := httptest.NewRequest("GET", "/api/v1/search?q=газ", nil)
	rec := httptest.NewRecorder()
	h.Search(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var result executor.SearchResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if result.TotalHits != 2 || len(result.IDs) != 2 {
		t.Errorf("result = %+v, want 2 hits", result)
	}
	if len(result.URLs) != 2 || result.URLs[0] != "https://a.example/0" {
		t.Errorf("urls = %v", result.URLs)
	}
}

func TestSearchEndpointLimit(t *testing.T) {
	h := New(builtService(t), nil, sharedMetrics(), 20, 1000)

	req := httptest.NewRequest("GET", "/api/v1/search?q=газ&limit=1", nil)
	rec := httptest.NewRecorder()
	h.Search(rec, req)

	var result executor.SearchResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	// The limit pages urls, never the id list.
	if len(result.URLs) != 1 || result.TotalHits != 2 || len(result.IDs) != 2 {
		t.Errorf("result = %+v", result)
	}
}

func TestSearchEndpointRejectsBadInput(t *testing.T) {
	h := New(builtService(t), nil, sharedMetrics(), 20, 1000)

	for _, target := range []string{
		"/api/v1/search",
		"/api/v1/search?q=газ&limit=0",
		"/api/v1/search?q=газ&limit=abc",
	} {
		rec := httptest.NewRecorder()
		h.Search(rec, httptest.NewRequest("GET", target, nil))
		if rec.Code != 400 {
			t.Errorf("%s: status = %d, want 400", target, rec.Code)
		}
	}
}

func TestSearchEndpointBeforeBuild(t *testing.T) {
	svc := searcher.New(fakeSource{}, config.IndexerConfig{InitialTableSize: 64}, nil)
	h := New(svc, nil, sharedMetrics(), 20, 1000)

	rec := httptest.NewRecorder()
	h.Search(rec, httptest.NewRequest("GET", "/api/v1/search?q=газ", nil))
	if rec.Code != 503 {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestStatsEndpoint(t *testing.T) {
	h := New(builtService(t), nil, sharedMetrics(), 20, 1000)

	rec := httptest.NewRecorder()
	h.Stats(rec, httptest.NewRequest("GET", "/api/v1/index/stats", nil))
	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	var stats map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decoding stats: %v", err)
	}
	if stats["docs"].(float64) != 3 {
		t.Errorf("stats = %v", stats)
	}
}
