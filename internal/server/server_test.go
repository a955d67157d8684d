package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/juliosaraiva/a3data-sub001/internal/cache"
	"github.com/juliosaraiva/a3data-sub001/internal/extract"
	"github.com/juliosaraiva/a3data-sub001/internal/llm"
	"github.com/juliosaraiva/a3data-sub001/internal/model"
	"github.com/juliosaraiva/a3data-sub001/internal/worker"
)

func testConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.LLM.Provider = "mock"
	cfg.RateLimit.Enabled = false
	cfg.Cache.Enabled = false
	return cfg
}

func newTestServer(t *testing.T, cfg *model.Config, provider llm.Provider, extractor worker.Extractor) *Server {
	t.Helper()

	if extractor == nil {
		e := extract.NewExtractor(cfg, provider, zap.NewNop())
		e.Normalizer().Now = func() time.Time {
			return time.Date(2025, 8, 26, 10, 0, 0, 0, time.UTC)
		}
		extractor = e
	}

	var c cache.Cache
	if cfg.Cache.Enabled {
		c = cache.NewMemoryCache(cfg.Cache.ResultTTL, 10*time.Minute)
	}

	s, err := NewServer(cfg, extractor, provider, c, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}
	return s
}

func doExtract(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/extract", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleExtract_Success(t *testing.T) {
	s := newTestServer(t, testConfig(), llm.NewMockProvider(""), nil)

	rec := doExtract(t, s, `{"description": "Falha no servidor principal ontem às 14h em São Paulo"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		DataOcorrencia *string `json:"data_ocorrencia"`
		Local          *string `json:"local"`
		TipoIncidente  *string `json:"tipo_incidente"`
		Impacto        *string `json:"impacto"`
		Confidence     float64 `json:"confidence"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if resp.DataOcorrencia == nil || *resp.DataOcorrencia != "2025-08-20 14:00" {
		t.Errorf("Unexpected data_ocorrencia: %v", resp.DataOcorrencia)
	}
	if resp.Local == nil || *resp.Local != "São Paulo" {
		t.Errorf("Unexpected local: %v", resp.Local)
	}
	if resp.Confidence != 0.8 {
		t.Errorf("Expected confidence 0.8, got %f", resp.Confidence)
	}
}

func TestHandleExtract_QualityVerdict(t *testing.T) {
	s := newTestServer(t, testConfig(), llm.NewMockProvider(""), nil)

	rec := doExtract(t, s, `{"description": "Falha no servidor principal ontem às 14h em São Paulo", "include_quality": true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Quality *QualityVerdict `json:"quality"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Quality == nil {
		t.Fatal("Expected quality verdict in response")
	}
	if !resp.Quality.HighQuality && resp.Quality.Reason == "" {
		t.Error("Unsatisfied verdict must carry a reason")
	}
}

func TestHandleExtract_ValidationError(t *testing.T) {
	s := newTestServer(t, testConfig(), llm.NewMockProvider(""), nil)

	rec := doExtract(t, s, `{"description": "curto"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Error != "validation failed" {
		t.Errorf("Unexpected error: %s", resp.Error)
	}
}

func TestHandleExtract_MalformedBody(t *testing.T) {
	s := newTestServer(t, testConfig(), llm.NewMockProvider(""), nil)

	rec := doExtract(t, s, `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleExtract_DegradedGatewayStillExtracts(t *testing.T) {
	provider := llm.NewMockProvider("")
	provider.SetAvailable(false)
	s := newTestServer(t, testConfig(), provider, nil)

	rec := doExtract(t, s, `{"description": "Sistema caiu ontem às 14h"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Fallback extraction must still answer 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		DataOcorrencia *string `json:"data_ocorrencia"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.DataOcorrencia == nil || !strings.Contains(*resp.DataOcorrencia, "2025-08-25") {
		t.Errorf("Expected fallback date, got %v", resp.DataOcorrencia)
	}
}

// countingExtractor counts Extract calls around a fixed record.
type countingExtractor struct {
	calls  atomic.Int64
	record *model.IncidentRecord
}

func (e *countingExtractor) Extract(_ context.Context, _ string) (*model.IncidentRecord, error) {
	e.calls.Add(1)
	return e.record, nil
}

func TestHandleExtract_ResultCache(t *testing.T) {
	cfg := testConfig()
	cfg.Cache.Enabled = true

	extractor := &countingExtractor{record: &model.IncidentRecord{
		TipoIncidente: model.StringPtr("falha"),
		Confidence:    0.2,
	}}
	s := newTestServer(t, cfg, llm.NewMockProvider(""), extractor)

	body := `{"description": "Falha no servidor principal"}`
	for i := 0; i < 3; i++ {
		if rec := doExtract(t, s, body); rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", rec.Code)
		}
	}

	if got := extractor.calls.Load(); got != 1 {
		t.Errorf("Expected 1 extraction for identical descriptions, got %d", got)
	}
}

func TestHandleHealth(t *testing.T) {
	tests := []struct {
		name          string
		available     bool
		wantStatus    string
		wantAvailable bool
	}{
		{"healthy", true, "healthy", true},
		{"degraded", false, "degraded", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := llm.NewMockProvider("")
			provider.SetAvailable(tt.available)
			s := newTestServer(t, testConfig(), provider, nil)

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("Expected 200, got %d", rec.Code)
			}

			var resp HealthResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if resp.Status != tt.wantStatus {
				t.Errorf("Expected status %s, got %s", tt.wantStatus, resp.Status)
			}
			if resp.LLMAvailable != tt.wantAvailable {
				t.Errorf("Expected llm_available=%v, got %v", tt.wantAvailable, resp.LLMAvailable)
			}
			if resp.LLMProvider != "mock" {
				t.Errorf("Expected provider mock, got %s", resp.LLMProvider)
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.Enabled = true
	cfg.RateLimit.RequestsPerSecond = 0.01
	cfg.RateLimit.Burst = 2

	s := newTestServer(t, cfg, llm.NewMockProvider(""), nil)

	codes := make(map[int]int)
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		codes[rec.Code]++
	}

	if codes[http.StatusOK] != 2 {
		t.Errorf("Expected 2 requests inside the burst, got %d", codes[http.StatusOK])
	}
	if codes[http.StatusTooManyRequests] != 3 {
		t.Errorf("Expected 3 rate-limited requests, got %d", codes[http.StatusTooManyRequests])
	}
}
