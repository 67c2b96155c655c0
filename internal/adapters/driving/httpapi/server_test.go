package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tapsight-labs/possync/internal/core/domain"
	"github.com/tapsight-labs/possync/internal/core/ports/driving"
)

// stubOrchestrator implements driving.Orchestrator with canned results.
type stubOrchestrator struct {
	dayResult   *domain.RunResult
	dayErr      error
	rangeResult *domain.BackfillResult
	rangeErr    error

	gotBarID      string
	gotDate       domain.Date
	gotCategories []domain.Category
	gotOpts       driving.RangeOptions
}

func (s *stubOrchestrator) RunDay(_ context.Context, barID string, date domain.Date, categories []domain.Category) (*domain.RunResult, error) {
	s.gotBarID, s.gotDate, s.gotCategories = barID, date, categories
	return s.dayResult, s.dayErr
}

func (s *stubOrchestrator) RunRange(_ context.Context, barID string, _, _ domain.Date, categories []domain.Category, opts driving.RangeOptions) (*domain.BackfillResult, error) {
	s.gotBarID, s.gotCategories, s.gotOpts = barID, categories, opts
	return s.rangeResult, s.rangeErr
}

// stubPlanner implements driving.Planner.
type stubPlanner struct {
	missing []domain.Date
	err     error
}

func (s *stubPlanner) FindMissingDates(_ context.Context, _ string, _ domain.Category, _, _ domain.Date) ([]domain.Date, error) {
	return s.missing, s.err
}

func doRequest(t *testing.T, server *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	server.echo.ServeHTTP(rec, req)
	return rec
}

func TestServer_Health(t *testing.T) {
	server := NewServer(&stubOrchestrator{}, &stubPlanner{}, "1.2.3")

	rec := doRequest(t, server, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "1.2.3")
}

func TestServer_Sync(t *testing.T) {
	orch := &stubOrchestrator{dayResult: &domain.RunResult{RunID: "run-1", BarID: "bar-1", Date: "2025-02-01"}}
	server := NewServer(orch, &stubPlanner{}, "test")

	rec := doRequest(t, server, http.MethodPost, "/v1/sync",
		`{"bar_id":"bar-1","date":"2025-02-01","categories":["analitico","pagamentos"]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "bar-1", orch.gotBarID)
	assert.Equal(t, domain.Date("2025-02-01"), orch.gotDate)
	assert.Equal(t, []domain.Category{domain.CategoryAnalitico, domain.CategoryPayments}, orch.gotCategories)

	var result domain.RunResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "run-1", result.RunID)
}

func TestServer_Sync_Validation(t *testing.T) {
	server := NewServer(&stubOrchestrator{}, &stubPlanner{}, "test")

	tests := []struct {
		name string
		body string
	}{
		{"missing bar_id", `{"date":"2025-02-01"}`},
		{"bad date", `{"bar_id":"bar-1","date":"01/02/2025"}`},
		{"bad category", `{"bar_id":"bar-1","categories":["nope"]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, server, http.MethodPost, "/v1/sync", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestServer_Sync_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unknown bar", domain.ErrUnknownBar, http.StatusBadRequest},
		{"no session", domain.ErrNoSession, http.StatusUnauthorized},
		{"missing credentials", domain.ErrMissingCredentials, http.StatusUnauthorized},
		{"provider down", assert.AnError, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := NewServer(&stubOrchestrator{dayErr: tt.err}, &stubPlanner{}, "test")
			rec := doRequest(t, server, http.MethodPost, "/v1/sync", `{"bar_id":"bar-1","date":"2025-02-01"}`)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestServer_Backfill(t *testing.T) {
	orch := &stubOrchestrator{rangeResult: &domain.BackfillResult{RunID: "run-2", BarID: "bar-1", From: "2025-02-01", To: "2025-02-03"}}
	server := NewServer(orch, &stubPlanner{}, "test")

	rec := doRequest(t, server, http.MethodPost, "/v1/backfill",
		`{"bar_id":"bar-1","from":"2025-02-01","to":"2025-02-03","plan_first":true}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, orch.gotOpts.PlanFirst)
	assert.False(t, orch.gotOpts.DeferProcessing)

	var result domain.BackfillResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "run-2", result.RunID)
}

func TestServer_Backfill_BadWindow(t *testing.T) {
	server := NewServer(&stubOrchestrator{}, &stubPlanner{}, "test")

	rec := doRequest(t, server, http.MethodPost, "/v1/backfill", `{"bar_id":"bar-1","from":"2025-02-01"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "to:")
}

func TestServer_Gaps(t *testing.T) {
	planner := &stubPlanner{missing: []domain.Date{"2025-02-01", "2025-02-02"}}
	server := NewServer(&stubOrchestrator{}, planner, "test")

	rec := doRequest(t, server, http.MethodGet,
		"/v1/gaps?bar_id=bar-1&category=analitico&from=2025-02-01&to=2025-02-28", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp gapsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []domain.Date{"2025-02-01", "2025-02-02"}, resp.Missing)
}

func TestServer_Gaps_EmptyIsList(t *testing.T) {
	server := NewServer(&stubOrchestrator{}, &stubPlanner{}, "test")

	rec := doRequest(t, server, http.MethodGet,
		"/v1/gaps?bar_id=bar-1&category=analitico&from=2025-02-01&to=2025-02-28", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"missing":[]`)
}

func TestServer_Gaps_RequiresCategory(t *testing.T) {
	server := NewServer(&stubOrchestrator{}, &stubPlanner{}, "test")

	rec := doRequest(t, server, http.MethodGet, "/v1/gaps?bar_id=bar-1&from=2025-02-01&to=2025-02-28", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
