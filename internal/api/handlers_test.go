package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mihircjain/localhealthrepo/internal/auth"
	"github.com/mihircjain/localhealthrepo/internal/domain"
	"github.com/mihircjain/localhealthrepo/internal/insights"
	"github.com/mihircjain/localhealthrepo/internal/intent"
	"github.com/mihircjain/localhealthrepo/internal/persistence/memory"
	"github.com/mihircjain/localhealthrepo/internal/query"
	"github.com/mihircjain/localhealthrepo/internal/timerange"
)

const testUser = "user-1"

func newTestMux(t *testing.T) (*http.ServeMux, *memory.Store) {
	t.Helper()

	store := memory.NewStore()
	store.AddUser(testUser)
	store.AddSource(domain.DataSource{Name: "Strava", SourceType: "activity"})
	store.AddSource(domain.DataSource{Name: "Apple Health", SourceType: "sleep"})

	ranges := timerange.NewResolver()
	generator := insights.NewGenerator(store, store, store, store, store)

	activity := query.NewActivityHandler(store, store, ranges)
	sleep := query.NewSleepHandler(store, store, ranges)
	engine := query.NewEngine(store, store, intent.NewClassifier(), map[intent.Intent]query.Handler{
		intent.Activity: activity,
		intent.Sleep:    sleep,
	})

	mux := http.NewServeMux()
	NewHandler(engine, store, store, generator).RegisterRoutes(mux)
	return mux, store
}

// request builds an authenticated request carrying the given scopes.
func request(method, target, body string, scopes ...string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))

	scopeSet := make(map[string]struct{}, len(scopes))
	for _, s := range scopes {
		scopeSet[s] = struct{}{}
	}
	claims := &auth.Claims{Subject: testUser, Scopes: scopeSet, ExpiresAt: time.Now().Add(time.Hour)}
	return req.WithContext(auth.WithClaims(req.Context(), claims))
}

func TestSubmitQueryEndpoint(t *testing.T) {
	mux, store := newTestMux(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, request(http.MethodPost, "/v1/query",
		`{"user_id":"user-1","query":"how did i sleep this week"}`, auth.ScopeHealthRead))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp SubmitQueryResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp.QueryID)
	require.Contains(t, resp.Response, "I couldn't find any sleep records")

	stored, err := store.ListQueries(context.Background(), testUser, 10, 0)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.Equal(t, resp.QueryID, stored[0].ID)
}

func TestSubmitQueryRequiresScope(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, request(http.MethodPost, "/v1/query",
		`{"user_id":"user-1","query":"how did i sleep this week"}`, auth.ScopeInsightsRead))

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSubmitQueryValidatesBody(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, request(http.MethodPost, "/v1/query",
		`{"user_id":"user-1"}`, auth.ScopeHealthRead))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, "validation_failed", resp["error"])
	require.Equal(t, "query is required", resp["detail"])
}

func TestQueryHistoryRequiresUserID(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, request(http.MethodGet, "/v1/queries", "", auth.ScopeHealthRead))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListInsightsReturnsStored(t *testing.T) {
	mux, store := newTestMux(t)

	seeded := []domain.Insight{
		{ID: "ins-1", UserID: testUser, Type: domain.InsightTrend, Text: "trend", Relevance: 0.8},
		{ID: "ins-2", UserID: testUser, Type: domain.InsightRecommendation, Text: "recommendation", Relevance: 0.95},
	}
	req := request(http.MethodGet, "/v1/insights?user_id="+testUser, "", auth.ScopeInsightsRead)
	require.NoError(t, store.ReplaceInsights(req.Context(), testUser, seeded))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ListInsightsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, 2, resp.Total)
	require.Len(t, resp.Insights, 2)
	// Listing orders by relevance, highest first.
	require.Equal(t, "ins-2", resp.Insights[0].InsightID)
}

func TestMarkInsightRead(t *testing.T) {
	mux, store := newTestMux(t)

	req := request(http.MethodPost, "/v1/insights/ins-1/read", "", auth.ScopeInsightsWrite)
	require.NoError(t, store.ReplaceInsights(req.Context(), testUser, []domain.Insight{
		{ID: "ins-1", UserID: testUser, Type: domain.InsightTrend, Text: "trend"},
	}))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := store.ListInsights(req.Context(), testUser, 10, 0)
	require.NoError(t, err)
	require.True(t, stored[0].IsRead)
}

func TestMarkInsightReadUnknownID(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, request(http.MethodPost, "/v1/insights/missing/read", "", auth.ScopeInsightsWrite))

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGenerateInsightsEndpoint(t *testing.T) {
	mux, store := newTestMux(t)

	req := request(http.MethodPost, "/v1/insights/generate",
		`{"user_id":"user-1","start_date":"2025-06-01T00:00:00Z","end_date":"2025-06-18T00:00:00Z"}`,
		auth.ScopeInsightsWrite)
	require.NoError(t, store.InsertSleepRecord(req.Context(), domain.SleepRecord{
		UserID:    testUser,
		StartTime: time.Date(2025, time.June, 10, 23, 0, 0, 0, time.UTC),
		Duration:  5 * 3600,
	}))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp GenerateInsightsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, 1, resp.Generated)
	require.Equal(t, "recommendation", resp.Insights[0].Type)
}
