// Package api exposes the HTTP handlers for the health query service.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mihircjain/localhealthrepo/internal/auth"
	"github.com/mihircjain/localhealthrepo/internal/domain"
	"github.com/mihircjain/localhealthrepo/internal/query"
)

// Handler coordinates HTTP requests with the query engine and the insight
// generator.
type Handler struct {
	engine    *query.Engine
	queries   domain.QueryStore
	insights  domain.InsightStore
	generator query.InsightProvider
}

// NewHandler builds a Handler.
func NewHandler(engine *query.Engine, queries domain.QueryStore, insights domain.InsightStore, generator query.InsightProvider) *Handler {
	return &Handler{engine: engine, queries: queries, insights: insights, generator: generator}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/query", h.submitQuery)
	mux.HandleFunc("/v1/queries", h.queryHistory)
	mux.HandleFunc("/v1/insights", h.listInsights)
	mux.HandleFunc("/v1/insights/generate", h.generateInsights)
	mux.HandleFunc("/v1/insights/", h.insightByID)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) submitQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	if !claims.HasScope(auth.ScopeHealthRead) {
		writeError(w, http.StatusForbidden, "forbidden", "scope health:read required")
		return
	}

	var req SubmitQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	result, err := h.engine.SubmitQuery(r.Context(), req.UserID, req.Query)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, SubmitQueryResponse{
		QueryID:         result.QueryID,
		Response:        result.Response,
		DataSourcesUsed: result.SourcesUsed,
	})
}

func (h *Handler) queryHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	if !claims.HasScope(auth.ScopeHealthRead) {
		writeError(w, http.StatusForbidden, "forbidden", "scope health:read required")
		return
	}

	userID := r.URL.Query().Get("user_id")
	if strings.TrimSpace(userID) == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "missing user_id parameter")
		return
	}
	limit, offset := pagination(r, 20)

	queries, err := h.queries.ListQueries(r.Context(), userID, limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	total, err := h.queries.CountQueries(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	items := make([]QueryView, 0, len(queries))
	for _, q := range queries {
		items = append(items, toQueryView(q))
	}
	writeJSON(w, http.StatusOK, QueryHistoryResponse{Queries: items, Total: total})
}

func (h *Handler) listInsights(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	if !claims.HasScope(auth.ScopeInsightsRead) {
		writeError(w, http.StatusForbidden, "forbidden", "scope insights:read required")
		return
	}

	userID := r.URL.Query().Get("user_id")
	if strings.TrimSpace(userID) == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "missing user_id parameter")
		return
	}
	limit, offset := pagination(r, 10)

	insights, err := h.insights.ListInsights(r.Context(), userID, limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	total, err := h.insights.CountInsights(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	items := make([]InsightView, 0, len(insights))
	for _, insight := range insights {
		items = append(items, toInsightView(insight))
	}
	writeJSON(w, http.StatusOK, ListInsightsResponse{Insights: items, Total: total})
}

func (h *Handler) generateInsights(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	if !claims.HasScope(auth.ScopeInsightsWrite) {
		writeError(w, http.StatusForbidden, "forbidden", "scope insights:write required")
		return
	}

	var req GenerateInsightsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "user_id is required")
		return
	}

	insights, err := h.generator.Generate(r.Context(), req.UserID, req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	items := make([]InsightView, 0, len(insights))
	for _, insight := range insights {
		items = append(items, toInsightView(insight))
	}
	writeJSON(w, http.StatusOK, GenerateInsightsResponse{Generated: len(insights), Insights: items})
}

func (h *Handler) insightByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/insights/")
	id, action, found := strings.Cut(rest, "/")
	if id == "" || !found || action != "read" {
		writeError(w, http.StatusNotFound, "not_found", "unknown insight route")
		return
	}
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	if !claims.HasScope(auth.ScopeInsightsWrite) {
		writeError(w, http.StatusForbidden, "forbidden", "scope insights:write required")
		return
	}

	if err := h.insights.MarkInsightRead(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrInsightNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "insight not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, MarkReadResponse{Message: "insight marked as read"})
}

func pagination(r *http.Request, defaultLimit int) (int, int) {
	limit := defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	offset := 0
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	return limit, offset
}

// SubmitQueryRequest is the payload for POST /v1/query.
type SubmitQueryRequest struct {
	UserID string `json:"user_id"`
	Query  string `json:"query"`
}

// Validate ensures request correctness.
func (r SubmitQueryRequest) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return errors.New("user_id is required")
	}
	if strings.TrimSpace(r.Query) == "" {
		return errors.New("query is required")
	}
	return nil
}

// SubmitQueryResponse describes the response body for a submitted query.
type SubmitQueryResponse struct {
	QueryID         string   `json:"query_id"`
	Response        string   `json:"response"`
	DataSourcesUsed []string `json:"data_sources_used"`
}

// QueryView exposes one stored query.
type QueryView struct {
	QueryID      string    `json:"query_id"`
	UserID       string    `json:"user_id"`
	QueryText    string    `json:"query_text"`
	QueryTime    time.Time `json:"query_time"`
	ResponseText string    `json:"response_text"`
	SourcesUsed  []string  `json:"sources_used"`
}

// QueryHistoryResponse packages the query history.
type QueryHistoryResponse struct {
	Queries []QueryView `json:"queries"`
	Total   int         `json:"total"`
}

// InsightView exposes one stored insight.
type InsightView struct {
	InsightID   string    `json:"insight_id"`
	UserID      string    `json:"user_id"`
	Type        string    `json:"insight_type"`
	Text        string    `json:"insight_text"`
	DataSources []string  `json:"data_sources"`
	Relevance   float64   `json:"relevance"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	IsRead      bool      `json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}

// ListInsightsResponse packages list results.
type ListInsightsResponse struct {
	Insights []InsightView `json:"insights"`
	Total    int           `json:"total"`
}

// GenerateInsightsRequest is the payload for POST /v1/insights/generate.
// Zero dates default to the trailing thirty days.
type GenerateInsightsRequest struct {
	UserID    string    `json:"user_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// GenerateInsightsResponse reports a completed generation run.
type GenerateInsightsResponse struct {
	Generated int           `json:"generated"`
	Insights  []InsightView `json:"insights"`
}

// MarkReadResponse confirms a mark-read call.
type MarkReadResponse struct {
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"error":  code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func toQueryView(q domain.UserQuery) QueryView {
	return QueryView{
		QueryID:      q.ID,
		UserID:       q.UserID,
		QueryText:    q.QueryText,
		QueryTime:    q.QueryTime,
		ResponseText: q.ResponseText,
		SourcesUsed:  q.SourcesUsed,
	}
}

func toInsightView(insight domain.Insight) InsightView {
	return InsightView{
		InsightID:   insight.ID,
		UserID:      insight.UserID,
		Type:        string(insight.Type),
		Text:        insight.Text,
		DataSources: insight.DataSources,
		Relevance:   insight.Relevance,
		StartDate:   insight.StartDate,
		EndDate:     insight.EndDate,
		IsRead:      insight.IsRead,
		CreatedAt:   insight.CreatedAt,
	}
}
