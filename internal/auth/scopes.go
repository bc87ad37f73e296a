package auth

// Known OAuth scopes used by the API.
const (
	ScopeHealthRead    = "health:read"
	ScopeHealthWrite   = "health:write"
	ScopeInsightsRead  = "insights:read"
	ScopeInsightsWrite = "insights:write"
)
