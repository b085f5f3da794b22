package httpapi

import (
	"net/http"

	"github.com/adpulse/gateway/internal/domain"
)

// Route binds a handler to its method, path, and declared requirement set.
// The Name keys the rate-limit counter and audit trail for the operation.
type Route struct {
	Method       string
	Pattern      string
	Name         string
	Requirements Requirements
	Handler      http.HandlerFunc
}

// Routes returns the gateway's route table.
func Routes(h *Handlers) []Route {
	routes := []Route{
		{
			Method:  http.MethodGet,
			Pattern: "/healthz",
			Name:    "health",
			Handler: h.Health,
		},
		{
			Method:       http.MethodGet,
			Pattern:      "/v1/analytics/usage",
			Name:         "usage_read",
			Requirements: Requirements{RequiresAuth: true},
			Handler:      h.ListUsage,
		},
		{
			Method:       http.MethodGet,
			Pattern:      "/v1/analytics/feedback",
			Name:         "feedback_read",
			Requirements: Requirements{RequiresAuth: true},
			Handler:      h.ListFeedback,
		},
		{
			Method:       http.MethodPut,
			Pattern:      "/v1/preferences",
			Name:         "preferences_update",
			Requirements: Requirements{RequiresAuth: true},
			Handler:      h.UpdatePreferences,
		},
		{
			Method:       http.MethodPost,
			Pattern:      "/v1/admin/cache/refresh",
			Name:         "cache_refresh",
			Requirements: Requirements{RequiresAuth: true, RequiresAdmin: true, RateLimited: true},
			Handler:      h.RefreshCache,
		},
		{
			Method:       http.MethodPost,
			Pattern:      "/v1/admin/reports/export",
			Name:         "report_export",
			Requirements: Requirements{RequiresAuth: true, RequiresAdmin: true},
			Handler:      h.ExportReport,
		},
	}

	if h.authSvc != nil {
		routes = append(routes, Route{
			Method:  http.MethodPost,
			Pattern: "/v1/auth/token",
			Name:    "token_issue",
			Handler: h.IssueToken,
		})
	}

	return routes
}

// NewRouter assembles the full handler chain: CORS, then the gate, then
// the route's handler.
func NewRouter(gate *Gate, allowedOrigins []string, routes []Route) http.Handler {
	mux := http.NewServeMux()
	for _, route := range routes {
		mux.Handle(route.Method+" "+route.Pattern, gated(gate, route))
	}

	return corsMiddleware(allowedOrigins, mux)
}

// gated wraps a route's handler with the admission check. Admitted
// requests carry the principal in their context.
func gated(gate *Gate, route Route) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		decision, err := gate.Admit(r, route.Name, route.Requirements)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		if decision.Kind != domain.DecisionAuthorized {
			writeRejection(w, decision)
			return
		}

		if decision.Principal != nil {
			r = r.WithContext(domain.WithPrincipal(r.Context(), decision.Principal))
		}
		route.Handler(w, r)
	})
}
