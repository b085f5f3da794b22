package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/adpulse/gateway/internal/domain"
)

// errorResponse is the JSON body attached to every rejection. No failure
// ever returns an empty body.
type errorResponse struct {
	Error      string `json:"error"`
	RetryAfter int    `json:"retryAfter,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, errorResponse{Error: code})
}

// writeRejection maps a terminal gate decision to its HTTP status and
// machine-readable reason code.
func writeRejection(w http.ResponseWriter, decision domain.Decision) {
	switch decision.Kind {
	case domain.DecisionUnauthenticated:
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case domain.DecisionForbidden:
		writeError(w, http.StatusForbidden, "forbidden")
	case domain.DecisionRateLimited:
		w.Header().Set("Retry-After", strconv.Itoa(decision.RetryAfter))
		writeJSON(w, http.StatusTooManyRequests, errorResponse{
			Error:      "rate_limited",
			RetryAfter: decision.RetryAfter,
		})
	default:
		writeError(w, http.StatusInternalServerError, "internal_error")
	}
}
