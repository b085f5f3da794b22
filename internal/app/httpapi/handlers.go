package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/adpulse/gateway/internal/domain"
	"github.com/adpulse/gateway/internal/service"
	pkgerrors "github.com/adpulse/gateway/pkg/errors"
)

// Pinger reports downstream reachability for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ReportExporter snapshots a usage summary to external storage.
type ReportExporter interface {
	Export(ctx context.Context, summary *domain.UsageSummary) (string, error)
}

// Handlers carries the endpoint business logic the gate delegates to
// after admission.
type Handlers struct {
	svc        service.AnalyticsService
	authSvc    service.AuthService
	exporter   ReportExporter
	audit      domain.AuditLogger
	classifier *pkgerrors.ErrorClassifier
	pinger     Pinger
	logger     *slog.Logger
}

// NewHandlers creates the endpoint handler set. authSvc and exporter are
// optional; their routes are disabled when nil.
func NewHandlers(
	svc service.AnalyticsService,
	authSvc service.AuthService,
	exporter ReportExporter,
	auditLogger domain.AuditLogger,
	classifier *pkgerrors.ErrorClassifier,
	pinger Pinger,
	logger *slog.Logger,
) *Handlers {
	return &Handlers{
		svc:        svc,
		authSvc:    authSvc,
		exporter:   exporter,
		audit:      auditLogger,
		classifier: classifier,
		pinger:     pinger,
		logger:     logger,
	}
}

// Health reports database reachability. This route bypasses the gate.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	if h.pinger != nil {
		if err := h.pinger.Ping(r.Context()); err != nil {
			h.logger.Error("health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type tokenRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// IssueToken exchanges service-account credentials for a minted JWT.
func (h *Handlers) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ClientID == "" || req.ClientSecret == "" {
		writeError(w, http.StatusBadRequest, "bad_request")
		return
	}

	result, err := h.authSvc.Authenticate(r.Context(), req.ClientID, req.ClientSecret)
	if err != nil {
		h.respondError(w, r, err, "token_issue")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ListUsage returns usage rows filtered by the platform query parameter.
func (h *Handlers) ListUsage(w http.ResponseWriter, r *http.Request) {
	query := domain.UsageQuery{
		Platform: r.URL.Query().Get("platform"),
		Limit:    queryInt(r, "limit"),
	}

	rows, err := h.svc.Usage(r.Context(), query)
	if err != nil {
		h.respondError(w, r, err, "usage_read")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"usage": rows})
}

// ListFeedback returns the most recent feedback rows.
func (h *Handlers) ListFeedback(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.Feedback(r.Context(), queryInt(r, "limit"))
	if err != nil {
		h.respondError(w, r, err, "feedback_read")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"feedback": rows})
}

type preferencesRequest struct {
	Platforms   []string `json:"platforms"`
	Tone        string   `json:"tone"`
	AutoPublish bool     `json:"autoPublish"`
}

// UpdatePreferences upserts the caller's preferences row. The summary
// recompute it triggers runs detached and never affects this response.
func (h *Handlers) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	principal, ok := domain.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req preferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request")
		return
	}

	prefs := domain.Preferences{
		UserID:      principal.ID,
		Platforms:   req.Platforms,
		Tone:        req.Tone,
		AutoPublish: req.AutoPublish,
	}
	if err := h.svc.SavePreferences(r.Context(), prefs); err != nil {
		h.respondError(w, r, err, "preferences_update")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// RefreshCache recomputes the usage summary cache. Admin-only and
// rate-limited; the gate has already enforced both by the time this runs.
func (h *Handlers) RefreshCache(w http.ResponseWriter, r *http.Request) {
	principal, _ := domain.PrincipalFromContext(r.Context())

	summary, err := h.svc.RefreshSummary(r.Context())
	h.auditOutcome(r.Context(), principal, "cache_refresh", err)
	if err != nil {
		h.respondError(w, r, err, "cache_refresh")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// ExportReport snapshots the usage summary to object storage.
func (h *Handlers) ExportReport(w http.ResponseWriter, r *http.Request) {
	if h.exporter == nil {
		writeError(w, http.StatusServiceUnavailable, "export_unavailable")
		return
	}

	principal, _ := domain.PrincipalFromContext(r.Context())

	summary, cached := h.svc.CachedSummary(r.Context())
	if !cached {
		var err error
		summary, err = h.svc.RefreshSummary(r.Context())
		if err != nil {
			h.auditOutcome(r.Context(), principal, "report_export", err)
			h.respondError(w, r, err, "report_export")
			return
		}
	}

	key, err := h.exporter.Export(r.Context(), summary)
	h.auditOutcome(r.Context(), principal, "report_export", err)
	if err != nil {
		h.respondError(w, r, err, "report_export")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"key": key})
}

// respondError logs the internal error and writes the sanitized code.
func (h *Handlers) respondError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	classified := h.classifier.Classify(err, operation)
	status, code := h.classifier.LogAndStatus(r.Context(), classified)
	writeError(w, status, code)
}

func (h *Handlers) auditOutcome(ctx context.Context, principal *domain.Principal, operation string, err error) {
	if h.audit == nil {
		return
	}
	principalID := ""
	if principal != nil {
		principalID = principal.ID
	}
	h.audit.AuditLog(ctx, principalID, operation, err == nil, err)
}

func queryInt(r *http.Request, name string) int {
	value, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return value
}
