package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"saleshealth-monitor/internal/alert"
	"saleshealth-monitor/internal/orchestrator"
	"saleshealth-monitor/internal/storage"
)

// Runner triggers monitoring passes. *orchestrator.Orchestrator satisfies it.
type Runner interface {
	RunAll(ctx context.Context) (orchestrator.PassSummary, error)
	HealthCheck(ctx context.Context) (orchestrator.HealthReport, error)
}

// AlertRepo is the alert-facing slice of the storage repository.
type AlertRepo interface {
	GetAlert(ctx context.Context, id string) (alert.Alert, error)
	TransitionAlert(ctx context.Context, id string, newStatus alert.Status, actor string, clock time.Time) error
}

type Handler struct {
	Runner  Runner
	Alerts  AlertRepo
	Logger  *slog.Logger
	Timeout time.Duration

	now func() time.Time
}

func NewHandler(runner Runner, alerts AlertRepo, logger *slog.Logger, timeout time.Duration) *Handler {
	return &Handler{
		Runner:  runner,
		Alerts:  alerts,
		Logger:  logger,
		Timeout: timeout,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.handleHealthz)
	r.Get("/health-check", h.handleHealthCheck)
	r.Post("/run", h.handleRun)
	r.Get("/alerts/{id}", h.handleAlertGet)
	r.Post("/alerts/{id}/status", h.handleAlertStatus)
}

func (h *Handler) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *Handler) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()
	report, err := h.Runner.HealthCheck(ctx)
	if err != nil {
		h.Logger.Error("health check failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "message": "health check failed"})
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) handleRun(w http.ResponseWriter, r *http.Request) {
	// A full pass scans the warehouse, so it gets a longer deadline than
	// the per-request timeout.
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Minute)
	defer cancel()
	summary, err := h.Runner.RunAll(ctx)
	if err != nil {
		h.Logger.Error("monitoring pass failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "message": "monitoring pass failed"})
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

type alertResponse struct {
	ID            string     `json:"id"`
	ConfigID      string     `json:"configId"`
	CreatedAt     time.Time  `json:"createdAt"`
	AlertType     string     `json:"alertType"`
	EntityID      string     `json:"entityId"`
	CurrentValue  float64    `json:"currentValue"`
	BaselineValue *float64   `json:"baselineValue,omitempty"`
	DeviationPct  *float64   `json:"deviationPct,omitempty"`
	Severity      string     `json:"severity"`
	Status        string     `json:"status"`
	Message       string     `json:"message"`
	ResolvedAt    *time.Time `json:"resolvedAt,omitempty"`
	ResolvedBy    *string    `json:"resolvedBy,omitempty"`
}

func toAlertResponse(a alert.Alert) alertResponse {
	return alertResponse{
		ID:            a.ID,
		ConfigID:      a.ConfigID,
		CreatedAt:     a.CreatedAt,
		AlertType:     a.Type,
		EntityID:      a.EntityID,
		CurrentValue:  a.CurrentValue,
		BaselineValue: a.BaselineValue,
		DeviationPct:  a.DeviationPct,
		Severity:      string(a.Severity),
		Status:        string(a.Status),
		Message:       a.Message,
		ResolvedAt:    a.ResolvedAt,
		ResolvedBy:    a.ResolvedBy,
	}
}

func (h *Handler) handleAlertGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()
	a, err := h.Alerts.GetAlert(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, alert.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]any{"ok": false, "message": "alert not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "message": "failed to load alert"})
		return
	}
	writeJSON(w, http.StatusOK, toAlertResponse(a))
}

func (h *Handler) handleAlertStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req struct {
		Status string `json:"status"`
		Actor  string `json:"actor"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "message": err.Error()})
		return
	}
	newStatus := alert.Status(strings.TrimSpace(req.Status))
	switch newStatus {
	case alert.StatusNew, alert.StatusAcknowledged, alert.StatusInvestigating, alert.StatusResolved:
	default:
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "message": "unknown status"})
		return
	}
	actor := strings.TrimSpace(req.Actor)
	if newStatus == alert.StatusResolved && actor == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "message": "actor is required to resolve an alert"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()
	if err := h.Alerts.TransitionAlert(ctx, id, newStatus, actor, h.now()); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound) || errors.Is(err, alert.ErrNotFound):
			writeJSON(w, http.StatusNotFound, map[string]any{"ok": false, "message": "alert not found"})
		case errors.Is(err, alert.ErrInvalidTransition):
			writeJSON(w, http.StatusConflict, map[string]any{"ok": false, "message": "invalid status transition"})
		default:
			writeJSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "message": "failed to update alert"})
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "status": string(newStatus)})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
