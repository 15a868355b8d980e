/*
handlers.go - HTTP API handlers for the PTO planner

PURPOSE:
  Exposes the planner (pto.Planner) and the auto-accrual updater
  (pto.AccrualService) via a REST API. Handles HTTP request/response and JSON
  serialization, and delegates to domain logic.

ENDPOINTS:
  Settings:
    GET    /api/settings               Current settings document
    PATCH  /api/settings               Partial settings update
    GET    /api/settings/export        Download settings as JSON
    PUT    /api/settings/import        Replace settings from JSON

  Views:
    GET    /api/summary                Home page summary
    GET    /api/projection?date=       Balance projected to a date
    GET    /api/calendar/{year}/{month} Annotated calendar month

  Vacations:
    GET    /api/vacations              List vacations by start date
    POST   /api/vacations              Create vacation
    PUT    /api/vacations/{id}         Edit vacation
    DELETE /api/vacations/{id}         Delete vacation
    POST   /api/vacations/check        Validate + simulate, no write

  Accrual:
    POST   /api/accrual/refresh        Apply accrual since last update

  Scenarios:
    GET    /api/scenarios              List demo scenarios
    GET    /api/scenarios/current      Last loaded scenario, or null
    POST   /api/scenarios/load         Load a demo scenario

  Health:
    GET    /api/health                 Liveness and server date

PROJECTION NOTES:
  Paydays are counted in (today, date]. Biweekly paydays are 14 days apart,
  so two weeks from a Monday hold one biweekly payday, not two:
    96h, 13.36h biweekly, Mon Jan 1 2024 -> Mon Jan 15 2024: 109.36
    same inputs on a weekly schedule:                      122.72
  Vacations overlapping (today, date] are deducted in full, including one
  already running today. A vacation starting today is already in the balance.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid dates, settings, JSON bodies
  - 404: Unknown vacation or scenario
  - 500: Store failures

  Shortfalls are not errors. Save endpoints return 200/201 with the
  validation and simulation attached.

SECURITY NOTE:
  Single-user local tool. No authentication.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/warp/pto-planner/factory"
	"github.com/warp/pto-planner/generic"
	"github.com/warp/pto-planner/pto"
)

// maxImportBytes bounds the settings document accepted by import.
const maxImportBytes = 1 << 20

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Planner *pto.Planner
	Accrual *pto.AccrualService
	Logger  *log.Logger

	// Track currently loaded scenario
	mu              sync.Mutex
	currentScenario string
}

// NewHandler creates a handler over the given store.
func NewHandler(store pto.SettingsStore, clock pto.Clock, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{
		Planner: pto.NewPlanner(store, clock, logger),
		Accrual: pto.NewAccrualService(store, clock, logger),
		Logger:  logger,
	}
}

// =============================================================================
// SETTINGS HANDLERS
// =============================================================================

// GetSettings returns the settings document.
// GET /api/settings
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Planner.Settings(r.Context())
	if err != nil {
		h.writeDomainError(w, "Failed to load settings", err)
		return
	}
	writeJSON(w, http.StatusOK, factory.FromSettings(settings))
}

// UpdateSettings applies a partial update.
// PATCH /api/settings
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	patch, err := req.toPatch()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid settings", err)
		return
	}

	settings, err := h.Planner.UpdateSettings(r.Context(), patch)
	if err != nil {
		h.writeDomainError(w, "Failed to update settings", err)
		return
	}
	writeJSON(w, http.StatusOK, factory.FromSettings(settings))
}

// ExportSettings returns the settings document as a download.
// GET /api/settings/export
func (h *Handler) ExportSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Planner.Settings(r.Context())
	if err != nil {
		h.writeDomainError(w, "Failed to load settings", err)
		return
	}

	data, err := factory.MarshalSettings(settings)
	if err != nil {
		h.writeDomainError(w, "Failed to encode settings", err)
		return
	}

	name := fmt.Sprintf("pto-settings-%s.json", h.Planner.Today())
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// ImportSettings replaces all settings with the uploaded document.
// PUT /api/settings/import
func (h *Handler) ImportSettings(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body", err)
		return
	}

	settings, err := factory.ParseSettingsBytes(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid settings document", err)
		return
	}

	if err := h.Planner.ReplaceSettings(r.Context(), settings); err != nil {
		h.writeDomainError(w, "Failed to import settings", err)
		return
	}

	h.mu.Lock()
	h.currentScenario = ""
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, factory.FromSettings(settings))
}

// =============================================================================
// VIEW HANDLERS
// =============================================================================

// GetSummary returns the home page summary.
// GET /api/summary
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Planner.Summary(r.Context())
	if err != nil {
		h.writeDomainError(w, "Failed to build summary", err)
		return
	}
	writeJSON(w, http.StatusOK, toSummaryDTO(summary))
}

// GetProjection projects the balance to ?date=YYYY-MM-DD. See PROJECTION
// NOTES above for how biweekly paydays fall in short windows.
// GET /api/projection
func (h *Handler) GetProjection(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "date query parameter is required", nil)
		return
	}
	target, err := generic.ParseLocalDate(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}

	projection, err := h.Planner.Project(r.Context(), target)
	if err != nil {
		h.writeDomainError(w, "Failed to project balance", err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectionDTO(target, projection))
}

// GetCalendar returns one annotated month.
// GET /api/calendar/{year}/{month}
func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month", err)
		return
	}

	cal, err := h.Planner.Calendar(r.Context(), year, time.Month(month))
	if err != nil {
		h.writeDomainError(w, "Failed to build calendar", err)
		return
	}
	writeJSON(w, http.StatusOK, toCalendarMonthDTO(cal))
}

// =============================================================================
// VACATION HANDLERS
// =============================================================================

// ListVacations returns all vacations ordered by start date.
// GET /api/vacations
func (h *Handler) ListVacations(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Planner.Settings(r.Context())
	if err != nil {
		h.writeDomainError(w, "Failed to load vacations", err)
		return
	}
	writeJSON(w, http.StatusOK, toVacationJSONs(pto.SortByStart(settings.Vacations)))
}

// CreateVacation stores a new vacation.
// POST /api/vacations
func (h *Handler) CreateVacation(w http.ResponseWriter, r *http.Request) {
	h.saveVacation(w, r, "", http.StatusCreated)
}

// UpdateVacation replaces an existing vacation.
// PUT /api/vacations/{id}
func (h *Handler) UpdateVacation(w http.ResponseWriter, r *http.Request) {
	h.saveVacation(w, r, chi.URLParam(r, "id"), http.StatusOK)
}

func (h *Handler) saveVacation(w http.ResponseWriter, r *http.Request, editingID string, status int) {
	var req VacationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	saved, err := h.Planner.SaveVacation(r.Context(), req.input(), editingID)
	if err != nil {
		h.writeDomainError(w, "Failed to save vacation", err)
		return
	}

	writeJSON(w, status, SaveVacationResponse{
		Vacation:   factory.FromEntry(saved.Entry),
		Validation: toValidationDTO(saved.Check.Validation),
		Simulation: toSimulationDTO(saved.Check.Simulation),
	})
}

// DeleteVacation removes a vacation.
// DELETE /api/vacations/{id}
func (h *Handler) DeleteVacation(w http.ResponseWriter, r *http.Request) {
	if err := h.Planner.DeleteVacation(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeDomainError(w, "Failed to delete vacation", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CheckVacation runs the validator and simulator for a draft request.
// POST /api/vacations/check
func (h *Handler) CheckVacation(w http.ResponseWriter, r *http.Request) {
	var req VacationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	check, err := h.Planner.CheckVacation(r.Context(), req.input(), req.EditingID)
	if err != nil {
		h.writeDomainError(w, "Failed to check vacation", err)
		return
	}

	writeJSON(w, http.StatusOK, CheckVacationResponse{
		Validation: toValidationDTO(check.Validation),
		Simulation: toSimulationDTO(check.Simulation),
	})
}

// =============================================================================
// ACCRUAL HANDLERS
// =============================================================================

// RefreshAccrual applies accrual since the last update. Called on tab focus.
// POST /api/accrual/refresh
func (h *Handler) RefreshAccrual(w http.ResponseWriter, r *http.Request) {
	result, err := h.Accrual.Refresh(r.Context())
	if err != nil {
		h.writeDomainError(w, "Failed to refresh accrual", err)
		return
	}
	writeJSON(w, http.StatusOK, toRefreshResponse(result))
}

// Health reports whether the server is up.
// GET /api/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "today": h.Planner.Today().String()})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps domain errors to a status code.
func (h *Handler) writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case generic.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case generic.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		h.Logger.Error(message, "err", err)
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
