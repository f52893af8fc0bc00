package timeclockhandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"turno/internal/domain/timeclock"
	"turno/internal/transport/http/api"
	"turno/internal/transport/http/middleware"
	"turno/internal/transport/http/shared"
)

type Handler struct {
	Timeclock *timeclock.Service
}

func NewHandler(service *timeclock.Service) *Handler {
	return &Handler{Timeclock: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/timeclock", func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.Get("/status", h.handleStatus)
		r.Post("/clock-in", h.handleClockIn)
		r.Post("/clock-out", h.handleClockOut)
		r.Post("/break", h.handleToggleBreak)
		r.Get("/entries", h.handleEntries)
		r.With(middleware.RequireAdmin).Get("/logs", h.handleLogs)
	})
}

type punchPayload struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func decodePunch(r *http.Request) punchPayload {
	// The position is optional; an empty or malformed body is a punch
	// without coordinates.
	var payload punchPayload
	_ = json.NewDecoder(r.Body).Decode(&payload)
	return payload
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	entry, err := h.Timeclock.Status(r.Context(), user.EmployeeID)
	if errors.Is(err, timeclock.ErrNotClockedIn) {
		api.Success(w, map[string]any{"active": false}, reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to load status", reqID)
		return
	}
	api.Success(w, map[string]any{
		"active":  true,
		"entry":   entry,
		"onBreak": timeclock.OnBreak(entry),
	}, reqID)
}

func (h *Handler) handleClockIn(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	payload := decodePunch(r)
	entry, err := h.Timeclock.ClockIn(r.Context(), user.EmployeeID, payload.Latitude, payload.Longitude)
	if errors.Is(err, timeclock.ErrAlreadyClockedIn) {
		api.Fail(w, http.StatusConflict, "already_clocked_in", "an open shift already exists", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to clock in", reqID)
		return
	}
	api.Created(w, entry, reqID)
}

func (h *Handler) handleClockOut(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	payload := decodePunch(r)
	entry, err := h.Timeclock.ClockOut(r.Context(), user.EmployeeID, payload.Latitude, payload.Longitude)
	if errors.Is(err, timeclock.ErrNotClockedIn) {
		api.Fail(w, http.StatusConflict, "not_clocked_in", "no open shift to close", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to clock out", reqID)
		return
	}
	api.Success(w, entry, reqID)
}

func (h *Handler) handleToggleBreak(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	entry, err := h.Timeclock.ToggleBreak(r.Context(), user.EmployeeID)
	switch {
	case errors.Is(err, timeclock.ErrNotClockedIn):
		api.Fail(w, http.StatusConflict, "not_clocked_in", "no open shift", reqID)
	case errors.Is(err, timeclock.ErrBreakFinished):
		api.Fail(w, http.StatusConflict, "break_finished", "the break has already been taken", reqID)
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to toggle break", reqID)
	default:
		api.Success(w, map[string]any{"entry": entry, "onBreak": timeclock.OnBreak(entry)}, reqID)
	}
}

func (h *Handler) handleEntries(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	employeeID := user.EmployeeID
	if requested := r.URL.Query().Get("employeeId"); user.IsAdmin() {
		employeeID = requested
	}

	from := time.Now().AddDate(0, -1, 0)
	toExcl := time.Now().AddDate(0, 0, 1)
	v := shared.NewValidator()
	if raw := r.URL.Query().Get("from"); raw != "" {
		if parsed, ok := v.Date("from", raw); ok {
			from = parsed
		}
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		if parsed, ok := v.Date("to", raw); ok {
			toExcl = parsed.AddDate(0, 0, 1)
		}
	}
	if v.Reject(w, reqID) {
		return
	}

	entries, err := h.Timeclock.Entries(r.Context(), employeeID, from, toExcl)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to list entries", reqID)
		return
	}
	api.Success(w, entries, reqID)
}

func (h *Handler) handleLogs(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 50, 200)
	logs, err := h.Timeclock.Logs(r.Context(), r.URL.Query().Get("employeeId"), page.Limit)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to list punch logs", reqID)
		return
	}
	api.Success(w, logs, reqID)
}
