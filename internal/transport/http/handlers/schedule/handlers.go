package schedulehandler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"turno/internal/domain/notifications"
	"turno/internal/domain/schedule"
	"turno/internal/transport/http/api"
	"turno/internal/transport/http/middleware"
	"turno/internal/transport/http/shared"
)

type Handler struct {
	Schedule      *schedule.Service
	Notifications *notifications.Service
}

func NewHandler(service *schedule.Service, notifier *notifications.Service) *Handler {
	return &Handler{Schedule: service, Notifications: notifier}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/schedule", func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.Get("/", h.handleView)
		r.With(middleware.RequireAdmin).Post("/publish", h.handlePublish)
		r.With(middleware.RequireAdmin).Get("/export", h.handleExportCSV)
		r.Get("/print", h.handlePrintPDF)
	})
	r.Route("/shifts", func(r chi.Router) {
		r.Use(middleware.RequireAdmin)
		r.Post("/", h.handleCreate)
		r.Put("/{shiftID}", h.handleUpdate)
		r.Post("/{shiftID}/move", h.handleMove)
		r.Delete("/{shiftID}", h.handleDelete)
	})
	r.Route("/shift-templates", func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.Get("/", h.handleListTemplates)
		r.With(middleware.RequireAdmin).Post("/", h.handleCreateTemplate)
		r.With(middleware.RequireAdmin).Put("/{templateID}", h.handleUpdateTemplate)
		r.With(middleware.RequireAdmin).Delete("/{templateID}", h.handleDeleteTemplate)
	})
	r.Route("/swaps", func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.Get("/", h.handleListSwaps)
		r.Post("/", h.handleRequestSwap)
		r.With(middleware.RequireAdmin).Post("/{swapID}/accept", h.handleAcceptSwap)
		r.With(middleware.RequireAdmin).Post("/{swapID}/decline", h.handleDeclineSwap)
	})
	r.Route("/availability", func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.Get("/", h.handleListAvailability)
		r.Post("/", h.handleAddAvailability)
		r.Delete("/{entryID}", h.handleRemoveAvailability)
	})
}

// parseAnchor reads the date and view query parameters shared by the
// grid endpoints. The anchor defaults to today, the view to week.
func parseAnchor(r *http.Request) (time.Time, string, error) {
	view := r.URL.Query().Get("view")
	if view == "" {
		view = schedule.ViewWeek
	}
	if view != schedule.ViewWeek && view != schedule.ViewMonth {
		return time.Time{}, "", fmt.Errorf("unknown view %q", view)
	}
	anchor := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := shared.ParseDate(raw)
		if err != nil {
			return time.Time{}, "", err
		}
		anchor = parsed
	}
	return anchor, view, nil
}

func (h *Handler) handleView(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	anchor, view, err := parseAnchor(r)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_query", err.Error(), reqID)
		return
	}
	built, err := h.Schedule.View(r.Context(), anchor, view)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to build schedule", reqID)
		return
	}
	api.Success(w, built, reqID)
}

type shiftPayload struct {
	EmployeeID string `json:"employeeId"`
	Date       string `json:"date"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	Note       string `json:"note"`
}

// resolveInterval combines the day with the wall-clock times. An end
// strictly before the start rolls into the next day, covering closing
// shifts; equal times stay equal so the interval check rejects them.
func resolveInterval(day, start, end time.Time) (time.Time, time.Time) {
	s := time.Date(day.Year(), day.Month(), day.Day(), start.Hour(), start.Minute(), 0, 0, time.UTC)
	e := time.Date(day.Year(), day.Month(), day.Day(), end.Hour(), end.Minute(), 0, 0, time.UTC)
	if e.Before(s) {
		e = e.AddDate(0, 0, 1)
	}
	return s, e
}

func (h *Handler) decodeShift(w http.ResponseWriter, r *http.Request, reqID string) (shiftPayload, time.Time, time.Time, bool) {
	var payload shiftPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "malformed JSON body", reqID)
		return payload, time.Time{}, time.Time{}, false
	}
	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "employeeId is required")
	day, _ := v.Date("date", payload.Date)
	start, _ := v.Clock("startTime", payload.StartTime)
	end, _ := v.Clock("endTime", payload.EndTime)
	if v.Reject(w, reqID) {
		return payload, time.Time{}, time.Time{}, false
	}
	s, e := resolveInterval(day, start, end)
	return payload, s, e, true
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	payload, start, end, ok := h.decodeShift(w, r, reqID)
	if !ok {
		return
	}
	shift, err := h.Schedule.Create(r.Context(), payload.EmployeeID, start, end, payload.Note)
	if errors.Is(err, schedule.ErrEndNotAfterStart) {
		api.Fail(w, http.StatusBadRequest, "invalid_interval", "shift must end after it starts", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to create shift", reqID)
		return
	}
	api.Created(w, shift, reqID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	shiftID := chi.URLParam(r, "shiftID")
	payload, start, end, ok := h.decodeShift(w, r, reqID)
	if !ok {
		return
	}
	shift, err := h.Schedule.Update(r.Context(), shiftID, payload.EmployeeID, start, end, payload.Note)
	switch {
	case errors.Is(err, schedule.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "shift not found", reqID)
	case errors.Is(err, schedule.ErrEndNotAfterStart):
		api.Fail(w, http.StatusBadRequest, "invalid_interval", "shift must end after it starts", reqID)
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to update shift", reqID)
	default:
		api.Success(w, shift, reqID)
	}
}

func (h *Handler) handleMove(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	shiftID := chi.URLParam(r, "shiftID")
	var payload struct {
		Date string `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "malformed JSON body", reqID)
		return
	}
	v := shared.NewValidator()
	day, _ := v.Date("date", payload.Date)
	if v.Reject(w, reqID) {
		return
	}
	shift, err := h.Schedule.Move(r.Context(), shiftID, day)
	if errors.Is(err, schedule.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "shift not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to move shift", reqID)
		return
	}
	api.Success(w, shift, reqID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	err := h.Schedule.Delete(r.Context(), chi.URLParam(r, "shiftID"))
	if errors.Is(err, schedule.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "shift not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to delete shift", reqID)
		return
	}
	api.Success(w, map[string]bool{"deleted": true}, reqID)
}

func (h *Handler) handlePublish(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	anchor, view, err := parseAnchor(r)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_query", err.Error(), reqID)
		return
	}
	count, err := h.Schedule.Publish(r.Context(), anchor, view)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to publish schedule", reqID)
		return
	}
	api.Success(w, map[string]int64{"published": count}, reqID)
}

func (h *Handler) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	month, err := shared.ParseMonth(r.URL.Query().Get("month"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_query", "month must be in YYYY-MM format", reqID)
		return
	}

	var buf bytes.Buffer
	if err := h.Schedule.WriteMonthCSV(r.Context(), &buf, month); err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to export schedule", reqID)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", schedule.ExportFileName(month)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) handlePrintPDF(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	anchor, view, err := parseAnchor(r)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_query", err.Error(), reqID)
		return
	}
	pdf, err := h.Schedule.RenderRangePDF(r.Context(), anchor, view)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to render schedule", reqID)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

func (h *Handler) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	templates, err := h.Schedule.Templates(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to list templates", reqID)
		return
	}
	api.Success(w, templates, reqID)
}

func (h *Handler) decodeTemplate(w http.ResponseWriter, r *http.Request, reqID string) (schedule.Template, bool) {
	var payload struct {
		Name      string `json:"name"`
		StartTime string `json:"startTime"`
		EndTime   string `json:"endTime"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "malformed JSON body", reqID)
		return schedule.Template{}, false
	}
	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	v.Clock("startTime", payload.StartTime)
	v.Clock("endTime", payload.EndTime)
	if v.Reject(w, reqID) {
		return schedule.Template{}, false
	}
	return schedule.Template{Name: payload.Name, StartTime: payload.StartTime, EndTime: payload.EndTime}, true
}

func (h *Handler) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	template, ok := h.decodeTemplate(w, r, reqID)
	if !ok {
		return
	}
	created, err := h.Schedule.CreateTemplate(r.Context(), template)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to create template", reqID)
		return
	}
	api.Created(w, created, reqID)
}

func (h *Handler) handleUpdateTemplate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	template, ok := h.decodeTemplate(w, r, reqID)
	if !ok {
		return
	}
	template.ID = chi.URLParam(r, "templateID")
	err := h.Schedule.UpdateTemplate(r.Context(), template)
	if errors.Is(err, schedule.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "template not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to update template", reqID)
		return
	}
	api.Success(w, template, reqID)
}

func (h *Handler) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	err := h.Schedule.DeleteTemplate(r.Context(), chi.URLParam(r, "templateID"))
	if errors.Is(err, schedule.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "template not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to delete template", reqID)
		return
	}
	api.Success(w, map[string]bool{"deleted": true}, reqID)
}

func (h *Handler) handleListSwaps(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	swaps, err := h.Schedule.Swaps(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to list swaps", reqID)
		return
	}
	api.Success(w, swaps, reqID)
}

func (h *Handler) handleRequestSwap(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	var payload struct {
		ShiftID string `json:"shiftId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "malformed JSON body", reqID)
		return
	}
	id, err := h.Schedule.RequestSwap(r.Context(), payload.ShiftID, user.EmployeeID)
	switch {
	case errors.Is(err, schedule.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "shift not found", reqID)
	case errors.Is(err, schedule.ErrNotShiftOwner):
		api.Fail(w, http.StatusForbidden, "forbidden", "you can only offer your own shifts", reqID)
	case errors.Is(err, schedule.ErrShiftNotPublic):
		api.Fail(w, http.StatusConflict, "conflict", "only published shifts can be swapped", reqID)
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to request swap", reqID)
	default:
		api.Created(w, map[string]string{"id": id}, reqID)
	}
}

func (h *Handler) handleAcceptSwap(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload struct {
		EmployeeID string `json:"employeeId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "malformed JSON body", reqID)
		return
	}
	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "the replacement employeeId is required")
	if v.Reject(w, reqID) {
		return
	}
	requesterID, err := h.Schedule.AcceptSwap(r.Context(), chi.URLParam(r, "swapID"), payload.EmployeeID)
	if errors.Is(err, schedule.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "pending swap not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to accept swap", reqID)
		return
	}
	h.notifySwap(r, requesterID, "Il tuo cambio turno è stato accettato.", notifications.TypeSuccess)
	api.Success(w, map[string]bool{"accepted": true}, reqID)
}

func (h *Handler) handleDeclineSwap(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	requesterID, err := h.Schedule.DeclineSwap(r.Context(), chi.URLParam(r, "swapID"))
	if errors.Is(err, schedule.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "pending swap not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to decline swap", reqID)
		return
	}
	h.notifySwap(r, requesterID, "Il tuo cambio turno è stato rifiutato.", notifications.TypeError)
	api.Success(w, map[string]bool{"declined": true}, reqID)
}

// notifySwap is best-effort; a failed notification must not undo a
// settled swap.
func (h *Handler) notifySwap(r *http.Request, requesterID, message, kind string) {
	if requesterID == "" {
		return
	}
	if err := h.Notifications.Notify(r.Context(), requesterID, message, kind, ""); err != nil {
		slog.Warn("swap notification failed", "employeeId", requesterID, "error", err)
	}
}

// availabilityFrom is the start of the listing window. Only upcoming
// unavailability matters for planning, so the window opens at today's
// local midnight.
func availabilityFrom(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func (h *Handler) handleListAvailability(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	employeeID := user.EmployeeID
	if requested := r.URL.Query().Get("employeeId"); requested != "" && user.IsAdmin() {
		employeeID = requested
	}
	entries, err := h.Schedule.Availability(r.Context(), employeeID, availabilityFrom(time.Now()))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to list availability", reqID)
		return
	}
	api.Success(w, entries, reqID)
}

func (h *Handler) handleAddAvailability(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	var payload struct {
		Date   string `json:"date"`
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "malformed JSON body", reqID)
		return
	}
	v := shared.NewValidator()
	day, _ := v.Date("date", payload.Date)
	if v.Reject(w, reqID) {
		return
	}
	id, err := h.Schedule.AddAvailability(r.Context(), user.EmployeeID, day, payload.Reason)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to save availability", reqID)
		return
	}
	api.Created(w, map[string]string{"id": id}, reqID)
}

func (h *Handler) handleRemoveAvailability(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	err := h.Schedule.RemoveAvailability(r.Context(), chi.URLParam(r, "entryID"), user.EmployeeID)
	if errors.Is(err, schedule.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "availability entry not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to remove availability", reqID)
		return
	}
	api.Success(w, map[string]bool{"deleted": true}, reqID)
}
