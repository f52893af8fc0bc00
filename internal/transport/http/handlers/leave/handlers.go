package leavehandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"turno/internal/domain/leave"
	"turno/internal/transport/http/api"
	"turno/internal/transport/http/middleware"
	"turno/internal/transport/http/shared"
)

type Handler struct {
	Leave *leave.Service
}

func NewHandler(service *leave.Service) *Handler {
	return &Handler{Leave: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leave", func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.Get("/requests", h.handleList)
		r.Post("/requests", h.handleSubmit)
		r.Delete("/requests/{requestID}", h.handleWithdraw)
		r.With(middleware.RequireAdmin).Get("/requests/pending-count", h.handlePendingCount)
		r.With(middleware.RequireAdmin).Post("/requests/{requestID}/approve", h.handleApprove)
		r.With(middleware.RequireAdmin).Post("/requests/{requestID}/reject", h.handleReject)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	// Staff see only their own requests; admins see everyone's.
	employeeID := user.EmployeeID
	if user.IsAdmin() {
		employeeID = r.URL.Query().Get("employeeId")
	}
	scope := r.URL.Query().Get("scope")

	v := shared.NewValidator()
	v.Enum("scope", scope, []string{leave.ScopePending, leave.ScopeActive, leave.ScopeHistory}, "must be pending, active or history")
	if v.Reject(w, reqID) {
		return
	}

	requests, err := h.Leave.List(r.Context(), employeeID, scope)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to list requests", reqID)
		return
	}
	api.Success(w, requests, reqID)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	var payload struct {
		Reason    string `json:"reason"`
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
		IsAllDay  bool   `json:"isAllDay"`
		StartTime string `json:"startTime"`
		EndTime   string `json:"endTime"`
		Note      string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "malformed JSON body", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("reason", payload.Reason, "reason is required")
	start, _ := v.Date("startDate", payload.StartDate)
	end, _ := v.Date("endDate", payload.EndDate)
	v.DateOrder("startDate", start, "endDate", end)
	if !payload.IsAllDay {
		v.Clock("startTime", payload.StartTime)
		v.Clock("endTime", payload.EndTime)
	}
	if v.Reject(w, reqID) {
		return
	}

	request, err := h.Leave.Submit(r.Context(), leave.Request{
		EmployeeID: user.EmployeeID,
		Reason:     payload.Reason,
		StartDate:  start,
		EndDate:    end,
		IsAllDay:   payload.IsAllDay,
		StartTime:  payload.StartTime,
		EndTime:    payload.EndTime,
		Note:       payload.Note,
	})
	switch {
	case errors.Is(err, leave.ErrUnknownReason):
		api.Fail(w, http.StatusBadRequest, "invalid_reason", "reason must be Ferie, Permesso or Malattia", reqID)
	case errors.Is(err, leave.ErrInvalidRange):
		api.Fail(w, http.StatusBadRequest, "invalid_range", "end date must not precede start date", reqID)
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to submit request", reqID)
	default:
		api.Created(w, request, reqID)
	}
}

func (h *Handler) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	err := h.Leave.Withdraw(r.Context(), chi.URLParam(r, "requestID"), user.EmployeeID)
	if errors.Is(err, leave.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "pending request not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to withdraw request", reqID)
		return
	}
	api.Success(w, map[string]bool{"withdrawn": true}, reqID)
}

func (h *Handler) handlePendingCount(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	count, err := h.Leave.PendingCount(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to count requests", reqID)
		return
	}
	api.Success(w, map[string]int{"pending": count}, reqID)
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, true)
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, false)
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, approve bool) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	request, err := h.Leave.Decide(r.Context(), chi.URLParam(r, "requestID"), user.EmployeeID, approve)
	switch {
	case errors.Is(err, leave.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "request not found", reqID)
	case errors.Is(err, leave.ErrAlreadyDecided):
		api.Fail(w, http.StatusConflict, "already_decided", "this request has already been decided", reqID)
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to decide request", reqID)
	default:
		api.Success(w, request, reqID)
	}
}
