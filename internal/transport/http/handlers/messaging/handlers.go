package messaginghandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"turno/internal/domain/messaging"
	"turno/internal/transport/http/api"
	"turno/internal/transport/http/middleware"
	"turno/internal/transport/http/shared"
)

type Handler struct {
	Messaging *messaging.Service
}

func NewHandler(service *messaging.Service) *Handler {
	return &Handler{Messaging: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/messages", func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.Get("/conversations", h.handleConversations)
		r.Get("/unread-count", h.handleUnreadCount)
		r.Get("/thread/{contactID}", h.handleThread)
		r.Post("/", h.handleSend)
		r.With(middleware.RequireAdmin).Get("/audit", h.handleAuditLog)
	})
	r.Route("/announcements", func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.Get("/", h.handleBoard)
		r.Post("/{announcementID}/read", h.handleMarkRead)
		r.With(middleware.RequireAdmin).Get("/all", h.handleAllAnnouncements)
		r.With(middleware.RequireAdmin).Post("/", h.handlePublish)
		r.With(middleware.RequireAdmin).Delete("/{announcementID}", h.handleDeleteAnnouncement)
	})
}

func (h *Handler) handleConversations(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	conversations, err := h.Messaging.Conversations(r.Context(), user.EmployeeID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to list conversations", reqID)
		return
	}
	api.Success(w, conversations, reqID)
}

func (h *Handler) handleUnreadCount(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	count, err := h.Messaging.UnreadCount(r.Context(), user.EmployeeID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to count messages", reqID)
		return
	}
	api.Success(w, map[string]int{"unread": count}, reqID)
}

// handleThread returns the history with a colleague and marks their
// messages as read, mirroring the chat panel opening.
func (h *Handler) handleThread(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	messages, err := h.Messaging.OpenThread(r.Context(), user.EmployeeID, chi.URLParam(r, "contactID"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to load thread", reqID)
		return
	}
	api.Success(w, messages, reqID)
}

func (h *Handler) handleSend(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	var payload struct {
		ReceiverID string `json:"receiverId"`
		Content    string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "malformed JSON body", reqID)
		return
	}
	v := shared.NewValidator()
	v.Required("receiverId", payload.ReceiverID, "receiverId is required")
	if v.Reject(w, reqID) {
		return
	}

	message, err := h.Messaging.Send(r.Context(), user.EmployeeID, payload.ReceiverID, payload.Content)
	switch {
	case errors.Is(err, messaging.ErrSelfMessage):
		api.Fail(w, http.StatusBadRequest, "invalid_receiver", "cannot message yourself", reqID)
	case errors.Is(err, messaging.ErrEmptyMessage):
		api.Fail(w, http.StatusBadRequest, "invalid_content", "message must be non-empty and under 2000 characters", reqID)
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to send message", reqID)
	default:
		api.Created(w, message, reqID)
	}
}

func (h *Handler) handleAuditLog(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 100, 500)
	messages, err := h.Messaging.AuditLog(r.Context(), page.Limit)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to load audit log", reqID)
		return
	}
	api.Success(w, messages, reqID)
}

func (h *Handler) handleBoard(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	board, err := h.Messaging.Board(r.Context(), user.EmployeeID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to load announcements", reqID)
		return
	}
	api.Success(w, board, reqID)
}

func (h *Handler) handleAllAnnouncements(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	items, err := h.Messaging.AllAnnouncements(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to list announcements", reqID)
		return
	}
	api.Success(w, items, reqID)
}

func (h *Handler) handlePublish(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	var payload struct {
		Content      string `json:"content"`
		VisibleFrom  string `json:"visibleFrom"`
		VisibleUntil string `json:"visibleUntil"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "malformed JSON body", reqID)
		return
	}
	v := shared.NewValidator()
	v.Required("content", payload.Content, "content is required")
	from, _ := v.Date("visibleFrom", payload.VisibleFrom)
	until, _ := v.Date("visibleUntil", payload.VisibleUntil)
	if v.Reject(w, reqID) {
		return
	}

	announcement, err := h.Messaging.Publish(r.Context(), messaging.Announcement{
		Content:      payload.Content,
		VisibleFrom:  from,
		VisibleUntil: until,
		CreatedBy:    user.EmployeeID,
	})
	if errors.Is(err, messaging.ErrWindowInverted) {
		api.Fail(w, http.StatusBadRequest, "invalid_window", "visibleUntil must not precede visibleFrom", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to publish announcement", reqID)
		return
	}
	api.Created(w, announcement, reqID)
}

func (h *Handler) handleDeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	err := h.Messaging.DeleteAnnouncement(r.Context(), chi.URLParam(r, "announcementID"))
	if errors.Is(err, messaging.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "announcement not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to delete announcement", reqID)
		return
	}
	api.Success(w, map[string]bool{"deleted": true}, reqID)
}

func (h *Handler) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	if err := h.Messaging.MarkAnnouncementRead(r.Context(), chi.URLParam(r, "announcementID"), user.EmployeeID); err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to mark announcement", reqID)
		return
	}
	api.Success(w, map[string]bool{"read": true}, reqID)
}
