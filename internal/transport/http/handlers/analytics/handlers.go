package analyticshandler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"turno/internal/domain/analytics"
	"turno/internal/transport/http/api"
	"turno/internal/transport/http/middleware"
	"turno/internal/transport/http/shared"
)

type Handler struct {
	Analytics *analytics.Service
}

func NewHandler(service *analytics.Service) *Handler {
	return &Handler{Analytics: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/analytics", func(r chi.Router) {
		r.Use(middleware.RequireAdmin)
		r.Get("/costs", h.handleCosts)
	})
}

func (h *Handler) handleCosts(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	month, err := shared.ParseMonth(r.URL.Query().Get("month"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_query", "month must be in YYYY-MM format", reqID)
		return
	}

	// Revenue is typed in by the owner, not tracked by the system.
	var revenue float64
	if raw := r.URL.Query().Get("revenue"); raw != "" {
		revenue, err = strconv.ParseFloat(raw, 64)
		if err != nil || revenue < 0 {
			api.Fail(w, http.StatusBadRequest, "invalid_query", "revenue must be a non-negative number", reqID)
			return
		}
	}

	report, err := h.Analytics.MonthReport(r.Context(), month, revenue)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to build report", reqID)
		return
	}
	api.Success(w, report, reqID)
}
