package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"oxibook/internal/bookings/repository"
	"oxibook/internal/bookings/service"
	"oxibook/pkg/contracts"
	apperrors "oxibook/pkg/errors"
	apphttp "oxibook/pkg/http"
	"oxibook/pkg/lifecycle"
	"oxibook/pkg/logger"
	"oxibook/pkg/model"
)

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(svc service.BookingService, log *logger.Logger) contracts.Handler {
	return &BookingHandler{service: svc, log: log}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings", h.List)
	router.GET("/api/v1/bookings/view", h.View)
	router.GET("/api/v1/bookings/id/:id", h.GetByID)
	router.POST("/api/v1/bookings/id/:id/cancel", h.Cancel)
	router.POST("/api/v1/bookings/id/:id/complete", h.Complete)
	router.PATCH("/api/v1/bookings/id/:id", h.Reschedule)
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var payload model.BookingCreate
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, apperrors.InvalidInput("Invalid JSON payload"))
		return
	}

	record, err := h.service.Create(r.Context(), &payload)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := apphttp.WriteCreated(w, record); err != nil {
		h.log.Error("Failed to write response", "error", err)
	}
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := apphttp.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	records, total, err := h.service.List(r.Context(), scopeFromQuery(r), limit, offset)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := apphttp.WritePaginated(w, records, total, limit, offset); err != nil {
		h.log.Error("Failed to write response", "error", err)
	}
}

func (h *BookingHandler) View(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	view, ok := lifecycle.ParseView(query.Get("view"))
	if !ok {
		h.writeError(w, apperrors.InvalidInput("view must be one of upcoming, cancelled, history"))
		return
	}

	// now= lets tests and UI countdowns pin the classification instant.
	now := time.Now()
	if s := query.Get("now"); s != "" {
		parsed, err := time.Parse(time.RFC3339, s)
		if err != nil {
			h.writeError(w, apperrors.InvalidInput("now must be an RFC3339 timestamp"))
			return
		}
		now = parsed
	}

	result, err := h.service.ClassifiedView(r.Context(), scopeFromQuery(r), view, query.Get("owner_id"), now)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := apphttp.WriteJSON(w, http.StatusOK, apphttp.ViewResponse{
		Data:        result.Records,
		TotalCount:  result.Total,
		Displayable: result.Displayable,
	}); err != nil {
		h.log.Error("Failed to write response", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	record, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := apphttp.WriteSuccess(w, record); err != nil {
		h.log.Error("Failed to write response", "error", err)
	}
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	record, err := h.service.Cancel(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := apphttp.WriteSuccess(w, record); err != nil {
		h.log.Error("Failed to write response", "error", err)
	}
}

func (h *BookingHandler) Complete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	record, err := h.service.Complete(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := apphttp.WriteSuccess(w, record); err != nil {
		h.log.Error("Failed to write response", "error", err)
	}
}

func (h *BookingHandler) Reschedule(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var update model.BookingReschedule
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.writeError(w, apperrors.InvalidInput("Invalid JSON payload"))
		return
	}

	record, err := h.service.Reschedule(r.Context(), ps.ByName("id"), &update)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := apphttp.WriteSuccess(w, record); err != nil {
		h.log.Error("Failed to write response", "error", err)
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, err error) {
	if writeErr := apphttp.WriteError(w, err); writeErr != nil {
		h.log.Error("Failed to write error response", "error", writeErr)
	}
}

func scopeFromQuery(r *http.Request) repository.Scope {
	query := r.URL.Query()
	return repository.Scope{
		UserID:   query.Get("user_id"),
		VendorID: query.Get("vendor_id"),
		Address:  query.Get("address"),
	}
}
