package list_bookings

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/chillthrive/CT-BookingService/internal/api/handlers"
	"github.com/chillthrive/CT-BookingService/internal/domain"
	"github.com/chillthrive/CT-BookingService/internal/service/bookings"
	"github.com/chillthrive/CT-BookingService/internal/service/bookings/models"
)

const (
	msgInvalidServiceID = "invalid service id"
	msgInvalidDate      = "invalid date, expected YYYY-MM-DD"
	msgInvalidFilter    = "invalid filter"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/bookings?serviceId=&date=&status=&includeInactive=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	serviceID, err := uuid.Parse(r.URL.Query().Get("serviceId"))
	if err != nil {
		h.logger.Warn("GET /admin/bookings - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	req := &models.ListBookingsRequest{
		ServiceID:       serviceID,
		IncludeInactive: r.URL.Query().Get("includeInactive") == "true",
	}

	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		date, err := time.Parse(domain.DateFormat, dateStr)
		if err != nil {
			h.logger.Warn("GET /admin/bookings - Invalid date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		req.Date = &date
	}

	if status := r.URL.Query().Get("status"); status != "" {
		req.Status = &status
	}

	result, err := h.service.List(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /admin/bookings - Invalid filter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidFilter)

		default:
			h.logger.Error("GET /admin/bookings - Failed: service_id=%s, error=%v", serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /admin/bookings - Retrieved %d bookings: service_id=%s",
		len(result.Bookings), serviceID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
