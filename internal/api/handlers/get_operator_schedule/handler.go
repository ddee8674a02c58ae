package get_operator_schedule

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/chillthrive/CT-BookingService/internal/api/handlers"
	availabilityHTTP "github.com/chillthrive/CT-BookingService/internal/api/handlers/get_availability"
	"github.com/chillthrive/CT-BookingService/internal/domain"
	getAvailability "github.com/chillthrive/CT-BookingService/internal/usecase/get_availability"
)

const (
	msgInvalidServiceID = "invalid service id"
	msgInvalidDate      = "invalid date, expected YYYY-MM-DD"
	msgServiceNotFound  = "service not found"
)

const upcomingClosuresLimit = 10

type Handler struct {
	useCase  GetAvailabilityUseCase
	schedule ScheduleService
	logger   Logger
}

func NewHandler(useCase GetAvailabilityUseCase, schedule ScheduleService, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		schedule: schedule,
		logger:   logger,
	}
}

// Handle GET /api/v1/admin/schedule?serviceId=&date=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	serviceID, err := uuid.Parse(r.URL.Query().Get("serviceId"))
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	date, err := time.Parse(domain.DateFormat, r.URL.Query().Get("date"))
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	availability, err := h.useCase.Execute(r.Context(), &getAvailability.Request{
		ServiceID: serviceID,
		Date:      date,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrServiceNotFound):
			h.logger.Warn("GET /admin/schedule - Service not found: service_id=%s", serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)
		case errors.Is(err, getAvailability.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())
		default:
			h.logger.Error("GET /admin/schedule - Failed to resolve day: service_id=%s, error=%v", serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	closures, err := h.schedule.ListUpcomingClosures(r.Context(), date, upcomingClosuresLimit)
	if err != nil {
		h.logger.Error("GET /admin/schedule - Failed to list closures: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	day := availabilityHTTP.FromUseCaseResponse(availability)
	resp := DayScheduleResponse{
		ServiceID:     day.ServiceID,
		Date:          day.Date,
		Closed:        day.Closed,
		ClosureReason: day.ClosureReason,
		Slots:         day.Slots,
		Upcoming:      closures.Closures,
	}

	h.logger.Info("GET /admin/schedule - Resolved %d occurrences: service_id=%s, date=%s, closed=%t",
		len(resp.Slots), serviceID, resp.Date, resp.Closed)
	handlers.RespondJSON(w, http.StatusOK, resp)
}
