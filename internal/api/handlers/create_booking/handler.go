package create_booking

import (
	"errors"
	"net/http"

	"github.com/chillthrive/CT-BookingService/internal/api/handlers"
	createBooking "github.com/chillthrive/CT-BookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidDate        = "invalid booking date, expected YYYY-MM-DD"
	msgServiceNotFound    = "service not found"
	msgServiceInactive    = "service is not available for booking"
	msgDayClosed          = "this date is closed for bookings"
	msgSlotNotFound       = "slot not found on this date"
	msgSlotNotAvailable   = "selected slot is not available"
	msgInvalidDuration    = "no price for requested duration"
	msgCapacityRace       = "slot was just taken, please pick another"
	msgInvalidBookingDate = "booking date is in the past"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, createBooking.ErrInvalidDate):
			h.logger.Warn("POST /bookings - Past date: service_id=%s", req.ServiceID)
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: service_id=%s", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrServiceInactive):
			h.logger.Warn("POST /bookings - Service inactive: service_id=%s", req.ServiceID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgServiceInactive)

		case errors.Is(err, createBooking.ErrDayClosed):
			h.logger.Warn("POST /bookings - Day closed: service_id=%s, date=%s", req.ServiceID, req.BookingDate)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgDayClosed)

		case errors.Is(err, createBooking.ErrSlotNotFound):
			h.logger.Warn("POST /bookings - Slot not found: slot_id=%s, date=%s", req.SlotID, req.BookingDate)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, createBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings - Slot not available: slot_id=%s, date=%s", req.SlotID, req.BookingDate)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createBooking.ErrInvalidDuration):
			h.logger.Warn("POST /bookings - Invalid duration: service_id=%s, duration=%d",
				req.ServiceID, req.DurationMinutes)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgInvalidDuration)

		case errors.Is(err, createBooking.ErrCapacityRace):
			h.logger.Warn("POST /bookings - Capacity race: slot_id=%s, date=%s", req.SlotID, req.BookingDate)
			handlers.RespondConflict(w, msgCapacityRace)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: service_id=%s, error=%v",
				req.ServiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%s, service_id=%s",
		result.ID, req.ServiceID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
