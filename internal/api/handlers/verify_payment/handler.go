package verify_payment

import (
	"errors"
	"net/http"

	"github.com/chillthrive/CT-BookingService/internal/api/handlers"
	"github.com/chillthrive/CT-BookingService/internal/service/bookings"
	"github.com/chillthrive/CT-BookingService/internal/service/bookings/models"
)

const (
	msgInvalidBookingID   = "invalid booking id"
	msgInvalidRequestBody = "invalid request body"
	msgNotFound           = "booking not found"
	msgNotOnline          = "booking was not paid online"
	msgCannotConfirm      = "booking cannot be confirmed"
	msgInvalidSignature   = "invalid payment signature"
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

// Handle POST /api/v1/bookings/{bookingId}/verify-payment
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathUUID(r, "bookingId")
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/verify-payment - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req models.VerifyPaymentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/verify-payment - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	booking, err := h.service.ConfirmPayment(r.Context(), bookingID, &req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/verify-payment - Booking not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrNotOnlinePayment):
			h.logger.Warn("POST /bookings/{id}/verify-payment - Not an online booking: booking_id=%s", bookingID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgNotOnline)

		case errors.Is(err, bookings.ErrCannotConfirm):
			h.logger.Warn("POST /bookings/{id}/verify-payment - Cannot confirm: booking_id=%s", bookingID)
			handlers.RespondConflict(w, msgCannotConfirm)

		case errors.Is(err, bookings.ErrInvalidSignature):
			h.logger.Warn("POST /bookings/{id}/verify-payment - Invalid signature: booking_id=%s", bookingID)
			handlers.RespondForbidden(w, msgInvalidSignature)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("POST /bookings/{id}/verify-payment - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /bookings/{id}/verify-payment - Failed: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/verify-payment - Payment confirmed: booking_id=%s", bookingID)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
