package verify_payment

import (
	"context"

	"github.com/google/uuid"

	"github.com/chillthrive/CT-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	ConfirmPayment(ctx context.Context, id uuid.UUID, req *models.VerifyPaymentRequest) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
