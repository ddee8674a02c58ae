package create_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/chillthrive/CT-BookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ServiceID == uuid.Nil {
		return fmt.Errorf("%w: serviceID is required", ErrInvalidInput)
	}

	if req.SlotIdentity == uuid.Nil {
		return fmt.Errorf("%w: slot is required", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.DurationMinutes <= 0 {
		return fmt.Errorf("%w: durationMinutes must be positive", ErrInvalidInput)
	}

	if err := validateCustomer(req); err != nil {
		return err
	}

	if req.PaymentMethod != domain.PaymentCash && req.PaymentMethod != domain.PaymentOnline {
		return fmt.Errorf("%w: paymentMethod must be %q or %q",
			ErrInvalidInput, domain.PaymentCash, domain.PaymentOnline)
	}

	return nil
}

func validateCustomer(req *Request) error {
	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		return fmt.Errorf("%w: customer name is required", ErrInvalidInput)
	}
	if len(name) > domain.MaxCustomerNameLength {
		return fmt.Errorf("%w: customer name is too long", ErrInvalidInput)
	}

	phone := strings.TrimSpace(req.CustomerPhone)
	if phone == "" {
		return fmt.Errorf("%w: customer phone is required", ErrInvalidInput)
	}
	if len(phone) > domain.MaxCustomerPhoneLength {
		return fmt.Errorf("%w: customer phone is too long", ErrInvalidInput)
	}

	if len(req.CustomerEmail) > domain.MaxCustomerEmailLength {
		return fmt.Errorf("%w: customer email is too long", ErrInvalidInput)
	}
	if req.CustomerEmail != "" && !strings.Contains(req.CustomerEmail, "@") {
		return fmt.Errorf("%w: customer email is invalid", ErrInvalidInput)
	}

	return nil
}

// validateDate проверяет, что дата не в прошлом
func validateDate(bookingDate, now time.Time) error {
	dateOnly := time.Date(bookingDate.Year(), bookingDate.Month(), bookingDate.Day(), 0, 0, 0, 0, now.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if dateOnly.Before(nowOnly) {
		return fmt.Errorf("%w: date is in the past", ErrInvalidDate)
	}
	return nil
}
