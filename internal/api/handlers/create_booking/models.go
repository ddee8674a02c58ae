package create_booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/chillthrive/CT-BookingService/internal/domain"
	createBooking "github.com/chillthrive/CT-BookingService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ServiceID       uuid.UUID `json:"serviceId"`
	SlotID          uuid.UUID `json:"slotId"` // идентичность слота из выдачи availability
	BookingDate     string    `json:"bookingDate"` // "2026-09-15"
	DurationMinutes int       `json:"durationMinutes"`
	CustomerName    string    `json:"customerName"`
	CustomerPhone   string    `json:"customerPhone"`
	CustomerEmail   string    `json:"customerEmail,omitempty"`
	PaymentMethod   string    `json:"paymentMethod"` // cash | online
	CouponCode      *string   `json:"couponCode,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID              uuid.UUID  `json:"id"`
	ServiceID       uuid.UUID  `json:"serviceId"`
	ServiceTitle    string     `json:"serviceTitle"`
	SlotID          *uuid.UUID `json:"slotId,omitempty"`
	ExceptionID     *uuid.UUID `json:"exceptionId,omitempty"`
	BookingDate     string     `json:"bookingDate"`
	StartTime       string     `json:"startTime"`
	DurationMinutes int        `json:"durationMinutes"`
	Status          string     `json:"status"`

	CustomerName  string `json:"customerName"`
	CustomerPhone string `json:"customerPhone"`
	CustomerEmail string `json:"customerEmail,omitempty"`
	PaymentMethod string `json:"paymentMethod"`

	BaseAmount     float64 `json:"baseAmount"`
	DiscountAmount float64 `json:"discountAmount"`
	FinalAmount    float64 `json:"finalAmount"`
	CouponCode     *string `json:"couponCode,omitempty"`
	CouponRejected bool    `json:"couponRejected,omitempty"`
	RejectReason   string  `json:"rejectReason,omitempty"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() (*createBooking.Request, error) {
	bookingDate, err := time.Parse(domain.DateFormat, r.BookingDate)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		ServiceID:       r.ServiceID,
		SlotIdentity:    r.SlotID,
		Date:            bookingDate,
		DurationMinutes: r.DurationMinutes,
		CustomerName:    r.CustomerName,
		CustomerPhone:   r.CustomerPhone,
		CustomerEmail:   r.CustomerEmail,
		PaymentMethod:   domain.PaymentMethod(r.PaymentMethod),
		CouponCode:      r.CouponCode,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:              resp.ID,
		ServiceID:       resp.ServiceID,
		ServiceTitle:    resp.ServiceTitle,
		SlotID:          resp.SlotID,
		ExceptionID:     resp.ExceptionID,
		BookingDate:     resp.BookingDate.Format(domain.DateFormat),
		StartTime:       resp.StartTime,
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		CustomerName:    resp.CustomerName,
		CustomerPhone:   resp.CustomerPhone,
		CustomerEmail:   resp.CustomerEmail,
		PaymentMethod:   resp.PaymentMethod,
		BaseAmount:      resp.BaseAmount,
		DiscountAmount:  resp.DiscountAmount,
		FinalAmount:     resp.FinalAmount,
		CouponCode:      resp.CouponCode,
		CouponRejected:  resp.CouponRejected,
		RejectReason:    resp.RejectReason,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}
