package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/chillthrive/CT-BookingService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

// PaymentMethod represents how the customer pays for a booking
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentOnline PaymentMethod = "online"
)

// Booking represents a committed reservation of one capacity unit
// of a resolved slot occurrence.
//
// Exactly one of SlotID / ExceptionID is set: SlotID for bookings made
// against a recurring template (including dates where the template was
// modified by an exception), ExceptionID for bookings made against an
// ad-hoc "added" slot that exists only for one date.
type Booking struct {
	ID           uuid.UUID
	ServiceID    uuid.UUID
	ServiceTitle string // denormalized snapshot for history
	SlotID       *uuid.UUID
	ExceptionID  *uuid.UUID

	BookingDate     time.Time
	StartTime       types.TimeString
	DurationMinutes int

	CustomerName  string
	CustomerPhone string
	CustomerEmail string

	PaymentMethod  PaymentMethod
	CouponCode     *string
	DiscountAmount float64
	FinalAmount    float64

	Status             BookingStatus
	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SlotIdentity returns the identity the booking's capacity unit is
// counted against: the template id or the exception id
func (b *Booking) SlotIdentity() uuid.UUID {
	if b.SlotID != nil {
		return *b.SlotID
	}
	if b.ExceptionID != nil {
		return *b.ExceptionID
	}
	return uuid.Nil
}

// IsActive returns true if the booking still consumes a capacity unit
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// CanBeCancelled returns true if the booking can transition to cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanBeConfirmed returns true if the booking can transition to confirmed
func (b *Booking) CanBeConfirmed() bool {
	return b.Status == StatusPending
}

// CanBeDeleted returns true if the booking row may be physically removed.
// Only cancelled bookings may be deleted; an active booking has to be
// cancelled first so its capacity unit is released explicitly
func (b *Booking) CanBeDeleted() bool {
	return b.Status == StatusCancelled
}

// DateBookingsFilter фильтр для выборки бронирований сервиса
type DateBookingsFilter struct {
	ServiceID       uuid.UUID      // Обязательный параметр
	Date            *time.Time     // Конкретная дата (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли отменённые бронирования
}
