package create_booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/chillthrive/CT-BookingService/internal/domain"
)

// Request модель запроса на создание бронирования
type Request struct {
	ServiceID       uuid.UUID // ID услуги
	SlotIdentity    uuid.UUID // идентичность выбранного слота (id шаблона или исключения)
	Date            time.Time // Дата бронирования (без времени)
	DurationMinutes int       // Длительность услуги в минутах

	CustomerName  string
	CustomerPhone string
	CustomerEmail string

	PaymentMethod domain.PaymentMethod
	CouponCode    *string // явный код купона (опционально)
}

// Response модель ответа с созданным бронированием и расчётом цены
type Response struct {
	ID              uuid.UUID
	ServiceID       uuid.UUID
	ServiceTitle    string
	SlotID          *uuid.UUID
	ExceptionID     *uuid.UUID
	BookingDate     time.Time
	StartTime       string // HH:MM
	DurationMinutes int
	Status          string

	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	PaymentMethod string

	// Расчёт цены
	BaseAmount     float64
	DiscountAmount float64
	FinalAmount    float64
	CouponCode     *string
	CouponRejected bool
	RejectReason   string

	CreatedAt time.Time
	UpdatedAt time.Time
}
