package create_booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/chillthrive/CT-BookingService/internal/domain"
	"github.com/chillthrive/CT-BookingService/internal/pricing"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByServiceWithFilter(ctx context.Context, filter domain.DateBookingsFilter) ([]*domain.Booking, error)
}

// ServiceRepository интерфейс репозитория каталога услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Service, error)
}

// ScheduleRepository интерфейс репозитория расписания
type ScheduleRepository interface {
	GetClosureByDate(ctx context.Context, date time.Time) (*domain.DateClosure, error)
	ListTemplatesByService(ctx context.Context, serviceID uuid.UUID) ([]*domain.SlotTemplate, error)
	ListExceptionsByServiceAndDate(ctx context.Context, serviceID uuid.UUID, date time.Time) ([]*domain.ScheduleException, error)
}

// Pricer интерфейс движка расчёта цен
type Pricer interface {
	Price(ctx context.Context, svc *domain.Service, durationMinutes int, couponCode *string) (*pricing.Quote, error)
}

// Mailer интерфейс отправки подтверждения бронирования
// Отправка best-effort: ошибка логируется и не откатывает бронирование
type Mailer interface {
	SendBookingConfirmation(ctx context.Context, booking *domain.Booking) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
