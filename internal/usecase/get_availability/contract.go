package get_availability

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/chillthrive/CT-BookingService/internal/domain"
)

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

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByServiceWithFilter(ctx context.Context, filter domain.DateBookingsFilter) ([]*domain.Booking, error)
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
