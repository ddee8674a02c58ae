package schedule

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/chillthrive/CT-BookingService/internal/domain"
	scheduleRepo "github.com/chillthrive/CT-BookingService/internal/infra/storage/schedule"
)

// ScheduleRepository интерфейс репозитория расписания
type ScheduleRepository interface {
	CreateTemplate(ctx context.Context, tpl *domain.SlotTemplate) (*domain.SlotTemplate, error)
	GetTemplateByID(ctx context.Context, id uuid.UUID) (*domain.SlotTemplate, error)
	ListTemplatesByService(ctx context.Context, serviceID uuid.UUID) ([]*domain.SlotTemplate, error)
	UpdateTemplate(ctx context.Context, id uuid.UUID, upd scheduleRepo.TemplateUpdate) error
	DeleteTemplate(ctx context.Context, id uuid.UUID) error

	CreateException(ctx context.Context, exc *domain.ScheduleException) (*domain.ScheduleException, error)
	GetExceptionByID(ctx context.Context, id uuid.UUID) (*domain.ScheduleException, error)
	ListExceptionsByServiceAndDate(ctx context.Context, serviceID uuid.UUID, date time.Time) ([]*domain.ScheduleException, error)
	UpdateExceptionCapacity(ctx context.Context, id uuid.UUID, capacity int) error
	DeleteException(ctx context.Context, id uuid.UUID) error
	DeleteExceptionsBySlotAndDate(ctx context.Context, slotID uuid.UUID, date time.Time) error

	CreateClosure(ctx context.Context, closure *domain.DateClosure) (*domain.DateClosure, error)
	ListUpcomingClosures(ctx context.Context, from time.Time, limit uint64) ([]*domain.DateClosure, error)
	DeleteClosure(ctx context.Context, id uuid.UUID) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
