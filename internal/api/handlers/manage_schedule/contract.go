package manage_schedule

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/chillthrive/CT-BookingService/internal/service/schedule/models"
)

type ScheduleService interface {
	ListTemplates(ctx context.Context, serviceID uuid.UUID) (*models.TemplateListResponse, error)
	CreateTemplate(ctx context.Context, req *models.CreateTemplateRequest) (*models.TemplateResponse, error)
	UpdateTemplate(ctx context.Context, id uuid.UUID, req *models.UpdateTemplateRequest) (*models.TemplateResponse, error)
	DeleteTemplate(ctx context.Context, id uuid.UUID) error

	ListExceptions(ctx context.Context, serviceID uuid.UUID, date time.Time) ([]models.ExceptionResponse, error)
	CreateException(ctx context.Context, req *models.CreateExceptionRequest) (*models.ExceptionResponse, error)
	UpdateException(ctx context.Context, id uuid.UUID, req *models.UpdateExceptionRequest) (*models.ExceptionResponse, error)
	DeleteException(ctx context.Context, id uuid.UUID) error

	CreateClosure(ctx context.Context, req *models.CreateClosureRequest) (*models.ClosureResponse, error)
	ListUpcomingClosures(ctx context.Context, from time.Time, limit uint64) (*models.ClosureListResponse, error)
	DeleteClosure(ctx context.Context, id uuid.UUID) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
