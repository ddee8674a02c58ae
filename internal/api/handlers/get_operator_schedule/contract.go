package get_operator_schedule

import (
	"context"
	"time"

	scheduleModels "github.com/chillthrive/CT-BookingService/internal/service/schedule/models"
	getAvailability "github.com/chillthrive/CT-BookingService/internal/usecase/get_availability"
)

type GetAvailabilityUseCase interface {
	Execute(ctx context.Context, req *getAvailability.Request) (*getAvailability.Response, error)
}

type ScheduleService interface {
	ListUpcomingClosures(ctx context.Context, from time.Time, limit uint64) (*scheduleModels.ClosureListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
