package get_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chillthrive/CT-BookingService/internal/domain"
	"github.com/chillthrive/CT-BookingService/internal/infra/storage/schedule"
	serviceRepo "github.com/chillthrive/CT-BookingService/internal/infra/storage/service"
	"github.com/chillthrive/CT-BookingService/internal/resolver"
)

// UseCase use case для получения доступности слотов на дату
type UseCase struct {
	serviceRepo  ServiceRepository
	scheduleRepo ScheduleRepository
	bookingRepo  BookingRepository
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
// location - таймзона бизнеса для вычислений "сегодня/сейчас"
func NewUseCase(
	serviceRepo ServiceRepository,
	scheduleRepo ScheduleRepository,
	bookingRepo BookingRepository,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		serviceRepo:  serviceRepo,
		scheduleRepo: scheduleRepo,
		bookingRepo:  bookingRepo,
		location:     location,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения доступности.
//
// Порядок разрешения: закрытие дня (fast path, пустая выдача) ->
// шаблоны + исключения + активные бронирования -> чистое разрешение.
// Результат эфемерный и нигде не сохраняется
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: service=%s, date=%s",
		req.ServiceID, req.Date.Format(domain.DateFormat))

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	if _, err := uc.serviceRepo.GetByID(ctx, req.ServiceID); err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailability: service id=%s not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailability: failed to get service id=%s: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	resp := &Response{
		ServiceID: req.ServiceID,
		Date:      req.Date,
		Slots:     []Slot{},
	}

	// Закрытие дня перекрывает любое расписание
	closure, err := uc.scheduleRepo.GetClosureByDate(ctx, req.Date)
	if err != nil && !errors.Is(err, schedule.ErrClosureNotFound) {
		uc.logger.Error("GetAvailability: failed to get closure: %v", err)
		return nil, fmt.Errorf("%w: failed to get closure: %v", ErrInternal, err)
	}
	if closure != nil {
		uc.logger.Info("GetAvailability: date %s is closed: %s",
			req.Date.Format(domain.DateFormat), closure.Reason)
		resp.Closed = true
		if closure.Reason != "" {
			resp.ClosureReason = &closure.Reason
		}
		return resp, nil
	}

	templates, err := uc.scheduleRepo.ListTemplatesByService(ctx, req.ServiceID)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to list templates: %v", err)
		return nil, fmt.Errorf("%w: failed to list templates: %v", ErrInternal, err)
	}

	exceptions, err := uc.scheduleRepo.ListExceptionsByServiceAndDate(ctx, req.ServiceID, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to list exceptions: %v", err)
		return nil, fmt.Errorf("%w: failed to list exceptions: %v", ErrInternal, err)
	}

	bookings, err := uc.bookingRepo.GetByServiceWithFilter(ctx, domain.DateBookingsFilter{
		ServiceID: req.ServiceID,
		Date:      &req.Date,
	})
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	occurrences := resolver.Resolve(resolver.Input{
		Date:       req.Date,
		Templates:  templates,
		Exceptions: exceptions,
		Bookings:   bookings,
	})

	now := uc.timeProvider.Now().In(uc.location)
	resp.Slots = make([]Slot, 0, len(occurrences))
	for i := range occurrences {
		resp.Slots = append(resp.Slots, toSlot(&occurrences[i], req.Date, now))
	}

	uc.logger.Info("GetAvailability: resolved %d slots for service=%s date=%s",
		len(resp.Slots), req.ServiceID, req.Date.Format(domain.DateFormat))

	return resp, nil
}

func toSlot(occ *domain.SlotOccurrence, date, now time.Time) Slot {
	return Slot{
		ID:          occ.ID,
		SlotID:      occ.SlotID,
		ExceptionID: occ.ExceptionID,
		Kind:        string(occ.Kind),
		StartTime:   occ.StartTime.String(),
		EndTime:     occ.EndTime.String(),
		Capacity:    occ.Capacity,
		Booked:      occ.Booked,
		Remaining:   occ.Remaining,
		Selectable:  isSelectable(occ, date, now),
	}
}

// isSelectable дополняет правило резолвера проверкой прошедших дат:
// на прошедшую дату ни один слот выбрать нельзя
func isSelectable(occ *domain.SlotOccurrence, date, now time.Time) bool {
	if isDateInPast(date, now) {
		return false
	}
	return resolver.IsSelectable(occ, date, now)
}

func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
