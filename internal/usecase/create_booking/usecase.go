package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chillthrive/CT-BookingService/internal/domain"
	"github.com/chillthrive/CT-BookingService/internal/infra/storage/schedule"
	serviceRepo "github.com/chillthrive/CT-BookingService/internal/infra/storage/service"
	"github.com/chillthrive/CT-BookingService/internal/pricing"
	"github.com/chillthrive/CT-BookingService/internal/resolver"
	"github.com/chillthrive/CT-BookingService/pkg/txmanager"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	serviceRepo  ServiceRepository
	scheduleRepo ScheduleRepository
	pricer       Pricer
	mailer       Mailer
	txManager    TransactionManager
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
// mailer может быть nil - подтверждения тогда не отправляются
func NewUseCase(
	bookingRepo BookingRepository,
	serviceRepo ServiceRepository,
	scheduleRepo ScheduleRepository,
	pricer Pricer,
	mailer Mailer,
	txManager TransactionManager,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		serviceRepo:  serviceRepo,
		scheduleRepo: scheduleRepo,
		pricer:       pricer,
		mailer:       mailer,
		txManager:    txManager,
		location:     location,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования.
// Использует сериализуемую транзакцию для предотвращения гонки данных:
// выборка бронирований дня, разрешение доступности и вставка выполняются
// атомарно, конкурирующая запись приводит к повтору всей транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: service=%s, slot=%s, date=%s, duration=%d",
		req.ServiceID, req.SlotIdentity, req.Date.Format(domain.DateFormat), req.DurationMinutes)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Текущее время в таймзоне бизнеса
	now := uc.timeProvider.Now().In(uc.location)

	if err := validateDate(req.Date, now); err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: %v", err)
		return nil, err
	}

	// 3. Получаем услугу с тарифами
	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%s not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%s: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsActive {
		uc.logger.Warn("CreateBooking: service id=%s is inactive", req.ServiceID)
		return nil, ErrServiceInactive
	}

	// 4. Закрытие дня - fast path до открытия транзакции
	closure, err := uc.scheduleRepo.GetClosureByDate(ctx, req.Date)
	if err != nil && !errors.Is(err, schedule.ErrClosureNotFound) {
		uc.logger.Error("CreateBooking: failed to get closure: %v", err)
		return nil, fmt.Errorf("%w: failed to get closure: %v", ErrInternal, err)
	}
	if closure != nil {
		uc.logger.Warn("CreateBooking: date %s is closed: %s",
			req.Date.Format(domain.DateFormat), closure.Reason)
		return nil, ErrDayClosed
	}

	var result *domain.Booking
	var quote *pricing.Quote

	// 5. Разрешение доступности и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		templates, err := uc.scheduleRepo.ListTemplatesByService(txCtx, req.ServiceID)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to list templates: %v", err)
			return fmt.Errorf("%w: failed to list templates: %v", ErrInternal, err)
		}

		exceptions, err := uc.scheduleRepo.ListExceptionsByServiceAndDate(txCtx, req.ServiceID, req.Date)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to list exceptions: %v", err)
			return fmt.Errorf("%w: failed to list exceptions: %v", ErrInternal, err)
		}

		// Активные бронирования дня выбираются с блокировкой (FOR UPDATE)
		bookings, err := uc.bookingRepo.GetByServiceWithFilter(txCtx, domain.DateBookingsFilter{
			ServiceID: req.ServiceID,
			Date:      &req.Date,
		})
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}

		occurrences := resolver.Resolve(resolver.Input{
			Date:       req.Date,
			Templates:  templates,
			Exceptions: exceptions,
			Bookings:   bookings,
		})

		occ := resolver.FindByIdentity(occurrences, req.SlotIdentity)
		if occ == nil {
			uc.logger.Warn("CreateBooking: slot %s not found on %s",
				req.SlotIdentity, req.Date.Format(domain.DateFormat))
			return ErrSlotNotFound
		}

		if !resolver.IsSelectable(occ, req.Date, now) {
			uc.logger.Warn("CreateBooking: slot %s not selectable: kind=%s, remaining=%d",
				req.SlotIdentity, occ.Kind, occ.Remaining)
			return ErrSlotNotAvailable
		}

		quote, err = uc.pricer.Price(txCtx, service, req.DurationMinutes, req.CouponCode)
		if err != nil {
			if errors.Is(err, pricing.ErrInvalidDuration) {
				uc.logger.Warn("CreateBooking: no price tier for duration=%d", req.DurationMinutes)
				return ErrInvalidDuration
			}
			uc.logger.Error("CreateBooking: pricing failed: %v", err)
			return fmt.Errorf("%w: pricing failed: %v", ErrInternal, err)
		}
		if quote.CouponRejected {
			uc.logger.Warn("CreateBooking: coupon rejected: %s", quote.RejectReason)
		}

		booking := &domain.Booking{
			ServiceID:       req.ServiceID,
			ServiceTitle:    service.Title,
			BookingDate:     req.Date,
			StartTime:       occ.StartTime,
			DurationMinutes: req.DurationMinutes,
			CustomerName:    req.CustomerName,
			CustomerPhone:   req.CustomerPhone,
			CustomerEmail:   req.CustomerEmail,
			PaymentMethod:   req.PaymentMethod,
			CouponCode:      quote.AppliedCode,
			DiscountAmount:  quote.DiscountAmount,
			FinalAmount:     quote.FinalAmount,
			// Бронирование рождается pending; online-оплата подтверждается
			// отдельной операцией верификации платежа
			Status: domain.StatusPending,
		}

		// Идентичность слота: added считается против исключения,
		// standard/modified - против шаблона
		if occ.Kind == domain.SlotAdded {
			booking.ExceptionID = &occ.ID
		} else {
			booking.SlotID = &occ.ID
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		if errors.Is(err, txmanager.ErrSerialization) {
			uc.logger.Warn("CreateBooking: serialization retries exhausted for slot %s", req.SlotIdentity)
			return nil, ErrCapacityRace
		}
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%s, final=%.2f",
		result.ID, result.FinalAmount)

	// Подтверждение по почте best-effort: ошибка не влияет на результат
	if uc.mailer != nil && result.CustomerEmail != "" {
		if err := uc.mailer.SendBookingConfirmation(ctx, result); err != nil {
			uc.logger.Warn("CreateBooking: failed to send confirmation for booking id=%s: %v", result.ID, err)
		}
	}

	return toResponse(result, quote), nil
}

func toResponse(b *domain.Booking, quote *pricing.Quote) *Response {
	return &Response{
		ID:              b.ID,
		ServiceID:       b.ServiceID,
		ServiceTitle:    b.ServiceTitle,
		SlotID:          b.SlotID,
		ExceptionID:     b.ExceptionID,
		BookingDate:     b.BookingDate,
		StartTime:       b.StartTime.String(),
		DurationMinutes: b.DurationMinutes,
		Status:          string(b.Status),
		CustomerName:    b.CustomerName,
		CustomerPhone:   b.CustomerPhone,
		CustomerEmail:   b.CustomerEmail,
		PaymentMethod:   string(b.PaymentMethod),
		BaseAmount:      quote.BaseAmount,
		DiscountAmount:  b.DiscountAmount,
		FinalAmount:     b.FinalAmount,
		CouponCode:      b.CouponCode,
		CouponRejected:  quote.CouponRejected,
		RejectReason:    quote.RejectReason,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}
