// Package schedule операторский сервис управления расписанием:
// шаблоны слотов, исключения на дату и закрытия дней
package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/chillthrive/CT-BookingService/internal/domain"
	scheduleRepo "github.com/chillthrive/CT-BookingService/internal/infra/storage/schedule"
	"github.com/chillthrive/CT-BookingService/internal/service/schedule/models"
	"github.com/chillthrive/CT-BookingService/pkg/types"
)

// Service сервис управления расписанием
type Service struct {
	scheduleRepo ScheduleRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(scheduleRepo ScheduleRepository, logger Logger) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		logger:       logger,
	}
}

// Шаблоны слотов

// ListTemplates получает все шаблоны слотов услуги
func (s *Service) ListTemplates(ctx context.Context, serviceID uuid.UUID) (*models.TemplateListResponse, error) {
	s.logger.Info("ListTemplates: fetching templates for service=%s", serviceID)

	if serviceID == uuid.Nil {
		return nil, fmt.Errorf("%w: serviceID is required", ErrInvalidInput)
	}

	templates, err := s.scheduleRepo.ListTemplatesByService(ctx, serviceID)
	if err != nil {
		s.logger.Error("ListTemplates: repository error for service=%s: %v", serviceID, err)
		return nil, fmt.Errorf("%w: ListTemplates - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainTemplateList(templates), nil
}

// CreateTemplate создает новый шаблон слота
func (s *Service) CreateTemplate(ctx context.Context, req *models.CreateTemplateRequest) (*models.TemplateResponse, error) {
	s.logger.Info("CreateTemplate: service=%s, time=%s-%s, capacity=%d",
		req.ServiceID, req.StartTime, req.EndTime, req.Capacity)

	if req.ServiceID == uuid.Nil {
		return nil, fmt.Errorf("%w: serviceID is required", ErrInvalidInput)
	}

	start, end, err := parseTimeRange(req.StartTime, req.EndTime)
	if err != nil {
		s.logger.Warn("CreateTemplate: invalid time range: %v", err)
		return nil, err
	}

	if err := validateCapacity(req.Capacity); err != nil {
		s.logger.Warn("CreateTemplate: invalid capacity=%d", req.Capacity)
		return nil, err
	}

	created, err := s.scheduleRepo.CreateTemplate(ctx, &domain.SlotTemplate{
		ServiceID: req.ServiceID,
		StartTime: start,
		EndTime:   end,
		Capacity:  req.Capacity,
	})
	if err != nil {
		s.logger.Error("CreateTemplate: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateTemplate - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateTemplate: successfully created template id=%s", created.ID)
	return models.FromDomainTemplate(created), nil
}

// UpdateTemplate обновляет мастер-шаблон слота ("обновить мастер").
// Если указана ApplyDate, исключения этого шаблона на эту дату удаляются:
// правка продвигается в постоянное расписание и разовое исключение
// перестало бы иметь смысл
func (s *Service) UpdateTemplate(ctx context.Context, id uuid.UUID, req *models.UpdateTemplateRequest) (*models.TemplateResponse, error) {
	s.logger.Info("UpdateTemplate: updating template id=%s", id)

	upd, err := buildTemplateUpdate(req)
	if err != nil {
		s.logger.Warn("UpdateTemplate: invalid update for template id=%s: %v", id, err)
		return nil, err
	}

	tpl, err := s.getTemplate(ctx, "UpdateTemplate", id)
	if err != nil {
		return nil, err
	}

	if err := validateUpdatedRange(tpl, upd); err != nil {
		s.logger.Warn("UpdateTemplate: invalid resulting range for template id=%s: %v", id, err)
		return nil, err
	}

	if err := s.scheduleRepo.UpdateTemplate(ctx, id, upd); err != nil {
		if errors.Is(err, scheduleRepo.ErrTemplateNotFound) {
			return nil, ErrTemplateNotFound
		}
		s.logger.Error("UpdateTemplate: repository error for template id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateTemplate - repository error: %v", ErrInternal, err)
	}

	if req.ApplyDate != nil {
		if err := s.scheduleRepo.DeleteExceptionsBySlotAndDate(ctx, id, *req.ApplyDate); err != nil {
			s.logger.Error("UpdateTemplate: failed to delete exceptions for template id=%s on %s: %v",
				id, req.ApplyDate.Format(domain.DateFormat), err)
			return nil, fmt.Errorf("%w: UpdateTemplate - delete exceptions: %v", ErrInternal, err)
		}
		s.logger.Info("UpdateTemplate: removed exceptions for template id=%s on %s",
			id, req.ApplyDate.Format(domain.DateFormat))
	}

	updated, err := s.getTemplate(ctx, "UpdateTemplate", id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("UpdateTemplate: successfully updated template id=%s", id)
	return models.FromDomainTemplate(updated), nil
}

// DeleteTemplate удаляет шаблон слота.
// Шаблон с бронированиями удалить нельзя: история занятости должна
// оставаться разрешимой, такие даты следует блокировать исключениями
func (s *Service) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	s.logger.Info("DeleteTemplate: deleting template id=%s", id)

	err := s.scheduleRepo.DeleteTemplate(ctx, id)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrTemplateNotFound) {
			s.logger.Warn("DeleteTemplate: template id=%s not found", id)
			return ErrTemplateNotFound
		}
		if errors.Is(err, scheduleRepo.ErrReferenced) {
			s.logger.Warn("DeleteTemplate: template id=%s is referenced by bookings", id)
			return ErrTemplateInUse
		}
		s.logger.Error("DeleteTemplate: repository error for template id=%s: %v", id, err)
		return fmt.Errorf("%w: DeleteTemplate - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteTemplate: successfully deleted template id=%s", id)
	return nil
}

// Исключения расписания

// ListExceptions получает исключения услуги на дату
func (s *Service) ListExceptions(ctx context.Context, serviceID uuid.UUID, date time.Time) ([]models.ExceptionResponse, error) {
	s.logger.Info("ListExceptions: service=%s, date=%s", serviceID, date.Format(domain.DateFormat))

	if serviceID == uuid.Nil {
		return nil, fmt.Errorf("%w: serviceID is required", ErrInvalidInput)
	}
	if date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	exceptions, err := s.scheduleRepo.ListExceptionsByServiceAndDate(ctx, serviceID, date)
	if err != nil {
		s.logger.Error("ListExceptions: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListExceptions - repository error: %v", ErrInternal, err)
	}

	out := make([]models.ExceptionResponse, 0, len(exceptions))
	for _, e := range exceptions {
		if er := models.FromDomainException(e); er != nil {
			out = append(out, *er)
		}
	}
	return out, nil
}

// CreateException создает исключение расписания на дату.
// block отключает шаблон, modify переопределяет его ёмкость/время,
// add вводит разовый слот. На (услуга, дата, шаблон) допускается
// не более одного исключения
func (s *Service) CreateException(ctx context.Context, req *models.CreateExceptionRequest) (*models.ExceptionResponse, error) {
	s.logger.Info("CreateException: service=%s, date=%s, kind=%s",
		req.ServiceID, req.Date.Format(domain.DateFormat), req.Kind)

	exc, err := s.buildException(ctx, req)
	if err != nil {
		s.logger.Warn("CreateException: validation failed: %v", err)
		return nil, err
	}

	created, err := s.scheduleRepo.CreateException(ctx, exc)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrDuplicate) {
			s.logger.Warn("CreateException: duplicate exception for service=%s, date=%s",
				req.ServiceID, req.Date.Format(domain.DateFormat))
			return nil, ErrDuplicateException
		}
		s.logger.Error("CreateException: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateException - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateException: successfully created exception id=%s", created.ID)
	return models.FromDomainException(created), nil
}

// UpdateException правит ёмкость исключения.
// У block-исключения ёмкости нет - такие правки отклоняются
func (s *Service) UpdateException(ctx context.Context, id uuid.UUID, req *models.UpdateExceptionRequest) (*models.ExceptionResponse, error) {
	s.logger.Info("UpdateException: updating exception id=%s", id)

	if req.Capacity == nil {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}
	if err := validateCapacity(*req.Capacity); err != nil {
		s.logger.Warn("UpdateException: invalid capacity=%d", *req.Capacity)
		return nil, err
	}

	exc, err := s.scheduleRepo.GetExceptionByID(ctx, id)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrExceptionNotFound) {
			s.logger.Warn("UpdateException: exception id=%s not found", id)
			return nil, ErrExceptionNotFound
		}
		s.logger.Error("UpdateException: repository error for exception id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateException - repository error: %v", ErrInternal, err)
	}

	if exc.IsBlocked {
		return nil, fmt.Errorf("%w: blocked exception has no capacity", ErrInvalidInput)
	}

	if err := s.scheduleRepo.UpdateExceptionCapacity(ctx, id, *req.Capacity); err != nil {
		if errors.Is(err, scheduleRepo.ErrExceptionNotFound) {
			return nil, ErrExceptionNotFound
		}
		s.logger.Error("UpdateException: repository error for exception id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateException - repository error: %v", ErrInternal, err)
	}

	exc.Capacity = req.Capacity

	s.logger.Info("UpdateException: successfully updated exception id=%s", id)
	return models.FromDomainException(exc), nil
}

// DeleteException удаляет исключение расписания.
// Исключение с бронированиями (разовый add-слот) удалить нельзя
func (s *Service) DeleteException(ctx context.Context, id uuid.UUID) error {
	s.logger.Info("DeleteException: deleting exception id=%s", id)

	err := s.scheduleRepo.DeleteException(ctx, id)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrExceptionNotFound) {
			s.logger.Warn("DeleteException: exception id=%s not found", id)
			return ErrExceptionNotFound
		}
		if errors.Is(err, scheduleRepo.ErrReferenced) {
			s.logger.Warn("DeleteException: exception id=%s is referenced by bookings", id)
			return ErrExceptionInUse
		}
		s.logger.Error("DeleteException: repository error for exception id=%s: %v", id, err)
		return fmt.Errorf("%w: DeleteException - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteException: successfully deleted exception id=%s", id)
	return nil
}

// Закрытия дней

// CreateClosure закрывает дату целиком для всех услуг
func (s *Service) CreateClosure(ctx context.Context, req *models.CreateClosureRequest) (*models.ClosureResponse, error) {
	s.logger.Info("CreateClosure: date=%s, reason=%q", req.Date.Format(domain.DateFormat), req.Reason)

	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if len(req.Reason) > domain.MaxClosureReasonLength {
		return nil, fmt.Errorf("%w: reason is too long", ErrInvalidInput)
	}

	created, err := s.scheduleRepo.CreateClosure(ctx, &domain.DateClosure{
		Date:   req.Date,
		Reason: req.Reason,
	})
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrDuplicate) {
			s.logger.Warn("CreateClosure: date %s is already closed", req.Date.Format(domain.DateFormat))
			return nil, ErrDuplicateClosure
		}
		s.logger.Error("CreateClosure: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateClosure - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateClosure: successfully closed date %s", req.Date.Format(domain.DateFormat))
	return models.FromDomainClosure(created), nil
}

// ListUpcomingClosures получает предстоящие закрытия начиная с даты from
func (s *Service) ListUpcomingClosures(ctx context.Context, from time.Time, limit uint64) (*models.ClosureListResponse, error) {
	s.logger.Info("ListUpcomingClosures: from=%s, limit=%d", from.Format(domain.DateFormat), limit)

	closures, err := s.scheduleRepo.ListUpcomingClosures(ctx, from, limit)
	if err != nil {
		s.logger.Error("ListUpcomingClosures: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListUpcomingClosures - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainClosureList(closures), nil
}

// DeleteClosure снимает закрытие дня
func (s *Service) DeleteClosure(ctx context.Context, id uuid.UUID) error {
	s.logger.Info("DeleteClosure: deleting closure id=%s", id)

	err := s.scheduleRepo.DeleteClosure(ctx, id)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrClosureNotFound) {
			s.logger.Warn("DeleteClosure: closure id=%s not found", id)
			return ErrClosureNotFound
		}
		s.logger.Error("DeleteClosure: repository error for closure id=%s: %v", id, err)
		return fmt.Errorf("%w: DeleteClosure - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteClosure: successfully deleted closure id=%s", id)
	return nil
}

// Вспомогательные методы

func (s *Service) getTemplate(ctx context.Context, op string, id uuid.UUID) (*domain.SlotTemplate, error) {
	tpl, err := s.scheduleRepo.GetTemplateByID(ctx, id)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrTemplateNotFound) {
			s.logger.Warn("%s: template id=%s not found", op, id)
			return nil, ErrTemplateNotFound
		}
		s.logger.Error("%s: repository error for template id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return tpl, nil
}

// buildException валидирует запрос и собирает domain модель исключения
func (s *Service) buildException(ctx context.Context, req *models.CreateExceptionRequest) (*domain.ScheduleException, error) {
	if req.ServiceID == uuid.Nil {
		return nil, fmt.Errorf("%w: serviceID is required", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	exc := &domain.ScheduleException{
		ServiceID: req.ServiceID,
		Date:      req.Date,
		SlotID:    req.SlotID,
		Capacity:  req.Capacity,
	}

	if req.StartTime != nil {
		start, err := types.NewTimeStringFromString(*req.StartTime)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
		}
		exc.StartTime = &start
	}
	if req.EndTime != nil {
		end, err := types.NewTimeStringFromString(*req.EndTime)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid endTime: %v", ErrInvalidInput, err)
		}
		exc.EndTime = &end
	}

	switch domain.ExceptionKind(req.Kind) {
	case domain.ExceptionBlock:
		if req.SlotID == nil {
			return nil, fmt.Errorf("%w: block exception requires slotId", ErrInvalidInput)
		}
		exc.IsBlocked = true

	case domain.ExceptionModify:
		if req.SlotID == nil {
			return nil, fmt.Errorf("%w: modify exception requires slotId", ErrInvalidInput)
		}
		if req.Capacity == nil && req.StartTime == nil && req.EndTime == nil {
			return nil, fmt.Errorf("%w: modify exception requires at least one override", ErrInvalidInput)
		}

	case domain.ExceptionAdd:
		if req.SlotID != nil {
			return nil, fmt.Errorf("%w: add exception must not reference a slot", ErrInvalidInput)
		}
		if exc.StartTime == nil || exc.EndTime == nil || req.Capacity == nil {
			return nil, fmt.Errorf("%w: add exception requires startTime, endTime and capacity", ErrInvalidInput)
		}
		if !exc.StartTime.IsBefore(*exc.EndTime) {
			return nil, fmt.Errorf("%w: startTime must be before endTime", ErrInvalidInput)
		}
		exc.IsAdded = true

	default:
		return nil, fmt.Errorf("%w: unknown exception kind %q", ErrInvalidInput, req.Kind)
	}

	if req.Capacity != nil {
		if err := validateCapacity(*req.Capacity); err != nil {
			return nil, err
		}
	}

	// Шаблон должен существовать и принадлежать той же услуге
	if req.SlotID != nil {
		tpl, err := s.getTemplate(ctx, "CreateException", *req.SlotID)
		if err != nil {
			return nil, err
		}
		if tpl.ServiceID != req.ServiceID {
			return nil, fmt.Errorf("%w: slot belongs to another service", ErrInvalidInput)
		}
	}

	return exc, nil
}

func buildTemplateUpdate(req *models.UpdateTemplateRequest) (scheduleRepo.TemplateUpdate, error) {
	var upd scheduleRepo.TemplateUpdate

	if req.StartTime == nil && req.EndTime == nil && req.Capacity == nil {
		return upd, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}

	if req.StartTime != nil {
		start, err := types.NewTimeStringFromString(*req.StartTime)
		if err != nil {
			return upd, fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
		}
		upd.StartTime = &start
	}
	if req.EndTime != nil {
		end, err := types.NewTimeStringFromString(*req.EndTime)
		if err != nil {
			return upd, fmt.Errorf("%w: invalid endTime: %v", ErrInvalidInput, err)
		}
		upd.EndTime = &end
	}
	if req.Capacity != nil {
		if err := validateCapacity(*req.Capacity); err != nil {
			return upd, err
		}
		upd.Capacity = req.Capacity
	}

	return upd, nil
}

// validateUpdatedRange проверяет, что после применения обновления
// время начала остаётся раньше времени конца
func validateUpdatedRange(tpl *domain.SlotTemplate, upd scheduleRepo.TemplateUpdate) error {
	start := tpl.StartTime
	end := tpl.EndTime
	if upd.StartTime != nil {
		start = *upd.StartTime
	}
	if upd.EndTime != nil {
		end = *upd.EndTime
	}
	if !start.IsBefore(end) {
		return fmt.Errorf("%w: startTime must be before endTime", ErrInvalidInput)
	}
	return nil
}

func parseTimeRange(startStr, endStr string) (types.TimeString, types.TimeString, error) {
	start, err := types.NewTimeStringFromString(startStr)
	if err != nil {
		return "", "", fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
	}
	end, err := types.NewTimeStringFromString(endStr)
	if err != nil {
		return "", "", fmt.Errorf("%w: invalid endTime: %v", ErrInvalidInput, err)
	}
	if !start.IsBefore(end) {
		return "", "", fmt.Errorf("%w: startTime must be before endTime", ErrInvalidInput)
	}
	return start, end, nil
}

func validateCapacity(capacity int) error {
	if capacity < domain.MinSlotCapacity || capacity > domain.MaxSlotCapacity {
		return fmt.Errorf("%w: capacity must be between %d and %d",
			ErrInvalidInput, domain.MinSlotCapacity, domain.MaxSlotCapacity)
	}
	return nil
}
