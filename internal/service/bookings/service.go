package bookings

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/chillthrive/CT-BookingService/internal/domain"
	bookingRepo "github.com/chillthrive/CT-BookingService/internal/infra/storage/booking"
	"github.com/chillthrive/CT-BookingService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo   BookingRepository
	paymentSecret string
	logger        Logger
}

// NewService создает новый экземпляр сервиса бронирований
// paymentSecret - общий секрет с платёжным шлюзом для проверки подписей
func NewService(bookingRepo BookingRepository, paymentSecret string, logger Logger) *Service {
	return &Service{
		bookingRepo:   bookingRepo,
		paymentSecret: paymentSecret,
		logger:        logger,
	}
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%s", id)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// List получает бронирования услуги с гибкой фильтрацией
//
// Примеры использования:
// - Все активные бронирования услуги: List(ctx, &ListBookingsRequest{ServiceID: id})
// - Бронирования на дату: указать Date
// - Только подтвержденные: указать Status = "confirmed"
// - Включая отменённые: IncludeInactive = true
func (s *Service) List(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("List: fetching bookings for service=%s", req.ServiceID)

	if req.ServiceID == uuid.Nil {
		return nil, fmt.Errorf("%w: serviceID is required", ErrInvalidInput)
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter for service=%s: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: invalid status filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByServiceWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error for service=%s: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d bookings for service=%s", len(bookings), req.ServiceID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование. Отмена освобождает место в слоте:
// отменённые бронирования не учитываются при подсчёте занятости
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking id=%s", id)

	if len(req.Reason) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: cancellation reason is too long", ErrInvalidInput)
	}

	booking, err := s.getBooking(ctx, "Cancel", id)
	if err != nil {
		return err
	}

	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%s cannot be cancelled, status=%s", id, booking.Status)
		return ErrCannotCancel
	}

	if err := s.bookingRepo.Cancel(ctx, id, req.Reason); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%s: %v", id, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%s", id)
	return nil
}

// UpdateStatus обновляет статус бронирования (операторская операция)
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: updating booking id=%s to status=%s", id, req.Status)

	newStatus, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%s", req.Status, id)
		return fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	booking, err := s.getBooking(ctx, "UpdateStatus", id)
	if err != nil {
		return err
	}

	if err := validateTransition(booking, newStatus); err != nil {
		s.logger.Warn("UpdateStatus: invalid transition %s -> %s for booking id=%s",
			booking.Status, newStatus, id)
		return err
	}

	if booking.Status == newStatus {
		return nil
	}

	// Отмена идёт через Cancel, чтобы cancelled_at проставлялся единообразно
	if newStatus == domain.StatusCancelled {
		if err := s.bookingRepo.Cancel(ctx, id, ""); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			s.logger.Error("UpdateStatus: repository error for booking id=%s: %v", id, err)
			return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}
		s.logger.Info("UpdateStatus: successfully cancelled booking id=%s", id)
		return nil
	}

	if err := s.bookingRepo.UpdateStatus(ctx, id, newStatus); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return ErrBookingNotFound
		}
		s.logger.Error("UpdateStatus: repository error for booking id=%s: %v", id, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateStatus: successfully updated booking id=%s to status=%s", id, newStatus)
	return nil
}

// ConfirmPayment подтверждает онлайн-оплату бронирования.
// Подпись платёжного шлюза проверяется как HMAC-SHA256 от "bookingId:paymentRef"
// на общем секрете; успешная верификация переводит pending -> confirmed
func (s *Service) ConfirmPayment(ctx context.Context, id uuid.UUID, req *models.VerifyPaymentRequest) (*models.BookingResponse, error) {
	s.logger.Info("ConfirmPayment: verifying payment for booking id=%s, ref=%s", id, req.PaymentRef)

	if strings.TrimSpace(req.PaymentRef) == "" {
		return nil, fmt.Errorf("%w: paymentRef is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.Signature) == "" {
		return nil, fmt.Errorf("%w: signature is required", ErrInvalidInput)
	}

	booking, err := s.getBooking(ctx, "ConfirmPayment", id)
	if err != nil {
		return nil, err
	}

	if booking.PaymentMethod != domain.PaymentOnline {
		s.logger.Warn("ConfirmPayment: booking id=%s has payment method %s", id, booking.PaymentMethod)
		return nil, ErrNotOnlinePayment
	}

	if !booking.CanBeConfirmed() {
		s.logger.Warn("ConfirmPayment: booking id=%s cannot be confirmed, status=%s", id, booking.Status)
		return nil, ErrCannotConfirm
	}

	if !s.verifySignature(id, req.PaymentRef, req.Signature) {
		s.logger.Warn("ConfirmPayment: invalid signature for booking id=%s", id)
		return nil, ErrInvalidSignature
	}

	if err := s.bookingRepo.UpdateStatus(ctx, id, domain.StatusConfirmed); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		s.logger.Error("ConfirmPayment: repository error for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: ConfirmPayment - repository error: %v", ErrInternal, err)
	}

	booking.Status = domain.StatusConfirmed

	s.logger.Info("ConfirmPayment: successfully confirmed booking id=%s", id)
	return models.FromDomainBooking(booking), nil
}

// Delete физически удаляет бронирование.
// Разрешено только для отменённых: активное бронирование сперва отменяется,
// чтобы освобождение места было явным
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	s.logger.Info("Delete: deleting booking id=%s", id)

	booking, err := s.getBooking(ctx, "Delete", id)
	if err != nil {
		return err
	}

	if !booking.CanBeDeleted() {
		s.logger.Warn("Delete: booking id=%s is not cancelled, status=%s", id, booking.Status)
		return ErrCannotDelete
	}

	if err := s.bookingRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return ErrBookingNotFound
		}
		s.logger.Error("Delete: repository error for booking id=%s: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted booking id=%s", id)
	return nil
}

// Вспомогательные методы

func (s *Service) getBooking(ctx context.Context, op string, id uuid.UUID) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%s not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

func (s *Service) verifySignature(bookingID uuid.UUID, paymentRef, signature string) bool {
	mac := hmac.New(sha256.New, []byte(s.paymentSecret))
	mac.Write([]byte(bookingID.String() + ":" + paymentRef))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}

// validateTransition проверяет допустимость перехода статусов
func validateTransition(booking *domain.Booking, newStatus domain.BookingStatus) error {
	if booking.Status == newStatus {
		return nil
	}

	switch newStatus {
	case domain.StatusConfirmed:
		if !booking.CanBeConfirmed() {
			return ErrCannotConfirm
		}
	case domain.StatusCancelled:
		if !booking.CanBeCancelled() {
			return ErrCannotCancel
		}
	case domain.StatusPending:
		// Возврат в pending не поддерживается
		return fmt.Errorf("%w: cannot move booking back to pending", ErrInvalidInput)
	}

	return nil
}
