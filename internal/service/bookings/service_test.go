package bookings

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chillthrive/CT-BookingService/internal/domain"
	bookingRepo "github.com/chillthrive/CT-BookingService/internal/infra/storage/booking"
	"github.com/chillthrive/CT-BookingService/internal/service/bookings/models"
)

const testSecret = "test-payment-secret"

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeBookingRepo struct {
	bookings map[uuid.UUID]*domain.Booking
}

func newFakeBookingRepo(bookings ...*domain.Booking) *fakeBookingRepo {
	repo := &fakeBookingRepo{bookings: make(map[uuid.UUID]*domain.Booking)}
	for _, b := range bookings {
		repo.bookings[b.ID] = b
	}
	return repo
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBookingRepo) GetByServiceWithFilter(_ context.Context, filter domain.DateBookingsFilter) ([]*domain.Booking, error) {
	out := make([]*domain.Booking, 0)
	for _, b := range f.bookings {
		if b.ServiceID != filter.ServiceID {
			continue
		}
		if !filter.IncludeInactive && !b.IsActive() {
			continue
		}
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, id uuid.UUID, status domain.BookingStatus) error {
	b, ok := f.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.Status = status
	return nil
}

func (f *fakeBookingRepo) Cancel(_ context.Context, id uuid.UUID, reason string) error {
	b, ok := f.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	now := time.Now()
	b.Status = domain.StatusCancelled
	b.CancellationReason = &reason
	b.CancelledAt = &now
	return nil
}

func (f *fakeBookingRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.bookings[id]; !ok {
		return bookingRepo.ErrBookingNotFound
	}
	delete(f.bookings, id)
	return nil
}

func newBooking(status domain.BookingStatus, method domain.PaymentMethod) *domain.Booking {
	slotID := uuid.New()
	return &domain.Booking{
		ID:            uuid.New(),
		ServiceID:     uuid.New(),
		ServiceTitle:  "Ice Bath",
		SlotID:        &slotID,
		BookingDate:   time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		CustomerName:  "Asha Rao",
		CustomerPhone: "+919876543210",
		PaymentMethod: method,
		Status:        status,
	}
}

func signPayment(bookingID uuid.UUID, paymentRef string) string {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(bookingID.String() + ":" + paymentRef))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestGetByID(t *testing.T) {
	b := newBooking(domain.StatusPending, domain.PaymentCash)
	svc := NewService(newFakeBookingRepo(b), testSecret, nopLogger{})

	resp, err := svc.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, resp.ID)
	assert.Equal(t, "pending", resp.Status)

	_, err = svc.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestCancel(t *testing.T) {
	b := newBooking(domain.StatusConfirmed, domain.PaymentCash)
	repo := newFakeBookingRepo(b)
	svc := NewService(repo, testSecret, nopLogger{})

	err := svc.Cancel(context.Background(), b.ID, &models.CancelBookingRequest{Reason: "customer request"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, repo.bookings[b.ID].Status)
	require.NotNil(t, repo.bookings[b.ID].CancellationReason)
	assert.Equal(t, "customer request", *repo.bookings[b.ID].CancellationReason)
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	b := newBooking(domain.StatusCancelled, domain.PaymentCash)
	svc := NewService(newFakeBookingRepo(b), testSecret, nopLogger{})

	err := svc.Cancel(context.Background(), b.ID, &models.CancelBookingRequest{})

	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestUpdateStatus_Transitions(t *testing.T) {
	tests := []struct {
		name    string
		from    domain.BookingStatus
		to      string
		wantErr error
	}{
		{"pending -> confirmed", domain.StatusPending, "confirmed", nil},
		{"pending -> cancelled", domain.StatusPending, "cancelled", nil},
		{"confirmed -> cancelled", domain.StatusConfirmed, "cancelled", nil},
		{"cancelled -> confirmed", domain.StatusCancelled, "confirmed", ErrCannotConfirm},
		{"confirmed -> pending", domain.StatusConfirmed, "pending", ErrInvalidInput},
		{"неизвестный статус", domain.StatusPending, "no_show", ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBooking(tt.from, domain.PaymentCash)
			svc := NewService(newFakeBookingRepo(b), testSecret, nopLogger{})

			err := svc.UpdateStatus(context.Background(), b.ID, &models.UpdateStatusRequest{Status: tt.to})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUpdateStatus_CancelStampsCancellationFields(t *testing.T) {
	b := newBooking(domain.StatusConfirmed, domain.PaymentCash)
	repo := newFakeBookingRepo(b)
	svc := NewService(repo, testSecret, nopLogger{})

	err := svc.UpdateStatus(context.Background(), b.ID, &models.UpdateStatusRequest{Status: "cancelled"})

	require.NoError(t, err)
	stored := repo.bookings[b.ID]
	assert.Equal(t, domain.StatusCancelled, stored.Status)
	require.NotNil(t, stored.CancelledAt)
	require.NotNil(t, stored.CancellationReason)
	assert.Empty(t, *stored.CancellationReason)
}

func TestConfirmPayment(t *testing.T) {
	b := newBooking(domain.StatusPending, domain.PaymentOnline)
	repo := newFakeBookingRepo(b)
	svc := NewService(repo, testSecret, nopLogger{})

	resp, err := svc.ConfirmPayment(context.Background(), b.ID, &models.VerifyPaymentRequest{
		PaymentRef: "pay_123",
		Signature:  signPayment(b.ID, "pay_123"),
	})

	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)
	assert.Equal(t, domain.StatusConfirmed, repo.bookings[b.ID].Status)
}

func TestConfirmPayment_InvalidSignature(t *testing.T) {
	b := newBooking(domain.StatusPending, domain.PaymentOnline)
	repo := newFakeBookingRepo(b)
	svc := NewService(repo, testSecret, nopLogger{})

	_, err := svc.ConfirmPayment(context.Background(), b.ID, &models.VerifyPaymentRequest{
		PaymentRef: "pay_123",
		Signature:  "deadbeef",
	})

	assert.ErrorIs(t, err, ErrInvalidSignature)
	assert.Equal(t, domain.StatusPending, repo.bookings[b.ID].Status)
}

func TestConfirmPayment_CashBookingRejected(t *testing.T) {
	b := newBooking(domain.StatusPending, domain.PaymentCash)
	svc := NewService(newFakeBookingRepo(b), testSecret, nopLogger{})

	_, err := svc.ConfirmPayment(context.Background(), b.ID, &models.VerifyPaymentRequest{
		PaymentRef: "pay_123",
		Signature:  signPayment(b.ID, "pay_123"),
	})

	assert.ErrorIs(t, err, ErrNotOnlinePayment)
}

func TestConfirmPayment_AlreadyConfirmed(t *testing.T) {
	b := newBooking(domain.StatusConfirmed, domain.PaymentOnline)
	svc := NewService(newFakeBookingRepo(b), testSecret, nopLogger{})

	_, err := svc.ConfirmPayment(context.Background(), b.ID, &models.VerifyPaymentRequest{
		PaymentRef: "pay_123",
		Signature:  signPayment(b.ID, "pay_123"),
	})

	assert.ErrorIs(t, err, ErrCannotConfirm)
}

func TestDelete_OnlyCancelled(t *testing.T) {
	cancelled := newBooking(domain.StatusCancelled, domain.PaymentCash)
	active := newBooking(domain.StatusConfirmed, domain.PaymentCash)
	repo := newFakeBookingRepo(cancelled, active)
	svc := NewService(repo, testSecret, nopLogger{})

	require.NoError(t, svc.Delete(context.Background(), cancelled.ID))
	assert.NotContains(t, repo.bookings, cancelled.ID)

	err := svc.Delete(context.Background(), active.ID)
	assert.ErrorIs(t, err, ErrCannotDelete)
	assert.Contains(t, repo.bookings, active.ID)
}

func TestList_StatusFilter(t *testing.T) {
	serviceID := uuid.New()
	pending := newBooking(domain.StatusPending, domain.PaymentCash)
	pending.ServiceID = serviceID
	cancelled := newBooking(domain.StatusCancelled, domain.PaymentCash)
	cancelled.ServiceID = serviceID

	svc := NewService(newFakeBookingRepo(pending, cancelled), testSecret, nopLogger{})

	resp, err := svc.List(context.Background(), &models.ListBookingsRequest{ServiceID: serviceID})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 1)

	resp, err = svc.List(context.Background(), &models.ListBookingsRequest{ServiceID: serviceID, IncludeInactive: true})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 2)

	badStatus := "no_show"
	_, err = svc.List(context.Background(), &models.ListBookingsRequest{ServiceID: serviceID, Status: &badStatus})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
