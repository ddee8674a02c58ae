package get_availability

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chillthrive/CT-BookingService/internal/domain"
	"github.com/chillthrive/CT-BookingService/internal/infra/storage/schedule"
	serviceRepo "github.com/chillthrive/CT-BookingService/internal/infra/storage/service"
	"github.com/chillthrive/CT-BookingService/pkg/types"
)

var (
	testNow  = time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)
	testDate = time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
)

type fixedTimeProvider struct{ now time.Time }

func (p *fixedTimeProvider) Now() time.Time { return p.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeServiceRepo struct {
	service *domain.Service
}

func (f *fakeServiceRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Service, error) {
	if f.service == nil || f.service.ID != id {
		return nil, serviceRepo.ErrServiceNotFound
	}
	return f.service, nil
}

type fakeScheduleRepo struct {
	templates  []*domain.SlotTemplate
	exceptions []*domain.ScheduleException
	closure    *domain.DateClosure
}

func (f *fakeScheduleRepo) GetClosureByDate(_ context.Context, _ time.Time) (*domain.DateClosure, error) {
	if f.closure == nil {
		return nil, schedule.ErrClosureNotFound
	}
	return f.closure, nil
}

func (f *fakeScheduleRepo) ListTemplatesByService(_ context.Context, _ uuid.UUID) ([]*domain.SlotTemplate, error) {
	return f.templates, nil
}

func (f *fakeScheduleRepo) ListExceptionsByServiceAndDate(_ context.Context, _ uuid.UUID, _ time.Time) ([]*domain.ScheduleException, error) {
	return f.exceptions, nil
}

type fakeBookingRepo struct {
	bookings []*domain.Booking
}

func (f *fakeBookingRepo) GetByServiceWithFilter(_ context.Context, _ domain.DateBookingsFilter) ([]*domain.Booking, error) {
	return f.bookings, nil
}

func newTemplate(t *testing.T, serviceID uuid.UUID, start, end string, capacity int) *domain.SlotTemplate {
	t.Helper()
	startTS, err := types.NewTimeStringFromString(start)
	require.NoError(t, err)
	endTS, err := types.NewTimeStringFromString(end)
	require.NoError(t, err)
	return &domain.SlotTemplate{
		ID:        uuid.New(),
		ServiceID: serviceID,
		StartTime: startTS,
		EndTime:   endTS,
		Capacity:  capacity,
	}
}

func newUseCase(svc *domain.Service, scheduleRepo *fakeScheduleRepo, bookingRepo *fakeBookingRepo) *UseCase {
	uc := NewUseCase(&fakeServiceRepo{service: svc}, scheduleRepo, bookingRepo, time.UTC, nopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: testNow}
	return uc
}

func testService() *domain.Service {
	return &domain.Service{ID: uuid.New(), Slug: "ice-bath", Title: "Ice Bath", IsActive: true}
}

func TestExecute_StandardDay(t *testing.T) {
	svc := testService()
	morning := newTemplate(t, svc.ID, "07:00", "08:00", 2)
	evening := newTemplate(t, svc.ID, "18:00", "19:00", 4)

	uc := newUseCase(svc,
		&fakeScheduleRepo{templates: []*domain.SlotTemplate{evening, morning}},
		&fakeBookingRepo{},
	)

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: svc.ID, Date: testDate})

	require.NoError(t, err)
	assert.False(t, resp.Closed)
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, "07:00", resp.Slots[0].StartTime)
	assert.Equal(t, "18:00", resp.Slots[1].StartTime)
	assert.Equal(t, "standard", resp.Slots[0].Kind)
	assert.Equal(t, 2, resp.Slots[0].Remaining)
	assert.True(t, resp.Slots[0].Selectable)
}

func TestExecute_ClosedDayReturnsEmptySlots(t *testing.T) {
	svc := testService()
	tpl := newTemplate(t, svc.ID, "07:00", "08:00", 2)

	uc := newUseCase(svc,
		&fakeScheduleRepo{
			templates: []*domain.SlotTemplate{tpl},
			closure:   &domain.DateClosure{ID: uuid.New(), Date: testDate, Reason: "Maintenance"},
		},
		&fakeBookingRepo{},
	)

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: svc.ID, Date: testDate})

	require.NoError(t, err)
	assert.True(t, resp.Closed)
	require.NotNil(t, resp.ClosureReason)
	assert.Equal(t, "Maintenance", *resp.ClosureReason)
	assert.Empty(t, resp.Slots)
}

func TestExecute_FullSlotShownButNotSelectable(t *testing.T) {
	svc := testService()
	tpl := newTemplate(t, svc.ID, "07:00", "08:00", 1)
	booking := &domain.Booking{
		ID:          uuid.New(),
		ServiceID:   svc.ID,
		SlotID:      &tpl.ID,
		BookingDate: testDate,
		StartTime:   tpl.StartTime,
		Status:      domain.StatusConfirmed,
	}

	uc := newUseCase(svc,
		&fakeScheduleRepo{templates: []*domain.SlotTemplate{tpl}},
		&fakeBookingRepo{bookings: []*domain.Booking{booking}},
	)

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: svc.ID, Date: testDate})

	require.NoError(t, err)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, 0, resp.Slots[0].Remaining)
	assert.Equal(t, 1, resp.Slots[0].Booked)
	assert.False(t, resp.Slots[0].Selectable)
}

func TestExecute_BlockedSlotVisibleForAudit(t *testing.T) {
	svc := testService()
	tpl := newTemplate(t, svc.ID, "07:00", "08:00", 3)

	uc := newUseCase(svc,
		&fakeScheduleRepo{
			templates: []*domain.SlotTemplate{tpl},
			exceptions: []*domain.ScheduleException{{
				ID:        uuid.New(),
				ServiceID: svc.ID,
				Date:      testDate,
				SlotID:    &tpl.ID,
				IsBlocked: true,
			}},
		},
		&fakeBookingRepo{},
	)

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: svc.ID, Date: testDate})

	require.NoError(t, err)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, "blocked", resp.Slots[0].Kind)
	assert.Equal(t, 0, resp.Slots[0].Remaining)
	assert.False(t, resp.Slots[0].Selectable)
}

func TestExecute_TodayHidesStartedSlots(t *testing.T) {
	svc := testService()
	past := newTemplate(t, svc.ID, "07:00", "08:00", 2)
	upcoming := newTemplate(t, svc.ID, "18:00", "19:00", 2)

	uc := newUseCase(svc,
		&fakeScheduleRepo{templates: []*domain.SlotTemplate{past, upcoming}},
		&fakeBookingRepo{},
	)

	// Запрос на сегодняшнюю дату: testNow = 12:00
	today := time.Date(testNow.Year(), testNow.Month(), testNow.Day(), 0, 0, 0, 0, time.UTC)
	resp, err := uc.Execute(context.Background(), &Request{ServiceID: svc.ID, Date: today})

	require.NoError(t, err)
	require.Len(t, resp.Slots, 2)
	assert.False(t, resp.Slots[0].Selectable)
	assert.True(t, resp.Slots[1].Selectable)
}

func TestExecute_PastDateNothingSelectable(t *testing.T) {
	svc := testService()
	tpl := newTemplate(t, svc.ID, "07:00", "08:00", 2)

	uc := newUseCase(svc,
		&fakeScheduleRepo{templates: []*domain.SlotTemplate{tpl}},
		&fakeBookingRepo{},
	)

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: svc.ID, Date: testNow.AddDate(0, 0, -3)})

	require.NoError(t, err)
	require.Len(t, resp.Slots, 1)
	assert.False(t, resp.Slots[0].Selectable)
}

func TestExecute_ServiceNotFound(t *testing.T) {
	uc := newUseCase(testService(), &fakeScheduleRepo{}, &fakeBookingRepo{})

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: uuid.New(), Date: testDate})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_InvalidInput(t *testing.T) {
	svc := testService()
	uc := newUseCase(svc, &fakeScheduleRepo{}, &fakeBookingRepo{})

	_, err := uc.Execute(context.Background(), &Request{ServiceID: uuid.Nil, Date: testDate})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{ServiceID: svc.ID})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
