package create_booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chillthrive/CT-BookingService/internal/domain"
	"github.com/chillthrive/CT-BookingService/internal/infra/storage/schedule"
	serviceRepo "github.com/chillthrive/CT-BookingService/internal/infra/storage/service"
	"github.com/chillthrive/CT-BookingService/internal/pricing"
	"github.com/chillthrive/CT-BookingService/pkg/ptr"
	"github.com/chillthrive/CT-BookingService/pkg/types"
)

var (
	testNow  = time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)
	testDate = time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	errSMTP = errors.New("mailer: connection refused")
)

type fixedTimeProvider struct{ now time.Time }

func (p *fixedTimeProvider) Now() time.Time { return p.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// fakeBookingRepo in-memory хранилище бронирований
type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings []*domain.Booking
}

func (f *fakeBookingRepo) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	created := *b
	created.ID = uuid.New()
	created.CreatedAt = testNow
	created.UpdatedAt = testNow
	f.bookings = append(f.bookings, &created)
	return &created, nil
}

func (f *fakeBookingRepo) GetByServiceWithFilter(_ context.Context, filter domain.DateBookingsFilter) ([]*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]*domain.Booking, 0)
	for _, b := range f.bookings {
		if b.ServiceID != filter.ServiceID {
			continue
		}
		if filter.Date != nil && !b.BookingDate.Equal(*filter.Date) {
			continue
		}
		if !filter.IncludeInactive && !b.IsActive() {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

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

type fakePricer struct{}

func (fakePricer) Price(_ context.Context, svc *domain.Service, durationMinutes int, _ *string) (*pricing.Quote, error) {
	base, ok := svc.PriceFor(durationMinutes)
	if !ok {
		return nil, pricing.ErrInvalidDuration
	}
	return &pricing.Quote{BaseAmount: base, FinalAmount: base}, nil
}

// serialTxManager выполняет транзакции строго по очереди,
// имитируя сериализуемую изоляцию
type serialTxManager struct {
	mu sync.Mutex
}

func (m *serialTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}

// rejectingPricer имитирует отклонённый явный купон: полная цена без скидки
type rejectingPricer struct{}

func (rejectingPricer) Price(_ context.Context, svc *domain.Service, durationMinutes int, _ *string) (*pricing.Quote, error) {
	base, ok := svc.PriceFor(durationMinutes)
	if !ok {
		return nil, pricing.ErrInvalidDuration
	}
	return &pricing.Quote{
		BaseAmount:     base,
		FinalAmount:    base,
		CouponRejected: true,
		RejectReason:   pricing.RejectNotFound,
	}, nil
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []*domain.Booking
	err  error
}

func (m *recordingMailer) SendBookingConfirmation(_ context.Context, b *domain.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, b)
	return nil
}

type fixture struct {
	uc          *UseCase
	bookingRepo *fakeBookingRepo
	service     *domain.Service
	template    *domain.SlotTemplate
	mailer      *recordingMailer
}

func newFixture(t *testing.T, capacity int) *fixture {
	t.Helper()

	svc := &domain.Service{
		ID:       uuid.New(),
		Slug:     "ice-bath",
		Title:    "Ice Bath",
		IsActive: true,
		Prices: []domain.PriceTier{
			{DurationMinutes: 30, Price: 500},
		},
	}

	start, err := types.NewTimeStringFromString("10:00")
	require.NoError(t, err)
	end, err := types.NewTimeStringFromString("11:00")
	require.NoError(t, err)

	tpl := &domain.SlotTemplate{
		ID:        uuid.New(),
		ServiceID: svc.ID,
		StartTime: start,
		EndTime:   end,
		Capacity:  capacity,
	}

	bookingRepo := &fakeBookingRepo{}
	mailer := &recordingMailer{}

	uc := NewUseCase(
		bookingRepo,
		&fakeServiceRepo{service: svc},
		&fakeScheduleRepo{templates: []*domain.SlotTemplate{tpl}},
		fakePricer{},
		mailer,
		&serialTxManager{},
		time.UTC,
		nopLogger{},
	)
	uc.timeProvider = &fixedTimeProvider{now: testNow}

	return &fixture{uc: uc, bookingRepo: bookingRepo, service: svc, template: tpl, mailer: mailer}
}

func validRequest(f *fixture) *Request {
	return &Request{
		ServiceID:       f.service.ID,
		SlotIdentity:    f.template.ID,
		Date:            testDate,
		DurationMinutes: 30,
		CustomerName:    "Asha Rao",
		CustomerPhone:   "+919876543210",
		CustomerEmail:   "asha@example.com",
		PaymentMethod:   domain.PaymentCash,
	}
}

func TestExecute_Success(t *testing.T) {
	f := newFixture(t, 2)

	resp, err := f.uc.Execute(context.Background(), validRequest(f))

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, "10:00", resp.StartTime)
	assert.Equal(t, 500.0, resp.FinalAmount)
	require.NotNil(t, resp.SlotID)
	assert.Equal(t, f.template.ID, *resp.SlotID)
	assert.Nil(t, resp.ExceptionID)
	assert.Len(t, f.mailer.sent, 1)
}

func TestExecute_RejectedCouponStillBooks(t *testing.T) {
	f := newFixture(t, 2)
	f.uc.pricer = rejectingPricer{}

	req := validRequest(f)
	req.CouponCode = ptr.Ptr("NOSUCH")

	resp, err := f.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.True(t, resp.CouponRejected)
	assert.Equal(t, pricing.RejectNotFound, resp.RejectReason)
	assert.Equal(t, 500.0, resp.FinalAmount)
	assert.Nil(t, resp.CouponCode)
}

func TestExecute_MailerFailureDoesNotFailBooking(t *testing.T) {
	f := newFixture(t, 2)
	f.mailer.err = errSMTP

	resp, err := f.uc.Execute(context.Background(), validRequest(f))

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Empty(t, f.mailer.sent)
}

func TestExecute_ValidationFailures(t *testing.T) {
	f := newFixture(t, 2)

	tests := []struct {
		name   string
		mutate func(r *Request)
	}{
		{"пустой serviceID", func(r *Request) { r.ServiceID = uuid.Nil }},
		{"пустой слот", func(r *Request) { r.SlotIdentity = uuid.Nil }},
		{"нулевая дата", func(r *Request) { r.Date = time.Time{} }},
		{"нулевая длительность", func(r *Request) { r.DurationMinutes = 0 }},
		{"пустое имя", func(r *Request) { r.CustomerName = "  " }},
		{"пустой телефон", func(r *Request) { r.CustomerPhone = "" }},
		{"кривой email", func(r *Request) { r.CustomerEmail = "not-an-email" }},
		{"неизвестный способ оплаты", func(r *Request) { r.PaymentMethod = "crypto" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest(f)
			tt.mutate(req)

			resp, err := f.uc.Execute(context.Background(), req)

			assert.Nil(t, resp)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecute_PastDateRejected(t *testing.T) {
	f := newFixture(t, 2)
	req := validRequest(f)
	req.Date = testNow.AddDate(0, 0, -1)

	resp, err := f.uc.Execute(context.Background(), req)

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_ServiceNotFound(t *testing.T) {
	f := newFixture(t, 2)
	req := validRequest(f)
	req.ServiceID = uuid.New()

	resp, err := f.uc.Execute(context.Background(), req)

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_ClosedDateRejected(t *testing.T) {
	f := newFixture(t, 2)
	scheduleRepo := &fakeScheduleRepo{
		templates: []*domain.SlotTemplate{f.template},
		closure:   &domain.DateClosure{ID: uuid.New(), Date: testDate, Reason: "Diwali"},
	}
	f.uc.scheduleRepo = scheduleRepo

	resp, err := f.uc.Execute(context.Background(), validRequest(f))

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrDayClosed)
	assert.Empty(t, f.bookingRepo.bookings)
}

func TestExecute_UnknownSlotRejected(t *testing.T) {
	f := newFixture(t, 2)
	req := validRequest(f)
	req.SlotIdentity = uuid.New()

	resp, err := f.uc.Execute(context.Background(), req)

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestExecute_BlockedSlotRejected(t *testing.T) {
	f := newFixture(t, 2)
	f.uc.scheduleRepo = &fakeScheduleRepo{
		templates: []*domain.SlotTemplate{f.template},
		exceptions: []*domain.ScheduleException{{
			ID:        uuid.New(),
			ServiceID: f.service.ID,
			Date:      testDate,
			SlotID:    &f.template.ID,
			IsBlocked: true,
		}},
	}

	resp, err := f.uc.Execute(context.Background(), validRequest(f))

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_FullSlotRejected(t *testing.T) {
	f := newFixture(t, 1)

	_, err := f.uc.Execute(context.Background(), validRequest(f))
	require.NoError(t, err)

	resp, err := f.uc.Execute(context.Background(), validRequest(f))

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Len(t, f.bookingRepo.bookings, 1)
}

func TestExecute_UnknownDurationRejected(t *testing.T) {
	f := newFixture(t, 2)
	req := validRequest(f)
	req.DurationMinutes = 45

	resp, err := f.uc.Execute(context.Background(), req)

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrInvalidDuration)
}

func TestExecute_AddedSlotCountsAgainstException(t *testing.T) {
	f := newFixture(t, 2)
	start, _ := types.NewTimeStringFromString("18:00")
	end, _ := types.NewTimeStringFromString("19:00")
	exc := &domain.ScheduleException{
		ID:        uuid.New(),
		ServiceID: f.service.ID,
		Date:      testDate,
		IsAdded:   true,
		StartTime: &start,
		EndTime:   &end,
		Capacity:  ptr.Ptr(1),
	}
	f.uc.scheduleRepo = &fakeScheduleRepo{
		templates:  []*domain.SlotTemplate{f.template},
		exceptions: []*domain.ScheduleException{exc},
	}

	req := validRequest(f)
	req.SlotIdentity = exc.ID

	resp, err := f.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Nil(t, resp.SlotID)
	require.NotNil(t, resp.ExceptionID)
	assert.Equal(t, exc.ID, *resp.ExceptionID)
	assert.Equal(t, "18:00", resp.StartTime)
}

// Гонка за последнее место: при ёмкости 1 из N конкурирующих запросов
// должен выиграть ровно один
func TestExecute_ConcurrentBookingsRespectCapacity(t *testing.T) {
	f := newFixture(t, 1)

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.Execute(context.Background(), validRequest(f))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var succeeded, rejected int
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		require.ErrorIs(t, err, ErrSlotNotAvailable)
		rejected++
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, rejected)
	assert.Len(t, f.bookingRepo.bookings, 1)
}
