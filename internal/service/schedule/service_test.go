package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chillthrive/CT-BookingService/internal/domain"
	scheduleRepo "github.com/chillthrive/CT-BookingService/internal/infra/storage/schedule"
	"github.com/chillthrive/CT-BookingService/internal/service/schedule/models"
	"github.com/chillthrive/CT-BookingService/pkg/ptr"
	"github.com/chillthrive/CT-BookingService/pkg/types"
)

var testDate = time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// fakeScheduleRepo in-memory реализация репозитория расписания
type fakeScheduleRepo struct {
	templates  map[uuid.UUID]*domain.SlotTemplate
	exceptions map[uuid.UUID]*domain.ScheduleException
	closures   map[uuid.UUID]*domain.DateClosure

	referencedTemplates  map[uuid.UUID]bool
	referencedExceptions map[uuid.UUID]bool
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{
		templates:            make(map[uuid.UUID]*domain.SlotTemplate),
		exceptions:           make(map[uuid.UUID]*domain.ScheduleException),
		closures:             make(map[uuid.UUID]*domain.DateClosure),
		referencedTemplates:  make(map[uuid.UUID]bool),
		referencedExceptions: make(map[uuid.UUID]bool),
	}
}

func (f *fakeScheduleRepo) CreateTemplate(_ context.Context, tpl *domain.SlotTemplate) (*domain.SlotTemplate, error) {
	created := *tpl
	created.ID = uuid.New()
	f.templates[created.ID] = &created
	return &created, nil
}

func (f *fakeScheduleRepo) GetTemplateByID(_ context.Context, id uuid.UUID) (*domain.SlotTemplate, error) {
	tpl, ok := f.templates[id]
	if !ok {
		return nil, scheduleRepo.ErrTemplateNotFound
	}
	copied := *tpl
	return &copied, nil
}

func (f *fakeScheduleRepo) ListTemplatesByService(_ context.Context, serviceID uuid.UUID) ([]*domain.SlotTemplate, error) {
	out := make([]*domain.SlotTemplate, 0)
	for _, tpl := range f.templates {
		if tpl.ServiceID == serviceID {
			out = append(out, tpl)
		}
	}
	return out, nil
}

func (f *fakeScheduleRepo) UpdateTemplate(_ context.Context, id uuid.UUID, upd scheduleRepo.TemplateUpdate) error {
	tpl, ok := f.templates[id]
	if !ok {
		return scheduleRepo.ErrTemplateNotFound
	}
	if upd.StartTime != nil {
		tpl.StartTime = *upd.StartTime
	}
	if upd.EndTime != nil {
		tpl.EndTime = *upd.EndTime
	}
	if upd.Capacity != nil {
		tpl.Capacity = *upd.Capacity
	}
	return nil
}

func (f *fakeScheduleRepo) DeleteTemplate(_ context.Context, id uuid.UUID) error {
	if _, ok := f.templates[id]; !ok {
		return scheduleRepo.ErrTemplateNotFound
	}
	if f.referencedTemplates[id] {
		return scheduleRepo.ErrReferenced
	}
	delete(f.templates, id)
	return nil
}

func (f *fakeScheduleRepo) CreateException(_ context.Context, exc *domain.ScheduleException) (*domain.ScheduleException, error) {
	for _, existing := range f.exceptions {
		if existing.ServiceID == exc.ServiceID && existing.Date.Equal(exc.Date) &&
			existing.SlotID != nil && exc.SlotID != nil && *existing.SlotID == *exc.SlotID {
			return nil, scheduleRepo.ErrDuplicate
		}
	}
	created := *exc
	created.ID = uuid.New()
	f.exceptions[created.ID] = &created
	return &created, nil
}

func (f *fakeScheduleRepo) GetExceptionByID(_ context.Context, id uuid.UUID) (*domain.ScheduleException, error) {
	exc, ok := f.exceptions[id]
	if !ok {
		return nil, scheduleRepo.ErrExceptionNotFound
	}
	return exc, nil
}

func (f *fakeScheduleRepo) ListExceptionsByServiceAndDate(_ context.Context, serviceID uuid.UUID, date time.Time) ([]*domain.ScheduleException, error) {
	out := make([]*domain.ScheduleException, 0)
	for _, exc := range f.exceptions {
		if exc.ServiceID == serviceID && exc.Date.Equal(date) {
			out = append(out, exc)
		}
	}
	return out, nil
}

func (f *fakeScheduleRepo) UpdateExceptionCapacity(_ context.Context, id uuid.UUID, capacity int) error {
	exc, ok := f.exceptions[id]
	if !ok {
		return scheduleRepo.ErrExceptionNotFound
	}
	exc.Capacity = &capacity
	return nil
}

func (f *fakeScheduleRepo) DeleteException(_ context.Context, id uuid.UUID) error {
	if _, ok := f.exceptions[id]; !ok {
		return scheduleRepo.ErrExceptionNotFound
	}
	if f.referencedExceptions[id] {
		return scheduleRepo.ErrReferenced
	}
	delete(f.exceptions, id)
	return nil
}

func (f *fakeScheduleRepo) DeleteExceptionsBySlotAndDate(_ context.Context, slotID uuid.UUID, date time.Time) error {
	for id, exc := range f.exceptions {
		if exc.SlotID != nil && *exc.SlotID == slotID && exc.Date.Equal(date) {
			delete(f.exceptions, id)
		}
	}
	return nil
}

func (f *fakeScheduleRepo) CreateClosure(_ context.Context, closure *domain.DateClosure) (*domain.DateClosure, error) {
	for _, existing := range f.closures {
		if existing.Date.Equal(closure.Date) {
			return nil, scheduleRepo.ErrDuplicate
		}
	}
	created := *closure
	created.ID = uuid.New()
	f.closures[created.ID] = &created
	return &created, nil
}

func (f *fakeScheduleRepo) ListUpcomingClosures(_ context.Context, from time.Time, _ uint64) ([]*domain.DateClosure, error) {
	out := make([]*domain.DateClosure, 0)
	for _, c := range f.closures {
		if !c.Date.Before(from) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeScheduleRepo) DeleteClosure(_ context.Context, id uuid.UUID) error {
	if _, ok := f.closures[id]; !ok {
		return scheduleRepo.ErrClosureNotFound
	}
	delete(f.closures, id)
	return nil
}

func mustTime(t *testing.T, s string) types.TimeString {
	t.Helper()
	ts, err := types.NewTimeStringFromString(s)
	require.NoError(t, err)
	return ts
}

func seedTemplate(t *testing.T, repo *fakeScheduleRepo, serviceID uuid.UUID) *domain.SlotTemplate {
	t.Helper()
	tpl, err := repo.CreateTemplate(context.Background(), &domain.SlotTemplate{
		ServiceID: serviceID,
		StartTime: mustTime(t, "07:00"),
		EndTime:   mustTime(t, "08:00"),
		Capacity:  2,
	})
	require.NoError(t, err)
	return tpl
}

func TestCreateTemplate(t *testing.T) {
	repo := newFakeScheduleRepo()
	svc := NewService(repo, nopLogger{})

	resp, err := svc.CreateTemplate(context.Background(), &models.CreateTemplateRequest{
		ServiceID: uuid.New(),
		StartTime: "07:00",
		EndTime:   "08:00",
		Capacity:  3,
	})

	require.NoError(t, err)
	assert.Equal(t, "07:00", resp.StartTime)
	assert.Equal(t, 3, resp.Capacity)
	assert.Len(t, repo.templates, 1)
}

func TestCreateTemplate_Validation(t *testing.T) {
	svc := NewService(newFakeScheduleRepo(), nopLogger{})
	serviceID := uuid.New()

	tests := []struct {
		name string
		req  models.CreateTemplateRequest
	}{
		{"пустой serviceID", models.CreateTemplateRequest{StartTime: "07:00", EndTime: "08:00", Capacity: 1}},
		{"кривое время", models.CreateTemplateRequest{ServiceID: serviceID, StartTime: "7am", EndTime: "08:00", Capacity: 1}},
		{"начало после конца", models.CreateTemplateRequest{ServiceID: serviceID, StartTime: "09:00", EndTime: "08:00", Capacity: 1}},
		{"нулевая ёмкость", models.CreateTemplateRequest{ServiceID: serviceID, StartTime: "07:00", EndTime: "08:00", Capacity: 0}},
		{"ёмкость выше предела", models.CreateTemplateRequest{ServiceID: serviceID, StartTime: "07:00", EndTime: "08:00", Capacity: 500}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateTemplate(context.Background(), &tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestUpdateTemplate_MasterUpdateRemovesSameDateExceptions(t *testing.T) {
	repo := newFakeScheduleRepo()
	serviceID := uuid.New()
	tpl := seedTemplate(t, repo, serviceID)

	// Исключение на ту же дату, которое правка мастера должна поглотить
	_, err := repo.CreateException(context.Background(), &domain.ScheduleException{
		ServiceID: serviceID,
		Date:      testDate,
		SlotID:    &tpl.ID,
		Capacity:  ptr.Ptr(5),
	})
	require.NoError(t, err)

	svc := NewService(repo, nopLogger{})
	resp, err := svc.UpdateTemplate(context.Background(), tpl.ID, &models.UpdateTemplateRequest{
		Capacity:  ptr.Ptr(5),
		ApplyDate: &testDate,
	})

	require.NoError(t, err)
	assert.Equal(t, 5, resp.Capacity)
	assert.Empty(t, repo.exceptions)
}

func TestUpdateTemplate_RejectsInvertedRange(t *testing.T) {
	repo := newFakeScheduleRepo()
	tpl := seedTemplate(t, repo, uuid.New())
	svc := NewService(repo, nopLogger{})

	_, err := svc.UpdateTemplate(context.Background(), tpl.ID, &models.UpdateTemplateRequest{
		StartTime: ptr.Ptr("09:00"), // конец остаётся 08:00
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDeleteTemplate_ReferencedRefused(t *testing.T) {
	repo := newFakeScheduleRepo()
	tpl := seedTemplate(t, repo, uuid.New())
	repo.referencedTemplates[tpl.ID] = true
	svc := NewService(repo, nopLogger{})

	err := svc.DeleteTemplate(context.Background(), tpl.ID)

	assert.ErrorIs(t, err, ErrTemplateInUse)
	assert.Contains(t, repo.templates, tpl.ID)
}

func TestCreateException_Kinds(t *testing.T) {
	repo := newFakeScheduleRepo()
	serviceID := uuid.New()
	tpl := seedTemplate(t, repo, serviceID)
	svc := NewService(repo, nopLogger{})

	block, err := svc.CreateException(context.Background(), &models.CreateExceptionRequest{
		ServiceID: serviceID,
		Date:      testDate,
		Kind:      "block",
		SlotID:    &tpl.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "block", block.Kind)

	added, err := svc.CreateException(context.Background(), &models.CreateExceptionRequest{
		ServiceID: serviceID,
		Date:      testDate,
		Kind:      "add",
		StartTime: ptr.Ptr("18:00"),
		EndTime:   ptr.Ptr("19:00"),
		Capacity:  ptr.Ptr(4),
	})
	require.NoError(t, err)
	assert.Equal(t, "add", added.Kind)
	assert.Nil(t, added.SlotID)
}

func TestCreateException_Validation(t *testing.T) {
	repo := newFakeScheduleRepo()
	serviceID := uuid.New()
	tpl := seedTemplate(t, repo, serviceID)
	otherTpl := seedTemplate(t, repo, uuid.New())
	svc := NewService(repo, nopLogger{})

	tests := []struct {
		name    string
		req     models.CreateExceptionRequest
		wantErr error
	}{
		{
			name:    "block без slotId",
			req:     models.CreateExceptionRequest{ServiceID: serviceID, Date: testDate, Kind: "block"},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "modify без переопределений",
			req:     models.CreateExceptionRequest{ServiceID: serviceID, Date: testDate, Kind: "modify", SlotID: &tpl.ID},
			wantErr: ErrInvalidInput,
		},
		{
			name: "add со ссылкой на шаблон",
			req: models.CreateExceptionRequest{
				ServiceID: serviceID, Date: testDate, Kind: "add", SlotID: &tpl.ID,
				StartTime: ptr.Ptr("18:00"), EndTime: ptr.Ptr("19:00"), Capacity: ptr.Ptr(2),
			},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "add без времени",
			req:     models.CreateExceptionRequest{ServiceID: serviceID, Date: testDate, Kind: "add", Capacity: ptr.Ptr(2)},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "неизвестный kind",
			req:     models.CreateExceptionRequest{ServiceID: serviceID, Date: testDate, Kind: "suspend", SlotID: &tpl.ID},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "шаблон не найден",
			req:     models.CreateExceptionRequest{ServiceID: serviceID, Date: testDate, Kind: "block", SlotID: ptr.Ptr(uuid.New())},
			wantErr: ErrTemplateNotFound,
		},
		{
			name:    "шаблон чужой услуги",
			req:     models.CreateExceptionRequest{ServiceID: serviceID, Date: testDate, Kind: "block", SlotID: &otherTpl.ID},
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateException(context.Background(), &tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateException_DuplicateRefused(t *testing.T) {
	repo := newFakeScheduleRepo()
	serviceID := uuid.New()
	tpl := seedTemplate(t, repo, serviceID)
	svc := NewService(repo, nopLogger{})

	req := &models.CreateExceptionRequest{
		ServiceID: serviceID,
		Date:      testDate,
		Kind:      "modify",
		SlotID:    &tpl.ID,
		Capacity:  ptr.Ptr(1),
	}

	_, err := svc.CreateException(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.CreateException(context.Background(), req)
	assert.ErrorIs(t, err, ErrDuplicateException)
}

func TestUpdateException_Capacity(t *testing.T) {
	repo := newFakeScheduleRepo()
	serviceID := uuid.New()
	exc, err := repo.CreateException(context.Background(), &domain.ScheduleException{
		ServiceID: serviceID,
		Date:      testDate,
		IsAdded:   true,
		Capacity:  ptr.Ptr(3),
	})
	require.NoError(t, err)
	svc := NewService(repo, nopLogger{})

	updated, err := svc.UpdateException(context.Background(), exc.ID, &models.UpdateExceptionRequest{
		Capacity: ptr.Ptr(7),
	})

	require.NoError(t, err)
	require.NotNil(t, updated.Capacity)
	assert.Equal(t, 7, *updated.Capacity)
}

func TestUpdateException_BlockedRejected(t *testing.T) {
	repo := newFakeScheduleRepo()
	serviceID := uuid.New()
	exc, err := repo.CreateException(context.Background(), &domain.ScheduleException{
		ServiceID: serviceID,
		Date:      testDate,
		SlotID:    ptr.Ptr(uuid.New()),
		IsBlocked: true,
	})
	require.NoError(t, err)
	svc := NewService(repo, nopLogger{})

	_, err = svc.UpdateException(context.Background(), exc.ID, &models.UpdateExceptionRequest{
		Capacity: ptr.Ptr(5),
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDeleteException_ReferencedRefused(t *testing.T) {
	repo := newFakeScheduleRepo()
	serviceID := uuid.New()
	exc, err := repo.CreateException(context.Background(), &domain.ScheduleException{
		ServiceID: serviceID,
		Date:      testDate,
		IsAdded:   true,
	})
	require.NoError(t, err)
	repo.referencedExceptions[exc.ID] = true
	svc := NewService(repo, nopLogger{})

	err = svc.DeleteException(context.Background(), exc.ID)

	assert.ErrorIs(t, err, ErrExceptionInUse)
}

func TestClosures(t *testing.T) {
	repo := newFakeScheduleRepo()
	svc := NewService(repo, nopLogger{})

	created, err := svc.CreateClosure(context.Background(), &models.CreateClosureRequest{
		Date:   testDate,
		Reason: "Diwali",
	})
	require.NoError(t, err)
	assert.Equal(t, "Diwali", created.Reason)

	_, err = svc.CreateClosure(context.Background(), &models.CreateClosureRequest{Date: testDate})
	assert.ErrorIs(t, err, ErrDuplicateClosure)

	list, err := svc.ListUpcomingClosures(context.Background(), testDate.AddDate(0, 0, -1), 10)
	require.NoError(t, err)
	assert.Len(t, list.Closures, 1)

	require.NoError(t, svc.DeleteClosure(context.Background(), created.ID))
	assert.ErrorIs(t, svc.DeleteClosure(context.Background(), created.ID), ErrClosureNotFound)
}
