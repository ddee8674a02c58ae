// Package resolver вычисляет фактическую доступность слотов на дату.
//
// Разрешение - чистая функция от своих входов: шаблоны, исключения и
// бронирования на (сервис, дата) превращаются в упорядоченный список
// SlotOccurrence. Результат эфемерный и пересчитывается на каждый запрос
package resolver

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/chillthrive/CT-BookingService/internal/domain"
	"github.com/chillthrive/CT-BookingService/pkg/types"
)

// Input входные данные разрешения доступности для одного (сервис, дата)
// Закрытие дня обрабатывается вызывающей стороной до разрешения (fast path)
type Input struct {
	Date       time.Time
	Templates  []*domain.SlotTemplate
	Exceptions []*domain.ScheduleException
	Bookings   []*domain.Booking
}

// Resolve применяет исключения к шаблонам и считает занятость.
//
// Правила:
//   - block по шаблону даёт blocked occurrence: остаётся в выдаче для
//     операторского аудита, но с нулевой бронируемой ёмкостью;
//   - modify подменяет ёмкость/время шаблона на эту дату, занятость
//     при этом считается по идентичности исходного шаблона;
//   - add порождает слот, существующий только на эту дату, занятость
//     считается по идентичности самого исключения;
//   - remaining = max(0, capacity - booked); полностью занятые слоты
//     не скрываются, чтобы клиент видел "мест нет", а не пустоту.
//
// Сортировка: по времени начала, при равенстве - по id, чтобы результат
// не зависел от порядка строк во входных данных
func Resolve(in Input) []domain.SlotOccurrence {
	booked := countOccupancy(in.Bookings)

	occurrences := make([]domain.SlotOccurrence, 0, len(in.Templates)+len(in.Exceptions))
	usedExceptions := make(map[uuid.UUID]bool)

	for _, tpl := range in.Templates {
		exc := matchException(tpl, in.Exceptions)
		if exc == nil {
			occurrences = append(occurrences, buildStandard(tpl, booked))
			continue
		}

		usedExceptions[exc.ID] = true
		if exc.IsBlocked {
			occurrences = append(occurrences, buildBlocked(tpl, exc, booked))
		} else {
			occurrences = append(occurrences, buildModified(tpl, exc, booked))
		}
	}

	for _, exc := range in.Exceptions {
		if exc.SlotID != nil || exc.IsBlocked || usedExceptions[exc.ID] {
			continue
		}
		occurrences = append(occurrences, buildAdded(exc, booked))
	}

	sort.Slice(occurrences, func(i, j int) bool {
		if occurrences[i].StartTime != occurrences[j].StartTime {
			return occurrences[i].StartTime.IsBefore(occurrences[j].StartTime)
		}
		return occurrences[i].ID.String() < occurrences[j].ID.String()
	})

	return occurrences
}

// FindByIdentity находит occurrence по идентичности слота (шаблон или исключение)
func FindByIdentity(occurrences []domain.SlotOccurrence, identity uuid.UUID) *domain.SlotOccurrence {
	for i := range occurrences {
		if occurrences[i].ID == identity {
			return &occurrences[i]
		}
	}
	return nil
}

// IsSelectable проверяет, может ли клиент выбрать occurrence:
// слот не заблокирован, есть свободные места, и - для сегодняшней даты -
// время начала строго позже текущего времени в таймзоне бизнеса
// (слот скрывается ровно в момент своего начала)
func IsSelectable(occ *domain.SlotOccurrence, date, now time.Time) bool {
	if !occ.IsBookable() {
		return false
	}
	if !isSameDay(date, now) {
		return true
	}
	return occ.StartTime.IsAfter(types.NewTimeString(now))
}

// countOccupancy строит карту занятости по идентичности слота:
// бронирования по шаблону считаются против id шаблона, бронирования
// ad-hoc слота - против id исключения. Отменённые не учитываются
func countOccupancy(bookings []*domain.Booking) map[uuid.UUID]int {
	counts := make(map[uuid.UUID]int, len(bookings))
	for _, b := range bookings {
		if !b.IsActive() {
			continue
		}
		identity := b.SlotIdentity()
		if identity == uuid.Nil {
			continue
		}
		counts[identity]++
	}
	return counts
}

// matchException находит исключение для шаблона: по ссылке slot_id либо,
// для строк без ссылки, по совпадению времени начала
func matchException(tpl *domain.SlotTemplate, exceptions []*domain.ScheduleException) *domain.ScheduleException {
	for _, exc := range exceptions {
		if exc.SlotID != nil && *exc.SlotID == tpl.ID {
			return exc
		}
		if exc.SlotID == nil && exc.StartTime != nil && *exc.StartTime == tpl.StartTime {
			return exc
		}
	}
	return nil
}

func buildStandard(tpl *domain.SlotTemplate, booked map[uuid.UUID]int) domain.SlotOccurrence {
	count := booked[tpl.ID]
	return domain.SlotOccurrence{
		ID:        tpl.ID,
		SlotID:    &tpl.ID,
		Kind:      domain.SlotStandard,
		StartTime: tpl.StartTime,
		EndTime:   tpl.EndTime,
		Capacity:  tpl.Capacity,
		Booked:    count,
		Remaining: clampRemaining(tpl.Capacity, count),
	}
}

func buildBlocked(tpl *domain.SlotTemplate, exc *domain.ScheduleException, booked map[uuid.UUID]int) domain.SlotOccurrence {
	return domain.SlotOccurrence{
		ID:          tpl.ID,
		SlotID:      &tpl.ID,
		ExceptionID: &exc.ID,
		Kind:        domain.SlotBlocked,
		StartTime:   tpl.StartTime,
		EndTime:     tpl.EndTime,
		Capacity:    tpl.Capacity,
		Booked:      booked[tpl.ID],
		Remaining:   0,
	}
}

func buildModified(tpl *domain.SlotTemplate, exc *domain.ScheduleException, booked map[uuid.UUID]int) domain.SlotOccurrence {
	start := tpl.StartTime
	end := tpl.EndTime
	capacity := tpl.Capacity

	if exc.StartTime != nil {
		start = *exc.StartTime
	}
	if exc.EndTime != nil {
		end = *exc.EndTime
	}
	if exc.Capacity != nil {
		capacity = *exc.Capacity
	}

	// Занятость модифицированного слота считается по идентичности шаблона
	count := booked[tpl.ID]

	return domain.SlotOccurrence{
		ID:          tpl.ID,
		SlotID:      &tpl.ID,
		ExceptionID: &exc.ID,
		Kind:        domain.SlotModified,
		StartTime:   start,
		EndTime:     end,
		Capacity:    capacity,
		Booked:      count,
		Remaining:   clampRemaining(capacity, count),
	}
}

func buildAdded(exc *domain.ScheduleException, booked map[uuid.UUID]int) domain.SlotOccurrence {
	var start, end types.TimeString
	var capacity int

	if exc.StartTime != nil {
		start = *exc.StartTime
	}
	if exc.EndTime != nil {
		end = *exc.EndTime
	}
	if exc.Capacity != nil {
		capacity = *exc.Capacity
	}

	count := booked[exc.ID]

	return domain.SlotOccurrence{
		ID:          exc.ID,
		ExceptionID: &exc.ID,
		Kind:        domain.SlotAdded,
		StartTime:   start,
		EndTime:     end,
		Capacity:    capacity,
		Booked:      count,
		Remaining:   clampRemaining(capacity, count),
	}
}

func clampRemaining(capacity, booked int) int {
	remaining := capacity - booked
	if remaining < 0 {
		return 0
	}
	return remaining
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
