package get_availability

import (
	"time"

	"github.com/google/uuid"
)

// Request модель запроса доступности на (услуга, дата)
type Request struct {
	ServiceID uuid.UUID // ID услуги
	Date      time.Time // Дата (без времени)
}

// Response модель ответа с разрешённой доступностью.
// При закрытом дне Slots пуст независимо от расписания
type Response struct {
	ServiceID     uuid.UUID
	Date          time.Time
	Closed        bool
	ClosureReason *string
	Slots         []Slot
}

// Slot одна вхождение слота на дату.
// Полные и заблокированные слоты не скрываются: клиент видит "мест нет",
// оператор видит полную картину дня
type Slot struct {
	ID          uuid.UUID  // идентичность слота (шаблон или исключение)
	SlotID      *uuid.UUID // id шаблона, если слот из шаблона
	ExceptionID *uuid.UUID // id исключения, если оно применено
	Kind        string     // standard | modified | added | blocked
	StartTime   string     // HH:MM
	EndTime     string     // HH:MM
	Capacity    int
	Booked      int
	Remaining   int
	Selectable  bool // можно ли выбрать слот для бронирования прямо сейчас
}
