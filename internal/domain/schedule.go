package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/chillthrive/CT-BookingService/pkg/types"
)

// SlotTemplate is a recurring, date-independent definition of a bookable
// time window and its base capacity for one service
type SlotTemplate struct {
	ID        uuid.UUID
	ServiceID uuid.UUID
	StartTime types.TimeString
	EndTime   types.TimeString
	Capacity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ExceptionKind classifies a schedule exception
type ExceptionKind string

const (
	// ExceptionBlock suppresses a template for one date
	ExceptionBlock ExceptionKind = "block"
	// ExceptionModify overrides a template's capacity and/or times for one date
	ExceptionModify ExceptionKind = "modify"
	// ExceptionAdd introduces a slot that exists only for one date
	ExceptionAdd ExceptionKind = "add"
)

// ScheduleException is a per-(service, date) override of the standard schedule.
//
// block/modify reference a SlotTemplate via SlotID; add has SlotID == nil and
// carries its own times and capacity. Для block/modify действует инвариант:
// не более одного исключения на (service, date, template)
type ScheduleException struct {
	ID        uuid.UUID
	ServiceID uuid.UUID
	Date      time.Time
	SlotID    *uuid.UUID // nil for "add" exceptions
	IsBlocked bool
	IsAdded   bool
	StartTime *types.TimeString
	EndTime   *types.TimeString
	Capacity  *int
	CreatedAt time.Time
}

// Kind returns the exception kind derived from its flags
func (e *ScheduleException) Kind() ExceptionKind {
	switch {
	case e.IsBlocked:
		return ExceptionBlock
	case e.SlotID == nil:
		return ExceptionAdd
	default:
		return ExceptionModify
	}
}

// DateClosure is a full-day closure: every service's availability
// for the date is empty regardless of templates and exceptions
type DateClosure struct {
	ID        uuid.UUID
	Date      time.Time
	Reason    string
	CreatedAt time.Time
}
