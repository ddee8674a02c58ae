package domain

import (
	"github.com/google/uuid"

	"github.com/chillthrive/CT-BookingService/pkg/types"
)

// SlotKind classifies a resolved slot occurrence
type SlotKind string

const (
	// SlotStandard comes straight from a template, no exception applied
	SlotStandard SlotKind = "standard"
	// SlotModified is a template with a capacity/time override for the date
	SlotModified SlotKind = "modified"
	// SlotAdded exists only for the date, introduced by an "add" exception
	SlotAdded SlotKind = "added"
	// SlotBlocked is a template suppressed for the date; kept in output
	// for the operator view, never offered to customers
	SlotBlocked SlotKind = "blocked"
)

// SlotOccurrence is the ephemeral, request-scoped result of applying
// exceptions and closures to templates for one (service, date).
// It is recomputed on every availability query and never persisted
type SlotOccurrence struct {
	ID          uuid.UUID // template id or exception id, see Booking.SlotIdentity
	SlotID      *uuid.UUID
	ExceptionID *uuid.UUID
	Kind        SlotKind
	StartTime   types.TimeString
	EndTime     types.TimeString
	Capacity    int
	Booked      int
	Remaining   int
}

// IsFull returns true if the occurrence has no remaining capacity
func (s *SlotOccurrence) IsFull() bool {
	return s.Remaining <= 0
}

// IsBookable returns true if a customer may take this occurrence
// (time-of-day filtering is applied separately by the resolver)
func (s *SlotOccurrence) IsBookable() bool {
	return s.Kind != SlotBlocked && s.Remaining > 0
}
