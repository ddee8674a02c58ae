package get_availability

import (
	"github.com/google/uuid"

	getAvailability "github.com/chillthrive/CT-BookingService/internal/usecase/get_availability"
)

// SlotResponse HTTP model of a resolved slot occurrence
type SlotResponse struct {
	ID          uuid.UUID  `json:"id"`
	SlotID      *uuid.UUID `json:"slotId,omitempty"`
	ExceptionID *uuid.UUID `json:"exceptionId,omitempty"`
	Kind        string     `json:"kind"`
	StartTime   string     `json:"startTime"`
	EndTime     string     `json:"endTime"`
	Capacity    int        `json:"capacity"`
	Booked      int        `json:"booked"`
	Remaining   int        `json:"remaining"`
	IsFull      bool       `json:"isFull"`
	Selectable  bool       `json:"selectable"`
}

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	ServiceID     uuid.UUID      `json:"serviceId"`
	Date          string         `json:"date"`
	Closed        bool           `json:"closed"`
	ClosureReason *string        `json:"closureReason,omitempty"`
	Slots         []SlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	out := &AvailabilityResponse{
		ServiceID:     resp.ServiceID,
		Date:          resp.Date.Format("2006-01-02"),
		Closed:        resp.Closed,
		ClosureReason: resp.ClosureReason,
		Slots:         make([]SlotResponse, 0, len(resp.Slots)),
	}

	for _, s := range resp.Slots {
		out.Slots = append(out.Slots, SlotResponse{
			ID:          s.ID,
			SlotID:      s.SlotID,
			ExceptionID: s.ExceptionID,
			Kind:        s.Kind,
			StartTime:   s.StartTime,
			EndTime:     s.EndTime,
			Capacity:    s.Capacity,
			Booked:      s.Booked,
			Remaining:   s.Remaining,
			IsFull:      s.Remaining == 0,
			Selectable:  s.Selectable,
		})
	}

	return out
}
