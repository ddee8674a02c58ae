package get_operator_schedule

import (
	"github.com/google/uuid"

	availabilityHTTP "github.com/chillthrive/CT-BookingService/internal/api/handlers/get_availability"
	scheduleModels "github.com/chillthrive/CT-BookingService/internal/service/schedule/models"
)

// DayScheduleResponse операторский обзор дня: полная выдача резолвера
// (включая заблокированные и заполненные слоты) плюс ближайшие закрытия
type DayScheduleResponse struct {
	ServiceID     uuid.UUID                        `json:"serviceId"`
	Date          string                           `json:"date"`
	Closed        bool                             `json:"closed"`
	ClosureReason *string                          `json:"closureReason,omitempty"`
	Slots         []availabilityHTTP.SlotResponse  `json:"slots"`
	Upcoming      []scheduleModels.ClosureResponse `json:"upcomingClosures"`
}
