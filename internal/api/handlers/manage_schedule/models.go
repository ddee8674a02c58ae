package manage_schedule

import (
	"time"

	"github.com/google/uuid"

	"github.com/chillthrive/CT-BookingService/internal/domain"
	"github.com/chillthrive/CT-BookingService/internal/service/schedule/models"
)

// CreateTemplateRequest HTTP request model
type CreateTemplateRequest struct {
	ServiceID uuid.UUID `json:"serviceId"`
	StartTime string    `json:"startTime"`
	EndTime   string    `json:"endTime"`
	Capacity  int       `json:"capacity"`
}

// UpdateTemplateRequest HTTP request model.
// applyDate - дата, правка которой продвигается в мастер-шаблон
type UpdateTemplateRequest struct {
	StartTime *string `json:"startTime,omitempty"`
	EndTime   *string `json:"endTime,omitempty"`
	Capacity  *int    `json:"capacity,omitempty"`
	ApplyDate *string `json:"applyDate,omitempty"` // "2026-09-15"
}

// CreateExceptionRequest HTTP request model
type CreateExceptionRequest struct {
	ServiceID uuid.UUID  `json:"serviceId"`
	Date      string     `json:"date"` // "2026-09-15"
	Kind      string     `json:"kind"` // block | modify | add
	SlotID    *uuid.UUID `json:"slotId,omitempty"`
	StartTime *string    `json:"startTime,omitempty"`
	EndTime   *string    `json:"endTime,omitempty"`
	Capacity  *int       `json:"capacity,omitempty"`
}

// UpdateExceptionRequest HTTP request model
type UpdateExceptionRequest struct {
	Capacity *int `json:"capacity,omitempty"`
}

// CreateClosureRequest HTTP request model
type CreateClosureRequest struct {
	Date   string `json:"date"` // "2026-09-15"
	Reason string `json:"reason,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateTemplateRequest) ToServiceRequest() (*models.UpdateTemplateRequest, error) {
	req := &models.UpdateTemplateRequest{
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Capacity:  r.Capacity,
	}

	if r.ApplyDate != nil {
		applyDate, err := time.Parse(domain.DateFormat, *r.ApplyDate)
		if err != nil {
			return nil, err
		}
		req.ApplyDate = &applyDate
	}

	return req, nil
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CreateExceptionRequest) ToServiceRequest() (*models.CreateExceptionRequest, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	return &models.CreateExceptionRequest{
		ServiceID: r.ServiceID,
		Date:      date,
		Kind:      r.Kind,
		SlotID:    r.SlotID,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Capacity:  r.Capacity,
	}, nil
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CreateClosureRequest) ToServiceRequest() (*models.CreateClosureRequest, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	return &models.CreateClosureRequest{
		Date:   date,
		Reason: r.Reason,
	}, nil
}
