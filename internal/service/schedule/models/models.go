package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/chillthrive/CT-BookingService/internal/domain"
)

// Request модели

// CreateTemplateRequest запрос на создание шаблона слота
type CreateTemplateRequest struct {
	ServiceID uuid.UUID `json:"serviceId"`
	StartTime string    `json:"startTime"` // "07:00"
	EndTime   string    `json:"endTime"`   // "08:00"
	Capacity  int       `json:"capacity"`
}

// UpdateTemplateRequest запрос на изменение мастер-шаблона.
// ApplyDate - дата, с которой оператор начал правку ("обновить мастер"):
// исключение этого шаблона на эту дату удаляется, правка становится
// постоянной частью расписания
type UpdateTemplateRequest struct {
	StartTime *string    `json:"startTime,omitempty"`
	EndTime   *string    `json:"endTime,omitempty"`
	Capacity  *int       `json:"capacity,omitempty"`
	ApplyDate *time.Time `json:"applyDate,omitempty"`
}

// CreateExceptionRequest запрос на создание исключения расписания
type CreateExceptionRequest struct {
	ServiceID uuid.UUID  `json:"serviceId"`
	Date      time.Time  `json:"date"`
	Kind      string     `json:"kind"`   // block | modify | add
	SlotID    *uuid.UUID `json:"slotId,omitempty"` // обязателен для block/modify
	StartTime *string    `json:"startTime,omitempty"`
	EndTime   *string    `json:"endTime,omitempty"`
	Capacity  *int       `json:"capacity,omitempty"`
}

// UpdateExceptionRequest запрос на правку исключения.
// Менять можно только ёмкость - для смены времени исключение пересоздаётся
type UpdateExceptionRequest struct {
	Capacity *int `json:"capacity,omitempty"`
}

// CreateClosureRequest запрос на закрытие дня целиком
type CreateClosureRequest struct {
	Date   time.Time `json:"date"`
	Reason string    `json:"reason"`
}

// Response модели

// TemplateResponse ответ с данными шаблона слота
type TemplateResponse struct {
	ID        uuid.UUID `json:"id"`
	ServiceID uuid.UUID `json:"serviceId"`
	StartTime string    `json:"startTime"`
	EndTime   string    `json:"endTime"`
	Capacity  int       `json:"capacity"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TemplateListResponse ответ со списком шаблонов
type TemplateListResponse struct {
	Templates []TemplateResponse `json:"templates"`
}

// ExceptionResponse ответ с данными исключения
type ExceptionResponse struct {
	ID        uuid.UUID  `json:"id"`
	ServiceID uuid.UUID  `json:"serviceId"`
	Date      string     `json:"date"` // "2026-09-15"
	Kind      string     `json:"kind"`
	SlotID    *uuid.UUID `json:"slotId,omitempty"`
	StartTime *string    `json:"startTime,omitempty"`
	EndTime   *string    `json:"endTime,omitempty"`
	Capacity  *int       `json:"capacity,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// ClosureResponse ответ с данными закрытия дня
type ClosureResponse struct {
	ID        uuid.UUID `json:"id"`
	Date      string    `json:"date"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ClosureListResponse ответ со списком закрытий
type ClosureListResponse struct {
	Closures []ClosureResponse `json:"closures"`
}

// Методы конвертации

// FromDomainTemplate конвертирует domain модель в DTO
func FromDomainTemplate(t *domain.SlotTemplate) *TemplateResponse {
	if t == nil {
		return nil
	}
	return &TemplateResponse{
		ID:        t.ID,
		ServiceID: t.ServiceID,
		StartTime: t.StartTime.String(),
		EndTime:   t.EndTime.String(),
		Capacity:  t.Capacity,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// FromDomainTemplateList конвертирует список domain моделей в DTO
func FromDomainTemplateList(templates []*domain.SlotTemplate) *TemplateListResponse {
	resp := &TemplateListResponse{Templates: make([]TemplateResponse, 0, len(templates))}
	for _, t := range templates {
		if tr := FromDomainTemplate(t); tr != nil {
			resp.Templates = append(resp.Templates, *tr)
		}
	}
	return resp
}

// FromDomainException конвертирует domain модель в DTO
func FromDomainException(e *domain.ScheduleException) *ExceptionResponse {
	if e == nil {
		return nil
	}

	resp := &ExceptionResponse{
		ID:        e.ID,
		ServiceID: e.ServiceID,
		Date:      e.Date.Format(domain.DateFormat),
		Kind:      string(e.Kind()),
		SlotID:    e.SlotID,
		Capacity:  e.Capacity,
		CreatedAt: e.CreatedAt,
	}

	if e.StartTime != nil {
		s := e.StartTime.String()
		resp.StartTime = &s
	}
	if e.EndTime != nil {
		s := e.EndTime.String()
		resp.EndTime = &s
	}

	return resp
}

// FromDomainClosure конвертирует domain модель в DTO
func FromDomainClosure(c *domain.DateClosure) *ClosureResponse {
	if c == nil {
		return nil
	}
	return &ClosureResponse{
		ID:        c.ID,
		Date:      c.Date.Format(domain.DateFormat),
		Reason:    c.Reason,
		CreatedAt: c.CreatedAt,
	}
}

// FromDomainClosureList конвертирует список domain моделей в DTO
func FromDomainClosureList(closures []*domain.DateClosure) *ClosureListResponse {
	resp := &ClosureListResponse{Closures: make([]ClosureResponse, 0, len(closures))}
	for _, c := range closures {
		if cr := FromDomainClosure(c); cr != nil {
			resp.Closures = append(resp.Closures, *cr)
		}
	}
	return resp
}
