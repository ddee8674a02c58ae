package manage_schedule

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/chillthrive/CT-BookingService/internal/api/handlers"
	"github.com/chillthrive/CT-BookingService/internal/domain"
	scheduleService "github.com/chillthrive/CT-BookingService/internal/service/schedule"
	"github.com/chillthrive/CT-BookingService/internal/service/schedule/models"
)

const (
	msgInvalidRequestBody   = "invalid request body"
	msgInvalidServiceID     = "invalid service id"
	msgInvalidTemplateID    = "invalid template id"
	msgInvalidExceptionID   = "invalid exception id"
	msgInvalidClosureID     = "invalid closure id"
	msgInvalidDate          = "invalid date, expected YYYY-MM-DD"
	msgTemplateNotFound     = "slot template not found"
	msgExceptionNotFound    = "schedule exception not found"
	msgClosureNotFound      = "date closure not found"
	msgTemplateInUse        = "template has bookings and cannot be deleted"
	msgExceptionInUse       = "exception has bookings and cannot be deleted"
	msgDuplicateException   = "exception already exists for this slot and date"
	msgDuplicateClosure     = "date is already closed"
)

const defaultClosureLimit = 10

type Handler struct {
	schedule ScheduleService
	logger   Logger
}

func NewHandler(schedule ScheduleService, logger Logger) *Handler {
	return &Handler{
		schedule: schedule,
		logger:   logger,
	}
}

// HandleListTemplates GET /api/v1/admin/slot-templates?serviceId=
func (h *Handler) HandleListTemplates(w http.ResponseWriter, r *http.Request) {
	serviceID, err := uuid.Parse(r.URL.Query().Get("serviceId"))
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	resp, err := h.schedule.ListTemplates(r.Context(), serviceID)
	if err != nil {
		h.logger.Error("GET /admin/slot-templates - Failed to list templates: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

// HandleCreateTemplate POST /api/v1/admin/slot-templates
func (h *Handler) HandleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req CreateTemplateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/slot-templates - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if req.ServiceID == uuid.Nil {
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	resp, err := h.schedule.CreateTemplate(r.Context(), &models.CreateTemplateRequest{
		ServiceID: req.ServiceID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Capacity:  req.Capacity,
	})
	if err != nil {
		switch {
		case errors.Is(err, scheduleService.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())
		default:
			h.logger.Error("POST /admin/slot-templates - Failed to create template: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/slot-templates - Created: template_id=%s, service_id=%s", resp.ID, req.ServiceID)
	handlers.RespondJSON(w, http.StatusCreated, resp)
}

// HandleUpdateTemplate PATCH /api/v1/admin/slot-templates/{templateId}
func (h *Handler) HandleUpdateTemplate(w http.ResponseWriter, r *http.Request) {
	templateID, err := handlers.PathUUID(r, "templateId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidTemplateID)
		return
	}

	var req UpdateTemplateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /admin/slot-templates/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest()
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	resp, err := h.schedule.UpdateTemplate(r.Context(), templateID, serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, scheduleService.ErrTemplateNotFound):
			handlers.RespondNotFound(w, msgTemplateNotFound)
		case errors.Is(err, scheduleService.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())
		default:
			h.logger.Error("PATCH /admin/slot-templates/{id} - Failed to update template: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /admin/slot-templates/{id} - Updated: template_id=%s", templateID)
	handlers.RespondJSON(w, http.StatusOK, resp)
}

// HandleDeleteTemplate DELETE /api/v1/admin/slot-templates/{templateId}
func (h *Handler) HandleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	templateID, err := handlers.PathUUID(r, "templateId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidTemplateID)
		return
	}

	if err := h.schedule.DeleteTemplate(r.Context(), templateID); err != nil {
		switch {
		case errors.Is(err, scheduleService.ErrTemplateNotFound):
			handlers.RespondNotFound(w, msgTemplateNotFound)
		case errors.Is(err, scheduleService.ErrTemplateInUse):
			handlers.RespondConflict(w, msgTemplateInUse)
		default:
			h.logger.Error("DELETE /admin/slot-templates/{id} - Failed to delete template: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /admin/slot-templates/{id} - Deleted: template_id=%s", templateID)
	handlers.RespondNoContent(w)
}

// HandleListExceptions GET /api/v1/admin/exceptions?serviceId=&date=YYYY-MM-DD
func (h *Handler) HandleListExceptions(w http.ResponseWriter, r *http.Request) {
	serviceID, err := uuid.Parse(r.URL.Query().Get("serviceId"))
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	date, err := time.Parse(domain.DateFormat, r.URL.Query().Get("date"))
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	exceptions, err := h.schedule.ListExceptions(r.Context(), serviceID, date)
	if err != nil {
		h.logger.Error("GET /admin/exceptions - Failed to list exceptions: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string][]models.ExceptionResponse{"exceptions": exceptions})
}

// HandleCreateException POST /api/v1/admin/exceptions
func (h *Handler) HandleCreateException(w http.ResponseWriter, r *http.Request) {
	var req CreateExceptionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/exceptions - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if req.ServiceID == uuid.Nil {
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	serviceReq, err := req.ToServiceRequest()
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	resp, err := h.schedule.CreateException(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, scheduleService.ErrTemplateNotFound):
			handlers.RespondNotFound(w, msgTemplateNotFound)
		case errors.Is(err, scheduleService.ErrDuplicateException):
			handlers.RespondConflict(w, msgDuplicateException)
		case errors.Is(err, scheduleService.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())
		default:
			h.logger.Error("POST /admin/exceptions - Failed to create exception: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/exceptions - Created: exception_id=%s, service_id=%s, kind=%s", resp.ID, req.ServiceID, resp.Kind)
	handlers.RespondJSON(w, http.StatusCreated, resp)
}

// HandleUpdateException PATCH /api/v1/admin/exceptions/{exceptionId}
func (h *Handler) HandleUpdateException(w http.ResponseWriter, r *http.Request) {
	exceptionID, err := handlers.PathUUID(r, "exceptionId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidExceptionID)
		return
	}

	var req UpdateExceptionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /admin/exceptions/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.schedule.UpdateException(r.Context(), exceptionID, &models.UpdateExceptionRequest{
		Capacity: req.Capacity,
	})
	if err != nil {
		switch {
		case errors.Is(err, scheduleService.ErrExceptionNotFound):
			handlers.RespondNotFound(w, msgExceptionNotFound)
		case errors.Is(err, scheduleService.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())
		default:
			h.logger.Error("PATCH /admin/exceptions/{id} - Failed to update exception: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /admin/exceptions/{id} - Updated: exception_id=%s", exceptionID)
	handlers.RespondJSON(w, http.StatusOK, resp)
}

// HandleDeleteException DELETE /api/v1/admin/exceptions/{exceptionId}
func (h *Handler) HandleDeleteException(w http.ResponseWriter, r *http.Request) {
	exceptionID, err := handlers.PathUUID(r, "exceptionId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidExceptionID)
		return
	}

	if err := h.schedule.DeleteException(r.Context(), exceptionID); err != nil {
		switch {
		case errors.Is(err, scheduleService.ErrExceptionNotFound):
			handlers.RespondNotFound(w, msgExceptionNotFound)
		case errors.Is(err, scheduleService.ErrExceptionInUse):
			handlers.RespondConflict(w, msgExceptionInUse)
		default:
			h.logger.Error("DELETE /admin/exceptions/{id} - Failed to delete exception: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /admin/exceptions/{id} - Deleted: exception_id=%s", exceptionID)
	handlers.RespondNoContent(w)
}

// HandleCreateClosure POST /api/v1/admin/closures
func (h *Handler) HandleCreateClosure(w http.ResponseWriter, r *http.Request) {
	var req CreateClosureRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/closures - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest()
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	resp, err := h.schedule.CreateClosure(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, scheduleService.ErrDuplicateClosure):
			handlers.RespondConflict(w, msgDuplicateClosure)
		case errors.Is(err, scheduleService.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())
		default:
			h.logger.Error("POST /admin/closures - Failed to create closure: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/closures - Created: closure_id=%s, date=%s", resp.ID, resp.Date)
	handlers.RespondJSON(w, http.StatusCreated, resp)
}

// HandleListClosures GET /api/v1/admin/closures?from=YYYY-MM-DD&limit=N
func (h *Handler) HandleListClosures(w http.ResponseWriter, r *http.Request) {
	from := time.Now()
	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		from = parsed
	}

	limit := uint64(defaultClosureLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || parsed == 0 {
			handlers.RespondBadRequest(w, "invalid limit")
			return
		}
		limit = parsed
	}

	resp, err := h.schedule.ListUpcomingClosures(r.Context(), from, limit)
	if err != nil {
		h.logger.Error("GET /admin/closures - Failed to list closures: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

// HandleDeleteClosure DELETE /api/v1/admin/closures/{closureId}
func (h *Handler) HandleDeleteClosure(w http.ResponseWriter, r *http.Request) {
	closureID, err := handlers.PathUUID(r, "closureId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidClosureID)
		return
	}

	if err := h.schedule.DeleteClosure(r.Context(), closureID); err != nil {
		switch {
		case errors.Is(err, scheduleService.ErrClosureNotFound):
			handlers.RespondNotFound(w, msgClosureNotFound)
		default:
			h.logger.Error("DELETE /admin/closures/{id} - Failed to delete closure: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /admin/closures/{id} - Deleted: closure_id=%s", closureID)
	handlers.RespondNoContent(w)
}
