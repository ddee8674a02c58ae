package validate_coupon

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/chillthrive/CT-BookingService/internal/api/handlers"
	serviceRepo "github.com/chillthrive/CT-BookingService/internal/infra/storage/service"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgMissingCode        = "coupon code is required"
	msgMissingServiceID   = "service id is required"
	msgServiceNotFound    = "service not found"
)

type Handler struct {
	serviceRepo ServiceRepository
	validator   CouponValidator
	logger      Logger
}

func NewHandler(serviceRepo ServiceRepository, validator CouponValidator, logger Logger) *Handler {
	return &Handler{
		serviceRepo: serviceRepo,
		validator:   validator,
		logger:      logger,
	}
}

// Handle POST /api/v1/coupons/validate
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req ValidateCouponRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /coupons/validate - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if strings.TrimSpace(req.Code) == "" {
		handlers.RespondBadRequest(w, msgMissingCode)
		return
	}
	if req.ServiceID == uuid.Nil {
		handlers.RespondBadRequest(w, msgMissingServiceID)
		return
	}

	svc, err := h.serviceRepo.GetByID(r.Context(), req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			h.logger.Warn("POST /coupons/validate - Service not found: service_id=%s", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)
			return
		}
		h.logger.Error("POST /coupons/validate - Failed to get service: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	coupon, reason, err := h.validator.Validate(r.Context(), svc, req.Code)
	if err != nil {
		h.logger.Error("POST /coupons/validate - Validation failed: code=%s, error=%v", req.Code, err)
		handlers.RespondInternalError(w)
		return
	}

	resp := ValidateCouponResponse{Code: strings.ToUpper(strings.TrimSpace(req.Code))}
	if coupon != nil {
		resp.Valid = true
		resp.Code = coupon.Code
		resp.DiscountAmount = coupon.DiscountAmount
	} else {
		resp.Reason = reason
	}

	// Итоговая цена, если клиент прислал длительность с известным тарифом
	if req.DurationMinutes > 0 {
		if base, ok := svc.PriceFor(req.DurationMinutes); ok {
			final := base - resp.DiscountAmount
			if final < 0 {
				final = 0
			}
			resp.FinalAmount = &final
		}
	}

	h.logger.Info("POST /coupons/validate - code=%s, valid=%t", resp.Code, resp.Valid)
	handlers.RespondJSON(w, http.StatusOK, resp)
}
