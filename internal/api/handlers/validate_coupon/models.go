package validate_coupon

import "github.com/google/uuid"

// ValidateCouponRequest HTTP request model.
// DurationMinutes опционален: если задан, в ответ попадает и итоговая цена
type ValidateCouponRequest struct {
	ServiceID       uuid.UUID `json:"serviceId"`
	Code            string    `json:"code"`
	DurationMinutes int       `json:"durationMinutes,omitempty"`
}

// ValidateCouponResponse HTTP response model.
// Невалидный купон - не ошибка: Valid=false и причина в Reason
type ValidateCouponResponse struct {
	Valid          bool     `json:"valid"`
	Code           string   `json:"code"`
	DiscountAmount float64  `json:"discountAmount,omitempty"`
	FinalAmount    *float64 `json:"finalAmount,omitempty"`
	Reason         string   `json:"reason,omitempty"`
}
