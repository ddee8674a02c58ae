package validate_coupon

import (
	"context"

	"github.com/google/uuid"

	"github.com/chillthrive/CT-BookingService/internal/domain"
)

type ServiceRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Service, error)
}

type CouponValidator interface {
	Validate(ctx context.Context, svc *domain.Service, code string) (*domain.Coupon, string, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
