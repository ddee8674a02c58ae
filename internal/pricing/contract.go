package pricing

import (
	"context"
	"time"

	"github.com/chillthrive/CT-BookingService/internal/domain"
)

// CouponProvider источник купонов для расчёта цены
type CouponProvider interface {
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)
	ListAutoApply(ctx context.Context, now time.Time) ([]*domain.Coupon, error)
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
