// Package pricing считает итоговую стоимость бронирования:
// базовый тариф по (услуга, длительность) минус скидка одного купона
package pricing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chillthrive/CT-BookingService/internal/domain"
	couponstore "github.com/chillthrive/CT-BookingService/internal/infra/storage/coupon"
)

// Quote итог расчёта цены. Отклонённый купон не прерывает расчёт:
// бронирование продолжается по полной цене с флагом CouponRejected
type Quote struct {
	BaseAmount     float64
	DiscountAmount float64
	FinalAmount    float64
	AppliedCode    *string
	CouponRejected bool
	RejectReason   string
}

// Engine движок расчёта цен
type Engine struct {
	coupons      CouponProvider
	timeProvider TimeProvider
	logger       Logger
}

// NewEngine создает новый движок расчёта цен
func NewEngine(coupons CouponProvider, timeProvider TimeProvider, logger Logger) *Engine {
	return &Engine{
		coupons:      coupons,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Price рассчитывает стоимость бронирования услуги svc на durationMinutes минут.
//
// Явно переданный код купона имеет приоритет: если он не проходит проверку,
// авто-купоны НЕ подбираются - клиент явно выразил намерение, подмена кода
// была бы неожиданной. Без явного кода берётся первый подходящий auto-apply
// купон в порядке кода. К бронированию применяется максимум один купон
func (e *Engine) Price(ctx context.Context, svc *domain.Service, durationMinutes int, couponCode *string) (*Quote, error) {
	base, ok := svc.PriceFor(durationMinutes)
	if !ok {
		return nil, fmt.Errorf("%w: service %s has no %d-minute tier", ErrInvalidDuration, svc.ID, durationMinutes)
	}

	quote := &Quote{BaseAmount: base, FinalAmount: base}

	if couponCode != nil && strings.TrimSpace(*couponCode) != "" {
		if err := e.applyExplicit(ctx, svc, *couponCode, quote); err != nil {
			return nil, err
		}
	} else {
		if err := e.applyAuto(ctx, svc, quote); err != nil {
			return nil, err
		}
	}

	quote.FinalAmount = quote.BaseAmount - quote.DiscountAmount
	if quote.FinalAmount < 0 {
		quote.FinalAmount = 0
	}

	return quote, nil
}

// Validate проверяет купон без расчёта цены (операция validate-coupon)
func (e *Engine) Validate(ctx context.Context, svc *domain.Service, code string) (*domain.Coupon, string, error) {
	c, err := e.coupons.GetByCode(ctx, code)
	if errors.Is(err, couponstore.ErrCouponNotFound) {
		return nil, RejectNotFound, nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("%w: Validate - get coupon by code: %v", ErrCouponLookup, err)
	}

	// Выключенный купон и истёкшее окно действия - разные причины для клиента
	if !c.IsActive {
		return nil, RejectInactive, nil
	}
	if !c.IsValidAt(e.timeProvider.Now()) {
		return nil, RejectExpired, nil
	}
	if !c.AppliesTo(svc.ID) {
		return nil, RejectInapplicable, nil
	}

	return c, "", nil
}

func (e *Engine) applyExplicit(ctx context.Context, svc *domain.Service, code string, quote *Quote) error {
	c, reason, err := e.Validate(ctx, svc, code)
	if err != nil {
		return err
	}
	if c == nil {
		e.logger.Warn("pricing: coupon %q rejected for service %s: %s", code, svc.ID, reason)
		quote.CouponRejected = true
		quote.RejectReason = reason
		return nil
	}

	quote.DiscountAmount = c.DiscountAmount
	quote.AppliedCode = &c.Code
	return nil
}

func (e *Engine) applyAuto(ctx context.Context, svc *domain.Service, quote *Quote) error {
	now := e.timeProvider.Now()

	candidates, err := e.coupons.ListAutoApply(ctx, now)
	if err != nil {
		return fmt.Errorf("%w: applyAuto - list auto-apply coupons: %v", ErrCouponLookup, err)
	}

	for _, c := range candidates {
		if !c.IsValidAt(now) || !c.AppliesTo(svc.ID) {
			continue
		}
		quote.DiscountAmount = c.DiscountAmount
		quote.AppliedCode = &c.Code
		return nil
	}

	return nil
}
