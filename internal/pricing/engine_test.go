package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chillthrive/CT-BookingService/internal/domain"
	couponstore "github.com/chillthrive/CT-BookingService/internal/infra/storage/coupon"
	"github.com/chillthrive/CT-BookingService/pkg/ptr"
)

var testNow = time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)

type fixedTimeProvider struct{ now time.Time }

func (p *fixedTimeProvider) Now() time.Time { return p.now }

type fakeCouponProvider struct {
	byCode    map[string]*domain.Coupon
	autoApply []*domain.Coupon
}

func (f *fakeCouponProvider) GetByCode(_ context.Context, code string) (*domain.Coupon, error) {
	c, ok := f.byCode[code]
	if !ok {
		return nil, couponstore.ErrCouponNotFound
	}
	return c, nil
}

func (f *fakeCouponProvider) ListAutoApply(_ context.Context, _ time.Time) ([]*domain.Coupon, error) {
	return f.autoApply, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func testService() *domain.Service {
	return &domain.Service{
		ID:       uuid.New(),
		Slug:     "ice-bath",
		Title:    "Ice Bath",
		IsActive: true,
		Prices: []domain.PriceTier{
			{DurationMinutes: 30, Price: 500},
			{DurationMinutes: 60, Price: 900},
		},
	}
}

func newTestEngine(coupons *fakeCouponProvider) *Engine {
	return NewEngine(coupons, &fixedTimeProvider{now: testNow}, nopLogger{})
}

func TestPrice_BaseTierWithoutCoupon(t *testing.T) {
	engine := newTestEngine(&fakeCouponProvider{})
	svc := testService()

	quote, err := engine.Price(context.Background(), svc, 60, nil)

	require.NoError(t, err)
	assert.Equal(t, 900.0, quote.BaseAmount)
	assert.Equal(t, 0.0, quote.DiscountAmount)
	assert.Equal(t, 900.0, quote.FinalAmount)
	assert.Nil(t, quote.AppliedCode)
	assert.False(t, quote.CouponRejected)
}

func TestPrice_UnknownDuration(t *testing.T) {
	engine := newTestEngine(&fakeCouponProvider{})

	quote, err := engine.Price(context.Background(), testService(), 45, nil)

	assert.Nil(t, quote)
	assert.ErrorIs(t, err, ErrInvalidDuration)
}

func TestPrice_ExplicitCouponApplied(t *testing.T) {
	svc := testService()
	coupons := &fakeCouponProvider{byCode: map[string]*domain.Coupon{
		"WELCOME100": {
			ID:             uuid.New(),
			Code:           "WELCOME100",
			DiscountAmount: 100,
			IsActive:       true,
		},
	}}
	engine := newTestEngine(coupons)

	quote, err := engine.Price(context.Background(), svc, 30, ptr.Ptr("WELCOME100"))

	require.NoError(t, err)
	assert.Equal(t, 100.0, quote.DiscountAmount)
	assert.Equal(t, 400.0, quote.FinalAmount)
	require.NotNil(t, quote.AppliedCode)
	assert.Equal(t, "WELCOME100", *quote.AppliedCode)
	assert.False(t, quote.CouponRejected)
}

func TestPrice_ExplicitCouponRejectedNotFatal(t *testing.T) {
	svc := testService()
	otherService := uuid.New()
	expired := testNow.Add(-time.Hour)

	tests := []struct {
		name       string
		coupons    *fakeCouponProvider
		code       string
		wantReason string
	}{
		{
			name:       "неизвестный код",
			coupons:    &fakeCouponProvider{},
			code:       "NOPE",
			wantReason: RejectNotFound,
		},
		{
			name: "выключенный купон",
			coupons: &fakeCouponProvider{byCode: map[string]*domain.Coupon{
				"OFF": {Code: "OFF", DiscountAmount: 50, IsActive: false},
			}},
			code:       "OFF",
			wantReason: RejectInactive,
		},
		{
			name: "истёкший купон",
			coupons: &fakeCouponProvider{byCode: map[string]*domain.Coupon{
				"OLD": {Code: "OLD", DiscountAmount: 50, IsActive: true, ValidUntil: &expired},
			}},
			code:       "OLD",
			wantReason: RejectExpired,
		},
		{
			name: "купон другой услуги",
			coupons: &fakeCouponProvider{byCode: map[string]*domain.Coupon{
				"SAUNA": {Code: "SAUNA", DiscountAmount: 50, IsActive: true, ServiceID: &otherService},
			}},
			code:       "SAUNA",
			wantReason: RejectInapplicable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newTestEngine(tt.coupons)

			quote, err := engine.Price(context.Background(), svc, 30, ptr.Ptr(tt.code))

			require.NoError(t, err)
			assert.True(t, quote.CouponRejected)
			assert.Equal(t, tt.wantReason, quote.RejectReason)
			assert.Equal(t, 0.0, quote.DiscountAmount)
			assert.Equal(t, 500.0, quote.FinalAmount)
			assert.Nil(t, quote.AppliedCode)
		})
	}
}

func TestPrice_RejectedExplicitCouponSkipsAutoApply(t *testing.T) {
	svc := testService()
	coupons := &fakeCouponProvider{
		autoApply: []*domain.Coupon{
			{Code: "AUTO50", DiscountAmount: 50, IsActive: true, AutoApply: true},
		},
	}
	engine := newTestEngine(coupons)

	quote, err := engine.Price(context.Background(), svc, 30, ptr.Ptr("MISSING"))

	require.NoError(t, err)
	assert.True(t, quote.CouponRejected)
	assert.Nil(t, quote.AppliedCode)
	assert.Equal(t, 500.0, quote.FinalAmount)
}

func TestPrice_AutoApplyPicksFirstApplicable(t *testing.T) {
	svc := testService()
	otherService := uuid.New()
	coupons := &fakeCouponProvider{
		autoApply: []*domain.Coupon{
			{Code: "AAA", DiscountAmount: 75, IsActive: true, AutoApply: true, ServiceID: &otherService},
			{Code: "BBB", DiscountAmount: 50, IsActive: true, AutoApply: true},
			{Code: "CCC", DiscountAmount: 200, IsActive: true, AutoApply: true},
		},
	}
	engine := newTestEngine(coupons)

	quote, err := engine.Price(context.Background(), svc, 30, nil)

	require.NoError(t, err)
	require.NotNil(t, quote.AppliedCode)
	assert.Equal(t, "BBB", *quote.AppliedCode)
	assert.Equal(t, 50.0, quote.DiscountAmount)
	assert.Equal(t, 450.0, quote.FinalAmount)
}

func TestPrice_DiscountNeverDrivesFinalNegative(t *testing.T) {
	svc := testService()
	coupons := &fakeCouponProvider{byCode: map[string]*domain.Coupon{
		"MEGA": {Code: "MEGA", DiscountAmount: 10000, IsActive: true},
	}}
	engine := newTestEngine(coupons)

	quote, err := engine.Price(context.Background(), svc, 30, ptr.Ptr("MEGA"))

	require.NoError(t, err)
	assert.Equal(t, 0.0, quote.FinalAmount)
	assert.Equal(t, 10000.0, quote.DiscountAmount)
}

func TestValidate(t *testing.T) {
	svc := testService()
	coupons := &fakeCouponProvider{byCode: map[string]*domain.Coupon{
		"OK": {ID: uuid.New(), Code: "OK", DiscountAmount: 50, IsActive: true},
	}}
	engine := newTestEngine(coupons)

	c, reason, err := engine.Validate(context.Background(), svc, "OK")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Empty(t, reason)

	c, reason, err = engine.Validate(context.Background(), svc, "MISSING")
	require.NoError(t, err)
	assert.Nil(t, c)
	assert.Equal(t, RejectNotFound, reason)
}
