package pricing

import "errors"

var (
	// ErrInvalidDuration возвращается, когда у услуги нет тарифа на запрошенную длительность
	ErrInvalidDuration = errors.New("pricing: no price tier for requested duration")

	// ErrCouponLookup возвращается при ошибке обращения к хранилищу купонов
	ErrCouponLookup = errors.New("pricing: failed to look up coupon")
)

// Причины отклонения купона. Отклонение не фатально: бронирование
// продолжается по полной цене, причина возвращается клиенту
const (
	RejectNotFound     = "coupon_not_found"
	RejectInactive     = "coupon_inactive"
	RejectExpired      = "coupon_expired"
	RejectInapplicable = "coupon_not_applicable"
)
