package domain

import (
	"time"

	"github.com/google/uuid"
)

// Coupon is a flat-amount discount rule. Read-only for the booking engine;
// coupon management lives in the admin catalog surface
type Coupon struct {
	ID             uuid.UUID
	Code           string
	DiscountAmount float64
	IsActive       bool
	ValidFrom      *time.Time
	ValidUntil     *time.Time
	ServiceID      *uuid.UUID // nil = applies to every service
	AutoApply      bool
	CreatedAt      time.Time
}

// IsValidAt reports whether the coupon is active and inside its validity window
func (c *Coupon) IsValidAt(now time.Time) bool {
	if !c.IsActive {
		return false
	}
	if c.ValidFrom != nil && now.Before(*c.ValidFrom) {
		return false
	}
	if c.ValidUntil != nil && now.After(*c.ValidUntil) {
		return false
	}
	return true
}

// AppliesTo reports whether the coupon's service restriction covers serviceID
func (c *Coupon) AppliesTo(serviceID uuid.UUID) bool {
	return c.ServiceID == nil || *c.ServiceID == serviceID
}
