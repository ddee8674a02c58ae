package domain

import (
	"time"

	"github.com/google/uuid"
)

// Service represents a wellness service from the catalog.
// The catalog itself is managed externally; the booking engine only
// reads it for titles, activity flags and price tiers
type Service struct {
	ID        uuid.UUID
	Slug      string
	Title     string
	IsActive  bool
	Prices    []PriceTier
	CreatedAt time.Time
}

// PriceTier is a (duration, price) pair a service can be booked for
type PriceTier struct {
	DurationMinutes int
	Price           float64
}

// PriceFor returns the listed price for the given duration tier
func (s *Service) PriceFor(durationMinutes int) (float64, bool) {
	for _, tier := range s.Prices {
		if tier.DurationMinutes == durationMinutes {
			return tier.Price, true
		}
	}
	return 0, false
}
