package trips

import (
	"time"

	"github.com/google/uuid"
)

// SeatClass is the fare/seating tier a ticket is sold in.
type SeatClass string

const (
	ClassEconomy    SeatClass = "Economy"
	ClassBusiness   SeatClass = "Business"
	ClassFirstClass SeatClass = "FirstClass"
)

// Valid reports whether the class is one of the three known tiers.
func (c SeatClass) Valid() bool {
	return c == ClassEconomy || c == ClassBusiness || c == ClassFirstClass
}

// Trip defines one scheduled flight.
//
// The per-class seat counters hold the *remaining* sellable seats and are
// the single source of truth for capacity; they are mutated inside the same
// transaction as the ticket rows they account for and must never go negative.
type Trip struct {
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Airline       string    `gorm:"not null;index" json:"airline"`
	FlightNumber  string    `gorm:"not null" json:"flight_number"`
	FromCity      string    `gorm:"not null;index:idx_route" json:"from_city"`
	ToCity        string    `gorm:"not null;index:idx_route" json:"to_city"`
	DepartureTime time.Time `gorm:"not null;index" json:"departure_time"`
	ArrivalTime   time.Time `gorm:"not null" json:"arrival_time"`

	EconomyPrice    float64 `gorm:"not null" json:"economy_price"`
	BusinessPrice   float64 `gorm:"not null" json:"business_price"`
	FirstClassPrice float64 `gorm:"not null" json:"first_class_price"`

	EconomySeats    int `gorm:"not null;check:economy_seats >= 0" json:"economy_seats"`
	BusinessSeats   int `gorm:"not null;check:business_seats >= 0" json:"business_seats"`
	FirstClassSeats int `gorm:"not null;check:first_class_seats >= 0" json:"first_class_seats"`

	// Configured cabin sizes, fixed at schedule time; used for seat-map
	// layout. The *Seats counters above count what is still sellable.
	EconomyCapacity    int `gorm:"not null" json:"economy_capacity"`
	BusinessCapacity   int `gorm:"not null" json:"business_capacity"`
	FirstClassCapacity int `gorm:"not null" json:"first_class_capacity"`

	// Round-trip discount percent for itineraries departing on this trip.
	// Zero means "no discount set here"; the route-level table is consulted
	// as a fallback before concluding no discount applies.
	RoundTripDiscountPercent float64 `gorm:"default:0" json:"round_trip_discount_percent"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName sets the table name for Trip
func (Trip) TableName() string {
	return "trips"
}

// PriceFor returns the listed price for the class, false for unknown classes.
func (t *Trip) PriceFor(class SeatClass) (float64, bool) {
	switch class {
	case ClassEconomy:
		return t.EconomyPrice, true
	case ClassBusiness:
		return t.BusinessPrice, true
	case ClassFirstClass:
		return t.FirstClassPrice, true
	default:
		return 0, false
	}
}

// RemainingSeats returns the remaining sellable seats for the class.
func (t *Trip) RemainingSeats(class SeatClass) (int, bool) {
	switch class {
	case ClassEconomy:
		return t.EconomySeats, true
	case ClassBusiness:
		return t.BusinessSeats, true
	case ClassFirstClass:
		return t.FirstClassSeats, true
	default:
		return 0, false
	}
}

// CapacityFor returns the configured cabin size for the class.
func (t *Trip) CapacityFor(class SeatClass) (int, bool) {
	switch class {
	case ClassEconomy:
		return t.EconomyCapacity, true
	case ClassBusiness:
		return t.BusinessCapacity, true
	case ClassFirstClass:
		return t.FirstClassCapacity, true
	default:
		return 0, false
	}
}

// HasDeparted reports whether the trip's departure time has passed.
func (t *Trip) HasDeparted(now time.Time) bool {
	return now.After(t.DepartureTime)
}

// RouteDiscount defines a route-level round-trip discount for an airline.
// Discounts may be configured per route rather than per trip instance; the
// fare engine falls back here when a trip carries no discount of its own.
type RouteDiscount struct {
	ID              uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Airline         string    `gorm:"not null;uniqueIndex:idx_airline_route" json:"airline"`
	FromCity        string    `gorm:"not null;uniqueIndex:idx_airline_route" json:"from_city"`
	ToCity          string    `gorm:"not null;uniqueIndex:idx_airline_route" json:"to_city"`
	DiscountPercent float64   `gorm:"not null" json:"discount_percent"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName sets the table name for RouteDiscount
func (RouteDiscount) TableName() string {
	return "route_discounts"
}
