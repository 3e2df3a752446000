package constants

import "time"

// Redis key layout for the aerobook backend.
// Pattern: aerobook:{module}:{operation}:{identifier}

const (
	CACHE_PREFIX = "aerobook"
)

// ================== CACHE TTL DURATIONS ==================

const (
	TTL_TRIP_DETAIL   = 2 * time.Hour   // trip attributes rarely change mid-sale
	TTL_ROUTE_LOOKUP  = 12 * time.Hour  // route discount tables are near-static
	TTL_TICKET_LOOKUP = 5 * time.Minute // PNR lookups, short-lived
)

// Seat maps are deliberately NOT cached: occupancy changes concurrently and
// a stale map would show taken seats as free.

// ================== TRIPS MODULE ==================

const (
	CACHE_KEY_TRIP_DETAIL    = CACHE_PREFIX + ":trips:detail:uuid:" // + trip-id
	CACHE_KEY_ROUTE_DISCOUNT = CACHE_PREFIX + ":trips:route_discount:"
)

// BuildTripDetailKey builds the cache key for a single trip.
func BuildTripDetailKey(tripID string) string {
	return CACHE_KEY_TRIP_DETAIL + tripID
}

// BuildRouteDiscountKey builds the cache key for a route-level discount lookup.
func BuildRouteDiscountKey(airline, from, to string) string {
	return CACHE_KEY_ROUTE_DISCOUNT + airline + ":" + from + ":" + to
}

// ================== CHANGES MODULE ==================

// Pending ticket-change intents live in Redis with a TTL so a payment
// redirect the user abandons never blocks future change attempts.
const (
	PENDING_CHANGE_BY_TOKEN  = CACHE_PREFIX + ":changes:pending:token:"  // + correlation token
	PENDING_CHANGE_BY_TICKET = CACHE_PREFIX + ":changes:pending:ticket:" // + ticket-id
)

// BuildPendingChangeTokenKey keys a pending change by its opaque gateway token.
func BuildPendingChangeTokenKey(token string) string {
	return PENDING_CHANGE_BY_TOKEN + token
}

// BuildPendingChangeTicketKey keys a pending change by the ticket being changed.
func BuildPendingChangeTicketKey(ticketID string) string {
	return PENDING_CHANGE_BY_TICKET + ticketID
}

// ================== RATE LIMITING ==================

const (
	RATELIMIT_PREFIX = CACHE_PREFIX + ":ratelimit:"
)
