package trips

import (
	"context"
	"errors"
	"strings"

	"aerobook/internal/shared/constants"
	"aerobook/pkg/cache"
	"aerobook/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrTripNotFound is returned when no trip exists for the given id.
var ErrTripNotFound = errors.New("trip not found")

type Repository interface {
	GetTripByID(ctx context.Context, id uuid.UUID) (*Trip, error)
	GetRouteDiscount(ctx context.Context, airline, fromCity, toCity string) (float64, error)

	// InvalidateTrip drops the cached detail entry for a trip. Callers that
	// mutate seat counters invoke it after commit so the next read sees
	// live counts instead of a stale cache hit.
	InvalidateTrip(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db           *gorm.DB
	cacheService cache.Service
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// NewCachedRepository wraps trip reads with the shared cache service.
func NewCachedRepository(db *gorm.DB, cacheService cache.Service) Repository {
	return &repository{db: db, cacheService: cacheService}
}

func (r *repository) GetTripByID(ctx context.Context, id uuid.UUID) (*Trip, error) {
	if r.cacheService != nil {
		var cached Trip
		if err := r.cacheService.Get(ctx, constants.BuildTripDetailKey(id.String()), &cached); err == nil {
			return &cached, nil
		}
	}

	var trip Trip
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&trip).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, err
	}

	if r.cacheService != nil {
		if err := r.cacheService.Set(ctx, constants.BuildTripDetailKey(id.String()), &trip, constants.TTL_TRIP_DETAIL); err != nil {
			logger.GetDefault().DebugWithContext(ctx, "failed to cache trip", map[string]interface{}{"trip_id": id.String(), "err": err.Error()})
		}
	}

	return &trip, nil
}

func (r *repository) InvalidateTrip(ctx context.Context, id uuid.UUID) error {
	if r.cacheService == nil {
		return nil
	}
	return r.cacheService.Delete(ctx, constants.BuildTripDetailKey(id.String()))
}

// GetRouteDiscount returns the route-level round-trip discount percent for
// the airline's route, 0 when none is configured.
func (r *repository) GetRouteDiscount(ctx context.Context, airline, fromCity, toCity string) (float64, error) {
	cacheKey := constants.BuildRouteDiscountKey(
		strings.ToLower(airline), strings.ToLower(fromCity), strings.ToLower(toCity))

	if r.cacheService != nil {
		var cached float64
		if err := r.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	var discount RouteDiscount
	err := r.db.WithContext(ctx).
		Where("LOWER(airline) = ? AND LOWER(from_city) = ? AND LOWER(to_city) = ?",
			strings.ToLower(airline), strings.ToLower(fromCity), strings.ToLower(toCity)).
		First(&discount).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}

	if r.cacheService != nil {
		_ = r.cacheService.Set(ctx, cacheKey, discount.DiscountPercent, constants.TTL_ROUTE_LOOKUP)
	}

	return discount.DiscountPercent, nil
}

// seatColumn maps a seat class to its remaining-seats column. Kept next to
// the model so the counter adjustments in the change workflow stay in sync
// with the schema.
func seatColumn(class SeatClass) string {
	switch class {
	case ClassEconomy:
		return "economy_seats"
	case ClassBusiness:
		return "business_seats"
	case ClassFirstClass:
		return "first_class_seats"
	default:
		return ""
	}
}

// SeatColumn exposes the class-to-counter-column mapping for transactional
// counter updates performed by other repositories.
func SeatColumn(class SeatClass) string {
	return seatColumn(class)
}
