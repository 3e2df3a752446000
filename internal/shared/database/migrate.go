package database

import (
	"aerobook/internal/changes"
	"aerobook/internal/tickets"
	"aerobook/internal/trips"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&trips.Trip{},
		&trips.RouteDiscount{},
		&tickets.Ticket{},
		&changes.TicketChangeHistory{},
		&changes.Payment{},
	); err != nil {
		return err
	}
	return migrateConstraints(db)
}

// migrateConstraints adds constraints the schema needs for concurrency control.
// The partial unique index is the database-level backstop for the
// one-active-ticket-per-seat invariant; the service re-checks inside a
// transaction, the index catches anything that slips past it.
func migrateConstraints(db *gorm.DB) error {
	return db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_active_trip_seat
		ON tickets (trip_id, UPPER(seat_number))
		WHERE is_cancelled = false AND seat_number <> '';
	`).Error
}
