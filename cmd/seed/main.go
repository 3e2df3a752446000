package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"aerobook/internal/changes"
	"aerobook/internal/shared/config"
	"aerobook/internal/shared/database"
	"aerobook/internal/tickets"
	"aerobook/internal/trips"
	"aerobook/pkg/cache"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("Starting aerobook database seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}

	fmt.Println("Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	fmt.Println("Seeding completed, database is ready for testing.")
}

// CleanDatabase truncates all tables in reverse dependency order.
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"payments",
		"ticket_change_histories",
		"tickets",
		"route_discounts",
		"trips",
	}

	pg := s.db.GetPostgreSQL()
	for _, table := range tables {
		if err := pg.Exec("TRUNCATE TABLE " + table + " RESTART IDENTITY CASCADE").Error; err != nil {
			return fmt.Errorf("failed to truncate %s: %w", table, err)
		}
	}
	return nil
}

func (s *Seeder) SeedAll() error {
	tripRows, err := s.seedTrips()
	if err != nil {
		return err
	}
	if err := s.seedRouteDiscounts(); err != nil {
		return err
	}
	if err := s.seedTickets(tripRows); err != nil {
		return err
	}
	return s.invalidateTripCache(tripRows)
}

// invalidateTripCache drops any cached trip details left over from a
// previous run; seeding rewrites every seat counter.
func (s *Seeder) invalidateTripCache(tripRows []trips.Trip) error {
	repo := trips.NewCachedRepository(s.db.GetPostgreSQL(), cache.NewService(s.db.GetRedis()))
	ctx := context.Background()
	for _, trip := range tripRows {
		if err := repo.InvalidateTrip(ctx, trip.ID); err != nil {
			return fmt.Errorf("failed to invalidate trip %s: %w", trip.ID, err)
		}
	}
	return nil
}

func (s *Seeder) seedTrips() ([]trips.Trip, error) {
	base := time.Now().Add(72 * time.Hour).Truncate(time.Hour)

	tripRows := []trips.Trip{
		{
			ID:            uuid.New(),
			Airline:       "VietJet Air",
			FlightNumber:  "VJ123",
			FromCity:      "Hanoi",
			ToCity:        "Da Nang",
			DepartureTime: base,
			ArrivalTime:   base.Add(80 * time.Minute),

			EconomyPrice:    100,
			BusinessPrice:   250,
			FirstClassPrice: 400,

			EconomySeats:    150,
			BusinessSeats:   24,
			FirstClassSeats: 8,

			EconomyCapacity:    150,
			BusinessCapacity:   24,
			FirstClassCapacity: 8,

			RoundTripDiscountPercent: 10,
		},
		{
			ID:            uuid.New(),
			Airline:       "VietJet Air",
			FlightNumber:  "VJ124",
			FromCity:      "Da Nang",
			ToCity:        "Hanoi",
			DepartureTime: base.Add(96 * time.Hour),
			ArrivalTime:   base.Add(96*time.Hour + 80*time.Minute),

			EconomyPrice:    120,
			BusinessPrice:   280,
			FirstClassPrice: 450,

			EconomySeats:    150,
			BusinessSeats:   24,
			FirstClassSeats: 8,

			EconomyCapacity:    150,
			BusinessCapacity:   24,
			FirstClassCapacity: 8,
		},
		{
			ID:            uuid.New(),
			Airline:       "Bamboo Airways",
			FlightNumber:  "QH201",
			FromCity:      "Hanoi",
			ToCity:        "Saigon",
			DepartureTime: base.Add(24 * time.Hour),
			ArrivalTime:   base.Add(24*time.Hour + 2*time.Hour),

			EconomyPrice:    80,
			BusinessPrice:   200,
			FirstClassPrice: 350,

			EconomySeats:    180,
			BusinessSeats:   28,
			FirstClassSeats: 8,

			EconomyCapacity:    180,
			BusinessCapacity:   28,
			FirstClassCapacity: 8,
		},
	}

	pg := s.db.GetPostgreSQL()
	for i := range tripRows {
		if err := pg.Create(&tripRows[i]).Error; err != nil {
			return nil, fmt.Errorf("failed to seed trip %s: %w", tripRows[i].FlightNumber, err)
		}
	}

	fmt.Printf("  seeded %d trips\n", len(tripRows))
	return tripRows, nil
}

func (s *Seeder) seedRouteDiscounts() error {
	pg := s.db.GetPostgreSQL()
	discounts := []trips.RouteDiscount{
		{Airline: "Bamboo Airways", FromCity: "Hanoi", ToCity: "Saigon", DiscountPercent: 5},
		{Airline: "Vietnam Airlines", FromCity: "Hanoi", ToCity: "Da Nang", DiscountPercent: 8},
	}
	for i := range discounts {
		if err := pg.Create(&discounts[i]).Error; err != nil {
			return fmt.Errorf("failed to seed route discount: %w", err)
		}
	}
	fmt.Printf("  seeded %d route discounts\n", len(discounts))
	return nil
}

func (s *Seeder) seedTickets(tripRows []trips.Trip) error {
	ctx := context.Background()
	pg := s.db.GetPostgreSQL()
	ticketRepo := tickets.NewRepository(pg)
	changeRepo := changes.NewRepository(pg)

	passengers := []struct {
		name  string
		email string
		class trips.SeatClass
		seat  string
	}{
		{"Linh Tran", "linh@example.com", trips.ClassEconomy, "1A"},
		{"Minh Nguyen", "minh@example.com", trips.ClassEconomy, "1B"},
		{"An Pham", "an@example.com", trips.ClassBusiness, "1A"},
	}

	seeded := make([]tickets.Ticket, 0, len(passengers))
	for _, p := range passengers {
		pnr, err := tickets.GeneratePNR(ctx, ticketRepo)
		if err != nil {
			return fmt.Errorf("failed to generate PNR: %w", err)
		}

		price := tripRows[0].EconomyPrice
		if p.class == trips.ClassBusiness {
			price = tripRows[0].BusinessPrice
		}

		ticket := tickets.Ticket{
			ID:            uuid.New(),
			TripID:        tripRows[0].ID,
			UserID:        uuid.New(),
			SeatClass:     p.class,
			SeatNumber:    p.seat,
			PassengerName: p.name,
			ContactEmail:  p.email,
			PNR:           pnr,
			BookedAt:      time.Now(),
			PaymentStatus: tickets.PaymentCompleted,
			TotalPrice:    price,
		}
		if err := ticketRepo.CreateTicket(ctx, &ticket); err != nil {
			return fmt.Errorf("failed to seed ticket for %s: %w", p.name, err)
		}

		col := trips.SeatColumn(p.class)
		if err := pg.Model(&trips.Trip{}).
			Where("id = ?", tripRows[0].ID).
			UpdateColumn(col, gorm.Expr(col+" - 1")).Error; err != nil {
			return fmt.Errorf("failed to adjust seat counter: %w", err)
		}

		seeded = append(seeded, ticket)
	}
	fmt.Printf("  seeded %d tickets\n", len(seeded))

	// One completed change so the history endpoint has data to show.
	newTicket, _, err := changeRepo.ApplyChange(ctx, changes.ApplyParams{
		OriginalTicketID: seeded[1].ID,
		NewTripID:        tripRows[2].ID,
		NewSeatClass:     trips.ClassEconomy,
		Reason:           "earlier flight",
		ChangeFee:        15,
		PriceDifference:  -20,
		TotalDue:         15,
		PaymentTxnRef:    "SEED-0001",
		PaymentMethod:    "GATEWAY",
		PaymentCurrency:  "VND",
	})
	if err != nil {
		return fmt.Errorf("failed to seed ticket change: %w", err)
	}
	fmt.Printf("  seeded 1 ticket change (new PNR %s)\n", newTicket.PNR)

	return nil
}
