package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"seatgrid/internal/floorplan"
	"seatgrid/internal/promos"
	"seatgrid/internal/seats"
	"seatgrid/internal/shared/config"
	"seatgrid/internal/shared/database"

	"github.com/google/uuid"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting SeatGrid Database Seeder...")

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	// Clean database
	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	// Seed data
	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in reverse dependency order
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"allocation_seats",
		"allocations",
		"seat_hold_seats",
		"seat_holds",
		"seat_inventory",
		"promo_codes",
	}

	for _, table := range tables {
		if err := s.db.GetPostgreSQL().Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			return fmt.Errorf("failed to truncate %s: %w", table, err)
		}
	}
	return nil
}

// SeedAll seeds demo floor plans and promo codes
func (s *Seeder) SeedAll() error {
	if err := s.seedFloorPlans(); err != nil {
		return err
	}
	return s.seedPromoCodes()
}

func (s *Seeder) seedFloorPlans() error {
	ctx := context.Background()
	cfg := config.Load()
	repo := seats.NewRepository(s.db.GetPostgreSQL())
	service := seats.NewService(repo, cfg, nil)

	plans := []struct {
		name     string
		template floorplan.Template
	}{
		{
			name: "theater",
			template: floorplan.Template{
				Kind: floorplan.KindTheater,
				Theater: &floorplan.TheaterTemplate{
					Section:    "Main Hall",
					Rows:       12,
					Cols:       20,
					AisleEvery: 7,
					BasePrice:  500,
					SeatClass:  "STANDARD",
					RowBands: []floorplan.RowBand{
						{StartRow: 0, EndRow: intPtr(2), BasePrice: int64Ptr(1200), SeatClass: "PREMIUM"},
					},
				},
			},
		},
		{
			name: "stadium",
			template: floorplan.Template{
				Kind: floorplan.KindStadium,
				Stadium: &floorplan.StadiumTemplate{
					CenterX: 500,
					CenterY: 500,
					Rings: []floorplan.Ring{
						{Name: "Courtside", Radius: 100, Sectors: 4, SeatsPerSector: 10, BasePrice: 3000, SeatClass: "VIP"},
						{Name: "Lower Bowl", Radius: 200, Sectors: 8, SeatsPerSector: 25, BasePrice: 1200, SeatClass: "PREMIUM"},
						{Name: "Upper Bowl", Radius: 320, Sectors: 12, SeatsPerSector: 30, BasePrice: 400, SeatClass: "STANDARD"},
					},
				},
			},
		},
		{
			name: "banquet",
			template: floorplan.Template{
				Kind: floorplan.KindBanquet,
				Banquet: &floorplan.BanquetTemplate{
					Section: "Ballroom",
					Tables: []floorplan.Table{
						{X: 100, Y: 100, Seats: 8, Radius: 40, BasePrice: 900, SeatClass: "PREMIUM"},
						{X: 250, Y: 100, Seats: 8, Radius: 40, BasePrice: 900, SeatClass: "PREMIUM"},
						{X: 100, Y: 250, Seats: 10, Radius: 50, BasePrice: 600, SeatClass: "STANDARD"},
						{X: 250, Y: 250, Seats: 10, Radius: 50, BasePrice: 600, SeatClass: "STANDARD"},
					},
				},
			},
		},
	}

	for _, plan := range plans {
		eventID := uuid.New()
		result, err := service.GenerateFloorPlan(ctx, eventID.String(), seats.GenerateRequest{Template: plan.template})
		if err != nil {
			return fmt.Errorf("failed to seed %s floor plan: %w", plan.name, err)
		}
		fmt.Printf("  • %s event %s: %d seats\n", plan.name, eventID, result.SeatsCreated)
	}
	return nil
}

func (s *Seeder) seedPromoCodes() error {
	ctx := context.Background()
	repo := promos.NewRepository(s.db.GetPostgreSQL())
	now := time.Now()

	cap100 := 100
	codes := []promos.PromoCode{
		{
			Code:           "WELCOME10",
			DiscountType:   "PERCENT",
			DiscountValue:  10,
			MinOrderAmount: 0,
			StartsAt:       now.Add(-24 * time.Hour),
			EndsAt:         now.Add(90 * 24 * time.Hour),
			IsActive:       true,
		},
		{
			Code:           "FLAT200",
			DiscountType:   "FIXED",
			DiscountValue:  200,
			MinOrderAmount: 1000,
			StartsAt:       now.Add(-24 * time.Hour),
			EndsAt:         now.Add(30 * 24 * time.Hour),
			UsageCap:       &cap100,
			IsActive:       true,
		},
		{
			Code:           "EXPIRED5",
			DiscountType:   "PERCENT",
			DiscountValue:  5,
			MinOrderAmount: 0,
			StartsAt:       now.Add(-60 * 24 * time.Hour),
			EndsAt:         now.Add(-30 * 24 * time.Hour),
			IsActive:       true,
		},
	}

	for i := range codes {
		if err := repo.Create(ctx, &codes[i]); err != nil {
			return fmt.Errorf("failed to seed promo %s: %w", codes[i].Code, err)
		}
		fmt.Printf("  • promo %s\n", codes[i].Code)
	}
	return nil
}

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }
