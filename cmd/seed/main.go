package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"eventhub/internal/config"
	"eventhub/internal/db"
	"eventhub/internal/model"
	"eventhub/internal/repository"
)

const defaultSeedFile = "seed.json"

// SeedUser represents a demo user in the seed fixture.
type SeedUser struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Organizer bool   `json:"organizer"`
}

// SeedEvent represents a demo event in the seed fixture. Owner refers to a
// seed user by username.
type SeedEvent struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	MaxCapacity int       `json:"max_capacity"`
	EventType   string    `json:"event_type"`
	Owner       string    `json:"owner"`
}

// SeedData is the top-level fixture layout.
type SeedData struct {
	Users  []SeedUser  `json:"users"`
	Events []SeedEvent `json:"events"`
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Event{}, &model.Registration{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	seedFile := defaultSeedFile
	if v := os.Getenv("SEED_FILE"); v != "" {
		seedFile = v
	}

	data, err := loadSeedData(seedFile)
	if err != nil {
		log.Fatalf("Failed to load seed data: %v", err)
	}
	log.Printf("Loaded %d users and %d events from %s", len(data.Users), len(data.Events), seedFile)

	userRepo := repository.NewUserRepository(gormDB)
	eventRepo := repository.NewEventRepository(gormDB)
	ctx := context.Background()

	owners, created, err := seedUsers(ctx, userRepo, cfg.BcryptCost, data.Users)
	if err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}
	log.Printf("Users seeded: %d new, %d already present", created, len(data.Users)-created)

	eventsCreated, skipped, err := seedEvents(ctx, eventRepo, cfg, owners, data.Events)
	if err != nil {
		log.Fatalf("Failed to seed events: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - New events created: %d", eventsCreated)
	log.Printf("  - Events skipped: %d", skipped)
}

// loadSeedData reads and parses the JSON fixture.
func loadSeedData(path string) (*SeedData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var data SeedData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &data, nil
}

// seedUsers creates fixture users that do not exist yet and returns a
// username -> id map for event ownership.
func seedUsers(ctx context.Context, repo repository.UserRepository, bcryptCost int, users []SeedUser) (map[string]uint, int, error) {
	owners := make(map[string]uint, len(users))
	created := 0

	for _, item := range users {
		existing, err := repo.FindByUsername(ctx, item.Username)
		if err != nil && err != gorm.ErrRecordNotFound {
			return owners, created, fmt.Errorf("check user %s: %w", item.Username, err)
		}
		if existing != nil {
			owners[item.Username] = existing.ID
			continue
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(item.Password), bcryptCost)
		if err != nil {
			return owners, created, fmt.Errorf("hash password for %s: %w", item.Username, err)
		}

		user := &model.User{
			Username:     item.Username,
			Email:        item.Email,
			PasswordHash: string(hashed),
			Organizer:    item.Organizer,
			Active:       true,
		}
		if err := repo.Create(ctx, user); err != nil {
			return owners, created, fmt.Errorf("create user %s: %w", item.Username, err)
		}
		owners[item.Username] = user.ID
		created++
	}

	return owners, created, nil
}

// seedEvents creates fixture events, skipping entries with an unknown owner
// or event type.
func seedEvents(ctx context.Context, repo repository.EventRepository, cfg *config.Config, owners map[string]uint, events []SeedEvent) (created int, skipped int, err error) {
	for _, item := range events {
		ownerID, ok := owners[item.Owner]
		if !ok {
			log.Printf("Skipping event %q: unknown owner %q", item.Title, item.Owner)
			skipped++
			continue
		}

		eventType := model.EventType(item.EventType)
		if !eventType.Valid() {
			log.Printf("Skipping event %q: invalid event type %q", item.Title, item.EventType)
			skipped++
			continue
		}

		image := cfg.VirtualImageURL
		if eventType == model.EventTypeOnsite {
			image = cfg.OnsiteImageURL
		}

		event := &model.Event{
			Title:       item.Title,
			Description: item.Description,
			Date:        item.Date,
			Image:       image,
			MaxCapacity: item.MaxCapacity,
			EventType:   eventType,
			OwnerID:     ownerID,
		}
		if err := repo.Create(ctx, event); err != nil {
			return created, skipped, fmt.Errorf("create event %q: %w", item.Title, err)
		}
		created++
	}

	return created, skipped, nil
}
