package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"toklen/internal/database"
	"toklen/internal/domain"
	"toklen/internal/pkg/jwt"
	"toklen/internal/pkg/logger"
	"toklen/internal/repository"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Lima city centre; seeded rows are scattered within a few km of it.
const (
	centerLat = -12.0464
	centerLng = -77.0428
)

var categories = []string{"plumbing", "electrical", "cleaning", "carpentry", "painting"}

func main() {
	_ = godotenv.Load()
	logger.Init("toklen-seed", "dev", "info")

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "toklen.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("db connection failed")
	}
	defer database.Close(db)

	log.Info().Msg("running AutoMigrate")
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("AutoMigrate failed")
	}

	// children first so foreign keys hold
	log.Info().Msg("cleaning old data")
	for _, table := range []string{"notifications", "services", "professionals", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			log.Fatal().Err(err).Str("table", table).Msg("cleanup failed")
		}
	}

	ctx := context.Background()
	store := repository.NewStore(db)
	var seeded []*domain.User

	// ================== USERS ==================
	admin := mustUser(ctx, store, "seed-admin", "admin@toklen.pe", "Administrador", domain.RoleAdmin)
	seeded = append(seeded, admin)

	var clients []*domain.User
	for i := 1; i <= 3; i++ {
		u := mustUser(ctx, store, fmt.Sprintf("seed-client-%d", i), fmt.Sprintf("client%d@toklen.pe", i), fmt.Sprintf("Cliente %d", i), domain.RoleClient)
		clients = append(clients, u)
		seeded = append(seeded, u)
	}

	// ================== PROFESSIONALS ==================
	for i, category := range categories {
		u := mustUser(ctx, store, fmt.Sprintf("seed-pro-%d", i+1), fmt.Sprintf("pro%d@toklen.pe", i+1), fmt.Sprintf("Profesional %d", i+1), domain.RoleProfessional)
		seeded = append(seeded, u)

		lat, lng := scatter(5)
		p := &domain.Professional{
			UserID:          u.ID,
			BusinessName:    fmt.Sprintf("%s Express %d", category, i+1),
			Category:        category,
			ExperienceYears: 1 + rand.IntN(15),
			HourlyRate:      float64(30 + rand.IntN(70)),
			ServiceRadiusKm: 10,
			Latitude:        lat,
			Longitude:       lng,
			City:            "Lima",
			IsAvailable:     true,
			IsVerified:      i%2 == 0,
		}
		if err := store.Professionals.Create(ctx, p); err != nil {
			log.Fatal().Err(err).Msg("create professional")
		}
	}
	log.Info().Int("count", len(categories)).Msg("professionals created")

	// ================== SERVICES ==================
	count := 0
	for _, c := range clients {
		for j := 0; j < 3; j++ {
			category := categories[rand.IntN(len(categories))]
			lat, lng := scatter(8)
			price := float64(50 + rand.IntN(250))
			s := &domain.Service{
				ClientID:         c.ID,
				Title:            fmt.Sprintf("Need %s help #%d", category, j+1),
				Description:      fmt.Sprintf("Looking for someone to do %s work this week", category),
				Category:         category,
				ServiceAddress:   "Lima, Peru",
				ServiceLatitude:  lat,
				ServiceLongitude: lng,
				EstimatedPrice:   &price,
				RequestedDate:    time.Now().Add(time.Duration(1+rand.IntN(7)) * 24 * time.Hour),
				Status:           domain.ServicePending,
				ModerationStatus: domain.ModerationApproved,
			}
			if err := store.Services.Create(ctx, s); err != nil {
				log.Fatal().Err(err).Msg("create service")
			}
			count++
		}
	}
	log.Info().Int("count", count).Msg("services created")

	printDevTokens(seeded)
	log.Info().Msg("seed completed")
}

func mustUser(ctx context.Context, store *repository.Store, uid, email, name string, role domain.Role) *domain.User {
	u := &domain.User{
		FirebaseUID: uid,
		Email:       email,
		DisplayName: name,
		UserType:    role,
		IsActive:    true,
	}
	if err := store.Users.Create(ctx, u); err != nil {
		log.Fatal().Err(err).Str("email", email).Msg("create user")
	}
	return u
}

// scatter returns a point roughly within km of the centre.
func scatter(km float64) (float64, float64) {
	deg := km / 111.0
	return centerLat + (rand.Float64()*2-1)*deg, centerLng + (rand.Float64()*2-1)*deg
}

// printDevTokens logs a bearer token per seeded user for AUTH_MODE=dev.
func printDevTokens(users []*domain.User) {
	secret := os.Getenv("DEV_JWT_SECRET")
	if secret == "" {
		return
	}
	tokens := jwt.New(secret, 7*24*time.Hour)
	for _, u := range users {
		tok, err := tokens.GenerateToken(u.FirebaseUID, u.Email, true)
		if err != nil {
			log.Error().Err(err).Str("email", u.Email).Msg("generate token")
			continue
		}
		log.Info().Str("email", u.Email).Str("role", u.UserType.String()).Str("token", tok).Msg("dev token")
	}
}
