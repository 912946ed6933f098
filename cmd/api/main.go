package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"toklen/internal/config"
	"toklen/internal/database"
	"toklen/internal/identity"
	"toklen/internal/modules/events"
	"toklen/internal/modules/notification"
	"toklen/internal/pkg/jwt"
	"toklen/internal/pkg/logger"
	"toklen/internal/pkg/ratelimit"
	"toklen/internal/pkg/validator"
	"toklen/internal/repository"
	"toklen/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const serviceName = "toklen-api"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	logger.Init(serviceName, cfg.AppEnv, cfg.LogLevel)
	validator.UseJSONNames()
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.ConnectWithPool(cfg.DatabaseURL, database.PoolOptions{
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("database")
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Error().Err(err).Msg("close database")
		}
	}()

	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}
	store := repository.NewStore(db)

	verifier, err := newVerifier(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("identity")
	}

	limiter, redisClient, err := newLimiter(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("rate limiter")
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	cleanupDone := notification.NewCleaner(store.Notifications, cfg.NotificationRetention).Start(ctx, cfg.CleanupInterval)

	hub := events.NewHub()
	defer hub.Close()

	router := server.NewRouter(server.Deps{
		Store:          store,
		Verifier:       verifier,
		Limiter:        limiter,
		Hub:            hub,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	<-cleanupDone
}

func newVerifier(ctx context.Context, cfg *config.Config) (identity.Verifier, error) {
	if cfg.AuthMode == config.AuthModeDev {
		log.Warn().Msg("using dev token verifier")
		return identity.NewDevVerifier(jwt.New(cfg.DevJWTSecret, cfg.DevJWTTTL)), nil
	}
	return identity.NewFirebaseVerifier(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentialsFile)
}

// newLimiter prefers Redis so limits hold across replicas.
func newLimiter(ctx context.Context, cfg *config.Config) (ratelimit.Limiter, *redis.Client, error) {
	if cfg.RedisURL == "" {
		return ratelimit.NewMemory(cfg.RateLimitRPM), nil, nil
	}
	client, err := ratelimit.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	return ratelimit.NewRedis(client, cfg.RateLimitRPM), client, nil
}
