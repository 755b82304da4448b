package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"foodgram/database"
	"foodgram/internal/cache"
	"foodgram/internal/config"
	"foodgram/internal/events"
	"foodgram/internal/http-api/repository"
	"foodgram/internal/http-api/server"
	"foodgram/internal/http-api/service"
	"foodgram/internal/logging"
	"foodgram/internal/storage"
)

func main() {
	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logging.Fatal().Err(err).Msg("Invalid configuration")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	// Connect to the database
	db, err := database.Connect(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		logging.Fatal().Err(err).Msg("Failed to migrate database")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := newStore(ctx, cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialise media storage")
	}

	// Optional infrastructure: Redis deny-list and NATS events
	var tokenCache service.TokenCache
	if cfg.RedisURL != "" {
		tc, err := cache.NewTokenCache(cfg.RedisURL, cfg.RedisPassword)
		if err != nil {
			logging.Warn().Err(err).Msg("Redis unavailable, token revocation falls back to the database")
		} else {
			defer tc.Close()
			tokenCache = tc
		}
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.NATSURL != "" {
		p, err := events.Connect(cfg.NATSURL, cfg.NATSSubject)
		if err != nil {
			logging.Warn().Err(err).Msg("NATS unavailable, recipe events are disabled")
		} else {
			publisher = p
		}
	}
	defer publisher.Close()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	tagRepo := repository.NewTagRepository(db)
	ingredientRepo := repository.NewIngredientRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	cartRepo := repository.NewShoppingCartRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)

	// Services
	maxUpload := int64(cfg.UploadMaxBytes)
	recipeService := service.NewRecipeService(service.RecipeDeps{
		Recipes:        recipeRepo,
		Tags:           tagRepo,
		Ingredients:    ingredientRepo,
		Favorites:      favoriteRepo,
		Carts:          cartRepo,
		Store:          store,
		Publisher:      publisher,
		MaxUploadBytes: maxUpload,
	})
	services := server.Services{
		Auth:          service.NewAuthService(userRepo, tokenRepo, tokenCache, cfg),
		Users:         service.NewUserService(userRepo, store, maxUpload),
		Subscriptions: service.NewSubscriptionService(subRepo, userRepo, recipeRepo),
		Tags:          service.NewTagService(tagRepo),
		Ingredients:   service.NewIngredientService(ingredientRepo),
		Recipes:       recipeService,
		Admin: service.NewAdminService(service.AdminDeps{
			Recipes:       recipeRepo,
			Editor:        recipeService,
			Favorites:     favoriteRepo,
			Carts:         cartRepo,
			Subscriptions: subRepo,
		}),
	}

	router, err := server.NewRouter(cfg, services, store)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to build router")
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info().Str("addr", srv.Addr).Msg("Foodgram API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	<-ctx.Done()
	logging.Info().Msg("Shutdown signal received, draining connections")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("Graceful shutdown failed")
	}
	logging.Info().Msg("Server stopped")
}

func newStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	if cfg.StorageBackend == "s3" {
		s3Store, err := storage.NewS3Store(ctx, storage.S3Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		})
		if err != nil {
			return nil, err
		}
		logging.Info().Str("bucket", cfg.S3Bucket).Msg("Using S3 media storage")
		return s3Store, nil
	}

	localStore, err := storage.NewLocalStore(cfg.MediaRoot, cfg.MediaURL)
	if err != nil {
		return nil, err
	}
	logging.Info().Str("root", cfg.MediaRoot).Msg("Using local media storage")
	return localStore, nil
}
