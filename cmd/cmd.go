package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cpatestos/bloomrn-app-esrvct/internal/config"
	"github.com/cpatestos/bloomrn-app-esrvct/internal/handlers"
	"github.com/cpatestos/bloomrn-app-esrvct/internal/localstore"
	"github.com/cpatestos/bloomrn-app-esrvct/internal/middleware"
	"github.com/cpatestos/bloomrn-app-esrvct/internal/repository"
	"github.com/cpatestos/bloomrn-app-esrvct/internal/services"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Run starts the bridge daemon: local store always, remote mirroring and
// media only when the backend is configured.
func Run() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogger(cfg.Log.Level)

	local, err := localstore.Open(cfg.Local.StorePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open local store")
	}
	defer local.Close()
	log.Info().Str("path", local.Path()).Msg("Local store opened")

	// The remote side is optional: with no database configured the daemon
	// serves the local path only and every record stays on-device.
	var remotes services.Remotes
	var mediaService *services.MediaService
	if cfg.Database.Enabled() {
		db, err := pgxpool.New(context.Background(), cfg.Database.DSN())
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to remote database")
		}
		defer db.Close()

		if err := db.Ping(context.Background()); err != nil {
			// Unreachable at startup is fine; reads fall back to local
			// until the backend comes back.
			log.Warn().Err(err).Msg("Remote database unreachable, continuing with local fallback")
		} else {
			log.Info().Msg("Remote database connection established")
		}

		remotes = services.Remotes{
			Profiles:   repository.NewProfileRepository(db),
			CheckIns:   repository.NewCheckInRepository(db),
			Journal:    repository.NewJournalRepository(db),
			Activities: repository.NewActivityRepository(db),
			TimeBlocks: repository.NewTimeBlockRepository(db),
			Shifts:     repository.NewShiftRepository(db),
			Barriers:   repository.NewBarrierRepository(db),
			Challenges: repository.NewChallengeRepository(db),
		}

		if cfg.Storage.Region != "" {
			blobs, err := services.NewS3BlobStore(context.Background(),
				cfg.Storage.Region, cfg.Storage.AccessKey, cfg.Storage.SecretKey, cfg.Storage.Endpoint)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to create blob store")
			}
			mediaService = services.NewMediaService(blobs,
				repository.NewMediaRepository(db), cfg.Storage.AudioBucket, cfg.Storage.VideoBucket)
		}
	} else {
		log.Info().Msg("No remote database configured, running local-only")
	}

	verifier := services.NewSessionVerifier(cfg.Auth.JWTSecret)
	hub := services.NewHub()
	syncService := services.NewSyncService(local, remotes, hub)

	profileHandler := handlers.NewProfileHandler(syncService)
	checkInHandler := handlers.NewCheckInHandler(syncService)
	journalHandler := handlers.NewJournalHandler(syncService)
	activityHandler := handlers.NewActivityHandler(syncService)
	plannerHandler := handlers.NewPlannerHandler(syncService)
	shiftHandler := handlers.NewShiftHandler(syncService)
	reflectionHandler := handlers.NewReflectionHandler(syncService)
	wsHandler := handlers.NewWebSocketHandler(hub, verifier)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.OptionalAuth(verifier))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/profile", profileHandler.GetProfile)
		r.Put("/profile", profileHandler.SaveProfile)
		r.Delete("/profile", profileHandler.ResetProfile)

		r.Get("/checkins", checkInHandler.GetCheckIns)
		r.Get("/checkins/today", checkInHandler.GetTodayCheckIn)
		r.Post("/checkins", checkInHandler.SaveCheckIn)

		r.Get("/journal", journalHandler.GetEntries)
		r.Post("/journal", journalHandler.SaveEntry)

		r.Get("/activities", activityHandler.GetActivities)
		r.Put("/activities/{activity_id}/favorite", activityHandler.ToggleFavorite)

		r.Get("/timeblocks", plannerHandler.GetTimeBlocks)
		r.Put("/timeblocks/{day}", plannerHandler.SaveDay)

		r.Get("/shifts", shiftHandler.GetShifts)
		r.Post("/shifts", shiftHandler.SaveShift)

		r.Get("/barriers", reflectionHandler.GetBarriers)
		r.Post("/barriers", reflectionHandler.SaveBarrier)
		r.Get("/challenges", reflectionHandler.GetChallenges)
		r.Post("/challenges", reflectionHandler.SaveChallenge)

		if mediaService != nil {
			mediaHandler := handlers.NewMediaHandler(mediaService)
			r.Get("/media", mediaHandler.GetRecordings)
			r.Post("/media", mediaHandler.Upload)
			r.Get("/media/{recording_id}/url", mediaHandler.GetSignedURL)
			r.Delete("/media/{recording_id}", mediaHandler.Delete)
		}
	})

	r.Get("/ws", wsHandler.HandleWebSocket)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting bridge")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Bridge failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down bridge...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Bridge forced to shutdown")
	}

	log.Info().Msg("Bridge exited")
}

// setupLogger configures zerolog.
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
