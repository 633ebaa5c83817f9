package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/mentorhub/mentorhub-api/internal/civiltime"
	"github.com/mentorhub/mentorhub-api/internal/http/handlers"
	"github.com/mentorhub/mentorhub-api/internal/mailer"
	"github.com/mentorhub/mentorhub-api/internal/repository"
	"github.com/mentorhub/mentorhub-api/internal/schedule"
	"github.com/mentorhub/mentorhub-api/internal/service"
	"github.com/mentorhub/mentorhub-api/pkg/config"
	"github.com/mentorhub/mentorhub-api/pkg/database"
	"github.com/mentorhub/mentorhub-api/pkg/events"
	"github.com/mentorhub/mentorhub-api/pkg/logger"
	mw "github.com/mentorhub/mentorhub-api/pkg/middleware"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	offset, err := civiltime.ParseOffset(cfg.Schedule.CivilOffset)
	if err != nil {
		logger.Error("Invalid SCHEDULE_CIVIL_OFFSET", "error", err)
		os.Exit(1)
	}

	// Connect to database
	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.Database.URL, database.Options{
		MaxConns:    cfg.Database.MaxConns,
		MinConns:    cfg.Database.MinConns,
		MaxLifetime: cfg.Database.MaxLifetime,
	})
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Connect to redis (issuance rate limiting)
	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		logger.Error("Invalid REDIS_URL", "error", err)
		os.Exit(1)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	// Connect to event bus
	eventBus, err := events.NewNATSEventBus(cfg.NATS.URL)
	if err != nil {
		logger.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer eventBus.Close()

	// Initialize repositories
	mentorRepo := repository.NewMentorRepository(pool)
	identityRepo := repository.NewIdentityRepository(pool)
	challengeRepo := repository.NewChallengeRepository(pool)
	rateLimitRepo := repository.NewRedisRateLimit(redisClient)

	// Background purge of challenges that expired and were never verified
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go service.RunChallengeSweeper(sweepCtx, challengeRepo, time.Hour)

	// Initialize mailer
	var sender mailer.CodeSender
	if cfg.Email.DevMode {
		sender = mailer.NewDevMailer()
	} else {
		sender = mailer.NewMailerSend(cfg.Email.MailerSendKey, cfg.Email.FromName, cfg.Email.FromEmail)
	}

	// Initialize services
	builder := schedule.NewBuilder(offset)
	formatter := schedule.NewFormatter(offset)
	availabilityService := service.NewAvailabilityService(mentorRepo, builder, eventBus)
	otpService := service.NewOTPService(identityRepo, challengeRepo, rateLimitRepo, sender, eventBus, cfg)

	// Initialize handlers
	h := handlers.New(availabilityService, otpService, formatter, cfg)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("api"))
	r.Use(mw.Logging)
	r.Use(mw.Health)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Routes
	r.Route("/auth", func(r chi.Router) {
		r.Post("/request-code", h.RequestCode)
		r.Post("/verify-code", h.VerifyCode)
	})

	r.Route("/mentors", func(r chi.Router) {
		r.Get("/{id}", h.GetMentor)
		r.Get("/{id}/availability", h.GetAvailability)

		r.Group(func(r chi.Router) {
			r.Use(h.RequireSession("mentor"))
			r.Put("/{id}/availability", h.ReplaceAvailability)
		})
	})

	// Start server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down API...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("API shutdown error", "error", err)
		}
	}()

	logger.Info("Starting API", "port", cfg.Server.Port, "civil_offset", offset.String())
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("API server error", "error", err)
		os.Exit(1)
	}
}
