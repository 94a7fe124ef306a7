package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/smartcalendar/backend/internal/ai"
	"github.com/smartcalendar/backend/internal/api"
	"github.com/smartcalendar/backend/internal/config"
	"github.com/smartcalendar/backend/internal/database"
	"github.com/smartcalendar/backend/internal/notify"
	"github.com/smartcalendar/backend/internal/repository"
	"github.com/smartcalendar/backend/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Validate required config
	if cfg.DatabaseURI == "" {
		log.Fatal("DATABASE_URI is required")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to database
	db, err := database.New(ctx, cfg.DatabaseURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to database")

	// Run migrations
	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	// Create repositories
	userRepo := repository.NewUserRepository(db)
	eventRepo := repository.NewEventRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	statsRepo := repository.NewStatisticsRepository(db)

	// Initialize notification gateways (optional)
	var email notify.EmailSender = notify.LogEmailSender{}
	if cfg.SMTPAddr != "" {
		email = notify.NewSMTPSender(cfg.SMTPAddr, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom)
		log.Printf("SMTP sender initialized (%s)", cfg.SMTPAddr)
	} else {
		log.Println("SMTP not configured, email notifications disabled")
	}

	var push notify.PushSender = notify.LogPushSender{}
	if cfg.FCMProjectID != "" && cfg.FCMCredentialsPath != "" {
		fcm, err := notify.NewFCMSender(ctx, cfg.FCMProjectID, cfg.FCMCredentialsPath)
		if err != nil {
			log.Fatalf("Failed to create FCM sender: %v", err)
		}
		push = fcm
		log.Printf("FCM sender initialized (project: %s)", cfg.FCMProjectID)
	} else {
		log.Println("FCM not configured, push notifications disabled")
	}

	notifier := notify.New(email, push, userRepo)

	// Initialize AI client (optional)
	var aiClient *ai.Client
	if cfg.AIAPIKey != "" {
		aiClient = ai.New(cfg.AIAPIKey, cfg.AIBaseURL, cfg.AIModel)
		log.Printf("AI client initialized (model: %s)", cfg.AIModel)
	} else {
		log.Println("AI client not configured, assistant features disabled")
	}

	// Create services
	router := api.NewRouter(api.Services{
		Users:      service.NewUserService(userRepo),
		Events:     service.NewEventService(eventRepo, userRepo, notifier),
		Tasks:      service.NewTaskService(taskRepo),
		Statistics: service.NewStatisticsService(statsRepo),
		Assistant:  aiClient,
		JWTSecret:  []byte(cfg.JWTSecret),
	})

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: router,
	}

	// Handle graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
		cancel()
	}()

	log.Printf("Starting server on %s...", cfg.ListenAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server error: %v", err)
	}
}
