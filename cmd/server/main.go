package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/pvestal/vacavibes/internal/auth"
	"github.com/pvestal/vacavibes/internal/config"
	"github.com/pvestal/vacavibes/internal/db"
	"github.com/pvestal/vacavibes/internal/email"
	"github.com/pvestal/vacavibes/internal/jobs"
	"github.com/pvestal/vacavibes/internal/metrics"
	"github.com/pvestal/vacavibes/internal/server"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()
	if yamlCfg, err := config.LoadYAMLConfig(); err != nil {
		log.Fatalf("Failed to load config file: %v", err)
	} else if yamlCfg != nil {
		yamlCfg.Apply(cfg)
	}

	// Initialize database
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")

	if cfg.SeedDevData && cfg.IsDev() {
		if err := database.SeedDevAccounts(ctx); err != nil {
			log.Printf("Warning: failed to seed dev accounts: %v", err)
		}
	}

	// Email and auth event plumbing
	emailService := email.NewService(cfg)
	notifier := email.NewNotifier(emailService)

	// Metrics
	metrics.Init(database)

	events := auth.NewEvents()
	defer events.Close()

	// Feed login/logout events into the metrics counters.
	authEvents, unsubscribe := events.Subscribe()
	defer unsubscribe()
	go func() {
		for ev := range authEvents {
			log.Printf("Auth event: %s account=%s", ev.Kind, ev.AccountID)
			metrics.RecordAuthEvent(ev.Kind)
		}
	}()

	// Background reminder job
	reminder := jobs.NewStaleRequestReminder(database, notifier, cfg.ReminderInterval, cfg.ReminderMaxAge)
	go reminder.Start(ctx)

	// HTTP server
	srv := server.New(cfg)
	if err := srv.RegisterRoutes(ctx, database, notifier, events); err != nil {
		log.Fatalf("Failed to register routes: %v", err)
	}

	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()
	log.Printf("Server started on %s", cfg.ServerAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	cancel()
	if err := srv.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
