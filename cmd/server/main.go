package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/diewo77/quotes/auth"
	"github.com/diewo77/quotes/internal/config"
	"github.com/diewo77/quotes/internal/db"
	"github.com/diewo77/quotes/internal/messaging"
	"github.com/diewo77/quotes/internal/server"
	pdfgen "github.com/diewo77/quotes/pdf"
)

var (
	migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")
	seedOnlyFlag    = flag.Bool("seed-only", false, "Run DB seed and exit")
)

func main() {
	flag.Parse()

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg := config.Load()
	if *seedOnlyFlag {
		cfg.Database.Seed = true
	}

	dbConn, err := db.ConnectAndMigrate(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to prepare database: %v", err)
	}
	if *migrateOnlyFlag || *seedOnlyFlag {
		log.Println("Database ready")
		return
	}

	themes, err := config.LoadThemes(cfg.Render.ThemeFile)
	if err != nil {
		log.Fatalf("Failed to load themes: %v", err)
	}

	deps := server.Deps{
		DB:     dbConn,
		Gate:   auth.NewGate(cfg.APIToken),
		Render: cfg.Render,
		Themes: themes,
		Images: pdfgen.FileImageLoader{Root: cfg.Render.AssetDir},
	}
	if cfg.Messaging.Enabled() {
		deps.Messenger = messaging.NewClient(messaging.Config{
			BaseURL:       cfg.Messaging.BaseURL,
			Instance:      cfg.Messaging.Instance,
			APIKey:        cfg.Messaging.APIKey,
			RatePerSecond: cfg.Messaging.RatePerSecond,
		})
	} else {
		log.Println("Messaging gateway not configured, sending disabled")
	}
	if deps.Gate.Open() {
		log.Println("API_TOKEN not set, confirm and send are unauthenticated")
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      server.New(deps),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	if sqlDB, err := dbConn.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Println("Server stopped gracefully")
}
