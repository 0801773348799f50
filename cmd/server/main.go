// Command main is the entry point for the social network API server.
//
//go:generate swag init -g main.go -d ./,../../internal/server,../../internal/models,../../internal/service -o ../../docs
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/minhhai1907/social-network-BE/internal/cache"
	"github.com/minhhai1907/social-network-BE/internal/config"
	"github.com/minhhai1907/social-network-BE/internal/database"
	"github.com/minhhai1907/social-network-BE/internal/middleware"
	"github.com/minhhai1907/social-network-BE/internal/observability"
	"github.com/minhhai1907/social-network-BE/internal/server"

	"github.com/joho/godotenv"
)

// @title Social Network API
// @version 1.0
// @description Users, friendships, posts, comments and reactions with denormalized counters.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
func main() {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	middleware.ConfigureLogger(cfg.Env, cfg.LogLevel)
	cache.SetUserTTL(time.Duration(cfg.UserCacheTTLSeconds) * time.Second)

	shutdownTracing, err := observability.InitTracing(observability.TracingConfig{
		Environment:  cfg.Env,
		Enabled:      cfg.TracingEnabled,
		Exporter:     cfg.TracingExporter,
		OTLPEndpoint: cfg.OTLPEndpoint,
		SamplerRatio: 1,
	})
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}

	cache.InitRedis(cfg.RedisURL)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	srv := server.NewServer(cfg, db, cache.GetClient())
	srv.EnableMetrics()
	app := srv.NewApp()

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := app.ShutdownWithContext(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server resource shutdown error: %v", err)
		}
		if err := shutdownTracing(ctx); err != nil {
			log.Printf("Tracing shutdown error: %v", err)
		}
	}()

	log.Printf("Server starting on port %s...", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
