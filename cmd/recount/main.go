// Command main recomputes every stored counter from the underlying records.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/minhhai1907/social-network-BE/internal/cache"
	"github.com/minhhai1907/social-network-BE/internal/config"
	"github.com/minhhai1907/social-network-BE/internal/database"
	"github.com/minhhai1907/social-network-BE/internal/middleware"
	"github.com/minhhai1907/social-network-BE/internal/repository"
	"github.com/minhhai1907/social-network-BE/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	middleware.ConfigureLogger(cfg.Env, cfg.LogLevel)

	// Counters rewritten by the sweep evict the profiles and posts the server caches.
	cache.InitRedis(cfg.RedisURL)
	defer func() { _ = cache.Close() }()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	aggregates := service.NewAggregateService(repository.NewAggregateRepository(db))
	summary, err := aggregates.RecountAll(ctx)
	log.Printf("Recount visited %d users, %d posts, %d comments (%d failed batches)",
		summary.Users, summary.Posts, summary.Comments, summary.FailedBatches)
	if err != nil {
		log.Fatalf("Recount stopped: %v", err)
	}
}
