// Command main populates the database with demo users, relationships and content.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/minhhai1907/social-network-BE/internal/config"
	"github.com/minhhai1907/social-network-BE/internal/database"
	"github.com/minhhai1907/social-network-BE/internal/middleware"
	"github.com/minhhai1907/social-network-BE/internal/repository"
	"github.com/minhhai1907/social-network-BE/internal/seed"
	"github.com/minhhai1907/social-network-BE/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	defaults := seed.DefaultOptions()
	numUsers := flag.Int("users", defaults.Users, "Number of users to create")
	numPosts := flag.Int("posts", defaults.PostsPerUser, "Posts per user")
	numComments := flag.Int("comments", defaults.CommentsPerPost, "Comments per post")
	ratio := flag.Float64("ratio", defaults.FriendRatio, "Probability that two users have a relationship")
	seedValue := flag.Int64("seed", 0, "Random seed (0 picks one)")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	_ = godotenv.Load()

	log.Println("Database Seeder")
	log.Printf("Target: %d users, %d posts/user, %d comments/post, ratio=%.2f, clean=%v",
		*numUsers, *numPosts, *numComments, *ratio, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	middleware.ConfigureLogger(cfg.Env, cfg.LogLevel)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if *shouldClean {
		if err := seed.ClearAll(db); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	userRepo := repository.NewUserRepository(db)
	friendRepo := repository.NewFriendRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	reactionRepo := repository.NewReactionRepository(db)
	aggregates := service.NewAggregateService(repository.NewAggregateRepository(db))

	svc := seed.Services{
		Users:     service.NewUserService(userRepo, friendRepo, cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour),
		Friends:   service.NewFriendService(friendRepo, userRepo, aggregates),
		Posts:     service.NewPostService(postRepo),
		Comments:  service.NewCommentService(commentRepo, postRepo, reactionRepo, aggregates),
		Reactions: service.NewReactionService(reactionRepo, postRepo, commentRepo, aggregates),
	}

	opts := seed.Options{
		Users:           *numUsers,
		PostsPerUser:    *numPosts,
		CommentsPerPost: *numComments,
		FriendRatio:     *ratio,
		Seed:            *seedValue,
	}
	if _, err := seed.NewSeeder(svc, opts).Run(context.Background()); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("All done! Your database is now populated with test data.")
	log.Printf("All test users have the password: %s", seed.DefaultPassword)
}
