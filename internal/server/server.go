// Package server contains the HTTP handlers of the social graph API.
package server

import (
	"context"
	"time"

	_ "github.com/minhhai1907/social-network-BE/docs"
	"github.com/minhhai1907/social-network-BE/internal/config"
	"github.com/minhhai1907/social-network-BE/internal/database"
	"github.com/minhhai1907/social-network-BE/internal/middleware"
	"github.com/minhhai1907/social-network-BE/internal/models"
	"github.com/minhhai1907/social-network-BE/internal/observability"
	"github.com/minhhai1907/social-network-BE/internal/repository"
	"github.com/minhhai1907/social-network-BE/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	promMiddleware *fiberprometheus.FiberPrometheus

	userService     *service.UserService
	friendService   *service.FriendService
	friendLists     *service.FriendListService
	postService     *service.PostService
	commentService  *service.CommentService
	reactionService *service.ReactionService
}

// NewServer wires repositories and services over already-initialized
// dependencies. redisClient may be nil.
func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	userRepo := repository.NewUserRepository(db)
	friendRepo := repository.NewFriendRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	reactionRepo := repository.NewReactionRepository(db)
	aggregates := service.NewAggregateService(repository.NewAggregateRepository(db))

	return &Server{
		config:          cfg,
		db:              db,
		redis:           redisClient,
		userService:     service.NewUserService(userRepo, friendRepo, cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour),
		friendService:   service.NewFriendService(friendRepo, userRepo, aggregates),
		friendLists:     service.NewFriendListService(friendRepo, userRepo),
		postService:     service.NewPostService(postRepo),
		commentService:  service.NewCommentService(commentRepo, postRepo, reactionRepo, aggregates),
		reactionService: service.NewReactionService(reactionRepo, postRepo, commentRepo, aggregates),
	}
}

// EnableMetrics registers the Prometheus HTTP collectors. It registers into the
// global registry and must be called at most once per process.
func (s *Server) EnableMetrics() {
	s.promMiddleware = middleware.InitMetrics(observability.ServiceName)
}

// NewApp builds a Fiber app with middleware and routes installed.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   "Social Network API",
		BodyLimit: 1 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fe, ok := err.(*fiber.Error); ok && fe.Code == fiber.StatusNotFound {
				return models.RespondWithError(c, "Route Error", models.NewNotFoundError("Route", c.Path()))
			}
			middleware.Logger.ErrorContext(c.UserContext(), "Unhandled request error", "error", err)
			return models.RespondWithError(c, "Server Error", models.NewInternalError(err))
		},
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:3000,http://localhost:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: origins != "*",
		MaxAge:           86400,
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")
	api.Get("/swagger/*", swagger.HandlerDefault)

	auth := api.Group("/auth")
	auth.Post("/register", s.Register)
	auth.Post("/login", s.Login)

	// Public reads
	api.Get("/posts", s.GetPosts)
	api.Get("/posts/:id/comments", s.GetComments)
	api.Get("/posts/:id", s.GetPost)

	protected := api.Group("", middleware.AuthRequired(s.config.JWTSecret))

	users := protected.Group("/users")
	users.Get("/me", s.GetMyProfile)
	users.Put("/me", s.UpdateMyProfile)
	users.Get("/", s.GetAllUsers)
	users.Get("/:id", s.GetUserProfile)

	// Specific /requests and /status routes before generic /:id
	friends := protected.Group("/friends")
	friends.Get("/", s.GetFriends)
	friends.Post("/requests", s.SendFriendRequest)
	friends.Get("/requests/incoming", s.GetIncomingRequests)
	friends.Get("/requests/outgoing", s.GetOutgoingRequests)
	friends.Put("/requests/:id", s.ReactFriendRequest)
	friends.Delete("/requests/:id", s.CancelFriendRequest)
	friends.Get("/status/:id", s.GetFriendshipStatus)
	friends.Delete("/:id", s.RemoveFriend)

	posts := protected.Group("/posts")
	posts.Post("/", s.CreatePost)
	posts.Put("/:id", s.UpdatePost)
	posts.Delete("/:id", s.DeletePost)

	comments := protected.Group("/comments")
	comments.Post("/", s.CreateComment)
	comments.Put("/:id", s.UpdateComment)
	comments.Delete("/:id", s.DeleteComment)

	protected.Post("/reactions", s.CreateReaction)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests. Redis is optional: the
// cache fails open, so an absent client does not make the service unready.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overall := "healthy"
	if dbStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	} else if redisStatus == "unhealthy" {
		overall = "degraded"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Shutdown closes the database pool and the Redis client.
func (s *Server) Shutdown(_ context.Context) error {
	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("Error closing database", "error", cerr)
		}
	}
	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("Error closing redis", "error", rerr)
		}
	}
	middleware.Logger.Info("Server shutdown complete")
	return nil
}
