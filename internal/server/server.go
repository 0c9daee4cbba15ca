// Package server contains the HTTP handlers and route wiring for the API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"pawtopia/internal/auth"
	"pawtopia/internal/cache"
	"pawtopia/internal/config"
	"pawtopia/internal/database"
	"pawtopia/internal/middleware"
	"pawtopia/internal/models"
	"pawtopia/internal/repository"
	"pawtopia/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers.
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	tokens         *auth.Tokens
	userRepo       repository.UserRepository
	listingRepo    repository.ListingRepository
	imageRepo      repository.ImageRepository
	listingService *service.ListingService
	userService    *service.UserService
	imageService   *service.ImageService
}

// NewServer creates a new server instance with all dependencies.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	userRepo := repository.NewUserRepository(db)
	listingRepo := repository.NewListingRepository(db)
	imageRepo := repository.NewImageRepository(db)

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("pawtopia-api"),
		tokens:         auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL()),
		userRepo:       userRepo,
		listingRepo:    listingRepo,
		imageRepo:      imageRepo,
	}
	server.listingService = service.NewListingService(listingRepo)
	server.userService = service.NewUserService(userRepo, listingRepo)
	server.imageService = service.NewImageService(imageRepo, cfg.UploadDir)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"message": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application.
func (s *Server) SetupRoutes(app *fiber.App) {
	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Auth routes
	authGroup := app.Group("/auth")
	authGroup.Post("/register", middleware.RateLimit(
		s.redis, s.config.Env, 3, 10*time.Minute, "register"), s.Register)
	authGroup.Post("/login", middleware.RateLimit(
		s.redis, s.config.Env, 10, 5*time.Minute, "login"), s.Login)
	authGroup.Get("/user", s.AuthRequired(), s.GetMe)
	authGroup.Get("/profile", s.AuthRequired(), s.GetMe)
	authGroup.Put("/profile", s.AuthRequired(), s.UpdateProfile)

	// Listing routes. Specific paths go before the generic /:id route.
	listings := app.Group("/listing")
	listings.Get("/", s.AuthOptional(), s.GetListings)
	listings.Get("/search", middleware.RateLimit(
		s.redis, s.config.Env, 10, time.Minute, "search"), s.AuthOptional(), s.SearchListings)
	listings.Get("/user", s.AuthRequired(), s.GetMyListings)
	listings.Post("/", s.AuthRequired(), s.CreateListing)
	listings.Put("/:id/approve", s.AdminRequired(), s.ApproveListing)
	listings.Put("/:id/reject", s.AdminRequired(), s.RejectListing)
	listings.Get("/:id", s.AuthOptional(), s.GetListing)
	listings.Put("/:id", s.ListingOwnerRequired(), s.UpdateListing)
	listings.Delete("/:id", s.ListingOwnerRequired(), s.DeleteListing)

	// User routes: favorites are self-service, the rest is admin CRUD.
	users := app.Group("/user")
	users.Get("/favorites/all", s.AuthRequired(), s.GetFavorites)
	users.Post("/favorites/:listingId", s.AuthRequired(), s.ToggleFavorite)
	users.Get("/", s.AdminRequired(), s.GetUsers)
	users.Post("/", s.AdminRequired(), s.CreateUser)
	users.Get("/:id", s.AdminRequired(), s.GetUser)
	users.Put("/:id", s.AdminRequired(), s.UpdateUser)

	// Image routes
	images := app.Group("/image")
	images.Post("/upload", s.AuthRequired(), s.UploadImage)
	images.Get("/", s.GetImages)
	images.Get("/:id", s.GetImage)
	images.Delete("/:id", s.AuthRequired(), s.DeleteImage)
}

// LivenessCheck handles liveness probe requests.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests. The database is required;
// Redis is reported but optional.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "unavailable"
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

// newApp builds the Fiber app with the shared error handler. Framework
// errors (unmatched route, body limit) keep their own status; everything
// else is an internal error.
func (s *Server) newApp() *fiber.App {
	return fiber.New(fiber.Config{
		AppName:   "Pawtopia API",
		BodyLimit: 10 * 1024 * 1024, // 10MB upload limit
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				return c.Status(fiberErr.Code).JSON(models.ErrorResponse{
					Message: fiberErr.Message,
				})
			}
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, models.NewInternalError(err))
		},
	})
}

// Start starts the server.
func (s *Server) Start() error {
	app := s.newApp()
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
