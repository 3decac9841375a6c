package bootstrap

import (
	"strings"

	"social_server/adapter/in/http"
	"social_server/config"
	"social_server/infra/middleware"
	"social_server/pkg/logger"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// NewAPI builds the fiber application with all routes and middleware wired.
func NewAPI(cfg *config.Config) (*fiber.App, func(), error) {
	logLevel := logger.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = logger.LevelDebug
	}
	logger.Init(logger.Config{
		Level:   logLevel,
		Service: "social-api",
	})

	deps, cleanup, err := NewDependencies(cfg)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize dependencies")
		return nil, nil, err
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          middleware.ErrorHandler(),
		DisableStartupMessage: cfg.IsProduction(),
		StrictRouting:         false,
		CaseSensitive:         false,

		ReadBufferSize:  16384,
		WriteBufferSize: 16384,

		// go-json is noticeably faster than encoding/json for the small
		// documents this API serves.
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,

		BodyLimit: 1 * 1024 * 1024, // 1MB; bodies are small JSON documents

		ServerHeader:       "",
		DisableDefaultDate: true,
	})

	// Global middleware stack (order matters)
	app.Use(middleware.Recover())
	app.Use(middleware.RequestID())
	app.Use(middleware.RequestLogger())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins:  strings.Join(cfg.AllowedOrigins, ","),
		AllowMethods:  "GET,POST,OPTIONS",
		AllowHeaders:  "Origin,Content-Type,Accept,X-Request-ID",
		ExposeHeaders: "X-Request-ID",
	}))

	// Health check (exempt from rate limiting: registered first)
	healthHandler := http.NewHealthHandler(deps.MongoDB, deps.Redis)
	healthHandler.Register(app)

	// Per-IP rate limiting for everything below
	limiter := middleware.NewSlidingWindowLimiter(deps.Redis, cfg.RateLimitRPS, cfg.RateLimitBurst)
	app.Use(limiter.Handler())

	userHandler := http.NewUserHandler(deps.ContentService, deps.SocialService, deps.FeedService)
	userHandler.Register(app)

	postHandler := http.NewPostHandler(deps.ContentService, deps.SocialService)
	postHandler.Register(app)

	adminHandler := http.NewAdminHandler(deps.UserRepo, deps.PostRepo)
	adminHandler.Register(app)

	logger.Info("API server initialized successfully")

	return app, cleanup, nil
}
