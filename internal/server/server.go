// Package server contains the HTTP handlers and route wiring of the API.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "sonic/docs" // swagger docs
	"sonic/internal/auth"
	"sonic/internal/bootstrap"
	"sonic/internal/config"
	"sonic/internal/featureflags"
	"sonic/internal/middleware"
	"sonic/internal/repository"
	"sonic/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
)

const bodyLimit = 1 * 1024 * 1024

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	store          *repository.Store
	redis          *redis.Client
	tokens         *auth.TokenIssuer
	flags          *featureflags.Manager
	promMiddleware *fiberprometheus.FiberPrometheus

	authService     *service.AuthService
	postService     *service.PostService
	likeService     *service.LikeService
	campaignService *service.CampaignService
	commentService  *service.CommentService
	userService     *service.UserService
}

// NewServer connects the configured store and Redis and builds a Server on top of them.
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	store, redisClient, err := bootstrap.InitRuntime(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewServerWithDeps(cfg, store, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil; rate limits then fail open and readiness reports Redis unavailable.
func NewServerWithDeps(cfg *config.Config, store *repository.Store, redisClient *redis.Client) (*Server, error) {
	tokens, err := auth.NewTokenIssuer(cfg)
	if err != nil {
		return nil, fmt.Errorf("token issuer: %w", err)
	}

	middleware.SetRateLimitEnabled(cfg.RateLimitEnabled)

	return &Server{
		config:         cfg,
		store:          store,
		redis:          redisClient,
		tokens:         tokens,
		flags:          featureflags.NewManager(cfg.FeatureFlags),
		promMiddleware: middleware.InitMetrics("sonic-api"),

		authService:     service.NewAuthService(store.Users, auth.NewPBKDF2Hasher(), tokens),
		postService:     service.NewPostService(store.Posts, store.Likes, store.Participations),
		likeService:     service.NewLikeService(store.Likes, store.Posts),
		campaignService: service.NewCampaignService(store.Posts, store.Participations),
		commentService:  service.NewCommentService(store.Comments, store.Posts, store.Users),
		userService:     service.NewUserService(store.Users),
	}, nil
}

// NewApp builds the Fiber app with the problem-details error handler, middleware and routes.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Sonic API",
		BodyLimit:    bodyLimit,
		ErrorHandler: s.errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	// Context Middleware to propagate Request ID and trace id
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	if s.config.SentryDSN != "" {
		app.Use(sentryfiber.New(sentryfiber.Options{
			Repanic:         true,
			WaitForDelivery: false,
			Timeout:         2 * time.Second,
		}))
	}

	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected requests still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: !strings.Contains(origins, "*"),
		MaxAge:           86400,
	}))

	if s.config.RateLimitEnabled {
		// Global per-IP ceiling; the Redis limits below are per route.
		app.Use(limiter.New(limiter.Config{
			Max:        300,
			Expiration: time.Minute,
			Next: func(c *fiber.Ctx) bool {
				return c.Method() == fiber.MethodOptions
			},
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return errTooManyRequests
			},
		}))
	}
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health", s.LivenessCheck)
	app.Get("/db-health", s.DBHealthCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	if s.flags.Enabled(featureflags.MetricsDashboard) {
		app.Get("/metrics/dashboard", monitor.New(monitor.Config{
			Title: "Sonic API Metrics Dashboard",
		}))
	}
	if s.flags.Enabled(featureflags.Swagger) {
		app.Get("/swagger/*", swagger.HandlerDefault)
	}

	requireAuth := middleware.AuthRequired(s.tokens)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", middleware.RateLimit(s.redis, 5, 10*time.Minute, "register"), s.Register)
	authGroup.Post("/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)

	posts := app.Group("/posts")
	posts.Get("/", s.GetFeed)
	posts.Post("/", requireAuth, middleware.RateLimit(s.redis, 10, time.Minute, "create_post"), s.CreatePost)
	// Specific /:postId/<resource> routes before the generic /:id routes
	posts.Post("/:postId/like", requireAuth, s.ToggleLike)
	posts.Get("/:postId/like", requireAuth, s.GetLikeStatus)
	posts.Post("/:postId/comments", requireAuth, middleware.RateLimit(s.redis, 20, time.Minute, "create_comment"), s.AddComment)
	posts.Get("/:postId/comments", s.GetComments)
	posts.Get("/:id", s.GetPost)
	posts.Put("/:id", requireAuth, s.UpdatePost)
	posts.Delete("/:id", requireAuth, s.DeletePost)

	app.Delete("/comments/:id", requireAuth, s.DeleteComment)

	campaigns := app.Group("/campaigns")
	campaigns.Get("/", s.GetCampaigns)
	campaigns.Post("/:postId/join", requireAuth, s.JoinCampaign)
	campaigns.Get("/:postId/join", requireAuth, s.GetJoinStatus)
	campaigns.Get("/:postId/participants", requireAuth, s.GetParticipants)

	users := app.Group("/users")
	users.Get("/me", requireAuth, s.GetMyProfile)
	users.Put("/me", requireAuth, s.UpdateMyProfile)
	users.Get("/:id", s.GetUserProfile)

	admin := app.Group("/admin", requireAuth, middleware.AdminRequired())
	admin.Delete("/posts/:id", s.AdminDeletePost)
	admin.Delete("/comments/:id", s.AdminDeleteComment)
	admin.Post("/posts/:id/feature", s.FeaturePost)
	admin.Post("/posts/:id/unfeature", s.UnfeaturePost)
}

// Shutdown releases the store and Redis connections.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.store != nil {
		if err := s.store.Close(ctx); err != nil {
			middleware.Logger.Error("error closing store", slog.String("error", err.Error()))
		}
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", err.Error()))
		}
	}
	middleware.Logger.Info("Server shutdown complete")
	return nil
}
