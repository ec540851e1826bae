package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/debatearchive/backend/config"
	"github.com/debatearchive/backend/internal/auth"
	"github.com/debatearchive/backend/internal/cache"
	"github.com/debatearchive/backend/internal/database"
	"github.com/debatearchive/backend/internal/handlers"
	"github.com/debatearchive/backend/internal/middleware"
	"github.com/debatearchive/backend/internal/ratelimit"
	"github.com/debatearchive/backend/internal/repository"
	"github.com/debatearchive/backend/internal/websocket"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := database.NewPostgresDB(cfg.GetDSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations
	log.Println("Running database migrations...")
	if err := database.RunMigrations(db.DB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")

	// Connect to Redis
	redis, err := cache.NewRedisClient(cfg.GetRedisAddr(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v", err)
		log.Println("Running without Redis - live feed and shared burst limiting disabled")
		redis = nil
	} else {
		defer redis.Close()
	}

	// Session verification against the external identity provider
	sessions := auth.NewSessionService(cfg.Identity.JWTSecret, cfg.Identity.Issuer)

	// Initialize repositories
	entryRepo := repository.NewEntryRepository(db)
	voteRepo := repository.NewVoteRepository(db)
	verifierRepo := repository.NewVerifierRepository(db)
	rateLimitRepo := repository.NewRateLimitRepository(db)
	revisionRepo := repository.NewRevisionRepository(db)

	// Capability check: allow-list lookup, cached through Redis when present
	var verifierCache auth.VerifierCache
	if redis != nil {
		verifierCache = redis
	}
	capability := auth.NewAllowlistChecker(verifierRepo, verifierCache)

	// Two-axis window limiter over the rate_limits table
	limiter := ratelimit.New(rateLimitRepo)
	submitLimits := ratelimit.Limits{
		PerUser:       cfg.Limits.SubmitPerUser,
		PerIP:         cfg.Limits.SubmitPerIP,
		WindowMinutes: cfg.Limits.SubmitWindowMin,
	}
	voteLimits := ratelimit.Limits{
		PerUser:       cfg.Limits.VotePerUser,
		PerIP:         cfg.Limits.VotePerIP,
		WindowMinutes: cfg.Limits.VoteWindowMin,
	}

	// Initialize handlers
	entryHandler := handlers.NewEntryHandler(entryRepo, voteRepo, revisionRepo, limiter, submitLimits, redis)
	voteHandler := handlers.NewVoteHandler(voteRepo, limiter, voteLimits, redis)
	verifierHandler := handlers.NewVerifierHandler(verifierRepo, capability, redis)

	// Initialize live feed hub (only if Redis is available)
	var wsHandler *websocket.Handler
	if redis != nil {
		hub := websocket.NewHub(redis)
		go hub.Run()
		wsHandler = websocket.NewHandler(hub, sessions, cfg.CORS.AllowedOrigins)
	}

	// Burst limiter in front of the window limiter
	burstLimiter := middleware.NewBurstLimiter(cfg.Limits.BurstPerSec, redis)
	burstLimiter.Cleanup()

	// Setup Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// Middleware
	router.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigins))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Public routes
	router.GET("/entries", entryHandler.List)

	// Live feed endpoint (only if Redis is available)
	if wsHandler != nil {
		router.GET("/ws", wsHandler.HandleWebSocket)
	}

	// Authenticated routes
	authed := router.Group("/")
	authed.Use(middleware.AuthMiddleware(sessions))
	{
		authed.POST("/entries", middleware.BurstLimitMiddleware(burstLimiter), entryHandler.Submit)
		authed.POST("/votes", middleware.BurstLimitMiddleware(burstLimiter), voteHandler.Cast)
		authed.DELETE("/votes", voteHandler.Rescind)
		authed.GET("/verifiers", verifierHandler.Status)

		if wsHandler != nil {
			authed.GET("/ws/stats", wsHandler.GetStats)
		}

		// Moderation routes
		mod := authed.Group("/")
		mod.Use(middleware.RequireVerifier(capability))
		{
			mod.PATCH("/entries/:id", entryHandler.Update)
			mod.DELETE("/entries/:id", entryHandler.Delete)
			mod.GET("/entries/:id/revisions", entryHandler.Revisions)
			mod.POST("/verifiers", verifierHandler.Add)
			mod.DELETE("/verifiers", verifierHandler.Remove)
		}
	}

	// Start server
	addr := ":" + cfg.Server.Port
	log.Printf("Starting archive server on %s (env: %s)", addr, cfg.Server.Env)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
