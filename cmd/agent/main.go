package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/learncrew/learncrew-agent/config"
	"github.com/learncrew/learncrew-agent/internal/api"
	"github.com/learncrew/learncrew-agent/internal/cache"
	"github.com/learncrew/learncrew-agent/internal/chat"
	"github.com/learncrew/learncrew-agent/internal/handlers"
	"github.com/learncrew/learncrew-agent/internal/inbox"
	"github.com/learncrew/learncrew-agent/internal/middleware"
	"github.com/learncrew/learncrew-agent/internal/notify"
	"github.com/learncrew/learncrew-agent/internal/poller"
	"github.com/learncrew/learncrew-agent/internal/session"
	"github.com/learncrew/learncrew-agent/internal/storage"
	"github.com/learncrew/learncrew-agent/pkg/httpclient"
	"github.com/learncrew/learncrew-agent/pkg/logger"
	"github.com/learncrew/learncrew-agent/pkg/metrics"
	"github.com/learncrew/learncrew-agent/pkg/profiling"
	"github.com/learncrew/learncrew-agent/pkg/tracing"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// registerRoutes wires the versioned API surface
func registerRoutes(
	v1 *gin.RouterGroup,
	generalRateLimiter, authRateLimiter, uploadRateLimiter *middleware.RateLimiter,
	authHandler *handlers.AuthHandler,
	inboxHandler *handlers.InboxHandler,
	requestsHandler *handlers.RequestsHandler,
	chatHandler *handlers.ChatHandler,
	usersHandler *handlers.UsersHandler,
	resourcesHandler *handlers.ResourcesHandler,
	badgesHandler *handlers.BadgesHandler,
	notificationsHandler *handlers.NotificationsHandler,
) {
	// Session lifecycle
	auth := v1.Group("/auth")
	auth.POST("/login", authRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(64*1024), authHandler.Login)
	auth.POST("/register", authRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(64*1024), authHandler.Register)
	auth.POST("/logout", generalRateLimiter.Middleware(), authHandler.Logout)
	auth.GET("/session", generalRateLimiter.Middleware(), authHandler.Session)

	// Received items
	v1.GET("/inbox", generalRateLimiter.Middleware(), inboxHandler.List)
	v1.POST("/inbox/:id/respond", generalRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(64*1024), inboxHandler.Respond)
	v1.POST("/inbox/:id/read", generalRateLimiter.Middleware(), inboxHandler.MarkRead)

	// Outgoing requests and the pitch board
	requests := v1.Group("/requests", generalRateLimiter.Middleware())
	requests.POST("", middleware.BodySizeLimitMiddleware(256*1024), requestsHandler.Create)
	requests.GET("/sent", requestsHandler.ListSent)
	requests.GET("/pitches", requestsHandler.ListPitches)
	requests.POST("/pitches/:id/claim", requestsHandler.ClaimPitch)
	requests.DELETE("/:id", requestsHandler.Cancel)
	requests.PUT("/:id/end", requestsHandler.End)
	requests.GET("/connection/:userId", requestsHandler.CheckConnection)

	// Chat
	chatGroup := v1.Group("/chat", generalRateLimiter.Middleware())
	chatGroup.GET("/conversations", chatHandler.Conversations)
	chatGroup.POST("/conversations/:userId/select", chatHandler.Select)
	chatGroup.DELETE("/conversations/select", chatHandler.Deselect)
	chatGroup.GET("/messages", chatHandler.Messages)
	chatGroup.POST("/messages", middleware.BodySizeLimitMiddleware(64*1024), chatHandler.Send)
	chatGroup.GET("/users/search", chatHandler.SearchUsers)

	// User directory and own profile
	users := v1.Group("/users", generalRateLimiter.Middleware())
	users.GET("", usersHandler.List)
	users.GET("/:id", usersHandler.Get)
	users.GET("/username/:username", usersHandler.GetByUsername)
	users.PUT("/me", middleware.BodySizeLimitMiddleware(256*1024), usersHandler.UpdateProfile)
	users.POST("/me/topup", middleware.BodySizeLimitMiddleware(64*1024), usersHandler.TopUp)

	// Resource hub
	threads := v1.Group("/resources/threads", generalRateLimiter.Middleware())
	threads.GET("", resourcesHandler.ListThreads)
	threads.POST("", uploadRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(25*1024*1024), resourcesHandler.CreateThread)
	threads.GET("/:id", resourcesHandler.GetThread)
	threads.PUT("/:id", middleware.BodySizeLimitMiddleware(256*1024), resourcesHandler.UpdateThread)
	threads.DELETE("/:id", resourcesHandler.DeleteThread)
	threads.POST("/:id/posts", uploadRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(25*1024*1024), resourcesHandler.AddPost)
	threads.POST("/:id/upvote", resourcesHandler.ToggleUpvote)
	threads.POST("/:id/guide-vote", resourcesHandler.ToggleGuideVote)
	threads.POST("/:id/moderators", middleware.BodySizeLimitMiddleware(64*1024), resourcesHandler.AddModerator)
	threads.DELETE("/:id/moderators/:userId", resourcesHandler.RemoveModerator)
	threads.POST("/:id/instructions/ack", resourcesHandler.AcknowledgeInstructions)
	threads.PUT("/:id/instructions", middleware.BodySizeLimitMiddleware(256*1024), resourcesHandler.UpdateInstructions)
	threads.POST("/:id/purchase", resourcesHandler.Purchase)
	threads.PUT("/:id/price", middleware.BodySizeLimitMiddleware(64*1024), resourcesHandler.UpdatePrice)

	// Badge counts and queued notifications
	v1.GET("/badges", generalRateLimiter.Middleware(), badgesHandler.Get)
	v1.GET("/notifications", generalRateLimiter.Middleware(), notificationsHandler.Drain)
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting LearnCrew agent",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
		zap.String("upstream", cfg.Upstream.BaseURL),
	)

	// Initialize distributed tracing
	tracerShutdown, err := tracing.InitTracer(
		cfg.Observability.ServiceName,
		cfg.Observability.ServiceNamespace,
		cfg.Observability.ServiceVersion,
		cfg.Observability.ServiceInstanceID,
		cfg.Server.AppEnv,
		cfg.Observability.ExporterEndpoint,
	)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	// Start infrastructure metrics collection
	metrics.RecordInfrastructureMetrics()

	// Continuous profiling
	profilerStop, err := profiling.InitProfiler(
		cfg.Profiling,
		cfg.Observability.ServiceName,
		cfg.Observability.ServiceNamespace,
		cfg.Observability.ServiceVersion,
		cfg.Observability.ServiceInstanceID,
		cfg.Server.AppEnv,
	)
	if err != nil {
		logger.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	defer profilerStop()

	// Upstream API client
	httpClient := httpclient.NewStandardClientWithTimeout(time.Duration(cfg.Upstream.TimeoutSeconds) * time.Second)
	apiClient := api.NewClient(cfg.Upstream.BaseURL, httpClient)

	// Durable session state plus the cross-process change watcher
	sessionFile, err := storage.NewSessionFile(cfg.Storage.StateDir)
	if err != nil {
		logger.Fatal("Failed to prepare state directory", zap.Error(err))
	}

	watcher, err := storage.NewWatcher(sessionFile)
	if err != nil {
		logger.Fatal("Failed to watch session file", zap.Error(err))
	}
	defer watcher.Close()

	// Transient notification queue drained by the UI
	center := notify.NewCenter()

	// Session store hydrates synchronously, so readiness below is immediate
	store := session.NewStore(apiClient, sessionFile, watcher, center)
	defer store.Close()

	// Background badge polling, tied to the session lifecycle
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	badges := poller.NewBadges(store, apiClient, cfg.Polling.BadgeInterval)
	go badges.Run(rootCtx)

	// Screen-level services
	searchCache := cache.NewUserSearchCache(time.Duration(cfg.Search.CacheTTLSeconds) * time.Second)
	inboxService := inbox.NewService(apiClient, store, center)
	chatService := chat.NewService(rootCtx, apiClient, store, center, searchCache, cfg.Polling.ChatInterval, cfg.Search.MinQueryLength)

	// Handlers
	authHandler := handlers.NewAuthHandler(store)
	inboxHandler := handlers.NewInboxHandler(inboxService)
	requestsHandler := handlers.NewRequestsHandler(apiClient, store)
	chatHandler := handlers.NewChatHandler(chatService)
	usersHandler := handlers.NewUsersHandler(apiClient, store)
	resourcesHandler := handlers.NewResourcesHandler(apiClient, store)
	badgesHandler := handlers.NewBadgesHandler(badges)
	notificationsHandler := handlers.NewNotificationsHandler(center)
	healthHandler := handlers.NewHealthHandler(func() bool { return !store.Loading() })

	// Set up Gin router
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName))
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// CORS: the facade is consumed by the local UI only
	allowedOrigins := cfg.Server.AllowedOrigins
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:3000", "http://127.0.0.1:3000")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "traceparent", "tracestate"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Rate limiters per endpoint class
	generalRateLimiter := middleware.NewRateLimiter(100, 200) // 100 req/sec, burst of 200
	authRateLimiter := middleware.NewRateLimiter(1, 5)        // 1 req/sec, burst of 5 (login abuse prevention)
	uploadRateLimiter := middleware.NewRateLimiter(2, 5)      // 2 req/sec, burst of 5 (file uploads)
	defer generalRateLimiter.Stop()
	defer authRateLimiter.Stop()
	defer uploadRateLimiter.Stop()

	// Operational endpoints (not versioned)
	apiGroup := router.Group("/api")
	apiGroup.GET("/healthcheck", generalRateLimiter.Middleware(), healthHandler.Healthcheck)
	apiGroup.GET("/metrics", generalRateLimiter.Middleware(), gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	// API v1 routes
	v1 := router.Group("/api/v1")
	registerRoutes(v1, generalRateLimiter, authRateLimiter, uploadRateLimiter,
		authHandler, inboxHandler, requestsHandler, chatHandler,
		usersHandler, resourcesHandler, badgesHandler, notificationsHandler)

	// Create HTTP server
	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Agent started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down agent...")

	rootCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Agent exited")
}
