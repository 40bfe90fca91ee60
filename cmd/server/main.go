package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"localevents/internal/config"
	"localevents/internal/handler"
	"localevents/internal/logger"
	"localevents/internal/repository"
	"localevents/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer log.Sync()

	log.Info("localevents search engine starting",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit),
	)

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Initialize database connection
	repo, err := repository.NewPostgresRepository(
		cfg.GetPostgreSQLDSN(),
		cfg.PostgreSQL.MaxConnections,
		cfg.PostgreSQL.MaxIdleConnections,
	)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer repo.Close()

	log.Info("connected to PostgreSQL database")

	// Initialize the chat client for assisted parsing and composing
	var chatClient *service.OpenAIClient
	if cfg.OpenAI.Enabled {
		chatClient = service.NewOpenAIClient(&cfg.OpenAI)
		log.Info("chat client initialized",
			zap.String("api_base", cfg.OpenAI.APIBase),
			zap.String("model", cfg.OpenAI.ChatModel),
			zap.Int("timeout_s", cfg.OpenAI.Timeout),
		)
	} else {
		log.Warn("chat API disabled, searches will use rule-based parsing only; set OPENAI_API_KEY to enable")
	}

	// Initialize services
	var assisted service.QueryParser
	if chatClient != nil {
		assisted = service.NewAssistedParser(chatClient, time.Duration(cfg.OpenAI.Timeout)*time.Second, log)
	}

	var composerClient service.ChatClient
	if chatClient != nil {
		composerClient = chatClient
	}

	orchestrator := service.NewSearchOrchestrator(
		assisted,
		service.NewRuleBasedParser(),
		service.NewFilterEngine(nil),
		service.NewResponseComposer(composerClient, cfg.Search.AssistedCompose, log),
		repo,
		repo,
		cfg.Search.EventLimit,
		cfg.Search.ListingLimit,
		log,
	)

	log.Info("services initialized")

	// Initialize handlers
	searchHandler := handler.NewSearchHandler(orchestrator)

	// Setup Gin router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.AllowedOrigins}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":     "healthy",
			"service":    "localevents-search-engine",
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// API routes
	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/search", searchHandler.Search)
		apiV1.GET("/taxonomy", searchHandler.Taxonomy)
	}

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("starting server", zap.String("addr", addr))

	go func() {
		if err := router.Run(addr); err != nil {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
}
