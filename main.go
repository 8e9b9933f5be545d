package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/resumify/backend/analysis"
	"github.com/resumify/backend/auth"
	"github.com/resumify/backend/cache"
	"github.com/resumify/backend/config"
	_ "github.com/resumify/backend/docs"
	"github.com/resumify/backend/gemini"
	"github.com/resumify/backend/handlers"
	"github.com/resumify/backend/labels"
	"github.com/resumify/backend/logger"
	"github.com/resumify/backend/mcp"
	"github.com/resumify/backend/models"
	"github.com/resumify/backend/render"
	"github.com/resumify/backend/storage"
	"github.com/resumify/backend/tools"
	"github.com/resumify/backend/utils"
	"github.com/resumify/backend/wizard"
)

// @title Resumify API
// @version 1.0
// @description Resume builder backend with guided drafts, translation, analysis and PDF export.

// @contact.name API Support
// @contact.email support@resumify.app

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	var (
		envFile string
		port    string
		debug   bool
	)
	pflag.StringVarP(&envFile, "env-file", "e", ".env", "Path to an env file loaded before reading configuration")
	pflag.StringVarP(&port, "port", "p", "", "Port to listen on (overrides PORT)")
	pflag.BoolVar(&debug, "debug", false, "Enable debug mode (overrides DEBUG)")
	pflag.Parse()

	// Load .env file if present (for local development)
	envErr := godotenv.Load(envFile)

	cfg := config.Load()
	if port != "" {
		cfg.Port = port
	}
	if pflag.CommandLine.Changed("debug") {
		cfg.Debug = debug
	}

	logger.Init(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if envErr != nil {
		logger.Info().Str("file", envFile).Msg("no env file found, using environment variables")
	}

	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("configuration error")
	}

	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Storage
	var store storage.Store
	if cfg.StorageBackend == config.StorageFirestore {
		logger.Info().Str("project", cfg.ProjectID).Msg("initializing Firestore client")
		firestoreClient, err := storage.NewFirestoreClient(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize Firestore client")
		}
		defer firestoreClient.Close()
		store = firestoreClient
	} else {
		logger.Warn().Msg("using in-memory storage; data is lost on restart")
		store = storage.NewMemoryStore()
	}

	var photos storage.PhotoStore
	if cfg.PhotoBucketName != "" {
		storageClient, err := storage.NewCloudStorageClient(ctx, cfg.PhotoBucketName)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize Cloud Storage client")
		}
		defer storageClient.Close()
		photos = storageClient
	} else {
		photos = storage.NewMemoryPhotoStore()
	}

	// Label cache and revoked tokens
	var shared cache.Cache
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedisCache(cfg.RedisURL, "resumify:")
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		shared = redisCache
	} else {
		shared = cache.NewMemoryCache()
	}
	defer shared.Close()

	// Auth
	sessions := auth.NewSessionManager(auth.NewJWTService(cfg, shared))
	googleAuth := auth.NewGoogleAuthService(cfg)

	// Vertex AI. Interfaces stay nil when disabled so callers see a true nil.
	var (
		labelTranslator  labels.Translator
		resumeTranslator handlers.ResumeTranslator
		toolTranslator   tools.ResumeTranslator
		analysisModel    analysis.Model
	)
	if cfg.AIEnabled() {
		geminiClient, err := gemini.NewClient(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to create Gemini client")
		}
		defer geminiClient.Close()
		labelTranslator = geminiClient
		resumeTranslator = geminiClient
		toolTranslator = geminiClient
		analysisModel = geminiClient
	} else {
		logger.Warn().Msg("PROJECT_ID not set; label translation disabled and analysis uses the heuristic score")
	}

	labelTTL := time.Duration(cfg.LabelCacheTTLMinutes) * time.Minute
	provider := labels.NewProvider(labelTranslator, shared, labelTTL)
	analyzer := analysis.NewAnalyzer(analysisModel)

	// Drafts reach the label service over HTTP, as any other frontend would
	httpClient := utils.NewHTTPClient(time.Duration(cfg.HTTPTimeoutSeconds) * time.Second)
	aiClient, err := labels.NewClient(cfg.AIServiceURL, httpClient)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create label service client")
	}

	drafts := wizard.NewRegistry(aiClient, aiClient, store, time.Duration(cfg.DraftTTLMinutes)*time.Minute)
	go drafts.Run(ctx, time.Minute)

	sessions.Observe(func(uid, sessionID string, user *models.User) {
		if user != nil {
			logger.Info().Str("uid", uid).Msg("user signed in")
			return
		}
		dropped := drafts.DropSession(uid, sessionID)
		logger.Info().Str("uid", uid).Int("drafts", dropped).Msg("user signed out")
	})

	pdf := render.NewChromeRenderer(cfg.ChromePath)

	// MCP server with tool registry
	toolRegistry := tools.NewToolRegistry()
	toolRegistry.Register(tools.NewAnalyzeResumeTool(analyzer))
	toolRegistry.Register(tools.NewGetLabelsTool(provider))
	toolRegistry.Register(tools.NewTranslateResumeTool(toolTranslator))
	toolRegistry.Register(tools.NewRenderResumeTool())

	router := &handlers.Router{
		Sessions:    sessions,
		Auth:        handlers.NewAuthHandler(store, sessions, googleAuth),
		Profile:     handlers.NewProfileHandler(store, store, photos),
		Resumes:     handlers.NewResumeHandler(store, pdf),
		Drafts:      handlers.NewDraftHandler(drafts, store),
		Contact:     handlers.NewContactHandler(store),
		AI:          handlers.NewAIHandler(provider, resumeTranslator, analyzer),
		MCP:         mcp.NewServer(toolRegistry, handlers.Version),
		CORSOrigins: cfg.CORSOrigins,
		Swagger:     true,
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router.Engine(),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	stop()

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server exited gracefully")
}
