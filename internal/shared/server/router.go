package server

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ansshguptaaaa/AI-Resume-Pro/internal/analyses"
	"github.com/ansshguptaaaa/AI-Resume-Pro/internal/cache"
	"github.com/ansshguptaaaa/AI-Resume-Pro/internal/llm"
	"github.com/ansshguptaaaa/AI-Resume-Pro/internal/llm/gemini"
	"github.com/ansshguptaaaa/AI-Resume-Pro/internal/llm/groq"
	"github.com/ansshguptaaaa/AI-Resume-Pro/internal/shared/config"
	"github.com/ansshguptaaaa/AI-Resume-Pro/internal/shared/metrics"
	"github.com/ansshguptaaaa/AI-Resume-Pro/internal/shared/server/middleware"
	"github.com/ansshguptaaaa/AI-Resume-Pro/internal/shared/server/respond"
	"github.com/ansshguptaaaa/AI-Resume-Pro/internal/shared/storage/db"
	"github.com/ansshguptaaaa/AI-Resume-Pro/internal/users"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.Auth(),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				"ANALYZE": {Rate: 0.5, Burst: 5},
			},
			GroupFor: func(c *gin.Context) string {
				if c.Request.Method == http.MethodPost && c.Request.URL.Path == "/analyze" {
					return "ANALYZE"
				}
				return ""
			},
		}),
	)

	// Dependencies
	var sqlDB *sql.DB
	if cfg.DatabaseURL != "" {
		dbConn, err := db.Connect(context.Background(), cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			log.Printf("failed to connect database, falling back to memory: %v", err)
		} else {
			if err := db.RunMigrations(context.Background(), dbConn); err != nil {
				log.Printf("failed to run migrations, falling back to memory: %v", err)
				dbConn = nil
			}
		}
		sqlDB = dbConn
	}

	var userRepo users.Repo
	var analysisRepo analyses.Repo
	if sqlDB != nil {
		userRepo = &users.PGRepo{DB: sqlDB}
		analysisRepo = &analyses.PGRepo{DB: sqlDB}
	} else {
		userRepo = users.NewMemoryRepo()
		analysisRepo = analyses.NewMemoryRepo()
	}

	var resultCache cache.ResultCache
	if cfg.ValkeyAddr != "" {
		vk, err := cache.NewValkey(context.Background(), cfg.ValkeyAddr, cfg.ValkeyPassword)
		if err != nil {
			log.Printf("failed to connect valkey, falling back to memory cache: %v", err)
			resultCache = cache.NewMemory()
		} else {
			resultCache = vk
		}
	} else {
		resultCache = cache.NewMemory()
	}

	var llmClient llm.Client = llm.PlaceholderClient{}
	switch cfg.LLMProvider {
	case "gemini":
		client, err := gemini.NewClient(context.Background(), cfg.GeminiAPIKey, cfg.LLMModel)
		if err != nil {
			log.Printf("gemini client unavailable: %v", err)
		} else {
			llmClient = client
		}
	default:
		client, err := groq.NewClient(cfg.GroqAPIKey, cfg.LLMModel, cfg.LLMTimeout)
		if err != nil {
			log.Printf("groq client unavailable: %v", err)
		} else {
			llmClient = client
		}
	}

	userSvc := users.NewService(userRepo)
	userHandler := users.NewHandler(userSvc)
	analysisSvc := &analyses.Service{
		Repo:         analysisRepo,
		Cache:        resultCache,
		LLM:          llmClient,
		CacheTTL:     cfg.CacheTTL,
		InferTimeout: cfg.LLMTimeout,
	}
	analysisHandler := analyses.NewHandler(analysisSvc)

	root := r.Group("/")
	root.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	root.GET("/metrics", metrics.Handler())
	userHandler.RegisterRoutes(root)
	analysisHandler.RegisterRoutes(root)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
