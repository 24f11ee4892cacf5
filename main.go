package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/animeshelf/animeshelf/backend/catalog-service/handlers"
	"github.com/animeshelf/animeshelf/backend/catalog-service/internal/catalog"
	"github.com/animeshelf/animeshelf/backend/catalog-service/internal/config"
	"github.com/animeshelf/animeshelf/backend/catalog-service/internal/database"
	"github.com/animeshelf/animeshelf/backend/catalog-service/internal/oauth"
	"github.com/animeshelf/animeshelf/backend/catalog-service/internal/sessions"
	"github.com/animeshelf/animeshelf/backend/catalog-service/internal/users"
	"github.com/animeshelf/animeshelf/backend/catalog-service/pkg/logger"
	"github.com/animeshelf/animeshelf/backend/catalog-service/pkg/metrics"
	"github.com/animeshelf/animeshelf/backend/catalog-service/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// log level is controlled with LOG_LEVEL env: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: google=%v redis=%v seed=%v",
		cfg.Google.ClientID != "", cfg.Redis.Host != "", cfg.Server.SeedData)

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// Lightweight CORS middleware for dev/test; production should use a
	// stricter policy.
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	})

	ctx := context.Background()

	// Prefer Redis-backed sessions when configured; fall back to in-process
	// sessions so local development works without Redis.
	var sessionsSvc *sessions.Service
	if cfg.Redis.Host != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
		} else {
			sessionsSvc = sessions.NewService(sessions.NewRedisRepository(client, "session:"))
			logger.Infof("using Redis for session storage: %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}
	if sessionsSvc == nil {
		logger.Warnf("using in-memory session storage; sessions are lost on restart")
		sessionsSvc = sessions.NewService(sessions.NewMemoryRepository())
	}

	// Connect to Postgres with retry/backoff to tolerate startup races.
	const maxAttempts = 5
	var db *gorm.DB
	backoff := time.Second
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		db, err = database.ConnectPostgres(ctx, cfg.Postgres.DSN, cfg.Postgres.Timeout)
		if err == nil {
			break
		}
		logger.Warnf("attempt %d/%d: failed to connect to Postgres: %v", attempt, maxAttempts, err)
		if attempt < maxAttempts {
			time.Sleep(backoff)
			backoff *= 2
		}
	}
	if err != nil {
		logger.Fatalf("could not connect to Postgres after %d attempts: %v", maxAttempts, err)
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatalf("database migration failed: %v", err)
	}

	catalogRepo := catalog.NewGormRepository(db)
	catalogSvc := catalog.NewService(catalogRepo)
	userSvc := users.NewService(users.NewGormRepository(db))

	if cfg.Server.SeedData {
		if err := database.Seed(ctx, catalogRepo, userSvc); err != nil {
			logger.Errorf("seeding failed: %v", err)
		}
	}

	var provider oauth.Provider
	if cfg.Google.ClientID != "" {
		p, err := oauth.NewGoogle(ctx, cfg.Google.IssuerURL, cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.Google.RedirectURL)
		if err != nil {
			logger.Warnf("failed to initialize Google OAuth provider: %v", err)
		} else {
			provider = p
		}
	}

	handlers.LoadTemplates(r)
	r.Use(middleware.LoadSession(sessionsSvc))
	handlers.NewCatalogHandler(catalogSvc).Register(r)
	handlers.NewAPIHandler(catalogSvc).Register(r)
	if provider != nil {
		handlers.NewAuthHandler(cfg, provider, userSvc, sessionsSvc).Register(r)
	} else {
		logger.Warnf("auth routes not registered because the OAuth provider is unavailable")
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// readiness returns 200 only when critical dependencies are available
	r.GET("/ready", func(c *gin.Context) {
		ready := true
		deps := map[string]bool{
			"database": true,
			"sessions": sessionsSvc != nil,
			"oauth":    provider != nil || cfg.Google.ClientID == "",
		}
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			deps["database"] = false
		}
		for _, ok := range deps {
			if !ok {
				ready = false
			}
		}
		status := http.StatusOK
		state := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			state = "not_ready"
		}
		c.JSON(status, gin.H{"status": state, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("starting catalog service on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
