package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/bellapacxx/sandbox-backend/config"
	"github.com/bellapacxx/sandbox-backend/routes"
	"github.com/bellapacxx/sandbox-backend/services"
	"github.com/bellapacxx/sandbox-backend/store"
	"github.com/bellapacxx/sandbox-backend/utils/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 15 * time.Second

// openStore picks the backing store for the configured driver
func openStore(cfg *config.Config) (store.Store, error) {
	if cfg.StoreDriver == config.DriverMemory {
		logger.Warn("Using in-memory store, rooms are lost on restart")
		return store.NewMemoryStore(), nil
	}
	db, err := config.SetupDatabase(cfg)
	if err != nil {
		return nil, err
	}
	return store.NewGormStore(db), nil
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}

// setupRouter initializes Gin routes and middleware
func setupRouter(cfg *config.Config, rooms *services.RoomService, engine *services.Engine) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	// Setup REST and socket routes
	routes.SetupRoutes(r, rooms, engine)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now()})
	})

	return r
}

func main() {
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("[FATAL] Invalid configuration: %v", err)
	}
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		logger.Warnf("Unknown LOG_LEVEL %q, keeping %s", cfg.LogLevel, logger.Level())
	}
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	st, err := openStore(cfg)
	if err != nil {
		logger.Fatalf("[FATAL] Failed to open store: %v", err)
	}

	registry := services.NewRegistry(st)
	engine := services.NewEngine(registry, services.NewHub(), services.NewSessions())
	rooms := services.NewRoomService(st, registry)

	if cfg.SeedDecksFile != "" {
		if _, err := rooms.SeedDecks(context.Background(), cfg.SeedDecksFile); err != nil {
			logger.Fatalf("[FATAL] Failed to seed decks: %v", err)
		}
	}

	loc, err := cfg.Location()
	if err != nil {
		logger.Fatalf("[FATAL] Invalid EVICTION_TIMEZONE: %v", err)
	}
	scheduler, err := services.NewScheduler(registry, cfg.EvictionSchedule, loc, cfg.FlushInterval)
	if err != nil {
		logger.Fatalf("[FATAL] Invalid schedule: %v", err)
	}
	scheduler.Start()

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: setupRouter(cfg, rooms, engine),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Infof("🚀 Sandbox server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("[FATAL] Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server shutdown: %v", err)
	}
	scheduler.Stop()
}
