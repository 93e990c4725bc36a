package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inventory-grid-service/controllers"
	"inventory-grid-service/database"
	"inventory-grid-service/logger"
	"inventory-grid-service/middleware"
	"inventory-grid-service/repository"
	"inventory-grid-service/routes"
	"inventory-grid-service/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		panic("config load failed: " + err.Error())
	}

	logger.Initialize(cfg.Env)
	log := logger.Log
	defer log.Sync()

	if err := database.ConnectWithConfig(cfg.MongoURI, cfg.MongoDB); err != nil {
		log.Fatal("MongoDB connection failed", zap.Error(err))
	}
	log.Info("MongoDB connected", zap.String("database", cfg.MongoDB))

	// --- Service wiring ---
	inventoryRepo := repository.NewMongoInventoryRepository(database.DB)

	indexCtx, indexCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := inventoryRepo.EnsureIndexes(indexCtx); err != nil {
		indexCancel()
		log.Fatal("Failed to create indexes", zap.Error(err))
	}
	indexCancel()

	gridService := services.NewGridService(inventoryRepo, log)
	gridController := controllers.NewGridController(gridService)

	// --- HTTP router ---
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.AllowedOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(middleware.RateLimit())
	r.Use(middleware.Metrics())
	r.Use(middleware.RequestLogger(log))

	r.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	routes.RegisterRoutes(r, gridController)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}

	go func() {
		log.Info("Inventory grid service starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down inventory grid service...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}
	if err := database.Close(); err != nil {
		log.Warn("MongoDB disconnect failed", zap.Error(err))
	}

	log.Info("Inventory grid service stopped gracefully")
}
