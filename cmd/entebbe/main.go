package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/mgeorge46/entebbe/internal/config"
	"github.com/mgeorge46/entebbe/internal/maintenance/entity"
	"github.com/mgeorge46/entebbe/internal/maintenance/handler"
	"github.com/mgeorge46/entebbe/internal/maintenance/repository"
	"github.com/mgeorge46/entebbe/internal/maintenance/service"
	"github.com/mgeorge46/entebbe/internal/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting entebbe maintenance service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&entity.Aircraft{},
		&entity.Component{},
		&entity.ComponentMaintenance{},
		&entity.AircraftMaintenance{},
		&entity.FlightTechLog{},
	); err != nil {
		zapLogger.Warn("AutoMigrate warning", zap.Error(err))
	}

	// Partial index for the open-records scans behind the Scheduled and
	// Expired buckets; AutoMigrate cannot express it.
	db.Exec("CREATE INDEX IF NOT EXISTS idx_cm_open_end_date ON component_maintenances(end_date) WHERE maintenance_status = 'Scheduled'")

	rdb := initRedis(cfg.Redis)

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, db, rdb, cfg, zapLogger)
	handlers := handler.NewHandlers(services)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	registerRoutes(router, handlers, cfg)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

func registerRoutes(r *gin.Engine, h *handler.Handlers, cfg *config.Config) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": Version})
	})

	// Reads need only a valid token. Writes additionally need the engineer
	// role, reports the matching permission. mx_admin and the "*" permission
	// pass everything.
	engineer := middleware.RequireRole("mx_engineer")
	reports := middleware.RequirePermission("maintenance:reports")

	v1 := r.Group("/api/v1")
	authorized := v1.Group("")
	authorized.Use(middleware.JWTAuth(cfg.JWT.Secret))
	{
		aircraft := authorized.Group("/aircraft")
		{
			aircraft.GET("", h.Aircraft.List)
			aircraft.POST("", engineer, h.Aircraft.Create)
			aircraft.GET("/:id", h.Aircraft.Get)
			aircraft.PUT("/:id", engineer, h.Aircraft.Update)
			aircraft.GET("/:id/stats", h.Aircraft.Stats)
			aircraft.GET("/:id/maintenance", h.Aircraft.MaintenanceHistory)
			aircraft.POST("/:id/maintenance", engineer, h.Aircraft.ScheduleMaintenance)
			aircraft.PUT("/maintenance/:recordId", engineer, h.Aircraft.UpdateMaintenance)
			aircraft.GET("/:id/components", h.Component.ListByAircraft)
			aircraft.GET("/:id/components/tree", h.Component.Tree)
			aircraft.GET("/:id/components/export", reports, h.Aircraft.ExportComponents)
			aircraft.GET("/:id/techlogs", h.TechLog.History)
		}

		components := authorized.Group("/components")
		{
			components.POST("", engineer, h.Component.Create)
			components.POST("/bulk", engineer, h.Component.BulkCreate)
			components.GET("/:id", h.Component.Get)
			components.PUT("/:id", engineer, h.Component.Update)
			components.GET("/:id/children", h.Component.Children)
			components.GET("/:id/aircraft", h.Component.ResolveAircraft)
			components.POST("/:id/clone", engineer, h.Component.Clone)
			components.POST("/:id/detach", engineer, h.Component.Detach)
			components.POST("/:id/reattach", engineer, h.Component.Reattach)
			components.POST("/:id/re-provision", engineer, h.Component.ReProvision)
			components.POST("/:id/restore-hours", engineer, h.Component.RestoreHours)
		}

		maintenance := authorized.Group("/maintenance")
		{
			maintenance.GET("/dashboard", h.Maintenance.Dashboard)
			maintenance.GET("/calendar", h.Maintenance.Calendar)
			maintenance.POST("/quick", engineer, h.Maintenance.QuickSchedule)

			maintenance.GET("/records", h.Maintenance.List)
			maintenance.GET("/records/export", reports, h.Maintenance.Export)
			maintenance.GET("/records/:id", h.Maintenance.Get)
			maintenance.POST("/records/:id/complete", engineer, h.Maintenance.Complete)
			maintenance.POST("/records/:id/cancel", engineer, h.Maintenance.Cancel)

			maintenance.GET("/batches", h.Maintenance.ListBatches)
			maintenance.POST("/batches", engineer, h.Maintenance.ScheduleBatch)
			maintenance.GET("/batches/:batchId", h.Maintenance.GetBatch)
			maintenance.POST("/batches/:batchId/complete", engineer, h.Maintenance.CompleteBatch)

			maintenance.POST("/reports", reports, h.Maintenance.UploadReport)
			maintenance.GET("/reports/url", reports, h.Maintenance.ReportURL)
		}

		techlogs := authorized.Group("/techlogs")
		{
			techlogs.POST("", engineer, h.TechLog.CloseFlight)
		}
	}
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}
