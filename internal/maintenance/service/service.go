package service

import (
	"github.com/mgeorge46/entebbe/internal/config"
	"github.com/mgeorge46/entebbe/internal/maintenance/repository"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Services holds the maintenance module's services.
type Services struct {
	Aircraft    *AircraftService
	Component   *ComponentService
	Resolver    *ResolverService
	Ledger      *LedgerService
	Maintenance *MaintenanceService
	TechLog     *TechLogService
	Report      *ReportService
	Export      *ExportService
}

// NewServices wires the service set. rdb may be nil; the resolver then runs
// uncached. MinIO is optional the same way.
func NewServices(repos *repository.Repositories, db *gorm.DB, rdb *redis.Client, cfg *config.Config, logger *zap.Logger) *Services {
	var minioClient *minio.Client
	if cfg.MinIO.Endpoint != "" {
		var err error
		minioClient, err = minio.New(cfg.MinIO.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
			Secure: cfg.MinIO.UseSSL,
		})
		if err != nil {
			logger.Warn("minio unavailable, report upload disabled", zap.Error(err))
			minioClient = nil
		}
	}

	resolver := NewResolverService(repos.Component, repos.Aircraft, rdb, cfg.Maintenance.ResolverCacheTTL)
	ledger := NewLedgerService(repos.Component, db, logger)
	report := NewReportService(minioClient, cfg.MinIO.Bucket)

	maintenanceSvc := NewMaintenanceService(repos.Maintenance, repos.Component, resolver, ledger, db, cfg, logger)

	return &Services{
		Aircraft:    NewAircraftService(repos.Aircraft, repos.Component, repos.AircraftMaintenance, db, cfg),
		Component:   NewComponentService(repos.Component, repos.Aircraft, resolver, db, cfg, logger),
		Resolver:    resolver,
		Ledger:      ledger,
		Maintenance: maintenanceSvc,
		TechLog:     NewTechLogService(repos.TechLog, repos.Aircraft, ledger, maintenanceSvc, db, logger),
		Report:      report,
		Export:      NewExportService(repos.Aircraft, repos.Component, repos.Maintenance),
	}
}
