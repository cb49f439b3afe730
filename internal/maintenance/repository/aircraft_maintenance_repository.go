package repository

import (
	"context"
	"errors"
	"time"

	"github.com/mgeorge46/entebbe/internal/maintenance/entity"
	"gorm.io/gorm"
)

// AircraftMaintenanceRepository provides access to aircraft-level
// maintenance records.
type AircraftMaintenanceRepository struct {
	db *gorm.DB
}

func NewAircraftMaintenanceRepository(db *gorm.DB) *AircraftMaintenanceRepository {
	return &AircraftMaintenanceRepository{db: db}
}

func (r *AircraftMaintenanceRepository) FindByID(ctx context.Context, id string) (*entity.AircraftMaintenance, error) {
	var record entity.AircraftMaintenance
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *AircraftMaintenanceRepository) Create(ctx context.Context, record *entity.AircraftMaintenance) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *AircraftMaintenanceRepository) Update(ctx context.Context, record *entity.AircraftMaintenance) error {
	return r.db.WithContext(ctx).Save(record).Error
}

// ListByAircraft returns an aircraft's maintenance history, newest first.
func (r *AircraftMaintenanceRepository) ListByAircraft(ctx context.Context, aircraftID string) ([]entity.AircraftMaintenance, error) {
	var records []entity.AircraftMaintenance
	err := r.db.WithContext(ctx).
		Where("aircraft_id = ?", aircraftID).
		Order("start_date DESC").
		Find(&records).Error
	return records, err
}

// ListOverlapping returns aircraft records in a calendar window.
func (r *AircraftMaintenanceRepository) ListOverlapping(ctx context.Context, from, to time.Time) ([]entity.AircraftMaintenance, error) {
	var records []entity.AircraftMaintenance
	err := r.db.WithContext(ctx).
		Preload("Aircraft").
		Where("start_date <= ? AND end_date >= ?", to, from).
		Order("start_date ASC").
		Find(&records).Error
	return records, err
}
