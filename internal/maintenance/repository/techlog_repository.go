package repository

import (
	"context"
	"errors"

	"github.com/mgeorge46/entebbe/internal/maintenance/entity"
	"gorm.io/gorm"
)

// TechLogRepository provides access to flight tech log entries.
type TechLogRepository struct {
	db *gorm.DB
}

func NewTechLogRepository(db *gorm.DB) *TechLogRepository {
	return &TechLogRepository{db: db}
}

func (r *TechLogRepository) FindByID(ctx context.Context, id string) (*entity.FlightTechLog, error) {
	var log entity.FlightTechLog
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&log).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &log, nil
}

// ListByAircraft returns an aircraft's flight legs, most recent first.
func (r *TechLogRepository) ListByAircraft(ctx context.Context, aircraftID string, limit int) ([]entity.FlightTechLog, error) {
	var logs []entity.FlightTechLog
	query := r.db.WithContext(ctx).
		Where("aircraft_id = ?", aircraftID).
		Order("takeoff DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&logs).Error
	return logs, err
}

// NextLogNumber returns the next per-aircraft flight log number.
func (r *TechLogRepository) NextLogNumber(tx *gorm.DB, aircraftID string) (int, error) {
	var max *int
	err := tx.Model(&entity.FlightTechLog{}).
		Where("aircraft_id = ?", aircraftID).
		Select("MAX(flight_log_number)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 1, nil
	}
	return *max + 1, nil
}
