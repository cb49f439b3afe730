package repository

import (
	"context"
	"errors"

	"github.com/mgeorge46/entebbe/internal/maintenance/entity"
	"gorm.io/gorm"
)

// AircraftRepository provides fleet registry access.
type AircraftRepository struct {
	db *gorm.DB
}

func NewAircraftRepository(db *gorm.DB) *AircraftRepository {
	return &AircraftRepository{db: db}
}

// FindByID looks an aircraft up by id.
func (r *AircraftRepository) FindByID(ctx context.Context, id string) (*entity.Aircraft, error) {
	var aircraft entity.Aircraft
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&aircraft).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &aircraft, nil
}

// FindByRegistration looks an aircraft up by registration number.
func (r *AircraftRepository) FindByRegistration(ctx context.Context, registration string) (*entity.Aircraft, error) {
	var aircraft entity.Aircraft
	err := r.db.WithContext(ctx).Where("registration_number = ?", registration).First(&aircraft).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &aircraft, nil
}

// Create inserts a new aircraft.
func (r *AircraftRepository) Create(ctx context.Context, aircraft *entity.Aircraft) error {
	return r.db.WithContext(ctx).Create(aircraft).Error
}

// Update saves an aircraft.
func (r *AircraftRepository) Update(ctx context.Context, aircraft *entity.Aircraft) error {
	return r.db.WithContext(ctx).Save(aircraft).Error
}

// List returns aircraft filtered by status and/or a search term over
// abbreviation and registration number.
func (r *AircraftRepository) List(ctx context.Context, status, search string) ([]entity.Aircraft, error) {
	var aircraft []entity.Aircraft

	query := r.db.WithContext(ctx)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("abbreviation ILIKE ? OR registration_number ILIKE ?", like, like)
	}

	err := query.Order("abbreviation ASC").Find(&aircraft).Error
	return aircraft, err
}
