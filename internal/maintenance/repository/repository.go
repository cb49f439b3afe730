package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Repositories holds the maintenance module's repositories.
type Repositories struct {
	Aircraft            *AircraftRepository
	Component           *ComponentRepository
	Maintenance         *MaintenanceRepository
	AircraftMaintenance *AircraftMaintenanceRepository
	TechLog             *TechLogRepository
}

// NewRepositories creates the repository set over one gorm handle.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Aircraft:            NewAircraftRepository(db),
		Component:           NewComponentRepository(db),
		Maintenance:         NewMaintenanceRepository(db),
		AircraftMaintenance: NewAircraftMaintenanceRepository(db),
		TechLog:             NewTechLogRepository(db),
	}
}
