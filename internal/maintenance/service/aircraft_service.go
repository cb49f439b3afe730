package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mgeorge46/entebbe/internal/config"
	"github.com/mgeorge46/entebbe/internal/maintenance/entity"
	"github.com/mgeorge46/entebbe/internal/maintenance/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AircraftService manages the fleet registry and aircraft-level maintenance.
type AircraftService struct {
	aircraftRepo  *repository.AircraftRepository
	componentRepo *repository.ComponentRepository
	acMaintRepo   *repository.AircraftMaintenanceRepository
	db            *gorm.DB
	cfg           *config.Config
}

func NewAircraftService(aircraftRepo *repository.AircraftRepository, componentRepo *repository.ComponentRepository, acMaintRepo *repository.AircraftMaintenanceRepository, db *gorm.DB, cfg *config.Config) *AircraftService {
	return &AircraftService{
		aircraftRepo:  aircraftRepo,
		componentRepo: componentRepo,
		acMaintRepo:   acMaintRepo,
		db:            db,
		cfg:           cfg,
	}
}

type CreateAircraftRequest struct {
	Abbreviation       string          `json:"abbreviation" binding:"required"`
	RegistrationNumber string          `json:"registration_number" binding:"required"`
	Callsign           string          `json:"callsign"`
	AircraftModel      string          `json:"aircraft_model"`
	AircraftType       string          `json:"aircraft_type"`
	AircraftVariant    string          `json:"aircraft_variant"`
	AircraftSerial     string          `json:"aircraft_serial"`
	Manufacturer       string          `json:"manufacturer"`
	YearOfManufacture  int             `json:"year_of_manufacture"`
	SeatingCapacity    int             `json:"seating_capacity"`
	CabinCrewCapacity  int             `json:"cabin_crew_capacity"`
	FlightCrewCapacity int             `json:"flight_crew_capacity"`
	TakeoffWeight      decimal.Decimal `json:"takeoff_weight"`
	TaxiWeight         decimal.Decimal `json:"taxi_weight"`
	LandingWeight      decimal.Decimal `json:"landing_weight"`
	ZeroFuelWeight     decimal.Decimal `json:"zerofuel_weight"`
	EmptyWeight        decimal.Decimal `json:"empty_weight"`
	MaxPayload         decimal.Decimal `json:"max_payload"`

	AHours           decimal.Decimal `json:"a_hours"`
	BHours           decimal.Decimal `json:"b_hours"`
	CHours           decimal.Decimal `json:"c_hours"`
	DHours           decimal.Decimal `json:"d_hours"`
	ACheckAlertHours decimal.Decimal `json:"a_check_alert_hours"`
	BCheckAlertHours decimal.Decimal `json:"b_check_alert_hours"`
	CCheckAlertHours decimal.Decimal `json:"c_check_alert_hours"`
	DCheckAlertHours decimal.Decimal `json:"d_check_alert_hours"`
}

func (s *AircraftService) Create(ctx context.Context, actorID string, req *CreateAircraftRequest) (*entity.Aircraft, error) {
	aircraft := &entity.Aircraft{
		ID:                 uuid.New().String()[:32],
		Abbreviation:       req.Abbreviation,
		RegistrationNumber: req.RegistrationNumber,
		Callsign:           req.Callsign,
		AircraftModel:      req.AircraftModel,
		AircraftType:       req.AircraftType,
		AircraftVariant:    req.AircraftVariant,
		AircraftSerial:     req.AircraftSerial,
		Manufacturer:       req.Manufacturer,
		YearOfManufacture:  req.YearOfManufacture,
		SeatingCapacity:    req.SeatingCapacity,
		CabinCrewCapacity:  req.CabinCrewCapacity,
		FlightCrewCapacity: req.FlightCrewCapacity,
		TakeoffWeight:      req.TakeoffWeight,
		TaxiWeight:         req.TaxiWeight,
		LandingWeight:      req.LandingWeight,
		ZeroFuelWeight:     req.ZeroFuelWeight,
		EmptyWeight:        req.EmptyWeight,
		MaxPayload:         req.MaxPayload,
		Status:             entity.AircraftStatusOperational,
		AHours:             req.AHours,
		BHours:             req.BHours,
		CHours:             req.CHours,
		DHours:             req.DHours,
		ACheckAlertHours:   req.ACheckAlertHours,
		BCheckAlertHours:   req.BCheckAlertHours,
		CCheckAlertHours:   req.CCheckAlertHours,
		DCheckAlertHours:   req.DCheckAlertHours,
		RecordDate:         time.Now(),
		AddedBy:            actorID,
	}

	if err := s.aircraftRepo.Create(ctx, aircraft); err != nil {
		return nil, fmt.Errorf("create aircraft: %w", err)
	}
	return aircraft, nil
}

type UpdateAircraftRequest struct {
	Callsign        string `json:"callsign"`
	AircraftModel   string `json:"aircraft_model"`
	AircraftType    string `json:"aircraft_type"`
	AircraftVariant string `json:"aircraft_variant"`
	Manufacturer    string `json:"manufacturer"`
	SeatingCapacity int    `json:"seating_capacity"`
	Status          string `json:"status"`

	AHours           decimal.NullDecimal `json:"a_hours"`
	BHours           decimal.NullDecimal `json:"b_hours"`
	CHours           decimal.NullDecimal `json:"c_hours"`
	DHours           decimal.NullDecimal `json:"d_hours"`
	ACheckAlertHours decimal.NullDecimal `json:"a_check_alert_hours"`
	BCheckAlertHours decimal.NullDecimal `json:"b_check_alert_hours"`
	CCheckAlertHours decimal.NullDecimal `json:"c_check_alert_hours"`
	DCheckAlertHours decimal.NullDecimal `json:"d_check_alert_hours"`

	UpdateComments string `json:"update_comments"`
}

func (s *AircraftService) Update(ctx context.Context, actorID, id string, req *UpdateAircraftRequest) (*entity.Aircraft, error) {
	aircraft, err := s.aircraftRepo.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrAircraftNotFound
		}
		return nil, err
	}

	if req.Callsign != "" {
		aircraft.Callsign = req.Callsign
	}
	if req.AircraftModel != "" {
		aircraft.AircraftModel = req.AircraftModel
	}
	if req.AircraftType != "" {
		aircraft.AircraftType = req.AircraftType
	}
	if req.AircraftVariant != "" {
		aircraft.AircraftVariant = req.AircraftVariant
	}
	if req.Manufacturer != "" {
		aircraft.Manufacturer = req.Manufacturer
	}
	if req.SeatingCapacity > 0 {
		aircraft.SeatingCapacity = req.SeatingCapacity
	}
	if req.Status == entity.AircraftStatusOperational || req.Status == entity.AircraftStatusMaintenance {
		aircraft.Status = req.Status
	}
	if req.AHours.Valid {
		aircraft.AHours = req.AHours.Decimal
	}
	if req.BHours.Valid {
		aircraft.BHours = req.BHours.Decimal
	}
	if req.CHours.Valid {
		aircraft.CHours = req.CHours.Decimal
	}
	if req.DHours.Valid {
		aircraft.DHours = req.DHours.Decimal
	}
	if req.ACheckAlertHours.Valid {
		aircraft.ACheckAlertHours = req.ACheckAlertHours.Decimal
	}
	if req.BCheckAlertHours.Valid {
		aircraft.BCheckAlertHours = req.BCheckAlertHours.Decimal
	}
	if req.CCheckAlertHours.Valid {
		aircraft.CCheckAlertHours = req.CCheckAlertHours.Decimal
	}
	if req.DCheckAlertHours.Valid {
		aircraft.DCheckAlertHours = req.DCheckAlertHours.Decimal
	}

	now := time.Now()
	aircraft.UpdatedDate = &now
	aircraft.UpdatedBy = actorID
	aircraft.UpdateComments = req.UpdateComments

	if err := s.aircraftRepo.Update(ctx, aircraft); err != nil {
		return nil, fmt.Errorf("update aircraft: %w", err)
	}
	return aircraft, nil
}

func (s *AircraftService) Get(ctx context.Context, id string) (*entity.Aircraft, error) {
	aircraft, err := s.aircraftRepo.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrAircraftNotFound
		}
		return nil, err
	}
	return aircraft, nil
}

func (s *AircraftService) List(ctx context.Context, status, search string) ([]entity.Aircraft, error) {
	return s.aircraftRepo.List(ctx, status, search)
}

// LevelStats summarizes an aircraft's Attached components at one level.
type LevelStats struct {
	Level    int    `json:"level"`
	TypeName string `json:"type_name"`
	Total    int64  `json:"total"`
	LowHours int64  `json:"low_hours"`
}

// AircraftStats is the per-aircraft maintenance summary.
type AircraftStats struct {
	Aircraft *entity.Aircraft `json:"aircraft"`
	Levels   []LevelStats     `json:"levels"`
}

// Stats counts an aircraft's Attached components per level, flagging those
// under the configured low-hours threshold.
func (s *AircraftService) Stats(ctx context.Context, id string) (*AircraftStats, error) {
	aircraft, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	threshold := int64(s.cfg.Maintenance.LowHoursThreshold)
	stats := &AircraftStats{Aircraft: aircraft}
	for level := 0; level <= entity.MaxComponentLevel; level++ {
		total, low, err := s.componentRepo.CountByAircraftLevel(ctx, id, level, threshold)
		if err != nil {
			return nil, err
		}
		componentType, _ := entity.ComponentTypeForLevel(level)
		stats.Levels = append(stats.Levels, LevelStats{
			Level:    level,
			TypeName: componentType.TypeName(),
			Total:    total,
			LowHours: low,
		})
	}
	return stats, nil
}

// ScheduleAircraftMaintenanceRequest books aircraft-level maintenance.
// Unlike component records there is no completion workflow; the entry is
// the history.
type ScheduleAircraftMaintenanceRequest struct {
	MainTypeSchedule    string          `json:"main_type_schedule" binding:"required"`
	MaintenanceType     string          `json:"maintenance_type" binding:"required"`
	MaintenanceHours    decimal.Decimal `json:"maintenance_hours"`
	HoursAdded          decimal.Decimal `json:"maintenance_hours_added"`
	StartDate           time.Time       `json:"start_date" binding:"required"`
	EndDate             time.Time       `json:"end_date" binding:"required"`
	NextMaintenanceDate *time.Time      `json:"next_maintenance_date"`
	Remarks             string          `json:"remarks"`
}

// ScheduleMaintenance records aircraft maintenance and flips the aircraft to
// Maintenance status for Maintenance-type schedules.
func (s *AircraftService) ScheduleMaintenance(ctx context.Context, actorID, aircraftID string, req *ScheduleAircraftMaintenanceRequest) (*entity.AircraftMaintenance, error) {
	if !req.EndDate.After(req.StartDate) {
		return nil, ErrInvalidDates
	}
	aircraft, err := s.Get(ctx, aircraftID)
	if err != nil {
		return nil, err
	}

	record := &entity.AircraftMaintenance{
		ID:                    uuid.New().String()[:32],
		AircraftID:            aircraft.ID,
		MainTypeSchedule:      req.MainTypeSchedule,
		MaintenanceType:       req.MaintenanceType,
		MaintenanceHours:      req.MaintenanceHours,
		MaintenanceHoursAdded: req.HoursAdded,
		StartDate:             req.StartDate,
		EndDate:               req.EndDate,
		NextMaintenanceDate:   req.NextMaintenanceDate,
		Remarks:               req.Remarks,
		RecordDate:            time.Now(),
		AddedBy:               actorID,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(record).Error; err != nil {
			return fmt.Errorf("create aircraft maintenance: %w", err)
		}
		if req.MainTypeSchedule == entity.ScheduleTypeMaintenance {
			return tx.Model(&entity.Aircraft{}).
				Where("id = ?", aircraft.ID).
				Update("status", entity.AircraftStatusMaintenance).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// UpdateAircraftMaintenanceRequest amends a booked aircraft maintenance.
type UpdateAircraftMaintenanceRequest struct {
	MaintenanceType     string          `json:"maintenance_type"`
	HoursAdded          decimal.Decimal `json:"maintenance_hours_added"`
	StartDate           *time.Time      `json:"start_date"`
	EndDate             *time.Time      `json:"end_date"`
	NextMaintenanceDate *time.Time      `json:"next_maintenance_date"`
	Remarks             string          `json:"remarks"`
	Closed              bool            `json:"closed"`
}

// UpdateMaintenance amends an aircraft maintenance entry. Closing one puts a
// Maintenance-status aircraft back to Operational.
func (s *AircraftService) UpdateMaintenance(ctx context.Context, actorID, recordID string, req *UpdateAircraftMaintenanceRequest) (*entity.AircraftMaintenance, error) {
	record, err := s.acMaintRepo.FindByID(ctx, recordID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	if req.MaintenanceType != "" {
		record.MaintenanceType = req.MaintenanceType
	}
	if !req.HoursAdded.IsZero() {
		if req.HoursAdded.IsNegative() {
			return nil, ErrNegativeHours
		}
		record.MaintenanceHoursAdded = req.HoursAdded
	}
	if req.StartDate != nil {
		record.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		record.EndDate = *req.EndDate
	}
	if !record.EndDate.After(record.StartDate) {
		return nil, ErrInvalidDates
	}
	if req.NextMaintenanceDate != nil {
		record.NextMaintenanceDate = req.NextMaintenanceDate
	}
	if req.Remarks != "" {
		record.Remarks = req.Remarks
	}

	now := time.Now()
	record.UpdatedDate = &now
	record.UpdatedBy = actorID

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if req.Closed {
			record.MainTypeSchedule = entity.ScheduleTypeOperational
			if err := tx.Model(&entity.Aircraft{}).
				Where("id = ? AND status = ?", record.AircraftID, entity.AircraftStatusMaintenance).
				Update("status", entity.AircraftStatusOperational).Error; err != nil {
				return err
			}
		}
		return tx.Save(record).Error
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// MaintenanceHistory lists an aircraft's maintenance records.
func (s *AircraftService) MaintenanceHistory(ctx context.Context, aircraftID string) ([]entity.AircraftMaintenance, error) {
	if _, err := s.Get(ctx, aircraftID); err != nil {
		return nil, err
	}
	return s.acMaintRepo.ListByAircraft(ctx, aircraftID)
}
