package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mgeorge46/entebbe/internal/maintenance/entity"
	"github.com/mgeorge46/entebbe/internal/maintenance/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MinFlightDuration is the shortest leg a tech log accepts.
const MinFlightDuration = 30 * time.Minute

// TechLogService closes flight legs. Closing a leg writes the log entry and
// wears the aircraft's component subtree in one transaction, then
// auto-schedules any components that crossed their hours floor.
type TechLogService struct {
	techLogRepo  *repository.TechLogRepository
	aircraftRepo *repository.AircraftRepository
	ledger       *LedgerService
	maintenance  *MaintenanceService
	db           *gorm.DB
	logger       *zap.Logger
}

func NewTechLogService(techLogRepo *repository.TechLogRepository, aircraftRepo *repository.AircraftRepository, ledger *LedgerService, maintenance *MaintenanceService, db *gorm.DB, logger *zap.Logger) *TechLogService {
	return &TechLogService{
		techLogRepo:  techLogRepo,
		aircraftRepo: aircraftRepo,
		ledger:       ledger,
		maintenance:  maintenance,
		db:           db,
		logger:       logger,
	}
}

type CloseFlightRequest struct {
	AircraftID       string    `json:"aircraft_id" binding:"required"`
	DepartureAirport string    `json:"departure_airport"`
	ArrivalAirport   string    `json:"arrival_airport"`
	Takeoff          time.Time `json:"takeoff" binding:"required"`
	Landing          time.Time `json:"landing" binding:"required"`
	OffBlock         string    `json:"off_block"`
	OnBlock          string    `json:"on_block"`
	TechLogComments  string    `json:"tech_log_comments"`
	Remarks          string    `json:"remarks"`
}

// CloseFlight validates the leg, computes flight hours from the block
// times and applies usage to every Attached component under the aircraft.
func (s *TechLogService) CloseFlight(ctx context.Context, actorID string, req *CloseFlightRequest) (*entity.FlightTechLog, error) {
	if !req.Landing.After(req.Takeoff) {
		return nil, ErrLandingBefore
	}
	duration := req.Landing.Sub(req.Takeoff)
	if duration < MinFlightDuration {
		return nil, ErrFlightTooShort
	}

	if _, err := s.aircraftRepo.FindByID(ctx, req.AircraftID); err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrAircraftNotFound
		}
		return nil, err
	}

	flightHours := decimal.NewFromFloat(duration.Hours()).Round(2)

	log := &entity.FlightTechLog{
		ID:               uuid.New().String()[:32],
		AircraftID:       req.AircraftID,
		DepartureAirport: req.DepartureAirport,
		ArrivalAirport:   req.ArrivalAirport,
		Takeoff:          req.Takeoff,
		Landing:          req.Landing,
		FlightHours:      flightHours,
		OffBlock:         req.OffBlock,
		OnBlock:          req.OnBlock,
		TechLogComments:  req.TechLogComments,
		Remarks:          req.Remarks,
		RecordDate:       time.Now(),
		AddedBy:          actorID,
	}

	var usage *UsageResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		number, err := s.techLogRepo.NextLogNumber(tx, req.AircraftID)
		if err != nil {
			return err
		}
		log.FlightLogNumber = &number

		usage, err = s.ledger.ApplyFlightUsageTx(tx, req.AircraftID, flightHours, actorID)
		if err != nil {
			return err
		}
		log.ComponentsWorn = usage.ComponentsWorn

		if err := tx.Create(log).Error; err != nil {
			return fmt.Errorf("create tech log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("flight closed",
		zap.String("aircraft_id", req.AircraftID),
		zap.String("flight_hours", flightHours.String()),
		zap.Int("components_worn", log.ComponentsWorn))

	// Auto-scheduling happens after commit. A failure here leaves the log
	// and the usage in place; the components surface on the dashboard
	// regardless.
	if len(usage.LowComponents) > 0 {
		if _, err := s.maintenance.AutoSchedule(ctx, usage.LowComponents); err != nil {
			s.logger.Warn("auto-schedule after flight close failed", zap.Error(err))
		}
	}
	return log, nil
}

// History lists an aircraft's recent legs.
func (s *TechLogService) History(ctx context.Context, aircraftID string, limit int) ([]entity.FlightTechLog, error) {
	if _, err := s.aircraftRepo.FindByID(ctx, aircraftID); err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrAircraftNotFound
		}
		return nil, err
	}
	return s.techLogRepo.ListByAircraft(ctx, aircraftID, limit)
}
