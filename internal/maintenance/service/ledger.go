package service

import (
	"context"
	"time"

	"github.com/mgeorge46/entebbe/internal/maintenance/entity"
	"github.com/mgeorge46/entebbe/internal/maintenance/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LedgerService owns every mutation of component maintenance hours. Usage
// and restoration both run under row locks so concurrent flight closes and
// completions serialize per component.
type LedgerService struct {
	componentRepo *repository.ComponentRepository
	db            *gorm.DB
	logger        *zap.Logger
}

func NewLedgerService(componentRepo *repository.ComponentRepository, db *gorm.DB, logger *zap.Logger) *LedgerService {
	return &LedgerService{componentRepo: componentRepo, db: db, logger: logger}
}

// UsageResult reports one flight-usage application.
type UsageResult struct {
	ComponentsWorn int
	// LowComponents crossed their minimum-hours floor during this
	// application and are candidates for auto-scheduling.
	LowComponents []entity.Component
}

// ApplyFlightUsage subtracts flight hours from every Attached component under
// the aircraft, at all four levels, and advances each item cycle. One
// transaction covers the whole subtree: a flight wears all of it or none.
func (s *LedgerService) ApplyFlightUsage(ctx context.Context, aircraftID string, hours decimal.Decimal, actorID string) (*UsageResult, error) {
	if !hours.IsPositive() {
		return nil, ErrNegativeHours
	}

	result := &UsageResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		worn, low, err := s.applyUsageTx(tx, aircraftID, hours, actorID)
		if err != nil {
			return err
		}
		result.ComponentsWorn = worn
		result.LowComponents = low
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("flight usage applied",
		zap.String("aircraft_id", aircraftID),
		zap.String("hours", hours.String()),
		zap.Int("components", result.ComponentsWorn))
	return result, nil
}

// ApplyFlightUsageTx is the transactional core, exposed so the tech log
// close can run usage and the log insert atomically.
func (s *LedgerService) ApplyFlightUsageTx(tx *gorm.DB, aircraftID string, hours decimal.Decimal, actorID string) (*UsageResult, error) {
	if !hours.IsPositive() {
		return nil, ErrNegativeHours
	}
	worn, low, err := s.applyUsageTx(tx, aircraftID, hours, actorID)
	if err != nil {
		return nil, err
	}
	return &UsageResult{ComponentsWorn: worn, LowComponents: low}, nil
}

func (s *LedgerService) applyUsageTx(tx *gorm.DB, aircraftID string, hours decimal.Decimal, actorID string) (int, []entity.Component, error) {
	ids, err := s.componentRepo.SubtreeIDsForUpdate(tx, aircraftID)
	if err != nil {
		return 0, nil, err
	}
	if len(ids) == 0 {
		return 0, nil, nil
	}

	var components []entity.Component
	if err := tx.Where("id IN ?", ids).Find(&components).Error; err != nil {
		return 0, nil, err
	}

	now := time.Now()
	var low []entity.Component
	for i := range components {
		c := &components[i]
		wasLow := c.NeedsMaintenance()

		c.MaintenanceHours = c.MaintenanceHours.Sub(hours)
		if c.ItemCycle == nil {
			one := 1
			c.ItemCycle = &one
		} else {
			next := *c.ItemCycle + 1
			c.ItemCycle = &next
		}
		c.UpdatedDate = &now
		c.UpdatedBy = actorID

		if err := tx.Save(c).Error; err != nil {
			return 0, nil, err
		}
		if !wasLow && c.NeedsMaintenance() {
			low = append(low, *c)
		}
	}
	return len(components), low, nil
}

// RestoreHoursTx adds completed maintenance hours back to one component
// under a row lock. Negative or zero amounts are rejected; the balance
// itself may go wherever the arithmetic takes it.
func (s *LedgerService) RestoreHoursTx(tx *gorm.DB, componentID string, hours decimal.Decimal, actorID string) (*entity.Component, error) {
	if !hours.IsPositive() {
		return nil, ErrNegativeHours
	}

	component, err := s.componentRepo.FindForUpdate(tx, componentID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrComponentNotFound
		}
		return nil, err
	}

	now := time.Now()
	component.MaintenanceHours = component.MaintenanceHours.Add(hours)
	component.UpdatedDate = &now
	component.UpdatedBy = actorID

	if err := tx.Save(component).Error; err != nil {
		return nil, err
	}
	return component, nil
}

// RestoreHours is the standalone form for manual adjustments.
func (s *LedgerService) RestoreHours(ctx context.Context, componentID string, hours decimal.Decimal, actorID string) (*entity.Component, error) {
	var component *entity.Component
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		component, err = s.RestoreHoursTx(tx, componentID, hours, actorID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("hours restored",
		zap.String("component_id", componentID),
		zap.String("hours", hours.String()))
	return component, nil
}
