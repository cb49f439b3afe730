package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/now"
	"github.com/mgeorge46/entebbe/internal/config"
	"github.com/mgeorge46/entebbe/internal/maintenance/entity"
	"github.com/mgeorge46/entebbe/internal/maintenance/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MaintenanceService runs the scheduling and completion workflow for
// component maintenance records.
type MaintenanceService struct {
	maintRepo     *repository.MaintenanceRepository
	componentRepo *repository.ComponentRepository
	resolver      *ResolverService
	ledger        *LedgerService
	db            *gorm.DB
	cfg           *config.Config
	logger        *zap.Logger
}

func NewMaintenanceService(maintRepo *repository.MaintenanceRepository, componentRepo *repository.ComponentRepository, resolver *ResolverService, ledger *LedgerService, db *gorm.DB, cfg *config.Config, logger *zap.Logger) *MaintenanceService {
	return &MaintenanceService{
		maintRepo:     maintRepo,
		componentRepo: componentRepo,
		resolver:      resolver,
		ledger:        ledger,
		db:            db,
		cfg:           cfg,
		logger:        logger,
	}
}

// NewBatchID mints a batch identifier: MAINT-<timestamp>-<6 hex chars>.
func NewBatchID(at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])
	return fmt.Sprintf("MAINT-%s-%s", at.Format("20060102150405"), suffix)
}

// ScheduleItem names one component to include in a batch.
type ScheduleItem struct {
	ComponentType entity.ComponentType `json:"component_type" binding:"required"`
	ComponentID   string               `json:"component_id" binding:"required"`
}

// ScheduleBatchRequest schedules the same check over a set of components.
type ScheduleBatchRequest struct {
	Items            []ScheduleItem  `json:"items" binding:"required,min=1"`
	MainTypeSchedule string          `json:"main_type_schedule" binding:"required"`
	MaintenanceType  string          `json:"maintenance_type" binding:"required"`
	HoursToAdd       decimal.Decimal `json:"hours_to_add"`
	StartDate        time.Time       `json:"start_date" binding:"required"`
	EndDate          time.Time       `json:"end_date" binding:"required"`
	Remarks          string          `json:"remarks"`
}

// ScheduleBatch creates one record per component under a shared batch id.
// All records land or none do. Components under a Maintenance-type schedule
// are flipped to the Maintenance serviceability state immediately.
func (s *MaintenanceService) ScheduleBatch(ctx context.Context, actorID string, req *ScheduleBatchRequest) ([]entity.ComponentMaintenance, error) {
	return s.schedule(ctx, actorID, req, entity.ScheduleSourceBatch)
}

// QuickSchedule is the single-component shortcut. It still gets a batch id,
// a batch of one, so completion paths stay uniform.
func (s *MaintenanceService) QuickSchedule(ctx context.Context, actorID string, item ScheduleItem, req *ScheduleBatchRequest) ([]entity.ComponentMaintenance, error) {
	req.Items = []ScheduleItem{item}
	return s.schedule(ctx, actorID, req, entity.ScheduleSourceQuick)
}

func (s *MaintenanceService) schedule(ctx context.Context, actorID string, req *ScheduleBatchRequest, source string) ([]entity.ComponentMaintenance, error) {
	if !req.EndDate.After(req.StartDate) {
		return nil, ErrInvalidDates
	}

	// Validate every component before touching the database for writes.
	components := make([]*entity.Component, 0, len(req.Items))
	for _, item := range req.Items {
		if !item.ComponentType.Valid() {
			return nil, ErrInvalidComponentType
		}
		component, err := s.componentRepo.FindByTypeAndID(ctx, item.ComponentType, item.ComponentID)
		if err != nil {
			if err == repository.ErrNotFound {
				return nil, fmt.Errorf("%w: %s %s", ErrComponentNotFound, item.ComponentType, item.ComponentID)
			}
			return nil, err
		}
		if component.ComponentStatus != entity.ComponentStatusAttached {
			return nil, fmt.Errorf("%w: %s", ErrNotAttached, component.ComponentName)
		}
		open, err := s.maintRepo.ListActiveForComponent(ctx, item.ComponentType, item.ComponentID)
		if err != nil {
			return nil, err
		}
		if len(open) > 0 {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyScheduled, component.ComponentName)
		}
		components = append(components, component)
	}

	scheduledAt := time.Now()
	batchID := NewBatchID(scheduledAt)
	records := make([]entity.ComponentMaintenance, 0, len(req.Items))

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, item := range req.Items {
			component := components[i]
			record := entity.ComponentMaintenance{
				ID:                    uuid.New().String()[:32],
				ComponentType:         item.ComponentType,
				ComponentID:           item.ComponentID,
				BatchID:               batchID,
				Source:                source,
				MainTypeSchedule:      req.MainTypeSchedule,
				MaintenanceType:       req.MaintenanceType,
				MaintenanceHours:      component.MaintenanceHours,
				MaintenanceHoursAdded: req.HoursToAdd,
				StartDate:             req.StartDate,
				EndDate:               req.EndDate,
				Remarks:               req.Remarks,
				MaintenanceStatus:     entity.RecordStatusScheduled,
				RecordDate:            scheduledAt,
				AddedBy:               actorID,
			}
			if err := tx.Create(&record).Error; err != nil {
				return fmt.Errorf("create maintenance record: %w", err)
			}
			records = append(records, record)

			if req.MainTypeSchedule == entity.ScheduleTypeMaintenance {
				if err := tx.Model(&entity.Component{}).
					Where("id = ?", component.ID).
					Update("maintenance_status", entity.MaintStatusMaintenance).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("maintenance scheduled",
		zap.String("batch_id", batchID),
		zap.String("source", source),
		zap.Int("records", len(records)))
	return records, nil
}

// AutoSchedule opens a Class_A check for components that crossed their hours
// floor. The window starts now and runs the configured number of days.
// Components that already carry an open record are skipped silently.
func (s *MaintenanceService) AutoSchedule(ctx context.Context, components []entity.Component) ([]entity.ComponentMaintenance, error) {
	windowDays := s.cfg.Maintenance.AutoScheduleWindowDays
	if windowDays <= 0 {
		windowDays = 7
	}

	var created []entity.ComponentMaintenance
	for _, component := range components {
		componentType := component.Type()
		open, err := s.maintRepo.ListActiveForComponent(ctx, componentType, component.ID)
		if err != nil {
			return created, err
		}
		if len(open) > 0 {
			continue
		}

		scheduledAt := time.Now()
		record := entity.ComponentMaintenance{
			ID:                uuid.New().String()[:32],
			ComponentType:     componentType,
			ComponentID:       component.ID,
			BatchID:           NewBatchID(scheduledAt),
			Source:            entity.ScheduleSourceAuto,
			MainTypeSchedule:  entity.ScheduleTypeOperational,
			MaintenanceType:   entity.MaintenanceClassA,
			MaintenanceHours:  component.MaintenanceHours,
			StartDate:         scheduledAt,
			EndDate:           scheduledAt.AddDate(0, 0, windowDays),
			Remarks:           "Auto-scheduled at minimum maintenance hours",
			MaintenanceStatus: entity.RecordStatusScheduled,
			RecordDate:        scheduledAt,
			AddedBy:           "system",
		}
		if err := s.maintRepo.Create(ctx, &record); err != nil {
			return created, fmt.Errorf("auto-schedule: %w", err)
		}
		created = append(created, record)

		s.logger.Info("auto-scheduled maintenance",
			zap.String("component_id", component.ID),
			zap.String("record_id", record.ID))
	}
	return created, nil
}

// CompleteRequest closes a scheduled record. ActualHoursAdded is a pointer
// so an explicit zero, a check that restored nothing, is distinct from the
// field being omitted, which falls back to the planned hours.
type CompleteRequest struct {
	ActualStartDate   *time.Time       `json:"actual_start_date"`
	ActualEndDate     *time.Time       `json:"actual_end_date"`
	ActualHoursAdded  *decimal.Decimal `json:"actual_hours_added"`
	CompletionRemarks string           `json:"completion_remarks"`
	CompletionReport  string           `json:"completion_report"`
}

// Complete closes one record: restores the component's hours, reverts its
// serviceability state and stamps the completion facts. A record that is
// already Completed or Cancelled is rejected before any mutation, so a
// retried request can never restore hours twice.
func (s *MaintenanceService) Complete(ctx context.Context, actorID, id string, req *CompleteRequest) (*entity.ComponentMaintenance, error) {
	var record *entity.ComponentMaintenance
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		record, err = s.completeTx(tx, actorID, id, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (s *MaintenanceService) completeTx(tx *gorm.DB, actorID, id string, req *CompleteRequest) (*entity.ComponentMaintenance, error) {
	record, err := s.maintRepo.FindForUpdate(tx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	if record.MaintenanceStatus == entity.RecordStatusCompleted ||
		record.MaintenanceStatus == entity.RecordStatusCancelled {
		return nil, ErrAlreadyClosed
	}

	if req.ActualEndDate == nil || req.CompletionRemarks == "" {
		return nil, ErrMissingFields
	}

	if req.ActualStartDate != nil &&
		req.ActualEndDate.Before(*req.ActualStartDate) {
		return nil, ErrInvalidDates
	}

	hours := record.MaintenanceHoursAdded
	if req.ActualHoursAdded != nil {
		hours = *req.ActualHoursAdded
	}
	if hours.IsNegative() {
		return nil, ErrNegativeHours
	}

	component, err := s.componentRepo.FindForUpdate(tx, record.ComponentID)
	if err != nil && err != repository.ErrNotFound {
		return nil, err
	}

	if component != nil {
		if hours.IsPositive() {
			if _, err := s.ledger.RestoreHoursTx(tx, component.ID, hours, actorID); err != nil {
				return nil, err
			}
		}
		if component.MaintenanceStatus == entity.MaintStatusMaintenance {
			updates := map[string]interface{}{"maintenance_status": entity.MaintStatusOperational}
			if component.ComponentStatus == entity.ComponentStatusDetached {
				updates["component_status"] = entity.ComponentStatusAttached
				updates["date_attached"] = time.Now()
			}
			if err := tx.Model(&entity.Component{}).
				Where("id = ?", component.ID).
				Updates(updates).Error; err != nil {
				return nil, err
			}
		}
	}
	// A missing component means the row was deleted after scheduling. The
	// record still closes; there is just nothing to restore.

	completedAt := time.Now()
	record.MaintenanceStatus = entity.RecordStatusCompleted
	record.MainTypeSchedule = entity.ScheduleTypeOperational
	record.ActualStartDate = req.ActualStartDate
	record.ActualEndDate = req.ActualEndDate
	record.ActualHoursAdded = hours
	record.CompletedBy = actorID
	record.CompletionDate = &completedAt
	record.CompletionRemarks = req.CompletionRemarks
	record.CompletionReport = req.CompletionReport
	record.UpdatedDate = &completedAt
	record.UpdatedBy = actorID

	if err := tx.Save(record).Error; err != nil {
		return nil, fmt.Errorf("complete maintenance record: %w", err)
	}

	s.logger.Info("maintenance completed",
		zap.String("record_id", record.ID),
		zap.String("component_id", record.ComponentID),
		zap.String("hours_restored", hours.String()))
	return record, nil
}

// CompleteBatch closes every open record in a batch with the same completion
// facts, atomically. Records already Completed are skipped, a Cancelled
// record fails the whole batch.
func (s *MaintenanceService) CompleteBatch(ctx context.Context, actorID, batchID string, req *CompleteRequest) ([]entity.ComponentMaintenance, error) {
	var completed []entity.ComponentMaintenance
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		records, err := s.maintRepo.LockBatch(tx, batchID)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return ErrBatchNotFound
		}

		for _, record := range records {
			if record.MaintenanceStatus == entity.RecordStatusCompleted {
				continue
			}
			done, err := s.completeTx(tx, actorID, record.ID, req)
			if err != nil {
				return err
			}
			completed = append(completed, *done)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("maintenance batch completed",
		zap.String("batch_id", batchID),
		zap.Int("records", len(completed)))
	return completed, nil
}

// Cancel closes a record without restoring hours. The component's
// serviceability state reverts the same way completion does.
func (s *MaintenanceService) Cancel(ctx context.Context, actorID, id, remarks string) (*entity.ComponentMaintenance, error) {
	var record *entity.ComponentMaintenance
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		record, err = s.maintRepo.FindForUpdate(tx, id)
		if err != nil {
			if err == repository.ErrNotFound {
				return ErrRecordNotFound
			}
			return err
		}
		if record.MaintenanceStatus == entity.RecordStatusCompleted ||
			record.MaintenanceStatus == entity.RecordStatusCancelled {
			return ErrAlreadyClosed
		}

		if record.MainTypeSchedule == entity.ScheduleTypeMaintenance {
			if err := tx.Model(&entity.Component{}).
				Where("id = ? AND maintenance_status = ?", record.ComponentID, entity.MaintStatusMaintenance).
				Update("maintenance_status", entity.MaintStatusOperational).Error; err != nil {
				return err
			}
		}

		cancelledAt := time.Now()
		record.MaintenanceStatus = entity.RecordStatusCancelled
		record.UpdatedDate = &cancelledAt
		record.UpdatedBy = actorID
		record.UpdateComments = remarks
		return tx.Save(record).Error
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("maintenance cancelled", zap.String("record_id", record.ID))
	return record, nil
}

// RecordView pairs a stored record with its display status, where Scheduled
// past end date reads as Expired.
type RecordView struct {
	entity.ComponentMaintenance
	EffectiveStatus string `json:"effective_status"`
}

func (s *MaintenanceService) Get(ctx context.Context, id string) (*RecordView, error) {
	record, err := s.maintRepo.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &RecordView{ComponentMaintenance: *record, EffectiveStatus: record.EffectiveStatus(time.Now())}, nil
}

// List applies the filter and stamps effective statuses at one instant so a
// page of results classifies consistently.
func (s *MaintenanceService) List(ctx context.Context, filter repository.MaintenanceFilter) ([]RecordView, error) {
	at := time.Now()
	filter.Now = at

	if filter.AircraftID != "" {
		ids, err := s.componentRepo.SubtreeIDs(ctx, filter.AircraftID)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return []RecordView{}, nil
		}
		filter.ComponentIDs = ids
	}

	records, err := s.maintRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	views := make([]RecordView, 0, len(records))
	for _, record := range records {
		views = append(views, RecordView{
			ComponentMaintenance: record,
			EffectiveStatus:      record.EffectiveStatus(at),
		})
	}
	return views, nil
}

// ListBatch returns one batch's records with effective statuses.
func (s *MaintenanceService) ListBatch(ctx context.Context, batchID string) ([]RecordView, error) {
	records, err := s.maintRepo.ListByBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrBatchNotFound
	}

	at := time.Now()
	views := make([]RecordView, 0, len(records))
	for _, record := range records {
		views = append(views, RecordView{
			ComponentMaintenance: record,
			EffectiveStatus:      record.EffectiveStatus(at),
		})
	}
	return views, nil
}

// ListBatches summarizes recent scheduling batches.
func (s *MaintenanceService) ListBatches(ctx context.Context, limit int) ([]repository.BatchSummary, error) {
	return s.maintRepo.ListBatches(ctx, limit)
}

// DashboardView is the back-office landing page aggregate.
type DashboardView struct {
	Counts        *repository.StatusCounts       `json:"counts"`
	ScheduleTypes []repository.ScheduleTypeCount `json:"schedule_types"`
	Recent        []RecordView                   `json:"recent"`
}

// Dashboard aggregates the workflow state counts, the open-record split by
// schedule type and the latest scheduled records.
func (s *MaintenanceService) Dashboard(ctx context.Context) (*DashboardView, error) {
	at := time.Now()

	counts, err := s.maintRepo.CountsByStatus(ctx, at)
	if err != nil {
		return nil, err
	}
	scheduleTypes, err := s.maintRepo.CountsByScheduleType(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.maintRepo.ListRecent(ctx, 10)
	if err != nil {
		return nil, err
	}

	views := make([]RecordView, 0, len(recent))
	for _, record := range recent {
		views = append(views, RecordView{
			ComponentMaintenance: record,
			EffectiveStatus:      record.EffectiveStatus(at),
		})
	}
	return &DashboardView{Counts: counts, ScheduleTypes: scheduleTypes, Recent: views}, nil
}

// Calendar returns the records overlapping one calendar month.
func (s *MaintenanceService) Calendar(ctx context.Context, year int, month time.Month) ([]RecordView, error) {
	anchor := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	from := now.New(anchor).BeginningOfMonth()
	to := now.New(anchor).EndOfMonth()

	records, err := s.maintRepo.ListOverlapping(ctx, from, to)
	if err != nil {
		return nil, err
	}

	at := time.Now()
	views := make([]RecordView, 0, len(records))
	for _, record := range records {
		views = append(views, RecordView{
			ComponentMaintenance: record,
			EffectiveStatus:      record.EffectiveStatus(at),
		})
	}
	return views, nil
}
