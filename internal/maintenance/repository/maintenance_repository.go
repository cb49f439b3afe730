package repository

import (
	"context"
	"errors"
	"time"

	"github.com/mgeorge46/entebbe/internal/maintenance/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MaintenanceFilter narrows maintenance record listings. Status accepts the
// stored states plus the computed "Expired" bucket; an empty status lists
// everything.
type MaintenanceFilter struct {
	Status        string
	ComponentType entity.ComponentType
	ComponentID   string
	// ComponentIDs restricts to a set of components. The service fills it
	// from AircraftID by walking the aircraft's tree.
	ComponentIDs []string
	AircraftID   string
	BatchID      string
	// Search matches remarks, completion remarks and batch id.
	Search string
	From   *time.Time
	To     *time.Time
	Now    time.Time
}

// MaintenanceRepository provides access to component maintenance records.
type MaintenanceRepository struct {
	db *gorm.DB
}

func NewMaintenanceRepository(db *gorm.DB) *MaintenanceRepository {
	return &MaintenanceRepository{db: db}
}

func (r *MaintenanceRepository) FindByID(ctx context.Context, id string) (*entity.ComponentMaintenance, error) {
	var record entity.ComponentMaintenance
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindForUpdate loads a record under a row-level lock. Must run inside a
// transaction; completion and cancellation go through here.
func (r *MaintenanceRepository) FindForUpdate(tx *gorm.DB, id string) (*entity.ComponentMaintenance, error) {
	var record entity.ComponentMaintenance
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *MaintenanceRepository) Create(ctx context.Context, record *entity.ComponentMaintenance) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *MaintenanceRepository) Update(ctx context.Context, record *entity.ComponentMaintenance) error {
	return r.db.WithContext(ctx).Save(record).Error
}

// ListByBatch returns all records scheduled under one batch id.
func (r *MaintenanceRepository) ListByBatch(ctx context.Context, batchID string) ([]entity.ComponentMaintenance, error) {
	var records []entity.ComponentMaintenance
	err := r.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Order("start_date ASC, id ASC").
		Find(&records).Error
	return records, err
}

// LockBatch loads a batch's records under row locks, in a stable order so
// concurrent batch completions cannot deadlock. Must run inside a transaction.
func (r *MaintenanceRepository) LockBatch(tx *gorm.DB, batchID string) ([]entity.ComponentMaintenance, error) {
	var records []entity.ComponentMaintenance
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("batch_id = ?", batchID).
		Order("id ASC").
		Find(&records).Error
	return records, err
}

// List applies the filter. The "Scheduled" and "Expired" buckets split the
// stored Scheduled state on end_date against filter.Now.
func (r *MaintenanceRepository) List(ctx context.Context, filter MaintenanceFilter) ([]entity.ComponentMaintenance, error) {
	query := r.db.WithContext(ctx).Model(&entity.ComponentMaintenance{})

	switch filter.Status {
	case "":
		// all records
	case entity.RecordStatusScheduled:
		query = query.Where("maintenance_status = ? AND end_date >= ?", entity.RecordStatusScheduled, filter.Now)
	case entity.RecordStatusExpired:
		query = query.Where("maintenance_status = ? AND end_date < ?", entity.RecordStatusScheduled, filter.Now)
	default:
		query = query.Where("maintenance_status = ?", filter.Status)
	}
	if filter.ComponentType != "" {
		query = query.Where("component_type = ?", filter.ComponentType)
	}
	if filter.ComponentID != "" {
		query = query.Where("component_id = ?", filter.ComponentID)
	}
	if len(filter.ComponentIDs) > 0 {
		query = query.Where("component_id IN ?", filter.ComponentIDs)
	}
	if filter.BatchID != "" {
		query = query.Where("batch_id = ?", filter.BatchID)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("remarks ILIKE ? OR completion_remarks ILIKE ? OR batch_id ILIKE ?",
			pattern, pattern, pattern)
	}
	if filter.From != nil {
		query = query.Where("end_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("start_date <= ?", *filter.To)
	}

	var records []entity.ComponentMaintenance
	err := query.Order("start_date DESC, id DESC").Find(&records).Error
	return records, err
}

// ListActiveForComponent returns a component's open (Scheduled, any age)
// records. Used to block duplicate scheduling.
func (r *MaintenanceRepository) ListActiveForComponent(ctx context.Context, componentType entity.ComponentType, componentID string) ([]entity.ComponentMaintenance, error) {
	var records []entity.ComponentMaintenance
	err := r.db.WithContext(ctx).
		Where("component_type = ? AND component_id = ? AND maintenance_status = ?",
			componentType, componentID, entity.RecordStatusScheduled).
		Find(&records).Error
	return records, err
}

// StatusCounts holds the dashboard breakdown. Scheduled and Expired split the
// stored Scheduled state by end_date.
type StatusCounts struct {
	Scheduled  int64 `json:"scheduled"`
	InProgress int64 `json:"in_progress"`
	Expired    int64 `json:"expired"`
	Completed  int64 `json:"completed"`
	Cancelled  int64 `json:"cancelled"`
}

func (r *MaintenanceRepository) CountsByStatus(ctx context.Context, at time.Time) (*StatusCounts, error) {
	counts := &StatusCounts{}
	model := func() *gorm.DB { return r.db.WithContext(ctx).Model(&entity.ComponentMaintenance{}) }

	if err := model().
		Where("maintenance_status = ? AND end_date >= ?", entity.RecordStatusScheduled, at).
		Count(&counts.Scheduled).Error; err != nil {
		return nil, err
	}
	if err := model().
		Where("maintenance_status = ? AND end_date < ?", entity.RecordStatusScheduled, at).
		Count(&counts.Expired).Error; err != nil {
		return nil, err
	}
	if err := model().
		Where("maintenance_status = ?", entity.RecordStatusInProgress).
		Count(&counts.InProgress).Error; err != nil {
		return nil, err
	}
	if err := model().
		Where("maintenance_status = ?", entity.RecordStatusCompleted).
		Count(&counts.Completed).Error; err != nil {
		return nil, err
	}
	if err := model().
		Where("maintenance_status = ?", entity.RecordStatusCancelled).
		Count(&counts.Cancelled).Error; err != nil {
		return nil, err
	}
	return counts, nil
}

// ScheduleTypeCount splits open records by their schedule type.
type ScheduleTypeCount struct {
	MainTypeSchedule string `json:"main_type_schedule"`
	Records          int64  `json:"records"`
}

func (r *MaintenanceRepository) CountsByScheduleType(ctx context.Context) ([]ScheduleTypeCount, error) {
	var counts []ScheduleTypeCount
	err := r.db.WithContext(ctx).Model(&entity.ComponentMaintenance{}).
		Select("main_type_schedule, COUNT(*) AS records").
		Where("maintenance_status = ?", entity.RecordStatusScheduled).
		Group("main_type_schedule").
		Scan(&counts).Error
	return counts, err
}

// ListRecent returns the newest records by scheduling time.
func (r *MaintenanceRepository) ListRecent(ctx context.Context, limit int) ([]entity.ComponentMaintenance, error) {
	var records []entity.ComponentMaintenance
	err := r.db.WithContext(ctx).
		Order("record_date DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}

// ListOverlapping returns records whose scheduled window overlaps [from, to].
// Feeds the whiteboard calendar.
func (r *MaintenanceRepository) ListOverlapping(ctx context.Context, from, to time.Time) ([]entity.ComponentMaintenance, error) {
	var records []entity.ComponentMaintenance
	err := r.db.WithContext(ctx).
		Where("start_date <= ? AND end_date >= ?", to, from).
		Order("start_date ASC").
		Find(&records).Error
	return records, err
}

// BatchSummary describes one scheduling batch.
type BatchSummary struct {
	BatchID   string    `json:"batch_id"`
	Records   int64     `json:"records"`
	Open      int64     `json:"open"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// ListBatches returns per-batch summaries, newest first.
func (r *MaintenanceRepository) ListBatches(ctx context.Context, limit int) ([]BatchSummary, error) {
	var summaries []BatchSummary
	query := r.db.WithContext(ctx).Model(&entity.ComponentMaintenance{}).
		Select(`batch_id,
			COUNT(*) AS records,
			COUNT(*) FILTER (WHERE maintenance_status = ?) AS open,
			MIN(start_date) AS start_date,
			MAX(end_date) AS end_date`, entity.RecordStatusScheduled).
		Group("batch_id").
		Order("batch_id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Scan(&summaries).Error
	return summaries, err
}
