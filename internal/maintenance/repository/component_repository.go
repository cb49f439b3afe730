package repository

import (
	"context"
	"errors"

	"github.com/mgeorge46/entebbe/internal/maintenance/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ComponentRepository provides access to the component tree. All four
// hierarchy levels live in one table discriminated by level.
type ComponentRepository struct {
	db *gorm.DB
}

func NewComponentRepository(db *gorm.DB) *ComponentRepository {
	return &ComponentRepository{db: db}
}

// FindByID looks a component up regardless of level.
func (r *ComponentRepository) FindByID(ctx context.Context, id string) (*entity.Component, error) {
	var component entity.Component
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&component).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &component, nil
}

// FindByTypeAndID resolves a (type tag, id) reference. The row must exist at
// the level the tag names, otherwise the reference is treated as not found.
func (r *ComponentRepository) FindByTypeAndID(ctx context.Context, componentType entity.ComponentType, id string) (*entity.Component, error) {
	var component entity.Component
	err := r.db.WithContext(ctx).
		Where("id = ? AND level = ?", id, componentType.Level()).
		First(&component).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &component, nil
}

// FindForUpdate loads a component under a row-level lock. Must run inside a
// transaction; used for every hours mutation.
func (r *ComponentRepository) FindForUpdate(tx *gorm.DB, id string) (*entity.Component, error) {
	var component entity.Component
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&component).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &component, nil
}

// Create inserts a new component.
func (r *ComponentRepository) Create(ctx context.Context, component *entity.Component) error {
	return r.db.WithContext(ctx).Create(component).Error
}

// Update saves a component.
func (r *ComponentRepository) Update(ctx context.Context, component *entity.Component) error {
	return r.db.WithContext(ctx).Save(component).Error
}

// HasAttachedConflict reports whether another Attached component at the same
// level already uses the name or the part number. excludeID skips the record
// itself on updates.
func (r *ComponentRepository) HasAttachedConflict(ctx context.Context, level int, name, partNumber, excludeID string) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&entity.Component{}).
		Where("level = ? AND component_status = ?", level, entity.ComponentStatusAttached).
		Where("component_name = ? OR part_number = ?", name, partNumber)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListByParent returns the immediate children of a component.
func (r *ComponentRepository) ListByParent(ctx context.Context, parentID string) ([]entity.Component, error) {
	var components []entity.Component
	err := r.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("component_name ASC").
		Find(&components).Error
	return components, err
}

// ListByAircraftLevel returns an aircraft's components at one level,
// optionally restricted to Attached rows. Levels below 0 are reached by
// walking the parent ids level by level, which keeps the query planner off
// recursive CTEs for a tree that is at most four levels deep.
func (r *ComponentRepository) ListByAircraftLevel(ctx context.Context, aircraftID string, level int, attachedOnly bool) ([]entity.Component, error) {
	ids, err := r.levelIDs(ctx, aircraftID, level, attachedOnly)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []entity.Component{}, nil
	}

	var components []entity.Component
	err = r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("component_name ASC").
		Find(&components).Error
	return components, err
}

// ListSubtree returns every component under an aircraft across all four
// levels, optionally restricted to Attached rows, ordered by level.
func (r *ComponentRepository) ListSubtree(ctx context.Context, aircraftID string, attachedOnly bool) ([]entity.Component, error) {
	var all []entity.Component
	for level := 0; level <= entity.MaxComponentLevel; level++ {
		ids, err := r.levelIDs(ctx, aircraftID, level, attachedOnly)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			break // nothing deeper can exist
		}
		var components []entity.Component
		if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&components).Error; err != nil {
			return nil, err
		}
		all = append(all, components...)
	}
	return all, nil
}

// SubtreeIDs collects every component id under an aircraft across all four
// levels, detached rows included so historical records stay reachable.
func (r *ComponentRepository) SubtreeIDs(ctx context.Context, aircraftID string) ([]string, error) {
	var all []string
	for level := 0; level <= entity.MaxComponentLevel; level++ {
		ids, err := r.levelIDs(ctx, aircraftID, level, false)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			break
		}
		all = append(all, ids...)
	}
	return all, nil
}

// SubtreeIDsForUpdate collects the ids of every Attached, Operational
// component under an aircraft while holding row locks on them. Attached
// components parked in maintenance still anchor the walk to their children
// but are excluded from the result, so usage never wears a component that is
// in the shop. Must run inside a transaction.
func (r *ComponentRepository) SubtreeIDsForUpdate(tx *gorm.DB, aircraftID string) ([]string, error) {
	var all []string
	parents := []string(nil)

	for level := 0; level <= entity.MaxComponentLevel; level++ {
		query := tx.Model(&entity.Component{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("level = ? AND component_status = ?", level, entity.ComponentStatusAttached)
		if level == 0 {
			query = query.Where("aircraft_id = ?", aircraftID)
		} else {
			if len(parents) == 0 {
				break
			}
			query = query.Where("parent_id IN ?", parents)
		}

		var rows []entity.Component
		if err := query.Select("id", "maintenance_status").Find(&rows).Error; err != nil {
			return nil, err
		}
		parents = parents[:0]
		for _, row := range rows {
			parents = append(parents, row.ID)
			if row.MaintenanceStatus == entity.MaintStatusOperational {
				all = append(all, row.ID)
			}
		}
	}
	return all, nil
}

// SerialExists reports whether any component already uses the serial number.
func (r *ComponentRepository) SerialExists(ctx context.Context, serial string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Component{}).
		Where("serial_number = ?", serial).
		Count(&count).Error
	return count > 0, err
}

// CountByAircraftLevel returns the number of an aircraft's Attached
// components at one level, split into below/at-or-above the hours threshold.
func (r *ComponentRepository) CountByAircraftLevel(ctx context.Context, aircraftID string, level int, lowHoursBelow int64) (total, low int64, err error) {
	ids, err := r.levelIDs(ctx, aircraftID, level, true)
	if err != nil {
		return 0, 0, err
	}
	if len(ids) == 0 {
		return 0, 0, nil
	}
	total = int64(len(ids))
	err = r.db.WithContext(ctx).Model(&entity.Component{}).
		Where("id IN ? AND maintenance_hours < ?", ids, lowHoursBelow).
		Count(&low).Error
	return total, low, err
}

// levelIDs walks the parent chain down to the requested level.
func (r *ComponentRepository) levelIDs(ctx context.Context, aircraftID string, level int, attachedOnly bool) ([]string, error) {
	parents := []string(nil)

	for l := 0; l <= level; l++ {
		query := r.db.WithContext(ctx).Model(&entity.Component{}).Where("level = ?", l)
		if attachedOnly {
			query = query.Where("component_status = ?", entity.ComponentStatusAttached)
		}
		if l == 0 {
			query = query.Where("aircraft_id = ?", aircraftID)
		} else {
			if len(parents) == 0 {
				return nil, nil
			}
			query = query.Where("parent_id IN ?", parents)
		}

		var ids []string
		if err := query.Pluck("id", &ids).Error; err != nil {
			return nil, err
		}
		parents = ids
	}
	return parents, nil
}
