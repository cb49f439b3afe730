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
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ComponentService manages the four-level component tree.
type ComponentService struct {
	componentRepo *repository.ComponentRepository
	aircraftRepo  *repository.AircraftRepository
	resolver      *ResolverService
	db            *gorm.DB
	cfg           *config.Config
	logger        *zap.Logger
}

func NewComponentService(componentRepo *repository.ComponentRepository, aircraftRepo *repository.AircraftRepository, resolver *ResolverService, db *gorm.DB, cfg *config.Config, logger *zap.Logger) *ComponentService {
	return &ComponentService{
		componentRepo: componentRepo,
		aircraftRepo:  aircraftRepo,
		resolver:      resolver,
		db:            db,
		cfg:           cfg,
		logger:        logger,
	}
}

// CreateComponentRequest creates one component at any level. Main components
// name an aircraft, deeper levels name a parent one level up.
type CreateComponentRequest struct {
	ComponentType entity.ComponentType `json:"component_type" binding:"required"`
	AircraftID    string               `json:"aircraft_id"`
	ParentID      string               `json:"parent_id"`

	ComponentName    string          `json:"component_name" binding:"required"`
	MaintenanceHours decimal.Decimal `json:"maintenance_hours"`
	ComponentMake    string          `json:"component_make"`
	ComponentModel   string          `json:"component_model"`
	PartNumber       string          `json:"part_number" binding:"required"`
	SerialNumber     string          `json:"serial_number"`
	Description      string          `json:"description"`
	LRU              string          `json:"lru"`
	TSN              string          `json:"tsn"`
	CSN              string          `json:"csn"`
	ATA              string          `json:"ata"`
	InstallDate      *time.Time      `json:"install_date"`
	DeliveryDate     *time.Time      `json:"delivery_date"`
	Location         string          `json:"component_location"`
	Remarks          string          `json:"remarks"`

	ItemCycle           *int                `json:"item_cycle"`
	MaxItemCycle        *int                `json:"max_item_cycle"`
	ItemCalender        *time.Time          `json:"item_calender"`
	ItemCalenderMonths  *int                `json:"item_calender_months"`
	MinMaintenanceHours decimal.NullDecimal `json:"min_maintenance_hours"`

	ComponentStatus string `json:"component_status"`
}

// buildComponent validates the tree shape and attached-uniqueness rules and
// assembles the row. Serial checks and the insert are the caller's.
func (s *ComponentService) buildComponent(ctx context.Context, actorID string, req *CreateComponentRequest) (*entity.Component, error) {
	if !req.ComponentType.Valid() {
		return nil, ErrInvalidComponentType
	}
	level := req.ComponentType.Level()

	component := &entity.Component{
		ID:                  uuid.New().String()[:32],
		Level:               level,
		ComponentName:       req.ComponentName,
		MaintenanceHours:    req.MaintenanceHours,
		ComponentMake:       req.ComponentMake,
		ComponentModel:      req.ComponentModel,
		PartNumber:          req.PartNumber,
		SerialNumber:        req.SerialNumber,
		Description:         req.Description,
		LRU:                 req.LRU,
		TSN:                 req.TSN,
		CSN:                 req.CSN,
		ATA:                 req.ATA,
		InstallDate:         req.InstallDate,
		DeliveryDate:        req.DeliveryDate,
		ComponentLocation:   req.Location,
		Remarks:             req.Remarks,
		ItemCycle:           req.ItemCycle,
		MaxItemCycle:        req.MaxItemCycle,
		ItemCalender:        req.ItemCalender,
		ItemCalenderMonths:  req.ItemCalenderMonths,
		MinMaintenanceHours: req.MinMaintenanceHours,
		MaintenanceStatus:   entity.MaintStatusOperational,
		ComponentStatus:     req.ComponentStatus,
		RecordDate:          time.Now(),
		AddedBy:             actorID,
	}
	if component.ComponentStatus == "" {
		component.ComponentStatus = entity.ComponentStatusAttached
	}
	// Hours at delivery, fixed for the lifetime of the record.
	component.ItemOriginalHours = req.MaintenanceHours

	if level == 0 {
		if req.AircraftID == "" {
			return nil, ErrMissingFields
		}
		if _, err := s.aircraftRepo.FindByID(ctx, req.AircraftID); err != nil {
			if err == repository.ErrNotFound {
				return nil, ErrAircraftNotFound
			}
			return nil, err
		}
		component.AircraftID = &req.AircraftID
	} else {
		if req.ParentID == "" {
			return nil, ErrMissingFields
		}
		parent, err := s.componentRepo.FindByID(ctx, req.ParentID)
		if err != nil {
			if err == repository.ErrNotFound {
				return nil, ErrComponentNotFound
			}
			return nil, err
		}
		if parent.Level != level-1 {
			return nil, ErrInvalidParent
		}
		component.ParentID = &req.ParentID
	}

	if component.ComponentStatus == entity.ComponentStatusAttached {
		conflict, err := s.componentRepo.HasAttachedConflict(ctx, level, component.ComponentName, component.PartNumber, "")
		if err != nil {
			return nil, err
		}
		if conflict {
			return nil, ErrDuplicateAttached
		}
	}
	return component, nil
}

// Create validates the tree shape and uniqueness rules, snapshots the
// original hours and inserts the component.
func (s *ComponentService) Create(ctx context.Context, actorID string, req *CreateComponentRequest) (*entity.Component, error) {
	if req.SerialNumber == "" {
		return nil, ErrMissingFields
	}
	component, err := s.buildComponent(ctx, actorID, req)
	if err != nil {
		return nil, err
	}

	taken, err := s.componentRepo.SerialExists(ctx, component.SerialNumber)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrDuplicateSerial
	}

	if err := s.componentRepo.Create(ctx, component); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSerial, component.SerialNumber)
		}
		return nil, fmt.Errorf("create component: %w", err)
	}

	s.logger.Info("component created",
		zap.String("id", component.ID),
		zap.String("type", string(req.ComponentType)),
		zap.String("serial", component.SerialNumber))
	return component, nil
}

// BulkCreate stamps one component per serial number from the request as a
// template. Like clones, the rows land in Stores so a shared name and part
// number cannot trip the attached-uniqueness rule. Either every serial is
// created or none are.
func (s *ComponentService) BulkCreate(ctx context.Context, actorID string, req *CreateComponentRequest, serials []string) ([]entity.Component, error) {
	if len(serials) == 0 {
		return nil, ErrMissingFields
	}

	template := *req
	template.ComponentStatus = entity.ComponentStatusStores
	template.SerialNumber = serials[0]
	base, err := s.buildComponent(ctx, actorID, &template)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(serials))
	for _, serial := range serials {
		if serial == "" {
			return nil, ErrMissingFields
		}
		if _, dup := seen[serial]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSerial, serial)
		}
		seen[serial] = struct{}{}
		taken, err := s.componentRepo.SerialExists(ctx, serial)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSerial, serial)
		}
	}

	created := make([]entity.Component, 0, len(serials))
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, serial := range serials {
			component := *base
			component.ID = uuid.New().String()[:32]
			component.SerialNumber = serial
			component.RecordDate = time.Now()

			if err := tx.Create(&component).Error; err != nil {
				if isUniqueViolation(err) {
					return fmt.Errorf("%w: %s", ErrDuplicateSerial, serial)
				}
				return fmt.Errorf("bulk create component: %w", err)
			}
			created = append(created, component)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("components bulk created",
		zap.String("type", string(req.ComponentType)),
		zap.Int("count", len(created)))
	return created, nil
}

// UpdateComponentRequest carries the mutable fields. Hours are not here:
// they move only through the ledger and the completion workflow.
type UpdateComponentRequest struct {
	ComponentName  string     `json:"component_name"`
	ComponentMake  string     `json:"component_make"`
	ComponentModel string     `json:"component_model"`
	PartNumber     string     `json:"part_number"`
	Description    string     `json:"description"`
	LRU            string     `json:"lru"`
	TSN            string     `json:"tsn"`
	CSN            string     `json:"csn"`
	ATA            string     `json:"ata"`
	InstallDate    *time.Time `json:"install_date"`
	Location       string     `json:"component_location"`
	Remarks        string     `json:"remarks"`

	MaxItemCycle        *int                `json:"max_item_cycle"`
	ItemCalender        *time.Time          `json:"item_calender"`
	ItemCalenderMonths  *int                `json:"item_calender_months"`
	MinMaintenanceHours decimal.NullDecimal `json:"min_maintenance_hours"`

	UpdateComments string `json:"update_comments"`
}

func (s *ComponentService) Update(ctx context.Context, actorID, id string, req *UpdateComponentRequest) (*entity.Component, error) {
	component, err := s.componentRepo.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrComponentNotFound
		}
		return nil, err
	}

	if req.ComponentName != "" {
		component.ComponentName = req.ComponentName
	}
	if req.PartNumber != "" {
		component.PartNumber = req.PartNumber
	}
	if component.ComponentStatus == entity.ComponentStatusAttached {
		conflict, err := s.componentRepo.HasAttachedConflict(ctx, component.Level, component.ComponentName, component.PartNumber, component.ID)
		if err != nil {
			return nil, err
		}
		if conflict {
			return nil, ErrDuplicateAttached
		}
	}

	if req.ComponentMake != "" {
		component.ComponentMake = req.ComponentMake
	}
	if req.ComponentModel != "" {
		component.ComponentModel = req.ComponentModel
	}
	if req.Description != "" {
		component.Description = req.Description
	}
	if req.LRU != "" {
		component.LRU = req.LRU
	}
	if req.TSN != "" {
		component.TSN = req.TSN
	}
	if req.CSN != "" {
		component.CSN = req.CSN
	}
	if req.ATA != "" {
		component.ATA = req.ATA
	}
	if req.InstallDate != nil {
		component.InstallDate = req.InstallDate
	}
	if req.Location != "" {
		component.ComponentLocation = req.Location
	}
	if req.Remarks != "" {
		component.Remarks = req.Remarks
	}
	if req.MaxItemCycle != nil {
		component.MaxItemCycle = req.MaxItemCycle
	}
	if req.ItemCalender != nil {
		component.ItemCalender = req.ItemCalender
	}
	if req.ItemCalenderMonths != nil {
		component.ItemCalenderMonths = req.ItemCalenderMonths
	}
	if req.MinMaintenanceHours.Valid {
		component.MinMaintenanceHours = req.MinMaintenanceHours
	}

	now := time.Now()
	component.UpdatedDate = &now
	component.UpdatedBy = actorID
	component.UpdateComments = req.UpdateComments

	if err := s.componentRepo.Update(ctx, component); err != nil {
		return nil, fmt.Errorf("update component: %w", err)
	}
	return component, nil
}

func (s *ComponentService) Get(ctx context.Context, id string) (*entity.Component, error) {
	component, err := s.componentRepo.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrComponentNotFound
		}
		return nil, err
	}
	return component, nil
}

// GetByTypeAndID resolves a polymorphic reference to the component row.
func (s *ComponentService) GetByTypeAndID(ctx context.Context, componentType entity.ComponentType, id string) (*entity.Component, error) {
	if !componentType.Valid() {
		return nil, ErrInvalidComponentType
	}
	component, err := s.componentRepo.FindByTypeAndID(ctx, componentType, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrComponentNotFound
		}
		return nil, err
	}
	return component, nil
}

// ListByAircraft returns an aircraft's components at one level.
func (s *ComponentService) ListByAircraft(ctx context.Context, aircraftID string, componentType entity.ComponentType, attachedOnly bool) ([]entity.Component, error) {
	if !componentType.Valid() {
		return nil, ErrInvalidComponentType
	}
	return s.componentRepo.ListByAircraftLevel(ctx, aircraftID, componentType.Level(), attachedOnly)
}

// ListChildren returns a component's immediate children.
func (s *ComponentService) ListChildren(ctx context.Context, parentID string) ([]entity.Component, error) {
	return s.componentRepo.ListByParent(ctx, parentID)
}

// ComponentNode is one node of the nested tree view.
type ComponentNode struct {
	entity.Component
	Children []*ComponentNode `json:"children,omitempty"`
}

// Tree assembles the aircraft's full component tree in memory from one
// subtree read.
func (s *ComponentService) Tree(ctx context.Context, aircraftID string) ([]*ComponentNode, error) {
	if _, err := s.aircraftRepo.FindByID(ctx, aircraftID); err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrAircraftNotFound
		}
		return nil, err
	}

	components, err := s.componentRepo.ListSubtree(ctx, aircraftID, false)
	if err != nil {
		return nil, err
	}

	nodes := make(map[string]*ComponentNode, len(components))
	for i := range components {
		nodes[components[i].ID] = &ComponentNode{Component: components[i]}
	}

	var roots []*ComponentNode
	for _, node := range nodes {
		if node.Level == 0 {
			roots = append(roots, node)
			continue
		}
		if node.ParentID != nil {
			if parent, ok := nodes[*node.ParentID]; ok {
				parent.Children = append(parent.Children, node)
			}
		}
	}
	return roots, nil
}

// CloneRequest duplicates a component once per serial number. Clones land in
// Stores so they never trip the attached-uniqueness rule.
type CloneRequest struct {
	SerialNumbers []string `json:"serial_numbers" binding:"required,min=1"`
}

func (s *ComponentService) Clone(ctx context.Context, actorID, id string, req *CloneRequest) ([]entity.Component, error) {
	source, err := s.componentRepo.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrComponentNotFound
		}
		return nil, err
	}

	for _, serial := range req.SerialNumbers {
		if serial == "" {
			return nil, ErrMissingFields
		}
		taken, err := s.componentRepo.SerialExists(ctx, serial)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSerial, serial)
		}
	}

	clones := make([]entity.Component, 0, len(req.SerialNumbers))
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, serial := range req.SerialNumbers {
			clone := *source
			clone.ID = uuid.New().String()[:32]
			clone.SerialNumber = serial
			clone.ComponentStatus = entity.ComponentStatusStores
			clone.MaintenanceStatus = entity.MaintStatusOperational
			clone.ItemCycle = nil
			clone.DateAttached = nil
			clone.DateDetached = nil
			clone.DateReProvisioned = nil
			clone.RecordDate = time.Now()
			clone.AddedBy = actorID
			clone.UpdatedDate = nil
			clone.UpdatedBy = ""
			clone.UpdateComments = ""
			clone.Aircraft = nil
			clone.Parent = nil
			clone.Children = nil

			if err := tx.Create(&clone).Error; err != nil {
				if isUniqueViolation(err) {
					return fmt.Errorf("%w: %s", ErrDuplicateSerial, serial)
				}
				return fmt.Errorf("clone component: %w", err)
			}
			clones = append(clones, clone)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("component cloned",
		zap.String("source_id", id),
		zap.Int("copies", len(clones)))
	return clones, nil
}

// Detach marks a component Detached and drops its resolver cache entry.
func (s *ComponentService) Detach(ctx context.Context, actorID, id, comments string) (*entity.Component, error) {
	return s.setAttachment(ctx, actorID, id, comments, entity.ComponentStatusDetached)
}

// Reattach puts a Detached or Stores component back on the tree, re-checking
// the attached-uniqueness rule.
func (s *ComponentService) Reattach(ctx context.Context, actorID, id, comments string) (*entity.Component, error) {
	return s.setAttachment(ctx, actorID, id, comments, entity.ComponentStatusAttached)
}

// ReProvision pulls a component off the tree into stores for overhaul or
// replacement. It leaves that state through Reattach.
func (s *ComponentService) ReProvision(ctx context.Context, actorID, id, comments string) (*entity.Component, error) {
	component, err := s.componentRepo.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrComponentNotFound
		}
		return nil, err
	}

	now := time.Now()
	component.ComponentStatus = entity.ComponentStatusStores
	component.MaintenanceStatus = entity.MaintStatusReProvisioned
	component.DateDetached = &now
	component.UpdatedDate = &now
	component.UpdatedBy = actorID
	component.UpdateComments = comments

	if err := s.componentRepo.Update(ctx, component); err != nil {
		return nil, err
	}
	s.resolver.Invalidate(ctx, component.Type(), component.ID)
	return component, nil
}

func (s *ComponentService) setAttachment(ctx context.Context, actorID, id, comments, status string) (*entity.Component, error) {
	component, err := s.componentRepo.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrComponentNotFound
		}
		return nil, err
	}

	now := time.Now()
	switch status {
	case entity.ComponentStatusAttached:
		conflict, err := s.componentRepo.HasAttachedConflict(ctx, component.Level, component.ComponentName, component.PartNumber, component.ID)
		if err != nil {
			return nil, err
		}
		if conflict {
			return nil, ErrDuplicateAttached
		}
		component.DateAttached = &now
		if component.MaintenanceStatus == entity.MaintStatusReProvisioned {
			component.MaintenanceStatus = entity.MaintStatusOperational
		}
	case entity.ComponentStatusDetached:
		component.DateDetached = &now
	}

	component.ComponentStatus = status
	component.UpdatedDate = &now
	component.UpdatedBy = actorID
	component.UpdateComments = comments

	if err := s.componentRepo.Update(ctx, component); err != nil {
		return nil, err
	}
	s.resolver.Invalidate(ctx, component.Type(), component.ID)
	return component, nil
}
