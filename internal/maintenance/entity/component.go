package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ComponentType discriminates the four hierarchy levels. Maintenance records
// store it next to the component id so list queries never need a join.
type ComponentType string

const (
	ComponentTypeMain ComponentType = "main"
	ComponentTypeSub  ComponentType = "sub"
	ComponentTypeSub2 ComponentType = "sub2"
	ComponentTypeSub3 ComponentType = "sub3"
)

// MaxComponentLevel is the deepest hierarchy level (Main=0 .. Sub3=3).
const MaxComponentLevel = 3

// Valid reports whether t is one of the four known discriminators.
func (t ComponentType) Valid() bool {
	switch t {
	case ComponentTypeMain, ComponentTypeSub, ComponentTypeSub2, ComponentTypeSub3:
		return true
	}
	return false
}

// Level returns the hierarchy level (0-3), or -1 for an unknown tag.
func (t ComponentType) Level() int {
	switch t {
	case ComponentTypeMain:
		return 0
	case ComponentTypeSub:
		return 1
	case ComponentTypeSub2:
		return 2
	case ComponentTypeSub3:
		return 3
	}
	return -1
}

// TypeName returns the human-readable component type name.
func (t ComponentType) TypeName() string {
	switch t {
	case ComponentTypeMain:
		return "Main Component"
	case ComponentTypeSub:
		return "Sub Component"
	case ComponentTypeSub2:
		return "Sub2 Component"
	case ComponentTypeSub3:
		return "Sub3 Component"
	}
	return "Unknown Component"
}

// ComponentTypeForLevel is the inverse of Level.
func ComponentTypeForLevel(level int) (ComponentType, bool) {
	switch level {
	case 0:
		return ComponentTypeMain, true
	case 1:
		return ComponentTypeSub, true
	case 2:
		return ComponentTypeSub2, true
	case 3:
		return ComponentTypeSub3, true
	}
	return "", false
}

// Component status values (physical attachment state).
const (
	ComponentStatusAttached = "Attached"
	ComponentStatusDetached = "Detached"
	ComponentStatusStores   = "Stores"
)

// Component maintenance status values (serviceability state).
const (
	MaintStatusOperational   = "Operational"
	MaintStatusMaintenance   = "Maintenance"
	MaintStatusReProvisioned = "Re-Provisioned"
)

// Component is one physical part record at one of the four hierarchy levels.
// A single table holds all levels: level 0 rows attach to an aircraft, levels
// 1-3 attach to a parent component exactly one level up. The "exactly four
// levels, never skip-level" shape is enforced by validation on create.
type Component struct {
	ID         string  `json:"id" gorm:"primaryKey;size:32"`
	Level      int     `json:"level" gorm:"not null;index"`
	AircraftID *string `json:"aircraft_id,omitempty" gorm:"size:32;index"` // set on level 0 only
	ParentID   *string `json:"parent_id,omitempty" gorm:"size:32;index"`  // set on levels 1-3 only

	ComponentName    string          `json:"component_name" gorm:"size:50;not null"`
	MaintenanceHours decimal.Decimal `json:"maintenance_hours" gorm:"type:numeric(20,2);not null;default:0"`
	ComponentMake    string          `json:"component_make" gorm:"size:50"`
	ComponentModel   string          `json:"component_model" gorm:"size:50"`
	PartNumber       string          `json:"part_number" gorm:"size:50;not null"`
	SerialNumber     string          `json:"serial_number" gorm:"size:50;not null;uniqueIndex"`
	Description      string          `json:"description" gorm:"size:100"`
	LRU              string          `json:"lru,omitempty" gorm:"size:50"`
	TSN              string          `json:"tsn,omitempty" gorm:"size:50"`
	CSN              string          `json:"csn,omitempty" gorm:"size:50"`
	ATA              string          `json:"ata,omitempty" gorm:"size:50"`
	InstallDate       *time.Time `json:"install_date,omitempty"`
	DeliveryDate      *time.Time `json:"delivery_date,omitempty"`
	ComponentLocation string     `json:"component_location,omitempty" gorm:"size:250"`
	Remarks           string     `json:"remarks,omitempty"`

	// Hours/cycle bookkeeping. ItemOriginalHours is snapshotted from
	// MaintenanceHours on first save and never rewritten afterwards.
	ItemOriginalHours   decimal.Decimal     `json:"item_original_hours" gorm:"type:numeric(20,2);not null;default:0"`
	ItemCycle           *int                `json:"item_cycle,omitempty"`
	MaxItemCycle        *int                `json:"max_item_cycle,omitempty"`
	ItemCalender        *time.Time          `json:"item_calender,omitempty"`
	ItemCalenderMonths  *int                `json:"item_calender_months,omitempty"`
	MinMaintenanceHours decimal.NullDecimal `json:"min_maintenance_hours,omitempty" gorm:"type:numeric(20,2)"`

	MaintenanceStatus   string     `json:"maintenance_status" gorm:"size:20;not null;default:Operational"` // Operational/Maintenance/Re-Provisioned
	ComponentStatus     string     `json:"component_status" gorm:"size:20;not null;default:Attached"`      // Attached/Detached/Stores
	DateDetached        *time.Time `json:"date_detached,omitempty"`
	DateReProvisioned   *time.Time `json:"date_re_provisioned,omitempty"`
	DateAttached        *time.Time `json:"date_attached,omitempty"`
	NextMaintenanceDate *time.Time `json:"next_maintenance_date,omitempty"`

	RecordDate     time.Time  `json:"record_date"`
	AddedBy        string     `json:"added_by" gorm:"size:32"`
	UpdatedDate    *time.Time `json:"updated_date,omitempty"`
	UpdateComments string     `json:"update_comments,omitempty" gorm:"size:500"`
	UpdatedBy      string     `json:"updated_by,omitempty" gorm:"size:50"`

	// Relations
	Aircraft *Aircraft   `json:"aircraft,omitempty" gorm:"foreignKey:AircraftID"`
	Parent   *Component  `json:"parent,omitempty" gorm:"foreignKey:ParentID"`
	Children []Component `json:"children,omitempty" gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE"`
}

func (Component) TableName() string {
	return "components"
}

// Type returns the discriminator matching the component's level.
func (c *Component) Type() ComponentType {
	t, _ := ComponentTypeForLevel(c.Level)
	return t
}

// NeedsMaintenance reports whether the remaining hours budget has reached
// the configured floor.
func (c *Component) NeedsMaintenance() bool {
	return c.MinMaintenanceHours.Valid &&
		c.MaintenanceHours.LessThanOrEqual(c.MinMaintenanceHours.Decimal)
}
