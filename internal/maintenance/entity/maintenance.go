package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Maintenance check classes.
const (
	MaintenanceClassA = "Class_A"
	MaintenanceClassB = "Class_B"
	MaintenanceClassC = "Class_C"
	MaintenanceClassD = "Class_D"
)

// Schedule types (main_type_schedule).
const (
	ScheduleTypeOperational = "Operational"
	ScheduleTypeMaintenance = "Maintenance"
)

// Workflow states for a maintenance record. Expired is not stored: it is the
// query-time classification of a Scheduled record whose end_date has passed.
const (
	RecordStatusScheduled  = "Scheduled"
	RecordStatusInProgress = "In Progress"
	RecordStatusCompleted  = "Completed"
	RecordStatusCancelled  = "Cancelled"
	RecordStatusExpired    = "Expired" // view label only, never persisted
)

// Scheduling sources.
const (
	ScheduleSourceBatch = "batch"
	ScheduleSourceQuick = "quick"
	ScheduleSourceAuto  = "auto"
)

// ComponentMaintenance schedules a maintenance event against any node of the
// component tree. The (ComponentType, ComponentID) pair is a weak reference:
// deleting the component orphans historical rows, there is no cascade.
type ComponentMaintenance struct {
	ID string `json:"id" gorm:"primaryKey;size:32"`

	ComponentType ComponentType `json:"component_type" gorm:"size:16;not null;index:idx_cm_component"`
	ComponentID   string        `json:"component_id" gorm:"size:32;not null;index:idx_cm_component"`

	// BatchID groups records scheduled by one action so they can be
	// completed together. Single schedules get a batch of one.
	BatchID string `json:"batch_id" gorm:"size:40;not null;index"`
	Source  string `json:"source" gorm:"size:16;not null;default:batch"` // batch/quick/auto

	MainTypeSchedule      string          `json:"main_type_schedule" gorm:"size:20;not null"`
	MaintenanceType       string          `json:"maintenance_type" gorm:"size:20;not null"`
	MaintenanceHours      decimal.Decimal `json:"maintenance_hours" gorm:"type:numeric(10,2);not null;default:0"` // component hours snapshot at scheduling
	MaintenanceHoursAdded decimal.Decimal `json:"maintenance_hours_added" gorm:"type:numeric(10,2);not null;default:0"`
	StartDate             time.Time       `json:"start_date" gorm:"not null;index"`
	EndDate               time.Time       `json:"end_date" gorm:"not null"`
	Remarks               string          `json:"remarks" gorm:"size:500"`

	MaintenanceStatus string `json:"maintenance_status" gorm:"size:20;not null;default:Scheduled"`

	// Completion facts, set by the Complete transition only.
	ActualStartDate   *time.Time      `json:"actual_start_date,omitempty"`
	ActualEndDate     *time.Time      `json:"actual_end_date,omitempty"`
	ActualHoursAdded  decimal.Decimal `json:"actual_hours_added" gorm:"type:numeric(10,2);not null;default:0"`
	CompletedBy       string          `json:"completed_by,omitempty" gorm:"size:32"`
	CompletionDate    *time.Time      `json:"completion_date,omitempty"`
	CompletionRemarks string          `json:"completion_remarks,omitempty"`
	CompletionReport  string          `json:"completion_report,omitempty" gorm:"size:512"` // object storage key

	RecordDate     time.Time  `json:"record_date"`
	AddedBy        string     `json:"added_by" gorm:"size:32"`
	UpdatedDate    *time.Time `json:"updated_date,omitempty"`
	UpdateComments string     `json:"update_comments,omitempty" gorm:"size:500"`
	UpdatedBy      string     `json:"updated_by,omitempty" gorm:"size:50"`
}

func (ComponentMaintenance) TableName() string {
	return "component_maintenances"
}

// HierarchyLevel returns the referenced component's level (0-3), -1 when the
// discriminator is unknown.
func (m *ComponentMaintenance) HierarchyLevel() int {
	return m.ComponentType.Level()
}

// TypeName returns the human-readable name of the referenced component type.
func (m *ComponentMaintenance) TypeName() string {
	return m.ComponentType.TypeName()
}

func (m *ComponentMaintenance) IsMainComponent() bool { return m.ComponentType == ComponentTypeMain }
func (m *ComponentMaintenance) IsSubComponent() bool  { return m.ComponentType == ComponentTypeSub }
func (m *ComponentMaintenance) IsSub2Component() bool { return m.ComponentType == ComponentTypeSub2 }
func (m *ComponentMaintenance) IsSub3Component() bool { return m.ComponentType == ComponentTypeSub3 }

// EffectiveStatus classifies the record for display: a Scheduled record past
// its end date reads as Expired. Stored state is never touched.
func (m *ComponentMaintenance) EffectiveStatus(at time.Time) string {
	if m.MaintenanceStatus == RecordStatusScheduled && m.EndDate.Before(at) {
		return RecordStatusExpired
	}
	return m.MaintenanceStatus
}

// AircraftMaintenance is the simpler aircraft-level schedule record: no
// polymorphic reference and no two-phase completion workflow.
type AircraftMaintenance struct {
	ID         string `json:"id" gorm:"primaryKey;size:32"`
	AircraftID string `json:"aircraft_id" gorm:"size:32;not null;index"`

	MainTypeSchedule      string          `json:"main_type_schedule" gorm:"size:20;not null"`
	MaintenanceType       string          `json:"maintenance_type" gorm:"size:20;not null"`
	MaintenanceHours      decimal.Decimal `json:"maintenance_hours" gorm:"type:numeric(10,2);not null;default:0"`
	MaintenanceHoursAdded decimal.Decimal `json:"maintenance_hours_added" gorm:"type:numeric(10,2);not null;default:0"`
	StartDate             time.Time       `json:"start_date" gorm:"not null;index"`
	EndDate               time.Time       `json:"end_date" gorm:"not null"`
	NextMaintenanceDate   *time.Time      `json:"next_maintenance_date,omitempty"`
	Remarks               string          `json:"remarks" gorm:"size:500"`
	MaintenanceReport     string          `json:"maintenance_report,omitempty" gorm:"size:512"`

	RecordDate     time.Time  `json:"record_date"`
	AddedBy        string     `json:"added_by" gorm:"size:32"`
	UpdatedDate    *time.Time `json:"updated_date,omitempty"`
	UpdateComments string     `json:"update_comments,omitempty" gorm:"size:500"`
	UpdatedBy      string     `json:"updated_by,omitempty" gorm:"size:50"`

	// Relations
	Aircraft *Aircraft `json:"aircraft,omitempty" gorm:"foreignKey:AircraftID"`
}

func (AircraftMaintenance) TableName() string {
	return "aircraft_maintenances"
}
