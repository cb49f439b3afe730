package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Aircraft status values
const (
	AircraftStatusOperational = "Operational"
	AircraftStatusMaintenance = "Maintenance"
)

// Aircraft is a fleet registry entry. Components cascade-delete with the
// aircraft; everything else references it read-only.
type Aircraft struct {
	ID                 string          `json:"id" gorm:"primaryKey;size:32"`
	Abbreviation       string          `json:"abbreviation" gorm:"size:20;not null;uniqueIndex"`
	RegistrationNumber string          `json:"registration_number" gorm:"size:20;not null;uniqueIndex"`
	Callsign           string          `json:"callsign" gorm:"size:10"`
	AircraftModel      string          `json:"aircraft_model" gorm:"size:100"`
	AircraftType       string          `json:"aircraft_type" gorm:"size:100"`
	AircraftVariant    string          `json:"aircraft_variant" gorm:"size:10"`
	AircraftSerial     string          `json:"aircraft_serial" gorm:"size:100"`
	Manufacturer       string          `json:"manufacturer" gorm:"size:100"`
	YearOfManufacture  int             `json:"year_of_manufacture"`
	SeatingCapacity    int             `json:"seating_capacity"`
	CabinCrewCapacity  int             `json:"cabin_crew_capacity"`
	FlightCrewCapacity int             `json:"flight_crew_capacity"`
	TakeoffWeight      decimal.Decimal `json:"takeoff_weight" gorm:"type:numeric(10,2)"`
	TaxiWeight         decimal.Decimal `json:"taxi_weight" gorm:"type:numeric(10,2)"`
	LandingWeight      decimal.Decimal `json:"landing_weight" gorm:"type:numeric(10,2)"`
	ZeroFuelWeight     decimal.Decimal `json:"zerofuel_weight" gorm:"type:numeric(10,2)"`
	EmptyWeight        decimal.Decimal `json:"empty_weight" gorm:"type:numeric(10,2)"`
	MaxPayload         decimal.Decimal `json:"max_payload" gorm:"type:numeric(10,2)"`
	ComponentCount     int             `json:"component_count"`
	Status             string          `json:"status" gorm:"size:20;not null;default:Operational"` // Operational/Maintenance

	// Maintenance-hour budgets per check class and their alert thresholds.
	AHours          decimal.Decimal `json:"a_hours" gorm:"type:numeric(10,2);default:0"`
	BHours          decimal.Decimal `json:"b_hours" gorm:"type:numeric(10,2);default:0"`
	CHours          decimal.Decimal `json:"c_hours" gorm:"type:numeric(10,2);default:0"`
	DHours          decimal.Decimal `json:"d_hours" gorm:"type:numeric(10,2);default:0"`
	ACheckAlertHours decimal.Decimal `json:"a_check_alert_hours" gorm:"type:numeric(10,2);default:0"`
	BCheckAlertHours decimal.Decimal `json:"b_check_alert_hours" gorm:"type:numeric(10,2);default:0"`
	CCheckAlertHours decimal.Decimal `json:"c_check_alert_hours" gorm:"type:numeric(10,2);default:0"`
	DCheckAlertHours decimal.Decimal `json:"d_check_alert_hours" gorm:"type:numeric(10,2);default:0"`

	RecordDate     time.Time  `json:"record_date"`
	AddedBy        string     `json:"added_by" gorm:"size:32"`
	UpdatedDate    *time.Time `json:"updated_date,omitempty"`
	UpdateComments string     `json:"update_comments,omitempty" gorm:"size:500"`
	UpdatedBy      string     `json:"updated_by,omitempty" gorm:"size:50"`

	// Relations
	Components []Component `json:"components,omitempty" gorm:"foreignKey:AircraftID;constraint:OnDelete:CASCADE"`
}

func (Aircraft) TableName() string {
	return "aircraft"
}
