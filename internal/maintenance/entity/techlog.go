package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// FlightTechLog records a completed flight leg for an aircraft. Closing one
// is the usage event that decrements maintenance hours across the whole
// component subtree.
type FlightTechLog struct {
	ID         string `json:"id" gorm:"primaryKey;size:32"`
	AircraftID string `json:"aircraft_id" gorm:"size:32;not null;index"`

	FlightLogNumber  *int            `json:"flight_log_number,omitempty"`
	DepartureAirport string          `json:"departure_airport,omitempty" gorm:"size:50"`
	ArrivalAirport   string          `json:"arrival_airport,omitempty" gorm:"size:50"`
	Takeoff          time.Time       `json:"takeoff" gorm:"not null"`
	Landing          time.Time       `json:"landing" gorm:"not null"`
	FlightHours      decimal.Decimal `json:"flight_hours" gorm:"type:numeric(10,2);not null;default:0"`
	ComponentsWorn   int             `json:"components_worn"` // components the usage was applied to
	OffBlock         string          `json:"off_block,omitempty" gorm:"size:50"`
	OnBlock          string          `json:"on_block,omitempty" gorm:"size:50"`
	TechLogComments  string          `json:"tech_log_comments,omitempty" gorm:"size:500"`
	Remarks          string          `json:"remarks,omitempty"`
	ReportKey        string          `json:"report_key,omitempty" gorm:"size:512"`

	RecordDate  time.Time  `json:"record_date"`
	AddedBy     string     `json:"added_by" gorm:"size:32"`
	UpdatedDate *time.Time `json:"updated_date,omitempty"`
	UpdatedBy   string     `json:"updated_by,omitempty" gorm:"size:50"`

	// Relations
	Aircraft *Aircraft `json:"aircraft,omitempty" gorm:"foreignKey:AircraftID"`
}

func (FlightTechLog) TableName() string {
	return "flight_tech_logs"
}
