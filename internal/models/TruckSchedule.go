package models

import (
	"time"

	"gorm.io/gorm"
)

// TruckSchedule books a truck on a route for a driver.
type TruckSchedule struct {
	gorm.Model
	StartsAt time.Time `json:"starts_at"`
	TruckID  *uint     `json:"truck_id" gorm:"index"`
	RouteID  *uint     `json:"route_id" gorm:"index"`

	DriverID *uint   `json:"driver_id" gorm:"index"`
	Driver   *Driver `json:"-" gorm:"foreignKey:DriverID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
}

// SetDriver points the schedule at d and keeps d.TruckSchedules in sync.
func (ts *TruckSchedule) SetDriver(d *Driver) {
	if ts.Driver == d {
		return
	}
	old := ts.Driver
	ts.Driver = d
	if d != nil {
		id := d.ID
		ts.DriverID = &id
	} else {
		ts.DriverID = nil
	}
	if old != nil {
		old.RemoveTruckSchedule(ts)
	}
	if d != nil {
		d.AddTruckSchedule(ts)
	}
}
