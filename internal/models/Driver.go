package models

import (
	"slices"

	"gorm.io/gorm"
)

// Driver drives trucks for exactly one Store.
type Driver struct {
	gorm.Model
	Email     string     `json:"email" gorm:"type:varchar(180);uniqueIndex;not null"`
	Roles     Roles      `json:"roles" gorm:"type:json"`
	Password  string     `json:"-" gorm:"not null"`
	FirstName string     `json:"first_name" gorm:"type:varchar(100);not null"`
	LastName  string     `json:"last_name" gorm:"type:varchar(100);not null"`
	WorkHours *ClockTime `json:"work_hours"`
	Status    string     `json:"status" gorm:"type:varchar(10);not null"`

	StoreID uint   `json:"store_id" gorm:"not null;index"`
	Store   *Store `json:"-" gorm:"foreignKey:StoreID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`

	TruckSchedules []*TruckSchedule `json:"truck_schedules,omitempty" gorm:"foreignKey:DriverID"`

	PlainPassword string `json:"-" gorm:"-"`
}

func (d *Driver) GetID() uint { return d.ID }
func (d *Driver) GetUsername() string { return d.Email }
func (d *Driver) GetPassword() string { return d.Password }
func (d *Driver) GetRoles() []string { return withBaseRole(d.Roles) }
func (d *Driver) EraseCredentials() { d.PlainPassword = "" }

// SetStore moves the driver to s, taking it out of its previous store's
// Drivers and adding it to s.Drivers.
func (d *Driver) SetStore(s *Store) {
	if d.Store == s {
		return
	}
	old := d.Store
	d.Store = s
	if s != nil {
		d.StoreID = s.ID
	} else {
		d.StoreID = 0
	}
	if old != nil {
		old.RemoveDriver(d)
	}
	if s != nil {
		s.AddDriver(d)
	}
}

func (d *Driver) owner() *Store { return d.Store }
func (d *Driver) setOwner(s *Store) { d.SetStore(s) }

func (d *Driver) AddTruckSchedule(ts *TruckSchedule) {
	if slices.Contains(d.TruckSchedules, ts) {
		return
	}
	d.TruckSchedules = append(d.TruckSchedules, ts)
	ts.SetDriver(d)
}

func (d *Driver) RemoveTruckSchedule(ts *TruckSchedule) {
	i := slices.Index(d.TruckSchedules, ts)
	if i < 0 {
		return
	}
	d.TruckSchedules = slices.Delete(d.TruckSchedules, i, i+1)
	if ts.Driver == d {
		ts.SetDriver(nil)
	}
}
