package models

import "gorm.io/gorm"

// Store is a depot in a city. It owns routes, trucks, drivers and driver assistants.
type Store struct {
	gorm.Model
	City string `json:"city" gorm:"type:varchar(100);not null"`

	Routes           []*Route           `json:"routes,omitempty" gorm:"foreignKey:StoreID"`
	Trucks           []*Truck           `json:"trucks,omitempty" gorm:"foreignKey:StoreID"`
	Drivers          []*Driver          `json:"drivers,omitempty" gorm:"foreignKey:StoreID"`
	DriverAssistants []*DriverAssistant `json:"driver_assistants,omitempty" gorm:"foreignKey:StoreID"`
}

func (s *Store) AddRoute(r *Route) { addStoreChild(s, &s.Routes, r) }
func (s *Store) RemoveRoute(r *Route) { removeStoreChild(s, &s.Routes, r) }

func (s *Store) AddTruck(t *Truck) { addStoreChild(s, &s.Trucks, t) }
func (s *Store) RemoveTruck(t *Truck) { removeStoreChild(s, &s.Trucks, t) }

func (s *Store) AddDriver(d *Driver) { addStoreChild(s, &s.Drivers, d) }
func (s *Store) RemoveDriver(d *Driver) { removeStoreChild(s, &s.Drivers, d) }

func (s *Store) AddDriverAssistant(a *DriverAssistant) { addStoreChild(s, &s.DriverAssistants, a) }
func (s *Store) RemoveDriverAssistant(a *DriverAssistant) { removeStoreChild(s, &s.DriverAssistants, a) }
