package models

import "gorm.io/gorm"

type Truck struct {
	gorm.Model
	PlateNumber string `json:"plate_number" gorm:"type:varchar(20);uniqueIndex;not null"`
	Capacity    int    `json:"capacity"`

	StoreID *uint  `json:"store_id" gorm:"index"`
	Store   *Store `json:"-" gorm:"foreignKey:StoreID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
}

// SetStore moves the truck to s and keeps both stores' Trucks in sync.
func (t *Truck) SetStore(s *Store) {
	if t.Store == s {
		return
	}
	old := t.Store
	t.Store, t.StoreID = s, storeID(s)
	if old != nil {
		old.RemoveTruck(t)
	}
	if s != nil {
		s.AddTruck(t)
	}
}

func (t *Truck) owner() *Store { return t.Store }
func (t *Truck) setOwner(s *Store) { t.SetStore(s) }
