package models

import "gorm.io/gorm"

type DriverAssistant struct {
	gorm.Model
	FirstName string `json:"first_name" gorm:"type:varchar(100);not null"`
	LastName  string `json:"last_name" gorm:"type:varchar(100);not null"`

	StoreID *uint  `json:"store_id" gorm:"index"`
	Store   *Store `json:"-" gorm:"foreignKey:StoreID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
}

func (a *DriverAssistant) SetStore(s *Store) {
	if a.Store == s {
		return
	}
	old := a.Store
	a.Store, a.StoreID = s, storeID(s)
	if old != nil {
		old.RemoveDriverAssistant(a)
	}
	if s != nil {
		s.AddDriverAssistant(a)
	}
}

func (a *DriverAssistant) owner() *Store { return a.Store }
func (a *DriverAssistant) setOwner(s *Store) { a.SetStore(s) }
