package models

import (
	"gorm.io/gorm"
)

// Route is a delivery path served from a store.
type Route struct {
	gorm.Model
	Name string `json:"name" gorm:"type:varchar(100);not null"`

	// Geometry holds a LINESTRING (SRID 4326) as WKB. The API speaks GeoJSON.
	Geometry []byte `json:"-"`

	StoreID *uint  `json:"store_id" gorm:"index"`
	Store   *Store `json:"-" gorm:"foreignKey:StoreID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
}

func (r *Route) SetStore(s *Store) {
	if r.Store == s {
		return
	}
	old := r.Store
	r.Store, r.StoreID = s, storeID(s)
	if old != nil {
		old.RemoveRoute(r)
	}
	if s != nil {
		s.AddRoute(r)
	}
}

func (r *Route) owner() *Store { return r.Store }
func (r *Route) setOwner(s *Store) { r.SetStore(s) }
