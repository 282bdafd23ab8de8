package forms

import "supply_chain/internal/models"

type StoreForm struct {
	City string `form:"city" json:"city" binding:"required,max=100"`
}

func NewStoreForm(s *models.Store) *StoreForm {
	return &StoreForm{City: s.City}
}

func (f *StoreForm) Apply(s *models.Store) {
	s.City = f.City
}

func (f *StoreForm) View() map[string]any {
	return map[string]any{"city": f.City}
}

type RouteForm struct {
	Name     string `form:"name" json:"name" binding:"required,max=100"`
	StoreID  uint   `form:"store_id" json:"store_id" binding:"required,gt=0"`
	Geometry string `form:"geometry" json:"geometry"`
}

func (f *RouteForm) View() map[string]any {
	return map[string]any{"name": f.Name, "store_id": f.StoreID, "geometry": f.Geometry}
}

type OrderStatusForm struct {
	OrderStatus string `form:"order_status" json:"order_status" binding:"required"`
}
