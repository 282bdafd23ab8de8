package forms

import "supply_chain/internal/models"

type DriverForm struct {
	Email         string `form:"email" json:"email" binding:"required,email,max=180"`
	PlainPassword string `form:"plainPassword" json:"plainPassword" binding:"required,max=4096"`
	FirstName     string `form:"first_name" json:"first_name" binding:"required,max=100"`
	LastName      string `form:"last_name" json:"last_name" binding:"required,max=100"`
	Status        string `form:"status" json:"status" binding:"required,max=10"`
	WorkHours     string `form:"work_hours" json:"work_hours" binding:"omitempty,max=9"`
	StoreID       uint   `form:"store_id" json:"store_id" binding:"required,gt=0"`
}

// Apply copies the scalar fields. The store is assigned by the caller so both
// sides of the relationship are updated.
func (f *DriverForm) Apply(d *models.Driver) error {
	d.Email = f.Email
	d.PlainPassword = f.PlainPassword
	d.FirstName = f.FirstName
	d.LastName = f.LastName
	d.Status = f.Status
	return applyWorkHours(d, f.WorkHours)
}

func (f *DriverForm) View() map[string]any {
	return map[string]any{
		"email":      f.Email,
		"first_name": f.FirstName,
		"last_name":  f.LastName,
		"status":     f.Status,
		"work_hours": f.WorkHours,
		"store_id":   f.StoreID,
	}
}

type DriverEditForm struct {
	Email         string `form:"email" json:"email" binding:"required,email,max=180"`
	PlainPassword string `form:"plainPassword" json:"plainPassword" binding:"omitempty,max=4096"`
	FirstName     string `form:"first_name" json:"first_name" binding:"required,max=100"`
	LastName      string `form:"last_name" json:"last_name" binding:"required,max=100"`
	Status        string `form:"status" json:"status" binding:"required,max=10"`
	WorkHours     string `form:"work_hours" json:"work_hours" binding:"omitempty,max=9"`
	StoreID       uint   `form:"store_id" json:"store_id" binding:"required,gt=0"`
}

func NewDriverEditForm(d *models.Driver) *DriverEditForm {
	f := &DriverEditForm{
		Email:     d.Email,
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Status:    d.Status,
		StoreID:   d.StoreID,
	}
	if d.WorkHours != nil {
		f.WorkHours = d.WorkHours.String()
	}
	return f
}

func (f *DriverEditForm) Apply(d *models.Driver) error {
	d.Email = f.Email
	d.PlainPassword = f.PlainPassword
	d.FirstName = f.FirstName
	d.LastName = f.LastName
	d.Status = f.Status
	return applyWorkHours(d, f.WorkHours)
}

func (f *DriverEditForm) View() map[string]any {
	return map[string]any{
		"email":      f.Email,
		"first_name": f.FirstName,
		"last_name":  f.LastName,
		"status":     f.Status,
		"work_hours": f.WorkHours,
		"store_id":   f.StoreID,
	}
}

func applyWorkHours(d *models.Driver, raw string) error {
	if raw == "" {
		d.WorkHours = nil
		return nil
	}
	wh, err := models.ParseClockTime(raw)
	if err != nil {
		return err
	}
	d.WorkHours = &wh
	return nil
}
