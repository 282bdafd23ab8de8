package forms

import "supply_chain/internal/models"

// ManagerForm is used by registration and the "new manager" page.
type ManagerForm struct {
	Email         string `form:"email" json:"email" binding:"required,email,max=180"`
	PlainPassword string `form:"plainPassword" json:"plainPassword" binding:"required,max=4096"`
}

func (f *ManagerForm) Apply(m *models.Manager) {
	m.Email = f.Email
	m.PlainPassword = f.PlainPassword
}

func (f *ManagerForm) View() map[string]any {
	return map[string]any{"email": f.Email}
}

// ManagerEditForm leaves the password unchanged when it is blank.
type ManagerEditForm struct {
	Email         string `form:"email" json:"email" binding:"required,email,max=180"`
	PlainPassword string `form:"plainPassword" json:"plainPassword" binding:"omitempty,max=4096"`
}

func NewManagerEditForm(m *models.Manager) *ManagerEditForm {
	return &ManagerEditForm{Email: m.Email}
}

func (f *ManagerEditForm) Apply(m *models.Manager) {
	m.Email = f.Email
	m.PlainPassword = f.PlainPassword
}

func (f *ManagerEditForm) View() map[string]any {
	return map[string]any{"email": f.Email}
}

// LoginForm is submitted by the manager and driver login pages.
type LoginForm struct {
	Username string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}
