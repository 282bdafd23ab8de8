package models

import "gorm.io/gorm"

// Manager is a back-office user.
type Manager struct {
	gorm.Model
	Email    string `json:"email" gorm:"type:varchar(180);uniqueIndex;not null"`
	Roles    Roles  `json:"roles" gorm:"type:json"`
	Password string `json:"-" gorm:"not null"` // bcrypt hash

	// PlainPassword only carries form input until it is hashed.
	PlainPassword string `json:"-" gorm:"-"`
}

func (m *Manager) GetID() uint { return m.ID }
func (m *Manager) GetUsername() string { return m.Email }
func (m *Manager) GetPassword() string { return m.Password }
func (m *Manager) GetRoles() []string { return withBaseRole(m.Roles) }
func (m *Manager) EraseCredentials() { m.PlainPassword = "" }
func (m *Manager) SetRoles(roles Roles) { m.Roles = roles }
