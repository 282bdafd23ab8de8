package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"supply_chain/internal/auth"
	"supply_chain/internal/models"
)

// ManagerRepository persists managers and provides them to the manager login.
type ManagerRepository struct {
	*GormRepository[models.Manager]
}

func NewManagerRepository(db *gorm.DB) *ManagerRepository {
	return &ManagerRepository{GormRepository: NewGormRepository[models.Manager](db)}
}

// LoadUserByEmail implements auth.UserProvider.
func (r *ManagerRepository) LoadUserByEmail(ctx context.Context, email string) (auth.User, error) {
	m, err := r.FindOneBy(ctx, Criteria{"email": email})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}
	return m, nil
}

// UpgradePassword implements auth.PasswordUpgrader.
func (r *ManagerRepository) UpgradePassword(ctx context.Context, user auth.User, newHash string) error {
	m, ok := user.(*models.Manager)
	if !ok {
		return fmt.Errorf("%w: %T", auth.ErrUnsupportedUser, user)
	}
	m.Password = newHash
	return r.Flush(ctx, m)
}
