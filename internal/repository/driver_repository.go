package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"supply_chain/internal/auth"
	"supply_chain/internal/models"
)

// WorkHoursResetInterval matches the weekly work-hour cycle of drivers.
const WorkHoursResetInterval = 168 * time.Hour

type DriverRepository struct {
	*GormRepository[models.Driver]
}

func NewDriverRepository(db *gorm.DB) *DriverRepository {
	return &DriverRepository{GormRepository: NewGormRepository[models.Driver](db)}
}

// LoadUserByEmail implements auth.UserProvider.
func (r *DriverRepository) LoadUserByEmail(ctx context.Context, email string) (auth.User, error) {
	d, err := r.FindOneBy(ctx, Criteria{"email": email})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}
	return d, nil
}

// UpgradePassword implements auth.PasswordUpgrader.
func (r *DriverRepository) UpgradePassword(ctx context.Context, user auth.User, newHash string) error {
	d, ok := user.(*models.Driver)
	if !ok {
		return fmt.Errorf("%w: %T", auth.ErrUnsupportedUser, user)
	}
	d.Password = newHash
	return r.Flush(ctx, d)
}

// DriverIDs lists the ids of all stored drivers.
func (r *DriverRepository) DriverIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).Model(&models.Driver{}).Order("id").Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("list driver ids: %w", translate(err))
	}
	return ids, nil
}

// ResetWorkHours zeroes the weekly work-hour counter of one driver.
// It runs straight against the table so it never overwrites other columns
// of a record that is being edited concurrently.
func (r *DriverRepository) ResetWorkHours(ctx context.Context, driverID uint) error {
	res := r.db.WithContext(ctx).Exec("UPDATE drivers SET work_hours = ? WHERE id = ?", "00:00:00", driverID)
	if res.Error != nil {
		return fmt.Errorf("reset work hours of driver %d: %w", driverID, translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("reset work hours of driver %d: %w", driverID, ErrNotFound)
	}
	return nil
}

// CreateWorkHoursEvent registers a MySQL event that resets the driver's work
// hours every WorkHoursResetInterval from startsAt on. The event survives
// restarts of both the database and this application.
func (r *DriverRepository) CreateWorkHoursEvent(ctx context.Context, driverID uint, startsAt time.Time) error {
	if r.db.Dialector.Name() != "mysql" {
		return ErrEventsUnsupported
	}
	// CREATE EVENT cannot be prepared, so the statement is sent without placeholders.
	stmt := fmt.Sprintf("CREATE EVENT IF NOT EXISTS `zero_work_hours_%d` "+
		"ON SCHEDULE EVERY %d HOUR STARTS '%s' "+
		"ON COMPLETION PRESERVE ENABLE "+
		"DO UPDATE drivers SET work_hours = '00:00:00' WHERE id = %d",
		driverID, int(WorkHoursResetInterval/time.Hour), startsAt.Format(time.DateTime), driverID)
	if err := r.db.WithContext(ctx).Exec(stmt).Error; err != nil {
		return fmt.Errorf("create work hours event for driver %d: %w", driverID, err)
	}
	return nil
}
