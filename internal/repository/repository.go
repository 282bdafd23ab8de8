package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Criteria is an exact-match filter keyed by column name.
type Criteria map[string]any

// Repository is the persistence contract the controllers work against.
type Repository[T any] interface {
	FindAll(ctx context.Context) ([]T, error)
	FindBy(ctx context.Context, criteria Criteria) ([]T, error)
	FindOneBy(ctx context.Context, criteria Criteria) (*T, error)
	Find(ctx context.Context, id uint, preloads ...string) (*T, error)
	Persist(ctx context.Context, entity *T) error
	Flush(ctx context.Context, entity *T) error
	Remove(ctx context.Context, entity *T) error
}

// GormRepository implements Repository for one entity type.
// Writes never cascade into associations: only the entity's own columns
// (foreign keys included) are stored.
type GormRepository[T any] struct {
	db *gorm.DB
}

func NewGormRepository[T any](db *gorm.DB) *GormRepository[T] {
	return &GormRepository[T]{db: db}
}

func (r *GormRepository[T]) DB() *gorm.DB { return r.db }

func (r *GormRepository[T]) FindAll(ctx context.Context) ([]T, error) {
	var out []T
	if err := r.db.WithContext(ctx).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("find all: %w", translate(err))
	}
	return out, nil
}

func (r *GormRepository[T]) FindBy(ctx context.Context, criteria Criteria) ([]T, error) {
	var out []T
	if err := r.db.WithContext(ctx).Where(map[string]any(criteria)).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("find by %v: %w", criteria, translate(err))
	}
	return out, nil
}

func (r *GormRepository[T]) FindOneBy(ctx context.Context, criteria Criteria) (*T, error) {
	var out T
	if err := r.db.WithContext(ctx).Where(map[string]any(criteria)).First(&out).Error; err != nil {
		return nil, fmt.Errorf("find one by %v: %w", criteria, translate(err))
	}
	return &out, nil
}

func (r *GormRepository[T]) Find(ctx context.Context, id uint, preloads ...string) (*T, error) {
	var out T
	q := r.db.WithContext(ctx)
	for _, p := range preloads {
		q = q.Preload(p)
	}
	if err := q.First(&out, id).Error; err != nil {
		return nil, fmt.Errorf("find %d: %w", id, translate(err))
	}
	return &out, nil
}

// Persist inserts entity in its own transaction. Any failure rolls it back.
func (r *GormRepository[T]) Persist(ctx context.Context, entity *T) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Create(entity).Error
	})
	if err != nil {
		return fmt.Errorf("persist: %w", translate(err))
	}
	return nil
}

// Flush writes the current state of an already stored entity.
func (r *GormRepository[T]) Flush(ctx context.Context, entity *T) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Save(entity).Error
	})
	if err != nil {
		return fmt.Errorf("flush: %w", translate(err))
	}
	return nil
}

// Remove hard-deletes entity. A row still referenced by a foreign key is
// kept and ErrInUse is returned.
func (r *GormRepository[T]) Remove(ctx context.Context, entity *T) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Unscoped().Delete(entity).Error
	})
	if err != nil {
		return fmt.Errorf("remove: %w", translate(err))
	}
	return nil
}
