package routes

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"supply_chain/internal/auth"
	"supply_chain/internal/models"
	"supply_chain/internal/repository"
)

// memRepo is an in-memory repository.Repository keyed by gorm.Model.ID.
type memRepo[T any] struct {
	mu      sync.Mutex
	rows    map[uint]T
	next    uint
	model   func(*T) *gorm.Model
	columns func(*T) map[string]any
	unique  []string
	// inUse reports rows a foreign key still points at.
	inUse func(*T) bool
}

func newMemRepo[T any](model func(*T) *gorm.Model, columns func(*T) map[string]any, unique ...string) *memRepo[T] {
	return &memRepo[T]{rows: map[uint]T{}, model: model, columns: columns, unique: unique}
}

func (m *memRepo[T]) sorted() []T {
	ids := make([]uint, 0, len(m.rows))
	for id := range m.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.rows[id])
	}
	return out
}

func (m *memRepo[T]) matches(row *T, criteria repository.Criteria) bool {
	cols := m.columns(row)
	for k, v := range criteria {
		if cols[k] != v {
			return false
		}
	}
	return true
}

func (m *memRepo[T]) FindAll(context.Context) ([]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sorted(), nil
}

func (m *memRepo[T]) FindBy(_ context.Context, criteria repository.Criteria) ([]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []T
	for _, row := range m.sorted() {
		if m.matches(&row, criteria) {
			out = append(out, row)
		}
	}
	return out, nil
}

func (m *memRepo[T]) FindOneBy(ctx context.Context, criteria repository.Criteria) (*T, error) {
	rows, _ := m.FindBy(ctx, criteria)
	if len(rows) == 0 {
		return nil, fmt.Errorf("find one by %v: %w", criteria, repository.ErrNotFound)
	}
	return &rows[0], nil
}

func (m *memRepo[T]) Find(_ context.Context, id uint, _ ...string) (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return nil, fmt.Errorf("find %d: %w", id, repository.ErrNotFound)
	}
	return &row, nil
}

func (m *memRepo[T]) conflicts(entity *T) bool {
	id := m.model(entity).ID
	cols := m.columns(entity)
	for _, row := range m.rows {
		if m.model(&row).ID == id {
			continue
		}
		other := m.columns(&row)
		for _, col := range m.unique {
			if other[col] == cols[col] {
				return true
			}
		}
	}
	return false
}

func (m *memRepo[T]) Persist(_ context.Context, entity *T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conflicts(entity) {
		return fmt.Errorf("persist: %w", repository.ErrDuplicateEntry)
	}
	m.next++
	gm := m.model(entity)
	gm.ID = m.next
	gm.CreatedAt, gm.UpdatedAt = time.Now(), time.Now()
	m.rows[gm.ID] = *entity
	return nil
}

func (m *memRepo[T]) Flush(_ context.Context, entity *T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conflicts(entity) {
		return fmt.Errorf("flush: %w", repository.ErrDuplicateEntry)
	}
	gm := m.model(entity)
	gm.UpdatedAt = time.Now()
	m.rows[gm.ID] = *entity
	return nil
}

func (m *memRepo[T]) Remove(_ context.Context, entity *T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.inUse != nil && m.inUse(entity) {
		return fmt.Errorf("remove: %w", repository.ErrInUse)
	}
	delete(m.rows, m.model(entity).ID)
	return nil
}

func (m *memRepo[T]) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

func (m *memRepo[T]) get(id uint) (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	return row, ok
}

type managerProvider struct{ *memRepo[models.Manager] }

func (p managerProvider) LoadUserByEmail(ctx context.Context, email string) (auth.User, error) {
	m, err := p.FindOneBy(ctx, repository.Criteria{"email": email})
	if err != nil {
		return nil, auth.ErrUserNotFound
	}
	return m, nil
}

type driverProvider struct{ *memRepo[models.Driver] }

func (p driverProvider) LoadUserByEmail(ctx context.Context, email string) (auth.User, error) {
	d, err := p.FindOneBy(ctx, repository.Criteria{"email": email})
	if err != nil {
		return nil, auth.ErrUserNotFound
	}
	return d, nil
}

type memRevoker struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func (r *memRevoker) Revoke(_ context.Context, id string, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.revoked == nil {
		r.revoked = map[string]bool{}
	}
	r.revoked[id] = true
	return nil
}

func (r *memRevoker) IsRevoked(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.revoked[id], nil
}
