package models

import "slices"

// storeChild is an entity whose owning side is a Store.
type storeChild interface {
	comparable
	owner() *Store
	setOwner(*Store)
}

// addStoreChild appends c to list unless it is already a member and points
// c's back-reference at s.
func addStoreChild[T storeChild](s *Store, list *[]T, c T) {
	if slices.Contains(*list, c) {
		return
	}
	*list = append(*list, c)
	c.setOwner(s)
}

// removeStoreChild drops c from list. The back-reference is cleared only when
// it still points at s, so a child already moved to another store keeps it.
func removeStoreChild[T storeChild](s *Store, list *[]T, c T) {
	i := slices.Index(*list, c)
	if i < 0 {
		return
	}
	*list = slices.Delete(*list, i, i+1)
	if c.owner() == s {
		c.setOwner(nil)
	}
}

func storeID(s *Store) *uint {
	if s == nil {
		return nil
	}
	id := s.ID
	return &id
}
