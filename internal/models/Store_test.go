package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newStore(id uint, city string) *Store {
	return &Store{Model: gorm.Model{ID: id}, City: city}
}

func TestDriverSetStoreMovesBetweenStores(t *testing.T) {
	colombo := newStore(1, "Colombo")
	kandy := newStore(2, "Kandy")
	d := &Driver{Email: "kasun@example.com"}

	d.SetStore(colombo)
	require.Equal(t, []*Driver{d}, colombo.Drivers)
	assert.Equal(t, uint(1), d.StoreID)

	d.SetStore(kandy)
	assert.Empty(t, colombo.Drivers)
	assert.Equal(t, []*Driver{d}, kandy.Drivers)
	assert.Same(t, kandy, d.Store)
	assert.Equal(t, uint(2), d.StoreID)
}

func TestStoreAddDriverReassignsFromPreviousStore(t *testing.T) {
	colombo := newStore(1, "Colombo")
	kandy := newStore(2, "Kandy")
	d := &Driver{}

	colombo.AddDriver(d)
	kandy.AddDriver(d)

	assert.Empty(t, colombo.Drivers)
	assert.Equal(t, []*Driver{d}, kandy.Drivers)
	assert.Same(t, kandy, d.Store)
}

func TestStoreAddDriverIgnoresDuplicates(t *testing.T) {
	s := newStore(1, "Galle")
	d := &Driver{}

	s.AddDriver(d)
	s.AddDriver(d)
	d.SetStore(s)

	assert.Len(t, s.Drivers, 1)
}

func TestStoreRemoveKeepsReassignedBackReference(t *testing.T) {
	colombo := newStore(1, "Colombo")
	kandy := newStore(2, "Kandy")
	r := &Route{Name: "A1"}

	colombo.AddRoute(r)
	// simulate a stale collection that still lists the route after it moved
	r.Store, r.StoreID = kandy, storeID(kandy)
	kandy.Routes = append(kandy.Routes, r)

	colombo.RemoveRoute(r)

	assert.Empty(t, colombo.Routes)
	assert.Same(t, kandy, r.Store)
	require.NotNil(t, r.StoreID)
	assert.Equal(t, uint(2), *r.StoreID)
}

func TestStoreAddRemoveRoundTrip(t *testing.T) {
	s := newStore(3, "Jaffna")
	route := &Route{}
	truck := &Truck{}
	driver := &Driver{}
	assistant := &DriverAssistant{}

	s.AddRoute(route)
	s.AddTruck(truck)
	s.AddDriver(driver)
	s.AddDriverAssistant(assistant)

	require.Same(t, s, route.Store)
	require.Same(t, s, truck.Store)
	require.Same(t, s, driver.Store)
	require.Same(t, s, assistant.Store)

	s.RemoveRoute(route)
	s.RemoveTruck(truck)
	s.RemoveDriver(driver)
	s.RemoveDriverAssistant(assistant)

	assert.Empty(t, s.Routes)
	assert.Empty(t, s.Trucks)
	assert.Empty(t, s.Drivers)
	assert.Empty(t, s.DriverAssistants)
	assert.Nil(t, route.Store)
	assert.Nil(t, route.StoreID)
	assert.Nil(t, truck.Store)
	assert.Nil(t, truck.StoreID)
	assert.Nil(t, driver.Store)
	assert.Zero(t, driver.StoreID)
	assert.Nil(t, assistant.Store)
	assert.Nil(t, assistant.StoreID)
}

func TestStoreRemoveUnknownChildIsNoop(t *testing.T) {
	a := newStore(1, "Colombo")
	b := newStore(2, "Kandy")
	tr := &Truck{}
	b.AddTruck(tr)

	a.RemoveTruck(tr)

	assert.Same(t, b, tr.Store)
	assert.Len(t, b.Trucks, 1)
}
