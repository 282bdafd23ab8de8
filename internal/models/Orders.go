package models

import (
	"slices"

	"gorm.io/gorm"
)

const (
	OrderPlaced    = "Placed"
	OrderOnStore   = "On Store"
	OrderOnRoute   = "On Route"
	OrderDelivered = "Delivered"
)

var orderStatuses = []string{OrderPlaced, OrderOnStore, OrderOnRoute, OrderDelivered}

// Orders is a customer order moving through the supply chain.
type Orders struct {
	gorm.Model
	OrderStatus     string `json:"order_status" gorm:"type:varchar(20);not null;index"`
	DeliveryAddress string `json:"delivery_address" gorm:"type:varchar(255)"`
	StoreID         *uint  `json:"store_id" gorm:"index"`
	RouteID         *uint  `json:"route_id" gorm:"index"`
}

func (Orders) TableName() string { return "orders" }

// ValidOrderStatus reports whether status is one of the known order states.
func ValidOrderStatus(status string) bool {
	return slices.Contains(orderStatuses, status)
}
