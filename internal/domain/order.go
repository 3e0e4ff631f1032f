package domain

import (
	"github.com/google/uuid"
)

type OrderStatus string

const (
	StatusCreated        OrderStatus = "created"
	StatusPaid           OrderStatus = "paid"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusDelivered      OrderStatus = "delivered"
)

var statusRank = map[OrderStatus]int{
	StatusCreated:        0,
	StatusPaid:           1,
	StatusOutForDelivery: 2,
	StatusDelivered:      3,
}

// Before reports whether s comes earlier in the lifecycle than other.
// Transitions that would move an order backwards must be refused.
func (s OrderStatus) Before(other OrderStatus) bool {
	return statusRank[s] < statusRank[other]
}

func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered
}

type Waypoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Order is the per-purchase record tracked by the store. Amount is in major
// units; the gateway receives amount*100 (paise).
type Order struct {
	ID             string      `json:"id"`
	Amount         int64       `json:"amount"`
	Currency       string      `json:"currency"`
	Status         OrderStatus `json:"status"`
	GatewayOrderID string      `json:"rzpOrderId,omitempty"`
	Delivery       *Waypoint   `json:"delivery,omitempty"`
}

// NewOrderID returns an unguessable local order id.
func NewOrderID() string {
	return "order_" + uuid.NewString()
}
