package entity

import (
	"time"
)

type ItemKind string

const (
	ItemKindRoute ItemKind = "route"
	ItemKindDeal  ItemKind = "deal"
)

type ItemStatus string

const (
	ItemStatusActive    ItemStatus = "active"
	ItemStatusCancelled ItemStatus = "cancelled"
	ItemStatusArchived  ItemStatus = "archived"
)

// Item is a purchasable route ticket or deal. Items with bookings are never
// hard-deleted; they move to cancelled or archived instead.
type Item struct {
	Base
	Kind               ItemKind   `db:"kind"`
	Name               string     `db:"name"`
	UnitPrice          float64    `db:"unit_price"`
	TravelDate         time.Time  `db:"travel_date"`
	MaxCapacityPerSlot int        `db:"max_capacity_per_slot"`
	MinThreshold       int        `db:"min_threshold"`
	Status             ItemStatus `db:"status"`
}
