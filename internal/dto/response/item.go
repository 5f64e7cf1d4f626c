package response

import (
	"shuttle-booking/internal/data/entity"
)

type ItemResponse struct {
	ID                 string            `json:"id"`
	Kind               entity.ItemKind   `json:"kind"`
	Name               string            `json:"name"`
	UnitPrice          float64           `json:"unit_price"`
	TravelDate         string            `json:"travel_date"`
	MaxCapacityPerSlot int               `json:"max_capacity_per_slot,omitempty"`
	MinThreshold       int               `json:"min_threshold,omitempty"`
	Status             entity.ItemStatus `json:"status"`
}

func ItemToResponse(item *entity.Item) ItemResponse {
	return ItemResponse{
		ID:                 item.ID.String(),
		Kind:               item.Kind,
		Name:               item.Name,
		UnitPrice:          item.UnitPrice,
		TravelDate:         item.TravelDate.Format("2006-01-02"),
		MaxCapacityPerSlot: item.MaxCapacityPerSlot,
		MinThreshold:       item.MinThreshold,
		Status:             item.Status,
	}
}

// CapacityResponse reports slot occupancy and the route's go/no-go state.
type CapacityResponse struct {
	ItemID      string `json:"item_id"`
	TimeSlot    string `json:"time_slot,omitempty"`
	MaxCapacity int    `json:"max_capacity"`
	Sold        int    `json:"sold"`
	Remaining   int    `json:"remaining"`
	TotalSold   int    `json:"total_sold"`
	Confirmed   bool   `json:"confirmed"`
}
