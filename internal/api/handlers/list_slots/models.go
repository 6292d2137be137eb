package list_slots

import (
	"github.com/amar4h/rituyog-booking/internal/service/capacity"
)

// SlotResponse is one slot with its occupancy for the requested date.
type SlotResponse struct {
	ID                int64  `json:"id"`
	DisplayName       string `json:"displayName"`
	StartTime         string `json:"startTime"`
	EndTime           string `json:"endTime"`
	Capacity          int    `json:"capacity"`
	ExceptionCapacity int    `json:"exceptionCapacity"`
	CurrentBookings   int    `json:"currentBookings"`
	Available         bool   `json:"available"`
	IsExceptionOnly   bool   `json:"isExceptionOnly"`
}

// SlotListResponse wraps the slot directory.
type SlotListResponse struct {
	Date  string          `json:"date"`
	Slots []*SlotResponse `json:"slots"`
}

// FromOccupancies converts the service result into the HTTP response.
func FromOccupancies(date string, occupancies []capacity.SlotOccupancy) *SlotListResponse {
	slots := make([]*SlotResponse, 0, len(occupancies))
	for _, occ := range occupancies {
		slots = append(slots, &SlotResponse{
			ID:                occ.Slot.ID,
			DisplayName:       occ.Slot.DisplayName,
			StartTime:         occ.Slot.StartTime.String(),
			EndTime:           occ.Slot.EndTime.String(),
			Capacity:          occ.Slot.Capacity,
			ExceptionCapacity: occ.Slot.ExceptionCapacity,
			CurrentBookings:   occ.Result.CurrentBookings,
			Available:         occ.Result.Available,
			IsExceptionOnly:   occ.Result.IsExceptionOnly,
		})
	}
	return &SlotListResponse{Date: date, Slots: slots}
}
