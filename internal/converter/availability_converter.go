package converter

import (
	"github.com/medilink/telehealth-api/internal/delivery/dto"
	"github.com/medilink/telehealth-api/internal/domain/entity"
)

// SlotToResponse converts an AvailabilitySlot entity to SlotResponse DTO
func SlotToResponse(slot *entity.AvailabilitySlot) *dto.SlotResponse {
	if slot == nil {
		return nil
	}

	return &dto.SlotResponse{
		ID:        slot.ID,
		Weekday:   string(slot.Weekday),
		StartTime: entity.TimeOfDayHHMM(slot.StartTime),
		EndTime:   entity.TimeOfDayHHMM(slot.EndTime),
		IsBooked:  slot.IsBooked,
	}
}

// SlotsToResponses converts a slice of slots, preserving stored order.
func SlotsToResponses(slots []entity.AvailabilitySlot) []dto.SlotResponse {
	responses := make([]dto.SlotResponse, len(slots))
	for i, slot := range slots {
		resp := SlotToResponse(&slot)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
