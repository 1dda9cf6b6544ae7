package dto

import (
	"github.com/google/uuid"
)

// Request DTOs

type SlotRequest struct {
	StartTime string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime   string `json:"end_time" validate:"required,datetime=15:04"`
}

// SetWeeklyAvailabilityRequest replaces one weekday's slots wholesale.
type SetWeeklyAvailabilityRequest struct {
	Weekday string        `json:"weekday" validate:"required,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	Slots   []SlotRequest `json:"slots" validate:"required,dive"`
}

type BookableSlotsRequest struct {
	DoctorID uuid.UUID `json:"doctor_id" validate:"required"`
	Date     string    `json:"date" validate:"required,datetime=2006-01-02"`
}

// Response DTOs

type SlotResponse struct {
	ID        int64  `json:"id"`
	Weekday   string `json:"weekday"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	IsBooked  bool   `json:"is_booked"`
}

type SlotListResponse struct {
	Slots []SlotResponse `json:"slots"`
	Total int            `json:"total"`
}

type BookableSlotsResponse struct {
	DoctorID uuid.UUID      `json:"doctor_id"`
	Date     string         `json:"date"`
	Slots    []SlotResponse `json:"slots"`
	Total    int            `json:"total"`
}
