package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type BookAppointmentRequest struct {
	DoctorID uuid.UUID `json:"doctor_id" validate:"required"`
	SlotID   int64     `json:"slot_id" validate:"required,min=1"`
	Date     string    `json:"date" validate:"required,datetime=2006-01-02"`
	Type     string    `json:"type" validate:"required,oneof=in-person video"`
	Reason   string    `json:"reason" validate:"omitempty,max=1000"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=1000"`
}

type CompleteAppointmentRequest struct {
	Notes string `json:"notes" validate:"omitempty,max=5000"`
}

// Response DTOs

type AppointmentResponse struct {
	ID                 uuid.UUID      `json:"id"`
	PatientID          uuid.UUID      `json:"patient_id"`
	DoctorID           uuid.UUID      `json:"doctor_id"`
	SlotID             int64          `json:"slot_id"`
	Date               string         `json:"date"`
	StartTime          string         `json:"start_time"`
	EndTime            string         `json:"end_time"`
	Type               string         `json:"type"`
	Status             string         `json:"status"`
	Reason             string         `json:"reason,omitempty"`
	Notes              string         `json:"notes,omitempty"`
	CancellationReason string         `json:"cancellation_reason,omitempty"`
	CanJoinVideo       bool           `json:"can_join_video"`
	Doctor             *PartyResponse `json:"doctor,omitempty"`
	Patient            *PartyResponse `json:"patient,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

// PartyResponse is the minimal identity of the other side of an appointment.
type PartyResponse struct {
	ID           uuid.UUID `json:"id"`
	FullName     string    `json:"full_name"`
	ProfileImage string    `json:"profile_image,omitempty"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

type VideoTokenResponse struct {
	Room      string    `json:"room"`
	Token     string    `json:"token"`
	AppID     string    `json:"app_id"`
	ExpiresAt time.Time `json:"expires_at"`
}
