package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type MedicationRequest struct {
	Name      string `json:"name" validate:"required"`
	Dosage    string `json:"dosage" validate:"required"`
	Frequency string `json:"frequency" validate:"required"`
	Duration  string `json:"duration" validate:"omitempty"`
}

type CreatePrescriptionRequest struct {
	PatientID     uuid.UUID           `json:"patient_id" validate:"required"`
	AppointmentID *uuid.UUID          `json:"appointment_id" validate:"omitempty"`
	Diagnosis     string              `json:"diagnosis" validate:"required"`
	Medications   []MedicationRequest `json:"medications" validate:"required,min=1,dive"`
	Notes         string              `json:"notes" validate:"omitempty,max=5000"`
}

// Response DTOs

type PrescriptionResponse struct {
	ID            uuid.UUID              `json:"id"`
	PatientID     uuid.UUID              `json:"patient_id"`
	DoctorID      uuid.UUID              `json:"doctor_id"`
	AppointmentID *uuid.UUID             `json:"appointment_id,omitempty"`
	Diagnosis     string                 `json:"diagnosis"`
	Medications   map[string]interface{} `json:"medications,omitempty"`
	Notes         string                 `json:"notes,omitempty"`
	IssuedAt      time.Time              `json:"issued_at"`
	Doctor        *PartyResponse         `json:"doctor,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
}

type PrescriptionListResponse struct {
	Prescriptions []PrescriptionResponse `json:"prescriptions"`
	Total         int                    `json:"total"`
}
