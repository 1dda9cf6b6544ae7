package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type RecordFileRequest struct {
	Name string `json:"name" validate:"required"`
	URL  string `json:"url" validate:"required,url"`
}

type CreateMedicalRecordRequest struct {
	AppointmentID *uuid.UUID          `json:"appointment_id" validate:"omitempty"`
	Title         string              `json:"title" validate:"required,min=2,max=255"`
	Description   string              `json:"description" validate:"omitempty,max=5000"`
	RecordType    string              `json:"record_type" validate:"required,oneof=lab_result imaging prescription other"`
	Files         []RecordFileRequest `json:"files" validate:"omitempty,dive"`
}

// Response DTOs

type MedicalRecordResponse struct {
	ID            uuid.UUID              `json:"id"`
	PatientID     uuid.UUID              `json:"patient_id"`
	DoctorID      *uuid.UUID             `json:"doctor_id,omitempty"`
	AppointmentID *uuid.UUID             `json:"appointment_id,omitempty"`
	Title         string                 `json:"title"`
	Description   string                 `json:"description,omitempty"`
	RecordType    string                 `json:"record_type"`
	Files         map[string]interface{} `json:"files,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
}

type MedicalRecordListResponse struct {
	Records []MedicalRecordResponse `json:"records"`
	Total   int                     `json:"total"`
}
