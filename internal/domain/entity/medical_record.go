package entity

import (
	"time"

	"github.com/google/uuid"
)

// MedicalRecord holds patient-owned medical documents. Only file metadata is
// stored; upload and storage of the files themselves happen elsewhere.
type MedicalRecord struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID      *uuid.UUID `gorm:"type:uuid;index" json:"doctor_id,omitempty"`
	AppointmentID *uuid.UUID `gorm:"type:uuid;index" json:"appointment_id,omitempty"`
	Title         string     `gorm:"type:varchar(255);not null" json:"title"`
	Description   string     `gorm:"type:text" json:"description,omitempty"`
	RecordType    string     `gorm:"type:varchar(50);not null;default:'other'" json:"record_type"`
	Files         JSON       `gorm:"type:jsonb" json:"files,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient PatientProfile `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

func (MedicalRecord) TableName() string {
	return "medical_records"
}

// Record type constants
const (
	RecordTypeLabResult    = "lab_result"
	RecordTypeImaging      = "imaging"
	RecordTypePrescription = "prescription"
	RecordTypeOther        = "other"
)
