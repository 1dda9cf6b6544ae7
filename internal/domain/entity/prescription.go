package entity

import (
	"time"

	"github.com/google/uuid"
)

// Prescription is issued by a doctor for a patient, optionally tied to a
// completed appointment.
type Prescription struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"doctor_id"`
	AppointmentID *uuid.UUID `gorm:"type:uuid;index" json:"appointment_id,omitempty"`
	Diagnosis     string     `gorm:"type:text;not null" json:"diagnosis"`
	Medications   JSON       `gorm:"type:jsonb" json:"medications,omitempty"`
	Notes         string     `gorm:"type:text" json:"notes,omitempty"`
	IssuedAt      time.Time  `gorm:"not null" json:"issued_at"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient PatientProfile `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor  DoctorProfile  `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (Prescription) TableName() string {
	return "prescriptions"
}
