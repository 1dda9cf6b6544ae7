package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DoctorProfile represents doctor-specific profile data
type DoctorProfile struct {
	UserID                  uuid.UUID       `gorm:"type:uuid;primaryKey" json:"user_id"`
	Specialization          string          `gorm:"type:varchar(100);not null;index" json:"specialization"`
	LicenseNumber           string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"license_number"`
	ConsultationFee         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"consultation_fee"`
	ExperienceYears         int             `gorm:"not null;default:0" json:"experience_years"`
	HospitalName            string          `gorm:"type:varchar(255)" json:"hospital_name,omitempty"`
	HospitalAddress         string          `gorm:"type:text" json:"hospital_address,omitempty"`
	Biography               string          `gorm:"type:text" json:"biography,omitempty"`
	IsAcceptingAppointments bool            `gorm:"not null;default:true;index" json:"is_accepting_appointments"`

	// Relationships
	User         User               `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Availability []AvailabilitySlot `gorm:"foreignKey:DoctorID" json:"availability,omitempty"`
}

func (DoctorProfile) TableName() string {
	return "doctor_profiles"
}
