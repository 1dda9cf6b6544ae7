package repository

import (
	"github.com/medilink/telehealth-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	FindByPatientID(db *gorm.DB, patientID uuid.UUID, status entity.AppointmentStatus) ([]entity.Appointment, error)
	FindByDoctorID(db *gorm.DB, doctorID uuid.UUID, status entity.AppointmentStatus) ([]entity.Appointment, error)

	// UpdateStatusFromScheduled moves a scheduled appointment into a terminal
	// status with a single conditional write. Returns affected rows:
	// 1 = transitioned, 0 = the appointment was already finalized.
	UpdateStatusFromScheduled(db *gorm.DB, id uuid.UUID, status entity.AppointmentStatus, updates map[string]interface{}) (int64, error)
}
