package repository

import (
	"errors"

	"github.com/medilink/telehealth-api/internal/domain/entity"
	domainRepo "github.com/medilink/telehealth-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Create(appointment).Error
}

func (r *appointmentRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Preload("Doctor.User").Preload("Patient.User").Preload("Slot").
		Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindByPatientID(db *gorm.DB, patientID uuid.UUID, status entity.AppointmentStatus) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	query := db.Preload("Doctor.User").Where("patient_id = ?", patientID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("date DESC, start_time DESC").Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID, status entity.AppointmentStatus) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	query := db.Preload("Patient.User").Where("doctor_id = ?", doctorID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("date DESC, start_time DESC").Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

// UpdateStatusFromScheduled atomically finalizes an appointment ONLY if it is
// still scheduled. Returns affected rows: 1 = success, 0 = already finalized
// (prevents double-cancel and cancel-after-complete races).
func (r *appointmentRepository) UpdateStatusFromScheduled(db *gorm.DB, id uuid.UUID, status entity.AppointmentStatus, updates map[string]interface{}) (int64, error) {
	values := map[string]interface{}{"status": status}
	for k, v := range updates {
		values[k] = v
	}
	result := db.Model(&entity.Appointment{}).
		Where("id = ? AND status = ?", id, entity.AppointmentStatusScheduled).
		Updates(values)
	return result.RowsAffected, result.Error
}
