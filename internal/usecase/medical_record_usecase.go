package usecase

import (
	"context"
	"errors"

	"github.com/medilink/telehealth-api/internal/converter"
	"github.com/medilink/telehealth-api/internal/delivery/dto"
	"github.com/medilink/telehealth-api/internal/domain/entity"
	"github.com/medilink/telehealth-api/internal/domain/repository"
	"github.com/medilink/telehealth-api/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrMedicalRecordNotFound = errors.New("medical record not found")

type MedicalRecordUsecase interface {
	Create(ctx context.Context, patientID uuid.UUID, req *dto.CreateMedicalRecordRequest) (*dto.MedicalRecordResponse, error)
	GetByID(ctx context.Context, id, actorID uuid.UUID, actorRole int) (*dto.MedicalRecordResponse, error)
	ListForPatient(ctx context.Context, patientID uuid.UUID) (*dto.MedicalRecordListResponse, error)
}

type medicalRecordUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	medicalRecordRepo repository.MedicalRecordRepository
	appointmentRepo   repository.AppointmentRepository
	auditService      service.AuditService
}

func NewMedicalRecordUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	medicalRecordRepo repository.MedicalRecordRepository,
	appointmentRepo repository.AppointmentRepository,
	auditService service.AuditService,
) MedicalRecordUsecase {
	return &medicalRecordUsecase{
		db:                db,
		log:               log,
		medicalRecordRepo: medicalRecordRepo,
		appointmentRepo:   appointmentRepo,
		auditService:      auditService,
	}
}

// Create stores a patient-owned record. When the record is tied to an
// appointment the appointment must belong to the patient, and the treating
// doctor is recorded alongside.
func (u *medicalRecordUsecase) Create(ctx context.Context, patientID uuid.UUID, req *dto.CreateMedicalRecordRequest) (*dto.MedicalRecordResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	var doctorID *uuid.UUID
	if req.AppointmentID != nil {
		appointment, err := u.appointmentRepo.FindByID(tx, *req.AppointmentID)
		if err != nil {
			u.log.Warnf("Failed to find appointment: %+v", err)
			return nil, err
		}
		if appointment == nil {
			return nil, ErrAppointmentNotFound
		}
		if appointment.PatientID != patientID {
			return nil, ErrNotAppointmentParty
		}
		doctorID = &appointment.DoctorID
	}

	var files entity.JSON
	if len(req.Files) > 0 {
		items := make([]interface{}, len(req.Files))
		for i, f := range req.Files {
			items[i] = map[string]interface{}{"name": f.Name, "url": f.URL}
		}
		files = entity.JSON{"items": items}
	}

	record := &entity.MedicalRecord{
		PatientID:     patientID,
		DoctorID:      doctorID,
		AppointmentID: req.AppointmentID,
		Title:         req.Title,
		Description:   req.Description,
		RecordType:    req.RecordType,
		Files:         files,
	}

	if err := u.medicalRecordRepo.Create(tx, record); err != nil {
		u.log.Warnf("Failed to create medical record: %+v", err)
		return nil, err
	}

	if err := u.auditService.Log(ctx, tx, &patientID, entity.AuditActionMedicalRecordCreate, entity.JSON{
		"record_id": record.ID.String(),
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.MedicalRecordToResponse(record), nil
}

func (u *medicalRecordUsecase) GetByID(ctx context.Context, id, actorID uuid.UUID, actorRole int) (*dto.MedicalRecordResponse, error) {
	record, err := u.medicalRecordRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find medical record: %+v", err)
		return nil, err
	}
	if record == nil {
		return nil, ErrMedicalRecordNotFound
	}

	switch actorRole {
	case entity.RoleIDAdmin:
	case entity.RoleIDDoctor:
		if record.DoctorID == nil || *record.DoctorID != actorID {
			return nil, ErrNotAppointmentParty
		}
	case entity.RoleIDPatient:
		if record.PatientID != actorID {
			return nil, ErrNotAppointmentParty
		}
	default:
		return nil, ErrNotAppointmentParty
	}

	return converter.MedicalRecordToResponse(record), nil
}

func (u *medicalRecordUsecase) ListForPatient(ctx context.Context, patientID uuid.UUID) (*dto.MedicalRecordListResponse, error) {
	records, err := u.medicalRecordRepo.FindByPatientID(u.db.WithContext(ctx), patientID)
	if err != nil {
		u.log.Warnf("Failed to list medical records: %+v", err)
		return nil, err
	}

	return &dto.MedicalRecordListResponse{
		Records: converter.MedicalRecordsToResponses(records),
		Total:   len(records),
	}, nil
}
