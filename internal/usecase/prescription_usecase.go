package usecase

import (
	"context"
	"errors"

	"github.com/medilink/telehealth-api/internal/converter"
	"github.com/medilink/telehealth-api/internal/delivery/dto"
	"github.com/medilink/telehealth-api/internal/domain/entity"
	"github.com/medilink/telehealth-api/internal/domain/repository"
	"github.com/medilink/telehealth-api/internal/service"
	"github.com/medilink/telehealth-api/pkg/clock"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrPrescriptionNotFound = errors.New("prescription not found")
	ErrPatientNotFound      = errors.New("patient not found")
	ErrAppointmentMismatch  = errors.New("appointment does not match doctor and patient")
)

type PrescriptionUsecase interface {
	Create(ctx context.Context, doctorID uuid.UUID, req *dto.CreatePrescriptionRequest) (*dto.PrescriptionResponse, error)
	GetByID(ctx context.Context, id, actorID uuid.UUID, actorRole int) (*dto.PrescriptionResponse, error)
	ListForPatient(ctx context.Context, patientID uuid.UUID) (*dto.PrescriptionListResponse, error)
	ListForDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.PrescriptionListResponse, error)
}

type prescriptionUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	clk                clock.Clock
	prescriptionRepo   repository.PrescriptionRepository
	patientProfileRepo repository.PatientProfileRepository
	appointmentRepo    repository.AppointmentRepository
	auditService       service.AuditService
}

func NewPrescriptionUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	clk clock.Clock,
	prescriptionRepo repository.PrescriptionRepository,
	patientProfileRepo repository.PatientProfileRepository,
	appointmentRepo repository.AppointmentRepository,
	auditService service.AuditService,
) PrescriptionUsecase {
	return &prescriptionUsecase{
		db:                 db,
		log:                log,
		clk:                clk,
		prescriptionRepo:   prescriptionRepo,
		patientProfileRepo: patientProfileRepo,
		appointmentRepo:    appointmentRepo,
		auditService:       auditService,
	}
}

func (u *prescriptionUsecase) Create(ctx context.Context, doctorID uuid.UUID, req *dto.CreatePrescriptionRequest) (*dto.PrescriptionResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient, err := u.patientProfileRepo.FindByUserID(tx, req.PatientID)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	if req.AppointmentID != nil {
		appointment, err := u.appointmentRepo.FindByID(tx, *req.AppointmentID)
		if err != nil {
			u.log.Warnf("Failed to find appointment: %+v", err)
			return nil, err
		}
		if appointment == nil {
			return nil, ErrAppointmentNotFound
		}
		if appointment.DoctorID != doctorID || appointment.PatientID != req.PatientID {
			return nil, ErrAppointmentMismatch
		}
	}

	items := make([]interface{}, len(req.Medications))
	for i, m := range req.Medications {
		items[i] = map[string]interface{}{
			"name":      m.Name,
			"dosage":    m.Dosage,
			"frequency": m.Frequency,
			"duration":  m.Duration,
		}
	}

	prescription := &entity.Prescription{
		PatientID:     req.PatientID,
		DoctorID:      doctorID,
		AppointmentID: req.AppointmentID,
		Diagnosis:     req.Diagnosis,
		Medications:   entity.JSON{"items": items},
		Notes:         req.Notes,
		IssuedAt:      u.clk.Now(),
	}

	if err := u.prescriptionRepo.Create(tx, prescription); err != nil {
		u.log.Warnf("Failed to create prescription: %+v", err)
		return nil, err
	}

	if err := u.auditService.Log(ctx, tx, &doctorID, entity.AuditActionPrescriptionCreate, entity.JSON{
		"prescription_id": prescription.ID.String(),
		"patient_id":      req.PatientID.String(),
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.PrescriptionToResponse(prescription), nil
}

func (u *prescriptionUsecase) GetByID(ctx context.Context, id, actorID uuid.UUID, actorRole int) (*dto.PrescriptionResponse, error) {
	prescription, err := u.prescriptionRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find prescription: %+v", err)
		return nil, err
	}
	if prescription == nil {
		return nil, ErrPrescriptionNotFound
	}

	switch actorRole {
	case entity.RoleIDAdmin:
	case entity.RoleIDDoctor:
		if prescription.DoctorID != actorID {
			return nil, ErrNotAppointmentParty
		}
	case entity.RoleIDPatient:
		if prescription.PatientID != actorID {
			return nil, ErrNotAppointmentParty
		}
	default:
		return nil, ErrNotAppointmentParty
	}

	return converter.PrescriptionToResponse(prescription), nil
}

func (u *prescriptionUsecase) ListForPatient(ctx context.Context, patientID uuid.UUID) (*dto.PrescriptionListResponse, error) {
	prescriptions, err := u.prescriptionRepo.FindByPatientID(u.db.WithContext(ctx), patientID)
	if err != nil {
		u.log.Warnf("Failed to list prescriptions: %+v", err)
		return nil, err
	}

	return &dto.PrescriptionListResponse{
		Prescriptions: converter.PrescriptionsToResponses(prescriptions),
		Total:         len(prescriptions),
	}, nil
}

func (u *prescriptionUsecase) ListForDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.PrescriptionListResponse, error) {
	prescriptions, err := u.prescriptionRepo.FindByDoctorID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to list prescriptions: %+v", err)
		return nil, err
	}

	return &dto.PrescriptionListResponse{
		Prescriptions: converter.PrescriptionsToResponses(prescriptions),
		Total:         len(prescriptions),
	}, nil
}
