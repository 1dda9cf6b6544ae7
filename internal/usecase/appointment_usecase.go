package usecase

import (
	"context"
	"errors"
	"time"

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
	ErrAppointmentNotFound  = errors.New("appointment not found")
	ErrDoctorUnavailable    = errors.New("doctor is not accepting appointments")
	ErrSlotNotFound         = errors.New("availability slot not found")
	ErrSlotMismatch         = errors.New("slot does not match doctor and date")
	ErrSlotAlreadyBooked    = errors.New("slot is already booked")
	ErrNotAppointmentParty  = errors.New("not a party to this appointment")
	ErrAlreadyFinalized     = errors.New("appointment is already finalized")
	ErrPastAppointment      = errors.New("appointment start has already passed")
	ErrNotVideoAppointment  = errors.New("appointment is not a video consultation")
	ErrJoinWindowClosed     = errors.New("video join window is closed")
	ErrAppointmentNotDue    = errors.New("appointment has not started yet")
	ErrPatientProfileNeeded = errors.New("patient profile not found")
)

type AppointmentUsecase interface {
	Book(ctx context.Context, patientID uuid.UUID, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error)
	Cancel(ctx context.Context, id, actorID uuid.UUID, actorRole int, req *dto.CancelAppointmentRequest) (*dto.AppointmentResponse, error)
	Complete(ctx context.Context, id, doctorID uuid.UUID, req *dto.CompleteAppointmentRequest) (*dto.AppointmentResponse, error)
	MarkNoShow(ctx context.Context, id, doctorID uuid.UUID) (*dto.AppointmentResponse, error)
	GetByID(ctx context.Context, id, actorID uuid.UUID, actorRole int) (*dto.AppointmentResponse, error)
	ListForPatient(ctx context.Context, patientID uuid.UUID, status string) (*dto.AppointmentListResponse, error)
	ListForDoctor(ctx context.Context, doctorID uuid.UUID, status string) (*dto.AppointmentListResponse, error)
	VideoToken(ctx context.Context, id, actorID uuid.UUID, actorRole int) (*dto.VideoTokenResponse, error)
}

type appointmentUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	clk                clock.Clock
	appointmentRepo    repository.AppointmentRepository
	availabilityRepo   repository.AvailabilityRepository
	doctorProfileRepo  repository.DoctorProfileRepository
	patientProfileRepo repository.PatientProfileRepository
	videoRoomService   *service.VideoRoomService
	auditService       service.AuditService
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	clk clock.Clock,
	appointmentRepo repository.AppointmentRepository,
	availabilityRepo repository.AvailabilityRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	patientProfileRepo repository.PatientProfileRepository,
	videoRoomService *service.VideoRoomService,
	auditService service.AuditService,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:                 db,
		log:                log,
		clk:                clk,
		appointmentRepo:    appointmentRepo,
		availabilityRepo:   availabilityRepo,
		doctorProfileRepo:  doctorProfileRepo,
		patientProfileRepo: patientProfileRepo,
		videoRoomService:   videoRoomService,
		auditService:       auditService,
	}
}

// Book reserves a slot and creates the appointment in one transaction. The
// reservation is a conditional write on is_booked, so two concurrent bookings
// of the same slot resolve to exactly one appointment; the loser sees
// ErrSlotAlreadyBooked.
func (u *appointmentUsecase) Book(ctx context.Context, patientID uuid.UUID, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient, err := u.patientProfileRepo.FindByUserID(tx, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient profile: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientProfileNeeded
	}

	doctor, err := u.doctorProfileRepo.FindByUserID(tx, req.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	if !doctor.IsAcceptingAppointments {
		return nil, ErrDoctorUnavailable
	}

	slot, err := u.availabilityRepo.FindByID(tx, req.SlotID)
	if err != nil {
		u.log.Warnf("Failed to find slot: %+v", err)
		return nil, err
	}
	if slot == nil {
		return nil, ErrSlotNotFound
	}
	if slot.DoctorID != req.DoctorID || slot.Weekday != entity.WeekdayOf(date) {
		return nil, ErrSlotMismatch
	}

	now := u.clk.Now()
	start, err := slot.StartOn(date)
	if err != nil {
		u.log.Warnf("Failed to parse slot start time: %+v", err)
		return nil, err
	}
	if !start.After(now) {
		return nil, ErrPastDate
	}

	affected, err := u.availabilityRepo.Reserve(tx, slot.ID)
	if err != nil {
		u.log.Warnf("Failed to reserve slot: %+v", err)
		return nil, err
	}
	if affected == 0 {
		return nil, ErrSlotAlreadyBooked
	}

	appointment := &entity.Appointment{
		PatientID: patientID,
		DoctorID:  req.DoctorID,
		SlotID:    slot.ID,
		Date:      date,
		StartTime: slot.StartTime,
		EndTime:   slot.EndTime,
		Type:      entity.AppointmentType(req.Type),
		Status:    entity.AppointmentStatusScheduled,
		Reason:    req.Reason,
	}

	if err := u.appointmentRepo.Create(tx, appointment); err != nil {
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, err
	}

	if err := u.auditService.Log(ctx, tx, &patientID, entity.AuditActionAppointmentBook, entity.JSON{
		"appointment_id": appointment.ID.String(),
		"doctor_id":      req.DoctorID.String(),
		"slot_id":        slot.ID,
		"date":           req.Date,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.AppointmentToResponse(appointment, now), nil
}

// Cancel moves a scheduled appointment to cancelled and releases its slot in
// the same transaction. Cancellation is the only transition that frees the
// slot; completed and no-show appointments keep it consumed.
func (u *appointmentUsecase) Cancel(ctx context.Context, id, actorID uuid.UUID, actorRole int, req *dto.CancelAppointmentRequest) (*dto.AppointmentResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.findForParty(tx, id, actorID, actorRole)
	if err != nil {
		return nil, err
	}
	if appointment.IsTerminal() {
		return nil, ErrAlreadyFinalized
	}

	now := u.clk.Now()
	startAt, err := appointment.StartAt()
	if err != nil {
		u.log.Warnf("Failed to parse appointment start time: %+v", err)
		return nil, err
	}
	if startAt.Before(now) {
		return nil, ErrPastAppointment
	}

	affected, err := u.appointmentRepo.UpdateStatusFromScheduled(tx, id, entity.AppointmentStatusCancelled, map[string]interface{}{
		"cancellation_reason": req.Reason,
	})
	if err != nil {
		u.log.Warnf("Failed to cancel appointment: %+v", err)
		return nil, err
	}
	if affected == 0 {
		return nil, ErrAlreadyFinalized
	}

	if err := u.availabilityRepo.Release(tx, appointment.SlotID); err != nil {
		u.log.Warnf("Failed to release slot: %+v", err)
		return nil, err
	}

	if err := u.auditService.Log(ctx, tx, &actorID, entity.AuditActionAppointmentCancel, entity.JSON{
		"appointment_id": id.String(),
		"slot_id":        appointment.SlotID,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	appointment.Status = entity.AppointmentStatusCancelled
	appointment.CancellationReason = req.Reason
	return converter.AppointmentToResponse(appointment, now), nil
}

func (u *appointmentUsecase) Complete(ctx context.Context, id, doctorID uuid.UUID, req *dto.CompleteAppointmentRequest) (*dto.AppointmentResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.findForParty(tx, id, doctorID, entity.RoleIDDoctor)
	if err != nil {
		return nil, err
	}

	affected, err := u.appointmentRepo.UpdateStatusFromScheduled(tx, id, entity.AppointmentStatusCompleted, map[string]interface{}{
		"notes": req.Notes,
	})
	if err != nil {
		u.log.Warnf("Failed to complete appointment: %+v", err)
		return nil, err
	}
	if affected == 0 {
		return nil, ErrAlreadyFinalized
	}

	if err := u.auditService.Log(ctx, tx, &doctorID, entity.AuditActionAppointmentComplete, entity.JSON{
		"appointment_id": id.String(),
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	appointment.Status = entity.AppointmentStatusCompleted
	appointment.Notes = req.Notes
	return converter.AppointmentToResponse(appointment, u.clk.Now()), nil
}

// MarkNoShow records that the patient never arrived. Only allowed once the
// scheduled start has passed. The slot stays consumed.
func (u *appointmentUsecase) MarkNoShow(ctx context.Context, id, doctorID uuid.UUID) (*dto.AppointmentResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.findForParty(tx, id, doctorID, entity.RoleIDDoctor)
	if err != nil {
		return nil, err
	}

	now := u.clk.Now()
	startAt, err := appointment.StartAt()
	if err != nil {
		u.log.Warnf("Failed to parse appointment start time: %+v", err)
		return nil, err
	}
	if startAt.After(now) {
		return nil, ErrAppointmentNotDue
	}

	affected, err := u.appointmentRepo.UpdateStatusFromScheduled(tx, id, entity.AppointmentStatusNoShow, nil)
	if err != nil {
		u.log.Warnf("Failed to mark no-show: %+v", err)
		return nil, err
	}
	if affected == 0 {
		return nil, ErrAlreadyFinalized
	}

	if err := u.auditService.Log(ctx, tx, &doctorID, entity.AuditActionAppointmentNoShow, entity.JSON{
		"appointment_id": id.String(),
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	appointment.Status = entity.AppointmentStatusNoShow
	return converter.AppointmentToResponse(appointment, now), nil
}

func (u *appointmentUsecase) GetByID(ctx context.Context, id, actorID uuid.UUID, actorRole int) (*dto.AppointmentResponse, error) {
	appointment, err := u.findForParty(u.db.WithContext(ctx), id, actorID, actorRole)
	if err != nil {
		return nil, err
	}
	return converter.AppointmentToResponse(appointment, u.clk.Now()), nil
}

func (u *appointmentUsecase) ListForPatient(ctx context.Context, patientID uuid.UUID, status string) (*dto.AppointmentListResponse, error) {
	appointments, err := u.appointmentRepo.FindByPatientID(u.db.WithContext(ctx), patientID, entity.AppointmentStatus(status))
	if err != nil {
		u.log.Warnf("Failed to list appointments: %+v", err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments, u.clk.Now()),
		Total:        len(appointments),
	}, nil
}

func (u *appointmentUsecase) ListForDoctor(ctx context.Context, doctorID uuid.UUID, status string) (*dto.AppointmentListResponse, error) {
	appointments, err := u.appointmentRepo.FindByDoctorID(u.db.WithContext(ctx), doctorID, entity.AppointmentStatus(status))
	if err != nil {
		u.log.Warnf("Failed to list appointments: %+v", err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments, u.clk.Now()),
		Total:        len(appointments),
	}, nil
}

// VideoToken hands out a room credential when the join window is open. The
// window check runs against the clock on every call; a token minted inside
// the window expires with the credential TTL, it is never refreshed past the
// window by caching.
func (u *appointmentUsecase) VideoToken(ctx context.Context, id, actorID uuid.UUID, actorRole int) (*dto.VideoTokenResponse, error) {
	appointment, err := u.findForParty(u.db.WithContext(ctx), id, actorID, actorRole)
	if err != nil {
		return nil, err
	}

	if appointment.Type != entity.AppointmentTypeVideo {
		return nil, ErrNotVideoAppointment
	}
	if !appointment.CanJoinVideo(u.clk.Now()) {
		return nil, ErrJoinWindowClosed
	}

	cred, err := u.videoRoomService.JoinCredential(ctx, appointment.ID, actorID)
	if err != nil {
		u.log.Warnf("Failed to obtain video credential: %+v", err)
		return nil, err
	}

	return &dto.VideoTokenResponse{
		Room:      cred.Room,
		Token:     cred.Token,
		AppID:     cred.AppID,
		ExpiresAt: cred.ExpiresAt,
	}, nil
}

// findForParty loads an appointment and enforces that the actor is one of
// its parties. Admins see everything; doctors and patients only their own.
func (u *appointmentUsecase) findForParty(db *gorm.DB, id, actorID uuid.UUID, actorRole int) (*entity.Appointment, error) {
	appointment, err := u.appointmentRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment: %+v", err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	switch actorRole {
	case entity.RoleIDAdmin:
	case entity.RoleIDDoctor:
		if appointment.DoctorID != actorID {
			return nil, ErrNotAppointmentParty
		}
	case entity.RoleIDPatient:
		if appointment.PatientID != actorID {
			return nil, ErrNotAppointmentParty
		}
	default:
		return nil, ErrNotAppointmentParty
	}

	return appointment, nil
}
