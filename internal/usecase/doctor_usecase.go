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
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrDoctorNotFound = errors.New("doctor not found")

type DoctorUsecase interface {
	List(ctx context.Context, req *dto.ListDoctorsRequest) (*dto.DoctorListResponse, error)
	GetByID(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error)
	UpdateProfile(ctx context.Context, doctorID uuid.UUID, req *dto.UpdateDoctorProfileRequest) (*dto.DoctorResponse, error)
	SetAccepting(ctx context.Context, doctorID uuid.UUID, req *dto.SetAcceptingRequest) (*dto.DoctorResponse, error)
}

type doctorUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	userRepo          repository.UserRepository
	doctorProfileRepo repository.DoctorProfileRepository
	availabilityRepo  repository.AvailabilityRepository
	auditService      service.AuditService
}

func NewDoctorUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	availabilityRepo repository.AvailabilityRepository,
	auditService service.AuditService,
) DoctorUsecase {
	return &doctorUsecase{
		db:                db,
		log:               log,
		userRepo:          userRepo,
		doctorProfileRepo: doctorProfileRepo,
		availabilityRepo:  availabilityRepo,
		auditService:      auditService,
	}
}

func (u *doctorUsecase) List(ctx context.Context, req *dto.ListDoctorsRequest) (*dto.DoctorListResponse, error) {
	filter := &entity.DoctorFilter{
		Name:           req.Name,
		Specialization: req.Specialization,
		AcceptingOnly:  req.AcceptingOnly,
	}

	profiles, err := u.doctorProfileRepo.FindAll(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to list doctors: %+v", err)
		return nil, err
	}

	return &dto.DoctorListResponse{
		Doctors: converter.DoctorsToResponses(profiles),
		Total:   len(profiles),
	}, nil
}

func (u *doctorUsecase) GetByID(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error) {
	db := u.db.WithContext(ctx)

	profile, err := u.doctorProfileRepo.FindByUserID(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrDoctorNotFound
	}

	slots, err := u.availabilityRepo.FindByDoctor(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to load doctor availability: %+v", err)
		return nil, err
	}
	profile.Availability = slots

	return converter.DoctorToResponse(profile), nil
}

func (u *doctorUsecase) UpdateProfile(ctx context.Context, doctorID uuid.UUID, req *dto.UpdateDoctorProfileRequest) (*dto.DoctorResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	profile, err := u.doctorProfileRepo.FindByUserID(tx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrDoctorNotFound
	}

	if req.FullName != "" || req.ProfileImage != "" {
		user, err := u.userRepo.FindByID(tx, doctorID)
		if err != nil {
			u.log.Warnf("Failed to find user: %+v", err)
			return nil, err
		}
		if user == nil {
			return nil, ErrUserNotFound
		}
		if req.FullName != "" {
			user.FullName = req.FullName
		}
		if req.ProfileImage != "" {
			user.ProfileImage = req.ProfileImage
		}
		if err := u.userRepo.Update(tx, user); err != nil {
			u.log.Warnf("Failed to update user: %+v", err)
			return nil, err
		}
		profile.User = *user
	}

	if req.Specialization != "" {
		profile.Specialization = req.Specialization
	}
	if req.ConsultationFee != nil {
		profile.ConsultationFee = decimal.NewFromFloat(*req.ConsultationFee)
	}
	if req.ExperienceYears != nil {
		profile.ExperienceYears = *req.ExperienceYears
	}
	if req.HospitalName != "" {
		profile.HospitalName = req.HospitalName
	}
	if req.HospitalAddress != "" {
		profile.HospitalAddress = req.HospitalAddress
	}
	if req.Biography != "" {
		profile.Biography = req.Biography
	}

	if err := u.doctorProfileRepo.Update(tx, profile); err != nil {
		u.log.Warnf("Failed to update doctor profile: %+v", err)
		return nil, err
	}

	if err := u.auditService.Log(ctx, tx, &doctorID, entity.AuditActionProfileUpdate, nil); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.DoctorToResponse(profile), nil
}

func (u *doctorUsecase) SetAccepting(ctx context.Context, doctorID uuid.UUID, req *dto.SetAcceptingRequest) (*dto.DoctorResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	profile, err := u.doctorProfileRepo.FindByUserID(tx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrDoctorNotFound
	}

	profile.IsAcceptingAppointments = *req.IsAcceptingAppointments

	if err := u.doctorProfileRepo.Update(tx, profile); err != nil {
		u.log.Warnf("Failed to update doctor profile: %+v", err)
		return nil, err
	}

	if err := u.auditService.Log(ctx, tx, &doctorID, entity.AuditActionProfileUpdate, entity.JSON{"is_accepting_appointments": profile.IsAcceptingAppointments}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.DoctorToResponse(profile), nil
}
