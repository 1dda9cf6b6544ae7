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
	ErrInvalidTimeFormat  = errors.New("invalid time format, use HH:MM")
	ErrSlotsOutOfOrder    = errors.New("slots must be ascending and non-overlapping")
	ErrPastDate           = errors.New("date is in the past")
	ErrWeekdayHasBookings = errors.New("weekday still has booked slots")
)

type AvailabilityUsecase interface {
	GetBookableSlots(ctx context.Context, doctorID uuid.UUID, date string) (*dto.BookableSlotsResponse, error)
	GetWeeklyAvailability(ctx context.Context, doctorID uuid.UUID) (*dto.SlotListResponse, error)
	SetWeeklyAvailability(ctx context.Context, doctorID uuid.UUID, req *dto.SetWeeklyAvailabilityRequest) (*dto.SlotListResponse, error)
}

type availabilityUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	clk               clock.Clock
	doctorProfileRepo repository.DoctorProfileRepository
	availabilityRepo  repository.AvailabilityRepository
	auditService      service.AuditService
}

func NewAvailabilityUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	clk clock.Clock,
	doctorProfileRepo repository.DoctorProfileRepository,
	availabilityRepo repository.AvailabilityRepository,
	auditService service.AuditService,
) AvailabilityUsecase {
	return &availabilityUsecase{
		db:                db,
		log:               log,
		clk:               clk,
		doctorProfileRepo: doctorProfileRepo,
		availabilityRepo:  availabilityRepo,
		auditService:      auditService,
	}
}

// GetBookableSlots lists the slots a patient can still book on the given
// date: unbooked slots of the date's weekday, minus slots whose start has
// already passed when the date is today. Stored order is preserved.
func (u *availabilityUsecase) GetBookableSlots(ctx context.Context, doctorID uuid.UUID, date string) (*dto.BookableSlotsResponse, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}

	now := u.clk.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, now.Location())
	if day.Before(today) {
		return nil, ErrPastDate
	}

	db := u.db.WithContext(ctx)

	profile, err := u.doctorProfileRepo.FindByUserID(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrDoctorNotFound
	}

	slots, err := u.availabilityRepo.FindByDoctorAndWeekday(db, doctorID, entity.WeekdayOf(day))
	if err != nil {
		u.log.Warnf("Failed to load slots: %+v", err)
		return nil, err
	}

	sameDay := day.Equal(today)
	bookable := make([]entity.AvailabilitySlot, 0, len(slots))
	for _, slot := range slots {
		if slot.IsBooked {
			continue
		}
		// Today's slots must start strictly after now.
		if sameDay {
			start, err := slot.StartOn(day)
			if err != nil {
				u.log.Warnf("Failed to parse slot start time: %+v", err)
				return nil, err
			}
			if !start.After(now) {
				continue
			}
		}
		bookable = append(bookable, slot)
	}

	return &dto.BookableSlotsResponse{
		DoctorID: doctorID,
		Date:     date,
		Slots:    converter.SlotsToResponses(bookable),
		Total:    len(bookable),
	}, nil
}

func (u *availabilityUsecase) GetWeeklyAvailability(ctx context.Context, doctorID uuid.UUID) (*dto.SlotListResponse, error) {
	slots, err := u.availabilityRepo.FindByDoctor(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to load slots: %+v", err)
		return nil, err
	}

	return &dto.SlotListResponse{
		Slots: converter.SlotsToResponses(slots),
		Total: len(slots),
	}, nil
}

// SetWeeklyAvailability replaces one weekday's slot sequence. The incoming
// slots must parse as HH:MM, each start before its end, and the sequence must
// be ascending without overlap. A weekday with live bookings cannot be
// replaced.
func (u *availabilityUsecase) SetWeeklyAvailability(ctx context.Context, doctorID uuid.UUID, req *dto.SetWeeklyAvailabilityRequest) (*dto.SlotListResponse, error) {
	weekday := entity.Weekday(req.Weekday)

	slots := make([]entity.AvailabilitySlot, len(req.Slots))
	prevEnd := time.Time{}
	for i, s := range req.Slots {
		start, err := time.Parse("15:04", s.StartTime)
		if err != nil {
			return nil, ErrInvalidTimeFormat
		}
		end, err := time.Parse("15:04", s.EndTime)
		if err != nil {
			return nil, ErrInvalidTimeFormat
		}
		if !start.Before(end) {
			return nil, ErrSlotsOutOfOrder
		}
		if i > 0 && start.Before(prevEnd) {
			return nil, ErrSlotsOutOfOrder
		}
		prevEnd = end

		slots[i] = entity.AvailabilitySlot{
			DoctorID:  doctorID,
			Weekday:   weekday,
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
		}
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.availabilityRepo.ReplaceWeekday(tx, doctorID, weekday, slots); err != nil {
		if errors.Is(err, repository.ErrSlotsStillBooked) {
			return nil, ErrWeekdayHasBookings
		}
		u.log.Warnf("Failed to replace weekday slots: %+v", err)
		return nil, err
	}

	if err := u.auditService.Log(ctx, tx, &doctorID, entity.AuditActionAvailabilityUpdate, entity.JSON{"weekday": req.Weekday, "slots": len(slots)}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	stored, err := u.availabilityRepo.FindByDoctorAndWeekday(u.db.WithContext(ctx), doctorID, weekday)
	if err != nil {
		u.log.Warnf("Failed to reload slots: %+v", err)
		return nil, err
	}

	return &dto.SlotListResponse{
		Slots: converter.SlotsToResponses(stored),
		Total: len(stored),
	}, nil
}
