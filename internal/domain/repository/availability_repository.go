package repository

import (
	"errors"

	"github.com/medilink/telehealth-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrSlotsStillBooked is returned by ReplaceWeekday when the weekday entry
// still has booked slots referenced by active appointments.
var ErrSlotsStillBooked = errors.New("weekday has booked slots")

type AvailabilityRepository interface {
	FindByID(db *gorm.DB, id int64) (*entity.AvailabilitySlot, error)
	FindByDoctorAndWeekday(db *gorm.DB, doctorID uuid.UUID, weekday entity.Weekday) ([]entity.AvailabilitySlot, error)
	FindByDoctor(db *gorm.DB, doctorID uuid.UUID) ([]entity.AvailabilitySlot, error)

	// Reserve flips is_booked to true only if it is currently false, in a
	// single conditional write. Returns affected rows: 1 = reserved,
	// 0 = lost the race.
	Reserve(db *gorm.DB, id int64) (int64, error)

	// Release clears is_booked. Idempotent: releasing an already-released
	// slot affects zero rows and is not an error.
	Release(db *gorm.DB, id int64) error

	// CountBooked reports how many slots of one weekday entry are booked.
	CountBooked(db *gorm.DB, doctorID uuid.UUID, weekday entity.Weekday) (int64, error)

	// ReplaceWeekday swaps out a doctor's slot sequence for one weekday.
	ReplaceWeekday(db *gorm.DB, doctorID uuid.UUID, weekday entity.Weekday, slots []entity.AvailabilitySlot) error
}
