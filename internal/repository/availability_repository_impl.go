package repository

import (
	"errors"

	"github.com/medilink/telehealth-api/internal/domain/entity"
	domainRepo "github.com/medilink/telehealth-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type availabilityRepository struct{}

func NewAvailabilityRepository() domainRepo.AvailabilityRepository {
	return &availabilityRepository{}
}

func (r *availabilityRepository) FindByID(db *gorm.DB, id int64) (*entity.AvailabilitySlot, error) {
	var slot entity.AvailabilitySlot
	err := db.Where("id = ?", id).First(&slot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &slot, nil
}

func (r *availabilityRepository) FindByDoctorAndWeekday(db *gorm.DB, doctorID uuid.UUID, weekday entity.Weekday) ([]entity.AvailabilitySlot, error) {
	var slots []entity.AvailabilitySlot
	err := db.Where("doctor_id = ? AND weekday = ?", doctorID, weekday).
		Order("start_time ASC").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *availabilityRepository) FindByDoctor(db *gorm.DB, doctorID uuid.UUID) ([]entity.AvailabilitySlot, error) {
	var slots []entity.AvailabilitySlot
	err := db.Where("doctor_id = ?", doctorID).
		Order("weekday ASC, start_time ASC").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

// Reserve atomically marks a slot booked ONLY if it is currently free.
// Two concurrent reservations of the same slot resolve to one affected row
// for the first committed writer and zero for the loser.
func (r *availabilityRepository) Reserve(db *gorm.DB, id int64) (int64, error) {
	result := db.Model(&entity.AvailabilitySlot{}).
		Where("id = ? AND is_booked = ?", id, false).
		Update("is_booked", true)
	return result.RowsAffected, result.Error
}

func (r *availabilityRepository) Release(db *gorm.DB, id int64) error {
	return db.Model(&entity.AvailabilitySlot{}).
		Where("id = ?", id).
		Update("is_booked", false).Error
}

func (r *availabilityRepository) CountBooked(db *gorm.DB, doctorID uuid.UUID, weekday entity.Weekday) (int64, error) {
	var count int64
	err := db.Model(&entity.AvailabilitySlot{}).
		Where("doctor_id = ? AND weekday = ? AND is_booked = ?", doctorID, weekday, true).
		Count(&count).Error
	return count, err
}

// ReplaceWeekday deletes the weekday entry and inserts the new slot sequence.
// Refuses when any existing slot is still booked, so availability edits can
// never orphan an active appointment's reservation.
func (r *availabilityRepository) ReplaceWeekday(db *gorm.DB, doctorID uuid.UUID, weekday entity.Weekday, slots []entity.AvailabilitySlot) error {
	var booked int64
	err := db.Model(&entity.AvailabilitySlot{}).
		Where("doctor_id = ? AND weekday = ? AND is_booked = ?", doctorID, weekday, true).
		Count(&booked).Error
	if err != nil {
		return err
	}
	if booked > 0 {
		return domainRepo.ErrSlotsStillBooked
	}

	if err := db.Where("doctor_id = ? AND weekday = ?", doctorID, weekday).
		Delete(&entity.AvailabilitySlot{}).Error; err != nil {
		return err
	}

	if len(slots) == 0 {
		return nil
	}
	return db.Create(&slots).Error
}
