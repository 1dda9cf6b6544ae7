package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Weekday identifies one entry of a doctor's weekly availability table.
type Weekday string

const (
	WeekdayMonday    Weekday = "monday"
	WeekdayTuesday   Weekday = "tuesday"
	WeekdayWednesday Weekday = "wednesday"
	WeekdayThursday  Weekday = "thursday"
	WeekdayFriday    Weekday = "friday"
	WeekdaySaturday  Weekday = "saturday"
	WeekdaySunday    Weekday = "sunday"
)

// WeekdayOf maps a calendar date to its availability weekday.
func WeekdayOf(t time.Time) Weekday {
	switch t.Weekday() {
	case time.Monday:
		return WeekdayMonday
	case time.Tuesday:
		return WeekdayTuesday
	case time.Wednesday:
		return WeekdayWednesday
	case time.Thursday:
		return WeekdayThursday
	case time.Friday:
		return WeekdayFriday
	case time.Saturday:
		return WeekdaySaturday
	default:
		return WeekdaySunday
	}
}

// AvailabilitySlot is one bookable time window in a doctor's weekly
// availability. Slots within one (doctor, weekday) must not overlap and are
// stored in ascending start-time order; readers rely on that order instead of
// re-sorting. IsBooked is owned by the appointment lifecycle: set when a
// booking is created, cleared when it is cancelled, never written elsewhere.
type AvailabilitySlot struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	DoctorID  uuid.UUID `gorm:"type:uuid;not null;index:idx_slots_doctor_weekday" json:"doctor_id"`
	Weekday   Weekday   `gorm:"type:weekday;not null;index:idx_slots_doctor_weekday" json:"weekday"`
	StartTime string    `gorm:"type:time;not null" json:"start_time"`
	EndTime   string    `gorm:"type:time;not null" json:"end_time"`
	IsBooked  bool      `gorm:"not null;default:false" json:"is_booked"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor DoctorProfile `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (AvailabilitySlot) TableName() string {
	return "availability_slots"
}

// StartOn combines a calendar date with the slot's start time-of-day.
// Dropping the time-of-day component here is exactly the off-by-one-day
// mistake the join-window check exists to avoid.
func (s *AvailabilitySlot) StartOn(date time.Time) (time.Time, error) {
	return CombineDateTime(date, s.StartTime)
}

// timeOfDayLayouts covers both forms a time-of-day string takes: "HH:MM" as
// accepted from clients, and "HH:MM:SS" as postgres TIME columns scan back.
var timeOfDayLayouts = []string{"15:04:05", "15:04"}

// CombineDateTime attaches a time-of-day string to a calendar date in the
// date's location. A string matching neither layout is an error, never a
// silent midnight.
func CombineDateTime(date time.Time, timeOfDay string) (time.Time, error) {
	for _, layout := range timeOfDayLayouts {
		t, err := time.Parse(layout, timeOfDay)
		if err != nil {
			continue
		}
		return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), t.Second(), 0, date.Location()), nil
	}
	return time.Time{}, fmt.Errorf("malformed time of day %q", timeOfDay)
}

// TimeOfDayHHMM normalizes a stored time-of-day to the "HH:MM" wire form.
// Unparseable input is returned unchanged.
func TimeOfDayHHMM(timeOfDay string) string {
	for _, layout := range timeOfDayLayouts {
		if t, err := time.Parse(layout, timeOfDay); err == nil {
			return t.Format("15:04")
		}
	}
	return timeOfDay
}
