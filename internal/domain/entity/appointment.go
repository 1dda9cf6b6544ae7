package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusNoShow    AppointmentStatus = "no-show"
)

// AppointmentType distinguishes in-person visits from video consultations
type AppointmentType string

const (
	AppointmentTypeInPerson AppointmentType = "in-person"
	AppointmentTypeVideo    AppointmentType = "video"
)

// VideoJoinWindow is the symmetric window around the scheduled start inside
// which a video consultation may be joined.
const VideoJoinWindow = 30 * time.Minute

// Appointment represents a patient booking of one availability slot.
// It is created in scheduled status and moves to exactly one terminal status
// (completed, cancelled or no-show); terminal statuses never transition again.
type Appointment struct {
	ID                 uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID          uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID           uuid.UUID         `gorm:"type:uuid;not null;index" json:"doctor_id"`
	SlotID             int64             `gorm:"not null;index" json:"slot_id"`
	Date               time.Time         `gorm:"type:date;not null;index" json:"date"`
	StartTime          string            `gorm:"type:time;not null" json:"start_time"`
	EndTime            string            `gorm:"type:time;not null" json:"end_time"`
	Type               AppointmentType   `gorm:"type:appointment_type;not null" json:"type"`
	Status             AppointmentStatus `gorm:"type:appointment_status;not null;default:'scheduled';index" json:"status"`
	Reason             string            `gorm:"type:text" json:"reason,omitempty"`
	Notes              string            `gorm:"type:text" json:"notes,omitempty"`
	CancellationReason string            `gorm:"type:text" json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient PatientProfile   `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor  DoctorProfile    `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Slot    AvailabilitySlot `gorm:"foreignKey:SlotID" json:"slot,omitempty"`
	Records []MedicalRecord  `gorm:"foreignKey:AppointmentID" json:"records,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// IsScheduled checks if the appointment is still active
func (a *Appointment) IsScheduled() bool {
	return a.Status == AppointmentStatusScheduled
}

// IsTerminal reports whether the appointment reached a final status.
func (a *Appointment) IsTerminal() bool {
	switch a.Status {
	case AppointmentStatusCompleted, AppointmentStatusCancelled, AppointmentStatusNoShow:
		return true
	}
	return false
}

// StartAt returns the exact scheduled instant: the calendar date combined
// with the start time-of-day.
func (a *Appointment) StartAt() (time.Time, error) {
	return CombineDateTime(a.Date, a.StartTime)
}

// CanJoinVideo reports whether the video consultation may be joined at the
// given instant: video type, still scheduled, and within VideoJoinWindow of
// the scheduled start on either side. The result is derived from the clock on
// every call and must not be stored. A start time that cannot be parsed keeps
// the window closed.
func (a *Appointment) CanJoinVideo(now time.Time) bool {
	if a.Type != AppointmentTypeVideo || a.Status != AppointmentStatusScheduled {
		return false
	}
	start, err := a.StartAt()
	if err != nil {
		return false
	}
	diff := start.Sub(now)
	if diff < 0 {
		diff = -diff
	}
	return diff < VideoJoinWindow
}
