package converter

import (
	"time"

	"github.com/medilink/telehealth-api/internal/delivery/dto"
	"github.com/medilink/telehealth-api/internal/domain/entity"

	"github.com/google/uuid"
)

// AppointmentToResponse converts an Appointment entity to its DTO. The
// can_join_video flag is computed against now on every conversion, never
// persisted.
func AppointmentToResponse(appointment *entity.Appointment, now time.Time) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	response := &dto.AppointmentResponse{
		ID:                 appointment.ID,
		PatientID:          appointment.PatientID,
		DoctorID:           appointment.DoctorID,
		SlotID:             appointment.SlotID,
		Date:               appointment.Date.Format("2006-01-02"),
		StartTime:          entity.TimeOfDayHHMM(appointment.StartTime),
		EndTime:            entity.TimeOfDayHHMM(appointment.EndTime),
		Type:               string(appointment.Type),
		Status:             string(appointment.Status),
		Reason:             appointment.Reason,
		Notes:              appointment.Notes,
		CancellationReason: appointment.CancellationReason,
		CanJoinVideo:       appointment.CanJoinVideo(now),
		CreatedAt:          appointment.CreatedAt,
		UpdatedAt:          appointment.UpdatedAt,
	}

	// Include party info if preloaded
	if appointment.Doctor.User.ID != uuid.Nil {
		response.Doctor = UserToParty(&appointment.Doctor.User)
	}
	if appointment.Patient.User.ID != uuid.Nil {
		response.Patient = UserToParty(&appointment.Patient.User)
	}

	return response
}

// AppointmentsToResponses converts a slice of Appointment entities to DTOs
func AppointmentsToResponses(appointments []entity.Appointment, now time.Time) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i, appointment := range appointments {
		resp := AppointmentToResponse(&appointment, now)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
