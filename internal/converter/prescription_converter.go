package converter

import (
	"github.com/medilink/telehealth-api/internal/delivery/dto"
	"github.com/medilink/telehealth-api/internal/domain/entity"

	"github.com/google/uuid"
)

// PrescriptionToResponse converts a Prescription entity to its DTO
func PrescriptionToResponse(prescription *entity.Prescription) *dto.PrescriptionResponse {
	if prescription == nil {
		return nil
	}

	response := &dto.PrescriptionResponse{
		ID:            prescription.ID,
		PatientID:     prescription.PatientID,
		DoctorID:      prescription.DoctorID,
		AppointmentID: prescription.AppointmentID,
		Diagnosis:     prescription.Diagnosis,
		Medications:   prescription.Medications,
		Notes:         prescription.Notes,
		IssuedAt:      prescription.IssuedAt,
		CreatedAt:     prescription.CreatedAt,
	}

	if prescription.Doctor.User.ID != uuid.Nil {
		response.Doctor = UserToParty(&prescription.Doctor.User)
	}

	return response
}

// PrescriptionsToResponses converts a slice of Prescription entities to DTOs
func PrescriptionsToResponses(prescriptions []entity.Prescription) []dto.PrescriptionResponse {
	responses := make([]dto.PrescriptionResponse, len(prescriptions))
	for i, prescription := range prescriptions {
		resp := PrescriptionToResponse(&prescription)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
