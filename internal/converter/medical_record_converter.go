package converter

import (
	"github.com/medilink/telehealth-api/internal/delivery/dto"
	"github.com/medilink/telehealth-api/internal/domain/entity"
)

// MedicalRecordToResponse converts a MedicalRecord entity to its DTO
func MedicalRecordToResponse(record *entity.MedicalRecord) *dto.MedicalRecordResponse {
	if record == nil {
		return nil
	}

	return &dto.MedicalRecordResponse{
		ID:            record.ID,
		PatientID:     record.PatientID,
		DoctorID:      record.DoctorID,
		AppointmentID: record.AppointmentID,
		Title:         record.Title,
		Description:   record.Description,
		RecordType:    record.RecordType,
		Files:         record.Files,
		CreatedAt:     record.CreatedAt,
	}
}

// MedicalRecordsToResponses converts a slice of MedicalRecord entities to DTOs
func MedicalRecordsToResponses(records []entity.MedicalRecord) []dto.MedicalRecordResponse {
	responses := make([]dto.MedicalRecordResponse, len(records))
	for i, record := range records {
		resp := MedicalRecordToResponse(&record)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
