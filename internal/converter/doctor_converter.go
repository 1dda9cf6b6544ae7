package converter

import (
	"github.com/medilink/telehealth-api/internal/delivery/dto"
	"github.com/medilink/telehealth-api/internal/domain/entity"
)

// DoctorProfileToResponse converts a DoctorProfile entity to its DTO.
func DoctorProfileToResponse(profile *entity.DoctorProfile) *dto.DoctorProfileResponse {
	if profile == nil {
		return nil
	}

	return &dto.DoctorProfileResponse{
		Specialization:          profile.Specialization,
		LicenseNumber:           profile.LicenseNumber,
		ConsultationFee:         profile.ConsultationFee.StringFixed(2),
		ExperienceYears:         profile.ExperienceYears,
		HospitalName:            profile.HospitalName,
		HospitalAddress:         profile.HospitalAddress,
		Biography:               profile.Biography,
		IsAcceptingAppointments: profile.IsAcceptingAppointments,
	}
}

// DoctorToResponse flattens a DoctorProfile plus its User into the public
// doctor card. Availability is included when preloaded.
func DoctorToResponse(profile *entity.DoctorProfile) *dto.DoctorResponse {
	if profile == nil {
		return nil
	}

	response := &dto.DoctorResponse{
		ID:                      profile.UserID,
		FullName:                profile.User.FullName,
		Email:                   profile.User.Email,
		ProfileImage:            profile.User.ProfileImage,
		Specialization:          profile.Specialization,
		ConsultationFee:         profile.ConsultationFee.StringFixed(2),
		ExperienceYears:         profile.ExperienceYears,
		HospitalName:            profile.HospitalName,
		Biography:               profile.Biography,
		IsAcceptingAppointments: profile.IsAcceptingAppointments,
	}

	if len(profile.Availability) > 0 {
		response.Availability = SlotsToResponses(profile.Availability)
	}

	return response
}

// DoctorsToResponses converts a slice of DoctorProfile entities to DTOs.
func DoctorsToResponses(profiles []entity.DoctorProfile) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(profiles))
	for i, profile := range profiles {
		resp := DoctorToResponse(&profile)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
