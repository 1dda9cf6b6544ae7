package dto

import (
	"github.com/google/uuid"
)

// Request DTOs

type ListDoctorsRequest struct {
	Name           string `json:"name" validate:"omitempty"`
	Specialization string `json:"specialization" validate:"omitempty"`
	AcceptingOnly  bool   `json:"accepting_only"`
}

type UpdateDoctorProfileRequest struct {
	FullName        string   `json:"full_name" validate:"omitempty,min=2"`
	ProfileImage    string   `json:"profile_image" validate:"omitempty,url"`
	Specialization  string   `json:"specialization" validate:"omitempty"`
	ConsultationFee *float64 `json:"consultation_fee" validate:"omitempty,min=0"`
	ExperienceYears *int     `json:"experience_years" validate:"omitempty,min=0"`
	HospitalName    string   `json:"hospital_name" validate:"omitempty"`
	HospitalAddress string   `json:"hospital_address" validate:"omitempty"`
	Biography       string   `json:"biography" validate:"omitempty"`
}

type SetAcceptingRequest struct {
	IsAcceptingAppointments *bool `json:"is_accepting_appointments" validate:"required"`
}

// Response DTOs

type DoctorProfileResponse struct {
	Specialization          string `json:"specialization"`
	LicenseNumber           string `json:"license_number"`
	ConsultationFee         string `json:"consultation_fee"`
	ExperienceYears         int    `json:"experience_years"`
	HospitalName            string `json:"hospital_name,omitempty"`
	HospitalAddress         string `json:"hospital_address,omitempty"`
	Biography               string `json:"biography,omitempty"`
	IsAcceptingAppointments bool   `json:"is_accepting_appointments"`
}

type DoctorResponse struct {
	ID                      uuid.UUID      `json:"id"`
	FullName                string         `json:"full_name"`
	Email                   string         `json:"email"`
	ProfileImage            string         `json:"profile_image,omitempty"`
	Specialization          string         `json:"specialization"`
	ConsultationFee         string         `json:"consultation_fee"`
	ExperienceYears         int            `json:"experience_years"`
	HospitalName            string         `json:"hospital_name,omitempty"`
	Biography               string         `json:"biography,omitempty"`
	IsAcceptingAppointments bool           `json:"is_accepting_appointments"`
	Availability            []SlotResponse `json:"availability,omitempty"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}
