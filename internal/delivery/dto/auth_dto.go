package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// ExchangeTokenRequest carries an ID token issued by the external identity
// provider, to be exchanged for first-party tokens.
type ExchangeTokenRequest struct {
	IDToken string `json:"id_token" validate:"required,min=20"`
}

type RegisterPatientRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	FullName    string `json:"full_name" validate:"required,min=2"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,min=10,max=20"`
	DateOfBirth string `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	Gender      string `json:"gender" validate:"required,oneof=M F"`
	Address     string `json:"address" validate:"omitempty"`
}

type RegisterDoctorRequest struct {
	Email           string  `json:"email" validate:"required,email"`
	Password        string  `json:"password" validate:"required,min=8"`
	FullName        string  `json:"full_name" validate:"required,min=2"`
	Specialization  string  `json:"specialization" validate:"required"`
	LicenseNumber   string  `json:"license_number" validate:"required"`
	ConsultationFee float64 `json:"consultation_fee" validate:"required,min=0"`
	ExperienceYears int     `json:"experience_years" validate:"omitempty,min=0"`
	HospitalName    string  `json:"hospital_name" validate:"omitempty"`
	HospitalAddress string  `json:"hospital_address" validate:"omitempty"`
	Biography       string  `json:"biography" validate:"omitempty"`
}

// Response DTOs

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type LoginResponse struct {
	User  UserResponse  `json:"user"`
	Token TokenResponse `json:"token"`
}

type UserResponse struct {
	ID             uuid.UUID               `json:"id"`
	Email          string                  `json:"email"`
	FullName       string                  `json:"full_name"`
	Role           string                  `json:"role"`
	ProfileImage   string                  `json:"profile_image,omitempty"`
	DoctorProfile  *DoctorProfileResponse  `json:"doctor_profile,omitempty"`
	PatientProfile *PatientProfileResponse `json:"patient_profile,omitempty"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
}

// SessionResponse is the result of a session bootstrap. When the stored
// credentials fail any check the session comes back unauthenticated with no
// user attached.
type SessionResponse struct {
	Authenticated bool                 `json:"authenticated"`
	User          *SessionUserResponse `json:"user,omitempty"`
}

type SessionUserResponse struct {
	ID           string `json:"id"`
	Role         string `json:"role"`
	Email        string `json:"email,omitempty"`
	FullName     string `json:"full_name,omitempty"`
	ProfileImage string `json:"profile_image,omitempty"`
}

type PatientProfileResponse struct {
	PhoneNumber string `json:"phone_number,omitempty"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	Gender      string `json:"gender,omitempty"`
	Address     string `json:"address,omitempty"`
}
