package handler

import (
	"encoding/json"
	"net/http"

	"github.com/medilink/telehealth-api/internal/delivery/dto"
	"github.com/medilink/telehealth-api/internal/delivery/http/middleware"
	"github.com/medilink/telehealth-api/internal/usecase"
	"github.com/medilink/telehealth-api/pkg/response"
	"github.com/medilink/telehealth-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type MedicalRecordHandler struct {
	medicalRecordUsecase usecase.MedicalRecordUsecase
	validator            *validator.CustomValidator
}

func NewMedicalRecordHandler(medicalRecordUsecase usecase.MedicalRecordUsecase, validator *validator.CustomValidator) *MedicalRecordHandler {
	return &MedicalRecordHandler{
		medicalRecordUsecase: medicalRecordUsecase,
		validator:            validator,
	}
}

// Create stores a medical record for the authenticated patient
func (h *MedicalRecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	patientID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.CreateMedicalRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	record, err := h.medicalRecordUsecase.Create(r.Context(), patientID, &req)
	if err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrNotAppointmentParty:
			response.Forbidden(w, "Appointment does not belong to this patient")
		default:
			response.InternalServerError(w, "Failed to create medical record")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Medical record created successfully", record)
}

// Get returns one record visible to the caller
func (h *MedicalRecordHandler) Get(w http.ResponseWriter, r *http.Request) {
	actorID, actorRole, ok := actorFromContext(r)
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid record ID", nil)
		return
	}

	record, err := h.medicalRecordUsecase.GetByID(r.Context(), id, actorID, actorRole)
	if err != nil {
		switch err {
		case usecase.ErrMedicalRecordNotFound:
			response.NotFound(w, "Medical record not found")
		case usecase.ErrNotAppointmentParty:
			response.Forbidden(w, "Not a party to this record")
		default:
			response.InternalServerError(w, "Failed to get medical record")
		}
		return
	}

	response.Success(w, http.StatusOK, "Medical record retrieved successfully", record)
}

// ListMine lists the patient's own records
func (h *MedicalRecordHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	patientID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	result, err := h.medicalRecordUsecase.ListForPatient(r.Context(), patientID)
	if err != nil {
		response.InternalServerError(w, "Failed to list medical records")
		return
	}

	response.Success(w, http.StatusOK, "Medical records retrieved successfully", result)
}
