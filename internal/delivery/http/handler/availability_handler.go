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

type AvailabilityHandler struct {
	availabilityUsecase usecase.AvailabilityUsecase
	validator           *validator.CustomValidator
}

func NewAvailabilityHandler(availabilityUsecase usecase.AvailabilityUsecase, validator *validator.CustomValidator) *AvailabilityHandler {
	return &AvailabilityHandler{
		availabilityUsecase: availabilityUsecase,
		validator:           validator,
	}
}

// BookableSlots lists the slots a patient can still book for a doctor and date
// @Summary List bookable slots
// @Tags Availability
// @Produce json
// @Param id path string true "Doctor ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /doctors/{id}/slots [get]
func (h *AvailabilityHandler) BookableSlots(w http.ResponseWriter, r *http.Request) {
	doctorID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		response.Error(w, http.StatusBadRequest, "date query parameter is required", nil)
		return
	}

	result, err := h.availabilityUsecase.GetBookableSlots(r.Context(), doctorID, date)
	if err != nil {
		switch err {
		case usecase.ErrInvalidDateFormat:
			response.Error(w, http.StatusBadRequest, "Invalid date format, use YYYY-MM-DD", nil)
		case usecase.ErrPastDate:
			response.Error(w, http.StatusBadRequest, "Date is in the past", nil)
		case usecase.ErrDoctorNotFound:
			response.NotFound(w, "Doctor not found")
		default:
			response.InternalServerError(w, "Failed to list slots")
		}
		return
	}

	response.Success(w, http.StatusOK, "Slots retrieved successfully", result)
}

// MyAvailability returns the authenticated doctor's full weekly table
// @Summary Get own weekly availability
// @Tags Availability
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /doctor/availability [get]
func (h *AvailabilityHandler) MyAvailability(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	result, err := h.availabilityUsecase.GetWeeklyAvailability(r.Context(), doctorID)
	if err != nil {
		response.InternalServerError(w, "Failed to get availability")
		return
	}

	response.Success(w, http.StatusOK, "Availability retrieved successfully", result)
}

// SetAvailability replaces one weekday's slot sequence for the doctor
// @Summary Set weekly availability
// @Tags Availability
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.SetWeeklyAvailabilityRequest true "Set Availability Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /doctor/availability [put]
func (h *AvailabilityHandler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.SetWeeklyAvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.availabilityUsecase.SetWeeklyAvailability(r.Context(), doctorID, &req)
	if err != nil {
		switch err {
		case usecase.ErrInvalidTimeFormat:
			response.Error(w, http.StatusBadRequest, "Invalid time format, use HH:MM", nil)
		case usecase.ErrSlotsOutOfOrder:
			response.Error(w, http.StatusBadRequest, "Slots must be ascending and non-overlapping", nil)
		case usecase.ErrWeekdayHasBookings:
			response.Conflict(w, "Weekday still has booked slots")
		default:
			response.InternalServerError(w, "Failed to set availability")
		}
		return
	}

	response.Success(w, http.StatusOK, "Availability updated successfully", result)
}
