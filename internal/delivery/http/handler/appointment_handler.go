package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/medilink/telehealth-api/internal/delivery/dto"
	"github.com/medilink/telehealth-api/internal/delivery/http/middleware"
	"github.com/medilink/telehealth-api/internal/usecase"
	"github.com/medilink/telehealth-api/pkg/response"
	"github.com/medilink/telehealth-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
	}
}

// Book creates an appointment on a free slot
// @Summary Book an appointment
// @Tags Appointments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.BookAppointmentRequest true "Book Appointment Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /appointments [post]
func (h *AppointmentHandler) Book(w http.ResponseWriter, r *http.Request) {
	patientID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.BookAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.Book(r.Context(), patientID, &req)
	if err != nil {
		switch err {
		case usecase.ErrInvalidDateFormat:
			response.Error(w, http.StatusBadRequest, "Invalid date format, use YYYY-MM-DD", nil)
		case usecase.ErrPastDate:
			response.Error(w, http.StatusBadRequest, "Slot start has already passed", nil)
		case usecase.ErrPatientProfileNeeded:
			response.Error(w, http.StatusBadRequest, "Patient profile not found", nil)
		case usecase.ErrDoctorNotFound:
			response.NotFound(w, "Doctor not found")
		case usecase.ErrDoctorUnavailable:
			response.Conflict(w, "Doctor is not accepting appointments")
		case usecase.ErrSlotNotFound:
			response.NotFound(w, "Slot not found")
		case usecase.ErrSlotMismatch:
			response.Error(w, http.StatusBadRequest, "Slot does not match doctor and date", nil)
		case usecase.ErrSlotAlreadyBooked:
			response.Conflict(w, "Slot is already booked")
		default:
			response.InternalServerError(w, "Failed to book appointment")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Appointment booked successfully", appointment)
}

// Cancel moves a scheduled appointment to cancelled and frees its slot
// @Summary Cancel an appointment
// @Tags Appointments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Appointment ID"
// @Param request body dto.CancelAppointmentRequest false "Cancel Request"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /appointments/{id}/cancel [post]
func (h *AppointmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	actorID, actorRole, ok := actorFromContext(r)
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	// The body is optional, but a present body must parse.
	var req dto.CancelAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	appointment, err := h.appointmentUsecase.Cancel(r.Context(), id, actorID, actorRole, &req)
	if err != nil {
		h.writeLifecycleError(w, err, "Failed to cancel appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment cancelled successfully", appointment)
}

// Complete marks a scheduled appointment completed (doctor only)
// @Summary Complete an appointment
// @Tags Appointments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Appointment ID"
// @Param request body dto.CompleteAppointmentRequest false "Complete Request"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /doctor/appointments/{id}/complete [post]
func (h *AppointmentHandler) Complete(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	// The body is optional, but a present body must parse.
	var req dto.CompleteAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	appointment, err := h.appointmentUsecase.Complete(r.Context(), id, doctorID, &req)
	if err != nil {
		h.writeLifecycleError(w, err, "Failed to complete appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment completed successfully", appointment)
}

// NoShow marks a past scheduled appointment as a no-show (doctor only)
// @Summary Mark a no-show
// @Tags Appointments
// @Security BearerAuth
// @Produce json
// @Param id path string true "Appointment ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /doctor/appointments/{id}/no-show [post]
func (h *AppointmentHandler) NoShow(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	appointment, err := h.appointmentUsecase.MarkNoShow(r.Context(), id, doctorID)
	if err != nil {
		h.writeLifecycleError(w, err, "Failed to mark no-show")
		return
	}

	response.Success(w, http.StatusOK, "Appointment marked as no-show", appointment)
}

// Get returns one appointment visible to the caller
// @Summary Get an appointment
// @Tags Appointments
// @Security BearerAuth
// @Produce json
// @Param id path string true "Appointment ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /appointments/{id} [get]
func (h *AppointmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	actorID, actorRole, ok := actorFromContext(r)
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	appointment, err := h.appointmentUsecase.GetByID(r.Context(), id, actorID, actorRole)
	if err != nil {
		h.writeLifecycleError(w, err, "Failed to get appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment retrieved successfully", appointment)
}

// ListMine lists the patient's own appointments
// @Summary List own appointments (patient)
// @Tags Appointments
// @Security BearerAuth
// @Produce json
// @Param status query string false "Filter by status"
// @Success 200 {object} response.Response
// @Router /appointments [get]
func (h *AppointmentHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	patientID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	result, err := h.appointmentUsecase.ListForPatient(r.Context(), patientID, r.URL.Query().Get("status"))
	if err != nil {
		response.InternalServerError(w, "Failed to list appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", result)
}

// ListForDoctor lists the doctor's own appointments
// @Summary List own appointments (doctor)
// @Tags Appointments
// @Security BearerAuth
// @Produce json
// @Param status query string false "Filter by status"
// @Success 200 {object} response.Response
// @Router /doctor/appointments [get]
func (h *AppointmentHandler) ListForDoctor(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	result, err := h.appointmentUsecase.ListForDoctor(r.Context(), doctorID, r.URL.Query().Get("status"))
	if err != nil {
		response.InternalServerError(w, "Failed to list appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", result)
}

// VideoToken issues a room credential while the join window is open
// @Summary Get a video room token
// @Tags Appointments
// @Security BearerAuth
// @Produce json
// @Param id path string true "Appointment ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /appointments/{id}/video-token [get]
func (h *AppointmentHandler) VideoToken(w http.ResponseWriter, r *http.Request) {
	actorID, actorRole, ok := actorFromContext(r)
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	token, err := h.appointmentUsecase.VideoToken(r.Context(), id, actorID, actorRole)
	if err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrNotAppointmentParty:
			response.Forbidden(w, "Not a party to this appointment")
		case usecase.ErrNotVideoAppointment:
			response.Error(w, http.StatusBadRequest, "Appointment is not a video consultation", nil)
		case usecase.ErrJoinWindowClosed:
			response.Forbidden(w, "Video join window is closed")
		default:
			response.InternalServerError(w, "Failed to get video token")
		}
		return
	}

	response.Success(w, http.StatusOK, "Video token issued successfully", token)
}

func (h *AppointmentHandler) writeLifecycleError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case usecase.ErrAppointmentNotFound:
		response.NotFound(w, "Appointment not found")
	case usecase.ErrNotAppointmentParty:
		response.Forbidden(w, "Not a party to this appointment")
	case usecase.ErrAlreadyFinalized:
		response.Conflict(w, "Appointment is already finalized")
	case usecase.ErrPastAppointment:
		response.Error(w, http.StatusBadRequest, "Appointment start has already passed", nil)
	case usecase.ErrAppointmentNotDue:
		response.Error(w, http.StatusBadRequest, "Appointment has not started yet", nil)
	default:
		response.InternalServerError(w, fallback)
	}
}

func actorFromContext(r *http.Request) (uuid.UUID, int, bool) {
	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, 0, false
	}
	actorRole, ok := middleware.GetRoleIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, 0, false
	}
	return actorID, actorRole, true
}
