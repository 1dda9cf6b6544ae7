package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/medilink/telehealth-api/internal/delivery/dto"
	"github.com/medilink/telehealth-api/internal/delivery/http/handler"
	"github.com/medilink/telehealth-api/internal/delivery/http/middleware"
	"github.com/medilink/telehealth-api/internal/domain/entity"
	"github.com/medilink/telehealth-api/internal/usecase"
	"github.com/medilink/telehealth-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
)

// stubAppointmentUsecase records calls; unimplemented methods panic via the
// embedded nil interface.
type stubAppointmentUsecase struct {
	usecase.AppointmentUsecase
	cancelled bool
	completed bool
	cancelReq *dto.CancelAppointmentRequest
}

func (s *stubAppointmentUsecase) Cancel(ctx context.Context, id, actorID uuid.UUID, actorRole int, req *dto.CancelAppointmentRequest) (*dto.AppointmentResponse, error) {
	s.cancelled = true
	s.cancelReq = req
	return &dto.AppointmentResponse{ID: id, Status: "cancelled"}, nil
}

func (s *stubAppointmentUsecase) Complete(ctx context.Context, id, doctorID uuid.UUID, req *dto.CompleteAppointmentRequest) (*dto.AppointmentResponse, error) {
	s.completed = true
	return &dto.AppointmentResponse{ID: id, Status: "completed"}, nil
}

func authedRequest(method, target, body string, roleID int) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))

	ctx := context.WithValue(req.Context(), middleware.UserIDKey, uuid.New())
	ctx = context.WithValue(ctx, middleware.RoleIDKey, roleID)
	req = req.WithContext(ctx)

	return mux.SetURLVars(req, map[string]string{"id": uuid.NewString()})
}

func TestCancelRejectsMalformedBody(t *testing.T) {
	stub := &stubAppointmentUsecase{}
	h := handler.NewAppointmentHandler(stub, validator.NewValidator())

	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodPost, "/api/v1/appointments/x/cancel", "{not json", entity.RoleIDPatient)
	h.Cancel(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, stub.cancelled)
}

func TestCancelAcceptsEmptyBody(t *testing.T) {
	stub := &stubAppointmentUsecase{}
	h := handler.NewAppointmentHandler(stub, validator.NewValidator())

	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodPost, "/api/v1/appointments/x/cancel", "", entity.RoleIDPatient)
	h.Cancel(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, stub.cancelled)
}

func TestCancelPassesReasonThrough(t *testing.T) {
	stub := &stubAppointmentUsecase{}
	h := handler.NewAppointmentHandler(stub, validator.NewValidator())

	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodPost, "/api/v1/appointments/x/cancel", `{"reason":"conflict"}`, entity.RoleIDPatient)
	h.Cancel(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "conflict", stub.cancelReq.Reason)
}

func TestCompleteRejectsMalformedBody(t *testing.T) {
	stub := &stubAppointmentUsecase{}
	h := handler.NewAppointmentHandler(stub, validator.NewValidator())

	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodPost, "/api/v1/doctor/appointments/x/complete", "{not json", entity.RoleIDDoctor)
	h.Complete(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, stub.completed)
}
