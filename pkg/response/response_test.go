package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, http.StatusCreated, "Appointment booked", map[string]string{"id": "abc"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decode(t, rec)
	assert.True(t, body.Success)
	assert.Equal(t, "Appointment booked", body.Message)
	assert.NotNil(t, body.Data)
	assert.Empty(t, body.RedirectTo)
}

func TestUnauthorizedWithRedirectCarriesPath(t *testing.T) {
	rec := httptest.NewRecorder()
	UnauthorizedWithRedirect(rec, "", "/api/v1/appointments")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	body := decode(t, rec)
	assert.False(t, body.Success)
	assert.Equal(t, "Unauthorized", body.Message)
	assert.Equal(t, "/api/v1/appointments", body.RedirectTo)
}

func TestErrorEnvelopeOmitsEmptyFields(t *testing.T) {
	rec := httptest.NewRecorder()
	Conflict(rec, "Slot already booked")

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.NotContains(t, rec.Body.String(), "redirect_to")
	assert.NotContains(t, rec.Body.String(), "data")

	body := decode(t, rec)
	assert.False(t, body.Success)
	assert.Equal(t, "Slot already booked", body.Message)
}
