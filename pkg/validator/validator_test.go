package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Email string `validate:"required,email"`
	Type  string `validate:"required,oneof=in-person video"`
	Date  string `validate:"required,datetime=2006-01-02"`
}

func TestValidatePasses(t *testing.T) {
	cv := NewValidator()

	err := cv.Validate(&sampleRequest{
		Email: "pat@example.com",
		Type:  "video",
		Date:  "2026-03-02",
	})
	assert.NoError(t, err)
}

func TestFormatValidationErrors(t *testing.T) {
	cv := NewValidator()

	err := cv.Validate(&sampleRequest{
		Email: "not-an-email",
		Type:  "phone",
	})
	require.Error(t, err)

	fields := cv.FormatValidationErrors(err)
	assert.Equal(t, "Email must be a valid email address", fields["Email"])
	assert.Equal(t, "Type must be one of: in-person video", fields["Type"])
	assert.Equal(t, "Date is required", fields["Date"])
}
