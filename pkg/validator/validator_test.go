package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
}

func TestValidate_Valid(t *testing.T) {
	err := Validate(loginForm{Email: "jane@example.com", Password: "Secret123"})
	assert.NoError(t, err)
}

func TestValidate_MissingFields(t *testing.T) {
	err := Validate(loginForm{})

	require.Error(t, err)
	verr, ok := err.(*ValidationError)
	require.True(t, ok)

	fields := verr.Fields()
	assert.Equal(t, "is required", fields["Email"])
	assert.Equal(t, "is required", fields["Password"])
}

func TestValidate_InvalidEmail(t *testing.T) {
	err := Validate(loginForm{Email: "not-an-email", Password: "Secret123"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be a valid email address")
}

func TestValidate_MinLength(t *testing.T) {
	err := Validate(loginForm{Email: "jane@example.com", Password: "short"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be at least 8 characters")
}
