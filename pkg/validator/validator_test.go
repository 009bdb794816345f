package validator

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Username string `json:"username" validate:"required,max=5"`
	Role     string `json:"role" validate:"omitempty,role"`
	Content  string `json:"content" validate:"notblank"`
}

func newValidate(t *testing.T) *validator.Validate {
	v := validator.New()
	require.NoError(t, Register(v))
	return v
}

func TestRegister_RoleAndNotBlank(t *testing.T) {
	v := newValidate(t)

	assert.NoError(t, v.Struct(sample{Username: "bob", Role: "Doctor", Content: "hi"}))
	assert.NoError(t, v.Struct(sample{Username: "bob", Content: "hi"}))

	err := v.Struct(sample{Username: "bob", Role: "Nurse", Content: "hi"})
	require.Error(t, err)
	assert.Equal(t, "role must be one of Doctor, Patient, Admin", Describe(err))

	err = v.Struct(sample{Username: "bob", Content: "   "})
	require.Error(t, err)
	assert.Equal(t, "content is required", Describe(err))
}

func TestDescribe_MultipleFields(t *testing.T) {
	v := newValidate(t)

	err := v.Struct(sample{Username: "toolongname"})
	require.Error(t, err)
	assert.Equal(t, "username must be at most 5 characters; content is required", Describe(err))
}

func TestDescribe_PlainError(t *testing.T) {
	assert.Equal(t, "EOF", Describe(errors.New("EOF")))
}
