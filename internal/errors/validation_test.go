package errors

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("questionText", "must have exactly one correct option", "Q1")

	assert.Equal(t, "questionText", err.Field)
	assert.Equal(t, "must have exactly one correct option", err.Message)
	assert.Equal(t, "Q1", err.Value)
	assert.Equal(t, "validation error on field 'questionText': must have exactly one correct option", err.Error())
}

func TestValidationErrors(t *testing.T) {
	var errs ValidationErrors
	assert.Equal(t, "validation failed", errs.Error())

	errs = append(errs, *NewValidationError("title", "is required", nil))
	assert.Equal(t, "validation failed: title is required", errs.Error())

	errs = append(errs, *NewValidationError("courseId", "is required", nil))
	assert.Equal(t, "validation failed: 2 field errors", errs.Error())
}

func TestNewValidationErrorWithRule(t *testing.T) {
	err := NewValidationErrorWithRule("rating", "must be between 1 and 5", "rating", 9)

	assert.Equal(t, "rating", err.Rule)
	assert.Equal(t, "rating", err.Field)
	assert.Equal(t, 9, err.Value)
}

func TestToValidationErrors(t *testing.T) {
	type payload struct {
		Email string `validate:"required,email"`
		Level string `validate:"oneof=Beginner Advanced"`
	}

	err := validator.New().Struct(payload{Email: "nope", Level: "Expert"})
	require.Error(t, err)

	errs := ToValidationErrors(err)
	require.Len(t, errs, 2)
	assert.Equal(t, "must be a valid email address", errs[0].Message)
	assert.Equal(t, "email", errs[0].Rule)
	assert.Equal(t, "must be one of: Beginner Advanced", errs[1].Message)
}

func TestToValidationErrors_NonValidatorError(t *testing.T) {
	assert.Empty(t, ToValidationErrors(assert.AnError))
}
