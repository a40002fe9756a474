package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/tdsa-academy/academy-service/internal/models"
)

// Validator is the main validator instance that combines all validation types
type Validator struct {
	structValidator   *validator.Validate
	questionValidator *QuestionValidator
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()

	// Register all custom validators once
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator:   structValidator,
		questionValidator: NewQuestionValidator(),
	}
}

// ValidateStruct validates struct tags and returns ValidationErrors on failure.
func (v *Validator) ValidateStruct(s interface{}) error {
	if err := v.structValidator.Struct(s); err != nil {
		if errs := ToValidationErrors(err); len(errs) > 0 {
			return errs
		}
		return err
	}
	return nil
}

// ValidateQuiz runs the per-question cardinality rules first, so the error
// names the offending question, and then the struct tags.
func (v *Validator) ValidateQuiz(s interface{}, questions []models.Question) error {
	if errs := v.questionValidator.ValidateQuestions(questions); len(errs) > 0 {
		return errs
	}
	return v.ValidateStruct(s)
}

// Question returns the question validator
func (v *Validator) Question() *QuestionValidator {
	return v.questionValidator
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("question_type", validateQuestionType)
	validate.RegisterValidation("user_role", validateUserRole)
	validate.RegisterValidation("course_level", validateCourseLevel)
	validate.RegisterValidation("rating", validateRating)
	validate.RegisterValidation("password", validatePassword)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})
}

func validateQuestionType(fl validator.FieldLevel) bool {
	switch models.QuestionType(fl.Field().String()) {
	case models.QuestionSingleChoice, models.QuestionMultiChoice:
		return true
	}
	return false
}

func validateUserRole(fl validator.FieldLevel) bool {
	switch models.Role(fl.Field().String()) {
	case models.RoleStudent, models.RoleFaculty, models.RoleAdmin:
		return true
	}
	return false
}

func validateCourseLevel(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.CourseLevel(value) {
	case models.LevelBeginner, models.LevelIntermediate, models.LevelAdvanced:
		return true
	}
	return false
}

func validateRating(fl validator.FieldLevel) bool {
	rating := fl.Field().Int()
	return rating >= 1 && rating <= 5
}

func validatePassword(fl validator.FieldLevel) bool {
	return len(fl.Field().String()) >= 6
}
