package services

import (
	"errors"
	"fmt"

	apperrors "github.com/tdsa-academy/academy-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("forbidden - insufficient permissions")

	// Auth errors
	ErrInvalidCredentials = errors.New("Invalid email or password")
	ErrNoToken            = errors.New("Not authorized, no token")
	ErrUnauthorized       = errors.New("Not authorized, token failed")
	ErrAccountNotFound    = errors.New("Not authorized, user failed")
	ErrSessionExpired     = errors.New("Session Expired: You logged in on another device.")
	ErrEmailTaken         = errors.New("User already exists")

	// Quiz errors
	ErrQuizNotFound        = errors.New("Quiz not found")
	ErrQuizNotOwned        = errors.New("Quiz not found or unauthorized.")
	ErrNotAssignedToCourse = errors.New("Unauthorized: You are not assigned to this course")

	// Attempt errors
	ErrAttemptLimitExceeded = errors.New("Maximum attempts reached for this quiz")
	ErrResultNotFound       = errors.New("Result not found")

	// Catalog errors
	ErrCourseNotFound     = errors.New("Course not found")
	ErrCourseExists       = errors.New("Course already exists")
	ErrEnrollmentNotFound = errors.New("Enrollment not found")
	ErrAlreadyEnrolled    = errors.New("You are already enrolled in this course.")
	ErrAlreadyAssigned    = errors.New("Faculty is already assigned to this course")
	ErrReviewNotFound     = errors.New("Review not found")
	ErrAlreadyReviewed    = errors.New("You have already reviewed this course")
)

// ===== CUSTOM ERROR TYPES =====

type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// DeliveryFailedError reports that a certificate was numbered and rendered but
// could not be e-mailed. The number stays assigned.
type DeliveryFailedError struct {
	CertificateNumber string
	Err               error
}

func (e *DeliveryFailedError) Error() string {
	return fmt.Sprintf("certificate %s generated but e-mail delivery failed: %v", e.CertificateNumber, e.Err)
}

func (e *DeliveryFailedError) Unwrap() error {
	return e.Err
}

// ===== ERROR HELPERS =====

func NewValidationError(field, message string, value interface{}) ValidationErrors {
	return apperrors.Single(field, message, value)
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrQuizNotFound) ||
		errors.Is(err, ErrQuizNotOwned) ||
		errors.Is(err, ErrResultNotFound) ||
		errors.Is(err, ErrCourseNotFound) ||
		errors.Is(err, ErrEnrollmentNotFound) ||
		errors.Is(err, ErrReviewNotFound)
}

// IsUnauthenticated checks if error means the caller has no valid session
func IsUnauthenticated(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrNoToken) ||
		errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrAccountNotFound) ||
		errors.Is(err, ErrSessionExpired)
}

// IsForbidden checks if error represents an ownership or role failure
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrNotAssignedToCourse)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrEmailTaken) ||
		errors.Is(err, ErrAttemptLimitExceeded) ||
		errors.Is(err, ErrCourseExists) ||
		errors.Is(err, ErrAlreadyEnrolled) ||
		errors.Is(err, ErrAlreadyAssigned) ||
		errors.Is(err, ErrAlreadyReviewed)
}

// IsDeliveryFailed extracts the partial-success error of a certificate send
func IsDeliveryFailed(err error) (*DeliveryFailedError, bool) {
	var dfe *DeliveryFailedError
	if errors.As(err, &dfe) {
		return dfe, true
	}
	return nil, false
}
