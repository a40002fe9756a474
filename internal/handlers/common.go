package handlers

import (
	"errors"
	"net/http"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/tdsa-academy/academy-service/internal/services"
	"github.com/tdsa-academy/academy-service/internal/utils"
)

// ===== COMMON RESPONSE STRUCTURES =====

// ErrorResponse represents an error response
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// MessageResponse is a bare acknowledgement
type MessageResponse struct {
	Message string `json:"message"`
}

// DeliveryFailedResponse reports a certificate that was issued but not e-mailed
type DeliveryFailedResponse struct {
	Message           string `json:"message"`
	CertificateNumber string `json:"certificateNumber"`
	Error             string `json:"error"`
}

// ===== BASE HANDLER STRUCT =====

// BaseHandler provides request-scoped logging and error mapping for all handlers
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

func (h *BaseHandler) log(c *gin.Context) utils.Logger {
	return utils.GetLoggerFromContext(c, h.logger)
}

// LogError logs err with the request context
func (h *BaseHandler) LogError(c *gin.Context, err error, message string, additionalFields ...interface{}) {
	fields := append([]interface{}{"account_id", accountID(c)}, additionalFields...)
	h.log(c).LogError(c.Request.Context(), err, message, fields...)
}

// LogWarn logs a warning with the request context
func (h *BaseHandler) LogWarn(c *gin.Context, message string, additionalFields ...interface{}) {
	fields := append([]interface{}{"account_id", accountID(c)}, additionalFields...)
	h.log(c).WarnContext(c.Request.Context(), message, fields...)
}

// bindJSON decodes the body into dst, answering 400 on failure
func (h *BaseHandler) bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return false
	}
	return true
}

// handleServiceError maps service errors onto HTTP status codes
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	if dfe, ok := services.IsDeliveryFailed(err); ok {
		h.LogWarn(c, "Certificate issued but not delivered", "certificate_number", dfe.CertificateNumber, "error", dfe.Err)
		c.JSON(http.StatusMultiStatus, DeliveryFailedResponse{
			Message:           "Certificate generated but email delivery failed",
			CertificateNumber: dfe.CertificateNumber,
			Error:             dfe.Err.Error(),
		})
		return
	}

	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: validationMessage(validationErrors),
			Details: validationErrors,
		})
		return
	}

	switch {
	case services.IsUnauthenticated(err):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: err.Error()})
	case services.IsForbidden(err):
		c.JSON(http.StatusForbidden, ErrorResponse{Message: err.Error()})
	case services.IsNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: err.Error()})
	case services.IsConflict(err):
		c.JSON(http.StatusConflict, ErrorResponse{Message: err.Error()})
	default:
		h.LogError(c, err, "Unhandled service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"})
	}
}

// validationMessage surfaces a complete sentence such as a question rule
// violation, and a generic summary for field-level tag failures.
func validationMessage(errs services.ValidationErrors) string {
	if len(errs) > 0 {
		first, _ := utf8.DecodeRuneInString(errs[0].Message)
		if unicode.IsUpper(first) {
			return errs[0].Message
		}
	}
	return "Validation failed"
}
