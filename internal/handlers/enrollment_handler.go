package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tdsa-academy/academy-service/internal/services"
	"github.com/tdsa-academy/academy-service/internal/utils"
)

type EnrollmentHandler struct {
	BaseHandler
	enrollmentService services.EnrollmentService
}

func NewEnrollmentHandler(enrollmentService services.EnrollmentService, logger utils.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		BaseHandler:       NewBaseHandler(logger),
		enrollmentService: enrollmentService,
	}
}

func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	var req services.EnrollRequest
	if !h.bindJSON(c, &req) {
		return
	}

	enrollment, err := h.enrollmentService.Enroll(c.Request.Context(), &req, accountID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":    "Enrollment successful",
		"enrollment": enrollment,
	})
}

func (h *EnrollmentHandler) Mine(c *gin.Context) {
	enrollments, err := h.enrollmentService.MyEnrollments(c.Request.Context(), accountID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, enrollments)
}

func (h *EnrollmentHandler) All(c *gin.Context) {
	enrollments, err := h.enrollmentService.All(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, enrollments)
}

func (h *EnrollmentHandler) Delete(c *gin.Context) {
	id, ok := ParseStringIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.enrollmentService.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Enrollment deleted"})
}

func (h *EnrollmentHandler) DeleteAll(c *gin.Context) {
	n, err := h.enrollmentService.DeleteAll(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "All enrollments deleted",
		"deleted": n,
	})
}
