package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/tdsa-academy/academy-service/internal/services"
	"github.com/tdsa-academy/academy-service/internal/utils"
)

type CourseHandler struct {
	BaseHandler
	courseService services.CourseService
}

func NewCourseHandler(courseService services.CourseService, logger utils.Logger) *CourseHandler {
	return &CourseHandler{
		BaseHandler:   NewBaseHandler(logger),
		courseService: courseService,
	}
}

func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.courseService.List(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, courses)
}

func (h *CourseHandler) Get(c *gin.Context) {
	id, ok := ParseStringIDParam(c, "id")
	if !ok {
		return
	}
	course, err := h.courseService.Get(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

// Create accepts JSON, or multipart with a "thumbnail" file and mentors as a
// JSON string field.
func (h *CourseHandler) Create(c *gin.Context) {
	var req services.CourseRequest
	var thumbnail *services.FileUpload

	if strings.HasPrefix(c.ContentType(), binding.MIMEMultipartPOSTForm) {
		if err := c.ShouldBindWith(&req, binding.FormMultipart); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
			return
		}
		if raw := c.PostForm("mentors"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &req.Mentors); err != nil {
				c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid mentors format"})
				return
			}
		}
		file, closeFile, err := formFile(c, "thumbnail")
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid thumbnail upload", Details: err.Error()})
			return
		}
		defer closeFile()
		thumbnail = file
	} else if !h.bindJSON(c, &req) {
		return
	}

	course, err := h.courseService.Create(c.Request.Context(), &req, thumbnail)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, course)
}

func (h *CourseHandler) Delete(c *gin.Context) {
	id, ok := ParseStringIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.courseService.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Course deleted"})
}
