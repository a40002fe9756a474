package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tdsa-academy/academy-service/internal/services"
	"github.com/tdsa-academy/academy-service/internal/utils"
)

type AdminHandler struct {
	BaseHandler
	authService         services.AuthService
	facultyService      services.FacultyService
	quizService         services.QuizService
	attemptService      services.AttemptService
	notificationService services.NotificationService
}

func NewAdminHandler(sm services.ServiceManager, logger utils.Logger) *AdminHandler {
	return &AdminHandler{
		BaseHandler:         NewBaseHandler(logger),
		authService:         sm.Auth(),
		facultyService:      sm.Faculty(),
		quizService:         sm.Quiz(),
		attemptService:      sm.Attempt(),
		notificationService: sm.Notification(),
	}
}

type notifyRequest struct {
	Update string `json:"update" binding:"required"`
}

func (h *AdminHandler) RegisterFaculty(c *gin.Context) {
	var req services.RegisterRequest
	if !h.bindJSON(c, &req) {
		return
	}
	account, err := h.authService.RegisterFaculty(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, account)
}

func (h *AdminHandler) AssignCourse(c *gin.Context) {
	var req services.AssignCourseRequest
	if !h.bindJSON(c, &req) {
		return
	}
	assignment, err := h.facultyService.AssignCourse(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, assignment)
}

func (h *AdminHandler) QuizzesByCourse(c *gin.Context) {
	courseID, ok := ParseStringIDParam(c, "courseId")
	if !ok {
		return
	}
	quizzes, err := h.quizService.ListByCourse(c.Request.Context(), courseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, quizzes)
}

func (h *AdminHandler) QuizResults(c *gin.Context) {
	quizID, ok := ParseStringIDParam(c, "quizId")
	if !ok {
		return
	}
	results, err := h.attemptService.ResultsForQuiz(c.Request.Context(), quizID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// NotifyCourse e-mails an update to every student enrolled in the course
func (h *AdminHandler) NotifyCourse(c *gin.Context) {
	courseID, ok := ParseStringIDParam(c, "courseId")
	if !ok {
		return
	}
	var req notifyRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.notificationService.NotifyCourseStudents(c.Request.Context(), courseID, req.Update)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
