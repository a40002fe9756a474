package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tdsa-academy/academy-service/internal/services"
	"github.com/tdsa-academy/academy-service/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// FacultyHandler serves quiz authoring and result review for faculty members
type FacultyHandler struct {
	BaseHandler
	facultyService services.FacultyService
	quizService    services.QuizService
	attemptService services.AttemptService
	exportService  services.ExportService
}

func NewFacultyHandler(
	facultyService services.FacultyService,
	quizService services.QuizService,
	attemptService services.AttemptService,
	exportService services.ExportService,
	logger utils.Logger,
) *FacultyHandler {
	return &FacultyHandler{
		BaseHandler:    NewBaseHandler(logger),
		facultyService: facultyService,
		quizService:    quizService,
		attemptService: attemptService,
		exportService:  exportService,
	}
}

func (h *FacultyHandler) AssignedCourses(c *gin.Context) {
	courses, err := h.facultyService.AssignedCourses(c.Request.Context(), accountID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, courses)
}

func (h *FacultyHandler) ListQuizzes(c *gin.Context) {
	quizzes, err := h.quizService.ListForFaculty(c.Request.Context(), accountID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, quizzes)
}

func (h *FacultyHandler) CreateQuiz(c *gin.Context) {
	var req services.QuizRequest
	if !h.bindJSON(c, &req) {
		return
	}

	quiz, err := h.quizService.Create(c.Request.Context(), &req, accountID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, quiz)
}

func (h *FacultyHandler) UpdateQuiz(c *gin.Context) {
	id, ok := ParseStringIDParam(c, "id")
	if !ok {
		return
	}
	var req services.QuizRequest
	if !h.bindJSON(c, &req) {
		return
	}

	quiz, err := h.quizService.Update(c.Request.Context(), id, &req, accountID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, quiz)
}

func (h *FacultyHandler) DeleteQuiz(c *gin.Context) {
	id, ok := ParseStringIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.quizService.Delete(c.Request.Context(), id, accountID(c)); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Quiz deleted"})
}

func (h *FacultyHandler) GetResult(c *gin.Context) {
	id, ok := ParseStringIDParam(c, "resultId")
	if !ok {
		return
	}
	result, err := h.attemptService.GetResult(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ExportResults streams the quiz results as an xlsx workbook
func (h *FacultyHandler) ExportResults(c *gin.Context) {
	id, ok := ParseStringIDParam(c, "id")
	if !ok {
		return
	}
	data, err := h.exportService.ExportQuizResults(c.Request.Context(), id, accountID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="quiz_%s_results.xlsx"`, id))
	c.Data(http.StatusOK, xlsxContentType, data)
}
