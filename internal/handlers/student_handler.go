package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/tdsa-academy/academy-service/internal/grading"
	"github.com/tdsa-academy/academy-service/internal/services"
	"github.com/tdsa-academy/academy-service/internal/utils"
)

// StudentHandler serves quiz taking. Every route runs behind RequireAuth.
type StudentHandler struct {
	BaseHandler
	quizService    services.QuizService
	attemptService services.AttemptService
}

func NewStudentHandler(quizService services.QuizService, attemptService services.AttemptService, logger utils.Logger) *StudentHandler {
	return &StudentHandler{
		BaseHandler:    NewBaseHandler(logger),
		quizService:    quizService,
		attemptService: attemptService,
	}
}

type submitBody struct {
	Responses []grading.Response `json:"responses"`
}

// ListQuizzes lists the quizzes of the course in the "id" path parameter
func (h *StudentHandler) ListQuizzes(c *gin.Context) {
	courseID, ok := ParseStringIDParam(c, "id")
	if !ok {
		return
	}
	quizzes, err := h.quizService.ListForStudent(c.Request.Context(), courseID, accountID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, quizzes)
}

func (h *StudentHandler) GetQuiz(c *gin.Context) {
	quizID, ok := ParseStringIDParam(c, "quizId")
	if !ok {
		return
	}
	quiz, err := h.quizService.GetForAttempt(c.Request.Context(), quizID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, quiz)
}

func (h *StudentHandler) Status(c *gin.Context) {
	quizID, ok := ParseStringIDParam(c, "quizId")
	if !ok {
		return
	}
	status, err := h.attemptService.AttemptStatus(c.Request.Context(), accountID(c), quizID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *StudentHandler) History(c *gin.Context) {
	quizID, ok := ParseStringIDParam(c, "id")
	if !ok {
		return
	}
	attempts, err := h.attemptService.History(c.Request.Context(), accountID(c), quizID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, attempts)
}

// Submit grades an attempt. JSON bodies carry {"responses": [...]}; multipart
// bodies carry the same list as a JSON string in "answers" plus an optional
// "answerSheet" file.
func (h *StudentHandler) Submit(c *gin.Context) {
	quizID, ok := ParseStringIDParam(c, "id")
	if !ok {
		return
	}

	req := services.SubmitRequest{StudentID: accountID(c), QuizID: quizID}

	if strings.HasPrefix(c.ContentType(), binding.MIMEMultipartPOSTForm) {
		if raw := c.PostForm("answers"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &req.Responses); err != nil {
				c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid answers format inside FormData"})
				return
			}
		}
		file, closeFile, err := formFile(c, "answerSheet")
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid answer sheet upload", Details: err.Error()})
			return
		}
		defer closeFile()
		req.File = file
	} else {
		var body submitBody
		if !h.bindJSON(c, &body) {
			return
		}
		req.Responses = body.Responses
	}

	resp, err := h.attemptService.Submit(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
