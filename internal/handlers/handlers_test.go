package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tdsa-academy/academy-service/internal/auth"
	"github.com/tdsa-academy/academy-service/internal/events"
	"github.com/tdsa-academy/academy-service/internal/models"
	"github.com/tdsa-academy/academy-service/internal/notifier"
	"github.com/tdsa-academy/academy-service/internal/repositories/memory"
	"github.com/tdsa-academy/academy-service/internal/services"
	"github.com/tdsa-academy/academy-service/internal/storage"
	"github.com/tdsa-academy/academy-service/internal/utils"
	"gorm.io/datatypes"
)

const testPassword = "secret123"

type failingNotifier struct{}

func (failingNotifier) Send(context.Context, notifier.Message) error {
	return errors.New("smtp unavailable")
}

type harness struct {
	store  *memory.Store
	sm     services.ServiceManager
	router *gin.Engine
}

func newHarness(t *testing.T, n notifier.Notifier) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	if n == nil {
		n = notifier.NewLogNotifier(log)
	}
	blobs, err := storage.NewFSStore(t.TempDir(), "http://test/uploads")
	require.NoError(t, err)

	store := memory.NewStore()
	sm := services.NewServiceManager(services.Dependencies{
		Repo:        store,
		Tokens:      auth.NewTokenManager("handler-secret", time.Hour),
		Blobs:       blobs,
		Notifier:    n,
		Publisher:   events.NewMockEventPublisher(log),
		Logger:      log,
		CallTimeout: 5 * time.Second,
	})

	logger := utils.NewSlogLogger(log)
	router := gin.New()
	router.Use(utils.ContextLogger(logger))
	NewHandlerManager(sm, logger).SetupRoutes(router)

	return &harness{store: store, sm: sm, router: router}
}

func (h *harness) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func (h *harness) login(t *testing.T, email string) string {
	t.Helper()
	w := h.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": email, "password": testPassword})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp services.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Token
}

// signIn seeds an account with role and returns it with a live token
func (h *harness) signIn(t *testing.T, name string, role models.Role) (*models.Account, string) {
	t.Helper()
	email := name + "@example.com"
	account, err := h.sm.Auth().EnsureAccount(context.Background(), name, email, testPassword, role)
	require.NoError(t, err)
	return account, h.login(t, email)
}

func (h *harness) seedQuiz(t *testing.T, courseID, creatorID string) *models.Quiz {
	t.Helper()
	quiz := &models.Quiz{
		ID:        uuid.NewString(),
		Title:     "Week 1",
		CourseID:  courseID,
		CreatedBy: creatorID,
		Questions: datatypes.NewJSONType([]models.Question{{
			ID:   "q1",
			Text: "2 + 2?",
			Type: models.QuestionSingleChoice,
			Options: []models.Option{
				{ID: "a", Text: "3"},
				{ID: "b", Text: "4", IsCorrect: true},
			},
		}}),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, h.store.Quiz().Create(context.Background(), quiz))
	return quiz
}

func decodeMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Message
}

func TestRequireAuth_DistinctMessages(t *testing.T) {
	h := newHarness(t, nil)

	tests := []struct {
		name    string
		token   string
		message string
	}{
		{"missing token", "", "Not authorized, no token"},
		{"malformed token", "not-a-jwt", "Not authorized, token failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := h.do(t, http.MethodGet, "/api/auth/me", tt.token, nil)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, tt.message, decodeMessage(t, w))
		})
	}
}

func TestRequireAuth_SecondLoginExpiresFirstToken(t *testing.T) {
	h := newHarness(t, nil)

	w := h.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Asha", "email": "asha@example.com", "password": testPassword,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	first := h.login(t, "asha@example.com")
	second := h.login(t, "asha@example.com")

	w = h.do(t, http.MethodGet, "/api/auth/me", first, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Session Expired: You logged in on another device.", decodeMessage(t, w))

	w = h.do(t, http.MethodGet, "/api/auth/me", second, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "asha@example.com")
}

func TestRequireRole_RejectsOtherRoles(t *testing.T) {
	h := newHarness(t, nil)
	_, studentToken := h.signIn(t, "student", models.RoleStudent)

	for _, path := range []string{"/api/admin/faculty", "/api/faculty/quizzes"} {
		w := h.do(t, http.MethodPost, path, studentToken, gin.H{})
		assert.Equal(t, http.StatusForbidden, w.Code, path)
		assert.Equal(t, "Access denied", decodeMessage(t, w))
	}
}

func TestStudentRoutes_RequireStudentRole(t *testing.T) {
	h := newHarness(t, nil)
	faculty, facultyToken := h.signIn(t, "faculty", models.RoleFaculty)
	_, adminToken := h.signIn(t, "admin", models.RoleAdmin)
	quiz := h.seedQuiz(t, uuid.NewString(), faculty.ID)
	submit := gin.H{"responses": []gin.H{{"questionId": "q1", "selectedOptions": []string{"a"}}}}

	for _, token := range []string{facultyToken, adminToken} {
		w := h.do(t, http.MethodPost, "/api/student/quizzes/"+quiz.ID+"/submit", token, submit)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "Access denied", decodeMessage(t, w))

		w = h.do(t, http.MethodGet, "/api/student/quiz/"+quiz.ID, token, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "Access denied", decodeMessage(t, w))
	}

	results, err := h.store.Result().ListByQuiz(context.Background(), quiz.ID)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestQuizLifecycle_OverHTTP(t *testing.T) {
	h := newHarness(t, nil)
	_, adminToken := h.signIn(t, "admin", models.RoleAdmin)
	faculty, facultyToken := h.signIn(t, "faculty", models.RoleFaculty)
	_, studentToken := h.signIn(t, "student", models.RoleStudent)

	w := h.do(t, http.MethodPost, "/api/courses", adminToken, gin.H{"subject": "Statistics"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var course models.Course
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &course))

	w = h.do(t, http.MethodPost, "/api/admin/faculty-courses", adminToken, gin.H{
		"facultyId": faculty.ID, "courseId": course.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	quizBody := gin.H{
		"title":    "Week 1",
		"courseId": course.ID,
		"questions": []gin.H{{
			"id":           "q1",
			"questionText": "2 + 2?",
			"type":         "radio",
			"options": []gin.H{
				{"id": "a", "text": "3"},
				{"id": "b", "text": "4", "isCorrect": true},
			},
		}},
	}
	w = h.do(t, http.MethodPost, "/api/faculty/quizzes", facultyToken, quizBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var quiz models.Quiz
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &quiz))

	w = h.do(t, http.MethodGet, "/api/student/quiz/"+quiz.ID, studentToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "isCorrect")

	submit := gin.H{"responses": []gin.H{{"questionId": "q1", "selectedOptions": []string{"b"}}}}
	for i := 0; i < services.MaxAttempts; i++ {
		w = h.do(t, http.MethodPost, "/api/student/quizzes/"+quiz.ID+"/submit", studentToken, submit)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}
	var graded services.SubmitResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &graded))
	assert.Equal(t, 1, graded.Score)
	assert.Equal(t, 0, graded.WrongAnswers)

	w = h.do(t, http.MethodPost, "/api/student/quizzes/"+quiz.ID+"/submit", studentToken, submit)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Maximum attempts reached for this quiz", decodeMessage(t, w))

	w = h.do(t, http.MethodGet, "/api/student/quiz/"+quiz.ID+"/status", studentToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var status services.AttemptStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.False(t, status.CanAttempt)
	assert.Equal(t, 2, status.AttemptsCount)

	w = h.do(t, http.MethodGet, "/api/student/quizzes/"+quiz.ID+"/attempts", studentToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history []models.QuizResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	assert.Len(t, history, 2)

	w = h.do(t, http.MethodGet, "/api/faculty/quizzes/"+quiz.ID+"/export", facultyToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
}

func TestStudentHandler_SubmitRejectsMalformedAnswers(t *testing.T) {
	h := newHarness(t, nil)
	faculty, _ := h.signIn(t, "faculty", models.RoleFaculty)
	_, studentToken := h.signIn(t, "student", models.RoleStudent)
	quiz := h.seedQuiz(t, uuid.NewString(), faculty.ID)

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	require.NoError(t, form.WriteField("answers", "{not json"))
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/student/quizzes/"+quiz.ID+"/submit", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+studentToken)
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid answers format inside FormData", decodeMessage(t, w))
}

func TestStudentHandler_MultipartSubmitStoresAnswerSheet(t *testing.T) {
	h := newHarness(t, nil)
	faculty, _ := h.signIn(t, "faculty", models.RoleFaculty)
	_, studentToken := h.signIn(t, "student", models.RoleStudent)
	quiz := h.seedQuiz(t, uuid.NewString(), faculty.ID)

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	require.NoError(t, form.WriteField("answers", `[{"questionId":"q1","selectedOptions":["a"]}]`))
	part, err := form.CreateFormFile("answerSheet", "sheet.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/student/quizzes/"+quiz.ID+"/submit", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+studentToken)
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp services.SubmitResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Score)
	require.NotNil(t, resp.FileURL)
	assert.Contains(t, *resp.FileURL, "http://test/uploads/")
}

func TestCertificateHandler_DeliveryFailureIsMultiStatus(t *testing.T) {
	h := newHarness(t, failingNotifier{})
	faculty, _ := h.signIn(t, "faculty", models.RoleFaculty)
	student, _ := h.signIn(t, "student", models.RoleStudent)
	_, adminToken := h.signIn(t, "admin", models.RoleAdmin)
	quiz := h.seedQuiz(t, uuid.NewString(), faculty.ID)

	result := &models.QuizResult{
		ID:          uuid.NewString(),
		StudentID:   student.ID,
		QuizID:      quiz.ID,
		CourseID:    quiz.CourseID,
		Score:       1,
		TotalMarks:  1,
		AttemptedAt: time.Now(),
	}
	require.NoError(t, h.store.Result().CreateWithinLimit(context.Background(), result, services.MaxAttempts))

	w := h.do(t, http.MethodPost, "/api/certificate/send", adminToken, gin.H{"resultId": result.ID})
	require.Equal(t, http.StatusMultiStatus, w.Code, w.Body.String())

	var resp DeliveryFailedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Certificate generated but email delivery failed", resp.Message)
	assert.Equal(t, "TDSA111111", resp.CertificateNumber)
	assert.Contains(t, resp.Error, "smtp unavailable")

	stored, err := h.store.Result().GetByID(context.Background(), result.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.CertificateNumber)
	assert.Equal(t, "TDSA111111", *stored.CertificateNumber)
}

func TestReviewRoutes(t *testing.T) {
	h := newHarness(t, nil)
	_, adminToken := h.signIn(t, "admin", models.RoleAdmin)
	_, studentToken := h.signIn(t, "student", models.RoleStudent)

	w := h.do(t, http.MethodPost, "/api/courses", adminToken, gin.H{"subject": "Python"})
	require.Equal(t, http.StatusCreated, w.Code)
	var course models.Course
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &course))

	w = h.do(t, http.MethodPost, "/api/reviews/"+course.ID, studentToken, gin.H{"rating": 4, "comment": "good"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = h.do(t, http.MethodPost, "/api/reviews/"+course.ID, studentToken, gin.H{"rating": 5})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = h.do(t, http.MethodGet, "/api/reviews/"+course.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var reviews services.CourseReviews
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reviews))
	assert.Equal(t, 1, reviews.TotalReviews)
	assert.Equal(t, 4.0, reviews.AverageRating)

	w = h.do(t, http.MethodDelete, "/api/reviews/"+reviews.Reviews[0].ID, studentToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestEnrollmentRoutes(t *testing.T) {
	h := newHarness(t, nil)
	_, adminToken := h.signIn(t, "admin", models.RoleAdmin)
	_, studentToken := h.signIn(t, "student", models.RoleStudent)

	w := h.do(t, http.MethodPost, "/api/courses", adminToken, gin.H{"subject": "SQL"})
	require.Equal(t, http.StatusCreated, w.Code)
	var course models.Course
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &course))

	w = h.do(t, http.MethodPost, "/api/enrollments", studentToken, gin.H{"courseId": course.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = h.do(t, http.MethodPost, "/api/enrollments", studentToken, gin.H{"courseId": course.ID})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "You are already enrolled in this course.", decodeMessage(t, w))

	w = h.do(t, http.MethodGet, "/api/enrollments/all", studentToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = h.do(t, http.MethodGet, "/api/enrollments/all", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "student@example.com")

	w = h.do(t, http.MethodDelete, "/api/enrollments/all", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"deleted":1`)
}

func TestHealthCheck(t *testing.T) {
	h := newHarness(t, nil)
	w := h.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}
