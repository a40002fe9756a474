package services

import (
	"context"
	"io"

	"github.com/tdsa-academy/academy-service/internal/grading"
	"github.com/tdsa-academy/academy-service/internal/models"
)

// MaxAttempts is the number of graded attempts a student may record per quiz.
const MaxAttempts = 2

// ===== AUTH =====

type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	Authenticate(ctx context.Context, token string) (*models.Account, error)
	RegisterFaculty(ctx context.Context, req *RegisterRequest) (*models.Account, error)
	EnsureAccount(ctx context.Context, name, email, password string, role models.Role) (*models.Account, error)
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
	Token string      `json:"token"`
}

// ===== QUIZ =====

type QuizService interface {
	Create(ctx context.Context, req *QuizRequest, actorID string) (*models.Quiz, error)
	Update(ctx context.Context, id string, req *QuizRequest, actorID string) (*models.Quiz, error)
	Delete(ctx context.Context, id, actorID string) error
	ListForStudent(ctx context.Context, courseID, studentID string) ([]*StudentQuizSummary, error)
	GetForAttempt(ctx context.Context, quizID string) (*models.StudentQuiz, error)
	ListForFaculty(ctx context.Context, actorID string) ([]*models.Quiz, error)
	ListByCourse(ctx context.Context, courseID string) ([]QuizOption, error)
}

type QuizRequest struct {
	Title        string            `json:"title" validate:"required,max=200"`
	Description  string            `json:"description" validate:"max=5000"`
	Instructions string            `json:"instructions" validate:"max=5000"`
	IsFinalExam  bool              `json:"isFinalExam"`
	CourseID     string            `json:"courseId" validate:"required"`
	Questions    []models.Question `json:"questions" validate:"required,dive"`
}

// StudentQuizSummary is a sanitized quiz merged with the caller's attempt status.
type StudentQuizSummary struct {
	*models.StudentQuiz
	AttemptsCount int  `json:"attemptsCount"`
	Attempted     bool `json:"attempted"`
	CanAttempt    bool `json:"canAttempt"`
	Score         *int `json:"score"`
	TotalMarks    int  `json:"totalMarks"`
}

type QuizOption struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ===== ATTEMPT =====

type AttemptService interface {
	CanAttempt(ctx context.Context, studentID, quizID string) (bool, error)
	Submit(ctx context.Context, req *SubmitRequest) (*SubmitResponse, error)
	BestAttempt(ctx context.Context, studentID, quizID string) (*models.QuizResult, error)
	AttemptStatus(ctx context.Context, studentID, quizID string) (*AttemptStatus, error)
	History(ctx context.Context, studentID, quizID string) ([]*models.QuizResult, error)
	GetResult(ctx context.Context, resultID string) (*ResultView, error)
	ResultsForQuiz(ctx context.Context, quizID string) ([]*StudentResult, error)
}

// FileUpload is an uploaded file handed to the blob store.
type FileUpload struct {
	Filename string
	Content  io.Reader
}

type SubmitRequest struct {
	StudentID string
	QuizID    string
	Responses []grading.Response
	File      *FileUpload
}

type SubmitResponse struct {
	Message        string                    `json:"message"`
	ResultID       string                    `json:"resultId"`
	Score          int                       `json:"score"`
	TotalQuestions int                       `json:"totalQuestions"`
	CorrectAnswers int                       `json:"correctAnswers"`
	WrongAnswers   int                       `json:"wrongAnswers"`
	Details        []grading.QuestionOutcome `json:"detailedResults"`
	FileURL        *string                   `json:"fileUrl"`
}

type AttemptStatus struct {
	CanAttempt    bool `json:"canAttempt"`
	AttemptsCount int  `json:"attemptsCount"`
	BestScore     int  `json:"bestScore"`
	TotalMarks    int  `json:"totalMarks"`
}

type ResultView struct {
	ID                string                `json:"id"`
	Score             int                   `json:"score"`
	TotalMarks        int                   `json:"totalMarks"`
	TotalQuestions    int                   `json:"totalQuestions"`
	CorrectAnswers    int                   `json:"correctAnswers"`
	WrongAnswers      int                   `json:"wrongAnswers"`
	SubmittedFile     *string               `json:"submittedFile"`
	CertificateNumber *string               `json:"certificateNumber,omitempty"`
	Details           []models.AnswerDetail `json:"detailedResults"`
}

type StudentRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type StudentResult struct {
	*models.QuizResult
	Student *StudentRef `json:"student"`
}

// ===== CERTIFICATE =====

type CertificateService interface {
	EnsureCertificateNumber(ctx context.Context, resultID string) (string, error)
	BuildCertificatePayload(ctx context.Context, resultID, overrideMentor string) (*CertificatePayload, error)
	Send(ctx context.Context, resultID, customMentor string) (*CertificateSendResponse, error)
}

type CertificatePayload struct {
	StudentID         string `json:"studentId"`
	StudentName       string `json:"studentName"`
	StudentEmail      string `json:"studentEmail"`
	CourseName        string `json:"courseName"`
	Date              string `json:"date"`
	MentorName        string `json:"mentorName"`
	CertificateNumber string `json:"certificateNumber"`
}

type CertificateSendResponse struct {
	Message           string `json:"message"`
	CertificateNumber string `json:"certificateNumber"`
}

// ===== CATALOG =====

type CourseService interface {
	Create(ctx context.Context, req *CourseRequest, thumbnail *FileUpload) (*models.Course, error)
	Get(ctx context.Context, id string) (*models.Course, error)
	List(ctx context.Context) ([]*models.Course, error)
	Delete(ctx context.Context, id string) error
}

type CourseRequest struct {
	Subject     string          `json:"subject" form:"subject" validate:"required,max=200"`
	Description string          `json:"description" form:"description" validate:"max=10000"`
	Duration    string          `json:"duration" form:"duration" validate:"max=50"`
	Level       string          `json:"level" form:"level" validate:"course_level"`
	Mentors     []models.Mentor `json:"mentors" form:"-" validate:"dive"`
}

type EnrollmentService interface {
	Enroll(ctx context.Context, req *EnrollRequest, studentID string) (*models.Enrollment, error)
	MyEnrollments(ctx context.Context, studentID string) ([]*EnrollmentView, error)
	All(ctx context.Context) ([]*EnrollmentView, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) (int64, error)
}

type EnrollRequest struct {
	CourseID string `json:"courseId" validate:"required"`
	Phone    string `json:"phone" validate:"max=20"`
	Message  string `json:"message" validate:"max=2000"`
}

type EnrollmentView struct {
	*models.Enrollment
	Course  *models.Course `json:"course,omitempty"`
	Student *StudentRef    `json:"student,omitempty"`
}

type FacultyService interface {
	AssignCourse(ctx context.Context, req *AssignCourseRequest) (*models.FacultyCourse, error)
	AssignedCourses(ctx context.Context, facultyID string) ([]*models.FacultyCourse, error)
}

type AssignCourseRequest struct {
	FacultyID string `json:"facultyId" validate:"required"`
	CourseID  string `json:"courseId" validate:"required"`
}

type ReviewService interface {
	Create(ctx context.Context, courseID, userID string, req *ReviewRequest) (*models.Review, error)
	ListForCourse(ctx context.Context, courseID string) (*CourseReviews, error)
	AllAverages(ctx context.Context) ([]CourseRating, error)
	Delete(ctx context.Context, id string) error
}

type ReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,rating"`
	Comment string `json:"comment" validate:"max=2000"`
}

type CourseReviews struct {
	Reviews       []*models.Review `json:"reviews"`
	AverageRating float64          `json:"averageRating"`
	TotalReviews  int              `json:"totalReviews"`
}

type CourseRating struct {
	CourseID      string  `json:"courseId"`
	Subject       string  `json:"subject"`
	AverageRating float64 `json:"averageRating"`
	TotalReviews  int     `json:"totalReviews"`
}

// ===== NOTIFICATION / EXPORT =====

type NotificationService interface {
	NotifyCourseStudents(ctx context.Context, courseID, update string) (*BulkResult, error)
}

// BulkResult counts per-recipient outcomes of a bulk notification.
type BulkResult struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

type ExportService interface {
	ExportQuizResults(ctx context.Context, quizID, actorID string) ([]byte, error)
}
