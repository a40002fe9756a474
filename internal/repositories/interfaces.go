package repositories

import (
	"context"
	"errors"

	"github.com/tdsa-academy/academy-service/internal/models"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicate    = errors.New("duplicate record")
	ErrLimitReached = errors.New("record limit reached")
)

// IsNotFoundError reports whether err means the record does not exist.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError reports whether err is a unique-constraint violation.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// Repository groups every store the services depend on.
type Repository interface {
	Account() AccountRepository
	Quiz() QuizRepository
	Result() ResultRepository
	Course() CourseRepository
	Enrollment() EnrollmentRepository
	FacultyCourse() FacultyCourseRepository
	Review() ReviewRepository
	Sequence() SequenceRepository
}

type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.Account, error)
	// UpdateSessionID overwrites the current session id in a single write.
	UpdateSessionID(ctx context.Context, id, sessionID string) error
}

type QuizRepository interface {
	Create(ctx context.Context, quiz *models.Quiz) error
	GetByID(ctx context.Context, id string) (*models.Quiz, error)
	// GetOwned returns ErrNotFound when the quiz is missing or owned by someone else.
	GetOwned(ctx context.Context, id, creatorID string) (*models.Quiz, error)
	Update(ctx context.Context, quiz *models.Quiz) error
	DeleteOwned(ctx context.Context, id, creatorID string) error
	ListByCreator(ctx context.Context, creatorID string) ([]*models.Quiz, error)
	ListByCourse(ctx context.Context, courseID string) ([]*models.Quiz, error)
}

type ResultRepository interface {
	// CreateWithinLimit inserts the result only while fewer than limit results
	// exist for the same (student, quiz), otherwise returns ErrLimitReached.
	CreateWithinLimit(ctx context.Context, result *models.QuizResult, limit int) error
	GetByID(ctx context.Context, id string) (*models.QuizResult, error)
	CountByStudentAndQuiz(ctx context.Context, studentID, quizID string) (int, error)
	// ListByStudentAndQuiz returns attempts oldest first.
	ListByStudentAndQuiz(ctx context.Context, studentID, quizID string) ([]*models.QuizResult, error)
	ListByStudentAndCourse(ctx context.Context, studentID, courseID string) ([]*models.QuizResult, error)
	// ListByQuiz returns attempts ordered by score, highest first.
	ListByQuiz(ctx context.Context, quizID string) ([]*models.QuizResult, error)
	// MaxCertificateSequence returns the highest numeric suffix among stored
	// certificate numbers with the given prefix, or 0 when there are none.
	MaxCertificateSequence(ctx context.Context, prefix string) (int64, error)
	// AssignCertificateNumber sets the number only if none is stored yet and
	// reports whether this call assigned it.
	AssignCertificateNumber(ctx context.Context, id, number string) (bool, error)
}

type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id string) (*models.Course, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.Course, error)
	List(ctx context.Context) ([]*models.Course, error)
	Delete(ctx context.Context, id string) error
	UpdateRating(ctx context.Context, id string, average float64, total int) error
}

type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *models.Enrollment) error
	GetByID(ctx context.Context, id string) (*models.Enrollment, error)
	ListByStudent(ctx context.Context, studentID string) ([]*models.Enrollment, error)
	ListByCourse(ctx context.Context, courseID string) ([]*models.Enrollment, error)
	List(ctx context.Context) ([]*models.Enrollment, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) (int64, error)
}

type FacultyCourseRepository interface {
	Create(ctx context.Context, assignment *models.FacultyCourse) error
	ListByFaculty(ctx context.Context, facultyID string) ([]*models.FacultyCourse, error)
	Exists(ctx context.Context, facultyID, courseID string) (bool, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id string) (*models.Review, error)
	ListByCourse(ctx context.Context, courseID string) ([]*models.Review, error)
	Delete(ctx context.Context, id string) error
	// Stats returns the raw average rating and review count for a course.
	Stats(ctx context.Context, courseID string) (float64, int, error)
}

// SequenceRepository hands out strictly increasing values per name. On first
// use seed supplies the last value already consumed; Next then returns seed+1.
type SequenceRepository interface {
	Next(ctx context.Context, name string, seed func(ctx context.Context) (int64, error)) (int64, error)
}
