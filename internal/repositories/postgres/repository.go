package postgres

import (
	"errors"

	"github.com/tdsa-academy/academy-service/internal/models"
	"github.com/tdsa-academy/academy-service/internal/repositories"
	"gorm.io/gorm"
)

// Repository is the gorm-backed implementation of repositories.Repository.
type Repository struct {
	account       repositories.AccountRepository
	quiz          repositories.QuizRepository
	result        repositories.ResultRepository
	course        repositories.CourseRepository
	enrollment    repositories.EnrollmentRepository
	facultyCourse repositories.FacultyCourseRepository
	review        repositories.ReviewRepository
	sequence      repositories.SequenceRepository
}

var _ repositories.Repository = (*Repository)(nil)

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		account:       NewAccountPostgreSQL(db),
		quiz:          NewQuizPostgreSQL(db),
		result:        NewResultPostgreSQL(db),
		course:        NewCoursePostgreSQL(db),
		enrollment:    NewEnrollmentPostgreSQL(db),
		facultyCourse: NewFacultyCoursePostgreSQL(db),
		review:        NewReviewPostgreSQL(db),
		sequence:      NewSequencePostgreSQL(db),
	}
}

func (r *Repository) Account() repositories.AccountRepository             { return r.account }
func (r *Repository) Quiz() repositories.QuizRepository                   { return r.quiz }
func (r *Repository) Result() repositories.ResultRepository               { return r.result }
func (r *Repository) Course() repositories.CourseRepository               { return r.course }
func (r *Repository) Enrollment() repositories.EnrollmentRepository       { return r.enrollment }
func (r *Repository) FacultyCourse() repositories.FacultyCourseRepository { return r.facultyCourse }
func (r *Repository) Review() repositories.ReviewRepository               { return r.review }
func (r *Repository) Sequence() repositories.SequenceRepository           { return r.sequence }

// AutoMigrate creates or updates every table the service owns.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Account{},
		&models.Course{},
		&models.Quiz{},
		&models.QuizResult{},
		&models.Enrollment{},
		&models.FacultyCourse{},
		&models.Review{},
		&models.Sequence{},
	)
}

// translateError maps gorm errors onto the repository sentinels. The
// connection must be opened with TranslateError so duplicates surface as
// gorm.ErrDuplicatedKey.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repositories.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return repositories.ErrDuplicate
	default:
		return err
	}
}
