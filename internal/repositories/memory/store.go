// Package memory is an in-process Repository used for local runs without a
// database and for service tests. All stores share one lock, so multi-step
// operations such as CreateWithinLimit are atomic.
package memory

import (
	"context"
	"sync"

	"github.com/tdsa-academy/academy-service/internal/models"
	"github.com/tdsa-academy/academy-service/internal/repositories"
)

type Store struct {
	mu sync.RWMutex

	accounts       map[string]models.Account
	quizzes        map[string]models.Quiz
	results        map[string]models.QuizResult
	courses        map[string]models.Course
	enrollments    map[string]models.Enrollment
	facultyCourses map[string]models.FacultyCourse
	reviews        map[string]models.Review
	sequences      map[string]int64

	// insertion order keeps listings deterministic for equal timestamps
	order map[string]int64
	seq   int64
}

var _ repositories.Repository = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		accounts:       make(map[string]models.Account),
		quizzes:        make(map[string]models.Quiz),
		results:        make(map[string]models.QuizResult),
		courses:        make(map[string]models.Course),
		enrollments:    make(map[string]models.Enrollment),
		facultyCourses: make(map[string]models.FacultyCourse),
		reviews:        make(map[string]models.Review),
		sequences:      make(map[string]int64),
		order:          make(map[string]int64),
	}
}

func (s *Store) Account() repositories.AccountRepository             { return accountStore{s} }
func (s *Store) Quiz() repositories.QuizRepository                   { return quizStore{s} }
func (s *Store) Result() repositories.ResultRepository               { return resultStore{s} }
func (s *Store) Course() repositories.CourseRepository               { return courseStore{s} }
func (s *Store) Enrollment() repositories.EnrollmentRepository       { return enrollmentStore{s} }
func (s *Store) FacultyCourse() repositories.FacultyCourseRepository { return facultyCourseStore{s} }
func (s *Store) Review() repositories.ReviewRepository               { return reviewStore{s} }
func (s *Store) Sequence() repositories.SequenceRepository           { return sequenceStore{s} }

// track records insertion order; callers hold the write lock.
func (s *Store) track(id string) {
	if _, ok := s.order[id]; !ok {
		s.seq++
		s.order[id] = s.seq
	}
}

func ctxErr(ctx context.Context) error {
	return ctx.Err()
}
