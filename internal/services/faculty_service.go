package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tdsa-academy/academy-service/internal/models"
	"github.com/tdsa-academy/academy-service/internal/repositories"
	"github.com/tdsa-academy/academy-service/internal/validator"
)

type facultyService struct {
	repo      repositories.Repository
	validator *validator.Validator
	logger    *ServiceLogger
	now       func() time.Time
}

func NewFacultyService(deps Dependencies) FacultyService {
	deps = deps.withDefaults()
	return &facultyService{
		repo:      deps.Repo,
		validator: deps.Validator,
		logger:    NewServiceLogger(deps.Logger, "faculty"),
		now:       time.Now,
	}
}

func (s *facultyService) AssignCourse(ctx context.Context, req *AssignCourseRequest) (assignment *models.FacultyCourse, err error) {
	op := s.logger.WithOperation(ctx, "assign_course", req.FacultyID)
	defer func() { op.LogResult(req.CourseID, "course", err) }()

	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	faculty, err := s.repo.Account().GetByID(ctx, req.FacultyID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewValidationError("facultyId", "Faculty account not found", req.FacultyID)
		}
		return nil, fmt.Errorf("failed to load faculty: %w", err)
	}
	if faculty.Role != models.RoleFaculty {
		return nil, NewValidationError("facultyId", "Account is not a faculty member", req.FacultyID)
	}

	course, err := s.repo.Course().GetByID(ctx, req.CourseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to load course: %w", err)
	}

	assignment = &models.FacultyCourse{
		ID:            uuid.NewString(),
		FacultyID:     faculty.ID,
		CourseID:      course.ID,
		CourseSubject: course.Subject,
		AssignedAt:    s.now().UTC(),
	}
	if err := s.repo.FacultyCourse().Create(ctx, assignment); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrAlreadyAssigned
		}
		return nil, fmt.Errorf("failed to assign course: %w", err)
	}
	return assignment, nil
}

func (s *facultyService) AssignedCourses(ctx context.Context, facultyID string) ([]*models.FacultyCourse, error) {
	assignments, err := s.repo.FacultyCourse().ListByFaculty(ctx, facultyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assigned courses: %w", err)
	}
	return assignments, nil
}
