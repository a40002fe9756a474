package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tdsa-academy/academy-service/internal/models"
	"github.com/tdsa-academy/academy-service/internal/repositories"
	"github.com/tdsa-academy/academy-service/internal/storage"
	"github.com/tdsa-academy/academy-service/internal/validator"
	"gorm.io/datatypes"
)

type courseService struct {
	repo        repositories.Repository
	blobs       storage.BlobStore
	validator   *validator.Validator
	callTimeout time.Duration
	logger      *ServiceLogger
	now         func() time.Time
}

func NewCourseService(deps Dependencies) CourseService {
	deps = deps.withDefaults()
	return &courseService{
		repo:        deps.Repo,
		blobs:       deps.Blobs,
		validator:   deps.Validator,
		callTimeout: deps.CallTimeout,
		logger:      NewServiceLogger(deps.Logger, "course"),
		now:         time.Now,
	}
}

func (s *courseService) Create(ctx context.Context, req *CourseRequest, thumbnail *FileUpload) (course *models.Course, err error) {
	op := s.logger.WithOperation(ctx, "create_course", "")
	defer func() {
		id := ""
		if course != nil {
			id = course.ID
		}
		op.LogResult(id, "course", err)
	}()

	req.Subject = strings.TrimSpace(req.Subject)
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	level := models.CourseLevel(req.Level)
	if level == "" {
		level = models.LevelBeginner
	}

	now := s.now()
	course = &models.Course{
		ID:          uuid.NewString(),
		Subject:     req.Subject,
		Description: req.Description,
		Duration:    req.Duration,
		Level:       level,
		Mentors:     datatypes.NewJSONType(req.Mentors),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// A failed thumbnail upload leaves the course without one.
	if thumbnail != nil && s.blobs != nil {
		uploadCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
		url, err := s.blobs.Upload(uploadCtx, thumbnail.Filename, thumbnail.Content)
		cancel()
		if err != nil {
			s.logger.Logger().WarnContext(ctx, "Thumbnail upload failed", "subject", req.Subject, "error", err)
		} else {
			course.Thumbnail = &url
		}
	}

	if err := s.repo.Course().Create(ctx, course); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrCourseExists
		}
		return nil, fmt.Errorf("failed to create course: %w", err)
	}
	return course, nil
}

func (s *courseService) Get(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.repo.Course().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to load course: %w", err)
	}
	return course, nil
}

func (s *courseService) List(ctx context.Context) ([]*models.Course, error) {
	courses, err := s.repo.Course().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, nil
}

func (s *courseService) Delete(ctx context.Context, id string) (err error) {
	op := s.logger.WithOperation(ctx, "delete_course", "")
	defer func() { op.LogResult(id, "course", err) }()

	if err := s.repo.Course().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrCourseNotFound
		}
		return fmt.Errorf("failed to delete course: %w", err)
	}
	return nil
}
