package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/tdsa-academy/academy-service/internal/models"
	"github.com/tdsa-academy/academy-service/internal/repositories"
	"github.com/tdsa-academy/academy-service/internal/validator"
)

type reviewService struct {
	repo      repositories.Repository
	validator *validator.Validator
	logger    *ServiceLogger
	now       func() time.Time
}

func NewReviewService(deps Dependencies) ReviewService {
	deps = deps.withDefaults()
	return &reviewService{
		repo:      deps.Repo,
		validator: deps.Validator,
		logger:    NewServiceLogger(deps.Logger, "review"),
		now:       time.Now,
	}
}

func roundRating(v float64) float64 {
	return math.Round(v*10) / 10
}

func (s *reviewService) Create(ctx context.Context, courseID, userID string, req *ReviewRequest) (review *models.Review, err error) {
	op := s.logger.WithOperation(ctx, "create_review", userID)
	defer func() { op.LogResult(courseID, "course", err) }()

	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	if _, err := s.repo.Course().GetByID(ctx, courseID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to load course: %w", err)
	}

	review = &models.Review{
		ID:        uuid.NewString(),
		UserID:    userID,
		CourseID:  courseID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Review().Create(ctx, review); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrAlreadyReviewed
		}
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	if err := s.recompute(ctx, courseID); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewService) ListForCourse(ctx context.Context, courseID string) (*CourseReviews, error) {
	reviews, err := s.repo.Review().ListByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	out := &CourseReviews{Reviews: reviews, TotalReviews: len(reviews)}
	if len(reviews) > 0 {
		sum := 0
		for _, r := range reviews {
			sum += r.Rating
		}
		out.AverageRating = roundRating(float64(sum) / float64(len(reviews)))
	}
	return out, nil
}

func (s *reviewService) AllAverages(ctx context.Context) ([]CourseRating, error) {
	courses, err := s.repo.Course().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	out := make([]CourseRating, 0, len(courses))
	for _, c := range courses {
		out = append(out, CourseRating{
			CourseID:      c.ID,
			Subject:       c.Subject,
			AverageRating: roundRating(c.AverageRating),
			TotalReviews:  c.TotalReviews,
		})
	}
	return out, nil
}

func (s *reviewService) Delete(ctx context.Context, id string) (err error) {
	op := s.logger.WithOperation(ctx, "delete_review", "")
	defer func() { op.LogResult(id, "review", err) }()

	review, err := s.repo.Review().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrReviewNotFound
		}
		return fmt.Errorf("failed to load review: %w", err)
	}

	if err := s.repo.Review().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrReviewNotFound
		}
		return fmt.Errorf("failed to delete review: %w", err)
	}
	return s.recompute(ctx, review.CourseID)
}

// recompute refreshes the denormalized rating stored on the course.
func (s *reviewService) recompute(ctx context.Context, courseID string) error {
	average, total, err := s.repo.Review().Stats(ctx, courseID)
	if err != nil {
		return fmt.Errorf("failed to compute rating: %w", err)
	}
	if err := s.repo.Course().UpdateRating(ctx, courseID, roundRating(average), total); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil
		}
		return fmt.Errorf("failed to update rating: %w", err)
	}
	return nil
}
