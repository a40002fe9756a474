package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tdsa-academy/academy-service/internal/cache"
	"github.com/tdsa-academy/academy-service/internal/events"
	"github.com/tdsa-academy/academy-service/internal/models"
	"github.com/tdsa-academy/academy-service/internal/repositories"
	"github.com/tdsa-academy/academy-service/internal/validator"
	"gorm.io/datatypes"
)

type quizService struct {
	repo      repositories.Repository
	cache     cache.CacheService
	cacheTTL  time.Duration
	publisher events.EventPublisher
	validator *validator.Validator
	better    BetterAttempt
	logger    *ServiceLogger
	now       func() time.Time
}

func NewQuizService(deps Dependencies) QuizService {
	deps = deps.withDefaults()
	return &quizService{
		repo:      deps.Repo,
		cache:     deps.Cache,
		cacheTTL:  deps.QuizCacheTTL,
		publisher: deps.Publisher,
		validator: deps.Validator,
		better:    deps.BetterAttempt,
		logger:    NewServiceLogger(deps.Logger, "quiz"),
		now:       time.Now,
	}
}

func quizCacheKey(id string) string {
	return "quiz:student:" + id
}

func (s *quizService) Create(ctx context.Context, req *QuizRequest, actorID string) (quiz *models.Quiz, err error) {
	op := s.logger.WithOperation(ctx, "create_quiz", actorID)
	defer func() {
		id := ""
		if quiz != nil {
			id = quiz.ID
		}
		op.LogResult(id, "quiz", err)
	}()

	if err := s.validator.ValidateQuiz(req, req.Questions); err != nil {
		return nil, err
	}
	if err := s.ensureAssigned(ctx, actorID, req.CourseID); err != nil {
		return nil, err
	}

	now := s.now()
	quiz = &models.Quiz{
		ID:           uuid.NewString(),
		Title:        req.Title,
		Description:  req.Description,
		Instructions: req.Instructions,
		IsFinalExam:  req.IsFinalExam,
		CourseID:     req.CourseID,
		CreatedBy:    actorID,
		Questions:    datatypes.NewJSONType(assignIDs(req.Questions)),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Quiz().Create(ctx, quiz); err != nil {
		return nil, fmt.Errorf("failed to create quiz: %w", err)
	}

	event := events.NewQuizPublishedEvent(quiz.ID, quiz.Title, quiz.CourseID, quiz.IsFinalExam, actorID)
	if err := s.publisher.PublishEvent(ctx, event); err != nil {
		s.logger.Logger().WarnContext(ctx, "Failed to publish quiz event", "quiz_id", quiz.ID, "error", err)
	}

	return quiz, nil
}

func (s *quizService) Update(ctx context.Context, id string, req *QuizRequest, actorID string) (quiz *models.Quiz, err error) {
	op := s.logger.WithOperation(ctx, "update_quiz", actorID)
	defer func() { op.LogResult(id, "quiz", err) }()

	if err := s.validator.ValidateQuiz(req, req.Questions); err != nil {
		return nil, err
	}

	quiz, err = s.repo.Quiz().GetOwned(ctx, id, actorID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotOwned
		}
		return nil, fmt.Errorf("failed to load quiz: %w", err)
	}

	if req.CourseID != quiz.CourseID {
		if err := s.ensureAssigned(ctx, actorID, req.CourseID); err != nil {
			return nil, err
		}
	}

	quiz.Title = req.Title
	quiz.Description = req.Description
	quiz.Instructions = req.Instructions
	quiz.IsFinalExam = req.IsFinalExam
	quiz.CourseID = req.CourseID
	quiz.Questions = datatypes.NewJSONType(assignIDs(req.Questions))
	quiz.UpdatedAt = s.now()

	if err := s.repo.Quiz().Update(ctx, quiz); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotOwned
		}
		return nil, fmt.Errorf("failed to update quiz: %w", err)
	}

	s.invalidate(ctx, id)
	return quiz, nil
}

func (s *quizService) Delete(ctx context.Context, id, actorID string) (err error) {
	op := s.logger.WithOperation(ctx, "delete_quiz", actorID)
	defer func() { op.LogResult(id, "quiz", err) }()

	if err := s.repo.Quiz().DeleteOwned(ctx, id, actorID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrQuizNotOwned
		}
		return fmt.Errorf("failed to delete quiz: %w", err)
	}

	s.invalidate(ctx, id)
	return nil
}

func (s *quizService) ListForStudent(ctx context.Context, courseID, studentID string) ([]*StudentQuizSummary, error) {
	quizzes, err := s.repo.Quiz().ListByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}

	results, err := s.repo.Result().ListByStudentAndCourse(ctx, studentID, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}

	byQuiz := make(map[string][]*models.QuizResult)
	for _, r := range results {
		byQuiz[r.QuizID] = append(byQuiz[r.QuizID], r)
	}

	out := make([]*StudentQuizSummary, 0, len(quizzes))
	for _, q := range quizzes {
		attempts := byQuiz[q.ID]
		summary := &StudentQuizSummary{
			StudentQuiz:   q.Sanitize(),
			AttemptsCount: len(attempts),
			Attempted:     len(attempts) > 0,
			CanAttempt:    len(attempts) < MaxAttempts,
			TotalMarks:    len(q.QuestionList()),
		}
		if best := bestOf(attempts, s.better); best != nil {
			score := best.Score
			summary.Score = &score
		}
		out = append(out, summary)
	}
	return out, nil
}

func (s *quizService) GetForAttempt(ctx context.Context, quizID string) (*models.StudentQuiz, error) {
	var cached models.StudentQuiz
	err := s.cache.Get(ctx, quizCacheKey(quizID), &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Logger().WarnContext(ctx, "Quiz cache read failed", "quiz_id", quizID, "error", err)
	}

	quiz, err := s.repo.Quiz().GetByID(ctx, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to load quiz: %w", err)
	}

	sanitized := quiz.Sanitize()
	if err := s.cache.Set(ctx, quizCacheKey(quizID), sanitized, s.cacheTTL); err != nil {
		s.logger.Logger().WarnContext(ctx, "Quiz cache write failed", "quiz_id", quizID, "error", err)
	}
	return sanitized, nil
}

func (s *quizService) ListForFaculty(ctx context.Context, actorID string) ([]*models.Quiz, error) {
	quizzes, err := s.repo.Quiz().ListByCreator(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}
	return quizzes, nil
}

func (s *quizService) ListByCourse(ctx context.Context, courseID string) ([]QuizOption, error) {
	quizzes, err := s.repo.Quiz().ListByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}
	out := make([]QuizOption, 0, len(quizzes))
	for _, q := range quizzes {
		out = append(out, QuizOption{ID: q.ID, Title: q.Title})
	}
	return out, nil
}

func (s *quizService) ensureAssigned(ctx context.Context, actorID, courseID string) error {
	assigned, err := s.repo.FacultyCourse().Exists(ctx, actorID, courseID)
	if err != nil {
		return fmt.Errorf("failed to check course assignment: %w", err)
	}
	if !assigned {
		return ErrNotAssignedToCourse
	}
	return nil
}

func (s *quizService) invalidate(ctx context.Context, id string) {
	if err := s.cache.Delete(ctx, quizCacheKey(id)); err != nil {
		s.logger.Logger().WarnContext(ctx, "Quiz cache invalidation failed", "quiz_id", id, "error", err)
	}
}

// assignIDs copies questions, giving every question and option without an id
// a fresh one. Existing ids are kept so stored answers stay resolvable.
func assignIDs(questions []models.Question) []models.Question {
	out := make([]models.Question, len(questions))
	for i, q := range questions {
		if q.ID == "" {
			q.ID = uuid.NewString()
		}
		options := make([]models.Option, len(q.Options))
		for j, opt := range q.Options {
			if opt.ID == "" {
				opt.ID = uuid.NewString()
			}
			options[j] = opt
		}
		q.Options = options
		out[i] = q
	}
	return out
}
