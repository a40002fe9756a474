package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tdsa-academy/academy-service/internal/events"
	"github.com/tdsa-academy/academy-service/internal/grading"
	"github.com/tdsa-academy/academy-service/internal/models"
	"github.com/tdsa-academy/academy-service/internal/repositories"
	"github.com/tdsa-academy/academy-service/internal/storage"
	"gorm.io/datatypes"
)

// BetterAttempt reports whether candidate should replace the current best.
// Attempts are offered oldest first.
type BetterAttempt func(candidate, best *models.QuizResult) bool

// HigherScore replaces the best only on a strictly higher score, so the
// earliest attempt wins a tie.
func HigherScore(candidate, best *models.QuizResult) bool {
	return candidate.Score > best.Score
}

// LatestOnTie prefers the most recent attempt among equal scores.
func LatestOnTie(candidate, best *models.QuizResult) bool {
	return candidate.Score >= best.Score
}

func bestOf(attempts []*models.QuizResult, better BetterAttempt) *models.QuizResult {
	var best *models.QuizResult
	for _, a := range attempts {
		if best == nil || better(a, best) {
			best = a
		}
	}
	return best
}

type attemptService struct {
	repo        repositories.Repository
	blobs       storage.BlobStore
	publisher   events.EventPublisher
	better      BetterAttempt
	callTimeout time.Duration
	logger      *ServiceLogger
	now         func() time.Time
}

func NewAttemptService(deps Dependencies) AttemptService {
	deps = deps.withDefaults()
	return &attemptService{
		repo:        deps.Repo,
		blobs:       deps.Blobs,
		publisher:   deps.Publisher,
		better:      deps.BetterAttempt,
		callTimeout: deps.CallTimeout,
		logger:      NewServiceLogger(deps.Logger, "attempt"),
		now:         time.Now,
	}
}

func (s *attemptService) CanAttempt(ctx context.Context, studentID, quizID string) (bool, error) {
	count, err := s.repo.Result().CountByStudentAndQuiz(ctx, studentID, quizID)
	if err != nil {
		return false, fmt.Errorf("failed to count attempts: %w", err)
	}
	return count < MaxAttempts, nil
}

func (s *attemptService) Submit(ctx context.Context, req *SubmitRequest) (resp *SubmitResponse, err error) {
	op := s.logger.WithOperation(ctx, "submit_attempt", req.StudentID)
	defer func() { op.LogResult(req.QuizID, "quiz", err) }()

	quiz, err := s.repo.Quiz().GetByID(ctx, req.QuizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to load quiz: %w", err)
	}

	// Cheap early rejection; the insert below enforces the cap atomically.
	allowed, err := s.CanAttempt(ctx, req.StudentID, req.QuizID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrAttemptLimitExceeded
	}

	if quiz.IsFinalExam && req.File == nil {
		return nil, NewValidationError("answerSheet", "Final exam submissions require an answer sheet file", nil)
	}

	outcome := grading.Grade(quiz.QuestionList(), req.Responses)

	var fileURL *string
	if req.File != nil {
		url, err := s.upload(ctx, req.File)
		if err != nil {
			return nil, err
		}
		fileURL = &url
	}

	result := &models.QuizResult{
		ID:             uuid.NewString(),
		StudentID:      req.StudentID,
		QuizID:         quiz.ID,
		CourseID:       quiz.CourseID,
		Score:          outcome.Score,
		TotalMarks:     outcome.TotalQuestions,
		TotalQuestions: outcome.TotalQuestions,
		CorrectAnswers: outcome.CorrectAnswers,
		WrongAnswers:   outcome.WrongAnswers,
		Answers:        datatypes.NewJSONType(outcome.AnswerDetails()),
		SubmittedFile:  fileURL,
		AttemptedAt:    s.now().UTC(),
	}

	if err := s.repo.Result().CreateWithinLimit(ctx, result, MaxAttempts); err != nil {
		if errors.Is(err, repositories.ErrLimitReached) {
			if fileURL != nil {
				s.logger.Logger().WarnContext(ctx, "Answer sheet orphaned by rejected attempt", "file_url", *fileURL)
			}
			return nil, ErrAttemptLimitExceeded
		}
		return nil, fmt.Errorf("failed to save attempt: %w", err)
	}

	event := events.NewAttemptSubmittedEvent(result.ID, quiz.ID, quiz.Title, req.StudentID, result.Score, result.TotalQuestions, result.AttemptedAt)
	if err := s.publisher.PublishEvent(ctx, event); err != nil {
		s.logger.Logger().WarnContext(ctx, "Failed to publish attempt event", "result_id", result.ID, "error", err)
	}

	return &SubmitResponse{
		Message:        "Submitted successfully",
		ResultID:       result.ID,
		Score:          outcome.Score,
		TotalQuestions: outcome.TotalQuestions,
		CorrectAnswers: outcome.CorrectAnswers,
		WrongAnswers:   outcome.WrongAnswers,
		Details:        outcome.Details,
		FileURL:        fileURL,
	}, nil
}

func (s *attemptService) upload(ctx context.Context, file *FileUpload) (string, error) {
	if s.blobs == nil {
		return "", errors.New("file uploads are not configured")
	}
	uploadCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	url, err := s.blobs.Upload(uploadCtx, file.Filename, file.Content)
	if err != nil {
		return "", fmt.Errorf("failed to upload answer sheet: %w", err)
	}
	return url, nil
}

func (s *attemptService) BestAttempt(ctx context.Context, studentID, quizID string) (*models.QuizResult, error) {
	attempts, err := s.repo.Result().ListByStudentAndQuiz(ctx, studentID, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	best := bestOf(attempts, s.better)
	if best == nil {
		return nil, ErrResultNotFound
	}
	return best, nil
}

func (s *attemptService) AttemptStatus(ctx context.Context, studentID, quizID string) (*AttemptStatus, error) {
	quiz, err := s.repo.Quiz().GetByID(ctx, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to load quiz: %w", err)
	}

	attempts, err := s.repo.Result().ListByStudentAndQuiz(ctx, studentID, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}

	status := &AttemptStatus{
		CanAttempt:    len(attempts) < MaxAttempts,
		AttemptsCount: len(attempts),
		TotalMarks:    len(quiz.QuestionList()),
	}
	if best := bestOf(attempts, s.better); best != nil {
		status.BestScore = best.Score
	}
	return status, nil
}

func (s *attemptService) History(ctx context.Context, studentID, quizID string) ([]*models.QuizResult, error) {
	attempts, err := s.repo.Result().ListByStudentAndQuiz(ctx, studentID, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	out := make([]*models.QuizResult, 0, len(attempts))
	for i := len(attempts) - 1; i >= 0; i-- {
		out = append(out, attempts[i])
	}
	return out, nil
}

func (s *attemptService) GetResult(ctx context.Context, resultID string) (*ResultView, error) {
	result, err := s.repo.Result().GetByID(ctx, resultID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to load result: %w", err)
	}

	return &ResultView{
		ID:                result.ID,
		Score:             result.Score,
		TotalMarks:        result.TotalMarks,
		TotalQuestions:    result.TotalQuestions,
		CorrectAnswers:    result.CorrectAnswers,
		WrongAnswers:      result.WrongAnswers,
		SubmittedFile:     result.SubmittedFile,
		CertificateNumber: result.CertificateNumber,
		Details:           result.AnswerList(),
	}, nil
}

func (s *attemptService) ResultsForQuiz(ctx context.Context, quizID string) ([]*StudentResult, error) {
	results, err := s.repo.Result().ListByQuiz(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}

	students, err := studentRefs(ctx, s.repo, studentIDsOf(results))
	if err != nil {
		return nil, err
	}

	out := make([]*StudentResult, 0, len(results))
	for _, r := range results {
		out = append(out, &StudentResult{QuizResult: r, Student: students[r.StudentID]})
	}
	return out, nil
}

func studentIDsOf(results []*models.QuizResult) []string {
	seen := make(map[string]struct{}, len(results))
	ids := make([]string, 0, len(results))
	for _, r := range results {
		if _, ok := seen[r.StudentID]; !ok {
			seen[r.StudentID] = struct{}{}
			ids = append(ids, r.StudentID)
		}
	}
	return ids
}

// studentRefs loads accounts by id. Missing accounts are simply absent from the map.
func studentRefs(ctx context.Context, repo repositories.Repository, ids []string) (map[string]*StudentRef, error) {
	out := make(map[string]*StudentRef, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	accounts, err := repo.Account().GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load students: %w", err)
	}
	for _, a := range accounts {
		out[a.ID] = &StudentRef{ID: a.ID, Name: a.Name, Email: a.Email}
	}
	return out, nil
}
