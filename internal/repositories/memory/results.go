package memory

import (
	"cmp"
	"context"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/tdsa-academy/academy-service/internal/models"
	"github.com/tdsa-academy/academy-service/internal/repositories"
)

type resultStore struct{ s *Store }

func (r resultStore) CreateWithinLimit(ctx context.Context, result *models.QuizResult, limit int) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.countLocked(result.StudentID, result.QuizID) >= limit {
		return repositories.ErrLimitReached
	}
	if _, ok := r.s.results[result.ID]; ok {
		return repositories.ErrDuplicate
	}
	if result.AttemptedAt.IsZero() {
		result.AttemptedAt = time.Now()
	}
	r.s.results[result.ID] = *result
	r.s.track(result.ID)
	return nil
}

func (r resultStore) GetByID(ctx context.Context, id string) (*models.QuizResult, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result, ok := r.s.results[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &result, nil
}

func (r resultStore) CountByStudentAndQuiz(ctx context.Context, studentID, quizID string) (int, error) {
	if err := ctxErr(ctx); err != nil {
		return 0, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.countLocked(studentID, quizID), nil
}

func (r resultStore) countLocked(studentID, quizID string) int {
	n := 0
	for _, result := range r.s.results {
		if result.StudentID == studentID && result.QuizID == quizID {
			n++
		}
	}
	return n
}

func (r resultStore) ListByStudentAndQuiz(ctx context.Context, studentID, quizID string) ([]*models.QuizResult, error) {
	out, err := r.filter(ctx, func(res models.QuizResult) bool {
		return res.StudentID == studentID && res.QuizID == quizID
	})
	if err != nil {
		return nil, err
	}
	r.sortOldestFirst(out)
	return out, nil
}

func (r resultStore) ListByStudentAndCourse(ctx context.Context, studentID, courseID string) ([]*models.QuizResult, error) {
	out, err := r.filter(ctx, func(res models.QuizResult) bool {
		return res.StudentID == studentID && res.CourseID == courseID
	})
	if err != nil {
		return nil, err
	}
	r.sortOldestFirst(out)
	return out, nil
}

func (r resultStore) ListByQuiz(ctx context.Context, quizID string) ([]*models.QuizResult, error) {
	out, err := r.filter(ctx, func(res models.QuizResult) bool { return res.QuizID == quizID })
	if err != nil {
		return nil, err
	}
	r.sortOldestFirst(out)
	slices.SortStableFunc(out, func(a, b *models.QuizResult) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return out, nil
}

func (r resultStore) MaxCertificateSequence(ctx context.Context, prefix string) (int64, error) {
	if err := ctxErr(ctx); err != nil {
		return 0, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var highest int64
	for _, result := range r.s.results {
		if !result.HasCertificate() || !strings.HasPrefix(*result.CertificateNumber, prefix) {
			continue
		}
		n, err := strconv.ParseInt(strings.TrimPrefix(*result.CertificateNumber, prefix), 10, 64)
		if err != nil {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	return highest, nil
}

func (r resultStore) AssignCertificateNumber(ctx context.Context, id, number string) (bool, error) {
	if err := ctxErr(ctx); err != nil {
		return false, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	result, ok := r.s.results[id]
	if !ok {
		return false, repositories.ErrNotFound
	}
	if result.HasCertificate() {
		return false, nil
	}
	for _, other := range r.s.results {
		if other.HasCertificate() && *other.CertificateNumber == number {
			return false, repositories.ErrDuplicate
		}
	}
	result.CertificateNumber = &number
	r.s.results[id] = result
	return true, nil
}

func (r resultStore) filter(ctx context.Context, keep func(models.QuizResult) bool) ([]*models.QuizResult, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*models.QuizResult, 0)
	for _, result := range r.s.results {
		if keep(result) {
			found := result
			out = append(out, &found)
		}
	}
	return out, nil
}

func (r resultStore) sortOldestFirst(results []*models.QuizResult) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	slices.SortFunc(results, func(a, b *models.QuizResult) int {
		if c := a.AttemptedAt.Compare(b.AttemptedAt); c != 0 {
			return c
		}
		return cmp.Compare(r.s.order[a.ID], r.s.order[b.ID])
	})
}
