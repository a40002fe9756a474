package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/tdsa-academy/academy-service/internal/models"
	"github.com/tdsa-academy/academy-service/internal/repositories"
)

type quizStore struct{ s *Store }

func (q quizStore) Create(ctx context.Context, quiz *models.Quiz) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	q.s.mu.Lock()
	defer q.s.mu.Unlock()

	if _, ok := q.s.quizzes[quiz.ID]; ok {
		return repositories.ErrDuplicate
	}
	now := time.Now()
	if quiz.CreatedAt.IsZero() {
		quiz.CreatedAt = now
	}
	quiz.UpdatedAt = now
	q.s.quizzes[quiz.ID] = *quiz
	q.s.track(quiz.ID)
	return nil
}

func (q quizStore) GetByID(ctx context.Context, id string) (*models.Quiz, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	q.s.mu.RLock()
	defer q.s.mu.RUnlock()

	quiz, ok := q.s.quizzes[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &quiz, nil
}

func (q quizStore) GetOwned(ctx context.Context, id, creatorID string) (*models.Quiz, error) {
	quiz, err := q.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if quiz.CreatedBy != creatorID {
		return nil, repositories.ErrNotFound
	}
	return quiz, nil
}

func (q quizStore) Update(ctx context.Context, quiz *models.Quiz) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	q.s.mu.Lock()
	defer q.s.mu.Unlock()

	if _, ok := q.s.quizzes[quiz.ID]; !ok {
		return repositories.ErrNotFound
	}
	quiz.UpdatedAt = time.Now()
	q.s.quizzes[quiz.ID] = *quiz
	return nil
}

func (q quizStore) DeleteOwned(ctx context.Context, id, creatorID string) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	q.s.mu.Lock()
	defer q.s.mu.Unlock()

	quiz, ok := q.s.quizzes[id]
	if !ok || quiz.CreatedBy != creatorID {
		return repositories.ErrNotFound
	}
	delete(q.s.quizzes, id)
	return nil
}

func (q quizStore) ListByCreator(ctx context.Context, creatorID string) ([]*models.Quiz, error) {
	return q.list(ctx, func(quiz models.Quiz) bool { return quiz.CreatedBy == creatorID })
}

func (q quizStore) ListByCourse(ctx context.Context, courseID string) ([]*models.Quiz, error) {
	return q.list(ctx, func(quiz models.Quiz) bool { return quiz.CourseID == courseID })
}

// list returns matching quizzes newest first.
func (q quizStore) list(ctx context.Context, keep func(models.Quiz) bool) ([]*models.Quiz, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	q.s.mu.RLock()
	defer q.s.mu.RUnlock()

	out := make([]*models.Quiz, 0)
	for _, quiz := range q.s.quizzes {
		if keep(quiz) {
			found := quiz
			out = append(out, &found)
		}
	}
	slices.SortFunc(out, func(a, b *models.Quiz) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(q.s.order[b.ID], q.s.order[a.ID])
	})
	return out, nil
}
