package postgres

import (
	"context"

	"github.com/tdsa-academy/academy-service/internal/models"
	"github.com/tdsa-academy/academy-service/internal/repositories"
	"gorm.io/gorm"
)

type QuizPostgreSQL struct {
	db *gorm.DB
}

func NewQuizPostgreSQL(db *gorm.DB) repositories.QuizRepository {
	return &QuizPostgreSQL{db: db}
}

func (q QuizPostgreSQL) Create(ctx context.Context, quiz *models.Quiz) error {
	return translateError(q.db.WithContext(ctx).Create(quiz).Error)
}

func (q QuizPostgreSQL) GetByID(ctx context.Context, id string) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := q.db.WithContext(ctx).Where("id = ?", id).First(&quiz).Error; err != nil {
		return nil, translateError(err)
	}
	return &quiz, nil
}

func (q QuizPostgreSQL) GetOwned(ctx context.Context, id, creatorID string) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := q.db.WithContext(ctx).
		Where("id = ? AND created_by = ?", id, creatorID).
		First(&quiz).Error; err != nil {
		return nil, translateError(err)
	}
	return &quiz, nil
}

func (q QuizPostgreSQL) Update(ctx context.Context, quiz *models.Quiz) error {
	result := q.db.WithContext(ctx).
		Model(&models.Quiz{}).
		Where("id = ? AND created_by = ?", quiz.ID, quiz.CreatedBy).
		Select("title", "description", "instructions", "is_final_exam", "course_id", "questions", "updated_at").
		Updates(quiz)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (q QuizPostgreSQL) DeleteOwned(ctx context.Context, id, creatorID string) error {
	result := q.db.WithContext(ctx).
		Where("id = ? AND created_by = ?", id, creatorID).
		Delete(&models.Quiz{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (q QuizPostgreSQL) ListByCreator(ctx context.Context, creatorID string) ([]*models.Quiz, error) {
	var quizzes []*models.Quiz
	if err := q.db.WithContext(ctx).
		Where("created_by = ?", creatorID).
		Order("created_at DESC").
		Find(&quizzes).Error; err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (q QuizPostgreSQL) ListByCourse(ctx context.Context, courseID string) ([]*models.Quiz, error) {
	var quizzes []*models.Quiz
	if err := q.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("created_at DESC").
		Find(&quizzes).Error; err != nil {
		return nil, err
	}
	return quizzes, nil
}
