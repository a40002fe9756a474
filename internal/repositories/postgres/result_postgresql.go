package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	"github.com/tdsa-academy/academy-service/internal/models"
	"github.com/tdsa-academy/academy-service/internal/repositories"
	"gorm.io/gorm"
)

type ResultPostgreSQL struct {
	db *gorm.DB
}

func NewResultPostgreSQL(db *gorm.DB) repositories.ResultRepository {
	return &ResultPostgreSQL{db: db}
}

// CreateWithinLimit serializes submissions for one (student, quiz) pair with a
// transaction-scoped advisory lock, so the count and the insert see the same state.
func (r ResultPostgreSQL) CreateWithinLimit(ctx context.Context, result *models.QuizResult, limit int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lockKey := result.StudentID + ":" + result.QuizID
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", lockKey).Error; err != nil {
			return fmt.Errorf("failed to lock attempts: %w", err)
		}

		var count int64
		if err := tx.Model(&models.QuizResult{}).
			Where("student_id = ? AND quiz_id = ?", result.StudentID, result.QuizID).
			Count(&count).Error; err != nil {
			return err
		}
		if count >= int64(limit) {
			return repositories.ErrLimitReached
		}

		return translateError(tx.Create(result).Error)
	})
}

func (r ResultPostgreSQL) GetByID(ctx context.Context, id string) (*models.QuizResult, error) {
	var result models.QuizResult
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&result).Error; err != nil {
		return nil, translateError(err)
	}
	return &result, nil
}

func (r ResultPostgreSQL) CountByStudentAndQuiz(ctx context.Context, studentID, quizID string) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.QuizResult{}).
		Where("student_id = ? AND quiz_id = ?", studentID, quizID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r ResultPostgreSQL) ListByStudentAndQuiz(ctx context.Context, studentID, quizID string) ([]*models.QuizResult, error) {
	var results []*models.QuizResult
	if err := r.db.WithContext(ctx).
		Where("student_id = ? AND quiz_id = ?", studentID, quizID).
		Order("attempted_at ASC, id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r ResultPostgreSQL) ListByStudentAndCourse(ctx context.Context, studentID, courseID string) ([]*models.QuizResult, error) {
	var results []*models.QuizResult
	if err := r.db.WithContext(ctx).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		Order("attempted_at ASC, id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r ResultPostgreSQL) ListByQuiz(ctx context.Context, quizID string) ([]*models.QuizResult, error) {
	var results []*models.QuizResult
	if err := r.db.WithContext(ctx).
		Where("quiz_id = ?", quizID).
		Order("score DESC, attempted_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r ResultPostgreSQL) MaxCertificateSequence(ctx context.Context, prefix string) (int64, error) {
	var highest sql.NullInt64
	pattern := "^" + regexp.QuoteMeta(prefix) + "[0-9]+$"
	if err := r.db.WithContext(ctx).
		Model(&models.QuizResult{}).
		Select(maxSuffixExpr(prefix)).
		Where("certificate_number ~ ?", pattern).
		Scan(&highest).Error; err != nil {
		return 0, err
	}
	if !highest.Valid {
		return 0, nil
	}
	return highest.Int64, nil
}

// maxSuffixExpr writes the substring offset as an integer literal. A bound
// parameter there is untyped and resolves to the regex form of SUBSTRING.
func maxSuffixExpr(prefix string) string {
	return fmt.Sprintf("MAX(CAST(SUBSTRING(certificate_number FROM %d) AS BIGINT))", len(prefix)+1)
}

func (r ResultPostgreSQL) AssignCertificateNumber(ctx context.Context, id, number string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.QuizResult{}).
		Where("id = ? AND certificate_number IS NULL", id).
		Update("certificate_number", number)
	if result.Error != nil {
		return false, translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return false, err
		}
		return false, nil
	}
	return true, nil
}
