package postgres

import (
	"context"

	"github.com/tdsa-academy/academy-service/internal/models"
	"github.com/tdsa-academy/academy-service/internal/repositories"
	"gorm.io/gorm"
)

type CoursePostgreSQL struct {
	db *gorm.DB
}

func NewCoursePostgreSQL(db *gorm.DB) repositories.CourseRepository {
	return &CoursePostgreSQL{db: db}
}

func (c CoursePostgreSQL) Create(ctx context.Context, course *models.Course) error {
	return translateError(c.db.WithContext(ctx).Create(course).Error)
}

func (c CoursePostgreSQL) GetByID(ctx context.Context, id string) (*models.Course, error) {
	var course models.Course
	if err := c.db.WithContext(ctx).Where("id = ?", id).First(&course).Error; err != nil {
		return nil, translateError(err)
	}
	return &course, nil
}

func (c CoursePostgreSQL) GetByIDs(ctx context.Context, ids []string) ([]*models.Course, error) {
	var courses []*models.Course
	if len(ids) == 0 {
		return courses, nil
	}
	if err := c.db.WithContext(ctx).Where("id IN ?", ids).Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (c CoursePostgreSQL) List(ctx context.Context) ([]*models.Course, error) {
	var courses []*models.Course
	if err := c.db.WithContext(ctx).Order("created_at DESC").Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (c CoursePostgreSQL) Delete(ctx context.Context, id string) error {
	result := c.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Course{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (c CoursePostgreSQL) UpdateRating(ctx context.Context, id string, average float64, total int) error {
	result := c.db.WithContext(ctx).
		Model(&models.Course{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"average_rating": average,
			"total_reviews":  total,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
