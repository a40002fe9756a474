package postgres

import (
	"context"

	"github.com/tdsa-academy/academy-service/internal/models"
	"github.com/tdsa-academy/academy-service/internal/repositories"
	"gorm.io/gorm"
)

type EnrollmentPostgreSQL struct {
	db *gorm.DB
}

func NewEnrollmentPostgreSQL(db *gorm.DB) repositories.EnrollmentRepository {
	return &EnrollmentPostgreSQL{db: db}
}

func (e EnrollmentPostgreSQL) Create(ctx context.Context, enrollment *models.Enrollment) error {
	return translateError(e.db.WithContext(ctx).Create(enrollment).Error)
}

func (e EnrollmentPostgreSQL) GetByID(ctx context.Context, id string) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := e.db.WithContext(ctx).Where("id = ?", id).First(&enrollment).Error; err != nil {
		return nil, translateError(err)
	}
	return &enrollment, nil
}

func (e EnrollmentPostgreSQL) ListByStudent(ctx context.Context, studentID string) ([]*models.Enrollment, error) {
	return e.list(ctx, e.db.WithContext(ctx).Where("student_id = ?", studentID))
}

func (e EnrollmentPostgreSQL) ListByCourse(ctx context.Context, courseID string) ([]*models.Enrollment, error) {
	return e.list(ctx, e.db.WithContext(ctx).Where("course_id = ?", courseID))
}

func (e EnrollmentPostgreSQL) List(ctx context.Context) ([]*models.Enrollment, error) {
	return e.list(ctx, e.db.WithContext(ctx))
}

func (e EnrollmentPostgreSQL) list(_ context.Context, query *gorm.DB) ([]*models.Enrollment, error) {
	var enrollments []*models.Enrollment
	if err := query.Order("enrolled_at DESC").Find(&enrollments).Error; err != nil {
		return nil, err
	}
	return enrollments, nil
}

func (e EnrollmentPostgreSQL) Delete(ctx context.Context, id string) error {
	result := e.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Enrollment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (e EnrollmentPostgreSQL) DeleteAll(ctx context.Context) (int64, error) {
	result := e.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.Enrollment{})
	return result.RowsAffected, result.Error
}

type FacultyCoursePostgreSQL struct {
	db *gorm.DB
}

func NewFacultyCoursePostgreSQL(db *gorm.DB) repositories.FacultyCourseRepository {
	return &FacultyCoursePostgreSQL{db: db}
}

func (f FacultyCoursePostgreSQL) Create(ctx context.Context, assignment *models.FacultyCourse) error {
	return translateError(f.db.WithContext(ctx).Create(assignment).Error)
}

func (f FacultyCoursePostgreSQL) ListByFaculty(ctx context.Context, facultyID string) ([]*models.FacultyCourse, error) {
	var assignments []*models.FacultyCourse
	if err := f.db.WithContext(ctx).
		Where("faculty_id = ?", facultyID).
		Order("assigned_at ASC").
		Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

func (f FacultyCoursePostgreSQL) Exists(ctx context.Context, facultyID, courseID string) (bool, error) {
	var count int64
	if err := f.db.WithContext(ctx).
		Model(&models.FacultyCourse{}).
		Where("faculty_id = ? AND course_id = ?", facultyID, courseID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
