package postgres

import (
	"context"
	"fmt"

	"github.com/tdsa-academy/academy-service/internal/models"
	"github.com/tdsa-academy/academy-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SequencePostgreSQL struct {
	db *gorm.DB
}

func NewSequencePostgreSQL(db *gorm.DB) repositories.SequenceRepository {
	return &SequencePostgreSQL{db: db}
}

// Next increments the named counter row in one statement. The row is created
// from seed the first time; a concurrent creator wins and its seed is used.
func (s SequencePostgreSQL) Next(ctx context.Context, name string, seed func(ctx context.Context) (int64, error)) (int64, error) {
	for attempt := 0; attempt < 2; attempt++ {
		var value int64
		result := s.db.WithContext(ctx).
			Raw("UPDATE sequences SET value = value + 1 WHERE name = ? RETURNING value", name).
			Scan(&value)
		if result.Error != nil {
			return 0, result.Error
		}
		if result.RowsAffected > 0 {
			return value, nil
		}

		start, err := seed(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to seed sequence %s: %w", name, err)
		}
		if err := s.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Sequence{Name: name, Value: start}).Error; err != nil {
			return 0, err
		}
	}
	return 0, fmt.Errorf("sequence %s could not be advanced", name)
}
