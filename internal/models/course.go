package models

import (
	"time"

	"gorm.io/datatypes"
)

type CourseLevel string

const (
	LevelBeginner     CourseLevel = "Beginner"
	LevelIntermediate CourseLevel = "Intermediate"
	LevelAdvanced     CourseLevel = "Advanced"
)

type Mentor struct {
	Name        string `json:"name" validate:"required,max=100"`
	Designation string `json:"designation,omitempty" validate:"max=100"`
	Photo       string `json:"photo,omitempty"`
	FacultyID   string `json:"facultyId,omitempty"`
}

type Course struct {
	ID            string                       `json:"id" gorm:"primaryKey;size:36"`
	Subject       string                       `json:"subject" gorm:"uniqueIndex;not null;size:200"`
	Description   string                       `json:"description" gorm:"type:text"`
	Duration      string                       `json:"duration" gorm:"size:50"`
	Level         CourseLevel                  `json:"level" gorm:"size:20;default:Beginner"`
	Thumbnail     *string                      `json:"thumbnail,omitempty" gorm:"size:500"`
	Mentors       datatypes.JSONType[[]Mentor] `json:"mentors" gorm:"type:jsonb"`
	AverageRating float64                      `json:"averageRating" gorm:"default:0"`
	TotalReviews  int                          `json:"totalReviews" gorm:"default:0"`
	CreatedAt     time.Time                    `json:"createdAt"`
	UpdatedAt     time.Time                    `json:"updatedAt"`
}

func (Course) TableName() string {
	return "courses"
}

// PrimaryMentor is the mentor recorded against the course, or "" if none.
func (c *Course) PrimaryMentor() string {
	for _, m := range c.Mentors.Data() {
		if m.Name != "" {
			return m.Name
		}
	}
	return ""
}
